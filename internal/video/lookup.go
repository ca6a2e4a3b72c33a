// Package video looks up demonstration videos for a selected exercise.
//
// Every search gets a new generation number. Only the result whose
// generation matches the latest search may change the displayed state, so
// the most recently started search wins regardless of completion order.
package video

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/fitcoach/internal/api"
	"github.com/zjrosen/fitcoach/internal/cachemanager"
	"github.com/zjrosen/fitcoach/internal/config"
	"github.com/zjrosen/fitcoach/internal/log"
)

// DefaultLevel is substituted when no experience level is known.
const DefaultLevel = "beginners"

const techniqueQualifier = "form technique"

// Query builds the search string for an exercise at an experience level.
func Query(exercise, level string) string {
	level = strings.TrimSpace(level)
	if level == "" {
		level = DefaultLevel
	}
	return strings.TrimSpace(exercise) + " " + level + " " + techniqueQualifier
}

// Searcher is the video-search collaborator.
type Searcher interface {
	SearchVideos(ctx context.Context, query string, maxResults int) ([]api.Video, error)
}

// State is the read-only view of the current search.
type State struct {
	Query    string
	Videos   []api.Video
	Selected int // index into Videos, -1 when none
	Loading  bool
	Err      string
}

// SelectedVideo returns the highlighted video.
func (s State) SelectedVideo() (api.Video, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Videos) {
		return api.Video{}, false
	}
	return s.Videos[s.Selected], true
}

// ResultMsg carries the outcome of one search.
type ResultMsg struct {
	Generation uint64
	Query      string
	Videos     []api.Video
	Cached     bool
	Err        error
}

// Lookup owns the video search state.
type Lookup struct {
	search       *cachemanager.ReadThroughCache[string, []api.Video, string]
	cache        cachemanager.CacheManager[string, []api.Video]
	cacheTTL     time.Duration
	maxResults   int
	defaultLevel string

	generation uint64
	cancel     context.CancelFunc
	state      State
}

// Option configures a Lookup.
type Option func(*Lookup)

// WithCache keeps results per query in an in-memory cache until Reset.
func WithCache(cache cachemanager.CacheManager[string, []api.Video], ttl time.Duration) Option {
	return func(l *Lookup) {
		l.cache = cache
		l.cacheTTL = ttl
	}
}

// WithMaxResults sets how many videos each search requests.
func WithMaxResults(n int) Option {
	return func(l *Lookup) {
		if n > 0 {
			l.maxResults = n
		}
	}
}

// WithDefaultLevel overrides DefaultLevel.
func WithDefaultLevel(level string) Option {
	return func(l *Lookup) {
		if level != "" {
			l.defaultLevel = level
		}
	}
}

// NewLookup creates an empty lookup backed by s.
func NewLookup(s Searcher, opts ...Option) *Lookup {
	l := &Lookup{
		maxResults:   10,
		defaultLevel: DefaultLevel,
		state:        State{Selected: -1},
	}
	for _, opt := range opts {
		opt(l)
	}
	maxResults := l.maxResults
	l.search = cachemanager.NewReadThroughCache(l.cache, l.cacheTTL,
		func(ctx context.Context, query string) ([]api.Video, error) {
			return s.SearchVideos(ctx, query, maxResults)
		})
	return l
}

// NewLookupFromConfig wires the video config section.
func NewLookupFromConfig(s Searcher, cfg config.VideoConfig) *Lookup {
	return NewLookup(s,
		WithMaxResults(cfg.MaxResults),
		WithDefaultLevel(cfg.DefaultLevel),
		WithCache(cachemanager.NewInMemoryCacheManager[string, []api.Video](
			"videos", cfg.CacheTTL, cachemanager.DefaultCleanupInterval), cfg.CacheTTL),
	)
}

// Search starts a search for exercise at level. Previous results stay
// visible while loading. Any earlier in-flight search is cancelled and its
// result will be discarded.
func (l *Lookup) Search(ctx context.Context, exercise, level string) tea.Cmd {
	if strings.TrimSpace(level) == "" {
		level = l.defaultLevel
	}
	query := Query(exercise, level)

	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	l.generation++
	gen := l.generation
	l.state.Query = query
	l.state.Loading = true
	l.state.Err = ""

	log.Debug(log.CatVideo, "search started", "generation", gen, "query", query)

	search := l.search
	return func() tea.Msg {
		videos, hit, err := search.Get(ctx, query, query)
		return ResultMsg{Generation: gen, Query: query, Videos: videos, Cached: hit, Err: err}
	}
}

// Apply updates the state from msg when it belongs to the latest search.
// It returns false for stale results, which leave the state untouched.
func (l *Lookup) Apply(msg ResultMsg) bool {
	if msg.Generation != l.generation {
		log.Debug(log.CatVideo, "discarding stale search result",
			"generation", msg.Generation, "current", l.generation, "query", msg.Query)
		return false
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}

	l.state.Loading = false
	if msg.Err != nil {
		l.state.Err = api.UserMessage(msg.Err)
		log.ErrorErr(log.CatVideo, "search failed", msg.Err, "generation", msg.Generation, "query", msg.Query)
		return true
	}

	l.state.Videos = msg.Videos
	l.state.Selected = -1
	if len(msg.Videos) > 0 {
		l.state.Selected = 0
	}
	log.Debug(log.CatVideo, "search applied", "generation", msg.Generation, "results", len(msg.Videos), "cached", msg.Cached)
	return true
}

// SelectVideo highlights the video with id among the current results.
func (l *Lookup) SelectVideo(id string) bool {
	for i, v := range l.state.Videos {
		if v.VideoID == id {
			l.state.Selected = i
			return true
		}
	}
	return false
}

// SelectIndex highlights the i-th result.
func (l *Lookup) SelectIndex(i int) bool {
	if i < 0 || i >= len(l.state.Videos) {
		return false
	}
	l.state.Selected = i
	return true
}

// SelectNext moves the highlight down, stopping at the last result.
func (l *Lookup) SelectNext() {
	if l.state.Selected < len(l.state.Videos)-1 {
		l.state.Selected++
	}
}

// SelectPrev moves the highlight up, stopping at the first result.
func (l *Lookup) SelectPrev() {
	if l.state.Selected > 0 {
		l.state.Selected--
	}
}

// Reset clears all state and flushes cached results. Searches still in
// flight become stale.
func (l *Lookup) Reset() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.generation++
	l.state = State{Selected: -1}
	l.search.Flush(context.Background())
}

// State returns a copy of the current state.
func (l *Lookup) State() State {
	s := l.state
	s.Videos = append([]api.Video(nil), l.state.Videos...)
	return s
}

// Generation returns the latest search generation.
func (l *Lookup) Generation() uint64 {
	return l.generation
}
