package video

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/fitcoach/internal/api"
	"github.com/zjrosen/fitcoach/internal/cachemanager"
	"github.com/zjrosen/fitcoach/internal/config"
)

type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
	max     int
	err     error
}

func (f *fakeSearcher) SearchVideos(_ context.Context, query string, maxResults int) ([]api.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.max = maxResults
	if f.err != nil {
		return nil, f.err
	}
	return []api.Video{
		{VideoID: query + "#1", Title: query},
		{VideoID: query + "#2", Title: query},
	}, nil
}

func (f *fakeSearcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func TestQuery(t *testing.T) {
	require.Equal(t, "Squat beginner form technique", Query("Squat", "beginner"))
	require.Equal(t, "Lunge beginners form technique", Query("Lunge", ""))
	require.Equal(t, "Row expert form technique", Query(" Row ", " expert "))
}

func TestSearch_RoundTrip(t *testing.T) {
	s := &fakeSearcher{}
	l := NewLookup(s, WithMaxResults(5))

	cmd := l.Search(context.Background(), "Squat", "beginner")
	st := l.State()
	require.True(t, st.Loading)
	require.Equal(t, "Squat beginner form technique", st.Query)

	require.True(t, l.Apply(cmd().(ResultMsg)))
	st = l.State()
	require.False(t, st.Loading)
	require.Empty(t, st.Err)
	require.Len(t, st.Videos, 2)
	require.Equal(t, []string{"Squat beginner form technique"}, s.queries)
	require.Equal(t, 5, s.max)

	v, ok := st.SelectedVideo()
	require.True(t, ok)
	require.Equal(t, "Squat beginner form technique#1", v.VideoID)
}

func TestSearch_DefaultLevelOption(t *testing.T) {
	s := &fakeSearcher{}
	l := NewLookup(s, WithDefaultLevel("novice"))
	l.Apply(l.Search(context.Background(), "Plank", "")().(ResultMsg))
	require.Equal(t, "Plank novice form technique", l.State().Query)
}

func TestSearch_OldResultsVisibleWhileLoading(t *testing.T) {
	l := NewLookup(&fakeSearcher{})
	l.Apply(l.Search(context.Background(), "Squat", "beginner")().(ResultMsg))

	_ = l.Search(context.Background(), "Deadlift", "beginner")
	st := l.State()
	require.True(t, st.Loading)
	require.Len(t, st.Videos, 2)
	require.Equal(t, "Squat beginner form technique#1", st.Videos[0].VideoID)
}

func TestApply_StaleResultDiscarded(t *testing.T) {
	l := NewLookup(&fakeSearcher{})
	first := l.Search(context.Background(), "Squat", "beginner")
	second := l.Search(context.Background(), "Deadlift", "beginner")

	// Second completes first.
	require.True(t, l.Apply(second().(ResultMsg)))
	require.False(t, l.Apply(first().(ResultMsg)))

	st := l.State()
	require.Equal(t, "Deadlift beginner form technique", st.Query)
	require.Equal(t, "Deadlift beginner form technique#1", st.Videos[0].VideoID)
}

func TestSearch_CancelsPreviousContext(t *testing.T) {
	var (
		mu   sync.Mutex
		ctxs []context.Context
	)
	s := searcherFunc(func(ctx context.Context, q string, _ int) ([]api.Video, error) {
		mu.Lock()
		ctxs = append(ctxs, ctx)
		mu.Unlock()
		return nil, nil
	})
	l := NewLookup(s)
	first := l.Search(context.Background(), "A", "")
	_ = l.Search(context.Background(), "B", "")

	first()
	require.Len(t, ctxs, 1)
	require.ErrorIs(t, ctxs[0].Err(), context.Canceled)
}

func TestApply_Failure(t *testing.T) {
	s := &fakeSearcher{}
	l := NewLookup(s)
	l.Apply(l.Search(context.Background(), "Squat", "")().(ResultMsg))

	s.err = &api.TransportError{Op: "search videos", Err: errors.New("refused")}
	require.True(t, l.Apply(l.Search(context.Background(), "Lunge", "")().(ResultMsg)))

	st := l.State()
	require.False(t, st.Loading)
	require.Contains(t, st.Err, "Could not reach")
	require.Len(t, st.Videos, 2, "previous results kept on failure")
}

func TestApply_EmptyResults(t *testing.T) {
	l := NewLookup(searcherFunc(func(context.Context, string, int) ([]api.Video, error) {
		return []api.Video{}, nil
	}))
	l.Apply(l.Search(context.Background(), "Squat", "")().(ResultMsg))

	st := l.State()
	require.Empty(t, st.Videos)
	require.Equal(t, -1, st.Selected)
	_, ok := st.SelectedVideo()
	require.False(t, ok)
}

func TestSelectVideo(t *testing.T) {
	l := NewLookup(&fakeSearcher{})
	l.Apply(l.Search(context.Background(), "Squat", "x")().(ResultMsg))

	require.True(t, l.SelectVideo("Squat x form technique#2"))
	require.Equal(t, 1, l.State().Selected)
	require.False(t, l.SelectVideo("missing"))
	require.Equal(t, 1, l.State().Selected)

	l.SelectNext()
	require.Equal(t, 1, l.State().Selected)
	l.SelectPrev()
	l.SelectPrev()
	require.Equal(t, 0, l.State().Selected)
	require.False(t, l.SelectIndex(9))
}

func TestReset_ClearsAndMakesInFlightStale(t *testing.T) {
	l := NewLookup(&fakeSearcher{})
	l.Apply(l.Search(context.Background(), "Squat", "")().(ResultMsg))
	pending := l.Search(context.Background(), "Lunge", "")

	l.Reset()
	require.Equal(t, State{Selected: -1}, l.State())

	require.False(t, l.Apply(pending().(ResultMsg)))
	require.Equal(t, State{Selected: -1}, l.State())
}

func TestCache_HitStillGuarded(t *testing.T) {
	s := &fakeSearcher{}
	cache := cachemanager.NewInMemoryCacheManager[string, []api.Video]("videos", time.Minute, time.Minute)
	l := NewLookup(s, WithCache(cache, time.Minute))

	l.Apply(l.Search(context.Background(), "Squat", "")().(ResultMsg))
	msg := l.Search(context.Background(), "Squat", "")().(ResultMsg)
	require.True(t, msg.Cached)
	require.Equal(t, 1, s.calls())

	// A newer search makes even a cached result stale.
	_ = l.Search(context.Background(), "Lunge", "")
	require.False(t, l.Apply(msg))

	l.Reset()
	require.Zero(t, cache.Len())
	l.Apply(l.Search(context.Background(), "Squat", "")().(ResultMsg))
	require.Equal(t, 2, s.calls())
}

func TestNewLookupFromConfig(t *testing.T) {
	cfg := config.Defaults().Video
	s := &fakeSearcher{}
	l := NewLookupFromConfig(s, cfg)

	l.Apply(l.Search(context.Background(), "Squat", "")().(ResultMsg))
	require.Equal(t, cfg.MaxResults, s.max)
	require.Equal(t, "Squat "+cfg.DefaultLevel+" form technique", l.State().Query)
}

// For any interleaving of search starts and completions, the settled state
// reflects the most recently started search.
func TestGenerationMonotonicity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := NewLookup(&fakeSearcher{})
		n := rapid.IntRange(1, 8).Draw(t, "searches")

		type pending struct {
			query string
			msg   ResultMsg
		}
		var inflight []pending
		var lastQuery string

		for i := 0; i < n; i++ {
			name := fmt.Sprintf("Exercise%d", i)
			cmd := l.Search(context.Background(), name, "beginner")
			lastQuery = Query(name, "beginner")
			inflight = append(inflight, pending{query: lastQuery, msg: cmd().(ResultMsg)})

			// Deliver a random subset of outstanding results.
			for len(inflight) > 0 && rapid.Bool().Draw(t, "deliver") {
				j := rapid.IntRange(0, len(inflight)-1).Draw(t, "which")
				p := inflight[j]
				inflight = append(inflight[:j], inflight[j+1:]...)
				applied := l.Apply(p.msg)
				if applied != (p.query == lastQuery) {
					t.Fatalf("apply(%q) = %v with latest %q", p.query, applied, lastQuery)
				}
			}
		}

		// Drain the rest in a random order.
		for len(inflight) > 0 {
			j := rapid.IntRange(0, len(inflight)-1).Draw(t, "drain")
			l.Apply(inflight[j].msg)
			inflight = append(inflight[:j], inflight[j+1:]...)
		}

		st := l.State()
		if st.Query != lastQuery || st.Loading {
			t.Fatalf("state query %q loading=%v, want %q settled", st.Query, st.Loading, lastQuery)
		}
		if len(st.Videos) == 0 || st.Videos[0].VideoID != lastQuery+"#1" {
			t.Fatalf("videos %+v not from latest search", st.Videos)
		}
	})
}

type searcherFunc func(ctx context.Context, query string, maxResults int) ([]api.Video, error)

func (f searcherFunc) SearchVideos(ctx context.Context, query string, maxResults int) ([]api.Video, error) {
	return f(ctx, query, maxResults)
}
