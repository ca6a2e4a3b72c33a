// Package markdown renders plan sections and chat replies for the terminal.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
)

// noMarginStyle removes document margins so panels line up.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour for one style and width. Rendered output is
// memoised per source text since the plan is re-rendered on every frame.
type Renderer struct {
	renderer *glamour.TermRenderer
	style    string
	width    int
	cache    map[string]string
}

// New creates a renderer. style is a glamour standard style name ("dark",
// "light", "notty") or a path to a JSON style file.
func New(style string, width int) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}
	width = max(width, 10)
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{renderer: r, style: style, width: width, cache: map[string]string{}}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Style returns the configured style.
func (r *Renderer) Style() string {
	return r.style
}

// Render transforms markdown into styled terminal output. If glamour
// fails, the source is word-wrapped and returned as plain text.
func (r *Renderer) Render(md string) string {
	if out, ok := r.cache[md]; ok {
		return out
	}
	out, err := r.renderer.Render(md)
	if err != nil {
		out = wordwrap.String(md, r.width)
	}
	out = strings.Trim(out, "\n")
	r.cache[md] = out
	return out
}

// Plain word-wraps text without markdown styling.
func Plain(text string, width int) string {
	return wordwrap.String(text, max(width, 1))
}
