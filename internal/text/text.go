// Package text holds the markdown tips shown under each tool and renders them.
package text

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Renderer turns markdown into terminal output at a given width.
type Renderer interface {
	Render(md string, width int) (string, error)
}

// glamourRenderer keeps one term renderer per width.
type glamourRenderer struct {
	style string
	mu    sync.Mutex
	byW   map[int]*glamour.TermRenderer
}

// NewGlamourRenderer renders with a named glamour style ("dark", "light",
// "notty"); an empty style follows the terminal background.
func NewGlamourRenderer(style string) Renderer {
	return &glamourRenderer{style: style, byW: map[int]*glamour.TermRenderer{}}
}

func (g *glamourRenderer) Render(md string, width int) (string, error) {
	if width < 20 {
		width = 20
	}
	g.mu.Lock()
	r, ok := g.byW[width]
	if !ok {
		opts := []glamour.TermRendererOption{glamour.WithWordWrap(width - 4)}
		if g.style == "" {
			opts = append(opts, glamour.WithAutoStyle())
		} else {
			opts = append(opts, glamour.WithStandardStyle(g.style))
		}
		var err error
		r, err = glamour.NewTermRenderer(opts...)
		if err != nil {
			g.mu.Unlock()
			return "", err
		}
		g.byW[width] = r
	}
	g.mu.Unlock()
	out, err := r.Render(md)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

// plainRenderer strips nothing; it returns the markdown as-is.
type plainRenderer struct{}

func NewPlainRenderer() Renderer { return plainRenderer{} }

func (plainRenderer) Render(md string, _ int) (string, error) { return strings.TrimSpace(md), nil }

// WithFallback returns a renderer that prefers primary and falls back to backup on error.
func WithFallback(primary, fallback Renderer) Renderer {
	return &fallbackRenderer{p: primary, f: fallback}
}

type fallbackRenderer struct{ p, f Renderer }

func (r *fallbackRenderer) Render(md string, width int) (string, error) {
	if r.p == nil {
		return r.f.Render(md, width)
	}
	if s, err := r.p.Render(md, width); err == nil {
		return s, nil
	}
	return r.f.Render(md, width)
}

// Tip keys, one per tool.
const (
	TipCapacity     = "capacity"
	TipSayingNo     = "saying-no"
	TipTimeBlocking = "time-blocking"
	TipDecision     = "decision-magic"
	TipEmergency    = "emergency"
	TipEnvironment  = "environment"
)

var tips = map[string]string{
	TipSayingNo: `#### 💡 Pro Tips for Saying No

- **Be prompt:** Respond quickly rather than letting it linger
- **Be honest:** Simple truth works better than elaborate excuses
- **Offer alternatives:** Suggest other people or timeframes when possible
- **Stay firm:** Don't let guilt or pressure change your decision
`,
	TipDecision: `#### 🎯 Decision-Making Tip

Sometimes the best decision is the one you make quickly! These tools help bypass analysis paralysis when you're stuck between equally good options. Trust your gut and move forward! 🚀
`,
	TipCapacity: `#### 📊 Capacity Tip

Plan to about **70%** of your available hours. The rest absorbs interruptions, context switching and the work nobody put on the calendar.
`,
	TipTimeBlocking: `#### 🗓️ Time Blocking Tip

Protect deep work first, then fit meetings around it. Leave a **buffer** block after anything that tends to overrun.
`,
	TipEmergency: `#### 🚨 When Everything Is Urgent

Urgent and important goes first. Schedule what is important but not urgent, delegate what is urgent but not important, and drop the rest without guilt.
`,
	TipEnvironment: `#### ⚙️ Environment Tip

Only ` + "`REACT_APP_*`" + ` keys, ` + "`NODE_ENV`" + ` and ` + "`NPM_CONFIG_PRODUCTION`" + ` are pushed to Heroku. Keep secrets out of client-side variables.
`,
}

// Tip returns the markdown tip for a tool, or "" when none exists.
func Tip(key string) string { return tips[key] }
