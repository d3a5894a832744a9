package results

import (
	"context"
	"errors"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/mixingo/mixingo/internal/ctm"
	"github.com/mixingo/mixingo/internal/flow"
	"github.com/mixingo/mixingo/internal/screen"
	"github.com/mixingo/mixingo/internal/session"
	"github.com/mixingo/mixingo/internal/ui/components"
	"github.com/mixingo/mixingo/internal/ui/layout"
)

// focus is the part of the screen receiving keys.
type focus int

const (
	focusHeatmap focus = iota
	focusStart
)

// ResultsScreen shows the transfer map for the session.
type ResultsScreen struct {
	sess *session.Session
	ctrl *flow.Controller

	life    screen.Lifetime
	loading bool
	spinner components.Spinner

	analysis *ctm.Analysis
	advisory string
	sample   bool
	// blocked is set when the plan cannot be loaded at all.
	blocked bool

	focus  focus
	cursor int
	start  components.Button
}

var _ screen.Screen = (*ResultsScreen)(nil)

// New creates a ResultsScreen for sess.
func New(sess *session.Session, ctrl *flow.Controller) *ResultsScreen {
	r := &ResultsScreen{
		sess:    sess,
		ctrl:    ctrl,
		spinner: components.NewSpinner("Loading your learning plan…"),
	}
	r.start = components.NewButton("", true, r.primaryCTA)
	return r
}

func (r *ResultsScreen) Title() string {
	return "Language Acceleration Plan"
}

func (r *ResultsScreen) Init() tea.Cmd {
	return r.load()
}

// Close cancels a load still in flight.
func (r *ResultsScreen) Close() {
	r.life.Close()
}

func (r *ResultsScreen) load() tea.Cmd {
	ctx, ticket := r.life.Begin()
	r.loading = true
	r.blocked = false

	ctrl := r.ctrl
	snap := r.sess.Snapshot()
	load := func() tea.Msg {
		out, err := ctrl.LoadAnalysis(ctx, snap)
		return analysisLoadedMsg{ticket: ticket, outcome: out, err: err}
	}
	return tea.Batch(r.spinner.Tick(), load)
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case analysisLoadedMsg:
		r.handleLoaded(msg)
		return r, nil

	case flow.DemoModeChangedMsg:
		return r, r.load()

	case tea.KeyPressMsg:
		if r.loading {
			return r, nil
		}
		if r.blocked {
			return r, r.handleBlockedKey(msg)
		}
		return r, r.handleKey(msg)
	}

	if r.loading {
		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)
		return r, cmd
	}
	return r, nil
}

func (r *ResultsScreen) handleLoaded(msg analysisLoadedMsg) {
	if !r.life.Current(msg.ticket) {
		return
	}
	r.life.Done(msg.ticket)
	r.loading = false

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return
		}
		if !errors.Is(msg.err, flow.ErrMissingUser) {
			slog.Error("unexpected analysis error", "session", r.sess.ID, "error", msg.err)
		}
		r.blocked = true
		r.analysis = nil
		return
	}

	msg.outcome.Apply(r.sess)
	r.analysis = msg.outcome.Analysis
	r.sample = msg.outcome.Sample
	r.advisory = ""
	switch {
	case msg.outcome.Advisory != nil:
		r.advisory = msg.outcome.Advisory.Text
	case msg.outcome.Sample && !r.sess.DemoMode:
		r.advisory = flow.TextWarmupFallback
	}

	r.cursor = 0
	if i := r.cellIndex(r.analysis.StartModule()); i >= 0 {
		r.cursor = i
	}
	r.start.Label = "Start with " + ctm.ModuleName(r.analysis.StartModule())
}

func (r *ResultsScreen) cellIndex(moduleID string) int {
	for i, c := range r.analysis.Heatmap {
		if c.ModuleID == moduleID {
			return i
		}
	}
	return -1
}

func (r *ResultsScreen) handleBlockedKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "r":
		t, err := flow.Next(flow.RouteResults, flow.TriggerRetry, flow.Input{Session: r.sess, Blocked: true})
		if err != nil {
			return nil
		}
		return func() tea.Msg { return flow.Navigate(t) }
	}
	return nil
}

func (r *ResultsScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "shift+tab":
		if r.focus == focusHeatmap {
			r.focus = focusStart
		} else {
			r.focus = focusHeatmap
		}
		r.start.Focused = r.focus == focusStart
		return nil
	case "s":
		return r.primaryCTA()
	}

	if r.focus == focusStart {
		var cmd tea.Cmd
		r.start, cmd = r.start.Update(msg)
		return cmd
	}

	n := len(r.analysis.Heatmap)
	switch msg.String() {
	case "left", "h", "up", "k":
		if r.cursor > 0 {
			r.cursor--
		}
	case "right", "l", "down", "j":
		if r.cursor < n-1 {
			r.cursor++
		}
	case "enter":
		if r.cursor < n {
			return r.navigate(flow.TriggerSelectCell, r.analysis.Heatmap[r.cursor].ModuleID)
		}
	}
	return nil
}

func (r *ResultsScreen) primaryCTA() tea.Cmd {
	return r.navigate(flow.TriggerPrimaryCTA, "")
}

func (r *ResultsScreen) navigate(trigger flow.Trigger, moduleID string) tea.Cmd {
	t, err := flow.Next(flow.RouteResults, trigger, flow.Input{Session: r.sess, ModuleID: moduleID})
	if err != nil {
		return nil
	}
	return func() tea.Msg { return flow.Navigate(t) }
}

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	switch {
	case r.loading:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case r.blocked:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Back to warm-up"},
			{Key: "Ctrl+D", Description: "Demo/Live"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "←→", Description: "Modules"},
		{Key: "Enter", Description: "Practise"},
		{Key: "S", Description: "Start plan"},
		{Key: "Tab", Description: "Focus"},
		{Key: "Ctrl+D", Description: "Demo/Live"},
		{Key: "Esc", Description: "Back"},
	}
}
