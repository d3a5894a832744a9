package warmup

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/mixingo/mixingo/internal/flow"
	"github.com/mixingo/mixingo/internal/screen"
	"github.com/mixingo/mixingo/internal/session"
	"github.com/mixingo/mixingo/internal/ui/components"
	"github.com/mixingo/mixingo/internal/ui/layout"
)

// WarmupScreen asks the fixed warm-up questions and submits the answers.
type WarmupScreen struct {
	sess *session.Session
	ctrl *flow.Controller

	warmup  *session.Warmup
	current int
	choice  components.MultiChoice

	life       screen.Lifetime
	submitting bool
	spinner    components.Spinner
}

var _ screen.Screen = (*WarmupScreen)(nil)

// New creates a WarmupScreen. now is the clock used to time answers; nil
// means time.Now.
func New(sess *session.Session, ctrl *flow.Controller, now func() time.Time) *WarmupScreen {
	w := &WarmupScreen{
		sess:    sess,
		ctrl:    ctrl,
		warmup:  session.NewWarmup(now),
		spinner: components.NewSpinner("Building your transfer map…"),
	}
	w.showQuestion(0)
	return w
}

func (w *WarmupScreen) Title() string {
	return "Warm-up"
}

func (w *WarmupScreen) Init() tea.Cmd {
	return nil
}

// Close cancels a submission still in flight.
func (w *WarmupScreen) Close() {
	w.life.Close()
}

func (w *WarmupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		return w, w.handleSubmitted(msg)

	case tea.KeyPressMsg:
		if w.submitting {
			return w, nil
		}
		return w, w.handleKey(msg)
	}

	if w.submitting {
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w *WarmupScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	answered := w.choice.Locked

	switch msg.String() {
	case "right", "n", "tab":
		if answered && w.current < len(w.warmup.Questions())-1 {
			w.showQuestion(w.current + 1)
		}
		return nil
	case "left", "p", "shift+tab":
		if w.current > 0 {
			w.showQuestion(w.current - 1)
		}
		return nil
	case "enter":
		if answered {
			if w.warmup.Complete() {
				return w.submit()
			}
			w.showQuestion(w.nextUnanswered())
			return nil
		}
	}

	w.choice, _ = w.choice.Update(msg)
	if w.choice.HasChoice() && w.warmup.Choose(w.current, w.choice.Chosen) {
		w.choice.Locked = true
	}
	return nil
}

func (w *WarmupScreen) showQuestion(i int) {
	q := w.warmup.Questions()[i]
	options := make([]string, len(q.Options))
	for j, opt := range q.Options {
		options[j] = opt.Text
	}
	w.current = i
	w.choice = components.NewMultiChoice(q.Prompt, options, nil)
	if chosen, ok := w.warmup.Chosen(i); ok {
		w.choice.Cursor = chosen
		w.choice.Chosen = chosen
		w.choice.Locked = true
	}
}

func (w *WarmupScreen) nextUnanswered() int {
	n := len(w.warmup.Questions())
	for k := 1; k <= n; k++ {
		i := (w.current + k) % n
		if _, ok := w.warmup.Chosen(i); !ok {
			return i
		}
	}
	return w.current
}

// submit sends the answers. The outcome is applied on the UI goroutine
// once it arrives; the command only sees a snapshot of the session.
func (w *WarmupScreen) submit() tea.Cmd {
	ctx, ticket := w.life.Begin()
	w.submitting = true

	ctrl := w.ctrl
	snap := w.sess.Snapshot()
	answers := w.warmup.Answers()
	load := func() tea.Msg {
		return submittedMsg{ticket: ticket, outcome: ctrl.SubmitWarmup(ctx, snap, answers)}
	}
	return tea.Batch(w.spinner.Tick(), load)
}

func (w *WarmupScreen) handleSubmitted(msg submittedMsg) tea.Cmd {
	if !w.life.Current(msg.ticket) {
		return nil
	}
	w.life.Done(msg.ticket)
	w.submitting = false

	msg.outcome.Apply(w.sess)
	t, err := flow.Next(flow.RouteWarmup, flow.TriggerSubmit, flow.Input{
		Session:        w.sess,
		WarmupComplete: w.warmup.Complete(),
	})
	if err != nil {
		return nil
	}
	return func() tea.Msg { return flow.Navigate(t) }
}

func (w *WarmupScreen) KeyHints() []layout.KeyHint {
	if w.submitting {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Cancel"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "1-4", Description: "Answer"},
	}
	if w.warmup.Complete() {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "See results"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Choose/Next"})
	}
	return append(hints,
		layout.KeyHint{Key: "←→", Description: "Questions"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}
