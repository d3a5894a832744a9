package exercises

import (
	"context"
	"errors"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/mixingo/mixingo/internal/flow"
	"github.com/mixingo/mixingo/internal/screen"
	"github.com/mixingo/mixingo/internal/session"
	"github.com/mixingo/mixingo/internal/ui/components"
	"github.com/mixingo/mixingo/internal/ui/layout"
)

// ExercisesScreen lets the learner practise exercises for one module.
type ExercisesScreen struct {
	sess     *session.Session
	ctrl     *flow.Controller
	moduleID string

	life    screen.Lifetime
	loading bool
	spinner components.Spinner

	practice    *session.Practice
	current     int
	choice      components.MultiChoice
	explanation string
	advisory    string
	// lastCorrect is the result of the most recent check on the current item.
	lastCorrect bool
}

var _ screen.Screen = (*ExercisesScreen)(nil)

// New creates an ExercisesScreen for moduleID. An empty id uses the
// default exercise module.
func New(sess *session.Session, ctrl *flow.Controller, moduleID string) *ExercisesScreen {
	return &ExercisesScreen{
		sess:     sess,
		ctrl:     ctrl,
		moduleID: moduleID,
		spinner:  components.NewSpinner("Generating exercises…"),
	}
}

func (e *ExercisesScreen) Title() string {
	return "Exercises"
}

func (e *ExercisesScreen) Init() tea.Cmd {
	return e.load()
}

// Close cancels a load still in flight.
func (e *ExercisesScreen) Close() {
	e.life.Close()
}

func (e *ExercisesScreen) load() tea.Cmd {
	ctx, ticket := e.life.Begin()
	e.loading = true

	ctrl := e.ctrl
	snap := e.sess.Snapshot()
	moduleID := e.moduleID
	load := func() tea.Msg {
		out, err := ctrl.LoadExercises(ctx, snap, moduleID)
		return exercisesLoadedMsg{ticket: ticket, outcome: out, err: err}
	}
	return tea.Batch(e.spinner.Tick(), load)
}

func (e *ExercisesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exercisesLoadedMsg:
		e.handleLoaded(msg)
		return e, nil

	case flow.DemoModeChangedMsg:
		return e, e.load()

	case tea.KeyPressMsg:
		if e.loading || e.practice == nil {
			return e, nil
		}
		return e, e.handleKey(msg)
	}

	if e.loading {
		var cmd tea.Cmd
		e.spinner, cmd = e.spinner.Update(msg)
		return e, cmd
	}
	return e, nil
}

func (e *ExercisesScreen) handleLoaded(msg exercisesLoadedMsg) {
	if !e.life.Current(msg.ticket) {
		return
	}
	e.life.Done(msg.ticket)
	e.loading = false

	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			slog.Error("unexpected exercise load error", "session", e.sess.ID, "error", msg.err)
		}
		return
	}

	msg.outcome.Apply(e.sess)
	e.moduleID = msg.outcome.ModuleID
	e.explanation = msg.outcome.Explanation
	e.advisory = ""
	if msg.outcome.Advisory != nil {
		e.advisory = msg.outcome.Advisory.Text
	}
	e.practice = session.NewPractice(msg.outcome.Items)
	e.showItem(0)
}

func (e *ExercisesScreen) showItem(i int) {
	items := e.practice.Items()
	if i < 0 || i >= len(items) {
		return
	}
	it := items[i]
	correct := make([]bool, len(it.Options))
	if it.CorrectIndex >= 0 && it.CorrectIndex < len(correct) {
		correct[it.CorrectIndex] = true
	}

	e.current = i
	e.choice = components.NewMultiChoice(it.Prompt, it.Options, correct)
	if sel, ok := e.practice.Selected(i); ok {
		e.choice.Cursor = sel
		e.choice.Chosen = sel
	}
	if e.practice.Revealed(i) {
		e.choice.Revealed = true
		e.lastCorrect = e.choice.Chosen == it.CorrectIndex
	}
}

func (e *ExercisesScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "right", "n", "tab":
		e.showItem(e.current + 1)
		return nil
	case "left", "p", "shift+tab":
		e.showItem(e.current - 1)
		return nil
	case "c":
		if correct, ok := e.practice.Check(e.current); ok {
			e.choice.Revealed = true
			e.lastCorrect = correct
		}
		return nil
	case "b":
		t, err := flow.Next(flow.RouteExercises, flow.TriggerRetry, flow.Input{Session: e.sess})
		if err != nil {
			return nil
		}
		return func() tea.Msg { return flow.Navigate(t) }
	case "o":
		t, _ := flow.Next(flow.RouteExercises, flow.TriggerRestart, flow.Input{Session: e.sess})
		return func() tea.Msg { return flow.Navigate(t) }
	}

	e.choice, _ = e.choice.Update(msg)
	if e.choice.HasChoice() {
		e.practice.Select(e.current, e.choice.Chosen)
	}
	return nil
}

func (e *ExercisesScreen) KeyHints() []layout.KeyHint {
	if e.loading {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Choose"},
		{Key: "C", Description: "Check"},
		{Key: "←→", Description: "Exercises"},
		{Key: "B", Description: "Plan"},
		{Key: "O", Description: "Start over"},
		{Key: "Ctrl+D", Description: "Demo/Live"},
	}
}
