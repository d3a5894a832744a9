package onboarding

import (
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/mixingo/mixingo/internal/flow"
	"github.com/mixingo/mixingo/internal/screen"
	"github.com/mixingo/mixingo/internal/session"
	"github.com/mixingo/mixingo/internal/ui/components"
	"github.com/mixingo/mixingo/internal/ui/layout"
)

// section is one focusable block of the form.
type section int

const (
	sectionKnown section = iota
	sectionTarget
	sectionGoal
	sectionStart
	sectionCount
)

// knownColumns is how many known languages share a row.
const knownColumns = 4

const incompleteHint = "Pick at least one language you know, a target language and a goal."

// OnboardingScreen collects known languages, a target and a goal.
type OnboardingScreen struct {
	sess   *session.Session
	focus  section
	cursor [sectionCount]int
	start  components.Button
	hint   string
}

var _ screen.Screen = (*OnboardingScreen)(nil)

// New creates an OnboardingScreen editing sess.Selection.
func New(sess *session.Session) *OnboardingScreen {
	o := &OnboardingScreen{sess: sess}
	o.start = components.NewButton("Start warm-up", sess.Selection.CanStart(), o.submit)
	return o
}

func (o *OnboardingScreen) Title() string {
	return "Onboarding"
}

func (o *OnboardingScreen) Init() tea.Cmd {
	return nil
}

func (o *OnboardingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return o, nil
	}

	switch kmsg.String() {
	case "tab":
		o.focus = (o.focus + 1) % sectionCount
		o.start.Focused = o.focus == sectionStart
		return o, nil
	case "shift+tab":
		o.focus = (o.focus + sectionCount - 1) % sectionCount
		o.start.Focused = o.focus == sectionStart
		return o, nil
	}

	var cmd tea.Cmd
	switch o.focus {
	case sectionKnown:
		o.updateKnown(kmsg.String())
	case sectionTarget:
		if pick, ok := o.moveList(kmsg.String(), len(session.TargetLanguages)); ok {
			o.sess.Selection.Target = session.TargetLanguages[pick]
		}
	case sectionGoal:
		if pick, ok := o.moveList(kmsg.String(), len(session.Goals)); ok {
			o.sess.Selection.Goal = session.Goals[pick]
		}
	case sectionStart:
		if (kmsg.String() == "enter" || kmsg.String() == "space") && !o.sess.Selection.CanStart() {
			o.hint = incompleteHint
			return o, nil
		}
		o.start, cmd = o.start.Update(kmsg)
	}

	o.start.Enabled = o.sess.Selection.CanStart()
	if o.start.Enabled {
		o.hint = ""
	}
	return o, cmd
}

func (o *OnboardingScreen) updateKnown(key string) {
	c := &o.cursor[sectionKnown]
	n := len(session.Languages)
	switch key {
	case "left", "h":
		if *c > 0 {
			*c--
		}
	case "right", "l":
		if *c < n-1 {
			*c++
		}
	case "up", "k":
		if *c >= knownColumns {
			*c -= knownColumns
		}
	case "down", "j":
		if *c+knownColumns < n {
			*c += knownColumns
		}
	case "enter", "space":
		o.sess.Selection.Toggle(session.Languages[*c])
	case "v":
		lang := session.Languages[*c]
		if e, ok := o.sess.Selection.Entry(lang); ok {
			o.sess.Selection.SetLevel(lang, e.Level.Next())
		}
	}
}

// moveList handles a single-choice row and reports the picked index
// when Enter or Space was pressed.
func (o *OnboardingScreen) moveList(key string, n int) (int, bool) {
	c := &o.cursor[o.focus]
	switch key {
	case "left", "h", "up", "k":
		if *c > 0 {
			*c--
		}
	case "right", "l", "down", "j":
		if *c < n-1 {
			*c++
		}
	case "enter", "space":
		return *c, true
	}
	return 0, false
}

// submit resets progress from any earlier pass and moves to the warm-up.
func (o *OnboardingScreen) submit() tea.Cmd {
	t, err := flow.Next(flow.RouteOnboarding, flow.TriggerStart, flow.Input{Session: o.sess})
	if errors.Is(err, flow.ErrNotReady) {
		o.hint = incompleteHint
		return nil
	}
	if err != nil {
		return nil
	}
	o.sess.ResetProgress()
	return func() tea.Msg { return flow.Navigate(t) }
}

func (o *OnboardingScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next section"},
		{Key: "←↑↓→", Description: "Move"},
		{Key: "Space", Description: "Pick"},
	}
	if o.focus == sectionKnown {
		hints = append(hints, layout.KeyHint{Key: "V", Description: "Level"})
	}
	return append(hints,
		layout.KeyHint{Key: "Esc", Description: "Back"},
		layout.KeyHint{Key: "Ctrl+D", Description: "Demo/Live"},
	)
}
