package onboarding

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/mixingo/mixingo/internal/flow"
	"github.com/mixingo/mixingo/internal/session"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestToggleKnownLanguage(t *testing.T) {
	sess := &session.Session{ID: "s1"}
	o := New(sess)

	o.Update(specialKey(tea.KeySpace))
	known := sess.Selection.Known()
	if len(known) != 1 || known[0].Language != session.Languages[0] {
		t.Fatalf("expected %s selected, got %+v", session.Languages[0], known)
	}
	if known[0].Level != session.DefaultLevel {
		t.Errorf("expected default level, got %s", known[0].Level)
	}

	o.Update(specialKey(tea.KeySpace))
	if len(sess.Selection.Known()) != 0 {
		t.Error("expected second toggle to remove the language")
	}
}

func TestCycleLevel(t *testing.T) {
	sess := &session.Session{ID: "s1"}
	o := New(sess)

	o.Update(specialKey(tea.KeySpace))
	o.Update(keyPress('v'))

	e, _ := sess.Selection.Entry(session.Languages[0])
	if e.Level != session.DefaultLevel.Next() {
		t.Errorf("expected level %s, got %s", session.DefaultLevel.Next(), e.Level)
	}
}

func TestGridMovement(t *testing.T) {
	o := New(&session.Session{ID: "s1"})

	o.Update(specialKey(tea.KeyDown))
	if o.cursor[sectionKnown] != knownColumns {
		t.Errorf("expected cursor %d, got %d", knownColumns, o.cursor[sectionKnown])
	}
	o.Update(specialKey(tea.KeyRight))
	if o.cursor[sectionKnown] != knownColumns+1 {
		t.Errorf("expected cursor %d, got %d", knownColumns+1, o.cursor[sectionKnown])
	}
	o.Update(specialKey(tea.KeyUp))
	o.Update(specialKey(tea.KeyUp))
	if o.cursor[sectionKnown] != 1 {
		t.Errorf("expected cursor to stop on the first row, got %d", o.cursor[sectionKnown])
	}
}

func TestStartBlockedUntilComplete(t *testing.T) {
	sess := &session.Session{ID: "s1"}
	o := New(sess)
	o.focus = sectionStart

	_, cmd := o.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no navigation with an incomplete selection")
	}
	if o.hint == "" {
		t.Error("expected an incomplete-selection hint")
	}
}

func TestCompleteSelectionNavigates(t *testing.T) {
	sess := &session.Session{ID: "s1", UserID: "old-user", Sample: true}
	o := New(sess)

	o.Update(specialKey(tea.KeySpace)) // known: first language
	o.Update(specialKey(tea.KeyTab))
	o.Update(specialKey(tea.KeySpace)) // target: first target
	o.Update(specialKey(tea.KeyTab))
	o.Update(specialKey(tea.KeyRight))
	o.Update(specialKey(tea.KeySpace)) // goal: second goal
	o.Update(specialKey(tea.KeyTab))

	if sess.Selection.Target != session.TargetLanguages[0] {
		t.Errorf("expected target %s, got %q", session.TargetLanguages[0], sess.Selection.Target)
	}
	if sess.Selection.Goal != session.Goals[1] {
		t.Errorf("expected goal %s, got %q", session.Goals[1], sess.Selection.Goal)
	}
	if !o.start.Enabled {
		t.Fatal("expected start button active")
	}

	_, cmd := o.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected navigation command")
	}
	nav, ok := cmd().(flow.NavigateMsg)
	if !ok {
		t.Fatalf("expected NavigateMsg, got %T", cmd())
	}
	if nav.To != flow.RouteWarmup {
		t.Errorf("expected warm-up route, got %s", nav.To)
	}
	if sess.UserID != "" || sess.Sample {
		t.Error("expected progress from an earlier pass to be reset")
	}
}

func TestDemoSelectionCanStartImmediately(t *testing.T) {
	sess := &session.Session{ID: "s1", DemoMode: true, Selection: session.DemoSelection()}
	o := New(sess)
	if !o.start.Enabled {
		t.Error("expected demo profile to allow starting")
	}
	if !strings.Contains(o.View(100, 30), "French") {
		t.Error("expected route summary to mention the target")
	}
}
