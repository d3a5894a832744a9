package notfound

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/mixingo/mixingo/internal/flow"
	"github.com/mixingo/mixingo/internal/session"
)

func TestAnyKeyGoesHome(t *testing.T) {
	n := New(&session.Session{ID: "s1"}, "/nowhere")

	_, cmd := n.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd == nil {
		t.Fatal("expected navigation")
	}
	nav, ok := cmd().(flow.NavigateMsg)
	if !ok {
		t.Fatalf("expected NavigateMsg, got %T", cmd())
	}
	if nav.To != flow.RouteLanding || nav.Payload.SessionID != "s1" {
		t.Errorf("expected landing for s1, got %+v", nav.Transition)
	}
}

func TestIgnoresNonKeys(t *testing.T) {
	n := New(&session.Session{ID: "s1"}, "/nowhere")
	if _, cmd := n.Update(tea.WindowSizeMsg{Width: 80, Height: 24}); cmd != nil {
		t.Error("expected no command for a resize")
	}
}

func TestViewNamesPath(t *testing.T) {
	n := New(&session.Session{}, "/nowhere")
	if !strings.Contains(n.View(80, 20), "/nowhere") {
		t.Error("expected requested path in view")
	}
}
