package exercises

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/mixingo/mixingo/internal/api"
	"github.com/mixingo/mixingo/internal/ctm"
	"github.com/mixingo/mixingo/internal/flow"
	"github.com/mixingo/mixingo/internal/mockapi"
	"github.com/mixingo/mixingo/internal/session"
)

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findLoaded(t *testing.T, cmd tea.Cmd) exercisesLoadedMsg {
	t.Helper()
	for _, m := range collect(cmd) {
		if l, ok := m.(exercisesLoadedMsg); ok {
			return l
		}
	}
	t.Fatal("no exercisesLoadedMsg produced")
	return exercisesLoadedMsg{}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func newBackend(t *testing.T) (*mockapi.Server, *flow.Controller) {
	t.Helper()
	backend := mockapi.New()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return backend, flow.NewController(api.New(srv.URL), time.Second)
}

func loaded(t *testing.T, sess *session.Session, ctrl *flow.Controller, moduleID string) *ExercisesScreen {
	t.Helper()
	e := New(sess, ctrl, moduleID)
	e.Update(findLoaded(t, e.Init()))
	if e.practice == nil {
		t.Fatal("expected exercises to load")
	}
	return e
}

func TestDemoUsesFixtures(t *testing.T) {
	backend, ctrl := newBackend(t)
	sess := &session.Session{ID: "s1", DemoMode: true}

	e := loaded(t, sess, ctrl, "M05_Gender")

	if len(e.practice.Items()) != 3 {
		t.Errorf("expected 3 sample exercises, got %d", len(e.practice.Items()))
	}
	if sess.ModuleID != "M05_Gender" {
		t.Errorf("expected module stored on the session, got %q", sess.ModuleID)
	}
	if backend.TotalCalls() != 0 {
		t.Errorf("expected no backend calls in demo mode, got %d", backend.TotalCalls())
	}
}

func TestEmptyModuleUsesDefault(t *testing.T) {
	_, ctrl := newBackend(t)
	e := loaded(t, &session.Session{ID: "s1", DemoMode: true}, ctrl, "")

	if e.moduleID != ctm.DefaultExerciseModule {
		t.Errorf("expected %s, got %q", ctm.DefaultExerciseModule, e.moduleID)
	}
}

func TestSelectAndCheck(t *testing.T) {
	_, ctrl := newBackend(t)
	e := loaded(t, &session.Session{ID: "s1", DemoMode: true}, ctrl, "")

	it := e.practice.Items()[0]
	e.Update(keyPress(rune('1' + it.CorrectIndex)))
	e.Update(keyPress('c'))

	if !e.practice.Revealed(0) || !e.choice.Revealed {
		t.Fatal("expected exercise revealed after check")
	}
	if !e.lastCorrect {
		t.Error("expected correct answer")
	}
	if e.practice.Score() != session.BaseAccelerationScore+session.AccelerationStep {
		t.Errorf("expected score %d, got %d", session.BaseAccelerationScore+session.AccelerationStep, e.practice.Score())
	}

	e.Update(keyPress('1'))
	if sel, _ := e.practice.Selected(0); sel != it.CorrectIndex {
		t.Error("expected selection locked after reveal")
	}
}

func TestCheckWithoutSelectionIsIgnored(t *testing.T) {
	_, ctrl := newBackend(t)
	e := loaded(t, &session.Session{ID: "s1", DemoMode: true}, ctrl, "")

	e.Update(keyPress('c'))
	if e.practice.Revealed(0) {
		t.Error("expected check to need a selection")
	}
}

func TestNavigateBetweenItemsKeepsAnswers(t *testing.T) {
	_, ctrl := newBackend(t)
	e := loaded(t, &session.Session{ID: "s1", DemoMode: true}, ctrl, "")

	e.Update(keyPress('2'))
	e.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if e.current != 1 {
		t.Fatalf("expected exercise 1, got %d", e.current)
	}
	e.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if e.choice.Chosen != 1 {
		t.Errorf("expected earlier choice restored, got %d", e.choice.Chosen)
	}

	for range 5 {
		e.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	}
	if e.current != len(e.practice.Items())-1 {
		t.Errorf("expected to stop at the last exercise, got %d", e.current)
	}
}

func TestLiveFailureFallsBack(t *testing.T) {
	backend, ctrl := newBackend(t)
	backend.Fail(api.PathExercisesGen, mockapi.Fault{Status: http.StatusBadGateway, Body: "upstream down"})

	e := loaded(t, &session.Session{ID: "s1", UserID: "u-1"}, ctrl, "M04_WordOrder")

	if e.advisory != flow.TextExercisesFallback {
		t.Errorf("expected exercises fallback advisory, got %q", e.advisory)
	}
	if len(e.practice.Items()) != 3 {
		t.Errorf("expected sample exercises, got %d", len(e.practice.Items()))
	}
}

func TestLiveLoadSendsModule(t *testing.T) {
	backend, ctrl := newBackend(t)
	e := loaded(t, &session.Session{ID: "s1", UserID: "u-1"}, ctrl, "M04_WordOrder")

	if e.advisory != "" {
		t.Errorf("expected no advisory, got %q", e.advisory)
	}
	if backend.Calls(api.PathExercisesGen) != 1 {
		t.Errorf("expected one generate call, got %d", backend.Calls(api.PathExercisesGen))
	}
}

func TestBackToPlan(t *testing.T) {
	_, ctrl := newBackend(t)
	e := loaded(t, &session.Session{ID: "s1", DemoMode: true}, ctrl, "")

	_, cmd := e.Update(keyPress('b'))
	if cmd == nil {
		t.Fatal("expected navigation")
	}
	nav, ok := cmd().(flow.NavigateMsg)
	if !ok || nav.To != flow.RouteResults {
		t.Errorf("expected results route, got %+v", cmd())
	}
}

func TestDemoToggleReloads(t *testing.T) {
	backend, ctrl := newBackend(t)
	sess := &session.Session{ID: "s1", UserID: "u-1", DemoMode: true}
	e := loaded(t, sess, ctrl, "M05_Gender")

	sess.DemoMode = false
	_, cmd := e.Update(flow.DemoModeChangedMsg{On: false})
	if !e.loading {
		t.Fatal("expected reload after demo toggle")
	}
	e.Update(findLoaded(t, cmd))

	if backend.Calls(api.PathExercisesGen) != 1 {
		t.Errorf("expected live reload to call the backend, got %d", backend.Calls(api.PathExercisesGen))
	}
	if e.practice.Score() != session.BaseAccelerationScore {
		t.Error("expected practice restarted after reload")
	}
}

func TestCloseDropsPendingResult(t *testing.T) {
	_, ctrl := newBackend(t)
	sess := &session.Session{ID: "s1", DemoMode: true}
	e := New(sess, ctrl, "M05_Gender")

	msg := findLoaded(t, e.Init())
	e.Close()
	e.Update(msg)

	if e.practice != nil || sess.ModuleID != "" {
		t.Error("expected closed screen to ignore its late result")
	}
}
