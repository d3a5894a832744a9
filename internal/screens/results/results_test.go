package results

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/mixingo/mixingo/internal/api"
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

func findLoaded(t *testing.T, cmd tea.Cmd) analysisLoadedMsg {
	t.Helper()
	for _, m := range collect(cmd) {
		if l, ok := m.(analysisLoadedMsg); ok {
			return l
		}
	}
	t.Fatal("no analysisLoadedMsg produced")
	return analysisLoadedMsg{}
}

func newBackend(t *testing.T) (*mockapi.Server, *flow.Controller) {
	t.Helper()
	backend := mockapi.New()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return backend, flow.NewController(api.New(srv.URL), time.Second)
}

// loaded returns a results screen that finished its first load.
func loaded(t *testing.T, sess *session.Session, ctrl *flow.Controller) *ResultsScreen {
	t.Helper()
	r := New(sess, ctrl)
	r.Update(findLoaded(t, r.Init()))
	if r.loading {
		t.Fatal("expected load to finish")
	}
	return r
}

func navigation(t *testing.T, cmd tea.Cmd) flow.NavigateMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	nav, ok := cmd().(flow.NavigateMsg)
	if !ok {
		t.Fatalf("expected NavigateMsg, got %T", cmd())
	}
	return nav
}

func TestDemoLoadsFixtureWithoutNetwork(t *testing.T) {
	backend, ctrl := newBackend(t)
	sess := &session.Session{ID: "s1", DemoMode: true}

	r := loaded(t, sess, ctrl)

	if r.analysis == nil || r.analysis.AccelerationPercent != 32 {
		t.Fatalf("expected sample analysis, got %+v", r.analysis)
	}
	if r.advisory != "" {
		t.Errorf("expected no advisory in demo mode, got %q", r.advisory)
	}
	if sess.Analysis == nil {
		t.Error("expected analysis stored on the session")
	}
	if backend.TotalCalls() != 0 {
		t.Errorf("expected no backend calls, got %d", backend.TotalCalls())
	}
}

func TestMissingUserBlocks(t *testing.T) {
	_, ctrl := newBackend(t)
	r := loaded(t, &session.Session{ID: "s1"}, ctrl)

	if !r.blocked {
		t.Fatal("expected blocking error without a user id")
	}
	if !strings.Contains(r.View(100, 40), flow.TextMissingUser) {
		t.Error("expected missing-user message in view")
	}

	_, cmd := r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	nav := navigation(t, cmd)
	if nav.To != flow.RouteWarmup {
		t.Errorf("expected retry to go to warm-up, got %s", nav.To)
	}
}

func TestServerErrorFallsBack(t *testing.T) {
	backend, ctrl := newBackend(t)
	backend.AddUser("u-1")
	backend.Fail(api.PathCTMAnalyze, mockapi.Fault{Status: http.StatusInternalServerError, Body: "boom"})

	r := loaded(t, &session.Session{ID: "s1", UserID: "u-1"}, ctrl)

	if r.blocked {
		t.Fatal("expected fallback, not a blocking error")
	}
	if r.advisory != flow.TextAnalysisFallback {
		t.Errorf("expected analysis fallback advisory, got %q", r.advisory)
	}
	if r.analysis == nil {
		t.Error("expected sample analysis")
	}
}

func TestSampleSessionShowsWarmupAdvisory(t *testing.T) {
	backend, ctrl := newBackend(t)
	r := loaded(t, &session.Session{ID: "s1", Sample: true}, ctrl)

	if r.advisory != flow.TextWarmupFallback {
		t.Errorf("expected warm-up fallback advisory, got %q", r.advisory)
	}
	if backend.TotalCalls() != 0 {
		t.Errorf("expected sample session to skip the network, got %d calls", backend.TotalCalls())
	}
}

func TestLiveLoad(t *testing.T) {
	backend, ctrl := newBackend(t)
	backend.AddUser("u-1")

	r := loaded(t, &session.Session{ID: "s1", UserID: "u-1"}, ctrl)

	if r.advisory != "" || r.sample {
		t.Errorf("expected clean live load, got advisory=%q sample=%v", r.advisory, r.sample)
	}
	if backend.Calls(api.PathCTMAnalyze) != 1 {
		t.Errorf("expected one analyze call, got %d", backend.Calls(api.PathCTMAnalyze))
	}
}

func TestSelectCellNavigates(t *testing.T) {
	_, ctrl := newBackend(t)
	sess := &session.Session{ID: "s1", DemoMode: true}
	r := loaded(t, sess, ctrl)

	start := r.analysis.StartModule()
	if got := r.analysis.Heatmap[r.cursor].ModuleID; got != start {
		t.Fatalf("expected cursor on %s, got %s", start, got)
	}

	r.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	want := r.analysis.Heatmap[r.cursor].ModuleID

	_, cmd := r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	nav := navigation(t, cmd)
	if nav.To != flow.RouteExercises || nav.Payload.ModuleID != want {
		t.Errorf("expected exercises for %s, got %+v", want, nav.Transition)
	}
	if nav.Payload.UserID != session.DemoUserID {
		t.Errorf("expected demo user id in payload, got %q", nav.Payload.UserID)
	}
}

func TestPrimaryCTAUsesRecommendedStart(t *testing.T) {
	_, ctrl := newBackend(t)
	r := loaded(t, &session.Session{ID: "s1", DemoMode: true}, ctrl)

	_, cmd := r.Update(tea.KeyPressMsg{Code: 's', Text: "s"})
	nav := navigation(t, cmd)
	if nav.Payload.ModuleID != "M05_Gender" {
		t.Errorf("expected M05_Gender, got %q", nav.Payload.ModuleID)
	}

	r.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	_, cmd = r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	nav = navigation(t, cmd)
	if nav.Payload.ModuleID != "M05_Gender" {
		t.Errorf("expected start button to use M05_Gender, got %q", nav.Payload.ModuleID)
	}
}

func TestDemoToggleReloadsAndDropsStaleResult(t *testing.T) {
	backend, ctrl := newBackend(t)
	backend.AddUser("u-1")
	sess := &session.Session{ID: "s1", UserID: "u-1", DemoMode: true}
	r := New(sess, ctrl)

	first := findLoaded(t, r.Init())

	sess.DemoMode = false
	_, cmd := r.Update(flow.DemoModeChangedMsg{On: false})
	second := findLoaded(t, cmd)

	r.Update(first)
	if !r.loading {
		t.Fatal("expected stale result to be ignored")
	}

	r.Update(second)
	if r.loading {
		t.Fatal("expected current result to be applied")
	}
	if backend.Calls(api.PathCTMAnalyze) != 1 {
		t.Errorf("expected the live reload to call the backend once, got %d", backend.Calls(api.PathCTMAnalyze))
	}
}

func TestCloseDropsPendingResult(t *testing.T) {
	_, ctrl := newBackend(t)
	sess := &session.Session{ID: "s1", DemoMode: true}
	r := New(sess, ctrl)

	msg := findLoaded(t, r.Init())
	r.Close()
	r.Update(msg)

	if r.analysis != nil || sess.Analysis != nil {
		t.Error("expected closed screen to ignore its late result")
	}
}

func TestWarmupSummaryShown(t *testing.T) {
	_, ctrl := newBackend(t)
	sess := &session.Session{ID: "s1", DemoMode: true}
	sess.Signals = &session.Signals{
		AccuracyRate:    0.33,
		AvgResponseTime: 4.2,
		ErrorDistribution: map[session.Category]int{
			session.CategoryGrammar:    1,
			session.CategoryVocabulary: 1,
		},
	}

	v := loaded(t, sess, ctrl).View(120, 60)
	for _, want := range []string{"33% accuracy", "4.2s avg", "vocabulary 1", "grammar 1", "pragmatics 0"} {
		if !strings.Contains(v, want) {
			t.Errorf("expected %q in warm-up summary, got %q", want, v)
		}
	}
}

func TestWarmupSummaryHiddenWithoutSignals(t *testing.T) {
	_, ctrl := newBackend(t)
	v := loaded(t, &session.Session{ID: "s1", DemoMode: true}, ctrl).View(120, 60)
	if strings.Contains(v, "accuracy") {
		t.Errorf("expected no warm-up summary without signals, got %q", v)
	}
}
