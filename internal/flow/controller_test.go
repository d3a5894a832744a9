package flow

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixingo/mixingo/internal/api"
	"github.com/mixingo/mixingo/internal/ctm"
	"github.com/mixingo/mixingo/internal/exercise"
	"github.com/mixingo/mixingo/internal/fixtures"
	"github.com/mixingo/mixingo/internal/mockapi"
	"github.com/mixingo/mixingo/internal/session"
)

// fakeBackend counts calls and returns canned results.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	warmup     *api.WarmupResult
	analysis   *ctm.Analysis
	set        *exercise.Set
	err        error
	lastUser   string
	lastModule string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) count(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeBackend) SubmitWarmup(_ context.Context, userID string, _ []session.WarmupAnswer) (*api.WarmupResult, error) {
	f.count("warmup")
	f.lastUser = userID
	return f.warmup, f.err
}

func (f *fakeBackend) AnalyzeCTM(_ context.Context, userID string) (*ctm.Analysis, error) {
	f.count("analyze")
	f.lastUser = userID
	return f.analysis, f.err
}

func (f *fakeBackend) GenerateExercises(_ context.Context, moduleID, userID string) (*exercise.Set, error) {
	f.count("generate")
	f.lastUser = userID
	f.lastModule = moduleID
	return f.set, f.err
}

func sampleAnswers() []session.WarmupAnswer {
	return []session.WarmupAnswer{
		{QuestionID: "q1", AnswerText: "important", TimeTakenSeconds: 2, IsCorrect: true, Category: session.CategoryVocabulary},
		{QuestionID: "q2", AnswerText: "le table", TimeTakenSeconds: 4, IsCorrect: false, Category: session.CategoryGrammar},
		{QuestionID: "q3", AnswerText: "Je cherche un hôtel", TimeTakenSeconds: 3, IsCorrect: true, Category: session.CategoryPragmatics},
	}
}

func TestDemoModeMakesNoCalls(t *testing.T) {
	fb := newFakeBackend()
	c := NewController(fb, time.Second)
	ctx := context.Background()
	s := &session.Session{ID: "s", DemoMode: true, Selection: session.DemoSelection()}

	w := c.SubmitWarmup(ctx, s, sampleAnswers())
	assert.Nil(t, w.Advisory)
	assert.InDelta(t, 2.0/3.0, w.Signals.AccuracyRate, 1e-9)
	w.Apply(s)

	a, err := c.LoadAnalysis(ctx, s)
	require.NoError(t, err)
	assert.Nil(t, a.Advisory)
	assert.InDelta(t, 32.0, a.Analysis.AccelerationPercent, 1e-9)
	a.Apply(s)

	e, err := c.LoadExercises(ctx, s, "M05_Gender")
	require.NoError(t, err)
	assert.Nil(t, e.Advisory)
	assert.Len(t, e.Items, 3)
	assert.Equal(t, "M05_Gender", e.ModuleID)

	assert.Zero(t, fb.total(), "demo mode must not reach the backend")
}

func TestFallbackOnFailure(t *testing.T) {
	failures := []struct {
		name string
		err  error
		kind AdvisoryKind
	}{
		{"network", &api.TransportError{Op: "x", Err: errors.New("connection refused")}, AdvisoryNetwork},
		{"status", &api.StatusError{StatusCode: 500}, AdvisoryNetwork},
		{"timeout", &api.TransportError{Op: "x", Err: context.DeadlineExceeded}, AdvisoryTimeout},
		{"malformed", &api.MalformedError{Op: "x", Err: errors.New("bad json")}, AdvisoryMalformed},
	}
	for _, f := range failures {
		t.Run(f.name, func(t *testing.T) {
			fb := newFakeBackend()
			fb.err = f.err
			c := NewController(fb, time.Second)
			ctx := context.Background()
			s := &session.Session{ID: "s", Selection: session.DemoSelection()}

			w := c.SubmitWarmup(ctx, s, sampleAnswers())
			require.NotNil(t, w.Advisory)
			assert.Equal(t, f.kind, w.Advisory.Kind)
			assert.True(t, w.Sample)
			w.Apply(s)
			assert.True(t, s.Sample)

			// A sample session shows the fixture plan without asking again.
			a, err := c.LoadAnalysis(ctx, s)
			require.NoError(t, err)
			assert.Len(t, a.Analysis.Heatmap, 6)
			assert.Equal(t, 1, fb.calls["warmup"])
			assert.Zero(t, fb.calls["analyze"])

			live := &session.Session{ID: "l", UserID: "u-1"}
			a, err = c.LoadAnalysis(ctx, live)
			require.NoError(t, err)
			require.NotNil(t, a.Advisory)
			assert.Equal(t, f.kind, a.Advisory.Kind)
			assert.Len(t, a.Analysis.Heatmap, 6)
			assert.True(t, a.Sample)

			e, err := c.LoadExercises(ctx, live, "M05_Gender")
			require.NoError(t, err)
			require.NotNil(t, e.Advisory)
			assert.Equal(t, f.kind, e.Advisory.Kind)
			assert.Equal(t, fixtures.Exercises(), e.Items)
		})
	}
}

func TestAdvisoryTexts(t *testing.T) {
	fb := newFakeBackend()
	fb.err = &api.StatusError{StatusCode: 503, Body: "Traceback (most recent call last)"}
	c := NewController(fb, time.Second)
	ctx := context.Background()
	live := &session.Session{ID: "l", UserID: "u-1"}

	w := c.SubmitWarmup(ctx, live, sampleAnswers())
	assert.Equal(t, TextWarmupFallback, w.Advisory.Text)

	a, _ := c.LoadAnalysis(ctx, live)
	assert.Equal(t, TextAnalysisFallback, a.Advisory.Text)

	e, _ := c.LoadExercises(ctx, live, "")
	assert.Equal(t, TextExercisesFallback, e.Advisory.Text)
	assert.NotContains(t, e.Advisory.Text, "Traceback")
}

func TestLoadAnalysisMissingUser(t *testing.T) {
	fb := newFakeBackend()
	c := NewController(fb, time.Second)

	for _, uid := range []string{"", session.DemoUserID} {
		_, err := c.LoadAnalysis(context.Background(), &session.Session{ID: "s", UserID: uid})
		assert.ErrorIs(t, err, ErrMissingUser)
	}
	assert.Zero(t, fb.total())
}

func TestLoadAnalysisSanitizes(t *testing.T) {
	fb := newFakeBackend()
	fb.analysis = fixtures.Analysis()
	fb.analysis.RecommendedModuleOrder = []string{"M99_Ghost", "M04_WordOrder"}
	c := NewController(fb, time.Second)

	out, err := c.LoadAnalysis(context.Background(), &session.Session{ID: "s", UserID: "u-1"})
	require.NoError(t, err)
	assert.Nil(t, out.Advisory)
	assert.Equal(t, []string{"M04_WordOrder"}, out.Analysis.RecommendedModuleOrder)
	assert.Equal(t, "u-1", fb.lastUser)
}

func TestLoadAnalysisInvalid(t *testing.T) {
	fb := newFakeBackend()
	fb.analysis = &ctm.Analysis{AccelerationPercent: 10}
	c := NewController(fb, time.Second)

	out, err := c.LoadAnalysis(context.Background(), &session.Session{ID: "s", UserID: "u-1"})
	require.NoError(t, err)
	require.NotNil(t, out.Advisory)
	assert.Equal(t, AdvisoryInvalid, out.Advisory.Kind)
	assert.Equal(t, TextAnalysisInvalid, out.Advisory.Text)
	assert.Len(t, out.Analysis.Heatmap, 6)
}

func TestLoadExercisesInvalidAnswer(t *testing.T) {
	fb := newFakeBackend()
	fb.set = &exercise.Set{Questions: []exercise.APIQuestion{
		{Question: "__ maison", Options: []string{"le", "la"}, CorrectAnswer: "les"},
	}}
	c := NewController(fb, time.Second)

	out, err := c.LoadExercises(context.Background(), &session.Session{ID: "s", UserID: "u-1"}, "M05_Gender")
	require.NoError(t, err)
	require.NotNil(t, out.Advisory)
	assert.Equal(t, AdvisoryInvalid, out.Advisory.Kind)
	assert.Equal(t, TextExercisesInvalid, out.Advisory.Text)
	assert.Equal(t, fixtures.Exercises(), out.Items)
}

func TestLoadExercisesEmpty(t *testing.T) {
	fb := newFakeBackend()
	fb.set = &exercise.Set{ModuleID: "M05_Gender"}
	c := NewController(fb, time.Second)

	out, err := c.LoadExercises(context.Background(), &session.Session{ID: "s", UserID: "u-1"}, "M05_Gender")
	require.NoError(t, err)
	require.NotNil(t, out.Advisory)
	assert.Equal(t, AdvisoryMalformed, out.Advisory.Kind)
	assert.Len(t, out.Items, 3)
}

func TestLoadExercisesUserAndModule(t *testing.T) {
	fb := newFakeBackend()
	fb.set = &exercise.Set{
		MicroExplanation: "Articles agree with gender.",
		Questions: []exercise.APIQuestion{
			{Question: "__ livre", Options: []string{"le", "la"}, CorrectAnswer: "le"},
		},
	}
	c := NewController(fb, time.Second)
	ctx := context.Background()

	// No user id: the default module is used and no user id is sent.
	out, err := c.LoadExercises(ctx, &session.Session{ID: "s"}, "")
	require.NoError(t, err)
	assert.Equal(t, ctm.DefaultExerciseModule, fb.lastModule)
	assert.Equal(t, "", fb.lastUser)
	assert.Equal(t, "Articles agree with gender.", out.Explanation)
	assert.Equal(t, "Refinement Zone", out.Items[0].Category)

	s := &session.Session{ID: "s", UserID: "u-7", Analysis: fixtures.Analysis()}
	out, err = c.LoadExercises(ctx, s, "M05_Gender")
	require.NoError(t, err)
	assert.Equal(t, "u-7", fb.lastUser)
	assert.Equal(t, "Growth Opportunity", out.Items[0].Category)
	out.Apply(s)
	assert.Equal(t, "M05_Gender", s.ModuleID)
}

func TestSubmitWarmupLive(t *testing.T) {
	fb := newFakeBackend()
	fb.warmup = &api.WarmupResult{UserID: "u-new", Signals: session.Signals{AccuracyRate: 0.66}}
	c := NewController(fb, time.Second)
	s := &session.Session{ID: "s", Sample: true}

	out := c.SubmitWarmup(context.Background(), s, sampleAnswers())
	assert.Nil(t, out.Advisory)
	out.Apply(s)
	assert.Equal(t, "u-new", s.UserID)
	assert.False(t, s.Sample)
	require.NotNil(t, s.Signals)
	assert.NotNil(t, s.Signals.ErrorDistribution)
	assert.Equal(t, "", fb.lastUser)
}

func TestSubmitWarmupEmptyUserID(t *testing.T) {
	fb := newFakeBackend()
	fb.warmup = &api.WarmupResult{}
	c := NewController(fb, time.Second)

	out := c.SubmitWarmup(context.Background(), &session.Session{ID: "s"}, sampleAnswers())
	require.NotNil(t, out.Advisory)
	assert.Equal(t, AdvisoryInvalid, out.Advisory.Kind)
	assert.True(t, out.Sample)
}

func TestControllerTimeoutAgainstSlowBackend(t *testing.T) {
	backend := mockapi.New()
	backend.AddUser("u-1")
	backend.Fail(api.PathCTMAnalyze, mockapi.Fault{Delay: 2 * time.Second})
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	c := NewController(api.New(srv.URL), 50*time.Millisecond)
	start := time.Now()
	out, err := c.LoadAnalysis(context.Background(), &session.Session{ID: "s", UserID: "u-1"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second, "a hung request must not block the flow")
	require.NotNil(t, out.Advisory)
	assert.Equal(t, AdvisoryTimeout, out.Advisory.Kind)
	assert.Equal(t, TextTimeoutFallback, out.Advisory.Text)
}

func TestCancelledLoadReturnsError(t *testing.T) {
	backend := mockapi.New()
	backend.AddUser("u-1")
	backend.Fail(api.PathCTMAnalyze, mockapi.Fault{Delay: 2 * time.Second})
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	c := NewController(api.New(srv.URL), 5*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := c.LoadAnalysis(ctx, &session.Session{ID: "s", UserID: "u-1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLiveFlowAgainstMockBackend(t *testing.T) {
	backend := mockapi.New()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	c := NewController(api.New(srv.URL), time.Second)
	ctx := context.Background()

	s := &session.Session{ID: "s", Selection: session.DemoSelection()}
	c.SubmitWarmup(ctx, s, sampleAnswers()).Apply(s)
	require.True(t, s.HasUser())

	a, err := c.LoadAnalysis(ctx, s)
	require.NoError(t, err)
	assert.Nil(t, a.Advisory)
	a.Apply(s)

	e, err := c.LoadExercises(ctx, s, s.Analysis.StartModule())
	require.NoError(t, err)
	assert.Nil(t, e.Advisory)
	assert.Len(t, e.Items, 3)

	var body map[string]any
	require.NoError(t, json.Unmarshal(backend.LastBody(api.PathExercisesGen), &body))
	assert.Equal(t, s.UserID, body["user_id"])
}

func TestEndToEndDemoScenario(t *testing.T) {
	fb := newFakeBackend()
	c := NewController(fb, time.Second)
	ctx := context.Background()
	reg := session.NewRegistry()

	s := reg.Create(true)
	tr, err := Next(RouteLanding, TriggerBegin, Input{Session: s})
	require.NoError(t, err)
	require.Equal(t, RouteOnboarding, tr.To)

	known := s.Selection.Known()
	require.Len(t, known, 3)
	assert.Equal(t, session.LanguageEntry{Language: "Cantonese", Level: session.LevelNative}, known[0])
	assert.Equal(t, "French", s.Selection.Target)
	assert.Equal(t, "Speak confidently", s.Selection.Goal)

	tr, err = Next(RouteOnboarding, TriggerStart, Input{Session: s})
	require.NoError(t, err)
	require.Equal(t, RouteWarmup, tr.To)

	w := session.NewWarmup(nil)
	for i := range w.Questions() {
		require.True(t, w.Choose(i, 0))
	}
	c.SubmitWarmup(ctx, s, w.Answers()).Apply(s)

	tr, err = Next(RouteWarmup, TriggerSubmit, Input{Session: s, WarmupComplete: w.Complete()})
	require.NoError(t, err)
	require.Equal(t, RouteResults, tr.To)
	assert.True(t, tr.Payload.DemoMode)

	a, err := c.LoadAnalysis(ctx, s)
	require.NoError(t, err)
	a.Apply(s)
	assert.InDelta(t, 32.0, s.Analysis.AccelerationPercent, 1e-9)

	tr, err = Next(RouteResults, TriggerSelectCell, Input{Session: s, ModuleID: "M05_Gender"})
	require.NoError(t, err)
	assert.Equal(t, RouteExercises, tr.To)
	assert.Equal(t, "M05_Gender", tr.Payload.ModuleID)
	assert.Equal(t, session.DemoUserID, tr.Payload.UserID)

	e, err := c.LoadExercises(ctx, s, tr.Payload.ModuleID)
	require.NoError(t, err)
	assert.Equal(t, "M05_Gender", e.ModuleID)
	assert.Zero(t, fb.total())
}

func TestLoadExercisesOmitsSentinelUser(t *testing.T) {
	backend := mockapi.New()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	c := NewController(api.New(srv.URL), time.Second)

	s := &session.Session{ID: "s", Sample: true}
	require.Equal(t, session.DemoUserID, s.EffectiveUserID())

	_, err := c.LoadExercises(context.Background(), s, "M05_Gender")
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(backend.LastBody(api.PathExercisesGen), &body))
	assert.Equal(t, "M05_Gender", body["module_id"])
	assert.NotContains(t, body, "user_id")
}
