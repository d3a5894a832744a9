package flow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixingo/mixingo/internal/ctm"
	"github.com/mixingo/mixingo/internal/fixtures"
	"github.com/mixingo/mixingo/internal/session"
)

func TestParseRoute(t *testing.T) {
	tests := map[string]Route{
		"":             RouteLanding,
		"/":            RouteLanding,
		"/onboarding":  RouteOnboarding,
		"onboarding":   RouteOnboarding,
		"/warmup/":     RouteWarmup,
		"/results":     RouteResults,
		"/exercises":   RouteExercises,
		"/admin":       RouteNotFound,
		"/results/abc": RouteNotFound,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseRoute(in), in)
	}
}

func TestNextTable(t *testing.T) {
	ready := &session.Session{ID: "s1", Selection: session.DemoSelection()}
	live := &session.Session{ID: "s2", Selection: session.DemoSelection(), UserID: "u-9"}
	demo := &session.Session{ID: "s3", Selection: session.DemoSelection(), DemoMode: true, Analysis: fixtures.Analysis()}
	empty := &session.Session{ID: "s4"}

	tests := []struct {
		name    string
		from    Route
		trigger Trigger
		in      Input
		want    Transition
		wantErr error
	}{
		{"begin", RouteLanding, TriggerBegin, Input{Session: ready},
			Transition{To: RouteOnboarding, Payload: Payload{SessionID: "s1"}}, nil},
		{"start ready", RouteOnboarding, TriggerStart, Input{Session: ready},
			Transition{To: RouteWarmup, Payload: Payload{SessionID: "s1"}}, nil},
		{"start not ready", RouteOnboarding, TriggerStart, Input{Session: empty}, Transition{}, ErrNotReady},
		{"submit incomplete", RouteWarmup, TriggerSubmit, Input{Session: live}, Transition{}, ErrNotReady},
		{"submit live", RouteWarmup, TriggerSubmit, Input{Session: live, WarmupComplete: true},
			Transition{To: RouteResults, Payload: Payload{SessionID: "s2", UserID: "u-9"}}, nil},
		{"submit demo", RouteWarmup, TriggerSubmit, Input{Session: demo, WarmupComplete: true},
			Transition{To: RouteResults, Payload: Payload{SessionID: "s3", DemoMode: true}}, nil},
		{"select cell", RouteResults, TriggerSelectCell, Input{Session: live, ModuleID: "M04_WordOrder"},
			Transition{To: RouteExercises, Payload: Payload{SessionID: "s2", UserID: "u-9", ModuleID: "M04_WordOrder"}}, nil},
		{"select cell demo sentinel", RouteResults, TriggerSelectCell, Input{Session: demo, ModuleID: "M05_Gender"},
			Transition{To: RouteExercises, Payload: Payload{SessionID: "s3", UserID: "demo", ModuleID: "M05_Gender", DemoMode: true}}, nil},
		{"primary cta", RouteResults, TriggerPrimaryCTA, Input{Session: demo},
			Transition{To: RouteExercises, Payload: Payload{SessionID: "s3", UserID: "demo", ModuleID: "M05_Gender", DemoMode: true}}, nil},
		{"primary cta no analysis", RouteResults, TriggerPrimaryCTA, Input{Session: live}, Transition{}, ErrNotReady},
		{"select while blocked", RouteResults, TriggerSelectCell, Input{Session: live, ModuleID: "M05_Gender", Blocked: true}, Transition{}, ErrNotReady},
		{"retry blocked", RouteResults, TriggerRetry, Input{Session: live, Blocked: true},
			Transition{To: RouteWarmup, Payload: Payload{SessionID: "s2"}}, nil},
		{"retry not blocked", RouteResults, TriggerRetry, Input{Session: live}, Transition{}, ErrNotReady},
		{"exercises retry", RouteExercises, TriggerRetry, Input{Session: live},
			Transition{To: RouteResults, Payload: Payload{SessionID: "s2"}}, nil},
		{"restart anywhere", RouteExercises, TriggerRestart, Input{Session: live},
			Transition{To: RouteOnboarding, Payload: Payload{SessionID: "s2"}}, nil},
		{"home from not found", RouteNotFound, TriggerHome, Input{},
			Transition{To: RouteLanding}, nil},
		{"unknown pair", RouteLanding, TriggerSubmit, Input{Session: live}, Transition{}, ErrNoTransition},
		{"submit on onboarding", RouteOnboarding, TriggerSubmit, Input{Session: ready}, Transition{}, ErrNoTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.trigger, tt.in)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextStartGatingOverPartialSelections(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		s := &session.Session{ID: "s"}
		if mask&1 != 0 {
			s.Selection.Toggle("English")
		}
		if mask&2 != 0 {
			s.Selection.Target = "French"
		}
		if mask&4 != 0 {
			s.Selection.Goal = "Travel conversations"
		}
		_, err := Next(RouteOnboarding, TriggerStart, Input{Session: s})
		if mask == 7 {
			assert.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, ErrNotReady, "mask %03b", mask)
		}
	}
}

func TestNextDoesNotMutateSession(t *testing.T) {
	s := &session.Session{ID: "s", Analysis: &ctm.Analysis{RecommendedModuleOrder: []string{"M02_Cognates"}}}
	before := *s
	_, err := Next(RouteResults, TriggerPrimaryCTA, Input{Session: s})
	require.NoError(t, err)
	assert.Equal(t, before.UserID, s.UserID)
	assert.Equal(t, before.ModuleID, s.ModuleID)
}
