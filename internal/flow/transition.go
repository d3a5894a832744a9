package flow

import (
	"errors"
	"fmt"

	"github.com/mixingo/mixingo/internal/session"
)

// Trigger is a learner action that may move the flow.
type Trigger int

const (
	TriggerBegin Trigger = iota
	TriggerStart
	TriggerSubmit
	TriggerSelectCell
	TriggerPrimaryCTA
	TriggerRetry
	TriggerRestart
	TriggerHome
)

func (t Trigger) String() string {
	switch t {
	case TriggerBegin:
		return "begin"
	case TriggerStart:
		return "start"
	case TriggerSubmit:
		return "submit"
	case TriggerSelectCell:
		return "select-cell"
	case TriggerPrimaryCTA:
		return "primary-cta"
	case TriggerRetry:
		return "retry"
	case TriggerRestart:
		return "restart"
	case TriggerHome:
		return "home"
	default:
		return fmt.Sprintf("Trigger(%d)", int(t))
	}
}

var (
	// ErrNotReady is returned when the trigger's gating condition does not hold.
	ErrNotReady = errors.New("flow: step is not complete")
	// ErrNoTransition is returned for a trigger that means nothing on the route.
	ErrNoTransition = errors.New("flow: no transition")
	// ErrMissingUser is returned when live data needs a user id that was never assigned.
	ErrMissingUser = errors.New("flow: no user id")
)

// Input is the local state the transition table reads.
type Input struct {
	Session *session.Session

	// WarmupComplete is set when every warm-up question has an answer.
	WarmupComplete bool

	// ModuleID is the heatmap cell picked on the results screen.
	ModuleID string

	// Blocked is set while the results screen shows the missing-user error.
	Blocked bool
}

// Payload is carried to the next screen.
type Payload struct {
	SessionID string
	DemoMode  bool
	UserID    string
	ModuleID  string
}

// Transition is the outcome of Next.
type Transition struct {
	To      Route
	Payload Payload
}

// Next computes the route that trigger leads to from the current route.
// It never mutates in.
func Next(from Route, trigger Trigger, in Input) (Transition, error) {
	if trigger == TriggerRestart {
		return Transition{To: RouteOnboarding, Payload: sessionPayload(in)}, nil
	}
	if trigger == TriggerHome {
		return Transition{To: RouteLanding, Payload: sessionPayload(in)}, nil
	}

	switch {
	case from == RouteLanding && trigger == TriggerBegin:
		return Transition{To: RouteOnboarding, Payload: sessionPayload(in)}, nil

	case from == RouteOnboarding && trigger == TriggerStart:
		if in.Session == nil || !in.Session.Selection.CanStart() {
			return Transition{}, ErrNotReady
		}
		return Transition{To: RouteWarmup, Payload: sessionPayload(in)}, nil

	case from == RouteWarmup && trigger == TriggerSubmit:
		if in.Session == nil || !in.WarmupComplete {
			return Transition{}, ErrNotReady
		}
		p := sessionPayload(in)
		if in.Session.DemoMode {
			p.DemoMode = true
		} else {
			p.UserID = in.Session.UserID
		}
		return Transition{To: RouteResults, Payload: p}, nil

	case from == RouteResults && (trigger == TriggerSelectCell || trigger == TriggerPrimaryCTA):
		if in.Session == nil || in.Blocked {
			return Transition{}, ErrNotReady
		}
		moduleID := in.ModuleID
		if trigger == TriggerPrimaryCTA && moduleID == "" && in.Session.Analysis != nil {
			moduleID = in.Session.Analysis.StartModule()
		}
		if moduleID == "" {
			return Transition{}, ErrNotReady
		}
		p := sessionPayload(in)
		p.ModuleID = moduleID
		p.UserID = in.Session.EffectiveUserID()
		p.DemoMode = in.Session.DemoMode
		return Transition{To: RouteExercises, Payload: p}, nil

	case from == RouteResults && trigger == TriggerRetry:
		if !in.Blocked {
			return Transition{}, ErrNotReady
		}
		return Transition{To: RouteWarmup, Payload: sessionPayload(in)}, nil

	case from == RouteExercises && trigger == TriggerRetry:
		return Transition{To: RouteResults, Payload: sessionPayload(in)}, nil
	}

	return Transition{}, fmt.Errorf("%w: %s on %s", ErrNoTransition, trigger, from)
}

func sessionPayload(in Input) Payload {
	if in.Session == nil {
		return Payload{}
	}
	return Payload{SessionID: in.Session.ID}
}
