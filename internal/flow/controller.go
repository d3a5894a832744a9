package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mixingo/mixingo/internal/api"
	"github.com/mixingo/mixingo/internal/ctm"
	"github.com/mixingo/mixingo/internal/exercise"
	"github.com/mixingo/mixingo/internal/fixtures"
	"github.com/mixingo/mixingo/internal/session"
)

// Backend is the part of the gateway the flow needs.
type Backend interface {
	SubmitWarmup(ctx context.Context, userID string, answers []session.WarmupAnswer) (*api.WarmupResult, error)
	AnalyzeCTM(ctx context.Context, userID string) (*ctm.Analysis, error)
	GenerateExercises(ctx context.Context, moduleID, userID string) (*exercise.Set, error)
}

// Controller performs the backend side of each transition. Its methods
// read the session they are given and return outcomes; callers apply the
// outcome on the goroutine that owns the session.
type Controller struct {
	backend Backend
	timeout time.Duration
}

// NewController creates a Controller. A non-positive timeout uses api.DefaultTimeout.
func NewController(b Backend, timeout time.Duration) *Controller {
	if timeout <= 0 {
		timeout = api.DefaultTimeout
	}
	return &Controller{backend: b, timeout: timeout}
}

// WarmupOutcome is the result of submitting a warm-up.
type WarmupOutcome struct {
	UserID   string
	Signals  session.Signals
	Sample   bool
	Advisory *Advisory
}

// Apply stores the outcome on s.
func (o WarmupOutcome) Apply(s *session.Session) {
	if o.UserID != "" {
		s.UserID = o.UserID
	}
	sig := o.Signals
	s.Signals = &sig
	s.Sample = o.Sample
	s.Analysis = nil
}

// SubmitWarmup sends the answers unless the session is in demo mode. On
// failure the session continues on sample data.
func (c *Controller) SubmitWarmup(ctx context.Context, s *session.Session, answers []session.WarmupAnswer) WarmupOutcome {
	local := session.ComputeSignals(answers)
	if s.DemoMode {
		return WarmupOutcome{Signals: local}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.backend.SubmitWarmup(ctx, s.UserID, answers)
	if err == nil && res.UserID == "" {
		err = fmt.Errorf("%w: empty user id", errInvalidData)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return WarmupOutcome{Signals: local, Sample: true}
		}
		slog.Warn("warm-up submission failed, continuing with sample data", "session", s.ID, "error", err)
		return WarmupOutcome{Signals: local, Sample: true, Advisory: advise(err, TextWarmupFallback, TextWarmupFallback)}
	}
	if res.Signals.ErrorDistribution == nil {
		res.Signals.ErrorDistribution = map[session.Category]int{}
	}
	return WarmupOutcome{UserID: res.UserID, Signals: res.Signals}
}

// AnalysisOutcome is the result of loading the transfer map.
type AnalysisOutcome struct {
	Analysis *ctm.Analysis
	Sample   bool
	Advisory *Advisory
}

// Apply stores the outcome on s.
func (o AnalysisOutcome) Apply(s *session.Session) {
	s.Analysis = o.Analysis
}

// LoadAnalysis returns the transfer map for the session. Demo and sample
// sessions get the fixture without a request. A live session with no user
// id fails with ErrMissingUser.
func (c *Controller) LoadAnalysis(ctx context.Context, s *session.Session) (AnalysisOutcome, error) {
	if s.DemoMode || s.Sample {
		return AnalysisOutcome{Analysis: fixtures.Analysis(), Sample: s.Sample}, nil
	}
	if !s.HasUser() {
		return AnalysisOutcome{}, ErrMissingUser
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	a, err := c.backend.AnalyzeCTM(ctx, s.UserID)
	if err == nil {
		if verr := a.Validate(); verr != nil {
			err = fmt.Errorf("%w: %w", errInvalidData, verr)
		}
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return AnalysisOutcome{}, err
		}
		slog.Warn("analysis failed, showing sample plan", "session", s.ID, "error", err)
		return AnalysisOutcome{
			Analysis: fixtures.Analysis(),
			Sample:   true,
			Advisory: advise(err, TextAnalysisFallback, TextAnalysisInvalid),
		}, nil
	}

	if dropped := a.Sanitize(); len(dropped) > 0 {
		slog.Warn("dropping recommended modules missing from heatmap", "session", s.ID, "modules", dropped)
	}
	return AnalysisOutcome{Analysis: a}, nil
}

// ExercisesOutcome is the result of loading exercises for a module.
type ExercisesOutcome struct {
	ModuleID    string
	Explanation string
	Items       []exercise.Item
	Sample      bool
	Advisory    *Advisory
}

// Apply stores the outcome on s.
func (o ExercisesOutcome) Apply(s *session.Session) {
	s.ModuleID = o.ModuleID
}

// LoadExercises returns practice items for moduleID, defaulting to
// ctm.DefaultExerciseModule. The request carries user_id only when the
// backend assigned one; without it the field is omitted rather than set
// to the "demo" sentinel, which is a client-side routing value.
func (c *Controller) LoadExercises(ctx context.Context, s *session.Session, moduleID string) (ExercisesOutcome, error) {
	if moduleID == "" {
		moduleID = ctm.DefaultExerciseModule
	}
	if s.DemoMode {
		return ExercisesOutcome{ModuleID: moduleID, Items: fixtures.Exercises()}, nil
	}

	var userID string
	if s.HasUser() {
		userID = s.UserID
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	items, explanation, err := c.generate(ctx, s, moduleID, userID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return ExercisesOutcome{}, err
		}
		slog.Warn("exercise generation failed, showing sample", "session", s.ID, "module", moduleID, "error", err)
		return ExercisesOutcome{
			ModuleID: moduleID,
			Items:    fixtures.Exercises(),
			Sample:   true,
			Advisory: advise(err, TextExercisesFallback, TextExercisesInvalid),
		}, nil
	}
	return ExercisesOutcome{ModuleID: moduleID, Explanation: explanation, Items: items}, nil
}

func (c *Controller) generate(ctx context.Context, s *session.Session, moduleID, userID string) ([]exercise.Item, string, error) {
	set, err := c.backend.GenerateExercises(ctx, moduleID, userID)
	if err != nil {
		return nil, "", err
	}
	items, err := exercise.FromSet(*set, severityOf(s, moduleID))
	if err != nil {
		return nil, "", err
	}
	return items, set.MicroExplanation, nil
}

// severityOf looks the module up in the session's analysis. Unknown
// modules are treated as needing refinement.
func severityOf(s *session.Session, moduleID string) ctm.Severity {
	if s.Analysis != nil {
		if cell, ok := s.Analysis.Cell(moduleID); ok {
			return cell.Severity
		}
	}
	return ctm.RefinementZone
}
