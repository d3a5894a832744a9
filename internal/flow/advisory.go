package flow

import (
	"errors"

	"github.com/mixingo/mixingo/internal/api"
	"github.com/mixingo/mixingo/internal/ctm"
	"github.com/mixingo/mixingo/internal/exercise"
)

// AdvisoryKind classifies why sample data is being shown.
type AdvisoryKind int

const (
	AdvisoryNetwork AdvisoryKind = iota
	AdvisoryTimeout
	AdvisoryMalformed
	AdvisoryInvalid
)

func (k AdvisoryKind) String() string {
	switch k {
	case AdvisoryNetwork:
		return "network"
	case AdvisoryTimeout:
		return "timeout"
	case AdvisoryMalformed:
		return "malformed"
	case AdvisoryInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Advisory is a non-fatal notice shown next to sample data.
type Advisory struct {
	Kind AdvisoryKind
	Text string
}

// Advisory texts shown to the learner.
const (
	TextWarmupFallback    = "Could not submit your warm-up. Showing sample insights instead."
	TextAnalysisFallback  = "Could not load your learning plan. Showing a sample plan instead."
	TextAnalysisInvalid   = "Your learning plan came back incomplete. Showing a sample plan instead."
	TextExercisesFallback = "Could not load exercises. Showing sample instead."
	TextExercisesInvalid  = "Some generated exercises had no valid answer. Showing sample instead."
	TextTimeoutFallback   = "The server took too long to respond. Showing sample content instead."
	TextMissingUser       = "No user ID found. Please restart the warm-up."
)

// errInvalidData marks a response that decoded but cannot be used.
var errInvalidData = errors.New("invalid data")

// classify maps a failure onto an advisory kind.
func classify(err error) AdvisoryKind {
	var malformed *api.MalformedError
	switch {
	case api.IsTimeout(err):
		return AdvisoryTimeout
	case errors.Is(err, errInvalidData), errors.Is(err, exercise.ErrAnswerNotInOptions), errors.Is(err, ctm.ErrEmptyHeatmap):
		return AdvisoryInvalid
	case errors.As(err, &malformed), errors.Is(err, exercise.ErrNoQuestions):
		return AdvisoryMalformed
	default:
		return AdvisoryNetwork
	}
}

// advise builds the advisory for err. fallback and invalid are the
// operation-specific sentences.
func advise(err error, fallback, invalid string) *Advisory {
	kind := classify(err)
	switch kind {
	case AdvisoryTimeout:
		return &Advisory{Kind: kind, Text: TextTimeoutFallback}
	case AdvisoryInvalid:
		return &Advisory{Kind: kind, Text: invalid}
	default:
		return &Advisory{Kind: kind, Text: fallback}
	}
}
