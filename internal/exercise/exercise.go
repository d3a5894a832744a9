// Package exercise maps generated exercise sets into practice items.
package exercise

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mixingo/mixingo/internal/ctm"
)

// APIQuestion is one generated question as the backend returns it.
type APIQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Feedback      string   `json:"feedback,omitempty"`
}

// Set is the response of the exercise generator.
type Set struct {
	ModuleID         string        `json:"module_id,omitempty"`
	MicroExplanation string        `json:"micro_explanation,omitempty"`
	Questions        []APIQuestion `json:"questions,omitempty"`
}

// Item is one exercise ready for practice.
type Item struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	Prompt       string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Hint         string   `json:"hint"`
	HintContext  string   `json:"hint_context"`
	Status       string   `json:"status,omitempty"`
	Audio        bool     `json:"audio,omitempty"`
}

// Correct returns the text of the correct option.
func (it Item) Correct() string {
	if it.CorrectIndex < 0 || it.CorrectIndex >= len(it.Options) {
		return ""
	}
	return it.Options[it.CorrectIndex]
}

const (
	defaultHint        = "Good thinking!"
	defaultHintContext = "AI-generated hint"
	defaultStatus      = "AI optimizing difficulty…"
)

var (
	// ErrNoQuestions is returned when a generated set is empty.
	ErrNoQuestions = errors.New("exercise set has no questions")
	// ErrAnswerNotInOptions is returned when a correct answer is not one of
	// the question's options.
	ErrAnswerNotInOptions = errors.New("correct answer is not among the options")
)

// ValidationError lists the questions whose answers could not be matched.
type ValidationError struct {
	Questions []int
}

func (e *ValidationError) Error() string {
	idx := make([]string, len(e.Questions))
	for i, q := range e.Questions {
		idx[i] = fmt.Sprint(q + 1)
	}
	return fmt.Sprintf("exercise set: answer not in options for question %s", strings.Join(idx, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrAnswerNotInOptions }

// CorrectIndex locates answer in options. When it is missing the index is 0
// and the error is ErrAnswerNotInOptions.
func CorrectIndex(options []string, answer string) (int, error) {
	if i := slices.Index(options, answer); i >= 0 {
		return i, nil
	}
	return 0, ErrAnswerNotInOptions
}

// CategoryFor labels an exercise by the severity of its module.
func CategoryFor(s ctm.Severity) string {
	switch s {
	case ctm.StrongFoundation, ctm.GrowthOpportunity:
		return s.String()
	default:
		return ctm.RefinementZone.String()
	}
}

// FromSet maps every question of set into an Item. Items are still returned
// alongside a *ValidationError so callers can decide what to show.
func FromSet(set Set, severity ctm.Severity) ([]Item, error) {
	if len(set.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	category := CategoryFor(severity)
	items := make([]Item, 0, len(set.Questions))
	var bad []int
	for i, q := range set.Questions {
		correct, err := CorrectIndex(q.Options, q.CorrectAnswer)
		if err != nil {
			bad = append(bad, i)
		}
		hint := q.Feedback
		if hint == "" {
			hint = defaultHint
		}
		items = append(items, Item{
			ID:           i + 1,
			Title:        fmt.Sprintf("Exercise %d", i+1),
			Category:     category,
			Description:  q.Question,
			Prompt:       q.Question,
			Options:      slices.Clone(q.Options),
			CorrectIndex: correct,
			Hint:         hint,
			HintContext:  defaultHintContext,
			Status:       defaultStatus,
		})
	}
	if len(bad) > 0 {
		return items, &ValidationError{Questions: bad}
	}
	return items, nil
}
