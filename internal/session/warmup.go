package session

import (
	"fmt"
	"math"
	"time"
)

// Category is the skill area a warm-up question probes.
type Category string

const (
	CategoryVocabulary Category = "vocabulary"
	CategoryGrammar    Category = "grammar"
	CategoryPragmatics Category = "pragmatics"
)

// Categories lists the warm-up categories in question order.
var Categories = []Category{CategoryVocabulary, CategoryGrammar, CategoryPragmatics}

// WarmupOption is one lettered answer to a warm-up question.
type WarmupOption struct {
	Key     string
	Text    string
	Correct bool
}

// WarmupQuestion is a fixed warm-up question.
type WarmupQuestion struct {
	ID       int
	Tag      string
	Category Category
	Prompt   string
	Insight  string
	Options  []WarmupOption
}

// WarmupQuestions is the fixed warm-up sequence. More than one option may be correct.
var WarmupQuestions = []WarmupQuestion{
	{
		ID:       1,
		Tag:      "Vocabulary",
		Category: CategoryVocabulary,
		Prompt:   "Which French word feels most familiar?",
		Insight:  "Analysing vocabulary connections…",
		Options: []WarmupOption{
			{Key: "a", Text: "important", Correct: true},
			{Key: "b", Text: "toujours"},
			{Key: "c", Text: "cheval"},
			{Key: "d", Text: "fenêtre"},
		},
	},
	{
		ID:       2,
		Tag:      "Grammar",
		Category: CategoryGrammar,
		Prompt:   "Nouns in French have gender. Which sounds right?",
		Insight:  "Mapping grammar patterns…",
		Options: []WarmupOption{
			{Key: "a", Text: "la table", Correct: true},
			{Key: "b", Text: "le table"},
			{Key: "c", Text: "la maison", Correct: true},
			{Key: "d", Text: "le maison"},
		},
	},
	{
		ID:       3,
		Tag:      "Meaning",
		Category: CategoryPragmatics,
		Prompt:   `"I'm looking for a hotel." Which French sentence matches?`,
		Insight:  "Detecting transfer patterns…",
		Options: []WarmupOption{
			{Key: "a", Text: "Je cherche un hôtel", Correct: true},
			{Key: "b", Text: "Je mange un hôtel"},
			{Key: "c", Text: "Je suis un hôtel"},
			{Key: "d", Text: "Je parle hôtel"},
		},
	},
}

// WarmupAnswer is the wire form of one answered warm-up question.
type WarmupAnswer struct {
	QuestionID       string   `json:"question_id"`
	AnswerText       string   `json:"answer"`
	TimeTakenSeconds float64  `json:"time_taken"`
	IsCorrect        bool     `json:"correct"`
	Category         Category `json:"category"`
}

type warmupChoice struct {
	option int
	took   time.Duration
}

// Warmup collects one locked answer per warm-up question.
type Warmup struct {
	questions []WarmupQuestion
	choices   map[int]warmupChoice
	now       func() time.Time
	last      time.Time
}

// NewWarmup starts a warm-up over the fixed questions. A nil clock uses time.Now.
func NewWarmup(now func() time.Time) *Warmup {
	if now == nil {
		now = time.Now
	}
	return &Warmup{
		questions: WarmupQuestions,
		choices:   make(map[int]warmupChoice),
		now:       now,
		last:      now(),
	}
}

// Questions returns the questions in order.
func (w *Warmup) Questions() []WarmupQuestion {
	return w.questions
}

// Choose records option for question q. Answers are final: it returns
// false when q is already answered or either index is out of range.
func (w *Warmup) Choose(q, option int) bool {
	if q < 0 || q >= len(w.questions) {
		return false
	}
	if option < 0 || option >= len(w.questions[q].Options) {
		return false
	}
	if _, done := w.choices[q]; done {
		return false
	}
	now := w.now()
	w.choices[q] = warmupChoice{option: option, took: now.Sub(w.last)}
	w.last = now
	return true
}

// Chosen returns the option picked for question q.
func (w *Warmup) Chosen(q int) (int, bool) {
	c, ok := w.choices[q]
	return c.option, ok
}

// AnsweredCount returns how many questions have an answer.
func (w *Warmup) AnsweredCount() int {
	return len(w.choices)
}

// Complete reports whether every question is answered.
func (w *Warmup) Complete() bool {
	return len(w.choices) == len(w.questions)
}

// Progress returns the answered fraction in [0, 1].
func (w *Warmup) Progress() float64 {
	if len(w.questions) == 0 {
		return 0
	}
	return float64(len(w.choices)) / float64(len(w.questions))
}

// Answers builds the submission payload in question order, skipping
// unanswered questions.
func (w *Warmup) Answers() []WarmupAnswer {
	answers := make([]WarmupAnswer, 0, len(w.choices))
	for i, q := range w.questions {
		c, ok := w.choices[i]
		if !ok {
			continue
		}
		opt := q.Options[c.option]
		answers = append(answers, WarmupAnswer{
			QuestionID:       fmt.Sprintf("q%d", q.ID),
			AnswerText:       opt.Text,
			TimeTakenSeconds: math.Round(c.took.Seconds()*10) / 10,
			IsCorrect:        opt.Correct,
			Category:         q.Category,
		})
	}
	return answers
}
