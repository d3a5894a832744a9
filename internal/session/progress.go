package session

import "github.com/mixingo/mixingo/internal/exercise"

const (
	// BaseAccelerationScore is the score shown before any exercise is checked.
	BaseAccelerationScore = 62
	// AccelerationStep is added for every checked exercise.
	AccelerationStep = 7
	// MaxAccelerationScore caps the score.
	MaxAccelerationScore = 98
)

// Practice tracks answers to a list of exercises.
type Practice struct {
	items    []exercise.Item
	selected map[int]int
	revealed map[int]bool
	score    int
}

// NewPractice starts practice over items.
func NewPractice(items []exercise.Item) *Practice {
	return &Practice{
		items:    items,
		selected: make(map[int]int),
		revealed: make(map[int]bool),
		score:    BaseAccelerationScore,
	}
}

// Items returns the exercises being practised.
func (p *Practice) Items() []exercise.Item {
	return p.items
}

// Select marks option as the pick for exercise i. Revealed exercises are locked.
func (p *Practice) Select(i, option int) bool {
	if i < 0 || i >= len(p.items) || p.revealed[i] {
		return false
	}
	if option < 0 || option >= len(p.items[i].Options) {
		return false
	}
	p.selected[i] = option
	return true
}

// Selected returns the pick for exercise i.
func (p *Practice) Selected(i int) (int, bool) {
	opt, ok := p.selected[i]
	return opt, ok
}

// Check reveals exercise i and reports whether the pick was correct.
// ok is false when nothing is selected or i was already revealed.
func (p *Practice) Check(i int) (correct, ok bool) {
	opt, picked := p.selected[i]
	if !picked || p.revealed[i] {
		return false, false
	}
	p.revealed[i] = true
	p.score = min(p.score+AccelerationStep, MaxAccelerationScore)
	return opt == p.items[i].CorrectIndex, true
}

// Revealed reports whether exercise i has been checked.
func (p *Practice) Revealed(i int) bool {
	return p.revealed[i]
}

// Score returns the acceleration score.
func (p *Practice) Score() int {
	return p.score
}

// CorrectCount returns how many revealed exercises were answered correctly.
func (p *Practice) CorrectCount() int {
	n := 0
	for i := range p.revealed {
		if p.selected[i] == p.items[i].CorrectIndex {
			n++
		}
	}
	return n
}

// Complete reports whether every exercise has been checked.
func (p *Practice) Complete() bool {
	return len(p.items) > 0 && len(p.revealed) == len(p.items)
}
