package exercises

import (
	"github.com/mixingo/mixingo/internal/flow"
	"github.com/mixingo/mixingo/internal/screen"
)

// exercisesLoadedMsg carries the outcome of loading exercises.
type exercisesLoadedMsg struct {
	ticket  screen.Ticket
	outcome flow.ExercisesOutcome
	err     error
}
