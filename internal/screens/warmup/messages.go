package warmup

import (
	"github.com/mixingo/mixingo/internal/flow"
	"github.com/mixingo/mixingo/internal/screen"
)

// submittedMsg carries the outcome of a warm-up submission.
type submittedMsg struct {
	ticket  screen.Ticket
	outcome flow.WarmupOutcome
}
