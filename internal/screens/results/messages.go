package results

import (
	"github.com/mixingo/mixingo/internal/flow"
	"github.com/mixingo/mixingo/internal/screen"
)

// analysisLoadedMsg carries the outcome of loading the transfer map.
type analysisLoadedMsg struct {
	ticket  screen.Ticket
	outcome flow.AnalysisOutcome
	err     error
}
