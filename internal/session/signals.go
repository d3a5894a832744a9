package session

// Signals summarises a warm-up the way the backend scores it.
type Signals struct {
	AccuracyRate      float64          `json:"accuracy_rate"`
	AvgResponseTime   float64          `json:"avg_response_time"`
	ErrorDistribution map[Category]int `json:"error_distribution"`

	// Set by the backend only.
	ConfidenceProxies float64 `json:"confidence_proxies,omitempty"`
	ScriptFamiliarity float64 `json:"script_familiarity,omitempty"`
}

// ComputeSignals scores answers locally. Only incorrect answers count
// toward the error distribution.
func ComputeSignals(answers []WarmupAnswer) Signals {
	sig := Signals{ErrorDistribution: make(map[Category]int)}
	if len(answers) == 0 {
		return sig
	}

	var correct int
	var total float64
	for _, a := range answers {
		total += a.TimeTakenSeconds
		if a.IsCorrect {
			correct++
			continue
		}
		sig.ErrorDistribution[a.Category]++
	}
	sig.AccuracyRate = float64(correct) / float64(len(answers))
	sig.AvgResponseTime = total / float64(len(answers))
	return sig
}
