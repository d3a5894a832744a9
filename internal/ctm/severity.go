package ctm

import (
	"encoding/json"
	"fmt"
)

// Severity grades how much work a module needs for one learner.
type Severity int

const (
	StrongFoundation  Severity = 0
	RefinementZone    Severity = 1
	GrowthOpportunity Severity = 2
)

// Severities lists every severity in ascending order.
var Severities = []Severity{StrongFoundation, RefinementZone, GrowthOpportunity}

// Valid reports whether s is one of the three known severities.
func (s Severity) Valid() bool {
	return s >= StrongFoundation && s <= GrowthOpportunity
}

func (s Severity) String() string {
	switch s {
	case StrongFoundation:
		return "Strong Foundation"
	case RefinementZone:
		return "Refinement Zone"
	case GrowthOpportunity:
		return "Growth Opportunity"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return json.Marshal(int(s))
}

// UnmarshalJSON accepts only the integers 0, 1 and 2.
func (s *Severity) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("severity: %w", err)
	}
	v := Severity(n)
	if !v.Valid() {
		return fmt.Errorf("severity %d out of range", n)
	}
	*s = v
	return nil
}
