package ctm

import (
	"errors"
	"fmt"
	"slices"
)

// HeatmapCell grades one module.
type HeatmapCell struct {
	ModuleID  string   `json:"module_id"`
	SkillArea string   `json:"area"`
	Severity  Severity `json:"severity"`
}

// Insight is a scored observation about the learner's languages.
type Insight struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// NextExercise is a follow-up exercise suggested by the analysis.
type NextExercise struct {
	Skill     string `json:"skill"`
	Prompt    string `json:"prompt"`
	AnswerKey string `json:"answer_key"`
}

// Analysis is the Cross-language Transfer Map computed by the backend.
type Analysis struct {
	AccelerationPercent    float64       `json:"redundancy_removed_percent"`
	ExplainabilityNotes    []string      `json:"explainability"`
	Heatmap                []HeatmapCell `json:"heatmap"`
	RecommendedModuleOrder []string      `json:"recommended_order"`

	TransferAdvantages []Insight      `json:"transfer_advantages,omitempty"`
	InterferenceRisks  []Insight      `json:"interference_risks,omitempty"`
	PronunciationRisks []Insight      `json:"pronunciation_risks,omitempty"`
	ModulesToSkip      []string       `json:"modules_to_skip,omitempty"`
	NextBestExercises  []NextExercise `json:"next_best_exercises,omitempty"`
}

// ErrEmptyHeatmap is returned by Validate when there is nothing to show.
var ErrEmptyHeatmap = errors.New("analysis has an empty heatmap")

// Validate checks the parts of an analysis the client cannot render without.
func (a *Analysis) Validate() error {
	if len(a.Heatmap) == 0 {
		return ErrEmptyHeatmap
	}
	for i, c := range a.Heatmap {
		if c.ModuleID == "" {
			return fmt.Errorf("heatmap cell %d has no module id", i)
		}
		if !c.Severity.Valid() {
			return fmt.Errorf("heatmap cell %q: invalid severity %d", c.ModuleID, int(c.Severity))
		}
	}
	return nil
}

// Sanitize drops recommended modules that have no heatmap cell and
// returns the dropped ids.
func (a *Analysis) Sanitize() []string {
	var dropped []string
	kept := a.RecommendedModuleOrder[:0:0]
	for _, id := range a.RecommendedModuleOrder {
		if _, ok := a.Cell(id); ok {
			kept = append(kept, id)
			continue
		}
		dropped = append(dropped, id)
	}
	a.RecommendedModuleOrder = kept
	return dropped
}

// Cell returns the heatmap cell for moduleID.
func (a *Analysis) Cell(moduleID string) (HeatmapCell, bool) {
	i := slices.IndexFunc(a.Heatmap, func(c HeatmapCell) bool { return c.ModuleID == moduleID })
	if i < 0 {
		return HeatmapCell{}, false
	}
	return a.Heatmap[i], true
}

// BySeverity returns the cells graded s, in heatmap order.
func (a *Analysis) BySeverity(s Severity) []HeatmapCell {
	var out []HeatmapCell
	for _, c := range a.Heatmap {
		if c.Severity == s {
			out = append(out, c)
		}
	}
	return out
}

// Strengths returns display names of modules the learner already has.
func (a *Analysis) Strengths() []string { return names(a.BySeverity(StrongFoundation)) }

// RefinementAreas returns display names of modules needing polish.
func (a *Analysis) RefinementAreas() []string { return names(a.BySeverity(RefinementZone)) }

// GrowthAreas returns display names of modules needing the most work.
func (a *Analysis) GrowthAreas() []string { return names(a.BySeverity(GrowthOpportunity)) }

// StartModule is the first recommended module, or DefaultStartModule.
func (a *Analysis) StartModule() string {
	if len(a.RecommendedModuleOrder) > 0 && a.RecommendedModuleOrder[0] != "" {
		return a.RecommendedModuleOrder[0]
	}
	return DefaultStartModule
}

// Clone returns a deep copy of a.
func (a *Analysis) Clone() *Analysis {
	c := *a
	c.ExplainabilityNotes = slices.Clone(a.ExplainabilityNotes)
	c.Heatmap = slices.Clone(a.Heatmap)
	c.RecommendedModuleOrder = slices.Clone(a.RecommendedModuleOrder)
	c.TransferAdvantages = slices.Clone(a.TransferAdvantages)
	c.InterferenceRisks = slices.Clone(a.InterferenceRisks)
	c.PronunciationRisks = slices.Clone(a.PronunciationRisks)
	c.ModulesToSkip = slices.Clone(a.ModulesToSkip)
	c.NextBestExercises = slices.Clone(a.NextBestExercises)
	return &c
}

func names(cells []HeatmapCell) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		out = append(out, ModuleName(c.ModuleID))
	}
	return out
}
