// Package fixtures holds the sample data shown in demo mode and whenever a
// live request falls back.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/mixingo/mixingo/internal/ctm"
	"github.com/mixingo/mixingo/internal/exercise"
	"github.com/mixingo/mixingo/internal/session"
)

//go:embed data/*.json
var files embed.FS

// Highlights are the headline strengths and growth areas of the sample plan.
type Highlights struct {
	Strengths   []string `json:"strengths"`
	GrowthAreas []string `json:"growth_areas"`
}

var (
	analysis   ctm.Analysis
	exercises  []exercise.Item
	profile    session.Profile
	highlights Highlights
)

func init() {
	mustDecode("data/ctm.json", &analysis)
	mustDecode("data/exercises.json", &exercises)
	mustDecode("data/profile.json", &profile)
	mustDecode("data/highlights.json", &highlights)
}

func mustDecode(name string, v any) {
	b, err := files.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("fixtures: read %s: %v", name, err))
	}
	if err := json.Unmarshal(b, v); err != nil {
		panic(fmt.Sprintf("fixtures: decode %s: %v", name, err))
	}
}

// Analysis returns a fresh copy of the sample transfer map.
func Analysis() *ctm.Analysis {
	return analysis.Clone()
}

// Exercises returns a fresh copy of the sample exercises.
func Exercises() []exercise.Item {
	out := make([]exercise.Item, len(exercises))
	for i, it := range exercises {
		it.Options = append([]string(nil), it.Options...)
		out[i] = it
	}
	return out
}

// Profile returns the sample learner profile.
func Profile() session.Profile {
	p := profile
	p.KnownLanguages = append([]string(nil), profile.KnownLanguages...)
	return p
}

// SampleHighlights returns the headline lists of the sample plan.
func SampleHighlights() Highlights {
	return Highlights{
		Strengths:   append([]string(nil), highlights.Strengths...),
		GrowthAreas: append([]string(nil), highlights.GrowthAreas...),
	}
}

// Raw returns the embedded JSON for name ("ctm", "exercises" or "profile").
func Raw(name string) ([]byte, error) {
	return files.ReadFile("data/" + name + ".json")
}
