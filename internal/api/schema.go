package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema describes the expected shape of a response body. It is compiled
// on first use and the result, including a compile error, is kept.
type Schema struct {
	Name       string
	Definition map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

var insightSchema = map[string]any{
	"type":     "object",
	"required": []any{"type", "description"},
	"properties": map[string]any{
		"type":        map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
		"confidence":  map[string]any{"type": "number"},
	},
}

// WarmupSchema matches the warm-up submission response.
var WarmupSchema = &Schema{
	Name: "warmup-response",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"user_id", "signals"},
		"properties": map[string]any{
			"user_id": map[string]any{"type": "string", "minLength": 1},
			"signals": map[string]any{"type": "object"},
		},
	},
}

// AnalysisSchema matches a transfer map analysis.
var AnalysisSchema = &Schema{
	Name: "ctm-analysis",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"redundancy_removed_percent", "explainability", "heatmap", "recommended_order"},
		"properties": map[string]any{
			"redundancy_removed_percent": map[string]any{"type": "number"},
			"explainability": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"heatmap": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"module_id", "area", "severity"},
					"properties": map[string]any{
						"module_id": map[string]any{"type": "string", "minLength": 1},
						"area":      map[string]any{"type": "string"},
						"severity":  map[string]any{"enum": []any{0, 1, 2}},
					},
				},
			},
			"recommended_order": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"transfer_advantages": map[string]any{"type": "array", "items": insightSchema},
			"interference_risks":  map[string]any{"type": "array", "items": insightSchema},
			"pronunciation_risks": map[string]any{"type": "array", "items": insightSchema},
			"modules_to_skip": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	},
}

// ExerciseSetSchema matches a generated exercise set.
var ExerciseSetSchema = &Schema{
	Name: "exercise-set",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"module_id":         map[string]any{"type": "string"},
			"micro_explanation": map[string]any{"type": "string"},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"question", "options", "correct_answer"},
					"properties": map[string]any{
						"question":       map[string]any{"type": "string"},
						"options":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"correct_answer": map[string]any{"type": "string"},
						"feedback":       map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}

// ProfileSchema matches a learner profile.
var ProfileSchema = &Schema{
	Name: "profile",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"native_language", "target_language", "known_languages"},
		"properties": map[string]any{
			"native_language": map[string]any{"type": "string"},
			"target_language": map[string]any{"type": "string"},
			"known_languages": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	},
}

// decodeValidated validates raw against schema and then decodes it into out.
// Any failure is reported as *MalformedError.
func decodeValidated(op string, schema *Schema, raw []byte, out any) error {
	if schema != nil {
		compiled, err := schema.compile()
		if err != nil {
			return &MalformedError{Op: op, Content: raw, Err: err}
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return &MalformedError{Op: op, Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
		}
		if err := compiled.Validate(doc); err != nil {
			return &MalformedError{Op: op, Content: raw, Err: fmt.Errorf("%s: %w", schema.Name, err)}
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &MalformedError{Op: op, Content: raw, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// compile turns the Go literal definition into a jsonschema document. The
// definition is re-read through jsonschema.UnmarshalJSON so numbers arrive
// as json.Number, the form the compiler expects.
func (s *Schema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		def, err := json.Marshal(s.Definition)
		if err != nil {
			s.err = fmt.Errorf("schema %s: %w", s.Name, err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
		if err != nil {
			s.err = fmt.Errorf("schema %s: %w", s.Name, err)
			return
		}

		url := "mixingo:///" + s.Name + ".json"
		c := jsonschema.NewCompiler()
		if err := c.AddResource(url, doc); err != nil {
			s.err = fmt.Errorf("schema %s: %w", s.Name, err)
			return
		}
		s.compiled, s.err = c.Compile(url)
	})
	return s.compiled, s.err
}
