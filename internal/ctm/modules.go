package ctm

// Module is a unit of target-language content.
type Module struct {
	ID   string
	Name string
	Area string
}

// Modules is the module catalogue the backend grades.
var Modules = []Module{
	{ID: "M01_FamiliarPhrases", Name: "Familiar Phrases", Area: "vocabulary"},
	{ID: "M02_Cognates", Name: "Cognates", Area: "vocabulary"},
	{ID: "M03_Pronunciation", Name: "Pronunciation", Area: "pronunciation"},
	{ID: "M04_WordOrder", Name: "Word Order", Area: "grammar"},
	{ID: "M05_Gender", Name: "Noun Gender", Area: "grammar"},
	{ID: "M06_VerbConjugation", Name: "Verb Conjugation", Area: "grammar"},
	{ID: "M07_CommonExpressions", Name: "Common Expressions", Area: "pragmatics"},
	{ID: "M08_Reading", Name: "Reading", Area: "script"},
}

const (
	// DefaultStartModule is used when the analysis recommends nothing.
	DefaultStartModule = "M05_Gender"
	// DefaultExerciseModule is used when exercises are opened without a module.
	DefaultExerciseModule = "M03_Pronunciation"
)

// LookupModule finds a module by id.
func LookupModule(id string) (Module, bool) {
	for _, m := range Modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

// ModuleName returns the display name for id, or id itself when unknown.
func ModuleName(id string) string {
	if m, ok := LookupModule(id); ok {
		return m.Name
	}
	return id
}
