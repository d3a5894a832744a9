package session

import "fmt"

// Level is how well a learner already speaks a language.
type Level string

const (
	LevelNative       Level = "Native"
	LevelFluent       Level = "Fluent"
	LevelAdvanced     Level = "Advanced"
	LevelIntermediate Level = "Intermediate"
	LevelBasic        Level = "Basic"
)

// Levels lists every proficiency level from strongest to weakest.
var Levels = []Level{LevelNative, LevelFluent, LevelAdvanced, LevelIntermediate, LevelBasic}

// DefaultLevel is assigned to a language when it is first selected.
const DefaultLevel = LevelFluent

// ParseLevel converts a level name into a Level.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown proficiency level %q", s)
}

// Next returns the level after l, wrapping back to Native.
func (l Level) Next() Level {
	for i, lv := range Levels {
		if lv == l {
			return Levels[(i+1)%len(Levels)]
		}
	}
	return DefaultLevel
}

// Languages a learner can mark as already known.
var Languages = []string{
	"Cantonese", "Mandarin", "English", "Spanish", "French", "Japanese",
	"Korean", "Arabic", "Hindi", "Portuguese", "German", "Italian",
}

// TargetLanguages a learner can choose to study.
var TargetLanguages = []string{"French", "Spanish", "German", "Japanese", "Korean", "Italian", "Portuguese"}

// Goals a learner can pick during onboarding.
var Goals = []string{"Speak confidently", "Travel conversations", "Professional use", "Exam preparation"}

// LanguageEntry is one known language and the learner's level in it.
type LanguageEntry struct {
	Language string `json:"language"`
	Level    Level  `json:"level"`
}

// Selection is everything collected during onboarding.
// Known languages are unique by name and keep their insertion order.
type Selection struct {
	known  []LanguageEntry
	Target string
	Goal   string
}

// DemoSelection returns the profile preloaded in demo mode.
func DemoSelection() Selection {
	return Selection{
		known: []LanguageEntry{
			{Language: "Cantonese", Level: LevelNative},
			{Language: "Mandarin", Level: LevelAdvanced},
			{Language: "English", Level: LevelFluent},
		},
		Target: "French",
		Goal:   "Speak confidently",
	}
}

// Toggle adds lang with the default level, or removes it if already known.
func (s *Selection) Toggle(lang string) {
	if i := s.index(lang); i >= 0 {
		s.known = append(s.known[:i:i], s.known[i+1:]...)
		return
	}
	s.known = append(s.known, LanguageEntry{Language: lang, Level: DefaultLevel})
}

// SetLevel changes the level of a known language. Unknown languages are ignored.
func (s *Selection) SetLevel(lang string, level Level) {
	if i := s.index(lang); i >= 0 {
		s.known[i].Level = level
	}
}

// Entry returns the known entry for lang.
func (s *Selection) Entry(lang string) (LanguageEntry, bool) {
	if i := s.index(lang); i >= 0 {
		return s.known[i], true
	}
	return LanguageEntry{}, false
}

// Known returns a copy of the known languages in selection order.
func (s *Selection) Known() []LanguageEntry {
	out := make([]LanguageEntry, len(s.known))
	copy(out, s.known)
	return out
}

// CanStart reports whether all three onboarding picks have been made.
func (s *Selection) CanStart() bool {
	return len(s.known) > 0 && s.Target != "" && s.Goal != ""
}

func (s *Selection) index(lang string) int {
	for i, e := range s.known {
		if e.Language == lang {
			return i
		}
	}
	return -1
}
