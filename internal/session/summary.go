package session

// Profile is the learner profile shape the backend keeps per user.
type Profile struct {
	NativeLanguage string   `json:"native_language"`
	TargetLanguage string   `json:"target_language"`
	KnownLanguages []string `json:"known_languages"`
}

// ProfileFromSelection derives a profile from onboarding picks. The native
// language is the first Native-level entry, else the first known language.
func ProfileFromSelection(sel Selection) Profile {
	p := Profile{TargetLanguage: sel.Target}
	for _, e := range sel.known {
		p.KnownLanguages = append(p.KnownLanguages, e.Language)
		if p.NativeLanguage == "" && e.Level == LevelNative {
			p.NativeLanguage = e.Language
		}
	}
	if p.NativeLanguage == "" && len(p.KnownLanguages) > 0 {
		p.NativeLanguage = p.KnownLanguages[0]
	}
	return p
}

// Route renders the profile as "A · B · C → Target".
func (p Profile) Route() string {
	s := ""
	for i, l := range p.KnownLanguages {
		if i > 0 {
			s += " · "
		}
		s += l
	}
	if p.TargetLanguage == "" {
		return s
	}
	if s == "" {
		return p.TargetLanguage
	}
	return s + " → " + p.TargetLanguage
}
