package location

// StdLanguage is the special name_matrix key holding the default language
// list (spec §3).
const StdLanguage = "std"

// NameMatrix maps a language tag (ISO code string, or StdLanguage) to an
// ordered sequence of names; the first entry in each list is preferred.
type NameMatrix map[string][]string

// AddName appends a name to the list for the given language, creating the
// list if needed. Per spec §3 a present name_matrix entry is always
// non-empty, so callers never need to distinguish "absent" from "empty".
func (m NameMatrix) AddName(lang, name string) {
	if name == "" {
		return
	}
	m[lang] = append(m[lang], name)
}

// Names returns the ordered name list for a language, and whether one exists.
func (m NameMatrix) Names(lang string) ([]string, bool) {
	names, ok := m[lang]
	return names, ok
}

// PreferredName returns the first (preferred) name for a language, if any.
func (m NameMatrix) PreferredName(lang string) (string, bool) {
	names, ok := m[lang]
	if !ok || len(names) == 0 {
		return "", false
	}
	return names[0], true
}

// Languages returns the set of languages with a non-empty name list,
// excluding StdLanguage.
func (m NameMatrix) Languages() []string {
	langs := make([]string, 0, len(m))
	for lang := range m {
		if lang == StdLanguage {
			continue
		}
		langs = append(langs, lang)
	}
	return langs
}

// AllLanguages returns every language key with a non-empty name list,
// including StdLanguage if present. Unlike Languages, callers that need
// to build one document per (record, language) pair (spec §4.7) must use
// this: Languages alone would silently skip the default-language document
// for any record that also carries alternate-language names.
func (m NameMatrix) AllLanguages() []string {
	langs := make([]string, 0, len(m))
	for lang := range m {
		langs = append(langs, lang)
	}
	return langs
}
