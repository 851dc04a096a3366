package language

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Language represents a supported language.
type Language struct {
	Code string
	Name string
}

// Languages is a map of commonly used language codes -> Language. Codes
// outside this map are still accepted when they parse as a BCP 47 tag;
// the map only drives display names and CLI listings.
var Languages = map[string]Language{
	"ar":      {Code: "ar", Name: "Arabic"},
	"cs":      {Code: "cs", Name: "Czech"},
	"da":      {Code: "da", Name: "Danish"},
	"de":      {Code: "de", Name: "German"},
	"el":      {Code: "el", Name: "Greek"},
	"en":      {Code: "en", Name: "English"},
	"es":      {Code: "es", Name: "Spanish"},
	"fi":      {Code: "fi", Name: "Finnish"},
	"fr":      {Code: "fr", Name: "French"},
	"hu":      {Code: "hu", Name: "Hungarian"},
	"id":      {Code: "id", Name: "Indonesian"},
	"it":      {Code: "it", Name: "Italian"},
	"ja":      {Code: "ja", Name: "Japanese"},
	"ko":      {Code: "ko", Name: "Korean"},
	"nl":      {Code: "nl", Name: "Dutch"},
	"no":      {Code: "no", Name: "Norwegian"},
	"pl":      {Code: "pl", Name: "Polish"},
	"pt":      {Code: "pt", Name: "Portuguese"},
	"pt-BR":   {Code: "pt-BR", Name: "Portuguese (Brazil)"},
	"ro":      {Code: "ro", Name: "Romanian"},
	"ru":      {Code: "ru", Name: "Russian"},
	"sv":      {Code: "sv", Name: "Swedish"},
	"th":      {Code: "th", Name: "Thai"},
	"tr":      {Code: "tr", Name: "Turkish"},
	"uk":      {Code: "uk", Name: "Ukrainian"},
	"vi":      {Code: "vi", Name: "Vietnamese"},
	"zh":      {Code: "zh-Hans", Name: "Chinese (Simplified)"},
	"zh-Hans": {Code: "zh-Hans", Name: "Chinese (Simplified)"},
	"zh-Hant": {Code: "zh-Hant", Name: "Chinese (Traditional)"},
}

// GetLanguage returns the language for a known code.
func GetLanguage(code string) (Language, bool) {
	lang, ok := Languages[code]
	return lang, ok
}

// Normalize returns the canonical code for a language identifier.
// Known codes map through the table; anything else must at least parse
// as a BCP 47 tag.
func Normalize(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("language code is empty")
	}
	if lang, ok := Languages[code]; ok {
		return lang.Code, nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return tag.String(), nil
}

// PairKey builds the dictionary key for a (source, target) pair.
// The producer side builds the same key, so the format is part of the
// protocol and never changes.
func PairKey(source, target string) string {
	return source + "_" + target
}

// SplitPairKey is the inverse of PairKey. The second return is false when
// the key does not contain a separator.
func SplitPairKey(key string) (source, target string, ok bool) {
	source, target, ok = strings.Cut(key, "_")
	if !ok || source == "" || target == "" {
		return "", "", false
	}
	return source, target, true
}

// Entry represents a map entry for listing.
type Entry struct {
	ID string // The map key (CLI flag)
	Language
}

// Supported returns the known languages sorted by Name and then ID.
func Supported() []Entry {
	entries := make([]Entry, 0, len(Languages))
	for k, v := range Languages {
		entries = append(entries, Entry{ID: k, Language: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}
