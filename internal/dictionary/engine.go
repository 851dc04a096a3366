package dictionary

import (
	"fmt"
	"sort"

	"github.com/sugawarayuuta/sonnet"

	"github.com/gamestringer/gsbridge/internal/apperrors"
	"github.com/gamestringer/gsbridge/internal/files"
	"github.com/gamestringer/gsbridge/internal/language"
	"github.com/gamestringer/gsbridge/internal/logger"
	"github.com/gamestringer/gsbridge/internal/protocol"
)

// Engine owns all loaded dictionaries plus the active (source, target)
// selector that untargeted lookups resolve against. It is not locked
// internally; the bridge mediates all access under its own lock so
// statistics and indices stay consistent.
type Engine struct {
	dictionaries map[string]*LanguageDictionary
	activeSource string
	activeTarget string
}

func NewEngine() *Engine {
	return &Engine{
		dictionaries: make(map[string]*LanguageDictionary),
		activeSource: "en",
		activeTarget: "it",
	}
}

// SetActiveLanguages changes which pair untargeted lookups resolve
// against. Activation is decoupled from loading: the pair does not need
// to be loaded yet, lookups against an unloaded pair simply miss.
func (e *Engine) SetActiveLanguages(source, target string) {
	e.activeSource = source
	e.activeTarget = target
	logger.Info("Active language pair changed", "source", source, "target", target)
}

// ActiveLanguages returns the current (source, target) selector.
func (e *Engine) ActiveLanguages() (string, string) {
	return e.activeSource, e.activeTarget
}

func (e *Engine) dictFor(source, target string) *LanguageDictionary {
	key := language.PairKey(source, target)
	dict, ok := e.dictionaries[key]
	if !ok {
		dict = NewLanguageDictionary()
		e.dictionaries[key] = dict
	}
	return dict
}

// LoadTranslations bulk-inserts pairs into the dictionary for the given
// language pair, creating it if absent. Returns the number of pairs
// processed; filtering malformed input is the caller's job.
func (e *Engine) LoadTranslations(source, target string, pairs [][2]string) int {
	dict := e.dictFor(source, target)
	for _, p := range pairs {
		dict.Add(p[0], p[1])
	}
	logger.Info("Translations loaded", "count", len(pairs), "source", source, "target", target)
	return len(pairs)
}

// AddTranslation inserts a single entry into the active pair's dictionary.
func (e *Engine) AddTranslation(original, translated string) {
	e.dictFor(e.activeSource, e.activeTarget).Add(original, translated)
}

// GetTranslation resolves text against the active pair: hash lookup with
// text verification first, text index as fallback. A false return is the
// normal "nothing to translate" outcome, not an error.
func (e *Engine) GetTranslation(hash uint64, originalText string) (string, bool) {
	return e.lookup(e.activeSource, e.activeTarget, hash, originalText)
}

// GetTranslationFor resolves against an explicitly named pair regardless
// of which is active.
func (e *Engine) GetTranslationFor(source, target, originalText string) (string, bool) {
	return e.lookup(source, target, protocol.Hash(originalText), originalText)
}

func (e *Engine) lookup(source, target string, hash uint64, originalText string) (string, bool) {
	dict, ok := e.dictionaries[language.PairKey(source, target)]
	if !ok {
		return "", false
	}

	if entry, ok := dict.GetByHash(hash); ok {
		// A matching hash can still be a collision.
		if entry.Original == originalText {
			return entry.Translated, true
		}
	}

	if entry, ok := dict.GetByText(originalText); ok {
		return entry.Translated, true
	}

	return "", false
}

// ClearAll evicts every loaded dictionary.
func (e *Engine) ClearAll() {
	e.dictionaries = make(map[string]*LanguageDictionary)
	logger.Info("All dictionaries cleared")
}

// ClearPair evicts the dictionary for one pair, if loaded.
func (e *Engine) ClearPair(source, target string) {
	key := language.PairKey(source, target)
	if dict, ok := e.dictionaries[key]; ok {
		dict.Clear()
		logger.Info("Dictionary cleared", "source", source, "target", target)
	}
}

// ExportToJSON writes the active pair's dictionary as a flat
// original -> translated mapping. The write is atomic.
func (e *Engine) ExportToJSON(path string) error {
	key := language.PairKey(e.activeSource, e.activeTarget)
	dict, ok := e.dictionaries[key]
	if !ok {
		return apperrors.New(apperrors.KindValidation,
			fmt.Sprintf("no dictionary loaded for %s -> %s", e.activeSource, e.activeTarget), nil)
	}

	data, err := sonnet.MarshalIndent(dict.flatMap(), "", "  ")
	if err != nil {
		return apperrors.New(apperrors.KindIO, "failed to serialize dictionary", err)
	}
	if err := files.AtomicWrite(path, data, 0o644); err != nil {
		return apperrors.New(apperrors.KindIO,
			fmt.Sprintf("failed to write dictionary to %s", path), err)
	}

	logger.Info("Dictionary exported", "path", path, "entries", dict.Len())
	return nil
}

// Stats describes loaded dictionaries, for observability only.
type Stats struct {
	TotalEntries  int      `json:"total_entries"`
	LanguagePairs []string `json:"language_pairs"`
	ActiveSource  string   `json:"active_source"`
	ActiveTarget  string   `json:"active_target"`
}

// GetStats returns the entry count across all pairs and the loaded pair keys.
func (e *Engine) GetStats() Stats {
	total := 0
	pairs := make([]string, 0, len(e.dictionaries))
	for key, dict := range e.dictionaries {
		total += dict.Len()
		pairs = append(pairs, key)
	}
	sort.Strings(pairs)
	return Stats{
		TotalEntries:  total,
		LanguagePairs: pairs,
		ActiveSource:  e.activeSource,
		ActiveTarget:  e.activeTarget,
	}
}
