// Package dictionary implements the in-memory translation store backing
// the bridge: one dual-indexed dictionary per language pair, with bulk
// load from JSON/CSV and a flat-map export.
package dictionary

import "github.com/gamestringer/gsbridge/internal/protocol"

// Entry is a single translation record.
type Entry struct {
	Original   string  `json:"original"`
	Translated string  `json:"translated"`
	Context    *string `json:"context"`
	Verified   bool    `json:"verified"`
}

// LanguageDictionary holds the entries for one (source, target) pair,
// indexed by 64-bit hash (primary) and by original text (collision guard
// and fallback). The two indices are always mutated together.
type LanguageDictionary struct {
	byHash map[uint64]Entry
	byText map[string]Entry
}

func NewLanguageDictionary() *LanguageDictionary {
	return &LanguageDictionary{
		byHash: make(map[uint64]Entry),
		byText: make(map[string]Entry),
	}
}

// Add inserts a translation. Re-adding an existing original overwrites the
// prior entry: last write wins, no merge.
func (d *LanguageDictionary) Add(original, translated string) {
	hash := protocol.Hash(original)
	entry := Entry{Original: original, Translated: translated}
	d.byHash[hash] = entry
	d.byText[original] = entry
}

// GetByHash is the O(1) primary lookup. The caller must verify
// entry.Original against the queried text before trusting the result.
func (d *LanguageDictionary) GetByHash(hash uint64) (Entry, bool) {
	e, ok := d.byHash[hash]
	return e, ok
}

// GetByText is the authoritative fallback lookup.
func (d *LanguageDictionary) GetByText(text string) (Entry, bool) {
	e, ok := d.byText[text]
	return e, ok
}

// Len returns the number of distinct original strings.
func (d *LanguageDictionary) Len() int {
	return len(d.byText)
}

// Clear removes all entries.
func (d *LanguageDictionary) Clear() {
	d.byHash = make(map[uint64]Entry)
	d.byText = make(map[string]Entry)
}

// flatMap returns the original -> translated mapping, the export shape.
func (d *LanguageDictionary) flatMap() map[string]string {
	out := make(map[string]string, len(d.byText))
	for original, e := range d.byText {
		out[original] = e.Translated
	}
	return out
}
