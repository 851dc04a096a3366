package dictionary

import (
	"fmt"
	"os"
	"strings"

	"github.com/sugawarayuuta/sonnet"

	"github.com/gamestringer/gsbridge/internal/apperrors"
)

// taggedFile is JSON shape 3: explicit language tags plus a translations map.
type taggedFile struct {
	Source       *string           `json:"source"`
	Target       *string           `json:"target"`
	Translations map[string]string `json:"translations"`
}

// LoadFromJSON loads translations from a file, accepting three shapes in
// order:
//
//  1. {"original": "translated", ...}
//  2. [{"original": "...", "translated": "...", ...}, ...]
//  3. {"source": "en", "target": "it", "translations": {...}}
//
// Translation assets arrive from unrelated tools with different
// conventions, so the loader is liberal: the first shape that parses
// wins. Shapes 1 and 2 load into the active pair; shape 3 carries its
// own pair tags. If none parse, the whole call fails and nothing loads.
func (e *Engine) LoadFromJSON(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, apperrors.New(apperrors.KindIO, fmt.Sprintf("failed to read %s", path), err)
	}

	// Shape 1: flat mapping.
	var flat map[string]string
	if err := sonnet.Unmarshal(content, &flat); err == nil {
		return e.LoadTranslations(e.activeSource, e.activeTarget, pairsFromMap(flat)), nil
	}

	// Shape 2: array of entry objects.
	var entries []Entry
	if err := sonnet.Unmarshal(content, &entries); err == nil {
		pairs := make([][2]string, 0, len(entries))
		for _, entry := range entries {
			if entry.Original == "" {
				continue
			}
			pairs = append(pairs, [2]string{entry.Original, entry.Translated})
		}
		return e.LoadTranslations(e.activeSource, e.activeTarget, pairs), nil
	}

	// Shape 3: tagged file.
	var tagged taggedFile
	if err := sonnet.Unmarshal(content, &tagged); err == nil && tagged.Translations != nil {
		source, target := e.activeSource, e.activeTarget
		if tagged.Source != nil {
			source = *tagged.Source
		}
		if tagged.Target != nil {
			target = *tagged.Target
		}
		return e.LoadTranslations(source, target, pairsFromMap(tagged.Translations)), nil
	}

	return 0, apperrors.New(apperrors.KindFormat,
		fmt.Sprintf("unrecognized dictionary format in %s", path), nil)
}

// LoadFromCSV loads translations from a CSV file with a header row.
// sourceCol and targetCol are zero-based column indices. Rows whose
// original or translated value is empty after trimming are skipped.
func (e *Engine) LoadFromCSV(path string, sourceCol, targetCol int) (int, error) {
	if sourceCol < 0 || targetCol < 0 {
		return 0, apperrors.New(apperrors.KindValidation, "column indices must not be negative", nil)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, apperrors.New(apperrors.KindIO, fmt.Sprintf("failed to read %s", path), err)
	}

	var pairs [][2]string
	for i, line := range strings.Split(string(content), "\n") {
		if i == 0 {
			// Header row.
			continue
		}
		line = strings.TrimRight(line, "\r")
		cols := strings.Split(line, ",")
		if len(cols) <= sourceCol || len(cols) <= targetCol {
			continue
		}
		original := strings.Trim(strings.TrimSpace(cols[sourceCol]), `"`)
		translated := strings.Trim(strings.TrimSpace(cols[targetCol]), `"`)
		if original == "" || translated == "" {
			continue
		}
		pairs = append(pairs, [2]string{original, translated})
	}

	return e.LoadTranslations(e.activeSource, e.activeTarget, pairs), nil
}

func pairsFromMap(m map[string]string) [][2]string {
	pairs := make([][2]string, 0, len(m))
	for original, translated := range m {
		pairs = append(pairs, [2]string{original, translated})
	}
	return pairs
}
