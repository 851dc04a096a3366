package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sugawarayuuta/sonnet"

	"github.com/gamestringer/gsbridge/internal/apperrors"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadFromJSON_FlatMap(t *testing.T) {
	engine := NewEngine()
	engine.SetActiveLanguages("en", "it")
	path := writeTemp(t, "flat.json", `{"Hello": "Ciao", "World": "Mondo"}`)

	count, err := engine.LoadFromJSON(path)
	if err != nil {
		t.Fatalf("LoadFromJSON: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if got, _ := engine.GetTranslationFor("en", "it", "Hello"); got != "Ciao" {
		t.Errorf("Hello -> %q, want Ciao", got)
	}
}

func TestLoadFromJSON_EntryArrayEquivalentToFlatMap(t *testing.T) {
	flat := NewEngine()
	flat.SetActiveLanguages("en", "it")
	if _, err := flat.LoadFromJSON(writeTemp(t, "flat.json",
		`{"Hello": "Ciao", "World": "Mondo"}`)); err != nil {
		t.Fatalf("flat load: %v", err)
	}

	array := NewEngine()
	array.SetActiveLanguages("en", "it")
	count, err := array.LoadFromJSON(writeTemp(t, "array.json", `[
		{"original": "Hello", "translated": "Ciao", "context": null, "verified": false},
		{"original": "World", "translated": "Mondo", "context": null, "verified": false}
	]`))
	if err != nil {
		t.Fatalf("array load: %v", err)
	}
	if count != 2 {
		t.Fatalf("array count = %d, want 2", count)
	}

	for _, original := range []string{"Hello", "World"} {
		a, _ := flat.GetTranslationFor("en", "it", original)
		b, _ := array.GetTranslationFor("en", "it", original)
		if a != b {
			t.Errorf("shape mismatch for %q: flat=%q array=%q", original, a, b)
		}
	}
}

func TestLoadFromJSON_TaggedShape(t *testing.T) {
	engine := NewEngine()
	// Active pair deliberately different: the file's own tags must win.
	engine.SetActiveLanguages("en", "fr")
	path := writeTemp(t, "tagged.json",
		`{"source": "en", "target": "it", "translations": {"Hello": "Ciao"}}`)

	count, err := engine.LoadFromJSON(path)
	if err != nil {
		t.Fatalf("LoadFromJSON: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	if got, ok := engine.GetTranslationFor("en", "it", "Hello"); !ok || got != "Ciao" {
		t.Errorf("en_it lookup = (%q, %v), want (Ciao, true)", got, ok)
	}
	if _, ok := engine.GetTranslationFor("en", "fr", "Hello"); ok {
		t.Errorf("tagged file must not load into the active pair")
	}
}

func TestLoadFromJSON_UnrecognizedFormat(t *testing.T) {
	engine := NewEngine()
	path := writeTemp(t, "bad.json", `{"nested": {"numbers": [1, 2, 3]}}`)

	_, err := engine.LoadFromJSON(path)
	if err == nil {
		t.Fatal("expected a format error")
	}
	if kind, _ := apperrors.KindOf(err); kind != apperrors.KindFormat {
		t.Errorf("error kind = %q, want %q", kind, apperrors.KindFormat)
	}
	if stats := engine.GetStats(); stats.TotalEntries != 0 {
		t.Errorf("failed load must not partially load, got %d entries", stats.TotalEntries)
	}
}

func TestLoadFromJSON_MissingFile(t *testing.T) {
	engine := NewEngine()
	_, err := engine.LoadFromJSON(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if kind, _ := apperrors.KindOf(err); kind != apperrors.KindIO {
		t.Errorf("error kind = %q, want %q", kind, apperrors.KindIO)
	}
}

func TestLoadFromCSV(t *testing.T) {
	engine := NewEngine()
	engine.SetActiveLanguages("en", "it")
	path := writeTemp(t, "dict.csv",
		"english,italian\n"+
			`"Hello","Ciao"`+"\n"+
			" World , Mondo \n"+
			"NoTranslation,\n"+
			",Orphan\n"+
			"short-row\n")

	count, err := engine.LoadFromCSV(path, 0, 1)
	if err != nil {
		t.Fatalf("LoadFromCSV: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2 (empty and short rows skipped)", count)
	}
	if got, _ := engine.GetTranslationFor("en", "it", "Hello"); got != "Ciao" {
		t.Errorf("quoted cell: Hello -> %q, want Ciao", got)
	}
	if got, _ := engine.GetTranslationFor("en", "it", "World"); got != "Mondo" {
		t.Errorf("padded cell: World -> %q, want Mondo", got)
	}
}

func TestLoadFromCSV_NegativeColumns(t *testing.T) {
	engine := NewEngine()
	path := writeTemp(t, "dict.csv", "a,b\nx,y\n")
	if _, err := engine.LoadFromCSV(path, -1, 1); err == nil {
		t.Fatal("expected a validation error for negative column index")
	}
}

func TestExportToJSON_RoundTrip(t *testing.T) {
	engine := NewEngine()
	engine.SetActiveLanguages("en", "it")
	engine.LoadTranslations("en", "it", [][2]string{{"Hello", "Ciao"}, {"World", "Mondo"}})
	// A second pair must not leak into the export.
	engine.LoadTranslations("en", "de", [][2]string{{"Hello", "Hallo"}})

	path := filepath.Join(t.TempDir(), "export.json")
	if err := engine.ExportToJSON(path); err != nil {
		t.Fatalf("ExportToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var exported map[string]string
	if err := sonnet.Unmarshal(data, &exported); err != nil {
		t.Fatalf("export is not a flat mapping: %v", err)
	}
	want := map[string]string{"Hello": "Ciao", "World": "Mondo"}
	if len(exported) != len(want) {
		t.Fatalf("exported %d entries, want %d: %v", len(exported), len(want), exported)
	}
	for k, v := range want {
		if exported[k] != v {
			t.Errorf("exported[%q] = %q, want %q", k, exported[k], v)
		}
	}

	// The export must load back through shape 1.
	reload := NewEngine()
	reload.SetActiveLanguages("en", "it")
	if count, err := reload.LoadFromJSON(path); err != nil || count != 2 {
		t.Errorf("reload of export = (%d, %v), want (2, nil)", count, err)
	}
}

func TestExportToJSON_NoDictionary(t *testing.T) {
	engine := NewEngine()
	engine.SetActiveLanguages("xx", "yy")
	err := engine.ExportToJSON(filepath.Join(t.TempDir(), "out.json"))
	if err == nil {
		t.Fatal("expected an error when the active pair has no dictionary")
	}
	if apperrors.PublicMessage(err) == "" {
		t.Errorf("export failure must carry a human-readable message")
	}
}
