package files

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestAtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.json")
	if err := AtomicWrite(path, []byte(`{"Hello":"Ciao"}`), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != `{"Hello":"Ciao"}` {
		t.Errorf("content = %q", data)
	}
}

func TestAtomicWrite_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.json")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := AtomicWrite(path, []byte("new"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("content = %q, want new", data)
	}
}

func TestAtomicWrite_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := AtomicWrite(filepath.Join(dir, "dict.json"), []byte("x"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestRejectSymlinkPath(t *testing.T) {
	if err := RejectSymlinkPath(""); err == nil {
		t.Error("empty path must be rejected")
	}

	dir := t.TempDir()
	if err := RejectSymlinkPath(filepath.Join(dir, "new.json")); err != nil {
		t.Errorf("non-existent target under a real dir must pass: %v", err)
	}

	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs elevation on windows")
	}
	target := filepath.Join(dir, "target")
	if err := os.WriteFile(target, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Symlink: %v", err)
	}
	if err := RejectSymlinkPath(link); err == nil {
		t.Error("symlink target must be rejected")
	}
	if err := RejectSymlinkPath(filepath.Join(link, "inner.json")); err == nil {
		t.Error("path under a symlinked component must be rejected")
	}
}
