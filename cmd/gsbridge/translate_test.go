package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTranslateCommand(t *testing.T) {
	dict := writeDictFile(t, "menu.json", `{"Hello": "Ciao"}`)

	out, err := runCommand(t, "translate", "--dict", dict, "Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Hello\tCiao") {
		t.Errorf("output = %q, want Hello\\tCiao", out)
	}
}

func TestTranslateCommand_Miss(t *testing.T) {
	dict := writeDictFile(t, "menu.json", `{"Hello": "Ciao"}`)

	out, err := runCommand(t, "translate", "--dict", dict, "Goodbye")
	if err == nil {
		t.Fatal("expected error when a string has no translation")
	}
	if !strings.Contains(out, "(no translation)") {
		t.Errorf("output = %q, want miss marker", out)
	}
}

func TestTranslateCommand_RequiresDict(t *testing.T) {
	if _, err := runCommand(t, "translate", "Hello"); err == nil {
		t.Fatal("expected error without --dict")
	}
}

func TestConvertCommand(t *testing.T) {
	csv := writeDictFile(t, "menu.csv", "original,translated\nHello,Ciao\nWorld,Mondo\n")
	outPath := filepath.Join(t.TempDir(), "menu.json")

	if _, err := runCommand(t, "convert", csv, outPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, want := range []string{"Hello", "Ciao", "World", "Mondo"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("exported JSON is missing %q", want)
		}
	}
}

func TestLoadCommand(t *testing.T) {
	dict := writeDictFile(t, "menu.json", `{"Hello": "Ciao", "World": "Mondo"}`)

	out, err := runCommand(t, "load", dict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Loaded 2 entries") {
		t.Errorf("output = %q, want entry count", out)
	}
}

func TestRootCommand_UnknownSubcommand(t *testing.T) {
	if _, err := runCommand(t, "frobnicate"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestAboutCommand(t *testing.T) {
	out, err := runCommand(t, "about")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "gsbridge") {
		t.Errorf("output = %q, want product name", out)
	}
}

func TestListCommand(t *testing.T) {
	out, err := runCommand(t, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"English", "Italian", "Japanese"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
