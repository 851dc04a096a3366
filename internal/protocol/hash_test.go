package protocol

import "testing"

func TestHash_KnownVectors(t *testing.T) {
	// Published FNV-1a 64-bit vectors; the producer side is tested against
	// the same values, which is what makes the hash a usable join key.
	cases := []struct {
		in   string
		want uint64
	}{
		{"", 0xcbf29ce484222325},
		{"a", 0xaf63dc4c8601ec8c},
		{"foobar", 0x85944171f73967e8},
	}
	for _, c := range cases {
		if got := Hash(c.in); got != c.want {
			t.Errorf("Hash(%q) = %#x, want %#x", c.in, got, c.want)
		}
	}
}

func TestHash_Deterministic(t *testing.T) {
	texts := []string{"Hello, World!", "New Game", "続ける", "Настройки", ""}
	for _, s := range texts {
		h1 := Hash(s)
		h2 := Hash(s)
		if h1 != h2 {
			t.Errorf("Hash(%q) not deterministic: %#x != %#x", s, h1, h2)
		}
	}
}

func TestHash_DistinctOverCorpus(t *testing.T) {
	corpus := []string{
		"New Game", "Continue", "Load Game", "Save Game", "Options",
		"Settings", "Audio", "Video", "Controls", "Language",
		"Exit", "Quit", "Back", "Apply", "Cancel", "Confirm",
		"Inventory", "Map", "Quest Log", "Skills", "Credits",
		"Hello", "World", "Goodbye", "Yes", "No",
	}
	seen := make(map[uint64]string, len(corpus))
	for _, s := range corpus {
		h := Hash(s)
		if prev, ok := seen[h]; ok {
			t.Errorf("collision in corpus: %q and %q both hash to %#x", prev, s, h)
		}
		seen[h] = s
	}
}
