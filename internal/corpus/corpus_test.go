package corpus

import (
	"strings"
	"testing"

	"snippets/internal/rng"
)

func TestSnippetsNotEmpty(t *testing.T) {
	if len(Snippets) == 0 {
		t.Fatal("corpus is empty")
	}
	for i, s := range Snippets {
		if strings.TrimSpace(s) == "" {
			t.Errorf("snippet %d is blank", i)
		}
	}
}

func TestPickCoversCorpus(t *testing.T) {
	r := rng.New(1)
	seen := make(map[string]bool)
	for i := 0; i < 50*len(Snippets); i++ {
		seen[Pick(Snippets, r)] = true
	}
	if len(seen) != len(Snippets) {
		t.Errorf("picked %d distinct snippets, want %d", len(seen), len(Snippets))
	}
}

func TestPickEmpty(t *testing.T) {
	if got := Pick(nil, rng.New(1)); got != "" {
		t.Errorf("Pick(nil) = %q, want empty", got)
	}
}
