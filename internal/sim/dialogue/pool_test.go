package dialogue

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_OneLinePerEntry(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bot_dialogues.txt")
	if err := os.WriteFile(p, []byte("hi there\r\nnice day\n\nbye\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	pool, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"hi there", "nice day", "", "bye"}
	got := pool.Lines()
	if len(got) != len(want) {
		t.Fatalf("lines=%q want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d=%q want %q", i, got[i], want[i])
		}
	}
}

func TestLoad_MissingFileGivesEmptyPool(t *testing.T) {
	pool, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if pool == nil || pool.Len() != 0 {
		t.Fatalf("expected empty pool, got %v", pool)
	}
	if got := pool.Pick(rand.New(rand.NewSource(1))); got != Placeholder {
		t.Fatalf("Pick on empty pool=%q want %q", got, Placeholder)
	}
}

func TestPick_NilPool(t *testing.T) {
	var p *Pool
	if got := p.Pick(rand.New(rand.NewSource(1))); got != Placeholder {
		t.Fatalf("nil pool pick=%q", got)
	}
}

func TestPick_CoversPool(t *testing.T) {
	pool := New([]string{"a", "b", "c"})
	r := rand.New(rand.NewSource(3))
	seen := map[string]int{}
	for i := 0; i < 300; i++ {
		seen[pool.Pick(r)]++
	}
	for _, l := range []string{"a", "b", "c"} {
		if seen[l] == 0 {
			t.Fatalf("line %q never picked: %v", l, seen)
		}
	}
}
