// Package dialogue holds the shared, read-only pool of bot lines.
package dialogue

import (
	"bufio"
	"fmt"
	"os"
)

// Placeholder replaces any pick from an empty pool.
const Placeholder = "..."

type Rand interface {
	Intn(n int) int
}

type Pool struct {
	lines []string
}

func New(lines []string) *Pool {
	return &Pool{lines: append([]string(nil), lines...)}
}

// Load reads one line per entry. On failure it returns an empty pool together
// with the error so callers can log and carry on.
func Load(path string) (*Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return New(nil), fmt.Errorf("dialogue: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return New(nil), fmt.Errorf("dialogue: read %s: %w", path, err)
	}
	return New(lines), nil
}

func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.lines)
}

// Pick returns a uniformly random line, or Placeholder when the pool is empty.
func (p *Pool) Pick(rng Rand) string {
	if p.Len() == 0 {
		return Placeholder
	}
	return p.lines[rng.Intn(len(p.lines))]
}

// Lines returns a copy of the pool contents.
func (p *Pool) Lines() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.lines...)
}
