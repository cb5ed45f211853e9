package world

import (
	"math/rand"
	"time"

	"gridworld.ai/internal/sim/dialogue"
)

func newTestRand(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

const frameDt = 16 * time.Millisecond

type recordingSink struct {
	events []Event
}

func (s *recordingSink) WriteEvent(e Event) error {
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) ofType(typ string) []Event {
	var out []Event
	for _, e := range s.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func newTestWorld(start Cell, pool *dialogue.Pool, sink EventSink) *World {
	return New(Options{
		Config: DefaultConfig(),
		Pool:   pool,
		Rand:   newTestRand(1),
		Start:  start,
		Words:  []string{"Hello", "Help", "Yes", "No"},
		Events: sink,
	})
}

func never(Cell) bool { return false }
