package main

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	persistlog "gridworld.ai/internal/persistence/log"
	"gridworld.ai/internal/sim/world"
)

func mv(frame uint64, from, to world.Cell) world.Event {
	return world.Event{Frame: frame, Type: world.EventMove, Move: &world.Move{From: from, To: to}}
}

func TestVerifier_Accepts(t *testing.T) {
	v := NewVerifier()
	at := world.Cell{X: 2, Y: 0}
	events := []world.Event{
		{Frame: 0, Type: world.EventSpawn, Cells: []world.Cell{{X: -11, Y: -6}, {X: 11, Y: 4}}},
		mv(60, world.Cell{}, world.Cell{X: 1, Y: 0}),
		mv(120, world.Cell{X: 1, Y: 0}, world.Cell{X: 2, Y: 0}),
		{Frame: 130, Type: world.EventSay, Word: "Hello", At: &at},
		{Frame: 130, Type: world.EventResponse, Word: "Hello", Cells: []world.Cell{{X: 11, Y: 4}}},
		{Frame: 140, Type: world.EventEmote, Word: world.EmoteThumbsUp, At: &at},
		{Frame: 150, Type: world.EventEmote, Word: "💀", At: &at},
		{Frame: 200, Type: world.EventDespawn, Cells: []world.Cell{{X: -11, Y: -6}}},
		{Frame: 300, Type: world.EventSpawn, Cells: []world.Cell{{X: -11, Y: -6}}},
	}
	for _, e := range events {
		if err := v.Check(e); err != nil {
			t.Fatalf("frame %d: %v", e.Frame, err)
		}
	}
	s := v.Stats()
	if s.Runs != 1 || s.Moves != 2 || s.Says != 1 || s.Emotes != 2 || s.Responses != 1 || s.Spawns != 3 || s.Despawns != 1 || s.MaxLive != 2 {
		t.Fatalf("stats=%+v", s)
	}
	if s.Last == nil || *s.Last != (world.Cell{X: 2, Y: 0}) {
		t.Fatalf("last=%v", s.Last)
	}
}

func TestVerifier_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		events []world.Event
		want   string
	}{
		{"broken chain", []world.Event{
			mv(60, world.Cell{}, world.Cell{X: 1, Y: 0}),
			mv(120, world.Cell{X: 5, Y: 5}, world.Cell{X: 6, Y: 5}),
		}, "last known cell"},
		{"jump", []world.Event{mv(60, world.Cell{}, world.Cell{X: 2, Y: 0})}, "single step"},
		{"no-op move", []world.Event{mv(60, world.Cell{X: 1}, world.Cell{X: 1})}, "single step"},
		{"onto obstacle", []world.Event{mv(60, world.Cell{X: 46, Y: 50}, world.Cell{X: 47, Y: 50})}, "blocked"},
		{"spawn off anchor", []world.Event{{Type: world.EventSpawn, Cells: []world.Cell{{X: 0, Y: 0}}}}, "not a bot anchor"},
		{"duplicate spawn", []world.Event{
			{Type: world.EventSpawn, Cells: []world.Cell{{X: 11, Y: 4}}},
			{Frame: 5, Type: world.EventSpawn, Cells: []world.Cell{{X: 11, Y: 4}}},
		}, "duplicate"},
		{"despawn unknown", []world.Event{{Type: world.EventDespawn, Cells: []world.Cell{{X: 11, Y: 4}}}}, "not live"},
		{"response from unknown", []world.Event{{Type: world.EventResponse, Cells: []world.Cell{{X: 11, Y: 4}}}}, "not live"},
		{"unknown type", []world.Event{{Type: "TELEPORT"}}, "unknown event"},
		{"unknown emoji", []world.Event{{Type: world.EventEmote, Word: "🍕"}}, "unknown emoji"},
		{"emote elsewhere", []world.Event{
			mv(60, world.Cell{}, world.Cell{X: 1, Y: 0}),
			{Frame: 61, Type: world.EventEmote, Word: "😁", At: &world.Cell{X: 5}},
		}, "player is at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVerifier()
			var err error
			for _, e := range tt.events {
				if err = v.Check(e); err != nil {
					break
				}
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err=%v, want %q", err, tt.want)
			}
		})
	}
}

func TestVerifier_FrameResetStartsNewRun(t *testing.T) {
	v := NewVerifier()
	steps := []world.Event{
		{Frame: 0, Type: world.EventSpawn, Cells: []world.Cell{{X: 11, Y: 4}}},
		mv(60, world.Cell{}, world.Cell{X: 1, Y: 0}),
		// Restarted server: live set and position are fresh.
		{Frame: 0, Type: world.EventSpawn, Cells: []world.Cell{{X: 11, Y: 4}}},
		mv(60, world.Cell{X: 9, Y: 9}, world.Cell{X: 9, Y: 10}),
	}
	for _, e := range steps {
		if err := v.Check(e); err != nil {
			t.Fatalf("frame %d: %v", e.Frame, err)
		}
	}
	if got := v.Stats().Runs; got != 2 {
		t.Fatalf("runs=%d want 2", got)
	}
}

func TestVerifier_RecordedWorld(t *testing.T) {
	dir := t.TempDir()
	el := persistlog.NewEventLogger(dir)
	w := world.New(world.Options{
		Rand:   rand.New(rand.NewSource(3)),
		Words:  []string{"Hello", "Help", "Yes", "No"},
		Events: el,
	})
	dt := 16 * time.Millisecond
	for i := 0; i < 400; i++ {
		f := world.Frame{Dt: dt, Intent: world.Intent{DX: 1}}
		if i == 100 {
			f.Say = []string{"Hello"}
		}
		if i == 150 {
			f.Emotes = []world.EmoteRequest{{Slot: world.EmoteSlotD}}
		}
		w.Step(f)
	}
	if err := el.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	files, err := persistlog.EventFiles(dir)
	if err != nil || len(files) == 0 {
		t.Fatalf("files=%v err=%v", files, err)
	}
	v := NewVerifier()
	for _, p := range files {
		if err := persistlog.ReadEvents(p, func(e persistlog.EventEntry) error { return v.Check(e.Event) }); err != nil {
			t.Fatalf("verify: %v", err)
		}
	}
	s := v.Stats()
	if s.Moves == 0 || s.Spawns == 0 || s.Says != 1 || s.Emotes != 1 {
		t.Fatalf("stats=%+v", s)
	}
	if s.Last == nil || *s.Last != w.PlayerCell() {
		t.Fatalf("last=%v player=%v", s.Last, w.PlayerCell())
	}
}
