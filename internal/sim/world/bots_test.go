package world

import (
	"math"
	"testing"
	"time"

	"gridworld.ai/internal/sim/dialogue"
)

func TestBotStreamer_SpawnIsIdempotent(t *testing.T) {
	cfg := DefaultConfig()
	s := NewBotStreamer(&cfg)
	rng := newTestRand(1)
	r := Region{MinX: -25, MaxX: -23, MinY: -21, MaxY: -19}

	first := s.SpawnVisible(r, dialogue.New(nil), rng)
	if len(first) != 1 || first[0] != (Cell{X: -24, Y: -20}) {
		t.Fatalf("first spawn: %+v", first)
	}
	if again := s.SpawnVisible(r, dialogue.New(nil), rng); len(again) != 0 {
		t.Fatalf("respawned occupied anchor: %+v", again)
	}
	if s.Len() != 1 || !s.Occupied(Cell{X: -24, Y: -20}) {
		t.Fatalf("len=%d", s.Len())
	}
	b := s.Bots()[0]
	if b.Dialogue != dialogue.Placeholder {
		t.Fatalf("empty pool dialogue=%q", b.Dialogue)
	}
	if b.State() != BotWandering || b.Pos != b.Anchor {
		t.Fatalf("fresh bot: state=%v pos=%+v", b.State(), b.Pos)
	}
}

func TestBotStreamer_FreshSpawnsSurviveDespawn(t *testing.T) {
	cfg := DefaultConfig()
	rng := newTestRand(2)
	cameras := []Vec2{{}, {X: 913, Y: -377}, {X: -4000, Y: 12000}, {X: 20, Y: 20}}
	viewports := []Viewport{cfg.Viewport, {Width: 200, Height: 1600, Scale: 1}, {Width: 800, Height: 600, Scale: 0.25}}
	for _, vp := range viewports {
		for _, cam := range cameras {
			s := NewBotStreamer(&cfg)
			view := View{Camera: cam, Viewport: vp}
			spawned := s.SpawnVisible(VisibleRegion(view, cfg.CellSize, cfg.BotMargin), dialogue.New(nil), rng)
			if gone := s.DespawnFar(view); len(gone) != 0 {
				t.Fatalf("vp=%+v cam=%+v: spawned %d, despawned %+v", vp, cam, len(spawned), gone)
			}
		}
	}
}

func TestBotStreamer_DespawnFarFreesAnchors(t *testing.T) {
	cfg := DefaultConfig()
	s := NewBotStreamer(&cfg)
	rng := newTestRand(3)
	home := View{Viewport: cfg.Viewport}
	spawned := s.SpawnVisible(VisibleRegion(home, cfg.CellSize, cfg.BotMargin), dialogue.New(nil), rng)
	if len(spawned) != 2 {
		t.Fatalf("spawned=%+v", spawned)
	}

	away := View{Camera: Vec2{X: 1e6}, Viewport: cfg.Viewport}
	gone := s.DespawnFar(away)
	if len(gone) != 2 || s.Len() != 0 {
		t.Fatalf("gone=%+v len=%d", gone, s.Len())
	}
	for _, c := range spawned {
		if s.Occupied(c) {
			t.Fatalf("anchor %+v still occupied", c)
		}
	}
	if again := s.SpawnVisible(VisibleRegion(home, cfg.CellSize, cfg.BotMargin), dialogue.New(nil), rng); len(again) != 2 {
		t.Fatalf("respawn=%+v", again)
	}
}

func TestBotStreamer_DespawnRadiusFollowsViewport(t *testing.T) {
	cfg := DefaultConfig()
	s := NewBotStreamer(&cfg)
	if r := s.DespawnRadius(cfg.Viewport); r != 1600 {
		t.Fatalf("radius=%v want 1600", r)
	}
	if r := s.DespawnRadius(Viewport{Width: 800, Height: 600, Scale: 2}); r != 3200 {
		t.Fatalf("scaled radius=%v want 3200", r)
	}
}

func TestBotStreamer_WanderedBotSurvivesSmallDespawnFactor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DespawnFactor = 0.1
	s := NewBotStreamer(&cfg)
	view := View{Viewport: cfg.Viewport}

	floor := s.spawnReach(cfg.Viewport) + (math.Sqrt2*float64(cfg.WanderRadius)+1)*cfg.CellSize
	if r := s.DespawnRadius(cfg.Viewport); r < floor {
		t.Fatalf("radius=%v below floor %v", r, floor)
	}

	// Corner of the bot region, wandered to the far corner of its box.
	region := VisibleRegion(view, cfg.CellSize, cfg.BotMargin)
	anchor := Cell{X: region.MaxX, Y: region.MaxY}
	b := s.spawn(anchor, "hi", newTestRand(4))
	b.Pos = Cell{X: anchor.X + cfg.WanderRadius, Y: anchor.Y + cfg.WanderRadius}
	if gone := s.DespawnFar(view); len(gone) != 0 {
		t.Fatalf("despawned wandering bot: %+v", gone)
	}
	if !s.Occupied(anchor) {
		t.Fatalf("anchor %+v freed", anchor)
	}
}

func TestBot_WanderStaysInBox(t *testing.T) {
	cfg := DefaultConfig()
	s := NewBotStreamer(&cfg)
	rng := newTestRand(4)
	anchor := Cell{X: 50, Y: 50}
	b := s.spawn(anchor, "hi", rng)

	seen := map[Cell]bool{}
	for i := 0; i < 20000; i++ {
		s.Step(100*time.Millisecond, IsObstacleCell, rng)
		if b.Pos.X < 45 || b.Pos.X > 55 || b.Pos.Y < 45 || b.Pos.Y > 55 {
			t.Fatalf("left wander box: %+v", b.Pos)
		}
		if b.Pos == (Cell{X: 47, Y: 50}) {
			t.Fatalf("walked onto obstacle")
		}
		seen[b.Pos] = true
	}
	if len(seen) < 10 {
		t.Fatalf("bot barely moved: %d cells", len(seen))
	}
}

func TestBot_FirstMoveWaitsAtLeastOneSecond(t *testing.T) {
	cfg := DefaultConfig()
	s := NewBotStreamer(&cfg)
	rng := newTestRand(5)
	for i := 0; i < 50; i++ {
		s.spawn(Cell{X: int64(100 + 20*i), Y: 100}, "", rng)
	}
	for i := 0; i < 9; i++ {
		s.Step(100*time.Millisecond, never, rng)
	}
	for _, b := range s.Bots() {
		if b.Pos != b.Anchor {
			t.Fatalf("bot %+v moved before its first timer", b.Anchor)
		}
	}
}

func TestBotStreamer_UtterRespondsInRange(t *testing.T) {
	cfg := DefaultConfig()
	s := NewBotStreamer(&cfg)
	rng := newTestRand(6)
	near := s.spawn(Cell{X: 0, Y: 3}, "line-A", rng)
	diag := s.spawn(Cell{X: 4, Y: 2}, "line-C", rng)
	far := s.spawn(Cell{X: 4, Y: 3}, "line-far", rng)
	pool := dialogue.New([]string{"pool-B"})

	heard := s.Utter(Utterance{At: Vec2{}, Word: "Hello"}, pool, rng)
	if len(heard) != 2 {
		t.Fatalf("heard=%+v", heard)
	}
	if near.Response != "line-A" || diag.Response != "line-C" {
		t.Fatalf("greeting responses: %q %q", near.Response, diag.Response)
	}
	if far.Response != "" || far.State() != BotWandering {
		t.Fatalf("out-of-range bot responded")
	}
	if near.State() != BotTalking {
		t.Fatalf("near state=%v", near.State())
	}

	s.Utter(Utterance{At: Vec2{}, Word: "Yes"}, pool, rng)
	if near.Response != "pool-B" {
		t.Fatalf("non-greeting response=%q", near.Response)
	}

	s.Utter(Utterance{At: Vec2{}, Word: "No"}, dialogue.New(nil), rng)
	if near.Response != dialogue.Placeholder {
		t.Fatalf("empty pool response=%q", near.Response)
	}
}

func TestBot_TalkingSuspendsWander(t *testing.T) {
	cfg := DefaultConfig()
	s := NewBotStreamer(&cfg)
	rng := newTestRand(7)
	b := s.spawn(Cell{X: 50, Y: 50}, "hi", rng)
	b.Talk("hi", &cfg)

	for i := 0; i < 29; i++ {
		s.Step(100*time.Millisecond, never, rng)
		if b.Pos != b.Anchor {
			t.Fatalf("moved while talking at frame %d", i)
		}
		if b.State() != BotTalking || b.Response != "hi" {
			t.Fatalf("frame %d: state=%v response=%q", i, b.State(), b.Response)
		}
	}
	s.Step(100*time.Millisecond, never, rng)
	if b.State() != BotWandering {
		t.Fatalf("still talking after 3s")
	}
	if b.Response != "" {
		t.Fatalf("response not cleared: %q", b.Response)
	}
}
