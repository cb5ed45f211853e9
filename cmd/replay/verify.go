package main

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"gridworld.ai/internal/sim/world"
	"gridworld.ai/internal/sim/world/terrain/gen"
)

type Stats struct {
	Runs      int
	Moves     int
	Says      int
	Emotes    int
	Responses int
	Spawns    int
	Despawns  int
	MaxLive   int
	Last      *world.Cell
}

// Verifier checks an event stream against the world rules: moves are single
// steps onto open in-field cells and chain end to start, spawns land on bot
// anchors that are not already live, despawns name live bots, and emotes show
// a known emoji where the player stands. A frame
// number that goes backwards starts a new server run.
type Verifier struct {
	stats     Stats
	started   bool
	lastFrame uint64
	pos       *world.Cell
	live      mapset.Set[world.Cell]
}

func NewVerifier() *Verifier {
	return &Verifier{live: mapset.New[world.Cell]()}
}

func (v *Verifier) Stats() Stats {
	s := v.stats
	if v.pos != nil {
		c := *v.pos
		s.Last = &c
	}
	return s
}

func (v *Verifier) Check(e world.Event) error {
	if !v.started || e.Frame < v.lastFrame {
		v.started = true
		v.stats.Runs++
		v.pos = nil
		v.live = mapset.New[world.Cell]()
	}
	v.lastFrame = e.Frame

	switch e.Type {
	case world.EventMove:
		return v.move(e)
	case world.EventSay:
		v.stats.Says++
		if e.At != nil && v.pos != nil && *e.At != *v.pos {
			return fmt.Errorf("frame %d: SAY at %v but player is at %v", e.Frame, *e.At, *v.pos)
		}
	case world.EventEmote:
		v.stats.Emotes++
		if e.Word != world.EmoteThumbsUp && !world.IsEmoteChoice(e.Word) {
			return fmt.Errorf("frame %d: EMOTE of unknown emoji %q", e.Frame, e.Word)
		}
		if e.At != nil && v.pos != nil && *e.At != *v.pos {
			return fmt.Errorf("frame %d: EMOTE at %v but player is at %v", e.Frame, *e.At, *v.pos)
		}
	case world.EventResponse:
		v.stats.Responses++
		for _, c := range e.Cells {
			if !v.live.Has(c) {
				return fmt.Errorf("frame %d: response from bot %v that is not live", e.Frame, c)
			}
		}
	case world.EventSpawn:
		for _, c := range e.Cells {
			if !gen.IsBotAnchor(c.X, c.Y) {
				return fmt.Errorf("frame %d: spawn at %v which is not a bot anchor", e.Frame, c)
			}
			if v.live.Has(c) {
				return fmt.Errorf("frame %d: duplicate spawn at %v", e.Frame, c)
			}
			v.live.Put(c)
			v.stats.Spawns++
		}
		if n := v.live.Size(); n > v.stats.MaxLive {
			v.stats.MaxLive = n
		}
	case world.EventDespawn:
		for _, c := range e.Cells {
			if !v.live.Has(c) {
				return fmt.Errorf("frame %d: despawn of %v which is not live", e.Frame, c)
			}
			v.live.Remove(c)
			v.stats.Despawns++
		}
	default:
		return fmt.Errorf("frame %d: unknown event type %q", e.Frame, e.Type)
	}
	return nil
}

func (v *Verifier) move(e world.Event) error {
	if e.Move == nil {
		return fmt.Errorf("frame %d: MOVE without move", e.Frame)
	}
	m := *e.Move
	if v.pos != nil && m.From != *v.pos {
		return fmt.Errorf("frame %d: move starts at %v, last known cell is %v", e.Frame, m.From, *v.pos)
	}
	dx, dy := m.To.X-m.From.X, m.To.Y-m.From.Y
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 || (dx == 0 && dy == 0) {
		return fmt.Errorf("frame %d: move %v -> %v is not a single step", e.Frame, m.From, m.To)
	}
	if !gen.InField(m.To.X, m.To.Y) || gen.IsObstacle(m.To.X, m.To.Y) {
		return fmt.Errorf("frame %d: move onto blocked cell %v", e.Frame, m.To)
	}
	to := m.To
	v.pos = &to
	v.stats.Moves++
	return nil
}
