package world

import (
	"math"
	"time"

	"github.com/zyedidia/generic/mapset"

	"gridworld.ai/internal/sim/dialogue"
)

// BotStreamer owns every live bot. A bot is identified by its anchor; at most one
// live bot exists per anchor.
type BotStreamer struct {
	cfg *Config

	bots    []*Bot
	anchors mapset.Set[Cell]
}

func NewBotStreamer(cfg *Config) *BotStreamer {
	return &BotStreamer{cfg: cfg, anchors: mapset.New[Cell]()}
}

// SpawnVisible creates a bot for every unoccupied anchor in r.
func (s *BotStreamer) SpawnVisible(r Region, pool *dialogue.Pool, rng Rand) []Cell {
	var spawned []Cell
	r.Each(func(c Cell) {
		if s.anchors.Has(c) || !isBotAnchorCell(c) {
			return
		}
		s.spawn(c, pool.Pick(rng), rng)
		spawned = append(spawned, c)
	})
	return spawned
}

func (s *BotStreamer) spawn(anchor Cell, line string, rng Rand) *Bot {
	b := &Bot{
		Anchor:        anchor,
		Pos:           anchor,
		Dialogue:      line,
		moveTimer:     NewTimer(randDuration(rng, s.cfg.FirstMoveMin, s.cfg.FirstMoveMax), TimerRepeating),
		talkTimer:     NewTimer(0, TimerOnce),
		responseTimer: NewTimer(s.cfg.ResponseDuration, TimerOnce),
	}
	s.bots = append(s.bots, b)
	s.anchors.Put(anchor)
	return b
}

// DespawnRadius is the camera distance past which bots are dropped. It never
// falls inside the reach of the bot spawn region plus a full wander box.
func (s *BotStreamer) DespawnRadius(vp Viewport) float64 {
	r := math.Max(vp.Width, vp.Height) * vp.Scale * s.cfg.DespawnFactor
	wander := math.Sqrt2 * float64(s.cfg.WanderRadius) * s.cfg.CellSize
	if reach := s.spawnReach(vp) + wander + s.cfg.CellSize; r < reach {
		r = reach
	}
	return r
}

// spawnReach bounds the distance from the camera to any cell of the bot region,
// counting one extra cell for edge rounding.
func (s *BotStreamer) spawnReach(vp Viewport) float64 {
	pad := (s.cfg.BotMargin + 1) * s.cfg.CellSize
	return math.Hypot(vp.Width/2*vp.Scale+pad, vp.Height/2*vp.Scale+pad)
}

// DespawnFar drops bots farther than DespawnRadius from the camera.
func (s *BotStreamer) DespawnFar(v View) []Cell {
	limit := s.DespawnRadius(v.Viewport)
	var gone []Cell
	kept := s.bots[:0]
	for _, b := range s.bots {
		if b.Pos.Pixel(s.cfg.CellSize).Dist(v.Camera) > limit {
			s.anchors.Remove(b.Anchor)
			gone = append(gone, b.Anchor)
			continue
		}
		kept = append(kept, b)
	}
	for i := len(kept); i < len(s.bots); i++ {
		s.bots[i] = nil
	}
	s.bots = kept
	return gone
}

// Step advances every bot's behavior.
func (s *BotStreamer) Step(dt time.Duration, blocked func(Cell) bool, rng Rand) {
	for _, b := range s.bots {
		b.Step(dt, s.cfg, blocked, rng)
	}
}

// Utter makes every bot within the interaction radius of u respond. The greeting
// word gets the bot's own line; any other word gets a fresh pick from the pool.
func (s *BotStreamer) Utter(u Utterance, pool *dialogue.Pool, rng Rand) []Cell {
	limit := s.cfg.InteractionRadius * s.cfg.CellSize
	var heard []Cell
	for _, b := range s.bots {
		if b.Pos.Pixel(s.cfg.CellSize).Dist(u.At) > limit {
			continue
		}
		resp := b.Dialogue
		if u.Word != s.cfg.GreetingWord {
			resp = pool.Pick(rng)
		}
		b.Talk(resp, s.cfg)
		heard = append(heard, b.Anchor)
	}
	return heard
}

func (s *BotStreamer) Len() int { return len(s.bots) }

// Bots returns the live bots in spawn order.
func (s *BotStreamer) Bots() []*Bot { return s.bots }

func (s *BotStreamer) Occupied(anchor Cell) bool { return s.anchors.Has(anchor) }
