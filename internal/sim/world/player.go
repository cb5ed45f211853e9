package world

import (
	"time"

	"gridworld.ai/internal/sim/world/logic/mathx"
	"gridworld.ai/internal/sim/world/terrain/gen"
)

// Intent is a directional request; each axis is -1, 0 or 1. Y grows upward.
type Intent struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

func (i Intent) IsZero() bool { return i.DX == 0 && i.DY == 0 }

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Normalize clamps both axes to {-1,0,1}.
func (i Intent) Normalize() Intent { return Intent{DX: sign(i.DX), DY: sign(i.DY)} }

// Facing is the arrow shown for the intent; vertical wins over horizontal.
func (i Intent) Facing() string {
	switch {
	case i.DY > 0:
		return "^"
	case i.DY < 0:
		return "v"
	case i.DX > 0:
		return ">"
	case i.DX < 0:
		return "<"
	}
	return "."
}

// IntentBuffer keeps the latest nonzero intent until a tick consumes it.
type IntentBuffer struct {
	cur  Intent
	last Intent
}

func (b *IntentBuffer) Offer(i Intent) {
	i = i.Normalize()
	if !i.IsZero() {
		b.cur = i
		b.last = i
	}
}

func (b *IntentBuffer) Peek() Intent { return b.cur }

// Last is the most recent nonzero intent, kept after Take.
func (b *IntentBuffer) Last() Intent { return b.last }

func (b *IntentBuffer) Take() Intent {
	i := b.cur
	b.cur = Intent{}
	return i
}

// Move records one applied tick.
type Move struct {
	From Cell `json:"from"`
	To   Cell `json:"to"`
}

// GridTicker owns the player's logical cell and advances it at a fixed cadence.
type GridTicker struct {
	timer  Timer
	pos    Cell
	intent IntentBuffer
}

func NewGridTicker(start Cell, interval time.Duration) *GridTicker {
	return &GridTicker{
		timer: NewTimer(interval, TimerRepeating),
		pos:   start,
	}
}

func (g *GridTicker) Pos() Cell        { return g.pos }
func (g *GridTicker) Request(i Intent) { g.intent.Offer(i) }
func (g *GridTicker) Pending() Intent  { return g.intent.Peek() }
func (g *GridTicker) Facing() string   { return g.intent.Last().Facing() }

// Tick advances the interval timer and applies at most one buffered intent per
// completed period. Each axis is gated separately by blocked.
func (g *GridTicker) Tick(dt time.Duration, blocked func(Cell) bool) []Move {
	g.timer.Tick(dt)
	var moves []Move
	for n := g.timer.Fired(); n > 0; n-- {
		in := g.intent.Take()
		if in.IsZero() {
			continue
		}
		from := g.pos
		if in.DX != 0 {
			if next := g.pos.Add(int64(in.DX), 0); canEnter(next, blocked) {
				g.pos = next
			}
		}
		if in.DY != 0 {
			if next := g.pos.Add(0, int64(in.DY)); canEnter(next, blocked) {
				g.pos = next
			}
		}
		if g.pos != from {
			moves = append(moves, Move{From: from, To: g.pos})
		}
	}
	return moves
}

func canEnter(c Cell, blocked func(Cell) bool) bool {
	return gen.InField(c.X, c.Y) && !blocked(c)
}

// Interpolator eases the rendered position toward the logical one. It only reads
// the logical cell.
type Interpolator struct {
	rendered Vec3
	rate     float64
}

func NewInterpolator(start Vec3, rate float64) *Interpolator {
	return &Interpolator{rendered: start, rate: rate}
}

func (p *Interpolator) Step(dt time.Duration, target Vec2) Vec3 {
	t := mathx.Clamp01(dt.Seconds() * p.rate)
	p.rendered.X += (target.X - p.rendered.X) * t
	p.rendered.Y += (target.Y - p.rendered.Y) * t
	return p.rendered
}

func (p *Interpolator) Rendered() Vec3 { return p.rendered }
