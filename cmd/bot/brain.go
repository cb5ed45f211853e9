package main

import (
	"math"
	"time"

	"gridworld.ai/internal/protocol"
	"gridworld.ai/internal/sim/world"
)

const (
	moveEvery     = time.Second
	greetCooldown = 5 * time.Second
	// Greet when a bot is this many cells away or closer.
	greetCells = 4.0
)

var directions = []world.Intent{{DX: 1}, {DX: -1}, {DY: 1}, {DY: -1}}

type decision struct {
	move *world.Intent
	// say is the word index to speak, or -1.
	say  int
	near int
}

// brain walks in random axis steps and greets bots that come close.
type brain struct {
	rng       world.Rand
	greet     int
	nextMove  time.Time
	lastGreet map[protocol.Cell]time.Time
}

func newBrain(rng world.Rand, words []string, greet string) *brain {
	idx := 0
	for i, w := range words {
		if w == greet {
			idx = i
			break
		}
	}
	return &brain{rng: rng, greet: idx, lastGreet: map[protocol.Cell]time.Time{}}
}

func (b *brain) decide(now time.Time, f protocol.FrameMsg) decision {
	d := decision{say: -1}
	if !now.Before(b.nextMove) {
		in := directions[b.rng.Intn(len(directions))]
		d.move = &in
		b.nextMove = now.Add(moveEvery)
	}

	for _, bot := range f.Bots {
		dx := float64(bot.Pos.X - f.Player.Cell.X)
		dy := float64(bot.Pos.Y - f.Player.Cell.Y)
		if math.Hypot(dx, dy) > greetCells {
			continue
		}
		if t, ok := b.lastGreet[bot.Anchor]; ok && now.Sub(t) < greetCooldown {
			continue
		}
		b.lastGreet[bot.Anchor] = now
		d.near++
	}
	if d.near > 0 {
		d.say = b.greet
	}
	return d
}
