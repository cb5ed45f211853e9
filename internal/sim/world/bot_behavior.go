package world

import "time"

type BotState uint8

const (
	BotWandering BotState = iota
	BotTalking
)

func (s BotState) String() string {
	if s == BotTalking {
		return "TALKING"
	}
	return "WANDERING"
}

// Bot is a wandering, talkative entity bound to its anchor cell.
type Bot struct {
	Anchor Cell
	Pos    Cell
	// Dialogue is fixed at spawn.
	Dialogue string
	// Response is the text currently shown above the bot, if any.
	Response string

	moveTimer     Timer
	talkTimer     Timer
	responseTimer Timer
}

func (b *Bot) State() BotState {
	if b.talkTimer.Finished() {
		return BotWandering
	}
	return BotTalking
}

// Step runs one frame of behavior: the talking countdown, the wander step while
// not talking, and the response display countdown.
func (b *Bot) Step(dt time.Duration, cfg *Config, blocked func(Cell) bool, rng Rand) {
	b.talkTimer.Tick(dt)
	if b.talkTimer.Finished() {
		b.wander(dt, cfg, blocked, rng)
	}

	if b.Response != "" {
		b.responseTimer.Tick(dt)
		if b.responseTimer.Finished() {
			b.Response = ""
		}
	}
}

var wanderDirs = [4][2]int64{{0, 1}, {0, -1}, {-1, 0}, {1, 0}}

func (b *Bot) wander(dt time.Duration, cfg *Config, blocked func(Cell) bool, rng Rand) {
	b.moveTimer.Tick(dt)
	if !b.moveTimer.Finished() {
		return
	}
	d := wanderDirs[rng.Intn(len(wanderDirs))]
	next := b.Pos.Add(d[0], d[1])
	if b.inWanderBox(next, cfg.WanderRadius) && !blocked(next) {
		b.Pos = next
	}
	b.moveTimer.SetDuration(randDuration(rng, cfg.MoveMin, cfg.MoveMax))
	b.moveTimer.Reset()
}

func (b *Bot) inWanderBox(c Cell, radius int64) bool {
	dx := c.X - b.Anchor.X
	dy := c.Y - b.Anchor.Y
	return dx >= -radius && dx <= radius && dy >= -radius && dy <= radius
}

// Talk suspends wandering for the talk duration and shows resp.
func (b *Bot) Talk(resp string, cfg *Config) {
	b.talkTimer.SetDuration(cfg.TalkDuration)
	b.talkTimer.Reset()
	b.Response = resp
	b.responseTimer.SetDuration(cfg.ResponseDuration)
	b.responseTimer.Reset()
}

// RenderPos is the bot's pixel position. Bot moves are not interpolated.
func (b *Bot) RenderPos(cellSize float64) Vec2 { return b.Pos.Pixel(cellSize) }
