package world

import (
	"math"
	"time"
)

// MaxViewCells bounds the cells one view may stream, margins included.
const MaxViewCells = 1 << 18

type Config struct {
	// Pixel size of one cell.
	CellSize    float64
	FrameRateHz int
	// Observers get one frame message every FrameEvery frames.
	FrameEvery int

	MoveInterval  time.Duration
	SmoothingRate float64

	// Region margins, in cells.
	ObstacleMargin float64
	BotMargin      float64

	// Bots.
	WanderRadius      int64
	InteractionRadius float64 // in cells
	TalkDuration      time.Duration
	ResponseDuration  time.Duration
	FirstMoveMin      time.Duration
	FirstMoveMax      time.Duration
	MoveMin           time.Duration
	MoveMax           time.Duration
	DespawnFactor     float64
	GreetingWord      string

	// Player speech log.
	ChatLogSize int
	ChatLogTTL  time.Duration
	// Only the first VocabularyKeys words can be spoken.
	VocabularyKeys int
	// How long an emote stays above the player.
	EmoteDuration time.Duration

	Viewport Viewport
}

func (c *Config) applyDefaults() {
	if c.CellSize <= 0 {
		c.CellSize = 40
	}
	if c.FrameRateHz <= 0 {
		c.FrameRateHz = 60
	}
	if c.FrameEvery <= 0 {
		c.FrameEvery = 3
	}
	if c.MoveInterval <= 0 {
		c.MoveInterval = time.Second
	}
	if c.SmoothingRate <= 0 {
		c.SmoothingRate = 10
	}
	if c.ObstacleMargin <= 0 {
		c.ObstacleMargin = 1
	}
	if c.BotMargin <= 0 {
		c.BotMargin = 2
	}
	if c.WanderRadius <= 0 {
		c.WanderRadius = 5
	}
	if c.InteractionRadius <= 0 {
		c.InteractionRadius = 4.5
	}
	if c.TalkDuration <= 0 {
		c.TalkDuration = 3 * time.Second
	}
	if c.ResponseDuration <= 0 {
		c.ResponseDuration = 3 * time.Second
	}
	if c.FirstMoveMin <= 0 || c.FirstMoveMax <= c.FirstMoveMin {
		c.FirstMoveMin = time.Second
		c.FirstMoveMax = 3 * time.Second
	}
	if c.MoveMin <= 0 || c.MoveMax <= c.MoveMin {
		c.MoveMin = 500 * time.Millisecond
		c.MoveMax = 2 * time.Second
	}
	if c.DespawnFactor <= 0 {
		c.DespawnFactor = 2
	}
	if c.GreetingWord == "" {
		c.GreetingWord = "Hello"
	}
	if c.ChatLogSize <= 0 {
		c.ChatLogSize = 5
	}
	if c.ChatLogTTL <= 0 {
		c.ChatLogTTL = 5 * time.Second
	}
	if c.VocabularyKeys <= 0 {
		c.VocabularyKeys = 4
	}
	if c.EmoteDuration <= 0 {
		c.EmoteDuration = 3 * time.Second
	}
	if !c.Viewport.Valid() || !c.ViewportFits(c.Viewport) {
		c.Viewport = Viewport{Width: 800, Height: 600, Scale: 1}
	}
}

// ViewportFits reports whether the widest region streamed for vp stays within
// MaxViewCells. An invalid viewport streams nothing and always fits.
func (c Config) ViewportFits(vp Viewport) bool {
	if !vp.Valid() {
		return true
	}
	margin := math.Max(c.ObstacleMargin, c.BotMargin)
	cols := vp.Width*vp.Scale/c.CellSize + 2*margin + 3
	rows := vp.Height*vp.Scale/c.CellSize + 2*margin + 3
	return cols*rows <= MaxViewCells
}

// DefaultConfig returns a Config with every field set.
func DefaultConfig() Config {
	var c Config
	c.applyDefaults()
	return c
}
