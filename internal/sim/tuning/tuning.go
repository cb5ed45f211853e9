package tuning

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"gridworld.ai/internal/sim/world"
)

type Tuning struct {
	CellSize             float64 `yaml:"cell_size"`
	FrameRateHz          int     `yaml:"frame_rate_hz"`
	FrameEvery           int     `yaml:"frame_every"`
	PlayerMoveIntervalMs int     `yaml:"player_move_interval_ms"`
	SmoothingRate        float64 `yaml:"smoothing_rate"`

	ObstacleMargin float64 `yaml:"obstacle_margin"`
	BotMargin      float64 `yaml:"bot_margin"`

	BotWanderRadius        int64   `yaml:"bot_wander_radius"`
	InteractionRadiusCells float64 `yaml:"interaction_radius_cells"`
	TalkDurationMs         int     `yaml:"talk_duration_ms"`
	ResponseDurationMs     int     `yaml:"response_duration_ms"`
	BotFirstMoveMs         []int   `yaml:"bot_first_move_ms"`
	BotMoveMs              []int   `yaml:"bot_move_ms"`
	DespawnFactor          float64 `yaml:"despawn_factor"`
	GreetingWord           string  `yaml:"greeting_word"`

	ChatDurationMs  int      `yaml:"chat_duration_ms"`
	ChatLogSize     int      `yaml:"chat_log_size"`
	VocabularyKeys  int      `yaml:"vocabulary_keys"`
	DefaultWords    []string `yaml:"default_words"`
	EmoteDurationMs int      `yaml:"emote_duration_ms"`

	Viewport Viewport `yaml:"viewport"`

	// DialoguePath is resolved against the config directory when relative.
	DialoguePath string `yaml:"dialogue_path"`
	EventLog     bool   `yaml:"event_log"`
}

type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

func Defaults() Tuning {
	return Tuning{
		CellSize:               40,
		FrameRateHz:            60,
		FrameEvery:             3,
		PlayerMoveIntervalMs:   1000,
		SmoothingRate:          10,
		ObstacleMargin:         1,
		BotMargin:              2,
		BotWanderRadius:        5,
		InteractionRadiusCells: 4.5,
		TalkDurationMs:         3000,
		ResponseDurationMs:     3000,
		BotFirstMoveMs:         []int{1000, 3000},
		BotMoveMs:              []int{500, 2000},
		DespawnFactor:          2,
		GreetingWord:           "Hello",
		ChatDurationMs:         5000,
		ChatLogSize:            5,
		VocabularyKeys:         4,
		DefaultWords:           []string{"Hello", "Help", "Yes", "No"},
		EmoteDurationMs:        3000,
		Viewport:               Viewport{Width: 800, Height: 600, Scale: 1},
		DialoguePath:           "bot_dialogues.txt",
		EventLog:               true,
	}
}

// Load reads a tuning file on top of Defaults; keys absent from the file keep
// their default values.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) validate() error {
	for name, r := range map[string][]int{"bot_first_move_ms": t.BotFirstMoveMs, "bot_move_ms": t.BotMoveMs} {
		if len(r) != 2 {
			return fmt.Errorf("%s: want [min, max], got %d values", name, len(r))
		}
		if r[0] < 0 || r[1] <= r[0] {
			return fmt.Errorf("%s: bad range %v", name, r)
		}
	}
	if t.FrameRateHz < 0 || t.FrameRateHz > 1000 {
		return fmt.Errorf("frame_rate_hz out of range: %d", t.FrameRateHz)
	}
	return nil
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// WorldConfig maps the tuning onto the world's config. Zero values fall back
// to the world's own defaults.
func (t Tuning) WorldConfig() world.Config {
	cfg := world.Config{
		CellSize:          t.CellSize,
		FrameRateHz:       t.FrameRateHz,
		FrameEvery:        t.FrameEvery,
		MoveInterval:      ms(t.PlayerMoveIntervalMs),
		SmoothingRate:     t.SmoothingRate,
		ObstacleMargin:    t.ObstacleMargin,
		BotMargin:         t.BotMargin,
		WanderRadius:      t.BotWanderRadius,
		InteractionRadius: t.InteractionRadiusCells,
		TalkDuration:      ms(t.TalkDurationMs),
		ResponseDuration:  ms(t.ResponseDurationMs),
		DespawnFactor:     t.DespawnFactor,
		GreetingWord:      t.GreetingWord,
		ChatLogSize:       t.ChatLogSize,
		ChatLogTTL:        ms(t.ChatDurationMs),
		VocabularyKeys:    t.VocabularyKeys,
		EmoteDuration:     ms(t.EmoteDurationMs),
		Viewport:          world.Viewport{Width: t.Viewport.Width, Height: t.Viewport.Height, Scale: t.Viewport.Scale},
	}
	if len(t.BotFirstMoveMs) == 2 {
		cfg.FirstMoveMin, cfg.FirstMoveMax = ms(t.BotFirstMoveMs[0]), ms(t.BotFirstMoveMs[1])
	}
	if len(t.BotMoveMs) == 2 {
		cfg.MoveMin, cfg.MoveMax = ms(t.BotMoveMs[0]), ms(t.BotMoveMs[1])
	}
	return cfg
}
