package savedb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gridworld.ai/internal/sim/world"
)

// Player field keys.
const (
	FieldGridX  = "grid_x"
	FieldGridY  = "grid_y"
	FieldWords  = "words"
	FieldEmoteS = "s_key"
	FieldEmoteD = "d_key"
)

// DefaultWords is the vocabulary of a new player.
var DefaultWords = []string{"Hello", "Help", "Yes", "No"}

// KV is the subset of Store the player helpers need.
type KV interface {
	Save(ctx context.Context, profile string, fields map[string]string) error
	Load(ctx context.Context, profile string) (map[string]string, error)
}

func EncodePlayer(rec world.PlayerRecord) (map[string]string, error) {
	words, err := json.Marshal(rec.Words)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		FieldGridX:  strconv.FormatInt(rec.Cell.X, 10),
		FieldGridY:  strconv.FormatInt(rec.Cell.Y, 10),
		FieldWords:  string(words),
		FieldEmoteS: rec.Emotes.S,
		FieldEmoteD: rec.Emotes.D,
	}, nil
}

// DecodePlayer reads player fields. Missing fields keep the new-player
// defaults: cell (0,0), DefaultWords and world.DefaultEmotes. An emote key
// holding an unknown emoji falls back to its default.
func DecodePlayer(fields map[string]string, defaults []string) (world.PlayerRecord, error) {
	rec := world.PlayerRecord{
		Words:  append([]string(nil), defaults...),
		Emotes: world.DefaultEmotes,
	}
	if v, ok := fields[FieldGridX]; ok {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", FieldGridX, err)
		}
		rec.Cell.X = x
	}
	if v, ok := fields[FieldGridY]; ok {
		y, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", FieldGridY, err)
		}
		rec.Cell.Y = y
	}
	if v, ok := fields[FieldWords]; ok {
		var words []string
		if err := json.Unmarshal([]byte(v), &words); err != nil {
			return rec, fmt.Errorf("%s: %w", FieldWords, err)
		}
		if len(words) > 0 {
			rec.Words = words
		}
	}
	if v := fields[FieldEmoteS]; world.IsEmoteChoice(v) {
		rec.Emotes.S = v
	}
	if v := fields[FieldEmoteD]; world.IsEmoteChoice(v) {
		rec.Emotes.D = v
	}
	return rec, nil
}

func SavePlayer(ctx context.Context, kv KV, profile string, rec world.PlayerRecord) error {
	fields, err := EncodePlayer(rec)
	if err != nil {
		return err
	}
	return kv.Save(ctx, profile, fields)
}

// LoadPlayer returns the saved player, or a new player when the profile is
// unknown. found reports which.
func LoadPlayer(ctx context.Context, kv KV, profile string, defaults []string) (rec world.PlayerRecord, found bool, err error) {
	fields, err := kv.Load(ctx, profile)
	if errors.Is(err, ErrNotFound) {
		rec, err = DecodePlayer(nil, defaults)
		return rec, false, err
	}
	if err != nil {
		return world.PlayerRecord{}, false, err
	}
	rec, err = DecodePlayer(fields, defaults)
	return rec, true, err
}
