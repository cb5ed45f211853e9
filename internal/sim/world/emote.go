package world

import (
	"fmt"
	"slices"
	"time"
)

// Emote slots. Slot a always shows EmoteThumbsUp; s and d show the player's
// own bindings.
const (
	EmoteSlotA = "a"
	EmoteSlotS = "s"
	EmoteSlotD = "d"
)

const EmoteThumbsUp = "👍"

// EmoteChoices lists the emojis slots s and d can be bound to.
var EmoteChoices = []string{
	"😁", "😭", "😡", "😇", "🤔",
	"🤮", "💩", "👻", "💀", "👽",
	"👾", "🤖", "🔥", "💢", "💦",
	"💤", "❤️", "💔", "👀", "🧠",
}

// DefaultEmotes is the binding of a new player.
var DefaultEmotes = Emotes{S: "😁", D: "😭"}

// Emotes is the player's binding for slots s and d.
type Emotes struct {
	S string `json:"s"`
	D string `json:"d"`
}

func IsEmoteChoice(e string) bool { return slices.Contains(EmoteChoices, e) }

// orDefault replaces unknown bindings with DefaultEmotes.
func (e Emotes) orDefault() Emotes {
	if !IsEmoteChoice(e.S) {
		e.S = DefaultEmotes.S
	}
	if !IsEmoteChoice(e.D) {
		e.D = DefaultEmotes.D
	}
	return e
}

// NextEmoteChoice returns the choice after cur, wrapping around. Unknown values
// start from the first choice.
func NextEmoteChoice(cur string) string {
	i := slices.Index(EmoteChoices, cur)
	return EmoteChoices[(i+1)%len(EmoteChoices)]
}

// EmoteRequest shows the emote in Slot. A non-empty Bind rebinds slot s or d
// first.
type EmoteRequest struct {
	Slot string `json:"slot"`
	Bind string `json:"bind,omitempty"`
}

func (r EmoteRequest) Validate() error {
	switch r.Slot {
	case EmoteSlotA:
		if r.Bind != "" {
			return fmt.Errorf("slot %s cannot be rebound", r.Slot)
		}
	case EmoteSlotS, EmoteSlotD:
		if r.Bind != "" && !IsEmoteChoice(r.Bind) {
			return fmt.Errorf("unknown emoji %q", r.Bind)
		}
	default:
		return fmt.Errorf("unknown emote slot %q", r.Slot)
	}
	return nil
}

// Emote is the emoji shown above the player. Showing one restarts its timer;
// the text clears when the timer finishes.
type Emote struct {
	text  string
	timer Timer
}

func NewEmote(d time.Duration) *Emote {
	return &Emote{timer: NewTimer(d, TimerOnce)}
}

func (e *Emote) Show(text string) {
	e.text = text
	e.timer.Reset()
}

func (e *Emote) Step(dt time.Duration) {
	if e.text == "" {
		return
	}
	e.timer.Tick(dt)
	if e.timer.Finished() {
		e.text = ""
	}
}

func (e *Emote) Text() string { return e.text }
