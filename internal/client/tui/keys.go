package tui

import (
	"github.com/gdamore/tcell/v2"

	"gridworld.ai/internal/protocol"
	"gridworld.ai/internal/sim/world"
)

type ActionKind int

const (
	ActNone ActionKind = iota
	ActMove
	ActSay
	ActEmote
	ActSave
	ActQuit
)

// Action is what a key press asks the session to do.
type Action struct {
	Kind   ActionKind
	DX, DY int
	Word   int
	// Slot is the emote slot; Cycle rebinds it to the next choice first.
	Slot  string
	Cycle bool
}

var sayKeys = []rune{'1', '2', '3', '4'}

// KeyAction maps a key event. Up is +Y.
func KeyAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Action{Kind: ActQuit}
	case tcell.KeyCtrlS:
		return Action{Kind: ActSave}
	case tcell.KeyUp:
		return Action{Kind: ActMove, DY: 1}
	case tcell.KeyDown:
		return Action{Kind: ActMove, DY: -1}
	case tcell.KeyLeft:
		return Action{Kind: ActMove, DX: -1}
	case tcell.KeyRight:
		return Action{Kind: ActMove, DX: 1}
	case tcell.KeyRune:
	default:
		return Action{}
	}

	r := ev.Rune()
	for i, k := range sayKeys {
		if r == k {
			return Action{Kind: ActSay, Word: i}
		}
	}
	switch r {
	case 'q':
		return Action{Kind: ActQuit}
	case 'a':
		return Action{Kind: ActEmote, Slot: world.EmoteSlotA}
	case 's', 'd':
		return Action{Kind: ActEmote, Slot: string(r)}
	case 'S', 'D':
		return Action{Kind: ActEmote, Slot: string(r + 'a' - 'A'), Cycle: true}
	}
	return Action{}
}

// EmoteRequest resolves an emote action against the current bindings. A cycle
// binds the slot to the choice after its current one.
func EmoteRequest(act Action, cur protocol.Emotes) (slot, bind string) {
	if !act.Cycle {
		return act.Slot, ""
	}
	switch act.Slot {
	case world.EmoteSlotS:
		return act.Slot, world.NextEmoteChoice(cur.S)
	case world.EmoteSlotD:
		return act.Slot, world.NextEmoteChoice(cur.D)
	}
	return act.Slot, ""
}
