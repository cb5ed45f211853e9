package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"gridworld.ai/internal/protocol"
)

func TestKeyAction(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Action
	}{
		{"up is +y", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), Action{Kind: ActMove, DY: 1}},
		{"down is -y", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), Action{Kind: ActMove, DY: -1}},
		{"left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), Action{Kind: ActMove, DX: -1}},
		{"right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), Action{Kind: ActMove, DX: 1}},
		{"word 1", tcell.NewEventKey(tcell.KeyRune, '1', tcell.ModNone), Action{Kind: ActSay, Word: 0}},
		{"word 4", tcell.NewEventKey(tcell.KeyRune, '4', tcell.ModNone), Action{Kind: ActSay, Word: 3}},
		{"word 5 ignored", tcell.NewEventKey(tcell.KeyRune, '5', tcell.ModNone), Action{}},
		{"save", tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), Action{Kind: ActSave}},
		{"emote a", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), Action{Kind: ActEmote, Slot: "a"}},
		{"emote s", tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone), Action{Kind: ActEmote, Slot: "s"}},
		{"emote d", tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone), Action{Kind: ActEmote, Slot: "d"}},
		{"cycle s", tcell.NewEventKey(tcell.KeyRune, 'S', tcell.ModShift), Action{Kind: ActEmote, Slot: "s", Cycle: true}},
		{"cycle d", tcell.NewEventKey(tcell.KeyRune, 'D', tcell.ModShift), Action{Kind: ActEmote, Slot: "d", Cycle: true}},
		{"shift a ignored", tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModShift), Action{}},
		{"quit q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), Action{Kind: ActQuit}},
		{"quit esc", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), Action{Kind: ActQuit}},
		{"enter ignored", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), Action{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyAction(tt.ev); got != tt.want {
				t.Fatalf("got %+v want %+v", got, tt.want)
			}
		})
	}
}

func TestEmoteRequest(t *testing.T) {
	cur := protocol.Emotes{S: "😁", D: "🧠"}
	tests := []struct {
		act        Action
		slot, bind string
	}{
		{Action{Kind: ActEmote, Slot: "a"}, "a", ""},
		{Action{Kind: ActEmote, Slot: "s"}, "s", ""},
		{Action{Kind: ActEmote, Slot: "s", Cycle: true}, "s", "😭"},
		{Action{Kind: ActEmote, Slot: "d", Cycle: true}, "d", "😁"},
	}
	for _, tt := range tests {
		slot, bind := EmoteRequest(tt.act, cur)
		if slot != tt.slot || bind != tt.bind {
			t.Fatalf("%+v: got (%q,%q) want (%q,%q)", tt.act, slot, bind, tt.slot, tt.bind)
		}
	}
}
