package world

// Event is one line of the world's event log.
type Event struct {
	Frame uint64 `json:"frame"`
	Type  string `json:"type"`

	Move  *Move  `json:"move,omitempty"`
	Word  string `json:"word,omitempty"`
	At    *Cell  `json:"at,omitempty"`
	Cells []Cell `json:"cells,omitempty"`
}

const (
	EventMove     = "MOVE"
	EventSay      = "SAY"
	EventSpawn    = "BOT_SPAWN"
	EventDespawn  = "BOT_DESPAWN"
	EventResponse = "BOT_RESPONSE"
	EventEmote    = "EMOTE"
)

// EventSink receives world events. Writes happen on the world goroutine.
type EventSink interface {
	WriteEvent(Event) error
}
