package protocol

// Cell is a logical grid coordinate. Y grows upward.
type Cell struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

// Emotes is the player's binding for emote slots s and d.
type Emotes struct {
	S string `json:"s"`
	D string `json:"d"`
}

type Region struct {
	MinX int64 `json:"min_x"`
	MaxX int64 `json:"max_x"`
	MinY int64 `json:"min_y"`
	MaxY int64 `json:"max_y"`
}

// HELLO (client -> server)
type HelloMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	ClientName      string   `json:"client_name,omitempty"`
	Profile         string   `json:"profile,omitempty"`
	Viewport        Viewport `json:"viewport"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	SessionID       string   `json:"session_id"`
	Profile         string   `json:"profile"`
	Words           []string `json:"words"`
	CellSize        float64  `json:"cell_size"`
	FrameRateHz     int      `json:"frame_rate_hz"`
	FrameEvery      int      `json:"frame_every"`
	Player          Cell     `json:"player"`
	Emotes          Emotes   `json:"emotes"`
}

// INPUT (client -> server). Each axis is -1, 0 or 1.
type InputMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	DX              int    `json:"dx"`
	DY              int    `json:"dy"`
}

// SAY (client -> server). WordIndex picks from the WELCOME vocabulary.
type SayMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	WordIndex       int    `json:"word_index"`
}

// VIEWPORT (client -> server)
type ViewportMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	Viewport        Viewport `json:"viewport"`
}

// EMOTE (client -> server). Slot is "a", "s" or "d"; Bind, for s and d only,
// rebinds the slot before showing it.
type EmoteMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Slot            string `json:"slot"`
	Bind            string `json:"bind,omitempty"`
}

// SAVE (client -> server)
type SaveMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// ACK (server -> client)
type AckMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Ref             string `json:"ref"`
	OK              bool   `json:"ok"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
}

// FRAME (server -> client)
type FrameMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Frame           uint64      `json:"frame"`
	Player          PlayerState `json:"player"`
	Camera          Vec2        `json:"camera"`
	Viewport        Viewport    `json:"viewport"`
	Grid            Region      `json:"grid"`
	Obstacles       []Cell      `json:"obstacles"`
	Bots            []BotState  `json:"bots"`
	Chat            []string    `json:"chat"`
	Speaking        bool        `json:"speaking"`
}

type PlayerState struct {
	Cell     Cell   `json:"cell"`
	Rendered Vec3   `json:"rendered"`
	Facing   string `json:"facing"`
	Emote    string `json:"emote,omitempty"`
	Emotes   Emotes `json:"emotes"`
}

type BotState struct {
	Anchor   Cell   `json:"anchor"`
	Pos      Cell   `json:"pos"`
	Render   Vec2   `json:"render"`
	State    string `json:"state"`
	Response string `json:"response,omitempty"`
}

// BootstrapResponse is served on GET /v1/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string      `json:"protocol_version"`
	Profile         string      `json:"profile"`
	Frame           uint64      `json:"frame"`
	WorldParams     WorldParams `json:"world_params"`
	Words           []string    `json:"words"`
}

type WorldParams struct {
	CellSize       float64  `json:"cell_size"`
	FrameRateHz    int      `json:"frame_rate_hz"`
	FrameEvery     int      `json:"frame_every"`
	MoveIntervalMs int64    `json:"move_interval_ms"`
	VocabularyKeys int      `json:"vocabulary_keys"`
	GreetingWord   string   `json:"greeting_word"`
	Viewport       Viewport `json:"viewport"`
}
