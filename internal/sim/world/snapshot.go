package world

type PlayerView struct {
	Cell     Cell   `json:"cell"`
	Rendered Vec3   `json:"rendered"`
	Facing   string `json:"facing"`
	Emote    string `json:"emote,omitempty"`
	Emotes   Emotes `json:"emotes"`
}

type BotView struct {
	Anchor   Cell   `json:"anchor"`
	Pos      Cell   `json:"pos"`
	Render   Vec2   `json:"render"`
	State    string `json:"state"`
	Response string `json:"response,omitempty"`
}

// Snapshot is the render-facing state after a frame.
type Snapshot struct {
	Frame    uint64     `json:"frame"`
	Player   PlayerView `json:"player"`
	Camera   Vec2       `json:"camera"`
	Viewport Viewport   `json:"viewport"`
	// Grid is the visible region without margin, for drawing grid lines.
	Grid      Region    `json:"grid"`
	Obstacles []Cell    `json:"obstacles"`
	Bots      []BotView `json:"bots"`
	Chat      []string  `json:"chat"`
	Speaking  bool      `json:"speaking"`
}

func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Frame: w.frame,
		Player: PlayerView{
			Cell:     w.player.Pos(),
			Rendered: w.interp.Rendered(),
			Facing:   w.player.Facing(),
			Emote:    w.emote.Text(),
			Emotes:   w.emotes,
		},
		Camera:    w.camera,
		Viewport:  w.viewport,
		Grid:      VisibleRegion(View{Camera: w.camera, Viewport: w.viewport}, w.cfg.CellSize, 0),
		Obstacles: make([]Cell, 0, w.obstacles.Len()),
		Bots:      make([]BotView, 0, w.bots.Len()),
		Chat:      w.chat.Visible(),
		Speaking:  w.chat.Active(),
	}
	for _, o := range w.obstacles.Live() {
		s.Obstacles = append(s.Obstacles, o.Cell)
	}
	for _, b := range w.bots.Bots() {
		s.Bots = append(s.Bots, BotView{
			Anchor:   b.Anchor,
			Pos:      b.Pos,
			Render:   b.RenderPos(w.cfg.CellSize),
			State:    b.State().String(),
			Response: b.Response,
		})
	}
	return s
}
