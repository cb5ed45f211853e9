package world

import (
	"encoding/json"

	"gridworld.ai/internal/protocol"
)

// ObserverJoinRequest registers a session that receives FRAME messages.
//
// All observer state is maintained by the world loop goroutine, which closes
// Out when the session leaves.
type ObserverJoinRequest struct {
	SessionID string
	Out       chan []byte
}

type observerClient struct {
	id  string
	out chan []byte
}

func (w *World) handleObserverJoin(req ObserverJoinRequest) {
	if req.SessionID == "" || req.Out == nil {
		return
	}
	if old := w.observers[req.SessionID]; old != nil {
		close(old.out)
	}
	c := &observerClient{id: req.SessionID, out: req.Out}
	w.observers[req.SessionID] = c
	if b, err := w.frameBytes(); err == nil {
		sendLatest(c.out, b)
	}
}

func (w *World) handleObserverLeave(sessionID string) {
	c := w.observers[sessionID]
	if c == nil {
		return
	}
	delete(w.observers, sessionID)
	close(c.out)
}

func (w *World) broadcastFrame() {
	if len(w.observers) == 0 {
		return
	}
	b, err := w.frameBytes()
	if err != nil {
		w.log.WithError(err).Error("encode frame")
		return
	}
	for _, c := range w.observers {
		sendLatest(c.out, b)
	}
}

func (w *World) frameBytes() ([]byte, error) {
	return json.Marshal(FrameMsg(w.Snapshot()))
}

// FrameMsg converts a snapshot to its wire form.
func FrameMsg(s Snapshot) protocol.FrameMsg {
	msg := protocol.FrameMsg{
		Type:            protocol.TypeFrame,
		ProtocolVersion: protocol.Version,
		Frame:           s.Frame,
		Player: protocol.PlayerState{
			Cell:     wireCell(s.Player.Cell),
			Rendered: protocol.Vec3{X: s.Player.Rendered.X, Y: s.Player.Rendered.Y, Z: s.Player.Rendered.Z},
			Facing:   s.Player.Facing,
			Emote:    s.Player.Emote,
			Emotes:   protocol.Emotes{S: s.Player.Emotes.S, D: s.Player.Emotes.D},
		},
		Camera:    protocol.Vec2{X: s.Camera.X, Y: s.Camera.Y},
		Viewport:  protocol.Viewport{Width: s.Viewport.Width, Height: s.Viewport.Height, Scale: s.Viewport.Scale},
		Grid:      protocol.Region{MinX: s.Grid.MinX, MaxX: s.Grid.MaxX, MinY: s.Grid.MinY, MaxY: s.Grid.MaxY},
		Obstacles: make([]protocol.Cell, 0, len(s.Obstacles)),
		Bots:      make([]protocol.BotState, 0, len(s.Bots)),
		Chat:      s.Chat,
		Speaking:  s.Speaking,
	}
	if msg.Chat == nil {
		msg.Chat = []string{}
	}
	for _, c := range s.Obstacles {
		msg.Obstacles = append(msg.Obstacles, wireCell(c))
	}
	for _, b := range s.Bots {
		msg.Bots = append(msg.Bots, protocol.BotState{
			Anchor:   wireCell(b.Anchor),
			Pos:      wireCell(b.Pos),
			Render:   protocol.Vec2{X: b.Render.X, Y: b.Render.Y},
			State:    b.State,
			Response: b.Response,
		})
	}
	return msg
}

func wireCell(c Cell) protocol.Cell { return protocol.Cell{X: c.X, Y: c.Y} }
