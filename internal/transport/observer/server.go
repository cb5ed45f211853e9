package observer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	persistlog "gridworld.ai/internal/persistence/log"
	"gridworld.ai/internal/protocol"
	"gridworld.ai/internal/sim/world"
)

// Runtime is the part of the world loop a session talks to.
type Runtime interface {
	Config() world.Config
	CurrentFrame() uint64
	Words() []string
	ObserverJoin() chan<- world.ObserverJoinRequest
	ObserverLeave() chan<- string
	SubmitIntent(ctx context.Context, in world.Intent) error
	SubmitSay(ctx context.Context, i int) error
	SubmitEmote(ctx context.Context, req world.EmoteRequest) error
	SubmitViewport(ctx context.Context, vp world.Viewport) error
	RequestPlayer(ctx context.Context) (world.PlayerRecord, error)
}

// SaveFunc persists the current player under profile.
type SaveFunc func(ctx context.Context, profile string) error

// SessionSink records session lifecycle entries.
type SessionSink interface {
	WriteSession(persistlog.SessionEntry) error
}

type Options struct {
	Profile  string
	Save     SaveFunc
	Sessions SessionSink
	Log      *logrus.Entry
}

type Server struct {
	rt   Runtime
	opts Options
	log  *logrus.Entry

	upgrader websocket.Upgrader
	nextID   atomic.Uint64
}

const (
	handshakeTimeout = 5 * time.Second
	readTimeout      = 60 * time.Second
	writeTimeout     = 5 * time.Second
	submitTimeout    = time.Second
	leaveTimeout     = 2 * time.Second
)

func NewServer(rt Runtime, opts Options) *Server {
	if opts.Profile == "" {
		opts.Profile = "default"
	}
	logger := opts.Log
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Server{
		rt:   rt,
		opts: opts,
		log:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // loopback only
		},
	}
}

func (s *Server) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		cfg := s.rt.Config()
		resp := protocol.BootstrapResponse{
			ProtocolVersion: protocol.Version,
			Profile:         s.opts.Profile,
			Frame:           s.rt.CurrentFrame(),
			WorldParams:     worldParams(cfg),
			Words:           s.rt.Words(),
		}

		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(resp)
	}
}

func worldParams(cfg world.Config) protocol.WorldParams {
	return protocol.WorldParams{
		CellSize:       cfg.CellSize,
		FrameRateHz:    cfg.FrameRateHz,
		FrameEvery:     cfg.FrameEvery,
		MoveIntervalMs: cfg.MoveInterval.Milliseconds(),
		VocabularyKeys: cfg.VocabularyKeys,
		GreetingWord:   cfg.GreetingWord,
		Viewport:       protocol.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height, Scale: cfg.Viewport.Scale},
	}
}

func closeWith(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(time.Second))
}

func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Handshake: must send HELLO first.
		_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.ValidateClient(msg)
		if err != nil {
			closeWith(conn, websocket.ClosePolicyViolation, err.Error())
			return
		}
		if base.Type != protocol.TypeHello {
			closeWith(conn, websocket.ClosePolicyViolation, "expected HELLO")
			return
		}
		var hello protocol.HelloMsg
		if err := json.Unmarshal(msg, &hello); err != nil {
			closeWith(conn, websocket.ClosePolicyViolation, "bad hello")
			return
		}
		if hello.Profile != "" && hello.Profile != s.opts.Profile {
			closeWith(conn, websocket.ClosePolicyViolation, "unknown profile")
			return
		}

		if !s.rt.Config().ViewportFits(viewportFromWire(hello.Viewport)) {
			closeWith(conn, websocket.ClosePolicyViolation, "viewport too large")
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := s.submit(ctx, func(ctx context.Context) error {
			return s.rt.SubmitViewport(ctx, viewportFromWire(hello.Viewport))
		}); err != nil {
			closeWith(conn, websocket.CloseTryAgainLater, "server busy")
			return
		}
		rec, err := s.rt.RequestPlayer(ctx)
		if err != nil {
			closeWith(conn, websocket.CloseTryAgainLater, "server busy")
			return
		}

		sid := fmt.Sprintf("S%d", s.nextID.Add(1))
		cfg := s.rt.Config()
		welcome := protocol.WelcomeMsg{
			Type:            protocol.TypeWelcome,
			ProtocolVersion: protocol.Version,
			SessionID:       sid,
			Profile:         s.opts.Profile,
			Words:           rec.Words,
			CellSize:        cfg.CellSize,
			FrameRateHz:     cfg.FrameRateHz,
			FrameEvery:      cfg.FrameEvery,
			Player:          protocol.Cell{X: rec.Cell.X, Y: rec.Cell.Y},
			Emotes:          protocol.Emotes{S: rec.Emotes.S, D: rec.Emotes.D},
		}
		b, _ := json.Marshal(welcome)
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}

		frames := make(chan []byte, 8)
		select {
		case s.rt.ObserverJoin() <- world.ObserverJoinRequest{SessionID: sid, Out: frames}:
		default:
			closeWith(conn, websocket.CloseTryAgainLater, "server busy")
			return
		}
		lg := s.log.WithFields(logrus.Fields{"session": sid, "client": hello.ClientName})
		defer s.leave(lg, sid)
		lg.Info("session connected")
		s.record(sid, "connect", hello.ClientName)
		defer func() {
			lg.Info("session closed")
			s.record(sid, "disconnect", "")
		}()

		// Writer goroutine.
		acks := make(chan []byte, 16)
		writeErr := make(chan error, 1)
		go func() {
			for {
				var b []byte
				var ok bool
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case b, ok = <-frames:
				case b, ok = <-acks:
				}
				if !ok {
					writeErr <- nil
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					writeErr <- err
					return
				}
			}
		}()

		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			if ack := s.handle(ctx, lg, sid, msg, len(rec.Words)); ack != nil {
				b, _ := json.Marshal(ack)
				select {
				case acks <- b:
				default:
					// Slow reader; acks are best-effort.
				}
			}
		}

		cancel()
		closeWith(conn, websocket.CloseNormalClosure, "bye")

		// Best-effort wait for the writer to stop so it doesn't outlive conn.
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// handle applies one client message and returns the ACK to send, if any.
func (s *Server) handle(ctx context.Context, lg *logrus.Entry, sid string, msg []byte, words int) *protocol.AckMsg {
	base, err := protocol.ValidateClient(msg)
	if err != nil {
		var perr *protocol.Error
		if errors.As(err, &perr) {
			return nack(base.Type, perr.Code, perr.Message)
		}
		return nack(base.Type, protocol.ErrBadRequest, err.Error())
	}

	switch base.Type {
	case protocol.TypeInput:
		var in protocol.InputMsg
		_ = json.Unmarshal(msg, &in)
		if err := s.submit(ctx, func(ctx context.Context) error {
			return s.rt.SubmitIntent(ctx, world.Intent{DX: in.DX, DY: in.DY})
		}); err != nil {
			return s.submitFailed(lg, base.Type, err)
		}
	case protocol.TypeSay:
		var say protocol.SayMsg
		_ = json.Unmarshal(msg, &say)
		if say.WordIndex >= words || say.WordIndex >= s.rt.Config().VocabularyKeys {
			return nack(base.Type, protocol.ErrUnknownWord, fmt.Sprintf("no word at index %d", say.WordIndex))
		}
		if err := s.submit(ctx, func(ctx context.Context) error { return s.rt.SubmitSay(ctx, say.WordIndex) }); err != nil {
			return s.submitFailed(lg, base.Type, err)
		}
	case protocol.TypeEmote:
		var em protocol.EmoteMsg
		_ = json.Unmarshal(msg, &em)
		req := world.EmoteRequest{Slot: em.Slot, Bind: em.Bind}
		if err := req.Validate(); err != nil {
			return nack(base.Type, protocol.ErrBadRequest, err.Error())
		}
		if err := s.submit(ctx, func(ctx context.Context) error { return s.rt.SubmitEmote(ctx, req) }); err != nil {
			return s.submitFailed(lg, base.Type, err)
		}
	case protocol.TypeViewport:
		var vm protocol.ViewportMsg
		_ = json.Unmarshal(msg, &vm)
		vp := viewportFromWire(vm.Viewport)
		if !s.rt.Config().ViewportFits(vp) {
			return nack(base.Type, protocol.ErrBadRequest, "viewport too large")
		}
		if err := s.submit(ctx, func(ctx context.Context) error { return s.rt.SubmitViewport(ctx, vp) }); err != nil {
			return s.submitFailed(lg, base.Type, err)
		}
	case protocol.TypeSave:
		if s.opts.Save == nil {
			return nack(base.Type, protocol.ErrSaveFailed, "saving disabled")
		}
		if err := s.opts.Save(ctx, s.opts.Profile); err != nil {
			lg.WithError(err).Warn("save failed")
			return nack(base.Type, protocol.ErrSaveFailed, err.Error())
		}
		s.record(sid, "save", "")
		return &protocol.AckMsg{Type: protocol.TypeAck, ProtocolVersion: protocol.Version, Ref: base.Type, OK: true}
	case protocol.TypeHello:
		return nack(base.Type, protocol.ErrBadRequest, "already greeted")
	}
	return nil
}

func (s *Server) submit(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()
	return fn(ctx)
}

func (s *Server) submitFailed(lg *logrus.Entry, ref string, err error) *protocol.AckMsg {
	lg.WithError(err).WithField("ref", ref).Warn("submit failed")
	return nack(ref, protocol.ErrInternal, err.Error())
}

// leave tells the world loop the session is gone. A busy loop gets
// leaveTimeout to take it; a stopped loop no longer needs it.
func (s *Server) leave(lg *logrus.Entry, sid string) {
	t := time.NewTimer(leaveTimeout)
	defer t.Stop()
	select {
	case s.rt.ObserverLeave() <- sid:
	case <-t.C:
		lg.Warn("observer leave not delivered")
	}
}

func (s *Server) record(sid, kind, detail string) {
	if s.opts.Sessions == nil {
		return
	}
	if err := s.opts.Sessions.WriteSession(persistlog.SessionEntry{
		SessionID: sid,
		Profile:   s.opts.Profile,
		Kind:      kind,
		Detail:    detail,
	}); err != nil {
		s.log.WithError(err).Warn("session log write failed")
	}
}

func nack(ref, code, message string) *protocol.AckMsg {
	return &protocol.AckMsg{
		Type:            protocol.TypeAck,
		ProtocolVersion: protocol.Version,
		Ref:             ref,
		Code:            code,
		Message:         message,
	}
}

func viewportFromWire(v protocol.Viewport) world.Viewport {
	return world.Viewport{Width: v.Width, Height: v.Height, Scale: v.Scale}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
