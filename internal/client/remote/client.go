// Package remote is the client half of the /v1/ws session protocol.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"gridworld.ai/internal/protocol"
)

var ErrClosed = errors.New("remote: connection closed")

const writeTimeout = 5 * time.Second

type Options struct {
	URL        string
	ClientName string
	Profile    string
	Viewport   protocol.Viewport
	Log        *logrus.Entry
}

// Client owns one websocket session. Writes are serialized; a reader goroutine
// fans FRAME and ACK messages out to channels that keep only the newest frame.
type Client struct {
	conn    *websocket.Conn
	welcome protocol.WelcomeMsg
	log     *logrus.Entry

	writeMu sync.Mutex

	frames chan protocol.FrameMsg
	acks   chan protocol.AckMsg
	done   chan struct{}
	err    error
}

// Dial connects, sends HELLO and waits for WELCOME.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	logger := opts.Log
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", opts.URL, err)
	}

	c := &Client{
		conn:   conn,
		log:    logger,
		frames: make(chan protocol.FrameMsg, 1),
		acks:   make(chan protocol.AckMsg, 8),
		done:   make(chan struct{}),
	}
	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      opts.ClientName,
		Profile:         opts.Profile,
		Viewport:        opts.Viewport,
	}
	if err := c.write(hello); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send HELLO: %w", err)
	}

	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(dl)
	}
	_, msg, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read WELCOME: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})
	if err := json.Unmarshal(msg, &c.welcome); err != nil || c.welcome.Type != protocol.TypeWelcome {
		_ = conn.Close()
		return nil, fmt.Errorf("expected WELCOME, got %q", string(msg))
	}

	go c.readLoop()
	return c, nil
}

func (c *Client) Welcome() protocol.WelcomeMsg { return c.welcome }

// Frames delivers the newest FRAME; older unread frames are dropped.
func (c *Client) Frames() <-chan protocol.FrameMsg { return c.frames }
func (c *Client) Acks() <-chan protocol.AckMsg     { return c.acks }

// Done is closed when the read loop exits; Err reports why.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.err = err
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeFrame:
			var f protocol.FrameMsg
			if err := json.Unmarshal(msg, &f); err != nil {
				c.log.WithError(err).Debug("bad FRAME")
				continue
			}
			sendLatest(c.frames, f)
		case protocol.TypeAck:
			var a protocol.AckMsg
			if err := json.Unmarshal(msg, &a); err != nil {
				continue
			}
			select {
			case c.acks <- a:
			default:
				c.log.WithField("ref", a.Ref).Debug("ack dropped")
			}
		}
	}
}

func sendLatest[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}

func (c *Client) write(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(v); err != nil {
		if errors.Is(err, websocket.ErrCloseSent) {
			return ErrClosed
		}
		return err
	}
	return nil
}

func (c *Client) Input(dx, dy int) error {
	return c.write(protocol.InputMsg{Type: protocol.TypeInput, ProtocolVersion: protocol.Version, DX: dx, DY: dy})
}

func (c *Client) Say(wordIndex int) error {
	return c.write(protocol.SayMsg{Type: protocol.TypeSay, ProtocolVersion: protocol.Version, WordIndex: wordIndex})
}

// Emote shows the emote in slot ("a", "s" or "d"). A non-empty bind rebinds
// slot s or d first.
func (c *Client) Emote(slot, bind string) error {
	return c.write(protocol.EmoteMsg{Type: protocol.TypeEmote, ProtocolVersion: protocol.Version, Slot: slot, Bind: bind})
}

func (c *Client) SetViewport(vp protocol.Viewport) error {
	return c.write(protocol.ViewportMsg{Type: protocol.TypeViewport, ProtocolVersion: protocol.Version, Viewport: vp})
}

func (c *Client) Save() error {
	return c.write(protocol.SaveMsg{Type: protocol.TypeSave, ProtocolVersion: protocol.Version})
}

// Close sends a normal close frame and tears the connection down.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return c.conn.Close()
}
