package remote

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridworld.ai/internal/protocol"
	"gridworld.ai/internal/sim/dialogue"
	"gridworld.ai/internal/sim/world"
	"gridworld.ai/internal/transport/observer"
)

func startServer(t *testing.T, save observer.SaveFunc) string {
	t.Helper()
	w := world.New(world.Options{
		Pool:  dialogue.New([]string{"hi"}),
		Rand:  rand.New(rand.NewSource(1)),
		Words: []string{"Hello", "Help", "Yes", "No"},
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Run(ctx) }()

	s := observer.NewServer(w, observer.Options{Profile: "default", Save: save})
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", s.WSHandler())
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws"
}

func quiet() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func dialTest(t *testing.T, url string) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	c, err := Dial(ctx, Options{
		URL:        url,
		ClientName: "test",
		Viewport:   protocol.Viewport{Width: 800, Height: 600, Scale: 1},
		Log:        quiet(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// waitFrame returns the first frame satisfying ok.
func waitFrame(t *testing.T, c *Client, ok func(protocol.FrameMsg) bool) protocol.FrameMsg {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case f := <-c.Frames():
			if ok(f) {
				return f
			}
		case <-c.Done():
			t.Fatalf("connection closed: %v", c.Err())
		case <-deadline:
			t.Fatalf("timed out waiting for frame")
		}
	}
}

func TestDial_Welcome(t *testing.T) {
	c := dialTest(t, startServer(t, nil))
	w := c.Welcome()
	assert.Equal(t, "default", w.Profile)
	assert.Equal(t, []string{"Hello", "Help", "Yes", "No"}, w.Words)
	assert.NotEmpty(t, w.SessionID)

	f := waitFrame(t, c, func(protocol.FrameMsg) bool { return true })
	assert.Equal(t, protocol.Cell{}, f.Player.Cell)
}

func TestClient_InputAndSay(t *testing.T) {
	c := dialTest(t, startServer(t, nil))

	require.NoError(t, c.Say(0))
	f := waitFrame(t, c, func(f protocol.FrameMsg) bool { return len(f.Chat) > 0 })
	assert.Equal(t, []string{"> Hello"}, f.Chat)
	assert.True(t, f.Speaking)

	require.NoError(t, c.Input(1, 0))
	f = waitFrame(t, c, func(f protocol.FrameMsg) bool { return f.Player.Cell.X == 1 })
	assert.Equal(t, protocol.Cell{X: 1, Y: 0}, f.Player.Cell)
	assert.Equal(t, ">", f.Player.Facing)
}

func TestClient_EmoteAndRebind(t *testing.T) {
	c := dialTest(t, startServer(t, nil))
	assert.Equal(t, protocol.Emotes{S: "😁", D: "😭"}, c.Welcome().Emotes)

	require.NoError(t, c.Emote("s", ""))
	f := waitFrame(t, c, func(f protocol.FrameMsg) bool { return f.Player.Emote != "" })
	assert.Equal(t, "😁", f.Player.Emote)

	require.NoError(t, c.Emote("s", "🤖"))
	f = waitFrame(t, c, func(f protocol.FrameMsg) bool { return f.Player.Emote == "🤖" })
	assert.Equal(t, "🤖", f.Player.Emotes.S)
}

func TestClient_SaveAck(t *testing.T) {
	saved := make(chan string, 1)
	c := dialTest(t, startServer(t, func(_ context.Context, profile string) error {
		saved <- profile
		return nil
	}))

	require.NoError(t, c.Save())
	select {
	case a := <-c.Acks():
		assert.True(t, a.OK)
		assert.Equal(t, protocol.TypeSave, a.Ref)
	case <-time.After(3 * time.Second):
		t.Fatal("no ack")
	}
	assert.Equal(t, "default", <-saved)
}

func TestClient_UnknownWordNack(t *testing.T) {
	c := dialTest(t, startServer(t, nil))
	require.NoError(t, c.Say(7))
	select {
	case a := <-c.Acks():
		assert.False(t, a.OK)
		assert.Equal(t, protocol.ErrUnknownWord, a.Code)
	case <-time.After(3 * time.Second):
		t.Fatal("no ack")
	}
}

func TestDial_Refused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := Dial(ctx, Options{URL: "ws" + strings.TrimPrefix(srv.URL, "http")})
	require.Error(t, err)
}

func TestSendLatest(t *testing.T) {
	ch := make(chan int, 1)
	sendLatest(ch, 1)
	sendLatest(ch, 2)
	assert.Equal(t, 2, <-ch)
}
