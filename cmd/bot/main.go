package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gridworld.ai/internal/client/remote"
	"gridworld.ai/internal/logging"
	"gridworld.ai/internal/protocol"
)

func main() {
	var (
		url     = flag.String("url", "ws://127.0.0.1:8080/v1/ws", "ws url")
		name    = flag.String("name", "bot", "client name")
		profile = flag.String("profile", "", "save profile (empty: server default)")
		greet   = flag.String("greet", "Hello", "word to greet bots with")
		seed    = flag.Int64("seed", 0, "random seed (0: time based)")
	)
	flag.Parse()

	logging.Init()
	logger := logging.For("bot")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dialCtx, dialCancel := context.WithTimeout(ctx, 5*time.Second)
	c, err := remote.Dial(dialCtx, remote.Options{
		URL:        *url,
		ClientName: *name,
		Profile:    *profile,
		Viewport:   protocol.Viewport{Width: 800, Height: 600, Scale: 1},
		Log:        logging.For("remote"),
	})
	dialCancel()
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer c.Close()

	w := c.Welcome()
	logger.Infof("WELCOME session=%s profile=%s frame_rate=%d start=(%d,%d)", w.SessionID, w.Profile, w.FrameRateHz, w.Player.X, w.Player.Y)

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	b := newBrain(rand.New(rand.NewSource(s)), w.Words, *greet)

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.Done():
			logger.WithError(c.Err()).Warn("connection closed")
			return
		case a := <-c.Acks():
			if !a.OK {
				logger.Warnf("nack ref=%s code=%s: %s", a.Ref, a.Code, a.Message)
			}
		case f := <-c.Frames():
			d := b.decide(time.Now(), f)
			if d.move != nil {
				if err := c.Input(d.move.DX, d.move.DY); err != nil {
					logger.WithError(err).Warn("send INPUT")
					return
				}
			}
			if d.say >= 0 {
				logger.Infof("greeting %d bot(s) near (%d,%d)", d.near, f.Player.Cell.X, f.Player.Cell.Y)
				if err := c.Say(d.say); err != nil {
					logger.WithError(err).Warn("send SAY")
					return
				}
			}
		}
	}
}
