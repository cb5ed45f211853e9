package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"gridworld.ai/internal/client/audio"
	"gridworld.ai/internal/client/remote"
	"gridworld.ai/internal/client/tui"
	"gridworld.ai/internal/logging"
	"gridworld.ai/internal/protocol"
)

func main() {
	var (
		url     = flag.String("url", "ws://127.0.0.1:8080/v1/ws", "ws url")
		profile = flag.String("profile", "", "save profile (empty: server default)")
		sound   = flag.Bool("sound", false, "play a voice blip when speaking")
		logPath = flag.String("log", "walker.log", "log file (the terminal is taken by the UI)")
	)
	flag.Parse()

	logging.Init()
	if f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		logging.Log.SetOutput(f)
		defer f.Close()
	}
	logger := logging.For("walker")

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "screen init: %v\n", err)
		os.Exit(1)
	}

	var voice *audio.Voice
	if *sound {
		if voice, err = audio.NewVoice(); err != nil {
			// Non-fatal, the walker runs without sound.
			logger.WithError(err).Warn("audio init failed")
		}
	}

	err = run(screen, voice, *url, *profile, logger)
	voice.Close()
	screen.Fini()
	if err != nil {
		fmt.Fprintf(os.Stderr, "walker: %v\n", err)
		os.Exit(1)
	}
}

// defaultCellSize sizes the HELLO viewport before WELCOME reports the real one.
const defaultCellSize = 32

func run(screen tcell.Screen, voice *audio.Voice, url, profile string, logger *logrus.Entry) error {
	cols, rows := screen.Size()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	client, err := remote.Dial(ctx, remote.Options{
		URL:        url,
		ClientName: "walker",
		Profile:    profile,
		Viewport:   tui.ViewportFor(cols, rows, defaultCellSize),
		Log:        logging.For("remote"),
	})
	cancel()
	if err != nil {
		return err
	}
	defer client.Close()

	welcome := client.Welcome()
	logger.WithFields(logrus.Fields{"session": welcome.SessionID, "profile": welcome.Profile}).Info("connected")
	cellSize := welcome.CellSize
	if cellSize != defaultCellSize {
		if err := client.SetViewport(tui.ViewportFor(cols, rows, cellSize)); err != nil {
			return err
		}
	}

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	var last protocol.FrameMsg
	emotes := welcome.Emotes
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				quit, err := apply(client, voice, tui.KeyAction(ev), emotes)
				if err != nil {
					return err
				}
				if quit {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
				cols, rows = screen.Size()
				if err := client.SetViewport(tui.ViewportFor(cols, rows, cellSize)); err != nil {
					return err
				}
				tui.Draw(screen, last, welcome.Words, cellSize)
			}

		case f := <-client.Frames():
			last = f
			emotes = f.Player.Emotes
			tui.Draw(screen, f, welcome.Words, cellSize)

		case a := <-client.Acks():
			entry := logger.WithFields(logrus.Fields{"ref": a.Ref, "ok": a.OK})
			if a.OK {
				entry.Info("ack")
			} else {
				entry.WithField("code", a.Code).Warn(a.Message)
			}

		case <-client.Done():
			return fmt.Errorf("connection lost: %w", client.Err())
		}
	}
}

func apply(c *remote.Client, voice *audio.Voice, act tui.Action, emotes protocol.Emotes) (quit bool, err error) {
	switch act.Kind {
	case tui.ActMove:
		return false, c.Input(act.DX, act.DY)
	case tui.ActSay:
		voice.Say(act.Word)
		return false, c.Say(act.Word)
	case tui.ActEmote:
		slot, bind := tui.EmoteRequest(act, emotes)
		return false, c.Emote(slot, bind)
	case tui.ActSave:
		return false, c.Save()
	case tui.ActQuit:
		return true, nil
	}
	return false, nil
}
