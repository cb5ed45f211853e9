package world

import (
	"context"
	"time"
)

// maxFrameDt caps the simulated time of one frame after a stall.
const maxFrameDt = 250 * time.Millisecond

type runtimeChans struct {
	stop          chan struct{}
	inputs        chan Intent
	says          chan int
	emotes        chan EmoteRequest
	viewports     chan Viewport
	observerJoin  chan ObserverJoinRequest
	observerLeave chan string
	playerReq     chan playerReq

	observers map[string]*observerClient
}

func newRuntimeChans() runtimeChans {
	return runtimeChans{
		stop:          make(chan struct{}),
		inputs:        make(chan Intent, 64),
		says:          make(chan int, 64),
		emotes:        make(chan EmoteRequest, 16),
		viewports:     make(chan Viewport, 8),
		observerJoin:  make(chan ObserverJoinRequest, 16),
		observerLeave: make(chan string, 16),
		playerReq:     make(chan playerReq, 8),
		observers:     map[string]*observerClient{},
	}
}

// Run drives the world at FrameRateHz until ctx is done or Stop is called.
// Inputs arriving between frames are folded into the next Frame.
func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.FrameRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	var pending Frame
	var viewport Viewport
	var hasViewport bool

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case in := <-w.inputs:
			in = in.Normalize()
			if !in.IsZero() {
				pending.Intent = in
			}
		case idx := <-w.says:
			word, ok := w.WordAt(idx)
			if !ok {
				w.log.WithField("index", idx).Debug("ignoring unknown word")
				continue
			}
			pending.Say = append(pending.Say, word)
		case req := <-w.runtimeChans.emotes:
			pending.Emotes = append(pending.Emotes, req)
		case vp := <-w.viewports:
			viewport, hasViewport = vp, true
		case req := <-w.observerJoin:
			w.handleObserverJoin(req)
		case id := <-w.observerLeave:
			w.handleObserverLeave(id)
		case req := <-w.playerReq:
			w.handlePlayerReq(req)
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if dt > maxFrameDt {
				dt = maxFrameDt
			}
			pending.Dt = dt
			if hasViewport {
				vp := viewport
				pending.Viewport = &vp
			}
			w.Step(pending)
			if w.frame%uint64(w.cfg.FrameEvery) == 0 {
				w.broadcastFrame()
			}
			pending = Frame{Say: pending.Say[:0], Emotes: pending.Emotes[:0]}
			hasViewport = false
		}
	}
}

func (w *World) Stop() { close(w.stop) }

func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
