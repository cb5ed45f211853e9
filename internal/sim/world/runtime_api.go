package world

import (
	"context"
	"errors"
)

var errStopped = errors.New("world stopped")

// PlayerRecord is the persistable part of the player.
type PlayerRecord struct {
	Cell   Cell
	Words  []string
	Emotes Emotes
}

type playerReq struct {
	Resp chan PlayerRecord
}

func (w *World) ObserverJoin() chan<- ObserverJoinRequest { return w.observerJoin }
func (w *World) ObserverLeave() chan<- string             { return w.observerLeave }

// SubmitIntent queues a movement request for the next frame.
func (w *World) SubmitIntent(ctx context.Context, in Intent) error {
	return submit(ctx, w.stop, w.inputs, in)
}

// SubmitSay queues the vocabulary word at index i for the next frame.
func (w *World) SubmitSay(ctx context.Context, i int) error {
	return submit(ctx, w.stop, w.says, i)
}

// SubmitEmote queues an emote for the next frame.
func (w *World) SubmitEmote(ctx context.Context, req EmoteRequest) error {
	return submit(ctx, w.stop, w.runtimeChans.emotes, req)
}

// SubmitViewport replaces the viewport from the next frame on.
func (w *World) SubmitViewport(ctx context.Context, vp Viewport) error {
	return submit(ctx, w.stop, w.viewports, vp)
}

func submit[T any](ctx context.Context, stop <-chan struct{}, ch chan<- T, v T) error {
	select {
	case ch <- v:
		return nil
	case <-stop:
		return errStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestPlayer returns the player's cell, vocabulary and emote bindings from the world loop goroutine.
func (w *World) RequestPlayer(ctx context.Context) (PlayerRecord, error) {
	req := playerReq{Resp: make(chan PlayerRecord, 1)}
	select {
	case w.playerReq <- req:
	case <-w.stop:
		return PlayerRecord{}, errStopped
	case <-ctx.Done():
		return PlayerRecord{}, ctx.Err()
	}
	select {
	case rec := <-req.Resp:
		return rec, nil
	case <-ctx.Done():
		return PlayerRecord{}, ctx.Err()
	}
}

func (w *World) handlePlayerReq(req playerReq) {
	req.Resp <- w.PlayerRecord()
}

// PlayerRecord must be called from the world goroutine, or while it is stopped.
func (w *World) PlayerRecord() PlayerRecord {
	return PlayerRecord{Cell: w.player.Pos(), Words: w.Words(), Emotes: w.emotes}
}
