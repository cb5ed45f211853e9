package main

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"gridworld.ai/internal/persistence/savedb"
	"gridworld.ai/internal/sim/world"
	"gridworld.ai/internal/transport/observer"
)

// profileStore binds the save store to one profile. A nil kv disables saving.
type profileStore struct {
	kv       savedb.KV
	closer   func() error
	profile  string
	defaults []string
	log      *logrus.Entry
}

func openStore(dataDir, profile string, disable bool, defaults []string, logger *logrus.Entry) (*profileStore, error) {
	if len(defaults) == 0 {
		defaults = savedb.DefaultWords
	}
	ps := &profileStore{profile: profile, defaults: defaults, log: logger}
	if disable {
		logger.Info("save store disabled (-disable_db)")
		return ps, nil
	}
	db, err := savedb.OpenSQLite(filepath.Join(dataDir, "save.db"))
	if err != nil {
		return nil, err
	}
	ps.kv = db
	ps.closer = db.Close
	return ps, nil
}

func (p *profileStore) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}

func (p *profileStore) Load(ctx context.Context) (world.PlayerRecord, error) {
	if p.kv == nil {
		return savedb.DecodePlayer(nil, p.defaults)
	}
	rec, found, err := savedb.LoadPlayer(ctx, p.kv, p.profile, p.defaults)
	if err != nil {
		return rec, err
	}
	p.log.WithFields(logrus.Fields{"profile": p.profile, "found": found, "x": rec.Cell.X, "y": rec.Cell.Y}).Info("profile loaded")
	return rec, nil
}

func (p *profileStore) Save(ctx context.Context, rec world.PlayerRecord) error {
	if p.kv == nil {
		return nil
	}
	return savedb.SavePlayer(ctx, p.kv, p.profile, rec)
}

// SaveFrom returns a save callback that snapshots the player from the running world.
func (p *profileStore) SaveFrom(w *world.World) observer.SaveFunc {
	if p.kv == nil {
		return nil
	}
	return func(ctx context.Context, profile string) error {
		rec, err := w.RequestPlayer(ctx)
		if err != nil {
			return err
		}
		return savedb.SavePlayer(ctx, p.kv, profile, rec)
	}
}
