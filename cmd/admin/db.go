package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gridworld.ai/internal/persistence/savedb"
	"gridworld.ai/internal/sim/world"
	"gridworld.ai/internal/sim/world/terrain/gen"
)

func openDB(fs *flag.FlagSet, args []string) *savedb.Store {
	dataDir := fs.String("data", "./data", "runtime data directory")
	dbPath := fs.String("db", "", "sqlite db path (optional; defaults to <data>/save.db)")
	_ = fs.Parse(args)

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		path = filepath.Join(*dataDir, "save.db")
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	st, err := savedb.OpenSQLite(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	return st
}

func listCmd(args []string) {
	st := openDB(flag.NewFlagSet("profiles", flag.ExitOnError), args)
	defer st.Close()

	names, err := st.Profiles(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "query:", err)
		os.Exit(1)
	}
	for _, n := range names {
		fmt.Println(n)
	}
}

func showCmd(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	profile := fs.String("profile", "default", "save profile")
	st := openDB(fs, args)
	defer st.Close()

	rec, err := showProfile(context.Background(), st, *profile)
	if errors.Is(err, savedb.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "profile %q not found\n", *profile)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "load:", err)
		os.Exit(1)
	}
	b, _ := json.Marshal(rec)
	fmt.Println(string(b))
}

func resetCmd(args []string) {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	profile := fs.String("profile", "", "save profile (required)")
	st := openDB(fs, args)
	defer st.Close()

	if strings.TrimSpace(*profile) == "" {
		fmt.Fprintln(os.Stderr, "missing -profile")
		os.Exit(2)
	}
	if err := st.Delete(context.Background(), *profile); err != nil {
		fmt.Fprintln(os.Stderr, "delete:", err)
		os.Exit(1)
	}
	fmt.Printf("reset ok: profile=%s\n", *profile)
}

func placeCmd(args []string) {
	fs := flag.NewFlagSet("place", flag.ExitOnError)
	profile := fs.String("profile", "default", "save profile")
	x := fs.Int64("x", 0, "grid x")
	y := fs.Int64("y", 0, "grid y")
	st := openDB(fs, args)
	defer st.Close()

	if err := placePlayer(context.Background(), st, *profile, world.Cell{X: *x, Y: *y}); err != nil {
		fmt.Fprintln(os.Stderr, "place:", err)
		os.Exit(1)
	}
	fmt.Printf("place ok: profile=%s cell=(%d,%d)\n", *profile, *x, *y)
}

type profileView struct {
	Profile string       `json:"profile"`
	Cell    world.Cell   `json:"cell"`
	Content string       `json:"content"`
	Words   []string     `json:"words"`
	Emotes  world.Emotes `json:"emotes"`
}

func showProfile(ctx context.Context, kv savedb.KV, profile string) (profileView, error) {
	rec, found, err := savedb.LoadPlayer(ctx, kv, profile, savedb.DefaultWords)
	if err != nil {
		return profileView{}, err
	}
	if !found {
		return profileView{}, savedb.ErrNotFound
	}
	return profileView{
		Profile: profile,
		Cell:    rec.Cell,
		Content: gen.Classify(rec.Cell.X, rec.Cell.Y).String(),
		Words:   rec.Words,
		Emotes:  rec.Emotes,
	}, nil
}

// placePlayer moves a saved player to c, keeping its vocabulary and emotes. The target must
// be an open cell inside the field.
func placePlayer(ctx context.Context, kv savedb.KV, profile string, c world.Cell) error {
	if !gen.InField(c.X, c.Y) {
		return fmt.Errorf("cell (%d,%d) is outside the field", c.X, c.Y)
	}
	if gen.IsObstacle(c.X, c.Y) {
		return fmt.Errorf("cell (%d,%d) is an obstacle", c.X, c.Y)
	}
	rec, _, err := savedb.LoadPlayer(ctx, kv, profile, savedb.DefaultWords)
	if err != nil {
		return err
	}
	rec.Cell = c
	return savedb.SavePlayer(ctx, kv, profile, rec)
}
