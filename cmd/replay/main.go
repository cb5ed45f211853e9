package main

import (
	"flag"
	"fmt"
	"os"

	persistlog "gridworld.ai/internal/persistence/log"
)

func main() {
	var (
		dataDir   = flag.String("data", "./data", "runtime data directory containing events/")
		fromFrame = flag.Uint64("from_frame", 0, "skip entries before this frame (optional)")
		toFrame   = flag.Uint64("to_frame", 0, "stop after this frame (inclusive, optional)")
	)
	flag.Parse()

	files, err := persistlog.EventFiles(*dataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list events:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no events files found under", *dataDir)
		os.Exit(1)
	}

	v := NewVerifier()
	for _, path := range files {
		err := persistlog.ReadEvents(path, func(e persistlog.EventEntry) error {
			if e.Frame < *fromFrame {
				return nil
			}
			if *toFrame != 0 && e.Frame > *toFrame {
				return nil
			}
			return v.Check(e.Event)
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
	}

	s := v.Stats()
	fmt.Printf("replay ok: files=%d runs=%d moves=%d says=%d emotes=%d responses=%d spawns=%d despawns=%d max_live_bots=%d\n",
		len(files), s.Runs, s.Moves, s.Says, s.Emotes, s.Responses, s.Spawns, s.Despawns, s.MaxLive)
	if s.Last != nil {
		fmt.Printf("last player cell: (%d, %d)\n", s.Last.X, s.Last.Y)
	}
}
