package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gridworld.ai/internal/logging"
	persistlog "gridworld.ai/internal/persistence/log"
	"gridworld.ai/internal/sim/dialogue"
	"gridworld.ai/internal/sim/tuning"
	"gridworld.ai/internal/sim/world"
	"gridworld.ai/internal/transport/observer"
)

func main() {
	var (
		addr       = flag.String("addr", "127.0.0.1:8080", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		profile    = flag.String("profile", "default", "save profile")
		disableDB  = flag.Bool("disable_db", false, "disable the save store (player starts fresh and is not saved)")
	)
	flag.Parse()

	logging.Init()
	logger := logging.For("server")

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Warnf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	dp := tune.DialoguePath
	if dp != "" && !filepath.IsAbs(dp) {
		dp = filepath.Join(*configDir, dp)
	}
	pool, err := dialogue.Load(dp)
	if err != nil {
		logger.WithError(err).Warn("dialogue pool unavailable; bots will say the placeholder")
	}
	logger.WithField("lines", pool.Len()).Info("dialogue loaded")

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		logger.Fatalf("data dir: %v", err)
	}

	store, err := openStore(*dataDir, *profile, *disableDB, tune.DefaultWords, logger)
	if err != nil {
		logger.Fatalf("open save store: %v", err)
	}
	defer store.Close()

	rec, err := store.Load(context.Background())
	if err != nil {
		logger.Fatalf("load profile %q: %v", *profile, err)
	}

	var events world.EventSink
	if tune.EventLog {
		el := persistlog.NewEventLogger(*dataDir)
		defer el.Close()
		events = el
	}
	sessions := persistlog.NewSessionLogger(*dataDir)
	defer sessions.Close()

	w := world.New(world.Options{
		Config: tune.WorldConfig(),
		Pool:   pool,
		Start:  rec.Cell,
		Words:  rec.Words,
		Emotes: rec.Emotes,
		Events: events,
		Log:    logging.For("world"),
	})

	ctx, cancel := signalContext()
	defer cancel()

	worldDone := make(chan struct{})
	go func() {
		defer close(worldDone)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("world stopped")
		}
	}()

	obsSrv := observer.NewServer(w, observer.Options{
		Profile:  *profile,
		Save:     store.SaveFrom(w),
		Sessions: sessions,
		Log:      logging.For("observer"),
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", metricsHandler(w, *profile))
	mux.HandleFunc("/v1/bootstrap", obsSrv.BootstrapHandler())
	mux.HandleFunc("/v1/ws", obsSrv.WSHandler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Infof("listening on %s (profile=%s start=%d,%d)", *addr, *profile, rec.Cell.X, rec.Cell.Y)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}

	cancel()
	<-worldDone
	// The loop has exited, so the world can be read directly.
	if err := store.Save(context.Background(), w.PlayerRecord()); err != nil {
		logger.WithError(err).Error("final save failed")
	} else {
		logger.Info("saved on shutdown")
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
