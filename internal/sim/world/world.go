package world

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"gridworld.ai/internal/sim/dialogue"
)

type Options struct {
	Config Config
	Pool   *dialogue.Pool
	// Rand defaults to a time-seeded source.
	Rand Rand
	// Start is the player's initial logical cell.
	Start Cell
	Words []string
	// Emotes defaults to DefaultEmotes.
	Emotes Emotes
	Events EventSink
	Log    *logrus.Entry
}

// Frame is everything the world consumes for one rendered frame.
type Frame struct {
	Dt     time.Duration
	Intent Intent
	// Say lists words spoken this frame, in order.
	Say []string
	// Emotes are applied in order, after speech.
	Emotes []EmoteRequest
	// Viewport, when set, replaces the current viewport.
	Viewport *Viewport
}

// World runs the grid simulation. All methods except the request helpers in
// runtime_api.go must be called from a single goroutine.
type World struct {
	cfg    Config
	pool   *dialogue.Pool
	rng    Rand
	events EventSink
	log    *logrus.Entry

	player   *GridTicker
	interp   *Interpolator
	camera   Vec2
	viewport Viewport

	obstacles ObstacleStreamer
	bots      *BotStreamer
	chat      *ChatLog
	words     []string
	emote     *Emote
	emotes    Emotes

	frame   uint64
	metrics atomic.Value // WorldMetrics

	runtimeChans
}

func New(opts Options) *World {
	cfg := opts.Config
	cfg.applyDefaults()

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	pool := opts.Pool
	if pool == nil {
		pool = dialogue.New(nil)
	}
	logger := opts.Log
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	start := opts.Start.Pixel(cfg.CellSize)
	w := &World{
		cfg:      cfg,
		pool:     pool,
		rng:      rng,
		events:   opts.Events,
		log:      logger,
		player:   NewGridTicker(opts.Start, cfg.MoveInterval),
		interp:   NewInterpolator(Vec3{X: start.X, Y: start.Y}, cfg.SmoothingRate),
		camera:   start,
		viewport: cfg.Viewport,
		chat:     NewChatLog(cfg.ChatLogTTL, cfg.ChatLogSize),
		words:    append([]string(nil), opts.Words...),
		emote:    NewEmote(cfg.EmoteDuration),
		emotes:   opts.Emotes.orDefault(),

		runtimeChans: newRuntimeChans(),
	}
	w.bots = NewBotStreamer(&w.cfg)
	w.publishMetrics(0)
	return w
}

func (w *World) Config() Config { return w.cfg }

// Step runs one frame: input, speech, grid tick, interpolation, camera, then
// streaming and bot behavior.
func (w *World) Step(f Frame) {
	start := time.Now()
	if f.Viewport != nil {
		if w.cfg.ViewportFits(*f.Viewport) {
			w.viewport = *f.Viewport
		} else {
			w.log.WithField("viewport", *f.Viewport).Warn("viewport rejected, keeping previous")
		}
	}
	if !f.Intent.IsZero() {
		w.player.Request(f.Intent)
	}
	for _, word := range f.Say {
		w.say(word)
	}
	for _, req := range f.Emotes {
		w.showEmote(req)
	}

	for _, m := range w.player.Tick(f.Dt, IsObstacleCell) {
		w.emit(Event{Type: EventMove, Move: &m})
	}
	rendered := w.interp.Step(f.Dt, w.player.Pos().Pixel(w.cfg.CellSize))
	w.camera = rendered.XY()

	view := View{Camera: w.camera, Viewport: w.viewport}
	if view.Valid() {
		w.stream(view)
	}

	w.bots.Step(f.Dt, IsObstacleCell, w.rng)
	w.chat.Step(f.Dt)
	w.emote.Step(f.Dt)
	w.frame++
	w.publishMetrics(time.Since(start))
}

func (w *World) stream(view View) {
	w.obstacles.Regenerate(VisibleRegion(view, w.cfg.CellSize, w.cfg.ObstacleMargin))

	if spawned := w.bots.SpawnVisible(VisibleRegion(view, w.cfg.CellSize, w.cfg.BotMargin), w.pool, w.rng); len(spawned) > 0 {
		w.log.WithField("count", len(spawned)).Debug("bots spawned")
		w.emit(Event{Type: EventSpawn, Cells: spawned})
	}
	if gone := w.bots.DespawnFar(view); len(gone) > 0 {
		w.log.WithField("count", len(gone)).Debug("bots despawned")
		w.emit(Event{Type: EventDespawn, Cells: gone})
	}
}

func (w *World) say(word string) {
	w.chat.Push("> " + word)
	pos := w.player.Pos()
	w.emit(Event{Type: EventSay, Word: word, At: &pos})

	u := Utterance{At: w.interp.Rendered().XY(), Word: word}
	if heard := w.bots.Utter(u, w.pool, w.rng); len(heard) > 0 {
		w.emit(Event{Type: EventResponse, Word: word, Cells: heard})
	}
}

func (w *World) showEmote(req EmoteRequest) {
	if err := req.Validate(); err != nil {
		w.log.WithError(err).Debug("ignoring emote")
		return
	}
	text := EmoteThumbsUp
	switch req.Slot {
	case EmoteSlotS:
		if req.Bind != "" {
			w.emotes.S = req.Bind
		}
		text = w.emotes.S
	case EmoteSlotD:
		if req.Bind != "" {
			w.emotes.D = req.Bind
		}
		text = w.emotes.D
	}
	w.emote.Show(text)
	pos := w.player.Pos()
	w.emit(Event{Type: EventEmote, Word: text, At: &pos})
}

// WordAt returns the i-th speakable vocabulary word.
func (w *World) WordAt(i int) (string, bool) {
	if i < 0 || i >= w.cfg.VocabularyKeys || i >= len(w.words) {
		return "", false
	}
	return w.words[i], true
}

func (w *World) emit(e Event) {
	if w.events == nil {
		return
	}
	e.Frame = w.frame
	if err := w.events.WriteEvent(e); err != nil {
		w.log.WithError(err).Warn("event log write failed")
	}
}

func (w *World) PlayerCell() Cell      { return w.player.Pos() }
func (w *World) Rendered() Vec3        { return w.interp.Rendered() }
func (w *World) Camera() Vec2          { return w.camera }
func (w *World) Viewport() Viewport    { return w.viewport }
func (w *World) Bots() *BotStreamer    { return w.bots }
func (w *World) Obstacles() []Obstacle { return w.obstacles.Live() }
func (w *World) FrameCount() uint64    { return w.frame }
func (w *World) Words() []string       { return append([]string(nil), w.words...) }
func (w *World) Emote() string         { return w.emote.Text() }
func (w *World) Emotes() Emotes        { return w.emotes }
