package main

import (
	"context"
	"io"
	"math/rand"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridworld.ai/internal/sim/world"
)

type fixedMetrics world.WorldMetrics

func (f fixedMetrics) Metrics() world.WorldMetrics { return world.WorldMetrics(f) }

func TestMetricsHandler(t *testing.T) {
	h := metricsHandler(fixedMetrics{Frame: 42, Bots: 3, Obstacles: 17, StepMS: 0.25}, "default")
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, `gridworld_frame{profile="default"} 42`)
	assert.Contains(t, out, `gridworld_live_entities{profile="default",kind="bot"} 3`)
	assert.Contains(t, out, `gridworld_live_entities{profile="default",kind="obstacle"} 17`)
	assert.Contains(t, out, `gridworld_step_ms{profile="default"} 0.250`)
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestProfileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	ps, err := openStore(dir, "alice", false, nil, quietLogger())
	require.NoError(t, err)
	rec, err := ps.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, world.Cell{}, rec.Cell)
	assert.Equal(t, []string{"Hello", "Help", "Yes", "No"}, rec.Words)

	rec.Cell = world.Cell{X: 5, Y: -2}
	require.NoError(t, ps.Save(ctx, rec))
	require.NoError(t, ps.Close())

	ps2, err := openStore(dir, "alice", false, nil, quietLogger())
	require.NoError(t, err)
	defer ps2.Close()
	got, err := ps2.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestProfileStore_SaveFromRunningWorld(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := t.TempDir()
	ps, err := openStore(dir, "p", false, nil, quietLogger())
	require.NoError(t, err)
	defer ps.Close()

	w := world.New(world.Options{
		Rand:   rand.New(rand.NewSource(1)),
		Start:  world.Cell{X: 9, Y: 4},
		Words:  []string{"Hi"},
		Emotes: world.Emotes{S: "🔥"},
	})
	go func() { _ = w.Run(ctx) }()

	save := ps.SaveFrom(w)
	require.NotNil(t, save)
	require.NoError(t, save(ctx, "p"))

	got, err := ps.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, world.Cell{X: 9, Y: 4}, got.Cell)
	assert.Equal(t, []string{"Hi"}, got.Words)
	assert.Equal(t, world.Emotes{S: "🔥", D: world.DefaultEmotes.D}, got.Emotes)
}

func TestProfileStore_Disabled(t *testing.T) {
	ps, err := openStore(t.TempDir(), "p", true, []string{"Yo"}, quietLogger())
	require.NoError(t, err)
	assert.Nil(t, ps.SaveFrom(nil))
	rec, err := ps.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Yo"}, rec.Words)
	assert.NoError(t, ps.Save(context.Background(), rec))
	assert.NoError(t, ps.Close())
}
