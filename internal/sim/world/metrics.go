package world

import "time"

// WorldMetrics is a thread-safe read-only view of key world runtime signals.
// It is updated from the world loop goroutine and read from HTTP handlers/tests.
type WorldMetrics struct {
	Frame uint64 `json:"frame"`

	Player    Cell `json:"player"`
	Bots      int  `json:"bots"`
	Obstacles int  `json:"obstacles"`
	Observers int  `json:"observers"`

	QueueDepths QueueDepths `json:"queue_depths"`

	StepMS float64 `json:"step_ms"`
}

type QueueDepths struct {
	Inputs    int `json:"inputs"`
	Says      int `json:"says"`
	Viewports int `json:"viewports"`
}

func (w *World) Metrics() WorldMetrics {
	if w == nil {
		return WorldMetrics{}
	}
	m, ok := w.metrics.Load().(WorldMetrics)
	if !ok {
		return WorldMetrics{}
	}
	return m
}

// CurrentFrame is safe to call from any goroutine.
func (w *World) CurrentFrame() uint64 { return w.Metrics().Frame }

func (w *World) publishMetrics(step time.Duration) {
	w.metrics.Store(WorldMetrics{
		Frame:     w.frame,
		Player:    w.player.Pos(),
		Bots:      w.bots.Len(),
		Obstacles: w.obstacles.Len(),
		Observers: len(w.observers),
		QueueDepths: QueueDepths{
			Inputs:    len(w.inputs),
			Says:      len(w.says),
			Viewports: len(w.viewports),
		},
		StepMS: float64(step.Microseconds()) / 1000,
	})
}
