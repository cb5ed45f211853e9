package main

import (
	"fmt"
	"net/http"

	"gridworld.ai/internal/sim/world"
)

type metricsSource interface {
	Metrics() world.WorldMetrics
}

func metricsHandler(src metricsSource, profile string) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		m := src.Metrics()

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP gridworld_frame Frames simulated since start.\n")
		fmt.Fprintf(rw, "# TYPE gridworld_frame counter\n")
		fmt.Fprintf(rw, "gridworld_frame{profile=%q} %d\n", profile, m.Frame)

		fmt.Fprintf(rw, "# HELP gridworld_live_entities Live streamed entities.\n")
		fmt.Fprintf(rw, "# TYPE gridworld_live_entities gauge\n")
		fmt.Fprintf(rw, "gridworld_live_entities{profile=%q,kind=%q} %d\n", profile, "bot", m.Bots)
		fmt.Fprintf(rw, "gridworld_live_entities{profile=%q,kind=%q} %d\n", profile, "obstacle", m.Obstacles)

		fmt.Fprintf(rw, "# HELP gridworld_observers Connected observer sessions.\n")
		fmt.Fprintf(rw, "# TYPE gridworld_observers gauge\n")
		fmt.Fprintf(rw, "gridworld_observers{profile=%q} %d\n", profile, m.Observers)

		fmt.Fprintf(rw, "# HELP gridworld_queue_depth Channel backlog depth.\n")
		fmt.Fprintf(rw, "# TYPE gridworld_queue_depth gauge\n")
		fmt.Fprintf(rw, "gridworld_queue_depth{profile=%q,queue=%q} %d\n", profile, "inputs", m.QueueDepths.Inputs)
		fmt.Fprintf(rw, "gridworld_queue_depth{profile=%q,queue=%q} %d\n", profile, "says", m.QueueDepths.Says)
		fmt.Fprintf(rw, "gridworld_queue_depth{profile=%q,queue=%q} %d\n", profile, "viewports", m.QueueDepths.Viewports)

		fmt.Fprintf(rw, "# HELP gridworld_step_ms Last frame step duration in milliseconds.\n")
		fmt.Fprintf(rw, "# TYPE gridworld_step_ms gauge\n")
		fmt.Fprintf(rw, "gridworld_step_ms{profile=%q} %.3f\n", profile, m.StepMS)
	}
}
