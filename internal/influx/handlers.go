package influx

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/gridfall/outbreak/internal/dispatcher"
	"github.com/gridfall/outbreak/internal/sim"
)

// tickSampleEvery thins frame points so a 20Hz tick loop does not write
// twenty near-identical rows per second.
const tickSampleEvery = 20

// FrameHandler returns a bus handler that records sampled tick statistics.
// Compose it under sim.TopicFrame with the other frame consumers.
func FrameHandler(m *Manager) dispatcher.HandlerFunc {
	return func(ev dispatcher.Event) (any, error) {
		frame, ok := ev.Payload.(sim.Frame)
		if !ok {
			return nil, nil
		}
		if frame.State.Tick%tickSampleEvery != 0 {
			return nil, nil
		}
		return nil, m.WritePoint(context.Background(), BucketTicks, TickPoint(frame))
	}
}

// EventsHandler returns a bus handler that records one point per event.
func EventsHandler(m *Manager) dispatcher.HandlerFunc {
	return func(ev dispatcher.Event) (any, error) {
		events, ok := ev.Payload.([]sim.Event)
		if !ok {
			return nil, nil
		}
		for _, se := range events {
			if err := m.WritePoint(context.Background(), BucketEvents, EventPoint(se)); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
}

// TickPoint converts one frame's aggregate state into a measurement.
func TickPoint(frame sim.Frame) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		"tick_stats",
		map[string]string{
			"outcome": frame.State.Outcome.String(),
		},
		map[string]any{
			"tick":      frame.State.Tick,
			"healthy":   frame.State.Healthy,
			"infected":  frame.State.Infected,
			"soldiers":  frame.State.Soldiers,
			"resources": frame.State.Resources,
			"entities":  len(frame.Entities),
			"effects":   len(frame.Effects),
		},
		time.Now(),
	)
}

// EventPoint converts one simulation event into a measurement.
func EventPoint(ev sim.Event) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		"sim_event",
		map[string]string{
			"kind": string(ev.Kind),
		},
		map[string]any{
			"tick":  ev.Tick,
			"name":  ev.Name,
			"count": ev.Count,
			"lat":   ev.Position.Lat,
			"lng":   ev.Position.Lng,
		},
		ev.At,
	)
}

// RunPoint summarizes a finished run.
func RunPoint(seed int64, outcome string, ticks int64, healthy, infected int, started, finished time.Time) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		"run_summary",
		map[string]string{
			"outcome": outcome,
		},
		map[string]any{
			"seed":     seed,
			"ticks":    ticks,
			"healthy":  healthy,
			"infected": infected,
			"duration": finished.Sub(started).Seconds(),
		},
		finished,
	)
}
