package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/gridfall/outbreak/internal/database"
	"github.com/gridfall/outbreak/internal/dispatcher"
	"github.com/gridfall/outbreak/internal/influx"
	"github.com/gridfall/outbreak/internal/model"
	"github.com/gridfall/outbreak/internal/sim"
)

// maxRecordedEvents caps the event trail persisted with a run.
const maxRecordedEvents = 500

// runRecorder persists a summary row when a run reaches its outcome. It
// watches frames for the outcome transition and keeps the event trail for
// the record. A tick counter going backwards means the player reset.
type runRecorder struct {
	db   *database.Manager
	infl *influx.Manager
	log  *slog.Logger

	seed      int64
	centerLat float64
	centerLng float64

	mu        sync.Mutex
	startedAt time.Time
	lastTick  int64
	events    []sim.Event
	saved     bool
}

func newRunRecorder(db *database.Manager, infl *influx.Manager, log *slog.Logger, seed int64, centerLat, centerLng float64) *runRecorder {
	return &runRecorder{
		db:        db,
		infl:      infl,
		log:       log,
		seed:      seed,
		centerLat: centerLat,
		centerLng: centerLng,
		startedAt: time.Now(),
	}
}

// EventsHandler accumulates the run's event trail.
func (r *runRecorder) EventsHandler() dispatcher.HandlerFunc {
	return func(ev dispatcher.Event) (any, error) {
		events, ok := ev.Payload.([]sim.Event)
		if !ok {
			return nil, nil
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, events...)
		if len(r.events) > maxRecordedEvents {
			r.events = r.events[len(r.events)-maxRecordedEvents:]
		}
		return nil, nil
	}
}

// FrameHandler watches for the terminal outcome and persists the run once.
func (r *runRecorder) FrameHandler() dispatcher.HandlerFunc {
	return func(ev dispatcher.Event) (any, error) {
		frame, ok := ev.Payload.(sim.Frame)
		if !ok {
			return nil, nil
		}

		r.mu.Lock()
		defer r.mu.Unlock()

		if frame.State.Tick < r.lastTick {
			// New run after a reset.
			r.startedAt = time.Now()
			r.events = nil
			r.saved = false
		}
		r.lastTick = frame.State.Tick

		if frame.State.Outcome == model.OutcomeNone || r.saved {
			return nil, nil
		}
		r.saved = true
		r.persist(frame)
		return nil, nil
	}
}

func (r *runRecorder) persist(frame sim.Frame) {
	finished := time.Now()

	trail, err := json.Marshal(r.events)
	if err != nil {
		trail = []byte("[]")
	}

	record := &model.RunRecord{
		Seed:       r.seed,
		CenterLat:  r.centerLat,
		CenterLng:  r.centerLng,
		Outcome:    frame.State.Outcome.String(),
		Ticks:      frame.State.Tick,
		Healthy:    frame.State.Healthy,
		Infected:   frame.State.Infected,
		Soldiers:   frame.State.Soldiers,
		Resources:  frame.State.Resources,
		StartedAt:  r.startedAt,
		FinishedAt: finished,
		Events:     datatypes.JSON(trail),
	}

	if err := r.db.SaveRun(record); err != nil {
		r.log.Error("failed to persist run record", "error", err)
	} else {
		r.log.Info("run recorded",
			"outcome", record.Outcome,
			"ticks", record.Ticks,
			"healthy", record.Healthy)
	}

	if r.infl != nil {
		point := influx.RunPoint(r.seed, record.Outcome, record.Ticks,
			record.Healthy, record.Infected, r.startedAt, finished)
		if err := r.infl.WritePoint(context.Background(), influx.BucketRuns, point); err != nil {
			r.log.Error("failed to write run point", "error", err)
		}
	}
}
