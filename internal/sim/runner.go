package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/gridfall/outbreak/internal/dispatcher"
	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/model"
	"github.com/gridfall/outbreak/internal/queue"
)

// Bus topics published by the runner each tick.
const (
	TopicFrame  = "sim.frame"  // Frame, every tick
	TopicEvents = "sim.events" // []Event, only on non-empty ticks
)

// CommandKind discriminates player commands.
type CommandKind uint8

const (
	CmdUseTool CommandKind = iota + 1
	CmdInspect
	CmdTogglePause
	CmdReset
)

// Command is one player input. Commands are queued from any goroutine and
// applied between ticks, so the simulation never sees concurrent mutation.
type Command struct {
	Kind CommandKind
	Tool model.ToolKind
	At   geo.Coordinates
}

// PlaceTag is one resolved place name merge for an entity, produced by the
// geocoding gateway and applied between ticks.
type PlaceTag struct {
	EntityID string
	Home     string
	Current  string
}

// Frame is the per-tick publication: aggregate state, a value copy of every
// entity, and whatever effects the tick produced. Consumers own the slices.
type Frame struct {
	State    model.GameState
	Entities []model.Entity
	Effects  []model.VisualEffect
	Events   []Event
}

// Runner drives a Simulation on a fixed wall-clock ticker and is the only
// goroutine that touches it after Start.
type Runner struct {
	sim  *Simulation
	bus  *dispatcher.Dispatcher
	cmds *queue.Queue[Command]
	tags *queue.Queue[PlaceTag]
	log  *slog.Logger

	tickDuration metric.Float64Histogram
}

// NewRunner wires a simulation to the event bus.
func NewRunner(s *Simulation, bus *dispatcher.Dispatcher, log *slog.Logger) (*Runner, error) {
	hist, err := meter().Float64Histogram(
		"outbreak.sim.tick.duration",
		metric.WithDescription("Wall time of one simulation tick"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick histogram: %w", err)
	}
	return &Runner{
		sim:          s,
		bus:          bus,
		cmds:         queue.New[Command](),
		tags:         queue.New[PlaceTag](),
		log:          log,
		tickDuration: hist,
	}, nil
}

// Enqueue queues a player command for the next tick. Safe from any
// goroutine.
func (r *Runner) Enqueue(c Command) {
	r.cmds.Push(c)
}

// MergePlaceTag queues a resolved place for merge before the next tick.
// Safe from any goroutine.
func (r *Runner) MergePlaceTag(t PlaceTag) {
	r.tags.Push(t)
}

// Run resets the simulation and ticks it at the fixed interval until the
// context is cancelled. Ticks that overrun the interval are absorbed by the
// ticker; the simulation never tries to catch up with multiple steps.
func (r *Runner) Run(ctx context.Context) error {
	r.sim.Reset()
	r.publish()

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	r.log.Info("simulation started",
		"population", r.sim.cfg.Population,
		"seed_zombies", r.sim.cfg.SeedZombies,
		"center_lat", r.sim.cfg.Center.Lat,
		"center_lng", r.sim.cfg.Center.Lng)

	for {
		select {
		case <-ctx.Done():
			r.log.Info("simulation stopped", "tick", r.sim.Tick())
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			r.applyCommands()
			r.applyMerges()
			r.sim.Step()
			r.publish()
			r.tickDuration.Record(ctx, float64(time.Since(start).Microseconds())/1000)
		}
	}
}

// applyCommands drains and applies the queued player commands in arrival
// order. Reset and pause work in any state; tool use is gated inside the
// simulation.
func (r *Runner) applyCommands() {
	for _, c := range r.cmds.Drain() {
		switch c.Kind {
		case CmdUseTool:
			if !r.sim.UseTool(c.Tool, c.At) {
				r.log.Debug("tool denied", "tool", c.Tool.String())
			}
		case CmdInspect:
			r.sim.Inspect(c.At)
		case CmdTogglePause:
			r.sim.TogglePause()
		case CmdReset:
			r.sim.Reset()
		}
	}
}

// applyMerges folds queued gateway results into entity cosmetic fields.
func (r *Runner) applyMerges() {
	for _, t := range r.tags.Drain() {
		r.sim.TagPlaces(t.EntityID, t.Home, t.Current)
	}
}

// publish snapshots the tick and fans it out. Events additionally go to
// their own topic so async consumers can subscribe without parsing frames.
func (r *Runner) publish() {
	events := r.sim.DrainEvents()

	entities := r.sim.Entities()
	snap := make([]model.Entity, 0, len(entities))
	for _, e := range entities {
		snap = append(snap, *e.Clone())
	}

	frame := Frame{
		State:    r.sim.Snapshot(),
		Entities: snap,
		Effects:  r.sim.DrainEffects(),
		Events:   events,
	}
	r.bus.Publish(TopicFrame, frame)
	if len(events) > 0 {
		r.bus.Publish(TopicEvents, events)
	}
}
