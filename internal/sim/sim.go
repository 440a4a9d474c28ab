// Package sim implements the simulation core: steering and movement,
// proximity interactions (infection, combat, capture, healing), the tick
// scheduler, and player interventions. A Simulation owns the live entity
// collection exclusively; all mutation happens inside Step or through
// commands applied between steps.
package sim

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/model"
)

// RunState is the lifecycle of one simulation run.
type RunState uint8

const (
	StateInitializing RunState = iota
	StateRunning
	StatePaused
	StateEnded // terminal, no resume
)

// Config holds the parameters of one run.
type Config struct {
	Seed             int64
	Center           geo.Coordinates
	Population       int
	SeedZombies      int
	InitialResources int
}

// DefaultConfig returns the standard scenario.
func DefaultConfig(center geo.Coordinates) Config {
	return Config{
		Center:           center,
		Population:       DefaultPopulation,
		SeedZombies:      DefaultSeedZombies,
		InitialResources: InitialResources,
	}
}

// Simulation is the complete state of one run. Not safe for concurrent use;
// the Runner serializes all access.
type Simulation struct {
	cfg Config
	rng *rand.Rand
	now func() time.Time

	tick     int64
	runState RunState
	outcome  model.Outcome

	entities []*model.Entity
	byID     map[string]*model.Entity

	resources int
	cooldowns map[model.ToolKind]time.Time

	healthy  int
	infected int
	soldiers int

	inspectedID string

	effects []model.VisualEffect
	events  []Event
}

// New creates a simulation in the initializing state. Call Reset to place
// the population and start the run.
func New(cfg Config) *Simulation {
	if cfg.Population <= 0 {
		cfg.Population = DefaultPopulation
	}
	if cfg.InitialResources == 0 {
		cfg.InitialResources = InitialResources
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulation{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(seed)),
		now:       time.Now,
		runState:  StateInitializing,
		byID:      map[string]*model.Entity{},
		cooldowns: map[model.ToolKind]time.Time{},
	}
}

// SetClock replaces the wall clock, for tests and deterministic replays.
func (s *Simulation) SetClock(now func() time.Time) {
	s.now = now
}

// Reset discards all run state and reinitializes the population from the
// config. No partial state survives a reset.
func (s *Simulation) Reset() {
	s.tick = 0
	s.outcome = model.OutcomeNone
	s.resources = s.cfg.InitialResources
	s.cooldowns = map[model.ToolKind]time.Time{}
	s.inspectedID = ""
	s.effects = nil
	s.events = nil
	s.spawnPopulation()
	s.recount()
	s.runState = StateRunning
	s.emit(Event{Kind: EventOutbreakStart, Position: s.cfg.Center, Count: s.infected})
}

// State returns the current run state.
func (s *Simulation) State() RunState { return s.runState }

// Tick returns the last processed tick number.
func (s *Simulation) Tick() int64 { return s.tick }

// Entities exposes the live collection for read-only iteration by tests and
// the intervention path. Callers must not retain the slice across ticks.
func (s *Simulation) Entities() []*model.Entity { return s.entities }

// Lookup returns the entity with the given id, if any. Ids stay valid for
// the lifetime of the run; dead entities remain resolvable.
func (s *Simulation) Lookup(id string) (*model.Entity, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// TagPlaces merges resolved place names onto an entity. Stale ids and
// corpses are skipped silently; the resolution raced a reset or a death.
// The home place is written once, the current place follows the entity.
func (s *Simulation) TagPlaces(id, home, current string) {
	e, ok := s.byID[id]
	if !ok || e.Dead {
		return
	}
	if home != "" && e.HomePlace == "" {
		e.HomePlace = home
	}
	if current != "" {
		e.CurrentPlace = current
	}
}

// TogglePause flips between running and paused. Paused halts movement,
// interactions, and resource accrual; snapshots keep flowing. Ended runs
// ignore the toggle.
func (s *Simulation) TogglePause() {
	switch s.runState {
	case StateRunning:
		s.runState = StatePaused
	case StatePaused:
		s.runState = StateRunning
	}
}

// Step advances the simulation by one tick: movement, then interaction
// resolution, then bookkeeping. A no-op unless running.
func (s *Simulation) Step() {
	if s.runState != StateRunning {
		return
	}
	s.tick++

	s.stepMovement()
	s.resolveInteractions()
	s.recount()
	s.checkOutcome()
}

// recount recomputes the aggregate population counts. Corpses never count.
func (s *Simulation) recount() {
	healthy, infected, soldiers := 0, 0, 0
	for _, e := range s.entities {
		if e.Dead {
			continue
		}
		switch e.Kind {
		case model.KindCivilian:
			healthy++
		case model.KindZombie:
			infected++
		case model.KindSoldier:
			soldiers++
		}
	}
	s.healthy, s.infected, s.soldiers = healthy, infected, soldiers
}

// checkOutcome fires the terminal outcome at most once.
func (s *Simulation) checkOutcome() {
	if s.outcome != model.OutcomeNone {
		return
	}
	switch {
	case s.infected == 0 && s.healthy > 0:
		s.outcome = model.OutcomeVictory
		s.runState = StateEnded
		s.emit(Event{Kind: EventVictory, Position: s.cfg.Center})
	case s.healthy == 0 && s.soldiers == 0:
		s.outcome = model.OutcomeDefeat
		s.runState = StateEnded
		s.emit(Event{Kind: EventDefeat, Position: s.cfg.Center})
	}
}

// Snapshot builds the per-tick GameState copy for the presentation layer.
func (s *Simulation) Snapshot() model.GameState {
	cds := make(map[model.ToolKind]time.Time, len(s.cooldowns))
	for k, v := range s.cooldowns {
		cds[k] = v
	}
	var inspected *model.Entity
	if s.inspectedID != "" {
		if e, ok := s.byID[s.inspectedID]; ok {
			inspected = e.Clone()
		}
	}
	return model.GameState{
		Tick:      s.tick,
		Healthy:   s.healthy,
		Infected:  s.infected,
		Soldiers:  s.soldiers,
		Resources: s.resources,
		Cooldowns: cds,
		Outcome:   s.outcome,
		Paused:    s.runState == StatePaused,
		Inspected: inspected,
	}
}

// DrainEffects returns the visual effects accumulated since the last drain.
func (s *Simulation) DrainEffects() []model.VisualEffect {
	fx := s.effects
	s.effects = nil
	return fx
}

func (s *Simulation) addEffect(kind model.EffectKind, origin geo.Coordinates, target *geo.Coordinates, color string, radius float64) {
	s.effects = append(s.effects, model.VisualEffect{
		ID:        uuid.NewString(),
		Kind:      kind,
		Origin:    origin,
		Target:    target,
		Color:     color,
		Radius:    radius,
		CreatedAt: s.now(),
	})
}
