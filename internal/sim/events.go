package sim

import (
	"time"

	"github.com/gridfall/outbreak/internal/geo"
)

// EventKind names a simulation event for dispatcher routing.
type EventKind string

const (
	EventOutbreakStart EventKind = "outbreak_start"
	EventConversion    EventKind = "conversion"
	EventKill          EventKind = "kill"
	EventFriendlyFire  EventKind = "friendly_fire"
	EventCapture       EventKind = "capture"
	EventHealStart     EventKind = "heal_start"
	EventHealDone      EventKind = "heal_done"
	EventSupplyDrop    EventKind = "supply_drop"
	EventReinforce     EventKind = "reinforce"
	EventMedicTeam     EventKind = "medic_team"
	EventAirstrike     EventKind = "airstrike"
	EventDenied        EventKind = "denied"
	EventVictory       EventKind = "victory"
	EventDefeat        EventKind = "defeat"
)

// Event is one notable occurrence inside a tick. Events are drained by the
// runner after each tick and fanned out to async consumers; nothing in the
// core ever reads them back.
type Event struct {
	Kind     EventKind
	Tick     int64
	At       time.Time
	Position geo.Coordinates
	EntityID string
	Name     string
	Text     string
	Count    int
}

func (s *Simulation) emit(e Event) {
	e.Tick = s.tick
	e.At = s.now()
	s.events = append(s.events, e)
}

// DrainEvents returns the events accumulated since the last drain.
func (s *Simulation) DrainEvents() []Event {
	ev := s.events
	s.events = nil
	return ev
}
