// Package narrator turns simulation events into radio chatter. Lines come
// from an optional flavor-text HTTP service; when the service is absent or
// slow, fixed templates fill in so the radio never goes silent.
package narrator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/gridfall/outbreak/internal/dispatcher"
	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/places"
	"github.com/gridfall/outbreak/internal/radio"
	"github.com/gridfall/outbreak/internal/sim"
)

// ChatterKind buckets events into the narrative categories the flavor
// service understands.
type ChatterKind string

const (
	ChatterStart       ChatterKind = "start"
	ChatterRescue      ChatterKind = "rescue"
	ChatterWaveCleared ChatterKind = "wave_cleared"
	ChatterLowHealth   ChatterKind = "low_health"
	ChatterRandom      ChatterKind = "random"
	ChatterDiscovery   ChatterKind = "discovery"
)

// randomChatterChance is the per-batch probability of an idle radio line
// when nothing noteworthy happened.
const randomChatterChance = 0.01

var callsigns = []string{
	"Reaper-1", "Reaper-2", "Hammer-3", "Vulture-6", "Saber-2", "Ghost-4",
}

var fallbackLines = map[ChatterKind][]string{
	ChatterStart: {
		"All stations, containment breach confirmed. Weapons free.",
		"HQ to all units: outbreak in progress, hold the perimeter.",
	},
	ChatterRescue: {
		"%s is back on their feet. Medics, good work.",
		"Subject %s stabilized and responsive. One more for the column.",
	},
	ChatterWaveCleared: {
		"Sector clear. No movement on thermals.",
		"That's the last of them. Stand down to condition two.",
	},
	ChatterLowHealth: {
		"We lost %s. Keep your spacing.",
		"%s is gone. Do not let them close the distance.",
	},
	ChatterRandom: {
		"Radio check. Still quiet on the east approach.",
		"Anyone else hear that? ...Never mind.",
		"Ammo count when you can, people.",
	},
	ChatterDiscovery: {
		"Heavy contact near %s.",
		"Fighting has reached %s, watch your fire around the buildings.",
	},
}

// Narrator consumes drained tick events and appends chatter to a radio log.
// All lookups are best-effort; a dead flavor service or place gateway only
// degrades the prose.
type Narrator struct {
	client *Client
	places *places.Resolver
	log    *radio.Log
	slog   *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a narrator. client and resolver may be nil.
func New(client *Client, resolver *places.Resolver, log *radio.Log, logger *slog.Logger) *Narrator {
	return &Narrator{
		client: client,
		places: resolver,
		log:    log,
		slog:   logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Handler returns a bus handler for the simulation event topic. Chain it
// with the other event consumers.
func (n *Narrator) Handler() dispatcher.HandlerFunc {
	return func(ev dispatcher.Event) (any, error) {
		if events, ok := ev.Payload.([]sim.Event); ok {
			n.HandleEvents(context.Background(), events)
		}
		return nil, nil
	}
}

// HandleEvents narrates one tick's drained events. Meant to run on a
// dispatcher worker, never on the tick goroutine.
func (n *Narrator) HandleEvents(ctx context.Context, events []sim.Event) {
	for _, ev := range events {
		kind, subject, ok := classify(ev)
		if !ok {
			continue
		}
		n.say(ctx, kind, subject, ev.Position)
	}

	if len(events) == 0 && n.roll() < randomChatterChance {
		n.say(ctx, ChatterRandom, "", geo.Coordinates{})
	}
}

// classify maps a simulation event to a chatter kind and its subject name.
func classify(ev sim.Event) (ChatterKind, string, bool) {
	switch ev.Kind {
	case sim.EventOutbreakStart:
		return ChatterStart, "", true
	case sim.EventHealDone:
		return ChatterRescue, ev.Name, true
	case sim.EventVictory:
		return ChatterWaveCleared, "", true
	case sim.EventConversion, sim.EventFriendlyFire:
		return ChatterLowHealth, ev.Name, true
	case sim.EventAirstrike:
		return ChatterDiscovery, "", true
	default:
		return "", "", false
	}
}

func (n *Narrator) say(ctx context.Context, kind ChatterKind, subject string, at geo.Coordinates) {
	if kind == ChatterDiscovery {
		if place := n.placeName(ctx, at); place != "" {
			subject = place
		} else {
			kind = ChatterRandom
			subject = ""
		}
	}

	text := n.generate(ctx, kind, subject)
	if text == "" {
		text = n.fallback(kind, subject)
	}
	n.log.Append(n.sender(kind), "", text)
}

func (n *Narrator) generate(ctx context.Context, kind ChatterKind, subject string) string {
	if n.client == nil {
		return ""
	}
	text, err := n.client.Generate(ctx, kind, subject)
	if err != nil {
		n.slog.Debug("flavor service unavailable, using fallback",
			"kind", string(kind), "error", err)
		return ""
	}
	return text
}

func (n *Narrator) fallback(kind ChatterKind, subject string) string {
	pool := fallbackLines[kind]
	if len(pool) == 0 {
		pool = fallbackLines[ChatterRandom]
	}
	line := pool[n.pick(len(pool))]
	if subject != "" {
		return fmt.Sprintf(line, subject)
	}
	return line
}

func (n *Narrator) placeName(ctx context.Context, at geo.Coordinates) string {
	if n.places == nil {
		return ""
	}
	place := n.places.Resolve(ctx, at)
	if place == nil {
		return ""
	}
	return place.Name
}

func (n *Narrator) sender(kind ChatterKind) string {
	switch kind {
	case ChatterStart, ChatterWaveCleared:
		return "HQ"
	default:
		return callsigns[n.pick(len(callsigns))]
	}
}

func (n *Narrator) pick(size int) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rng.Intn(size)
}

func (n *Narrator) roll() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rng.Float64()
}
