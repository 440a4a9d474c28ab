package places

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gridfall/outbreak/internal/cache"
	"github.com/gridfall/outbreak/internal/dispatcher"
	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/model"
	"github.com/gridfall/outbreak/internal/sim"
)

// minMoveMeters is how far an entity must travel before its current place
// is re-resolved. Keeps the geocoder budget on fresh ground, not idlers.
const minMoveMeters = 50.0

const resolveTimeout = 15 * time.Second

// Enricher tags entities with place names resolved from their coordinates.
// It watches frames, resolves at most one entity at a time through the rate
// limited geocoder, and hands the result back as a queued merge so the tag
// lands between ticks.
type Enricher struct {
	resolver *Resolver
	merge    func(sim.PlaceTag)
	log      *slog.Logger
	lookups  cache.SafeCounter

	mu       sync.Mutex
	busy     bool
	resolved map[string]geo.Coordinates
}

// NewEnricher builds an enricher that reports tags through merge, typically
// a runner's MergePlaceTag.
func NewEnricher(r *Resolver, merge func(sim.PlaceTag), log *slog.Logger) *Enricher {
	return &Enricher{
		resolver: r,
		merge:    merge,
		log:      log,
		resolved: make(map[string]geo.Coordinates),
	}
}

// FrameHandler returns a bus handler feeding the enricher. Register it (or
// chain it) under sim.TopicFrame.
func (en *Enricher) FrameHandler() dispatcher.HandlerFunc {
	return func(ev dispatcher.Event) (any, error) {
		if frame, ok := ev.Payload.(sim.Frame); ok {
			en.observe(frame.Entities)
		}
		return nil, nil
	}
}

// Lookups returns how many geocoder resolutions have completed.
func (en *Enricher) Lookups() int { return en.lookups.Value() }

// observe picks at most one entity in need of a place tag and resolves it
// asynchronously. While a resolution is in flight further frames pass
// through untouched.
func (en *Enricher) observe(entities []model.Entity) {
	en.mu.Lock()
	if en.busy {
		en.mu.Unlock()
		return
	}
	var pick *model.Entity
	for i := range entities {
		e := &entities[i]
		if e.Dead {
			continue
		}
		last, seen := en.resolved[e.ID]
		if !seen || geo.DistanceMeters(last, e.Position) >= minMoveMeters {
			pick = e
			break
		}
	}
	if pick == nil {
		en.mu.Unlock()
		return
	}
	en.busy = true
	en.resolved[pick.ID] = pick.Position
	en.mu.Unlock()

	go en.enrich(*pick)
}

func (en *Enricher) enrich(e model.Entity) {
	defer func() {
		en.mu.Lock()
		en.busy = false
		en.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	p := en.resolver.Resolve(ctx, e.Position)
	en.lookups.Inc()
	if p == nil {
		return
	}

	tag := sim.PlaceTag{EntityID: e.ID, Current: p.Name}
	if e.HomePlace == "" {
		tag.Home = p.Name
	}
	en.merge(tag)
	en.log.Debug("place tagged",
		"entity", e.ID, "place", p.Name, "lookups", en.lookups.Value())
}
