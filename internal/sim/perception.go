package sim

import (
	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/model"
)

// Perception queries over the live entity set. Dead entities are invisible
// to every query; additional filters are per-query.

// nearest returns the closest entity within radius satisfying keep, along
// with its distance, or nil when none qualifies.
func nearest(entities []*model.Entity, from geo.Coordinates, radius float64, keep func(*model.Entity) bool) (*model.Entity, float64) {
	var best *model.Entity
	bestDist := radius
	for _, e := range entities {
		if e.Dead || !keep(e) {
			continue
		}
		if d := geo.Distance(from, e.Position); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best, bestDist
}

// countWithin counts living entities within radius satisfying keep.
func countWithin(entities []*model.Entity, from geo.Coordinates, radius float64, keep func(*model.Entity) bool) int {
	n := 0
	for _, e := range entities {
		if e.Dead || !keep(e) {
			continue
		}
		if geo.Distance(from, e.Position) < radius {
			n++
		}
	}
	return n
}

// within collects living entities strictly inside radius satisfying keep.
func within(entities []*model.Entity, from geo.Coordinates, radius float64, keep func(*model.Entity) bool) []*model.Entity {
	var out []*model.Entity
	for _, e := range entities {
		if e.Dead || !keep(e) {
			continue
		}
		if geo.Distance(from, e.Position) < radius {
			out = append(out, e)
		}
	}
	return out
}

func isZombie(e *model.Entity) bool { return e.Kind == model.KindZombie }
func isHuman(e *model.Entity) bool  { return e.Kind != model.KindZombie }

// huntableZombie is a combat or infection source: living and not netted.
func huntableZombie(e *model.Entity) bool { return e.Kind == model.KindZombie && !e.Trapped }

// trappedZombie is a heal candidate.
func trappedZombie(e *model.Entity) bool { return e.Kind == model.KindZombie && e.Trapped }
