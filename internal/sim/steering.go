package sim

import (
	"math"
	"math/rand"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/model"
)

// Steering forces. Each force returns an acceleration vector in degree
// space; the caller sums them, clamps to the entity's acceleration budget
// and integrates into velocity.

// separation pushes away from living neighbours closer than
// SeparationRadius. Contributions are weighted by inverse distance, so a
// near-overlapping neighbour dominates. Exactly coincident entities
// contribute nothing.
func separation(self *model.Entity, entities []*model.Entity) geom.XY {
	var sum geom.XY
	for _, other := range entities {
		if other == self || other.Dead {
			continue
		}
		d := geo.Distance(self.Position, other.Position)
		if d <= 0 || d >= SeparationRadius {
			continue
		}
		away := geo.Normalize(geom.XY{
			X: self.Position.Lat - other.Position.Lat,
			Y: self.Position.Lng - other.Position.Lng,
		})
		sum = sum.Add(away.Scale(1 / d))
	}
	if sum == (geom.XY{}) {
		return sum
	}
	return geo.Normalize(sum).Scale(ForceSeparation)
}

// seek accelerates toward a target point.
func seek(from, to geo.Coordinates, weight float64) geom.XY {
	return geo.Toward(from, to).Scale(weight)
}

// flee accelerates directly away from a threat.
func flee(from, threat geo.Coordinates, weight float64) geom.XY {
	return geo.Toward(threat, from).Scale(weight)
}

// wander perturbs the entity's persistent heading by a random jitter and
// steers along it, giving smooth aimless motion instead of white noise.
func wander(e *model.Entity, rng *rand.Rand, weight float64) geom.XY {
	e.WanderHeading += (rng.Float64() - 0.5) * WanderJitter
	return geo.Heading(e.WanderHeading).Scale(weight)
}

// driftPull steers a wandering civilian back toward the outbreak centre once
// it has strayed past DriftLimit times the spawn radius. Strength grows with
// the overshoot so escapees turn around rather than oscillate at the fence.
func driftPull(pos, center geo.Coordinates) geom.XY {
	d := geo.Distance(pos, center)
	limit := SpawnRadius * DriftLimit
	if d <= limit {
		return geom.XY{}
	}
	over := (d - limit) / limit
	return seek(pos, center, ForceSeek*DriftPullScale*(1+over))
}

// integrate applies the accumulated steering to the entity: acceleration is
// clamped, added to velocity, velocity clamped to maxSpeed, position
// advanced one tick.
func integrate(e *model.Entity, steer geom.XY, maxSpeed float64) {
	accel := geo.Clamp(steer.Scale(maxSpeed), maxSpeed)
	e.Velocity = geo.Clamp(e.Velocity.Add(accel), maxSpeed)
	e.Position.Lat += e.Velocity.X
	e.Position.Lng += e.Velocity.Y
}

// dampen bleeds velocity for entities that should settle, e.g. a medic
// standing over a patient.
func dampen(e *model.Entity, factor float64) {
	e.Velocity = e.Velocity.Scale(factor)
	if math.Hypot(e.Velocity.X, e.Velocity.Y) < 1e-12 {
		e.Velocity = geom.XY{}
	}
}
