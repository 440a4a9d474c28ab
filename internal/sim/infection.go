package sim

import (
	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/model"
)

// stepInfection advances the exposure accumulator on every living human.
// Contact with any untrapped zombie inside InfectionRange counts the tick;
// a single tick out of contact resets the accumulator to zero. Crossing
// the threshold claims the human for conversion. More zombies in range do
// not accelerate the clock.
func (s *Simulation) stepInfection(p *pending) {
	for _, e := range s.entities {
		if e.Dead || e.Kind == model.KindZombie {
			continue
		}
		if !s.inContact(e) {
			e.ExposureTicks = 0
			continue
		}
		e.ExposureTicks++
		if e.ExposureTicks >= ExposureThresholdTicks && !p.marked(e) {
			p.convert = append(p.convert, e)
		}
	}
}

func (s *Simulation) inContact(e *model.Entity) bool {
	for _, z := range s.entities {
		if z.Dead || z.Kind != model.KindZombie || z.Trapped {
			continue
		}
		if geo.Distance(e.Position, z.Position) < InfectionRange {
			return true
		}
	}
	return false
}
