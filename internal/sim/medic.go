package sim

import (
	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/model"
)

// stepMedics runs the treatment state machine. A medic claims the nearest
// trapped zombie, and once inside HealRange accumulates treatment ticks.
// Breaking range pauses the clock without resetting it; the patient dying
// or shaking the net loose aborts the treatment entirely.
func (s *Simulation) stepMedics(p *pending) {
	for _, m := range s.entities {
		if m.Dead || !m.Medic || m.Kind != model.KindSoldier {
			continue
		}
		patient := s.healTarget(m)
		if patient == nil {
			patient, _ = nearest(s.entities, m.Position, VisionHuman*SoldierVisionX, trappedZombie)
			if patient == nil {
				continue
			}
			m.HealTargetID = patient.ID
			m.HealTicks = 0
		}
		if geo.Distance(m.Position, patient.Position) >= HealRange {
			continue
		}
		if m.HealTicks == 0 {
			s.emit(Event{Kind: EventHealStart, Position: patient.Position, EntityID: patient.ID, Name: m.Name})
		}
		m.HealTicks++
		if m.HealTicks%HealBeamEveryTicks == 0 {
			target := patient.Position
			s.addEffect(model.EffectHealBeam, m.Position, &target, "#34D399", 0)
		}
		if m.HealTicks >= HealDurationTicks && !p.marked(patient) {
			p.cure = append(p.cure, patient)
			m.HealTargetID = ""
			m.HealTicks = 0
		}
	}
}
