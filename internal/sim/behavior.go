package sim

import (
	"github.com/peterstace/simplefeatures/geom"

	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/model"
)

// stepMovement advances every living entity one tick. Dead entities never
// move; netted zombies sit out their trap timer in place.
func (s *Simulation) stepMovement() {
	for _, e := range s.entities {
		if e.Dead {
			continue
		}
		if e.Trapped {
			e.Velocity = geom.XY{}
			if e.TrapTicks > 0 {
				e.TrapTicks--
				if e.TrapTicks == 0 {
					e.Trapped = false
					e.Thought = s.pickThought(e, 1)
				}
			}
			continue
		}
		switch {
		case e.Kind == model.KindZombie:
			s.moveZombie(e)
		case e.Kind == model.KindSoldier && e.Medic:
			s.moveMedic(e)
		case e.Kind == model.KindSoldier:
			s.moveSoldier(e)
		default:
			s.moveCivilian(e)
		}
		s.refreshThought(e)
	}
}

// moveZombie sprints straight at the nearest living human in vision,
// otherwise shambles on its wander heading at reduced speed.
func (s *Simulation) moveZombie(e *model.Entity) {
	prey, _ := nearest(s.entities, e.Position, VisionZombie, isHuman)
	steer := separation(e, s.entities)
	if prey != nil {
		steer = steer.Add(seek(e.Position, prey.Position, ForceSeek))
		integrate(e, steer, MaxSpeedZombie*MultSprint)
		return
	}
	steer = steer.Add(wander(e, s.rng, ForceWander))
	integrate(e, steer, MaxSpeedZombie*MultWander)
}

// moveSoldier holds an engagement envelope around the nearest zombie:
// advance when beyond optimal range, back off when the zombie closes past
// the flee fraction, hold and aim in between. Snipers keep a much wider
// bubble and panic-sprint when anything gets inside half their reach.
func (s *Simulation) moveSoldier(e *model.Entity) {
	w := model.Weapons[e.EquippedWeapon()]
	threat, dist := nearest(s.entities, e.Position, VisionHuman*SoldierVisionX, huntableZombie)
	steer := separation(e, s.entities)
	if threat == nil {
		steer = steer.Add(wander(e, s.rng, ForceWander))
		integrate(e, steer, MaxSpeedSoldier*MultWander)
		return
	}
	optimal := w.Range * OptimalRangeFrac
	fleeAt := w.Range * FleeRangeFrac
	speed := MaxSpeedSoldier
	switch {
	case e.EquippedWeapon() == model.WeaponSniper && dist < w.Range*SniperPanicFrac:
		steer = steer.Add(flee(e.Position, threat.Position, ForceFlee*SniperFleeWeightX))
		speed = MaxSpeedSoldier * MultSprint
	case dist < fleeAt:
		steer = steer.Add(flee(e.Position, threat.Position, ForceFlee))
	case dist > optimal:
		steer = steer.Add(seek(e.Position, threat.Position, ForceSeek))
	default:
		// In the envelope: hold roughly still, nudged only by separation.
		steer = steer.Scale(HoldSteerScale)
		dampen(e, HoldSteerScale)
	}
	integrate(e, steer, speed)
}

// moveMedic walks to its assigned patient, or toward the nearest trapped
// zombie when unassigned. While in treatment range it stands still.
func (s *Simulation) moveMedic(e *model.Entity) {
	steer := separation(e, s.entities)
	patient := s.healTarget(e)
	if patient == nil {
		patient, _ = nearest(s.entities, e.Position, VisionHuman*SoldierVisionX, trappedZombie)
	}
	if patient == nil {
		steer = steer.Add(wander(e, s.rng, ForceWander))
		integrate(e, steer, MaxSpeedSoldier*MultWander)
		return
	}
	if geo.Distance(e.Position, patient.Position) < HealRange {
		dampen(e, 0)
		return
	}
	steer = steer.Add(seek(e.Position, patient.Position, ForceSeek))
	integrate(e, steer, MaxSpeedSoldier)
}

// moveCivilian panics away from the nearest zombie in vision. Armed
// civilians hold their nerve twice as long and, while still calm, only edge
// away with a light flee bias so they stay inside pistol range.
func (s *Simulation) moveCivilian(e *model.Entity) {
	threat, dist := nearest(s.entities, e.Position, VisionHuman, huntableZombie)
	steer := separation(e, s.entities)
	if threat != nil {
		panicAt := VisionHuman
		if e.Armed {
			panicAt /= 2
		}
		if dist < panicAt {
			steer = steer.Add(flee(e.Position, threat.Position, ForceFlee))
			integrate(e, steer, MaxSpeedCivilian*MultSprint)
			return
		}
		if e.Armed {
			steer = steer.Add(flee(e.Position, threat.Position, ForceFlee*ArmedFleeBias))
			integrate(e, steer, MaxSpeedCivilian)
			return
		}
	}
	steer = steer.Add(wander(e, s.rng, ForceWander))
	steer = steer.Add(driftPull(e.Position, s.cfg.Center))
	integrate(e, steer, MaxSpeedCivilian*MultWander)
}

// healTarget resolves a medic's assigned patient, clearing stale
// assignments to dead or already-cured zombies.
func (s *Simulation) healTarget(medic *model.Entity) *model.Entity {
	if medic.HealTargetID == "" {
		return nil
	}
	t, ok := s.byID[medic.HealTargetID]
	if !ok || t.Dead || t.Kind != model.KindZombie || !t.Trapped {
		medic.HealTargetID = ""
		medic.HealTicks = 0
		return nil
	}
	return t
}

// refreshThought occasionally re-rolls an entity's thought bubble so the
// crowd reads as alive without churning text every frame.
func (s *Simulation) refreshThought(e *model.Entity) {
	if s.rng.Float64() >= ThoughtChance {
		return
	}
	threats := countWithin(s.entities, e.Position, VisionHuman, huntableZombie)
	e.Thought = s.pickThought(e, threats)
}
