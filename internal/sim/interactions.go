package sim

import (
	"github.com/peterstace/simplefeatures/geom"

	"github.com/gridfall/outbreak/internal/model"
)

// pending collects the state transitions decided during one tick. They are
// applied together at the end so that every decision inside the tick sees
// the same pre-tick population.
type pending struct {
	convert []*model.Entity
	cure    []*model.Entity
	die     []*model.Entity
}

func (p *pending) marked(e *model.Entity) bool {
	for _, c := range p.convert {
		if c == e {
			return true
		}
	}
	for _, c := range p.cure {
		if c == e {
			return true
		}
	}
	for _, d := range p.die {
		if d == e {
			return true
		}
	}
	return false
}

// resolveInteractions runs the proximity phases in fixed order — infection,
// healing, combat — then applies conversions, cures, and deaths. An entity
// takes at most one transition per tick: the first phase to claim it wins.
func (s *Simulation) resolveInteractions() {
	var p pending
	s.stepInfection(&p)
	s.stepMedics(&p)
	s.stepCombat(&p)
	s.apply(&p)
}

// apply commits the tick's transitions in claim order.
func (s *Simulation) apply(p *pending) {
	for _, e := range p.convert {
		s.convert(e)
	}
	for _, e := range p.cure {
		s.cure(e)
	}
	for _, e := range p.die {
		s.kill(e)
	}
}

// convert turns a human into a zombie. Health resets to the zombie
// baseline regardless of what the victim had left.
func (s *Simulation) convert(e *model.Entity) {
	if e.Dead || e.Kind == model.KindZombie {
		return
	}
	name := e.Name
	e.Kind = model.KindZombie
	e.Infected = true
	e.Health = model.BaselineHealth(model.KindZombie)
	e.Armed = false
	e.Weapon = model.WeaponNone
	e.Ammo = 0
	e.Medic = false
	e.HealTargetID = ""
	e.HealTicks = 0
	e.ExposureTicks = 0
	e.Thought = s.pickThought(e, 0)
	s.emit(Event{Kind: EventConversion, Position: e.Position, EntityID: e.ID, Name: name})
}

// cure turns a captured zombie back into a healthy civilian.
func (s *Simulation) cure(e *model.Entity) {
	if e.Dead || e.Kind != model.KindZombie {
		return
	}
	e.Kind = model.KindCivilian
	e.Infected = false
	e.Trapped = false
	e.TrapTicks = 0
	e.Health = model.BaselineHealth(model.KindCivilian)
	e.ExposureTicks = 0
	e.Thought = s.pickThought(e, 0)
	s.emit(Event{Kind: EventHealDone, Position: e.Position, EntityID: e.ID, Name: e.Name})
}

// kill marks an entity dead. Corpses stay in the collection but are inert:
// they never move, never count, never get targeted.
func (s *Simulation) kill(e *model.Entity) {
	if e.Dead {
		return
	}
	e.Dead = true
	e.Velocity = geom.XY{}
	e.Thought = ""
	e.Trapped = false
	e.HealTargetID = ""
	kind := EventKill
	if e.Kind != model.KindZombie {
		kind = EventFriendlyFire
	}
	s.emit(Event{Kind: kind, Position: e.Position, EntityID: e.ID, Name: e.Name})
}
