package sim

import (
	"github.com/peterstace/simplefeatures/geom"

	"github.com/gridfall/outbreak/internal/model"
)

// stepCombat resolves all shooters for the tick in weapon priority order,
// so nets claim their targets before lethal fire reaches them. Each shooter
// rolls a per-tick fire chance, then applies its weapon's rules.
func (s *Simulation) stepCombat(p *pending) {
	for _, wk := range model.FirePriority {
		for _, e := range s.entities {
			if e.Dead || !e.Shooter() || e.EquippedWeapon() != wk {
				continue
			}
			prob := FireProbCivilian
			if e.Kind == model.KindSoldier {
				prob = FireProbSoldier
			}
			if s.rng.Float64() >= prob {
				continue
			}
			s.fire(e, wk, p)
		}
	}
}

func (s *Simulation) fire(e *model.Entity, wk model.WeaponKind, p *pending) {
	w := model.Weapons[wk]
	targetable := func(z *model.Entity) bool { return huntableZombie(z) && !p.marked(z) }
	candidates := within(s.entities, e.Position, w.Range, targetable)
	if len(candidates) == 0 {
		return
	}
	target := candidates[s.rng.Intn(len(candidates))]

	switch wk {
	case model.WeaponNet:
		target.Trapped = true
		target.TrapTicks = TrapDurationTicks
		target.Velocity = geom.XY{}
		target.Thought = s.pickThought(target, 0)
		s.shotEffect(e, target, w)
		s.emit(Event{Kind: EventCapture, Position: target.Position, EntityID: target.ID, Name: e.Name})

	case model.WeaponPistol:
		s.shotEffect(e, target, w)
		s.damage(target, w.Damage, p)
		e.LastShotTick = s.tick

	case model.WeaponShotgun:
		hits := candidates
		if len(hits) > w.MaxTargets {
			hits = hits[:w.MaxTargets]
		}
		for _, z := range hits {
			s.shotEffect(e, z, w)
			s.damage(z, w.Damage, p)
		}
		e.LastShotTick = s.tick

	case model.WeaponSniper:
		// Snipers hold fire inside their dead zone and between shots. The
		// dead zone is gated on the nearest zombie, not the picked one.
		if _, dist := nearest(s.entities, e.Position, w.Range, targetable); dist < w.Range*SniperRefuseFrac {
			return
		}
		if e.LastShotTick != 0 && s.tick-e.LastShotTick < SniperCooldownTicks {
			return
		}
		s.shotEffect(e, target, w)
		s.damage(target, w.Damage, p)
		e.LastShotTick = s.tick

	case model.WeaponRocket:
		s.fireRocket(e, candidates, w, p)
	}
}

// fireRocket aims at the candidate whose blast catches the most zombies and
// no living friendlies. Without a safe aim point the shooter holds fire, and
// a safe lone kill is taken only when nothing else is in range. Friendlies
// can still die to the splash itself when they sit near a blast the aim
// check cleared.
func (s *Simulation) fireRocket(e *model.Entity, candidates []*model.Entity, w model.WeaponStats, p *pending) {
	friendly := func(x *model.Entity) bool { return x != e && x.Kind != model.KindZombie }
	var best *model.Entity
	bestCluster := 0
	for _, c := range candidates {
		if countWithin(s.entities, c.Position, w.SplashRadius, friendly) > 0 {
			continue
		}
		if cluster := countWithin(s.entities, c.Position, w.SplashRadius, isZombie); cluster > bestCluster {
			best, bestCluster = c, cluster
		}
	}
	if best == nil {
		return
	}
	if bestCluster < 2 && len(candidates) > 1 {
		return
	}
	s.addEffect(model.EffectExplosion, best.Position, nil, w.Color, w.SplashRadius)
	for _, hit := range within(s.entities, best.Position, w.SplashRadius, func(x *model.Entity) bool { return x != e }) {
		s.damage(hit, w.Damage, p)
	}
	e.LastShotTick = s.tick
	e.Ammo--
	if e.Ammo <= 0 {
		e.Weapon = model.WeaponPistol
		e.Ammo = 0
	}
}

func (s *Simulation) shotEffect(from, to *model.Entity, w model.WeaponStats) {
	target := to.Position
	s.addEffect(model.EffectShot, from.Position, &target, w.Color, 0)
}

// damage applies a hit and claims the victim for death when it drops to
// zero. A victim already claimed for another transition this tick keeps
// that transition.
func (s *Simulation) damage(e *model.Entity, dmg float64, p *pending) {
	if e.Dead {
		return
	}
	e.Health -= dmg
	if e.Health <= 0 && !p.marked(e) {
		p.die = append(p.die, e)
	}
}
