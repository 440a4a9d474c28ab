package sim

import (
	"time"

	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/model"
)

// toolCosts and toolCooldowns gate the player interventions.
var toolCosts = map[model.ToolKind]int{
	model.ToolSupplyDrop: CostSupplyDrop,
	model.ToolReinforce:  CostReinforce,
	model.ToolMedicTeam:  CostMedicTeam,
	model.ToolAirstrike:  CostAirstrike,
}

var toolCooldowns = map[model.ToolKind]time.Duration{
	model.ToolSupplyDrop: CooldownSupplyDrop,
	model.ToolReinforce:  CooldownReinforce,
	model.ToolMedicTeam:  CooldownMedicTeam,
	model.ToolAirstrike:  CooldownAirstrike,
}

// reinforceLoadout is the table dropped-in fire teams draw from. Nets are in
// the mix so every team can feed the capture pipeline.
var reinforceLoadout = []model.WeaponKind{
	model.WeaponSniper, model.WeaponRocket, model.WeaponNet,
}

// UseTool applies a player intervention at a map point. It reports whether
// the intervention fired; a denial (wrong state, insufficient resources, or
// cooldown not elapsed) changes nothing and emits a denied event.
func (s *Simulation) UseTool(tool model.ToolKind, at geo.Coordinates) bool {
	if s.runState != StateRunning {
		return false
	}
	cost, ok := toolCosts[tool]
	if !ok {
		return false
	}
	if s.resources < cost {
		s.emit(Event{Kind: EventDenied, Position: at, Text: "insufficient resources", Name: tool.String()})
		return false
	}
	if until, held := s.cooldowns[tool]; held && s.now().Before(until) {
		s.emit(Event{Kind: EventDenied, Position: at, Text: "on cooldown", Name: tool.String()})
		return false
	}

	switch tool {
	case model.ToolSupplyDrop:
		s.supplyDrop(at)
	case model.ToolReinforce:
		s.reinforce(at)
	case model.ToolMedicTeam:
		s.medicTeam(at)
	case model.ToolAirstrike:
		s.airstrike(at)
	}

	s.resources -= cost
	s.cooldowns[tool] = s.now().Add(toolCooldowns[tool])
	return true
}

// supplyWeapon rolls one crate slot. Sidearms are common, heavy weapons rare.
func (s *Simulation) supplyWeapon() model.WeaponKind {
	r := s.rng.Float64()
	switch {
	case r < 0.4:
		return model.WeaponPistol
	case r < 0.7:
		return model.WeaponShotgun
	case r < 0.9:
		return model.WeaponSniper
	default:
		return model.WeaponRocket
	}
}

// supplyDrop arms a lucky handful of the unarmed civilians around the drop
// point, rolling a weapon per crate slot.
func (s *Simulation) supplyDrop(at geo.Coordinates) {
	var lucky []*model.Entity
	for _, e := range s.entities {
		if e.Dead || e.Kind != model.KindCivilian || e.Armed {
			continue
		}
		if geo.Distance(at, e.Position) >= SupplyRadius {
			continue
		}
		lucky = append(lucky, e)
	}
	s.rng.Shuffle(len(lucky), func(i, j int) {
		lucky[i], lucky[j] = lucky[j], lucky[i]
	})
	if len(lucky) > SupplyArmCap {
		lucky = lucky[:SupplyArmCap]
	}
	for _, e := range lucky {
		w := s.supplyWeapon()
		e.Armed = true
		e.Weapon = w
		e.Ammo = model.Weapons[w].InitialAmmo
		e.Thought = s.pickThought(e, 0)
	}
	s.emit(Event{Kind: EventSupplyDrop, Position: at, Count: len(lucky)})
}

// reinforce drops a fire team around the point, each member drawing a random
// weapon from the loadout table.
func (s *Simulation) reinforce(at geo.Coordinates) {
	for i := 0; i < ReinforceCount; i++ {
		s.spawnSoldier(at, reinforceLoadout[s.rng.Intn(len(reinforceLoadout))], false)
	}
	s.emit(Event{Kind: EventReinforce, Position: at, Count: ReinforceCount})
}

// medicTeam drops unarmed medics who seek out netted zombies.
func (s *Simulation) medicTeam(at geo.Coordinates) {
	for i := 0; i < MedicTeamCount; i++ {
		s.spawnSoldier(at, model.WeaponNone, true)
	}
	s.emit(Event{Kind: EventMedicTeam, Position: at, Count: MedicTeamCount})
}

// airstrike kills everything strictly inside the blast radius, friend and
// foe alike. An entity exactly on the boundary survives.
func (s *Simulation) airstrike(at geo.Coordinates) {
	killed := 0
	for _, e := range s.entities {
		if e.Dead {
			continue
		}
		if geo.Distance(at, e.Position) < AirstrikeRadius {
			s.kill(e)
			killed++
		}
	}
	s.addEffect(model.EffectExplosion, at, nil, "#EF4444", AirstrikeRadius)
	s.emit(Event{Kind: EventAirstrike, Position: at, Count: killed})
	s.recount()
	s.checkOutcome()
}

// Inspect selects the living or dead entity nearest the click, within the
// pick radius, and pins it for snapshot enrichment. Clicking empty ground
// clears the selection.
func (s *Simulation) Inspect(at geo.Coordinates) *model.Entity {
	var best *model.Entity
	bestDist := InspectRadius
	for _, e := range s.entities {
		if d := geo.Distance(at, e.Position); d < bestDist {
			best, bestDist = e, d
		}
	}
	if best == nil {
		s.inspectedID = ""
		return nil
	}
	s.inspectedID = best.ID
	return best.Clone()
}

// Resources returns the current intervention budget.
func (s *Simulation) Resources() int { return s.resources }
