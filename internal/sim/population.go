package sim

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/model"
)

var (
	maleNames = []string{
		"James", "Marcus", "Diego", "Hiroshi", "Omar", "Viktor", "Samuel",
		"Lucas", "Mateo", "Arjun", "Tomas", "Felix", "Ibrahim", "Jonas",
	}
	femaleNames = []string{
		"Amara", "Sofia", "Mei", "Fatima", "Elena", "Ingrid", "Naomi",
		"Clara", "Priya", "Rosa", "Hana", "Lena", "Aisha", "Vera",
	}
	surnames = []string{
		"Okafor", "Silva", "Tanaka", "Novak", "Haddad", "Larsen", "Reyes",
		"Kovacs", "Mbeki", "Ivanov", "Choi", "Moreau", "Santos", "Weber",
	}
)

func (s *Simulation) randomName(male bool) string {
	given := femaleNames
	if male {
		given = maleNames
	}
	return fmt.Sprintf("%s %s", given[s.rng.Intn(len(given))], surnames[s.rng.Intn(len(surnames))])
}

func (s *Simulation) randomAge(sub model.CivilianKind) int {
	switch sub {
	case model.CivChild:
		return 5 + s.rng.Intn(10)
	case model.CivElderly:
		return 60 + s.rng.Intn(30)
	default:
		return 18 + s.rng.Intn(40)
	}
}

// spawnPopulation places the initial civilians uniformly over the spawn disk
// and converts a few of them into the seed zombies.
func (s *Simulation) spawnPopulation() {
	s.entities = make([]*model.Entity, 0, s.cfg.Population)
	s.byID = make(map[string]*model.Entity, s.cfg.Population)

	for i := 0; i < s.cfg.Population; i++ {
		angle := s.rng.Float64() * 2 * math.Pi
		r := math.Sqrt(s.rng.Float64()) * SpawnRadius

		sub := model.CivilianKind(s.rng.Intn(4))
		male := sub == model.CivMan || sub == model.CivElderly ||
			(sub == model.CivChild && s.rng.Float64() > 0.5)

		gender := "female"
		if male {
			gender = "male"
		}

		e := &model.Entity{
			ID:           uuid.NewString(),
			Kind:         model.KindCivilian,
			CivilianKind: sub,
			Name:         s.randomName(male),
			Age:          s.randomAge(sub),
			Gender:       gender,
			Position: geo.Coordinates{
				Lat: s.cfg.Center.Lat + r*math.Cos(angle),
				Lng: s.cfg.Center.Lng + r*math.Sin(angle)*SpawnLngSquash,
			},
			WanderHeading: s.rng.Float64() * 2 * math.Pi,
			Health:        model.BaselineHealth(model.KindCivilian),
		}
		e.Thought = s.pickThought(e, 0)
		s.add(e)
	}

	// Patient zero and friends.
	seeded := 0
	for seeded < s.cfg.SeedZombies && seeded < len(s.entities) {
		z := s.entities[s.rng.Intn(len(s.entities))]
		if z.Kind == model.KindZombie {
			continue
		}
		z.Kind = model.KindZombie
		z.Infected = true
		z.Health = model.BaselineHealth(model.KindZombie)
		z.Thought = thoughtsZombie[0]
		seeded++
	}
}

func (s *Simulation) add(e *model.Entity) {
	s.entities = append(s.entities, e)
	s.byID[e.ID] = e
}

func (s *Simulation) spawnSoldier(p geo.Coordinates, weapon model.WeaponKind, medic bool) *model.Entity {
	e := &model.Entity{
		ID:     uuid.NewString(),
		Kind:   model.KindSoldier,
		Name:   s.randomName(true),
		Age:    20 + s.rng.Intn(10),
		Gender: "male",
		Position: geo.Coordinates{
			Lat: p.Lat + s.rng.Float64()*SpawnJitter,
			Lng: p.Lng + s.rng.Float64()*SpawnJitter,
		},
		WanderHeading: s.rng.Float64() * 2 * math.Pi,
		Health:        model.BaselineHealth(model.KindSoldier),
		Medic:         medic,
	}
	if !medic {
		e.Armed = true
		e.Weapon = weapon
		e.Ammo = model.Weapons[weapon].InitialAmmo
		e.Thought = thoughtsSoldier[0]
	} else {
		e.Thought = thoughtsMedic[0]
	}
	s.add(e)
	return e
}
