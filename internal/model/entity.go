// Package model holds the plain data types shared between the simulation
// core and its consumers: entities, weapons, snapshots, effects, and the
// radio log record. No package here contains behavior beyond small accessors.
package model

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/gridfall/outbreak/internal/geo"
)

// Kind discriminates the three entity species.
type Kind uint8

const (
	KindCivilian Kind = iota
	KindZombie
	KindSoldier
)

// String returns the lowercase kind name for logs and wire payloads.
func (k Kind) String() string {
	switch k {
	case KindCivilian:
		return "civilian"
	case KindZombie:
		return "zombie"
	case KindSoldier:
		return "soldier"
	}
	return "unknown"
}

// CivilianKind is the demographic sub-kind, fixed at creation and only
// meaningful while Kind is KindCivilian.
type CivilianKind uint8

const (
	CivMan CivilianKind = iota
	CivWoman
	CivChild
	CivElderly
)

func (c CivilianKind) String() string {
	switch c {
	case CivMan:
		return "man"
	case CivWoman:
		return "woman"
	case CivChild:
		return "child"
	case CivElderly:
		return "elderly"
	}
	return "unknown"
}

// Entity is one simulated agent. A flat record with optional fields guarded
// by invariants: zombies and medics are never armed, Dead is terminal,
// Trapped and Dead are mutually exclusive.
type Entity struct {
	ID           string       `json:"id"`
	Kind         Kind         `json:"kind"`
	CivilianKind CivilianKind `json:"civilianKind"`

	// Bio data, cosmetic only.
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	Thought      string `json:"thought"`
	HomePlace    string `json:"homePlace,omitempty"`
	CurrentPlace string `json:"currentPlace,omitempty"`

	// Spatial state.
	Position      geo.Coordinates `json:"position"`
	Velocity      geom.XY         `json:"velocity"`
	WanderHeading float64         `json:"-"`

	// Combat and biology.
	Health       float64    `json:"health"`
	Infected     bool       `json:"infected"`
	Dead         bool       `json:"dead"`
	Armed        bool       `json:"armed"`
	Weapon       WeaponKind `json:"weapon,omitempty"`
	Ammo         int        `json:"ammo,omitempty"`
	LastShotTick int64      `json:"-"`

	// Exposure accumulator in ticks; resets to zero on any unexposed tick.
	ExposureTicks int `json:"-"`

	// Capture state.
	Trapped   bool `json:"trapped"`
	TrapTicks int  `json:"-"`

	// Medic state machine (medic-only, transient).
	Medic        bool   `json:"medic"`
	HealTargetID string `json:"-"`
	HealTicks    int    `json:"-"`
}

// Alive reports whether the entity still participates in the simulation.
func (e *Entity) Alive() bool {
	return !e.Dead
}

// Shooter reports whether the entity resolves a combat action each tick:
// any living, non-medic entity that is armed or of soldier kind.
func (e *Entity) Shooter() bool {
	return e.Alive() && !e.Medic && e.Kind != KindZombie && (e.Armed || e.Kind == KindSoldier)
}

// EquippedWeapon returns the entity's weapon, defaulting armed entities and
// soldiers to the pistol when none was assigned.
func (e *Entity) EquippedWeapon() WeaponKind {
	if e.Weapon == WeaponNone {
		return WeaponPistol
	}
	return e.Weapon
}

// Clone returns an independent copy safe to hand to consumers. Entity holds
// no reference fields, so a value copy suffices.
func (e *Entity) Clone() *Entity {
	c := *e
	return &c
}

// BaselineHealth returns the starting health for a kind.
func BaselineHealth(k Kind) float64 {
	switch k {
	case KindZombie:
		return 20
	case KindSoldier:
		return 50
	default:
		return 10
	}
}
