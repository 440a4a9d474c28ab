package model

import "time"

// WeaponKind identifies a weapon category. The zero value means unarmed.
type WeaponKind uint8

const (
	WeaponNone WeaponKind = iota
	WeaponNet
	WeaponPistol
	WeaponShotgun
	WeaponSniper
	WeaponRocket
)

func (w WeaponKind) String() string {
	switch w {
	case WeaponNet:
		return "net"
	case WeaponPistol:
		return "pistol"
	case WeaponShotgun:
		return "shotgun"
	case WeaponSniper:
		return "sniper"
	case WeaponRocket:
		return "rocket"
	}
	return "none"
}

// WeaponStats holds the fixed parameters of one weapon category. Ranges and
// radii are coordinate degrees.
type WeaponStats struct {
	Range        float64
	Damage       float64
	SplashRadius float64       // rocket only
	MaxTargets   int           // shotgun only
	Cooldown     time.Duration // sniper only
	InitialAmmo  int           // 0 means unlimited
	Color        string
}

// Weapons is the fixed stats table.
var Weapons = map[WeaponKind]WeaponStats{
	WeaponNet:     {Range: 0.0006, Damage: 0, Color: "#2DD4BF"},
	WeaponPistol:  {Range: 0.0005, Damage: 4, Color: "#FBBF24"},
	WeaponShotgun: {Range: 0.0004, Damage: 15, MaxTargets: 3, Color: "#F97316"},
	WeaponSniper:  {Range: 0.0018, Damage: 20, Cooldown: 5 * time.Second, Color: "#FFFFFF"},
	WeaponRocket:  {Range: 0.0008, Damage: 25, SplashRadius: 0.0004, InitialAmmo: 3, Color: "#EF4444"},
}

// FirePriority is the fixed per-tick shooter resolution order: capture
// weapons decide before lethal weapons consume the same targets.
var FirePriority = []WeaponKind{WeaponNet, WeaponPistol, WeaponShotgun, WeaponSniper, WeaponRocket}
