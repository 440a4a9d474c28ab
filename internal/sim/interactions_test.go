package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/model"
)

func TestInfection_AccumulatorBuildsInContact(t *testing.T) {
	s := bareSim(t, 10)
	c := place(t, s, model.KindCivilian, testCenter.Lat, testCenter.Lng)
	place(t, s, model.KindZombie, testCenter.Lat+InfectionRange*0.5, testCenter.Lng)

	for i := 1; i <= 10; i++ {
		s.resolveInteractions()
		assert.Equal(t, i, c.ExposureTicks)
	}
	assert.Equal(t, model.KindCivilian, c.Kind)
}

func TestInfection_AccumulatorResetsOutOfContact(t *testing.T) {
	s := bareSim(t, 11)
	c := place(t, s, model.KindCivilian, testCenter.Lat, testCenter.Lng)
	z := place(t, s, model.KindZombie, testCenter.Lat+InfectionRange*0.5, testCenter.Lng)

	for i := 0; i < ExposureThresholdTicks-1; i++ {
		s.resolveInteractions()
	}
	require.Equal(t, ExposureThresholdTicks-1, c.ExposureTicks)

	// one tick out of range wipes the progress entirely
	z.Position.Lat = testCenter.Lat + InfectionRange*2
	s.resolveInteractions()
	assert.Zero(t, c.ExposureTicks)
	assert.Equal(t, model.KindCivilian, c.Kind)
}

func TestInfection_ConvertsAtThreshold(t *testing.T) {
	s := bareSim(t, 12)
	c := place(t, s, model.KindCivilian, testCenter.Lat, testCenter.Lng)
	c.Name = "Elena Ortiz"
	place(t, s, model.KindZombie, testCenter.Lat+InfectionRange*0.5, testCenter.Lng)

	for i := 0; i < ExposureThresholdTicks; i++ {
		s.resolveInteractions()
	}

	assert.Equal(t, model.KindZombie, c.Kind)
	assert.True(t, c.Infected)
	assert.Equal(t, model.BaselineHealth(model.KindZombie), c.Health,
		"conversion resets health to the zombie baseline")
	assert.False(t, c.Armed)
	assert.Zero(t, c.ExposureTicks)

	conversions := 0
	for _, ev := range s.DrainEvents() {
		if ev.Kind == EventConversion {
			conversions++
			assert.Equal(t, "Elena Ortiz", ev.Name)
			assert.Equal(t, c.ID, ev.EntityID)
		}
	}
	assert.Equal(t, 1, conversions, "conversion fires exactly once")
}

func TestInfection_TrappedZombiesDoNotInfect(t *testing.T) {
	s := bareSim(t, 13)
	c := place(t, s, model.KindCivilian, testCenter.Lat, testCenter.Lng)
	z := place(t, s, model.KindZombie, testCenter.Lat+InfectionRange*0.5, testCenter.Lng)
	z.Trapped = true
	z.TrapTicks = TrapDurationTicks

	for i := 0; i < ExposureThresholdTicks*2; i++ {
		s.resolveInteractions()
	}
	assert.Zero(t, c.ExposureTicks)
	assert.Equal(t, model.KindCivilian, c.Kind)
}

func TestInfection_MultipleZombiesDoNotAccelerate(t *testing.T) {
	s := bareSim(t, 14)
	c := place(t, s, model.KindCivilian, testCenter.Lat, testCenter.Lng)
	place(t, s, model.KindZombie, testCenter.Lat+InfectionRange*0.5, testCenter.Lng)
	place(t, s, model.KindZombie, testCenter.Lat-InfectionRange*0.5, testCenter.Lng)
	place(t, s, model.KindZombie, testCenter.Lat, testCenter.Lng+InfectionRange*0.5)

	s.resolveInteractions()
	assert.Equal(t, 1, c.ExposureTicks, "contact counts once per tick regardless of crowd")
}

func TestTrap_ExpiresAndReleases(t *testing.T) {
	s := bareSim(t, 15)
	place(t, s, model.KindCivilian, testCenter.Lat+0.01, testCenter.Lng) // keeps the run alive
	z := place(t, s, model.KindZombie, testCenter.Lat, testCenter.Lng)
	z.Trapped = true
	z.TrapTicks = 3
	before := z.Position

	for i := 0; i < 3; i++ {
		s.stepMovement()
		assert.Equal(t, before, z.Position, "netted zombies stay put")
	}
	assert.False(t, z.Trapped)
	assert.Zero(t, z.TrapTicks)

	s.stepMovement()
	assert.NotEqual(t, before, z.Position, "released zombies move again")
}

func TestMedic_HealCuresAfterDuration(t *testing.T) {
	s := bareSim(t, 16)
	m := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponNone, true)
	z := place(t, s, model.KindZombie, testCenter.Lat+HealRange*0.5, testCenter.Lng)
	z.Trapped = true
	z.TrapTicks = TrapDurationTicks * 10 // the net outlasts the treatment

	for i := 0; i < HealDurationTicks; i++ {
		s.resolveInteractions()
	}

	assert.Equal(t, model.KindCivilian, z.Kind)
	assert.False(t, z.Infected)
	assert.False(t, z.Trapped)
	assert.Equal(t, model.BaselineHealth(model.KindCivilian), z.Health)
	assert.Empty(t, m.HealTargetID)
	assert.Zero(t, m.HealTicks)

	kinds := eventKinds(s.DrainEvents())
	assert.Contains(t, kinds, EventHealStart)
	assert.Contains(t, kinds, EventHealDone)
}

func TestMedic_HealPausesOutOfRange(t *testing.T) {
	s := bareSim(t, 17)
	m := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponNone, true)
	z := place(t, s, model.KindZombie, testCenter.Lat+HealRange*0.5, testCenter.Lng)
	z.Trapped = true
	z.TrapTicks = TrapDurationTicks

	for i := 0; i < 10; i++ {
		s.resolveInteractions()
	}
	require.Equal(t, 10, m.HealTicks)

	// medic pushed out of range: progress holds, assignment survives
	m.Position.Lat = testCenter.Lat + HealRange*3
	s.resolveInteractions()
	assert.Equal(t, 10, m.HealTicks)
	assert.Equal(t, z.ID, m.HealTargetID)

	m.Position.Lat = testCenter.Lat
	s.resolveInteractions()
	assert.Equal(t, 11, m.HealTicks)
}

func TestMedic_AbortsWhenPatientEscapes(t *testing.T) {
	s := bareSim(t, 18)
	m := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponNone, true)
	z := place(t, s, model.KindZombie, testCenter.Lat+HealRange*0.5, testCenter.Lng)
	z.Trapped = true
	z.TrapTicks = TrapDurationTicks

	for i := 0; i < 10; i++ {
		s.resolveInteractions()
	}
	require.Equal(t, z.ID, m.HealTargetID)

	z.Trapped = false
	s.healTarget(m)
	assert.Empty(t, m.HealTargetID)
	assert.Zero(t, m.HealTicks, "an escaped patient resets treatment progress")
}

func TestCombat_NetCaptures(t *testing.T) {
	s := bareSim(t, 19)
	n := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponNet, false)
	z := place(t, s, model.KindZombie, testCenter.Lat+0.0003, testCenter.Lng)

	var p pending
	s.fire(n, model.WeaponNet, &p)

	assert.True(t, z.Trapped)
	assert.Equal(t, TrapDurationTicks, z.TrapTicks)
	assert.Equal(t, model.BaselineHealth(model.KindZombie), z.Health, "nets do no damage")
	assert.Empty(t, p.die)
	assert.Contains(t, eventKinds(s.DrainEvents()), EventCapture)
}

func TestCombat_NetIgnoresAlreadyTrapped(t *testing.T) {
	s := bareSim(t, 20)
	n := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponNet, false)
	z := place(t, s, model.KindZombie, testCenter.Lat+0.0002, testCenter.Lng)
	z.Trapped = true
	z.TrapTicks = 5
	free := place(t, s, model.KindZombie, testCenter.Lat+0.0004, testCenter.Lng)

	var p pending
	s.fire(n, model.WeaponNet, &p)

	assert.Equal(t, 5, z.TrapTicks, "the near trapped zombie is not re-netted")
	assert.True(t, free.Trapped, "the farther free zombie is")
}

func TestCombat_PistolDamages(t *testing.T) {
	s := bareSim(t, 21)
	g := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponPistol, false)
	z := place(t, s, model.KindZombie, testCenter.Lat+0.0003, testCenter.Lng)

	var p pending
	s.fire(g, model.WeaponPistol, &p)

	assert.Equal(t, model.BaselineHealth(model.KindZombie)-model.Weapons[model.WeaponPistol].Damage, z.Health)
	assert.Empty(t, p.die)
}

func TestCombat_OutOfRangeHoldsFire(t *testing.T) {
	s := bareSim(t, 22)
	g := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponPistol, false)
	z := place(t, s, model.KindZombie, testCenter.Lat+model.Weapons[model.WeaponPistol].Range*2, testCenter.Lng)

	var p pending
	s.fire(g, model.WeaponPistol, &p)

	assert.Equal(t, model.BaselineHealth(model.KindZombie), z.Health)
	assert.Empty(t, s.DrainEffects())
}

func TestCombat_ShotgunHitsUpToThree(t *testing.T) {
	s := bareSim(t, 23)
	g := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponShotgun, false)
	r := model.Weapons[model.WeaponShotgun].Range * 0.5
	zs := []*model.Entity{
		place(t, s, model.KindZombie, testCenter.Lat+r, testCenter.Lng),
		place(t, s, model.KindZombie, testCenter.Lat-r, testCenter.Lng),
		place(t, s, model.KindZombie, testCenter.Lat, testCenter.Lng+r),
		place(t, s, model.KindZombie, testCenter.Lat, testCenter.Lng-r),
	}

	var p pending
	s.fire(g, model.WeaponShotgun, &p)

	hurt := 0
	for _, z := range zs {
		if z.Health < model.BaselineHealth(model.KindZombie) {
			hurt++
		}
	}
	assert.Equal(t, model.Weapons[model.WeaponShotgun].MaxTargets, hurt)
	assert.Len(t, p.die, 0, "shotgun damage does not one-shot a zombie")
}

func TestCombat_SniperRefusesCloseShots(t *testing.T) {
	s := bareSim(t, 24)
	g := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponSniper, false)
	w := model.Weapons[model.WeaponSniper]
	z := place(t, s, model.KindZombie, testCenter.Lat+w.Range*SniperRefuseFrac*0.5, testCenter.Lng)

	var p pending
	s.fire(g, model.WeaponSniper, &p)

	assert.Equal(t, model.BaselineHealth(model.KindZombie), z.Health)
	assert.Zero(t, g.LastShotTick)
}

func TestCombat_SniperDeadZoneGatedOnNearest(t *testing.T) {
	s := bareSim(t, 42)
	g := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponSniper, false)
	w := model.Weapons[model.WeaponSniper]
	near := place(t, s, model.KindZombie, testCenter.Lat+w.Range*SniperRefuseFrac*0.5, testCenter.Lng)
	far := place(t, s, model.KindZombie, testCenter.Lat+w.Range*0.9, testCenter.Lng)

	var p pending
	s.fire(g, model.WeaponSniper, &p)

	assert.Equal(t, model.BaselineHealth(model.KindZombie), near.Health,
		"anything inside the dead zone keeps the whole rifle quiet")
	assert.Equal(t, model.BaselineHealth(model.KindZombie), far.Health)
	assert.Zero(t, g.LastShotTick)
}

func TestCombat_TargetPickIsSpreadAcrossRange(t *testing.T) {
	s := bareSim(t, 43)
	g := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponPistol, false)
	w := model.Weapons[model.WeaponPistol]
	near := place(t, s, model.KindZombie, testCenter.Lat+w.Range*0.3, testCenter.Lng)
	far := place(t, s, model.KindZombie, testCenter.Lat+w.Range*0.8, testCenter.Lng)
	near.Health = 1000
	far.Health = 1000

	var p pending
	for i := 0; i < 50; i++ {
		s.fire(g, model.WeaponPistol, &p)
	}

	assert.Less(t, near.Health, float64(1000))
	assert.Less(t, far.Health, float64(1000), "shots are not locked onto the nearest zombie")
}

func TestCombat_SniperCooldown(t *testing.T) {
	s := bareSim(t, 25)
	g := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponSniper, false)
	w := model.Weapons[model.WeaponSniper]
	z := place(t, s, model.KindZombie, testCenter.Lat+w.Range*0.9, testCenter.Lng)
	z.Health = 1000 // survives several hits

	s.tick = 1
	var p pending
	s.fire(g, model.WeaponSniper, &p)
	require.Equal(t, 1000-w.Damage, z.Health)

	// still cooling down
	s.tick += SniperCooldownTicks - 1
	s.fire(g, model.WeaponSniper, &p)
	assert.Equal(t, 1000-w.Damage, z.Health)

	// cooldown elapsed
	s.tick++
	s.fire(g, model.WeaponSniper, &p)
	assert.Equal(t, 1000-2*w.Damage, z.Health)
}

func TestCombat_RocketHoldsFireWithoutCluster(t *testing.T) {
	s := bareSim(t, 26)
	g := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponRocket, false)
	w := model.Weapons[model.WeaponRocket]
	// two in-range zombies too far apart for either blast to catch both
	lone := place(t, s, model.KindZombie, testCenter.Lat+w.Range*0.5, testCenter.Lng)
	other := place(t, s, model.KindZombie, testCenter.Lat-w.Range*0.5, testCenter.Lng)

	var p pending
	s.fire(g, model.WeaponRocket, &p)

	assert.Equal(t, model.BaselineHealth(model.KindZombie), lone.Health)
	assert.Equal(t, model.BaselineHealth(model.KindZombie), other.Health)
	assert.Equal(t, w.InitialAmmo, g.Ammo, "no rocket spent without a cluster")
}

func TestCombat_RocketFiresOnCluster(t *testing.T) {
	s := bareSim(t, 27)
	g := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponRocket, false)
	w := model.Weapons[model.WeaponRocket]
	a := place(t, s, model.KindZombie, testCenter.Lat+w.Range*0.5, testCenter.Lng)
	b := place(t, s, model.KindZombie, testCenter.Lat+w.Range*0.5+w.SplashRadius*0.5, testCenter.Lng)

	var p pending
	s.fire(g, model.WeaponRocket, &p)

	assert.Contains(t, p.die, a)
	assert.Contains(t, p.die, b)
	assert.Equal(t, w.InitialAmmo-1, g.Ammo)

	fx := s.DrainEffects()
	require.NotEmpty(t, fx)
	assert.Equal(t, model.EffectExplosion, fx[0].Kind)
}

func TestCombat_RocketHoldsFireNearFriendlies(t *testing.T) {
	s := bareSim(t, 28)
	g := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponRocket, false)
	w := model.Weapons[model.WeaponRocket]
	a := place(t, s, model.KindZombie, testCenter.Lat+w.Range*0.5, testCenter.Lng)
	b := place(t, s, model.KindZombie, testCenter.Lat+w.Range*0.5+w.SplashRadius*0.5, testCenter.Lng)
	// a civilian inside the blast of every candidate poisons them all
	bystander := place(t, s, model.KindCivilian, testCenter.Lat+w.Range*0.5, testCenter.Lng+w.SplashRadius*0.5)

	var p pending
	s.fire(g, model.WeaponRocket, &p)

	assert.Equal(t, model.BaselineHealth(model.KindZombie), a.Health)
	assert.Equal(t, model.BaselineHealth(model.KindZombie), b.Health)
	assert.Equal(t, model.BaselineHealth(model.KindCivilian), bystander.Health)
	assert.Equal(t, w.InitialAmmo, g.Ammo, "no safe aim point means no shot")
	assert.Empty(t, p.die)
}

func TestCombat_RocketAimsAtBiggestSafeCluster(t *testing.T) {
	s := bareSim(t, 44)
	g := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponRocket, false)
	w := model.Weapons[model.WeaponRocket]
	stray := place(t, s, model.KindZombie, testCenter.Lat+w.Range*0.5, testCenter.Lng)
	a := place(t, s, model.KindZombie, testCenter.Lat-w.Range*0.5, testCenter.Lng)
	b := place(t, s, model.KindZombie, testCenter.Lat-w.Range*0.5-w.SplashRadius*0.5, testCenter.Lng)

	var p pending
	s.fire(g, model.WeaponRocket, &p)

	assert.Contains(t, p.die, a)
	assert.Contains(t, p.die, b)
	assert.Equal(t, model.BaselineHealth(model.KindZombie), stray.Health,
		"blast goes to the pair, not the stray")
}

func TestCombat_RocketFiresOnLastZombie(t *testing.T) {
	s := bareSim(t, 45)
	g := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponRocket, false)
	w := model.Weapons[model.WeaponRocket]
	last := place(t, s, model.KindZombie, testCenter.Lat+w.Range*0.5, testCenter.Lng)
	// a second zombie outside weapon range does not hold the shot back
	place(t, s, model.KindZombie, testCenter.Lat+0.05, testCenter.Lng)

	var p pending
	s.fire(g, model.WeaponRocket, &p)

	assert.Contains(t, p.die, last)
}

func TestCombat_RocketDowngradesWhenEmpty(t *testing.T) {
	s := bareSim(t, 29)
	g := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponRocket, false)
	g.Ammo = 1
	w := model.Weapons[model.WeaponRocket]
	place(t, s, model.KindZombie, testCenter.Lat+w.Range*0.5, testCenter.Lng)
	s.recount()

	var p pending
	s.fire(g, model.WeaponRocket, &p)

	assert.Equal(t, model.WeaponPistol, g.Weapon, "empty launcher falls back to the sidearm")
	assert.Zero(t, g.Ammo)
}

func TestCombat_KilledZombieStaysInCollection(t *testing.T) {
	s := bareSim(t, 30)
	place(t, s, model.KindCivilian, testCenter.Lat+0.01, testCenter.Lng)
	g := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponSniper, false)
	w := model.Weapons[model.WeaponSniper]
	z := place(t, s, model.KindZombie, testCenter.Lat+w.Range*0.9, testCenter.Lng)
	z.Health = w.Damage // one shot kills

	s.tick = 1
	var p pending
	s.fire(g, model.WeaponSniper, &p)
	s.apply(&p)

	assert.True(t, z.Dead)
	got, ok := s.Lookup(z.ID)
	require.True(t, ok, "corpses stay resolvable by id")
	assert.Same(t, z, got)
	assert.Contains(t, eventKinds(s.DrainEvents()), EventKill)
}

func TestApply_CureBeatsLethalDamageSameTick(t *testing.T) {
	s := bareSim(t, 31)
	z := place(t, s, model.KindZombie, testCenter.Lat, testCenter.Lng)
	z.Trapped = true

	var p pending
	p.cure = append(p.cure, z)
	if !p.marked(z) {
		t.Fatal("marked must see the cure claim")
	}
	s.damage(z, 1000, &p)
	s.apply(&p)

	assert.False(t, z.Dead, "the first claim on an entity wins the tick")
	assert.Equal(t, model.KindCivilian, z.Kind)
}

func TestUseTool_Airstrike(t *testing.T) {
	s := bareSim(t, 32)
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })

	inside := place(t, s, model.KindZombie, testCenter.Lat+AirstrikeRadius*0.5, testCenter.Lng)
	friendly := place(t, s, model.KindCivilian, testCenter.Lat, testCenter.Lng)
	outside := place(t, s, model.KindZombie, testCenter.Lat+AirstrikeRadius*1.01, testCenter.Lng)

	ok := s.UseTool(model.ToolAirstrike, testCenter)
	require.True(t, ok)

	assert.True(t, inside.Dead)
	assert.True(t, friendly.Dead, "airstrikes kill everything in the radius")
	assert.False(t, outside.Dead, "the blast radius is strict")
	assert.Equal(t, InitialResources-CostAirstrike, s.Resources())
	assert.Equal(t, now.Add(CooldownAirstrike), s.cooldowns[model.ToolAirstrike])
}

func TestUseTool_InsufficientResources(t *testing.T) {
	s := bareSim(t, 33)
	s.resources = CostAirstrike - 1
	z := place(t, s, model.KindZombie, testCenter.Lat, testCenter.Lng)

	ok := s.UseTool(model.ToolAirstrike, testCenter)

	assert.False(t, ok)
	assert.False(t, z.Dead)
	assert.Equal(t, CostAirstrike-1, s.Resources())
	events := s.DrainEvents()
	require.NotEmpty(t, events)
	assert.Equal(t, EventDenied, events[len(events)-1].Kind)
}

func TestUseTool_Cooldown(t *testing.T) {
	s := bareSim(t, 34)
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })
	place(t, s, model.KindCivilian, testCenter.Lat, testCenter.Lng)

	require.True(t, s.UseTool(model.ToolSupplyDrop, testCenter))
	assert.False(t, s.UseTool(model.ToolSupplyDrop, testCenter), "second use inside cooldown is denied")

	now = now.Add(CooldownSupplyDrop)
	assert.True(t, s.UseTool(model.ToolSupplyDrop, testCenter), "cooldown boundary reopens the tool")
}

func TestUseTool_IgnoredWhenEnded(t *testing.T) {
	s := bareSim(t, 35)
	s.runState = StateEnded

	assert.False(t, s.UseTool(model.ToolAirstrike, testCenter))
	assert.Equal(t, InitialResources, s.Resources())
}

func TestSupplyDrop_ArmsUpToCap(t *testing.T) {
	s := bareSim(t, 36)
	var civs []*model.Entity
	for i := 0; i < SupplyArmCap+2; i++ {
		c := place(t, s, model.KindCivilian,
			testCenter.Lat+float64(i)*SupplyRadius/20, testCenter.Lng)
		civs = append(civs, c)
	}
	farAway := place(t, s, model.KindCivilian, testCenter.Lat+SupplyRadius*3, testCenter.Lng)

	require.True(t, s.UseTool(model.ToolSupplyDrop, testCenter))

	armed := 0
	for _, c := range civs {
		if c.Armed {
			assert.Contains(t,
				[]model.WeaponKind{model.WeaponPistol, model.WeaponShotgun, model.WeaponSniper, model.WeaponRocket},
				c.Weapon)
			assert.Equal(t, model.Weapons[c.Weapon].InitialAmmo, c.Ammo)
			armed++
		}
	}
	assert.Equal(t, SupplyArmCap, armed)
	assert.False(t, farAway.Armed)
}

func TestSupplyWeapon_DrawsFromCrateTable(t *testing.T) {
	s := bareSim(t, 41)
	seen := map[model.WeaponKind]int{}
	for i := 0; i < 2000; i++ {
		seen[s.supplyWeapon()]++
	}
	assert.Len(t, seen, 4)
	assert.Greater(t, seen[model.WeaponPistol], seen[model.WeaponRocket],
		"sidearms come up more often than area weapons")
	assert.NotContains(t, seen, model.WeaponNet)
}

func TestReinforce_SpawnsFireTeam(t *testing.T) {
	s := bareSim(t, 37)
	place(t, s, model.KindCivilian, testCenter.Lat, testCenter.Lng)

	require.True(t, s.UseTool(model.ToolReinforce, testCenter))

	soldiers := 0
	for _, e := range s.Entities() {
		if e.Kind == model.KindSoldier {
			soldiers++
			assert.True(t, e.Armed)
			assert.False(t, e.Medic)
			assert.Contains(t, reinforceLoadout, e.Weapon)
			assert.LessOrEqual(t, geo.Distance(testCenter, e.Position), SpawnJitter*2)
		}
	}
	assert.Equal(t, ReinforceCount, soldiers)
}

func TestMedicTeam_SpawnsUnarmedMedics(t *testing.T) {
	s := bareSim(t, 38)
	place(t, s, model.KindCivilian, testCenter.Lat, testCenter.Lng)

	require.True(t, s.UseTool(model.ToolMedicTeam, testCenter))

	medics := 0
	for _, e := range s.Entities() {
		if e.Medic {
			medics++
			assert.False(t, e.Armed)
			assert.Equal(t, model.WeaponNone, e.Weapon)
		}
	}
	assert.Equal(t, MedicTeamCount, medics)
}

func TestInspect(t *testing.T) {
	s := bareSim(t, 39)
	near := place(t, s, model.KindCivilian, testCenter.Lat+InspectRadius*0.2, testCenter.Lng)
	place(t, s, model.KindCivilian, testCenter.Lat+InspectRadius*0.8, testCenter.Lng)

	got := s.Inspect(testCenter)
	require.NotNil(t, got)
	assert.Equal(t, near.ID, got.ID)
	assert.NotSame(t, near, got, "inspect returns a copy")

	// clicking empty ground clears the selection
	assert.Nil(t, s.Inspect(geo.Coordinates{Lat: testCenter.Lat + 1, Lng: testCenter.Lng}))
	assert.Nil(t, s.Snapshot().Inspected)
}

func TestScenario_CaptureAndCure(t *testing.T) {
	s := bareSim(t, 40)
	place(t, s, model.KindCivilian, testCenter.Lat+0.01, testCenter.Lng)
	n := placeSoldier(t, s, testCenter.Lat, testCenter.Lng, model.WeaponNet, false)
	placeSoldier(t, s, testCenter.Lat+0.0001, testCenter.Lng, model.WeaponNone, true)
	z := place(t, s, model.KindZombie, testCenter.Lat+0.0003, testCenter.Lng)
	s.recount()
	require.Equal(t, 1, s.infected)

	var p pending
	s.fire(n, model.WeaponNet, &p)
	require.True(t, z.Trapped)

	for i := 0; i < TrapDurationTicks && z.Kind == model.KindZombie; i++ {
		s.Step()
	}

	assert.Equal(t, model.KindCivilian, z.Kind, "a netted zombie is cured before the net expires")
	assert.Equal(t, 2, s.healthy)
	assert.Equal(t, 0, s.infected)
	assert.Equal(t, model.OutcomeVictory, s.Snapshot().Outcome)
}
