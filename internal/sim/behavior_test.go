package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/model"
)

func TestCivilian_UnarmedPanicsAcrossVision(t *testing.T) {
	s := bareSim(t, 50)
	c := place(t, s, model.KindCivilian, testCenter.Lat, testCenter.Lng)
	place(t, s, model.KindZombie, testCenter.Lat-VisionHuman*0.75, testCenter.Lng)

	s.moveCivilian(c)

	assert.Positive(t, c.Velocity.X, "unarmed civilians flee anything in vision")
	assert.InDelta(t, MaxSpeedCivilian*MultSprint, math.Hypot(c.Velocity.X, c.Velocity.Y), MaxSpeedCivilian*0.01,
		"panic is a sprint")
}

func TestCivilian_ArmedHoldsUntilHalfVision(t *testing.T) {
	s := bareSim(t, 51)
	c := place(t, s, model.KindCivilian, testCenter.Lat, testCenter.Lng)
	c.Armed = true
	c.Weapon = model.WeaponPistol
	// between the armed panic threshold and full vision: wary, not panicking
	place(t, s, model.KindZombie, testCenter.Lat-VisionHuman*0.75, testCenter.Lng)

	s.moveCivilian(c)

	assert.Positive(t, c.Velocity.X, "the flee bias still edges away from the threat")
	assert.LessOrEqual(t, math.Hypot(c.Velocity.X, c.Velocity.Y), MaxSpeedCivilian*1.000001,
		"wary positioning is walking pace, not a sprint")
}

func TestCivilian_ArmedPanicsInsideHalfVision(t *testing.T) {
	s := bareSim(t, 52)
	c := place(t, s, model.KindCivilian, testCenter.Lat, testCenter.Lng)
	c.Armed = true
	c.Weapon = model.WeaponPistol
	place(t, s, model.KindZombie, testCenter.Lat-VisionHuman*0.3, testCenter.Lng)

	s.moveCivilian(c)

	assert.Positive(t, c.Velocity.X)
	assert.InDelta(t, MaxSpeedCivilian*MultSprint, math.Hypot(c.Velocity.X, c.Velocity.Y), MaxSpeedCivilian*0.01)
}

func TestWander_HeadingDeltaBounded(t *testing.T) {
	e := &model.Entity{}
	rng := rand.New(rand.NewSource(53))
	prev := e.WanderHeading
	for i := 0; i < 1000; i++ {
		wander(e, rng, ForceWander)
		delta := e.WanderHeading - prev
		require.LessOrEqual(t, math.Abs(delta), WanderJitter/2,
			"heading jitter exceeds the bound at step %d", i)
		prev = e.WanderHeading
	}
}

func TestDriftPull_ActivatesBeyondLimit(t *testing.T) {
	inside := geo.Coordinates{Lat: testCenter.Lat + SpawnRadius, Lng: testCenter.Lng}
	assert.Zero(t, driftPull(inside, testCenter))

	outside := geo.Coordinates{Lat: testCenter.Lat + SpawnRadius*2, Lng: testCenter.Lng}
	pull := driftPull(outside, testCenter)
	require.NotZero(t, pull)
	assert.Negative(t, pull.X, "the pull points back at the centre")
}

func TestCivilian_DriftsBackToCenter(t *testing.T) {
	s := bareSim(t, 54)
	c := place(t, s, model.KindCivilian, testCenter.Lat+SpawnRadius*2, testCenter.Lng)
	start := geo.Distance(testCenter, c.Position)

	for i := 0; i < 2000; i++ {
		s.moveCivilian(c)
	}

	assert.Less(t, geo.Distance(testCenter, c.Position), start,
		"a strayed civilian works its way back inside the fence")
}
