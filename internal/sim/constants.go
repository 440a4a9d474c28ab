package sim

import "time"

// Tuning constants for the simulation core. Distances and speeds are in
// coordinate degrees; durations in ms are converted to tick counts against
// the fixed 50ms step.
const (
	// TickInterval is the fixed wall-clock step of the scheduler.
	TickInterval = 50 * time.Millisecond

	// Base speeds in degrees per tick.
	MaxSpeedZombie   = 0.000005
	MaxSpeedSoldier  = 0.000004
	MaxSpeedCivilian = 0.000003

	// Situational speed multipliers.
	MultSprint = 1.5
	MultWander = 0.6

	// Perception ranges.
	InfectionRange = 0.00025
	VisionZombie   = 0.0030
	VisionHuman    = 0.0030
	SoldierVisionX = 2.0 // soldiers scan an extended radius
	InspectRadius  = 0.0003

	// Steering force weights.
	ForceSeparation = 3.0
	ForceSeek       = 2.5
	ForceFlee       = 4.0
	ForceWander     = 0.8

	SeparationRadius = 0.00015
	HealRange        = 0.0001 // medic must stand this close to treat
	WanderJitter     = 0.5    // heading delta per tick is uniform in ±WanderJitter/2

	// Armed civilians let threats approach to half the usual panic distance
	// and apply this flee bias while still calm.
	ArmedFleeBias = 0.2

	// Civilians drifting past this multiple of the spawn radius get pulled
	// back toward the spawn center at half seek weight.
	DriftLimit     = 1.2
	DriftPullScale = 0.5

	// Soldier engagement envelope, fractions of weapon range.
	OptimalRangeFrac  = 0.8
	FleeRangeFrac     = 0.4
	HoldSteerScale    = 0.5
	SniperPanicFrac   = 0.5 // snipers disengage inside half their range
	SniperRefuseFrac  = 0.4 // and refuse to fire inside 40% of it
	SniperFleeWeightX = 2.0

	// Fire probability per tick.
	FireProbSoldier  = 0.2
	FireProbCivilian = 0.1

	// Multi-tick state machines, in ticks (source durations are ms).
	ExposureThresholdTicks = 60  // 3000ms of continuous contact converts
	TrapDurationTicks      = 600 // 30s in a net
	HealDurationTicks      = 100 // 5s of treatment cures
	SniperCooldownTicks    = 100 // 5s between sniper shots
	HealBeamEveryTicks     = 4   // intermittent cosmetic beam

	// Thought refresh probability per tick.
	ThoughtChance = 0.02

	// Population.
	DefaultPopulation  = 120
	DefaultSeedZombies = 3
	SpawnRadius        = 0.0025
	SpawnLngSquash     = 0.8 // compress longitude jitter toward the center

	// Interventions.
	SupplyRadius    = 0.000375
	SupplyArmCap    = 4
	AirstrikeRadius = 0.0006
	ReinforceCount  = 4
	MedicTeamCount  = 2
	SpawnJitter     = 0.0001

	// Economy.
	InitialResources = 1000
	CostSupplyDrop   = 50
	CostReinforce    = 100
	CostMedicTeam    = 50
	CostAirstrike    = 200
)

// Tool cooldowns, wall-clock gated.
const (
	CooldownSupplyDrop = 30 * time.Second
	CooldownReinforce  = 60 * time.Second
	CooldownMedicTeam  = 80 * time.Second
	CooldownAirstrike  = 120 * time.Second
)
