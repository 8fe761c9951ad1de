package parameter

// Strategy - Ground Patrol
const (
	// PatrolRadius is half-width of the patrol segment around the home x (world units)
	PatrolRadius = 96.0

	// PatrolSpeed and PursueSpeed are in multiples of base speed
	PatrolSpeed = 1.0
	PursueSpeed = 1.0

	// PatrolAggroRange is the pursuit trigger distance (world units)
	PatrolAggroRange = 240.0

	// PatrolPursueDeadzone holds horizontal position when the target is this close on x
	PatrolPursueDeadzone = 5.0

	// PatrolHysteresisTicks is consecutive lost-contact ticks before pursuit ends
	PatrolHysteresisTicks = 30
)

// Strategy - Jumping
const (
	// JumpTriggerBand is the |dx| window inside which a grounded jumper launches
	JumpTriggerBand = 160.0

	// JumpLaunchX and JumpLaunchY are launch velocity components in multiples of base speed
	JumpLaunchX = 2.0
	JumpLaunchY = 4.0

	// JumpCooldownTicks is ground time between landing and the next possible launch
	JumpCooldownTicks = 45

	// JumpMaxAirborneTicks lands a jumper whose ground sensor never reports back
	JumpMaxAirborneTicks = 120
)

// Strategy - Ranged Tactical
const (
	// RangedOptimalDistance is the preferred engagement distance, band is derived from it
	RangedOptimalDistance = 200.0
	RangedMinRange        = RangedOptimalDistance * 0.7
	RangedMaxRange        = RangedOptimalDistance * 1.3

	RangedRetreatSpeed  = 1.0
	RangedApproachSpeed = 0.6

	// RangedFireCooldownTicks is minimum ticks between fire requests
	RangedFireCooldownTicks = 60
)

// Strategy - Floating
const (
	// FloatHoverHeight is the hover point offset above the target (world units)
	FloatHoverHeight = 50.0

	// FloatAmplitude is the drift radius around the hover point (world units)
	FloatAmplitude = 40.0

	// FloatDriftRate is phase advance per tick (radians)
	FloatDriftRate = 0.05

	// FloatSmoothing is the low-pass factor applied to velocity each tick, (0, 1]
	FloatSmoothing = 0.15

	// FloatArriveRadius is the distance at which desired speed starts to taper (world units)
	FloatArriveRadius = 64.0
)
