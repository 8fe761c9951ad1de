package strategy

import (
	"math"

	"github.com/lixenwraith/npc-locomotion/capability"
	"github.com/lixenwraith/npc-locomotion/vmath"
)

// JumpState is the Jumping state machine
type JumpState uint8

const (
	JumpGrounded JumpState = iota
	JumpAirborne
	JumpCooldown
)

var jumpStateNames = [...]string{"grounded", "airborne", "cooldown"}

// Jumping waits on the ground and leaps at a target inside its trigger band
// Flight is ballistic, landing comes from the caller's ground sensor
type Jumping struct {
	cfg JumpTunables

	state         JumpState
	airTicks      int
	seenAirborne  bool
	cooldownTicks int
}

func NewJumping(cfg JumpTunables) *Jumping {
	return &Jumping{cfg: cfg}
}

func (j *Jumping) Variant() Variant { return VariantJumping }
func (j *Jumping) State() string    { return jumpStateNames[j.state] }

// Phase returns the raw machine state
func (j *Jumping) Phase() JumpState { return j.state }

func (j *Jumping) Decide(ctx Context, _ capability.Set, _ *Properties) Decision {
	if !ctx.Valid() {
		return Hold
	}

	switch j.state {
	case JumpAirborne:
		j.airTicks++
		if !ctx.Grounded {
			j.seenAirborne = true
		}
		// The launch tick itself may still report grounded, only a return to ground after leaving it counts
		if (ctx.Grounded && j.seenAirborne) || j.airTicks >= j.cfg.MaxAirborneTicks {
			j.land()
			return Hold
		}
		return Decision{Mode: ModeCarry}

	case JumpCooldown:
		j.cooldownTicks--
		if j.cooldownTicks <= 0 {
			j.state = JumpGrounded
		}
		return Hold
	}

	// Launch needs ground contact, a mover that walked off a ledge falls first
	dx, _ := ctx.Delta()
	if !ctx.Grounded || !ctx.HasLOS || math.Abs(dx) > j.cfg.TriggerBand {
		return Hold
	}

	j.state = JumpAirborne
	j.airTicks = 0
	j.seenAirborne = false
	return Decision{
		VelX:    vmath.Sign(dx) * j.cfg.LaunchX,
		VelY:    -j.cfg.LaunchY,
		Actions: []Action{ActionJump},
	}
}

// CancelLaunch abandons a launch the mover could not perform, the machine cools down as after a landing
func (j *Jumping) CancelLaunch() {
	if j.state == JumpAirborne {
		j.land()
	}
}

func (j *Jumping) land() {
	j.airTicks = 0
	j.seenAirborne = false
	if j.cfg.CooldownTicks <= 0 {
		// Zero cooldown still passes through Cooldown for one tick
		j.cooldownTicks = 1
	} else {
		j.cooldownTicks = j.cfg.CooldownTicks
	}
	j.state = JumpCooldown
}
