package strategy

import (
	"fmt"

	"github.com/lixenwraith/npc-locomotion/parameter"
	"github.com/lixenwraith/npc-locomotion/vmath"
)

// PatrolTunables configures GroundPatrol, distances in world units
type PatrolTunables struct {
	Radius          float64 `toml:"radius"`
	Speed           float64 `toml:"speed"`
	PursueSpeed     float64 `toml:"pursue_speed"`
	AggroRange      float64 `toml:"aggro_range"`
	PursueDeadzone  float64 `toml:"pursue_deadzone"`
	HysteresisTicks int     `toml:"hysteresis_ticks"`
}

// JumpTunables configures Jumping, launch components in multiples of base speed
type JumpTunables struct {
	TriggerBand      float64 `toml:"trigger_band"`
	LaunchX          float64 `toml:"launch_x"`
	LaunchY          float64 `toml:"launch_y"`
	CooldownTicks    int     `toml:"cooldown_ticks"`
	MaxAirborneTicks int     `toml:"max_airborne_ticks"`
}

// RangedTunables configures RangedTactical
type RangedTunables struct {
	MinRange          float64 `toml:"min_range"`
	MaxRange          float64 `toml:"max_range"`
	RetreatSpeed      float64 `toml:"retreat_speed"`
	ApproachSpeed     float64 `toml:"approach_speed"`
	FireCooldownTicks int     `toml:"fire_cooldown_ticks"`
}

// FloatTunables configures Floating
type FloatTunables struct {
	HoverHeight  float64 `toml:"hover_height"`
	Amplitude    float64 `toml:"amplitude"`
	DriftRate    float64 `toml:"drift_rate"`
	Smoothing    float64 `toml:"smoothing"`
	ArriveRadius float64 `toml:"arrive_radius"`
}

// Tunables carries settings for every variant, only the selected variant's block is read
type Tunables struct {
	Patrol PatrolTunables `toml:"patrol"`
	Jump   JumpTunables   `toml:"jump"`
	Ranged RangedTunables `toml:"ranged"`
	Float  FloatTunables  `toml:"float"`
}

// DefaultTunables returns the built-in settings
func DefaultTunables() Tunables {
	return Tunables{
		Patrol: PatrolTunables{
			Radius:          parameter.PatrolRadius,
			Speed:           parameter.PatrolSpeed,
			PursueSpeed:     parameter.PursueSpeed,
			AggroRange:      parameter.PatrolAggroRange,
			PursueDeadzone:  parameter.PatrolPursueDeadzone,
			HysteresisTicks: parameter.PatrolHysteresisTicks,
		},
		Jump: JumpTunables{
			TriggerBand:      parameter.JumpTriggerBand,
			LaunchX:          parameter.JumpLaunchX,
			LaunchY:          parameter.JumpLaunchY,
			CooldownTicks:    parameter.JumpCooldownTicks,
			MaxAirborneTicks: parameter.JumpMaxAirborneTicks,
		},
		Ranged: RangedTunables{
			MinRange:          parameter.RangedMinRange,
			MaxRange:          parameter.RangedMaxRange,
			RetreatSpeed:      parameter.RangedRetreatSpeed,
			ApproachSpeed:     parameter.RangedApproachSpeed,
			FireCooldownTicks: parameter.RangedFireCooldownTicks,
		},
		Float: FloatTunables{
			HoverHeight:  parameter.FloatHoverHeight,
			Amplitude:    parameter.FloatAmplitude,
			DriftRate:    parameter.FloatDriftRate,
			Smoothing:    parameter.FloatSmoothing,
			ArriveRadius: parameter.FloatArriveRadius,
		},
	}
}

// Validate checks the block used by variant v
func (t Tunables) Validate(v Variant) error {
	var err error
	switch v {
	case VariantGroundPatrol:
		err = t.Patrol.validate()
	case VariantJumping:
		err = t.Jump.validate()
	case VariantRangedTactical:
		err = t.Ranged.validate()
	case VariantFloating:
		err = t.Float.validate()
	default:
		return fmt.Errorf("%w: %d", ErrUnknownVariant, v)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", v, err)
	}
	return nil
}

func invalid(field string, v any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalidTunables, field, v)
}

func (p PatrolTunables) validate() error {
	switch {
	case !vmath.AllFinite(p.Radius, p.Speed, p.PursueSpeed, p.AggroRange, p.PursueDeadzone):
		return fmt.Errorf("%w: non-finite value", ErrInvalidTunables)
	case p.Radius < 0:
		return invalid("radius", p.Radius)
	case p.Speed <= 0:
		return invalid("speed", p.Speed)
	case p.PursueSpeed <= 0:
		return invalid("pursue_speed", p.PursueSpeed)
	case p.AggroRange < 0:
		return invalid("aggro_range", p.AggroRange)
	case p.PursueDeadzone < 0:
		return invalid("pursue_deadzone", p.PursueDeadzone)
	case p.HysteresisTicks < 0:
		return invalid("hysteresis_ticks", p.HysteresisTicks)
	}
	return nil
}

func (j JumpTunables) validate() error {
	switch {
	case !vmath.AllFinite(j.TriggerBand, j.LaunchX, j.LaunchY):
		return fmt.Errorf("%w: non-finite value", ErrInvalidTunables)
	case j.TriggerBand < 0:
		return invalid("trigger_band", j.TriggerBand)
	case j.LaunchX < 0:
		return invalid("launch_x", j.LaunchX)
	case j.LaunchY <= 0:
		return invalid("launch_y", j.LaunchY)
	case j.CooldownTicks < 0:
		return invalid("cooldown_ticks", j.CooldownTicks)
	case j.MaxAirborneTicks <= 0:
		return invalid("max_airborne_ticks", j.MaxAirborneTicks)
	}
	return nil
}

func (r RangedTunables) validate() error {
	switch {
	case !vmath.AllFinite(r.MinRange, r.MaxRange, r.RetreatSpeed, r.ApproachSpeed):
		return fmt.Errorf("%w: non-finite value", ErrInvalidTunables)
	case r.MinRange < 0:
		return invalid("min_range", r.MinRange)
	case r.MaxRange < r.MinRange:
		return fmt.Errorf("%w: max_range %v below min_range %v", ErrInvalidTunables, r.MaxRange, r.MinRange)
	case r.RetreatSpeed <= 0:
		return invalid("retreat_speed", r.RetreatSpeed)
	case r.ApproachSpeed <= 0:
		return invalid("approach_speed", r.ApproachSpeed)
	case r.FireCooldownTicks < 0:
		return invalid("fire_cooldown_ticks", r.FireCooldownTicks)
	}
	return nil
}

func (f FloatTunables) validate() error {
	switch {
	case !vmath.AllFinite(f.HoverHeight, f.Amplitude, f.DriftRate, f.Smoothing, f.ArriveRadius):
		return fmt.Errorf("%w: non-finite value", ErrInvalidTunables)
	case f.Amplitude < 0:
		return invalid("amplitude", f.Amplitude)
	case f.Smoothing <= 0 || f.Smoothing > 1:
		return invalid("smoothing", f.Smoothing)
	case f.ArriveRadius <= 0:
		return invalid("arrive_radius", f.ArriveRadius)
	}
	return nil
}
