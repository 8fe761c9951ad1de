package terrain

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/npc-locomotion/parameter"
)

var ErrInvalidEffect = errors.New("invalid terrain effect")

// Effect describes how a terrain kind perturbs a mover standing on it
type Effect struct {
	SpeedMultiplier   float64 // > 0
	ControlMultiplier float64 // (0, 1]
	PeriodicDamage    float64 // >= 0, per damage interval
	Status            Status

	// RequiredCapability gates entry, empty means anyone may enter
	RequiredCapability string
	// MitigatedBy lists capability tags that fully suppress the hazard
	MitigatedBy []string

	// StuckChance is the per-tick probability of losing all velocity, StatusStuck only
	StuckChance float64

	// Slide pulls velocity toward (SlideX, SlideY) by SlideBlend, StatusSlide only
	// A zero direction keeps the mover's own momentum
	SlideBlend float64
	SlideX     float64
	SlideY     float64
}

// Validate checks effect ranges
func (e Effect) Validate() error {
	switch {
	case !(e.SpeedMultiplier > 0):
		return fmt.Errorf("%w: speed multiplier %v must be > 0", ErrInvalidEffect, e.SpeedMultiplier)
	case !(e.ControlMultiplier > 0 && e.ControlMultiplier <= 1):
		return fmt.Errorf("%w: control multiplier %v outside (0, 1]", ErrInvalidEffect, e.ControlMultiplier)
	case !(e.PeriodicDamage >= 0):
		return fmt.Errorf("%w: periodic damage %v must be >= 0", ErrInvalidEffect, e.PeriodicDamage)
	case !(e.StuckChance >= 0 && e.StuckChance <= 1):
		return fmt.Errorf("%w: stuck chance %v outside [0, 1]", ErrInvalidEffect, e.StuckChance)
	case !(e.SlideBlend >= 0 && e.SlideBlend <= 1):
		return fmt.Errorf("%w: slide blend %v outside [0, 1]", ErrInvalidEffect, e.SlideBlend)
	case int(e.Status) >= len(statusNames):
		return fmt.Errorf("%w: unknown status %d", ErrInvalidEffect, e.Status)
	}
	return nil
}

// Hazardous reports whether the effect deals damage or applies a status
func (e Effect) Hazardous() bool {
	return e.PeriodicDamage > 0 || e.Status != StatusNone
}

// Table maps every Kind to exactly one Effect
type Table [KindCount]Effect

var defaultTable = Table{
	Normal: {
		SpeedMultiplier:   1,
		ControlMultiplier: 1,
	},
	Rough: {
		SpeedMultiplier:   parameter.TerrainRoughSpeed,
		ControlMultiplier: parameter.TerrainRoughControl,
		MitigatedBy:       []string{"strong"},
	},
	Water: {
		SpeedMultiplier:    parameter.TerrainWaterSpeed,
		ControlMultiplier:  parameter.TerrainWaterControl,
		Status:             StatusSlow,
		RequiredCapability: "amphibious",
		MitigatedBy:        []string{"amphibious"},
	},
	Mud: {
		SpeedMultiplier:   parameter.TerrainMudSpeed,
		ControlMultiplier: parameter.TerrainMudControl,
		Status:            StatusSlow,
	},
	Ice: {
		SpeedMultiplier:   parameter.TerrainIceSpeed,
		ControlMultiplier: parameter.TerrainIceControl,
		Status:            StatusSlide,
		SlideBlend:        parameter.TerrainIceSlideBlend,
	},
	Lava: {
		SpeedMultiplier:   parameter.TerrainLavaSpeed,
		ControlMultiplier: parameter.TerrainLavaControl,
		PeriodicDamage:    parameter.TerrainLavaDamage,
		Status:            StatusBurn,
		MitigatedBy:       []string{"fire_resistant"},
	},
	Toxic: {
		SpeedMultiplier:   parameter.TerrainToxicSpeed,
		ControlMultiplier: parameter.TerrainToxicControl,
		PeriodicDamage:    parameter.TerrainToxicDamage,
		Status:            StatusPoison,
		MitigatedBy:       []string{"poison_resistant"},
	},
	Steep: {
		SpeedMultiplier:   parameter.TerrainSteepSpeed,
		ControlMultiplier: parameter.TerrainSteepControl,
		Status:            StatusSlide,
		MitigatedBy:       []string{"jumping"},
		SlideBlend:        parameter.TerrainSteepSlideBlend,
		SlideY:            parameter.TerrainSteepSlideY,
	},
	Narrow: {
		SpeedMultiplier:    parameter.TerrainNarrowSpeed,
		ControlMultiplier:  1,
		RequiredCapability: "narrow",
		MitigatedBy:        []string{"small"},
	},
	Destructible: {
		SpeedMultiplier:    parameter.TerrainDestructibleSpeed,
		ControlMultiplier:  parameter.TerrainDestructibleControl,
		PeriodicDamage:     parameter.TerrainDestructibleDamage,
		Status:             StatusStuck,
		RequiredCapability: "strong",
		MitigatedBy:        []string{"destructible"},
		StuckChance:        parameter.TerrainDestructibleStuckChance,
	},
}

// DefaultTable returns a copy of the built-in effect table
func DefaultTable() Table {
	t := defaultTable
	for i := range t {
		t[i].MitigatedBy = append([]string(nil), defaultTable[i].MitigatedBy...)
	}
	return t
}

// Of returns the effect for k, kinds outside the table resolve to Normal
func (t *Table) Of(k Kind) Effect {
	if k >= KindCount {
		return t[Normal]
	}
	return t[k]
}

// Set replaces the effect for k after validating it
// Intended for startup configuration, not for use while ticks are running
func (t *Table) Set(k Kind, e Effect) error {
	if k >= KindCount {
		return fmt.Errorf("%w: kind %d out of range", ErrInvalidEffect, k)
	}
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%s: %w", k, err)
	}
	t[k] = e
	return nil
}

// EffectOf returns the built-in effect for k, total over all inputs
func EffectOf(k Kind) Effect {
	return defaultTable.Of(k)
}
