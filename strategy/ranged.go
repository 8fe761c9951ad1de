package strategy

import (
	"github.com/lixenwraith/npc-locomotion/capability"
	"github.com/lixenwraith/npc-locomotion/vmath"
)

type rangedBand uint8

const (
	bandHold rangedBand = iota
	bandRetreat
	bandApproach
)

var rangedBandNames = [...]string{"hold", "retreat", "approach"}

// RangedTactical keeps its target inside [MinRange, MaxRange] and fires from inside the band
// Band edges count as inside
type RangedTactical struct {
	cfg RangedTunables

	band      rangedBand
	sinceFire int
}

func NewRangedTactical(cfg RangedTunables) *RangedTactical {
	// First shot is available immediately
	return &RangedTactical{cfg: cfg, sinceFire: cfg.FireCooldownTicks}
}

func (r *RangedTactical) Variant() Variant { return VariantRangedTactical }
func (r *RangedTactical) State() string    { return rangedBandNames[r.band] }

func (r *RangedTactical) Decide(ctx Context, _ capability.Set, props *Properties) Decision {
	if !ctx.Valid() {
		return Hold
	}
	if r.sinceFire < r.cfg.FireCooldownTicks {
		r.sinceFire++
	}

	prev := r.band
	switch {
	case ctx.Distance < r.cfg.MinRange:
		r.band = bandRetreat
	case ctx.Distance > r.cfg.MaxRange:
		r.band = bandApproach
	default:
		r.band = bandHold
	}

	if r.band == bandHold {
		if ctx.HasLOS && r.sinceFire >= r.cfg.FireCooldownTicks {
			r.sinceFire = 0
			return Decision{Actions: []Action{ActionFire}}
		}
		return Hold
	}

	speed := r.cfg.ApproachSpeed
	sign := 1.0
	if r.band == bandRetreat {
		speed = r.cfg.RetreatSpeed
		sign = -1
	}

	dx, dy := ctx.Delta()
	var d Decision
	if gravityAffected(props) {
		d.VelX = sign * vmath.Sign(dx) * speed
	} else {
		nx, ny := vmath.Normalize2D(dx, dy)
		d.VelX = sign * nx * speed
		d.VelY = sign * ny * speed
	}
	if r.band == bandRetreat && prev != bandRetreat {
		d.Actions = []Action{ActionStrafe}
	}
	return d
}
