package strategy

import (
	"github.com/lixenwraith/npc-locomotion/capability"
	"github.com/lixenwraith/npc-locomotion/vmath"
)

// PatrolState is the GroundPatrol state machine
type PatrolState uint8

const (
	PatrolWalking PatrolState = iota
	PatrolPursuing
)

// GroundPatrol walks a segment around its spawn point and chases a visible target
// Gaps and ledges are the caller's problem
type GroundPatrol struct {
	cfg PatrolTunables

	state     PatrolState
	homeX     float64
	homeSet   bool
	dir       float64
	lostTicks int
}

func NewGroundPatrol(cfg PatrolTunables) *GroundPatrol {
	return &GroundPatrol{cfg: cfg, dir: 1}
}

func (g *GroundPatrol) Variant() Variant { return VariantGroundPatrol }

func (g *GroundPatrol) State() string {
	if g.state == PatrolPursuing {
		return "pursue"
	}
	return "patrol"
}

// Pursuing reports the current machine state
func (g *GroundPatrol) Pursuing() bool { return g.state == PatrolPursuing }

func (g *GroundPatrol) Decide(ctx Context, _ capability.Set, _ *Properties) Decision {
	if !ctx.Valid() {
		return Hold
	}

	// Home latches on the first usable snapshot
	if !g.homeSet {
		g.homeX = ctx.PosX
		g.homeSet = true
	}

	engaged := ctx.HasLOS && ctx.Distance <= g.cfg.AggroRange

	switch g.state {
	case PatrolWalking:
		if engaged {
			g.state = PatrolPursuing
			g.lostTicks = 0
		}
	case PatrolPursuing:
		if engaged {
			g.lostTicks = 0
		} else {
			g.lostTicks++
			// Pursuit survives HysteresisTicks lost ticks, gives up on the next one
			if g.lostTicks > g.cfg.HysteresisTicks {
				g.state = PatrolWalking
				g.lostTicks = 0
			}
		}
	}

	if g.state == PatrolPursuing {
		dx, _ := ctx.Delta()
		return Decision{VelX: vmath.SignDeadzone(dx, g.cfg.PursueDeadzone) * g.cfg.PursueSpeed}
	}
	return Decision{VelX: g.patrolStep(ctx.PosX)}
}

// patrolStep flips direction at either bound of the segment
func (g *GroundPatrol) patrolStep(x float64) float64 {
	if g.cfg.Radius == 0 {
		return 0
	}
	switch {
	case x >= g.homeX+g.cfg.Radius:
		g.dir = -1
	case x <= g.homeX-g.cfg.Radius:
		g.dir = 1
	}
	return g.dir * g.cfg.Speed
}
