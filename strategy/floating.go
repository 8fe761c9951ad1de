package strategy

import (
	"math"

	"github.com/lixenwraith/npc-locomotion/capability"
	"github.com/lixenwraith/npc-locomotion/vmath"
)

// Floating hovers above its target on a slowly rotating offset
// Output is low-pass filtered so the mover drifts instead of tracking directly
type Floating struct {
	cfg FloatTunables

	phase   float64
	smoothX float64
	smoothY float64
}

func NewFloating(cfg FloatTunables) *Floating {
	return &Floating{cfg: cfg}
}

func (f *Floating) Variant() Variant { return VariantFloating }
func (f *Floating) State() string    { return "hover" }

// HoverPoint returns the current drift target for a given target position
func (f *Floating) HoverPoint(targetX, targetY float64) (float64, float64) {
	return targetX + f.cfg.Amplitude*math.Cos(f.phase),
		targetY - f.cfg.HoverHeight + 0.5*f.cfg.Amplitude*math.Sin(f.phase)
}

func (f *Floating) Decide(ctx Context, _ capability.Set, _ *Properties) Decision {
	if !ctx.Valid() {
		return Hold
	}

	f.phase = math.Mod(f.phase+f.cfg.DriftRate, 2*math.Pi)

	hx, hy := f.HoverPoint(ctx.TargetX, ctx.TargetY)
	ox, oy := hx-ctx.PosX, hy-ctx.PosY

	// Full speed outside the arrive radius, tapering inside it
	wantX, wantY := vmath.ClampMagnitude(ox/f.cfg.ArriveRadius, oy/f.cfg.ArriveRadius, 1)

	f.smoothX = vmath.Approach(f.smoothX, wantX, f.cfg.Smoothing)
	f.smoothY = vmath.Approach(f.smoothY, wantY, f.cfg.Smoothing)

	return Decision{VelX: f.smoothX, VelY: f.smoothY}
}
