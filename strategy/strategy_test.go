package strategy

import (
	"errors"
	"math"
	"testing"

	"github.com/lixenwraith/npc-locomotion/capability"
)

var groundCaps = capability.New(capability.Ground)

func target(posX, targetX float64, los bool) Context {
	return Context{
		PosX:      posX,
		TargetX:   targetX,
		HasTarget: true,
		HasLOS:    los,
		Distance:  math.Abs(targetX - posX),
		Grounded:  true,
	}
}

// TestGroundPatrol_HysteresisHoldsPursuit verifies pursuit survives lost contact for HysteresisTicks
func TestGroundPatrol_HysteresisHoldsPursuit(t *testing.T) {
	cfg := DefaultTunables().Patrol
	cfg.HysteresisTicks = 5
	g := NewGroundPatrol(cfg)

	d := g.Decide(target(0, 100, true), groundCaps, nil)
	if !g.Pursuing() {
		t.Fatal("expected pursue after engagement")
	}
	if d.VelX != cfg.PursueSpeed {
		t.Errorf("pursue velocity = %v, want %v", d.VelX, cfg.PursueSpeed)
	}

	// LOS lost on the very next tick
	for i := 1; i <= cfg.HysteresisTicks; i++ {
		g.Decide(target(0, 100, false), groundCaps, nil)
		if !g.Pursuing() {
			t.Fatalf("dropped pursuit after %d lost ticks", i)
		}
	}
	g.Decide(target(0, 100, false), groundCaps, nil)
	if g.Pursuing() {
		t.Error("expected patrol after hysteresis expired")
	}
}

func TestGroundPatrol_ContactResetsHysteresis(t *testing.T) {
	cfg := DefaultTunables().Patrol
	cfg.HysteresisTicks = 3
	g := NewGroundPatrol(cfg)

	g.Decide(target(0, 50, true), groundCaps, nil)
	for i := 0; i < 10; i++ {
		// Alternating contact never accumulates enough lost ticks
		g.Decide(target(0, 50, i%2 == 0), groundCaps, nil)
		if !g.Pursuing() {
			t.Fatalf("pursuit dropped at tick %d", i)
		}
	}

	// Out of range with LOS counts as lost
	for i := 0; i <= cfg.HysteresisTicks; i++ {
		g.Decide(target(0, cfg.AggroRange+1, true), groundCaps, nil)
	}
	if g.Pursuing() {
		t.Error("out-of-range target should end pursuit")
	}
}

func TestGroundPatrol_Deadzone(t *testing.T) {
	cfg := DefaultTunables().Patrol
	g := NewGroundPatrol(cfg)
	d := g.Decide(target(100, 103, true), groundCaps, nil)
	if !g.Pursuing() || d.VelX != 0 {
		t.Errorf("inside deadzone expected hold, got %v (pursuing %v)", d.VelX, g.Pursuing())
	}
	d = g.Decide(target(100, 20, true), groundCaps, nil)
	if d.VelX >= 0 {
		t.Errorf("target to the left, got %v", d.VelX)
	}
}

// TestGroundPatrol_Oscillates verifies the walker turns at both bounds
func TestGroundPatrol_Oscillates(t *testing.T) {
	cfg := DefaultTunables().Patrol
	cfg.Radius = 10
	g := NewGroundPatrol(cfg)

	x := 0.0
	minX, maxX := x, x
	far := Context{HasTarget: true, TargetX: 1e4, Distance: 1e4}
	for i := 0; i < 200; i++ {
		far.PosX = x
		d := g.Decide(far, groundCaps, nil)
		if math.Abs(d.VelX) != cfg.Speed {
			t.Fatalf("patrol speed %v, want %v", d.VelX, cfg.Speed)
		}
		x += d.VelX
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
	}
	if maxX > 11 || minX < -11 {
		t.Errorf("left patrol segment: [%v, %v]", minX, maxX)
	}
	if maxX < 9 || minX > -9 {
		t.Errorf("did not cover segment: [%v, %v]", minX, maxX)
	}
}

func TestJumping_NoDoubleJump(t *testing.T) {
	cfg := DefaultTunables().Jump
	cfg.CooldownTicks = 3
	j := NewJumping(cfg)

	ctx := target(0, 50, true)
	d := j.Decide(ctx, groundCaps, nil)
	if !d.Has(ActionJump) {
		t.Fatal("expected jump request")
	}
	if d.VelX != cfg.LaunchX || d.VelY != -cfg.LaunchY {
		t.Errorf("launch = (%v, %v)", d.VelX, d.VelY)
	}

	// Caller still reports grounded on the next tick, must not re-launch
	d = j.Decide(ctx, groundCaps, nil)
	if d.Has(ActionJump) || d.Mode != ModeCarry {
		t.Fatalf("expected ballistic carry, got %+v", d)
	}

	airborne := ctx
	airborne.Grounded = false
	for i := 0; i < 5; i++ {
		if d := j.Decide(airborne, groundCaps, nil); d.Mode != ModeCarry || d.Has(ActionJump) {
			t.Fatalf("airborne tick %d: %+v", i, d)
		}
	}

	// Landing enters cooldown
	j.Decide(ctx, groundCaps, nil)
	if j.Phase() != JumpCooldown {
		t.Fatalf("expected cooldown, got %s", j.State())
	}

	jumps := 0
	for i := 0; i < cfg.CooldownTicks; i++ {
		if j.Decide(ctx, groundCaps, nil).Has(ActionJump) {
			jumps++
		}
	}
	if jumps != 0 {
		t.Errorf("jumped during cooldown %d times", jumps)
	}
	if j.Phase() != JumpGrounded {
		t.Fatalf("expected grounded after cooldown, got %s", j.State())
	}
	if !j.Decide(ctx, groundCaps, nil).Has(ActionJump) {
		t.Error("expected jump after cooldown completed")
	}
}

func TestJumping_AirborneSafetyNet(t *testing.T) {
	cfg := DefaultTunables().Jump
	cfg.MaxAirborneTicks = 4
	j := NewJumping(cfg)

	ctx := target(0, 10, true)
	j.Decide(ctx, groundCaps, nil)
	// Ground sensor never flips
	for i := 0; i < cfg.MaxAirborneTicks; i++ {
		j.Decide(ctx, groundCaps, nil)
	}
	if j.Phase() != JumpCooldown {
		t.Errorf("expected forced landing, got %s", j.State())
	}
}

// TestJumping_NeverLaunchesWithoutGround feeds a mover that never touches ground, e.g. after walking off a ledge
func TestJumping_NeverLaunchesWithoutGround(t *testing.T) {
	j := NewJumping(DefaultTunables().Jump)
	ctx := target(0, 50, true)
	ctx.Grounded = false

	jumps := 0
	for i := 0; i < 400; i++ {
		if j.Decide(ctx, groundCaps, nil).Has(ActionJump) {
			jumps++
		}
	}
	if jumps != 0 {
		t.Errorf("jump requests while never grounded over 400 ticks: %d", jumps)
	}
	if j.Phase() != JumpGrounded {
		t.Errorf("expected grounded phase while falling, got %s", j.State())
	}

	// First ground contact allows the launch
	ctx.Grounded = true
	if !j.Decide(ctx, groundCaps, nil).Has(ActionJump) {
		t.Error("expected jump once grounded")
	}
}

func TestJumping_CancelLaunch(t *testing.T) {
	cfg := DefaultTunables().Jump
	cfg.CooldownTicks = 2
	j := NewJumping(cfg)

	ctx := target(0, 20, true)
	if !j.Decide(ctx, groundCaps, nil).Has(ActionJump) {
		t.Fatal("expected jump request")
	}
	j.CancelLaunch()
	if j.Phase() != JumpCooldown {
		t.Fatalf("cancelled launch should cool down, got %s", j.State())
	}
	for i := 0; i < cfg.CooldownTicks; i++ {
		if j.Decide(ctx, groundCaps, nil).Has(ActionJump) {
			t.Fatalf("relaunched during cooldown tick %d", i)
		}
	}
	if !j.Decide(ctx, groundCaps, nil).Has(ActionJump) {
		t.Error("expected jump after cooldown")
	}

	// Cancelling outside a launch changes nothing
	j2 := NewJumping(cfg)
	j2.CancelLaunch()
	if j2.Phase() != JumpGrounded {
		t.Errorf("cancel on idle jumper moved it to %s", j2.State())
	}
}

func TestJumping_TriggerBand(t *testing.T) {
	cfg := DefaultTunables().Jump
	j := NewJumping(cfg)
	if j.Decide(target(0, cfg.TriggerBand+1, true), groundCaps, nil).Has(ActionJump) {
		t.Error("jumped outside band")
	}
	if j.Decide(target(0, 10, false), groundCaps, nil).Has(ActionJump) {
		t.Error("jumped without LOS")
	}
	if !j.Decide(target(0, -cfg.TriggerBand, true), groundCaps, nil).Has(ActionJump) {
		t.Error("band edge should trigger")
	}
}

// TestRanged_BandEdgesHold verifies exact band edges never move the mover
func TestRanged_BandEdgesHold(t *testing.T) {
	cfg := DefaultTunables().Ranged
	props := &Properties{BaseSpeed: 1, GravityAffected: true}

	for _, dist := range []float64{cfg.MinRange, cfg.MaxRange} {
		r := NewRangedTactical(cfg)
		d := r.Decide(target(0, dist, false), groundCaps, props)
		if d.VelX != 0 || d.VelY != 0 {
			t.Errorf("distance %v: expected hold, got (%v, %v)", dist, d.VelX, d.VelY)
		}
	}

	r := NewRangedTactical(cfg)
	if d := r.Decide(target(0, cfg.MaxRange+0.01, false), groundCaps, props); d.VelX <= 0 {
		t.Errorf("beyond max should approach, got %v", d.VelX)
	}
	d := r.Decide(target(0, cfg.MinRange-0.01, false), groundCaps, props)
	if d.VelX >= 0 {
		t.Errorf("inside min should retreat, got %v", d.VelX)
	}
	if !d.Has(ActionStrafe) {
		t.Error("entering retreat should request strafe")
	}
	if r.Decide(target(0, cfg.MinRange-1, false), groundCaps, props).Has(ActionStrafe) {
		t.Error("strafe repeated while already retreating")
	}
}

func TestRanged_FireCooldown(t *testing.T) {
	cfg := DefaultTunables().Ranged
	cfg.FireCooldownTicks = 4
	r := NewRangedTactical(cfg)
	ctx := target(0, (cfg.MinRange+cfg.MaxRange)/2, true)

	var fired []int
	for i := 0; i < 13; i++ {
		if r.Decide(ctx, groundCaps, nil).Has(ActionFire) {
			fired = append(fired, i)
		}
	}
	want := []int{0, 4, 8, 12}
	if len(fired) != len(want) {
		t.Fatalf("fired at %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("fired at %v, want %v", fired, want)
			break
		}
	}

	noLOS := ctx
	noLOS.HasLOS = false
	r = NewRangedTactical(cfg)
	if r.Decide(noLOS, groundCaps, nil).Has(ActionFire) {
		t.Error("fired without LOS")
	}
}

func TestRanged_VerticalWhenNotGravityBound(t *testing.T) {
	cfg := DefaultTunables().Ranged
	r := NewRangedTactical(cfg)
	ctx := Context{HasTarget: true, TargetX: 0, TargetY: 1000, Distance: 1000}
	d := r.Decide(ctx, groundCaps, &Properties{GravityAffected: false})
	if d.VelY <= 0 {
		t.Errorf("expected vertical approach, got (%v, %v)", d.VelX, d.VelY)
	}
	if mag := math.Hypot(d.VelX, d.VelY); math.Abs(mag-cfg.ApproachSpeed) > 1e-9 {
		t.Errorf("approach magnitude %v, want %v", mag, cfg.ApproachSpeed)
	}
}

// TestFloating_Smooths verifies output moves gradually and stays bounded
func TestFloating_Smooths(t *testing.T) {
	cfg := DefaultTunables().Float
	f := NewFloating(cfg)
	ctx := Context{PosX: 0, PosY: 0, TargetX: 500, TargetY: 0, HasTarget: true, Distance: 500, Grounded: true}

	first := f.Decide(ctx, capability.New(capability.Flying), nil)
	if mag := math.Hypot(first.VelX, first.VelY); mag > cfg.Smoothing+1e-9 {
		t.Errorf("first step magnitude %v exceeds smoothing %v", mag, cfg.Smoothing)
	}

	var last Decision
	for i := 0; i < 200; i++ {
		last = f.Decide(ctx, capability.Set{}, nil)
		if mag := math.Hypot(last.VelX, last.VelY); mag > 1+1e-9 {
			t.Fatalf("velocity magnitude %v above 1", mag)
		}
	}
	if last.VelX <= 0.5 {
		t.Errorf("expected drift toward distant target, got %v", last.VelX)
	}
	// Hover point is above the target
	if last.VelY >= 0 {
		t.Errorf("expected upward drift toward hover height, got %v", last.VelY)
	}
}

// TestStrategies_InvalidContextHolds verifies every variant is total over bad input
func TestStrategies_InvalidContextHolds(t *testing.T) {
	bad := []Context{
		{},
		{HasTarget: true, PosX: math.NaN()},
		{HasTarget: true, Distance: math.Inf(1)},
		{HasTarget: true, TargetY: math.Inf(-1)},
	}
	for v := Variant(0); v < VariantCount; v++ {
		s, err := New(v, DefaultTunables())
		if err != nil {
			t.Fatalf("New(%s): %v", v, err)
		}
		for i, ctx := range bad {
			d := s.Decide(ctx, groundCaps, nil)
			if d.VelX != 0 || d.VelY != 0 || len(d.Actions) != 0 || d.Mode != ModeSteer {
				t.Errorf("%s case %d: expected hold, got %+v", v, i, d)
			}
		}
	}
}

func TestNew_ValidatesTunables(t *testing.T) {
	tun := DefaultTunables()
	tun.Ranged.MaxRange = tun.Ranged.MinRange - 1
	if _, err := New(VariantRangedTactical, tun); !errors.Is(err, ErrInvalidTunables) {
		t.Errorf("expected ErrInvalidTunables, got %v", err)
	}
	// Other variants ignore the broken block
	if _, err := New(VariantGroundPatrol, tun); err != nil {
		t.Errorf("patrol rejected unrelated block: %v", err)
	}

	tun = DefaultTunables()
	tun.Float.Smoothing = 0
	if _, err := New(VariantFloating, tun); !errors.Is(err, ErrInvalidTunables) {
		t.Errorf("expected ErrInvalidTunables for smoothing 0, got %v", err)
	}
	if _, err := New(VariantCount, DefaultTunables()); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestParseVariant(t *testing.T) {
	for v := Variant(0); v < VariantCount; v++ {
		got, err := ParseVariant(v.String())
		if err != nil || got != v {
			t.Errorf("ParseVariant(%q) = %v, %v", v.String(), got, err)
		}
	}
	if _, err := ParseVariant("teleporting"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}
