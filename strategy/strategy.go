// Package strategy holds the per-archetype movement policies
// A strategy turns a tick snapshot into a velocity request and discrete actions, owning only its private timers
package strategy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lixenwraith/npc-locomotion/capability"
	"github.com/lixenwraith/npc-locomotion/terrain"
	"github.com/lixenwraith/npc-locomotion/vmath"
)

var (
	ErrUnknownVariant  = errors.New("unknown strategy variant")
	ErrInvalidTunables = errors.New("invalid strategy tunables")
)

// Context is the per-tick snapshot a strategy decides on
type Context struct {
	PosX, PosY       float64
	VelX, VelY       float64
	TargetX, TargetY float64
	HasTarget        bool
	HasLOS           bool
	Distance         float64
	Grounded         bool
	Terrain          terrain.Kind
}

// Valid reports whether the context carries a target and finite numbers
func (c Context) Valid() bool {
	return c.HasTarget && vmath.AllFinite(c.PosX, c.PosY, c.VelX, c.VelY, c.TargetX, c.TargetY, c.Distance)
}

// Delta returns the vector from mover to target
func (c Context) Delta() (dx, dy float64) {
	return c.TargetX - c.PosX, c.TargetY - c.PosY
}

// Properties is per-mover movement state owned by the mover entity
type Properties struct {
	BaseSpeed float64
	// CurrentSpeedMultiplier is rewritten every tick, never carried across ticks
	CurrentSpeedMultiplier float64
	GravityAffected        bool
	OnGround               bool
	Friction               float64
}

// Mode tells the coordinator how to interpret decision velocity
type Mode uint8

const (
	// ModeSteer velocity is in multiples of base speed and gets terrain scaling
	ModeSteer Mode = iota
	// ModeCarry keeps the mover's current velocity, used for ballistic flight
	ModeCarry
)

func (m Mode) String() string {
	if m == ModeCarry {
		return "carry"
	}
	return "steer"
}

// Action is an opaque request for the owning entity to interpret
type Action uint8

const (
	ActionJump Action = iota + 1
	ActionFire
	ActionStrafe
	ActionDash
)

func (a Action) String() string {
	switch a {
	case ActionJump:
		return "jump"
	case ActionFire:
		return "fire"
	case ActionStrafe:
		return "strafe"
	case ActionDash:
		return "dash"
	}
	return "none"
}

// Decision is the raw output of one Decide call
type Decision struct {
	VelX, VelY float64
	Mode       Mode
	Actions    []Action
}

// Hold is the zero decision
var Hold = Decision{}

func (d Decision) Has(a Action) bool {
	for _, x := range d.Actions {
		if x == a {
			return true
		}
	}
	return false
}

// Strategy is one mover's movement policy, instances are never shared between movers
type Strategy interface {
	Decide(ctx Context, caps capability.Set, props *Properties) Decision
	Variant() Variant
	State() string
}

// Variant selects a strategy implementation
type Variant uint8

const (
	VariantGroundPatrol Variant = iota
	VariantJumping
	VariantRangedTactical
	VariantFloating

	VariantCount
)

var variantNames = [VariantCount]string{
	VariantGroundPatrol:   "ground_patrol",
	VariantJumping:        "jumping",
	VariantRangedTactical: "ranged_tactical",
	VariantFloating:       "floating",
}

func (v Variant) String() string {
	if v >= VariantCount {
		return "unknown"
	}
	return variantNames[v]
}

// ParseVariant maps a config name to its Variant
func ParseVariant(name string) (Variant, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, vn := range variantNames {
		if vn == n {
			return Variant(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// New creates a fresh strategy instance for one mover
func New(v Variant, t Tunables) (Strategy, error) {
	if err := t.Validate(v); err != nil {
		return nil, err
	}
	switch v {
	case VariantGroundPatrol:
		return NewGroundPatrol(t.Patrol), nil
	case VariantJumping:
		return NewJumping(t.Jump), nil
	case VariantRangedTactical:
		return NewRangedTactical(t.Ranged), nil
	case VariantFloating:
		return NewFloating(t.Float), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, v)
}

// gravityAffected treats missing properties as a ground-bound mover
func gravityAffected(props *Properties) bool {
	return props == nil || props.GravityAffected
}
