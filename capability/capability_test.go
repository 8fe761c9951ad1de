package capability

import (
	"math"
	"testing"

	"github.com/lixenwraith/npc-locomotion/terrain"
)

// TestCanEnter_FlyingBypassesAll verifies flying sets enter every terrain
func TestCanEnter_FlyingBypassesAll(t *testing.T) {
	for _, caps := range []Set{New(Flying), New("AIR"), New(Ground, " Flying ")} {
		for k := terrain.Normal; k < terrain.KindCount; k++ {
			if !CanEnter(caps, terrain.EffectOf(k)) {
				t.Errorf("%s denied entry to %s", caps, k)
			}
		}
	}
}

func TestCanEnter_Gating(t *testing.T) {
	tests := []struct {
		name string
		caps Set
		kind terrain.Kind
		want bool
	}{
		{"ground on normal", New(Ground), terrain.Normal, true},
		{"ground on water", New(Ground), terrain.Water, false},
		{"amphibious on water", New(Ground, Amphibious), terrain.Water, true},
		{"ground on narrow", New(Ground), terrain.Narrow, false},
		{"narrow on narrow", New(Ground, Small, Narrow), terrain.Narrow, true},
		{"ground on destructible", New(Ground), terrain.Destructible, false},
		{"strong on destructible", New(Ground, Strong), terrain.Destructible, true},
		{"empty on lava", New(), terrain.Lava, true},
		{"zero set on water", Set{}, terrain.Water, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanEnter(tt.caps, terrain.EffectOf(tt.kind)); got != tt.want {
				t.Errorf("CanEnter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMitigationFactor(t *testing.T) {
	tests := []struct {
		name string
		caps Set
		kind terrain.Kind
		want float64
	}{
		{"golem on lava", New(Ground, Strong, Destructible, FireResistant), terrain.Lava, 1},
		{"ground on lava", New(Ground), terrain.Lava, 0},
		{"poison resistant on toxic", New(PoisonResistant), terrain.Toxic, 1},
		{"fire resistant on toxic", New(FireResistant), terrain.Toxic, 0},
		{"boss on destructible", New(Ground, Strong, Destructible), terrain.Destructible, 1},
		{"normal never mitigated", New(Ground, Strong), terrain.Normal, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MitigationFactor(tt.caps, terrain.EffectOf(tt.kind)); got != tt.want {
				t.Errorf("MitigationFactor = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestComposesWithNewTerrain verifies a custom effect gates on tags alone
func TestComposesWithNewTerrain(t *testing.T) {
	custom := terrain.Effect{
		SpeedMultiplier:    0.5,
		ControlMultiplier:  1,
		PeriodicDamage:     3,
		RequiredCapability: "burrowing",
		MitigatedBy:        []string{"armored"},
	}
	if CanEnter(New(Ground), custom) {
		t.Error("ground entered burrowing terrain")
	}
	if !CanEnter(New("burrowing"), custom) {
		t.Error("burrower denied")
	}
	if MitigationFactor(New("burrowing", "ARMORED"), custom) != 1 {
		t.Error("armored not mitigated")
	}
}

func TestTraversal(t *testing.T) {
	ground := New(Ground)
	if c := Traversal(ground, terrain.EffectOf(terrain.Normal)); c != 1 {
		t.Errorf("normal cost = %v, want 1", c)
	}
	if c := Traversal(ground, terrain.EffectOf(terrain.Water)); !math.IsInf(c, 1) {
		t.Errorf("forbidden cost = %v, want +Inf", c)
	}
	mud := Traversal(ground, terrain.EffectOf(terrain.Mud))
	if math.Abs(mud-2.5) > 1e-9 {
		t.Errorf("mud cost = %v, want 2.5", mud)
	}
	lava := Traversal(ground, terrain.EffectOf(terrain.Lava))
	safe := Traversal(New(FireResistant), terrain.EffectOf(terrain.Lava))
	if !(safe < lava) || safe != 1 {
		t.Errorf("mitigated lava cost %v should be 1 and below %v", safe, lava)
	}
}

func TestSet_Tags(t *testing.T) {
	s := New("b", "A", "", "a")
	tags := s.Tags()
	if len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("Tags = %v", tags)
	}
	if s.String() != "{a, b}" {
		t.Errorf("String = %q", s.String())
	}
}
