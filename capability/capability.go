// Package capability decides which terrain a mover may enter and which hazards it shrugs off
// Decisions are tag intersections, archetypes and terrains compose without special cases
package capability

import (
	"math"
	"sort"
	"strings"

	"github.com/lixenwraith/npc-locomotion/parameter"
	"github.com/lixenwraith/npc-locomotion/terrain"
)

// Well-known tags
const (
	Ground          = "ground"
	Flying          = "flying"
	Air             = "air" // alias of Flying
	Amphibious      = "amphibious"
	Floating        = "floating"
	Small           = "small"
	Narrow          = "narrow"
	Strong          = "strong"
	Destructible    = "destructible"
	FireResistant   = "fire_resistant"
	PoisonResistant = "poison_resistant"
	Jumping         = "jumping"
)

// Set is an immutable set of capability tags
// Built once per archetype and shared read-only by its movers
type Set struct {
	tags map[string]struct{}
}

// New builds a set, tags are trimmed and lower-cased, empty tags are dropped
func New(tags ...string) Set {
	s := Set{tags: make(map[string]struct{}, len(tags))}
	for _, t := range tags {
		t = normalize(t)
		if t == "" {
			continue
		}
		s.tags[t] = struct{}{}
	}
	return s
}

func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func (s Set) Has(tag string) bool {
	if s.tags == nil {
		return false
	}
	_, ok := s.tags[normalize(tag)]
	return ok
}

// Intersects reports whether any of tags is in the set
func (s Set) Intersects(tags []string) bool {
	for _, t := range tags {
		if s.Has(t) {
			return true
		}
	}
	return false
}

// Flies reports whether the set bypasses ground restrictions
func (s Set) Flies() bool {
	return s.Has(Flying) || s.Has(Air)
}

func (s Set) Len() int { return len(s.tags) }

// Tags returns the sorted tag list
func (s Set) Tags() []string {
	out := make([]string, 0, len(s.tags))
	for t := range s.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (s Set) String() string {
	return "{" + strings.Join(s.Tags(), ", ") + "}"
}

// CanEnter reports whether a mover with caps may stand on terrain with effect e
func CanEnter(caps Set, e terrain.Effect) bool {
	if e.RequiredCapability == "" {
		return true
	}
	return caps.Has(e.RequiredCapability) || caps.Flies()
}

// MitigationFactor returns 1 when caps names one of the effect's mitigating traits, else 0
func MitigationFactor(caps Set, e terrain.Effect) float64 {
	if caps.Intersects(e.MitigatedBy) {
		return 1
	}
	return 0
}

// Traversal returns the relative cost of crossing one tile of e
// +Inf when the tile cannot be entered, 1 for Normal ground
func Traversal(caps Set, e terrain.Effect) float64 {
	if !CanEnter(caps, e) {
		return math.Inf(1)
	}
	m := MitigationFactor(caps, e)
	speed := 1 - (1-e.SpeedMultiplier)*(1-m)
	if speed <= 0 {
		return math.Inf(1)
	}
	return 1/speed + e.PeriodicDamage*(1-m)*parameter.TraversalDamageWeight
}
