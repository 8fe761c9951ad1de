package locomotion

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lixenwraith/npc-locomotion/capability"
	"github.com/lixenwraith/npc-locomotion/strategy"
	"github.com/lixenwraith/npc-locomotion/vmath"
)

var (
	ErrInvalidArchetype   = errors.New("invalid archetype")
	ErrDuplicateArchetype = errors.New("duplicate archetype")
	ErrUnknownArchetype   = errors.New("unknown archetype")
	ErrRegistrySealed     = errors.New("archetype registry sealed")
)

// Archetype is a registered enemy type, immutable after registration
type Archetype struct {
	Name            string
	Capabilities    capability.Set
	Variant         strategy.Variant
	BaseSpeed       float64
	GravityAffected bool
	Friction        float64
	Tunables        strategy.Tunables
}

// Registry holds archetypes registered at startup
// Sealed on first spawn, later registrations fail
type Registry struct {
	mu         sync.RWMutex
	archetypes map[string]*Archetype
	order      []string
	sealed     bool
}

func NewRegistry() *Registry {
	return &Registry{archetypes: make(map[string]*Archetype)}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register validates and stores an archetype
// Every failure is a configuration error and should stop startup
func (r *Registry) Register(a Archetype) error {
	name := normalizeName(a.Name)
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidArchetype)
	}
	if !(a.BaseSpeed > 0) || !vmath.IsFinite(a.BaseSpeed) {
		return fmt.Errorf("%w: %s: base speed %v", ErrInvalidArchetype, name, a.BaseSpeed)
	}
	if !(a.Friction >= 0) || !vmath.IsFinite(a.Friction) {
		return fmt.Errorf("%w: %s: friction %v", ErrInvalidArchetype, name, a.Friction)
	}
	// Build a throwaway instance so variant and tunables are checked together
	if _, err := strategy.New(a.Variant, a.Tunables); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidArchetype, name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: %s", ErrRegistrySealed, name)
	}
	if _, exists := r.archetypes[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateArchetype, name)
	}

	a.Name = name
	r.archetypes[name] = &a
	r.order = append(r.order, name)
	return nil
}

// Lookup returns a registered archetype
func (r *Registry) Lookup(name string) (*Archetype, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.archetypes[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
	}
	return a, nil
}

// Seal closes registration
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Names returns archetype names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
