// Package config loads archetypes, terrain overrides and the test room from TOML
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/lixenwraith/npc-locomotion/capability"
	"github.com/lixenwraith/npc-locomotion/locomotion"
	"github.com/lixenwraith/npc-locomotion/parameter"
	"github.com/lixenwraith/npc-locomotion/strategy"
	"github.com/lixenwraith/npc-locomotion/terrain"
	"github.com/lixenwraith/npc-locomotion/toml"
)

//go:embed default.toml
var embeddedDefault []byte

// DefaultConfigPath is the external config picked up when no custom path is given
var DefaultConfigPath = path.Join(parameter.ConfigDefaultDir, parameter.ConfigDefaultFile)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrUnknownTerrain = errors.New("unknown terrain kind")
	ErrUnknownStatus  = errors.New("unknown terrain status")
)

// File is the decoded configuration document
type File struct {
	DamageIntervalTicks int                        `toml:"damage_interval_ticks"`
	Room                RoomConfig                 `toml:"room"`
	Terrain             map[string]TerrainOverride `toml:"terrain"`
	Archetypes          []ArchetypeConfig          `toml:"archetypes"`
}

// RoomConfig is the sandbox test room, one layout string per tile row
type RoomConfig struct {
	TileSize float64  `toml:"tile_size"`
	Layout   []string `toml:"layout"`
}

// TerrainOverride replaces individual fields of a default terrain effect, nil fields keep the default
type TerrainOverride struct {
	Speed       *float64  `toml:"speed"`
	Control     *float64  `toml:"control"`
	Damage      *float64  `toml:"damage"`
	Status      *string   `toml:"status"`
	Required    *string   `toml:"required"`
	MitigatedBy *[]string `toml:"mitigated_by"`
	StuckChance *float64  `toml:"stuck_chance"`
	SlideBlend  *float64  `toml:"slide_blend"`
	SlideX      *float64  `toml:"slide_x"`
	SlideY      *float64  `toml:"slide_y"`
}

// ArchetypeConfig describes one archetype, omitted tunables keep the built-in defaults
type ArchetypeConfig struct {
	Name            string            `toml:"name"`
	Variant         string            `toml:"variant"`
	Capabilities    []string          `toml:"capabilities"`
	BaseSpeed       float64           `toml:"base_speed"`
	GravityAffected bool              `toml:"gravity_affected"`
	Friction        float64           `toml:"friction"`
	Tunables        strategy.Tunables `toml:"tunables"`
}

func defaultArchetype() ArchetypeConfig {
	return ArchetypeConfig{
		GravityAffected: parameter.ArchetypeDefaultGravity,
		Friction:        parameter.ArchetypeDefaultFriction,
		Tunables:        strategy.DefaultTunables(),
	}
}

// Default returns the embedded configuration
func Default() (*File, error) {
	f, err := Parse(embeddedDefault)
	if err != nil {
		return nil, fmt.Errorf("embedded config: %w", err)
	}
	return f, nil
}

// Load reads config with priority: customPath > DefaultConfigPath > embedded
func Load(customPath string) (*File, error) {
	// Priority 1: Custom path from CLI
	if customPath != "" {
		return LoadFromPath(customPath)
	}

	// Priority 2: Default external config
	if fileExists(DefaultConfigPath) {
		return LoadFromPath(DefaultConfigPath)
	}

	// Priority 3: Embedded fallback
	return Default()
}

// LoadFromPath reads and parses a config file
func LoadFromPath(configPath string) (*File, error) {
	if !fileExists(configPath) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	return f, nil
}

// Parse decodes a config document, unknown keys are errors
func Parse(data []byte) (*File, error) {
	doc, err := toml.Parse(data)
	if err != nil {
		return nil, err
	}

	// Archetypes decode one by one over a defaulted value so partial tunables blocks work
	rawArchetypes, hasArchetypes := doc["archetypes"]
	delete(doc, "archetypes")

	f := &File{
		DamageIntervalTicks: parameter.DamageIntervalTicks,
		Room:                RoomConfig{TileSize: parameter.SandboxTileSize},
	}
	if err := toml.DecodeStrict(doc, f); err != nil {
		return nil, err
	}
	if f.DamageIntervalTicks < 1 {
		return nil, fmt.Errorf("damage_interval_ticks %d must be >= 1", f.DamageIntervalTicks)
	}

	if hasArchetypes {
		entries, ok := rawArchetypes.([]map[string]any)
		if !ok {
			return nil, fmt.Errorf("archetypes must be an array of tables, got %T", rawArchetypes)
		}
		for i, entry := range entries {
			a := defaultArchetype()
			if err := toml.DecodeStrict(entry, &a); err != nil {
				return nil, fmt.Errorf("archetypes[%d]: %w", i, err)
			}
			f.Archetypes = append(f.Archetypes, a)
		}
	}
	return f, nil
}

// TerrainTable returns the default effect table with the file's overrides applied
func (f *File) TerrainTable() (terrain.Table, error) {
	table := terrain.DefaultTable()
	for name, o := range f.Terrain {
		k, ok := terrain.ParseKind(name)
		if !ok {
			return table, fmt.Errorf("%w: %q", ErrUnknownTerrain, name)
		}
		e, err := o.apply(table.Of(k))
		if err != nil {
			return table, fmt.Errorf("terrain %s: %w", k, err)
		}
		if err := table.Set(k, e); err != nil {
			return table, fmt.Errorf("terrain %s: %w", k, err)
		}
	}
	return table, nil
}

func (o TerrainOverride) apply(e terrain.Effect) (terrain.Effect, error) {
	if o.Speed != nil {
		e.SpeedMultiplier = *o.Speed
	}
	if o.Control != nil {
		e.ControlMultiplier = *o.Control
	}
	if o.Damage != nil {
		e.PeriodicDamage = *o.Damage
	}
	if o.Status != nil {
		s, ok := terrain.ParseStatus(*o.Status)
		if !ok {
			return e, fmt.Errorf("%w: %q", ErrUnknownStatus, *o.Status)
		}
		e.Status = s
	}
	if o.Required != nil {
		e.RequiredCapability = strings.ToLower(strings.TrimSpace(*o.Required))
	}
	if o.MitigatedBy != nil {
		e.MitigatedBy = append([]string(nil), *o.MitigatedBy...)
	}
	if o.StuckChance != nil {
		e.StuckChance = *o.StuckChance
	}
	if o.SlideBlend != nil {
		e.SlideBlend = *o.SlideBlend
	}
	if o.SlideX != nil {
		e.SlideX = *o.SlideX
	}
	if o.SlideY != nil {
		e.SlideY = *o.SlideY
	}
	return e, nil
}

// Archetype converts the entry into a registrable archetype
func (a ArchetypeConfig) Archetype() (locomotion.Archetype, error) {
	v, err := strategy.ParseVariant(a.Variant)
	if err != nil {
		return locomotion.Archetype{}, fmt.Errorf("archetype %q: %w", a.Name, err)
	}
	return locomotion.Archetype{
		Name:            a.Name,
		Capabilities:    capability.New(a.Capabilities...),
		Variant:         v,
		BaseSpeed:       a.BaseSpeed,
		GravityAffected: a.GravityAffected,
		Friction:        a.Friction,
		Tunables:        a.Tunables,
	}, nil
}

// Register adds every archetype to reg, stopping at the first failure
func (f *File) Register(reg *locomotion.Registry) error {
	for _, ac := range f.Archetypes {
		a, err := ac.Archetype()
		if err != nil {
			return err
		}
		if err := reg.Register(a); err != nil {
			return err
		}
	}
	return nil
}

// Grid parses the room layout, nil when the file has none
func (f *File) Grid() (*terrain.Grid, error) {
	if len(f.Room.Layout) == 0 {
		return nil, nil
	}
	g, err := terrain.ParseLayout(f.Room.Layout, f.Room.TileSize)
	if err != nil {
		return nil, fmt.Errorf("room layout: %w", err)
	}
	return g, nil
}

// Marshal encodes the file back to TOML
func (f *File) Marshal() ([]byte, error) {
	return toml.Marshal(f)
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
