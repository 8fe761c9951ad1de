package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/npc-locomotion/locomotion"
	"github.com/lixenwraith/npc-locomotion/parameter"
	"github.com/lixenwraith/npc-locomotion/strategy"
	"github.com/lixenwraith/npc-locomotion/terrain"
	"github.com/lixenwraith/npc-locomotion/toml"
)

func TestDefault_Archetypes(t *testing.T) {
	f, err := Default()
	if err != nil {
		t.Fatalf("embedded config failed to parse: %v", err)
	}

	reg := locomotion.NewRegistry()
	if err := f.Register(reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	want := []string{"bug", "boss", "frog", "archer", "wizard", "bee", "golem"}
	got := reg.Names()
	if len(got) != len(want) {
		t.Fatalf("archetypes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("archetype %d = %s, want %s", i, got[i], want[i])
		}
	}

	bee, _ := reg.Lookup("bee")
	if bee.GravityAffected || !bee.Capabilities.Flies() || bee.Variant != strategy.VariantFloating {
		t.Errorf("bee mismatch: %+v", bee)
	}
	golem, _ := reg.Lookup("golem")
	if !golem.GravityAffected || !golem.Capabilities.Has("fire_resistant") || golem.Friction != 0.4 {
		t.Errorf("golem mismatch: %+v", golem)
	}
}

// TestDefault_TunableOverlay verifies partial tunables blocks keep the remaining defaults
func TestDefault_TunableOverlay(t *testing.T) {
	f, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	defaults := strategy.DefaultTunables()

	byName := make(map[string]ArchetypeConfig)
	for _, a := range f.Archetypes {
		byName[a.Name] = a
	}

	bug := byName["bug"]
	if bug.Tunables.Patrol.Radius != 64 {
		t.Errorf("bug radius = %v, want 64", bug.Tunables.Patrol.Radius)
	}
	if bug.Tunables.Patrol.HysteresisTicks != defaults.Patrol.HysteresisTicks {
		t.Errorf("bug hysteresis lost its default: %d", bug.Tunables.Patrol.HysteresisTicks)
	}
	if bug.Friction != parameter.ArchetypeDefaultFriction {
		t.Errorf("bug friction = %v, want default", bug.Friction)
	}

	// Sub-tables must not leak between array elements
	if byName["boss"].Tunables != defaults {
		t.Errorf("boss tunables should be default: %+v", byName["boss"].Tunables)
	}
	if byName["frog"].Tunables.Jump.CooldownTicks != 30 {
		t.Errorf("frog cooldown = %d, want 30", byName["frog"].Tunables.Jump.CooldownTicks)
	}
}

func TestDefault_RoomAndTerrain(t *testing.T) {
	f, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	g, err := f.Grid()
	if err != nil {
		t.Fatalf("room layout: %v", err)
	}
	if g == nil || g.Height() < 2 || g.TileSize() != 8 {
		t.Fatalf("unexpected room grid: %+v", g)
	}
	for _, k := range []terrain.Kind{terrain.Water, terrain.Mud, terrain.Lava, terrain.Destructible} {
		if g.Count(k) == 0 {
			t.Errorf("room has no %s tiles", k)
		}
	}

	table, err := f.TerrainTable()
	if err != nil {
		t.Fatalf("TerrainTable: %v", err)
	}
	toxic := table.Of(terrain.Toxic)
	if len(toxic.MitigatedBy) != 2 || toxic.MitigatedBy[1] != "flying" {
		t.Errorf("toxic override not applied: %+v", toxic)
	}
	// Untouched fields keep built-in values
	if toxic.SpeedMultiplier != terrain.EffectOf(terrain.Toxic).SpeedMultiplier {
		t.Errorf("toxic speed changed: %v", toxic.SpeedMultiplier)
	}
	if len(terrain.EffectOf(terrain.Toxic).MitigatedBy) != 1 {
		t.Error("override leaked into the built-in table")
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{"unknown root key", "damage_intervl = 3", func(err error) bool { return errors.Is(err, toml.ErrUnknownKey) }},
		{"unknown archetype key", "[[archetypes]]\nname = \"x\"\nspeed = 1", func(err error) bool { return errors.Is(err, toml.ErrUnknownKey) }},
		{"unknown tunable", "[[archetypes]]\n[archetypes.tunables.patrol]\nradious = 1", func(err error) bool { return errors.Is(err, toml.ErrUnknownKey) }},
		{"bad type", "[[archetypes]]\nbase_speed = \"fast\"", func(err error) bool { return errors.Is(err, toml.ErrType) }},
		{"zero interval", "damage_interval_ticks = 0", func(err error) bool { return err != nil }},
		{"archetypes not tables", "archetypes = [1, 2]", func(err error) bool { return err != nil }},
		{"syntax", "[room", func(err error) bool {
			var pe *toml.ParseError
			return errors.As(err, &pe)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			if !tc.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTerrainTable_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown kind":   "[terrain.quicksand]\nspeed = 0.5",
		"unknown status": "[terrain.mud]\nstatus = \"frozen\"",
		"invalid value":  "[terrain.ice]\ncontrol = 1.5",
	}
	for name, input := range cases {
		f, err := Parse([]byte(input))
		if err != nil {
			t.Fatalf("%s: Parse failed: %v", name, err)
		}
		if _, err := f.TerrainTable(); err == nil {
			t.Errorf("%s: expected TerrainTable error", name)
		}
	}

	f, _ := Parse([]byte("[terrain.quicksand]\nspeed = 0.5"))
	if _, err := f.TerrainTable(); !errors.Is(err, ErrUnknownTerrain) {
		t.Errorf("expected ErrUnknownTerrain, got %v", err)
	}
}

func TestRegister_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown variant": "[[archetypes]]\nname = \"x\"\nvariant = \"teleport\"\nbase_speed = 1",
		"zero speed":      "[[archetypes]]\nname = \"x\"\nvariant = \"jumping\"",
		"bad tunables":    "[[archetypes]]\nname = \"x\"\nvariant = \"floating\"\nbase_speed = 1\n[archetypes.tunables.float]\nsmoothing = 0.0",
		"duplicate":       "[[archetypes]]\nname = \"x\"\nvariant = \"jumping\"\nbase_speed = 1\n[[archetypes]]\nname = \"X\"\nvariant = \"jumping\"\nbase_speed = 1",
	}
	for name, input := range cases {
		f, err := Parse([]byte(input))
		if err != nil {
			t.Fatalf("%s: Parse failed: %v", name, err)
		}
		if err := f.Register(locomotion.NewRegistry()); err == nil {
			t.Errorf("%s: expected Register error", name)
		}
	}

	f, _ := Parse([]byte("[[archetypes]]\nname = \"x\"\nvariant = \"teleport\"\nbase_speed = 1"))
	if err := f.Register(locomotion.NewRegistry()); !errors.Is(err, strategy.ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestLoad_Priority(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(custom, []byte("damage_interval_ticks = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(custom)
	if err != nil {
		t.Fatalf("Load(custom) failed: %v", err)
	}
	if f.DamageIntervalTicks != 7 || len(f.Archetypes) != 0 {
		t.Errorf("custom file not used: %+v", f)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}

	// No custom path and no ./config file in the package dir falls back to embedded
	f, err = Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if len(f.Archetypes) == 0 {
		t.Error("embedded fallback has no archetypes")
	}
}

// TestMarshal_Reloads verifies a dumped config loads back to the same registry
func TestMarshal_Reloads(t *testing.T) {
	f, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	data, err := f.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("dumped config failed to parse: %v\n%s", err, data)
	}
	if len(back.Archetypes) != len(f.Archetypes) || len(back.Room.Layout) != len(f.Room.Layout) {
		t.Fatalf("dump lost entries:\n%s", data)
	}
	for i := range f.Archetypes {
		if back.Archetypes[i].Tunables != f.Archetypes[i].Tunables {
			t.Errorf("archetype %s tunables differ after reload", f.Archetypes[i].Name)
		}
	}
	table, err := back.TerrainTable()
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Of(terrain.Toxic).MitigatedBy) != 2 {
		t.Error("terrain override lost in dump")
	}
}
