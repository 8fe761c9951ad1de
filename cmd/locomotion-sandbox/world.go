package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/npc-locomotion/capability"
	"github.com/lixenwraith/npc-locomotion/config"
	"github.com/lixenwraith/npc-locomotion/locomotion"
	"github.com/lixenwraith/npc-locomotion/parameter"
	"github.com/lixenwraith/npc-locomotion/strategy"
	"github.com/lixenwraith/npc-locomotion/terrain"
	"github.com/lixenwraith/npc-locomotion/vmath"
)

// Mover is the sandbox-side body of one spawned archetype
// The coordinator owns locomotion state, the sandbox owns position and gravity
type Mover struct {
	ID       locomotion.MoverID
	Name     string
	X, Y     float64
	VX, VY   float64
	Grounded bool
	Gravity  bool
	Friction float64

	Last        locomotion.Result
	DamageTaken float64
	HitTicks    int // HUD flash after damage
}

// World is a side-view test room: one floor strip, a player marker and one mover per archetype
type World struct {
	coord  *locomotion.Coordinator
	grid   *terrain.Grid
	movers []*Mover

	PlayerX, PlayerY float64
	Tick             int

	recent []string
}

// NewWorld builds registry, coordinator and room from a config file and spawns every archetype
func NewWorld(f *config.File) (*World, error) {
	reg := locomotion.NewRegistry()
	if err := f.Register(reg); err != nil {
		return nil, fmt.Errorf("register archetypes: %w", err)
	}
	table, err := f.TerrainTable()
	if err != nil {
		return nil, err
	}
	grid, err := f.Grid()
	if err != nil {
		return nil, err
	}
	if grid == nil {
		return nil, errors.New("config has no room layout")
	}

	coord := locomotion.NewCoordinator(reg,
		locomotion.WithTable(table),
		locomotion.WithDamageInterval(f.DamageIntervalTicks),
	)
	if err := coord.LoadTerrain(grid); err != nil {
		return nil, err
	}

	w := &World{coord: coord, grid: grid}
	w.PlayerX = w.widthUnits() / 2
	w.PlayerY = w.floorY()

	names := reg.Names()
	for i, name := range names {
		id := locomotion.MoverID(i + 1)
		if err := coord.Spawn(id, name); err != nil {
			return nil, err
		}
		a, _ := coord.Archetype(id)

		// Spread across the room, floaters start a few tiles above the floor
		x := w.widthUnits() * (float64(i) + 0.5) / float64(len(names))
		y := w.floorY()
		if !a.GravityAffected {
			y -= 4 * grid.TileSize()
		}
		w.movers = append(w.movers, &Mover{
			ID:       id,
			Name:     a.Name,
			X:        x,
			Y:        y,
			Grounded: a.GravityAffected,
			Gravity:  a.GravityAffected,
			Friction: vmath.Clamp01(a.Friction),
		})
	}
	return w, nil
}

func (w *World) Grid() *terrain.Grid { return w.grid }

func (w *World) Movers() []*Mover { return w.movers }

// Recent returns the latest event lines, oldest first
func (w *World) Recent() []string { return w.recent }

func (w *World) widthUnits() float64 {
	return float64(w.grid.Width()) * w.grid.TileSize()
}

// floorY is the resting height for gravity-bound bodies, centered in the bottom row
func (w *World) floorY() float64 {
	return (float64(w.grid.Height()) - 0.5) * w.grid.TileSize()
}

// TraversalCost is the relative cost of the tile last evaluated for the mover, +Inf where it may not stand
func (w *World) TraversalCost(m *Mover) float64 {
	a, ok := w.coord.Archetype(m.ID)
	if !ok {
		return math.Inf(1)
	}
	return capability.Traversal(a.Capabilities, w.coord.Effect(m.Last.Terrain))
}

// MovePlayer shifts the player marker, clamped to the room
func (w *World) MovePlayer(dx, dy float64) {
	half := w.grid.TileSize() / 2
	w.PlayerX = vmath.Clamp(w.PlayerX+dx, half, w.widthUnits()-half)
	w.PlayerY = vmath.Clamp(w.PlayerY+dy, half, w.floorY())
}

// lineOfSight walks the segment in half-tile steps, destructible tiles block sight
func (w *World) lineOfSight(x0, y0, x1, y1 float64) bool {
	dist := vmath.Distance(x0, y0, x1, y1)
	if dist > parameter.SandboxLOSRange {
		return false
	}
	step := w.grid.TileSize() / 2
	n := int(dist / step)
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		x, y := vmath.LerpVec(x0, y0, x1, y1, t)
		if w.grid.Sample(x, y) == terrain.Destructible {
			return false
		}
	}
	return true
}

// Step advances every mover by one tick and returns the emitted events
func (w *World) Step() []locomotion.Event {
	w.Tick++

	reqs := make([]locomotion.TickRequest, len(w.movers))
	for i, m := range w.movers {
		reqs[i] = locomotion.TickRequest{
			ID:        m.ID,
			PosX:      m.X,
			PosY:      m.Y,
			VelX:      m.VX,
			VelY:      m.VY,
			Grounded:  m.Grounded,
			TargetX:   w.PlayerX,
			TargetY:   w.PlayerY,
			HasTarget: true,
			HasLOS:    w.lineOfSight(m.X, m.Y, w.PlayerX, w.PlayerY),
			Distance:  -1,
		}
	}
	results := w.coord.TickAll(reqs)

	var events []locomotion.Event
	for i, m := range w.movers {
		res := results[i]
		m.Last = res
		w.integrate(m, res)

		if m.HitTicks > 0 {
			m.HitTicks--
		}
		for _, ev := range res.Events {
			if ev.Type == locomotion.EventDamage {
				m.DamageTaken += ev.Damage
				m.HitTicks = parameter.SandboxHitFlashTicks
			}
			w.record(m, ev)
		}
		events = append(events, res.Events...)
	}
	return events
}

// integrate applies sandbox physics to the coordinator's velocity
func (w *World) integrate(m *Mover, res locomotion.Result) {
	prevVY := m.VY
	m.VX, m.VY = res.VelX, res.VelY

	if m.Gravity {
		// Steering strategies leave vertical motion to physics
		if res.Mode == strategy.ModeSteer && res.VelY == 0 {
			m.VY = prevVY
		}
		if res.Mode == strategy.ModeCarry && m.Grounded {
			m.VX *= 1 - m.Friction
		}
		m.VY = math.Min(m.VY+parameter.SandboxGravity, parameter.SandboxMaxFallSpeed)
	}

	half := w.grid.TileSize() / 2
	m.X = vmath.Clamp(m.X+m.VX, half, w.widthUnits()-half)
	m.Y = vmath.Clamp(m.Y+m.VY, half, w.floorY())

	m.Grounded = m.Gravity && m.Y >= w.floorY()
	if m.Grounded {
		m.VY = 0
	}
}

func (w *World) record(m *Mover, ev locomotion.Event) {
	line := fmt.Sprintf("t%d %s: %s", w.Tick, m.Name, describe(ev))
	w.recent = append(w.recent, line)
	if over := len(w.recent) - parameter.SandboxEventLines; over > 0 {
		w.recent = w.recent[over:]
	}
}

func describe(ev locomotion.Event) string {
	switch ev.Type {
	case locomotion.EventDamage:
		return fmt.Sprintf("-%.1f hp", ev.Damage)
	case locomotion.EventStatus:
		if ev.Active {
			return ev.Status.String() + " on"
		}
		return ev.Status.String() + " off"
	case locomotion.EventAction:
		return ev.Action.String()
	}
	return ev.Type.String()
}
