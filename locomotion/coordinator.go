package locomotion

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync/atomic"

	"github.com/lixenwraith/npc-locomotion/capability"
	"github.com/lixenwraith/npc-locomotion/parameter"
	"github.com/lixenwraith/npc-locomotion/strategy"
	"github.com/lixenwraith/npc-locomotion/terrain"
	"github.com/lixenwraith/npc-locomotion/vmath"
)

var (
	ErrUnknownMover   = errors.New("unknown mover")
	ErrDuplicateMover = errors.New("mover already spawned")
)

// Roller decides probabilistic terrain outcomes
type Roller interface {
	Chance(p float64) bool
}

// TickRequest is the per-tick input for one mover
type TickRequest struct {
	ID         MoverID
	PosX, PosY float64
	VelX, VelY float64
	Grounded   bool

	TargetX, TargetY float64
	HasTarget        bool
	HasLOS           bool
	// Distance to target, negative means derive it from positions
	Distance float64
}

// Result is the coordinator's verdict for one mover and tick
type Result struct {
	VelX, VelY      float64
	Blocked         bool
	Stuck           bool
	Terrain         terrain.Kind
	SpeedMultiplier float64

	// Mode is the strategy's decision mode, ModeCarry means the caller's physics owns velocity
	Mode   strategy.Mode
	State  string
	Events []Event
}

// mover is coordinator-owned state for one spawned mover
type mover struct {
	id          MoverID
	arch        *Archetype
	props       strategy.Properties
	strat       strategy.Strategy
	sinceDamage int
	status      terrain.Status
	roller      Roller
}

// Coordinator runs the per-tick locomotion pipeline for every spawned mover
// Spawn, Despawn and LoadTerrain happen between ticks
// Tick calls for distinct movers may run concurrently unless a shared Roller was injected
type Coordinator struct {
	registry       *Registry
	table          terrain.Table
	grid           atomic.Pointer[terrain.Grid]
	movers         map[MoverID]*mover
	roller         Roller
	damageInterval int
}

type Option func(*Coordinator)

// WithTable replaces the terrain effect table
func WithTable(t terrain.Table) Option {
	return func(c *Coordinator) { c.table = t }
}

// WithRoller injects a stuck-chance source shared by all movers
func WithRoller(r Roller) Option {
	return func(c *Coordinator) {
		if r != nil {
			c.roller = r
		}
	}
}

// WithDamageInterval sets ticks between damage events, values below 1 are ignored
func WithDamageInterval(ticks int) Option {
	return func(c *Coordinator) {
		if ticks >= 1 {
			c.damageInterval = ticks
		}
	}
}

func NewCoordinator(reg *Registry, opts ...Option) *Coordinator {
	c := &Coordinator{
		registry:       reg,
		table:          terrain.DefaultTable(),
		movers:         make(map[MoverID]*mover),
		damageInterval: parameter.DamageIntervalTicks,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadTerrain replaces the grid wholesale, called on level transition
func (c *Coordinator) LoadTerrain(src terrain.Source) error {
	g, err := terrain.FromSource(src)
	if err != nil {
		return fmt.Errorf("load terrain: %w", err)
	}
	c.grid.Store(g)
	return nil
}

// Grid returns the active grid, nil before the first load
func (c *Coordinator) Grid() *terrain.Grid {
	return c.grid.Load()
}

// Effect returns the active effect for a kind
func (c *Coordinator) Effect(k terrain.Kind) terrain.Effect {
	return c.table.Of(k)
}

// Spawn creates mover state from a registered archetype
// The first spawn seals the registry
func (c *Coordinator) Spawn(id MoverID, archetype string) error {
	a, err := c.registry.Lookup(archetype)
	if err != nil {
		return err
	}
	if _, exists := c.movers[id]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateMover, id)
	}
	s, err := strategy.New(a.Variant, a.Tunables)
	if err != nil {
		return fmt.Errorf("spawn %d as %s: %w", id, a.Name, err)
	}
	c.registry.Seal()

	c.movers[id] = &mover{
		id:   id,
		arch: a,
		props: strategy.Properties{
			BaseSpeed:              a.BaseSpeed,
			CurrentSpeedMultiplier: 1,
			GravityAffected:        a.GravityAffected,
			Friction:               a.Friction,
		},
		strat:       s,
		sinceDamage: c.damageInterval,
		roller:      c.rollerFor(id),
	}
	return nil
}

// rollerFor returns the injected roller, or a per-mover generator so movers never share state
func (c *Coordinator) rollerFor(id MoverID) Roller {
	if c.roller != nil {
		return c.roller
	}
	return vmath.NewFastRand(parameter.CoordinatorRandSeed ^ (uint64(id)+1)*0xBF58476D1CE4E5B9)
}

// Despawn discards mover state, unknown ids are ignored
func (c *Coordinator) Despawn(id MoverID) {
	delete(c.movers, id)
}

func (c *Coordinator) Count() int { return len(c.movers) }

// Archetype returns the archetype a mover was spawned from
func (c *Coordinator) Archetype(id MoverID) (*Archetype, bool) {
	m, ok := c.movers[id]
	if !ok {
		return nil, false
	}
	return m.arch, true
}

// Properties returns a copy of the mover's movement properties
func (c *Coordinator) Properties(id MoverID) (strategy.Properties, bool) {
	m, ok := c.movers[id]
	if !ok {
		return strategy.Properties{}, false
	}
	return m.props, true
}

// scalars are the terrain modifiers in force for one tick
type scalars struct {
	speed      float64
	control    float64
	damage     float64
	status     terrain.Status
	stuck      float64
	slideBlend float64
}

var neutral = scalars{speed: 1, control: 1}

// scalarsFor applies capability mitigation to an effect
func scalarsFor(caps capability.Set, e terrain.Effect) scalars {
	m := capability.MitigationFactor(caps, e)
	s := scalars{
		speed:   1 - (1-e.SpeedMultiplier)*(1-m),
		control: 1 - (1-e.ControlMultiplier)*(1-m),
		damage:  e.PeriodicDamage * (1 - m),
	}
	if m < 1 {
		s.status = e.Status
		s.stuck = e.StuckChance * (1 - m)
		s.slideBlend = e.SlideBlend * (1 - m)
	}
	return s
}

// Tick runs the locomotion pipeline for one mover
// The only error is an unknown mover id, everything else resolves to a fallback
func (c *Coordinator) Tick(req TickRequest) (Result, error) {
	m, ok := c.movers[req.ID]
	if !ok {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownMover, req.ID)
	}
	caps := m.arch.Capabilities
	grid := c.grid.Load()

	kind := terrain.Normal
	if grid != nil {
		kind = grid.Sample(req.PosX, req.PosY)
	}
	effect := c.table.Of(kind)

	res := Result{Terrain: kind}

	// Standing inside forbidden terrain: no effect applies, report blocked
	sc := neutral
	if capability.CanEnter(caps, effect) {
		sc = scalarsFor(caps, effect)
	} else {
		res.Blocked = true
	}

	m.props.CurrentSpeedMultiplier = sc.speed
	m.props.OnGround = req.Grounded
	res.SpeedMultiplier = sc.speed

	ctx := strategy.Context{
		PosX:      req.PosX,
		PosY:      req.PosY,
		VelX:      req.VelX,
		VelY:      req.VelY,
		TargetX:   req.TargetX,
		TargetY:   req.TargetY,
		HasTarget: req.HasTarget,
		HasLOS:    req.HasLOS,
		Distance:  req.Distance,
		Grounded:  req.Grounded,
		Terrain:   kind,
	}
	if ctx.Distance < 0 {
		ctx.Distance = vmath.Distance(req.PosX, req.PosY, req.TargetX, req.TargetY)
	}

	d := m.strat.Decide(ctx, caps, &m.props)
	res.State = m.strat.State()
	res.Mode = d.Mode

	vx, vy := c.scale(m, d, req, sc)

	if !vmath.AllFinite(vx, vy) {
		log.Printf("locomotion: mover %d (%s) produced non-finite velocity (%v, %v) in state %s, clamped", m.id, m.arch.Name, vx, vy, res.State)
		vx, vy = 0, 0
	}

	switch sc.status {
	case terrain.StatusStuck:
		if sc.stuck > 0 && m.roller.Chance(sc.stuck) {
			vx, vy = 0, 0
			res.Stuck = true
			d = heldInPlace(m, d)
			res.State = m.strat.State()
		}
	case terrain.StatusSlide:
		vx, vy = c.slide(vx, vy, req, effect, sc, m.props.BaseSpeed)
	}

	if grid != nil {
		var blocked bool
		vx, vy, blocked = c.probe(grid, caps, req.PosX, req.PosY, vx, vy)
		res.Blocked = res.Blocked || blocked
	}

	// Slide with non-finite caller momentum lands here
	if !vmath.AllFinite(vx, vy) {
		log.Printf("locomotion: mover %d (%s) non-finite velocity after terrain on %s, clamped", m.id, m.arch.Name, kind)
		vx, vy = 0, 0
	}
	res.VelX, res.VelY = vx, vy

	res.Events = c.emit(m, sc, d)
	return res, nil
}

// scale converts a raw decision into world velocity
func (c *Coordinator) scale(m *mover, d strategy.Decision, req TickRequest, sc scalars) (float64, float64) {
	if d.Mode == strategy.ModeCarry {
		return req.VelX, req.VelY
	}
	k := m.props.BaseSpeed * sc.speed
	vx, vy := d.VelX*k, d.VelY*k
	// Reduced steering authority on the non-dominant axis
	if math.Abs(vx) >= math.Abs(vy) {
		vy *= sc.control
	} else {
		vx *= sc.control
	}
	return vx, vy
}

// slide blends velocity toward the terrain's slide direction, or toward incoming momentum when none is set
func (c *Coordinator) slide(vx, vy float64, req TickRequest, e terrain.Effect, sc scalars, baseSpeed float64) (float64, float64) {
	if sc.slideBlend <= 0 {
		return vx, vy
	}
	sx, sy := req.VelX, req.VelY
	if e.SlideX != 0 || e.SlideY != 0 {
		nx, ny := vmath.Normalize2D(e.SlideX, e.SlideY)
		mag := math.Max(vmath.Magnitude(vx, vy), baseSpeed*sc.speed)
		sx, sy = nx*mag, ny*mag
	}
	return vmath.LerpVec(vx, vy, sx, sy, sc.slideBlend)
}

// probe zeroes velocity components whose path crosses a tile the mover cannot enter
// Every tile between the current one and the destination is checked, a fast mover never skips a thin barrier
func (c *Coordinator) probe(g *terrain.Grid, caps capability.Set, x, y, vx, vy float64) (float64, float64, bool) {
	tx, ty, ok := g.TileOf(x, y)
	if !ok {
		return vx, vy, false
	}
	forbidden := func(ntx, nty int) bool {
		if !g.InBounds(ntx, nty) || (ntx == tx && nty == ty) {
			return false
		}
		return !capability.CanEnter(caps, c.table.Of(g.At(ntx, nty)))
	}
	// crosses walks from the current tile toward dest along one axis
	crosses := func(dest, from int, horizontal bool) bool {
		step := 1
		if dest < from {
			step = -1
		}
		for i := from + step; i != dest+step; i += step {
			ntx, nty := i, ty
			if !horizontal {
				ntx, nty = tx, i
			}
			// Outside the grid nothing is forbidden, and nothing further in is reachable
			if !g.InBounds(ntx, nty) {
				return false
			}
			if forbidden(ntx, nty) {
				return true
			}
		}
		return false
	}

	blocked := false
	dtx, _, okX := g.TileOf(x+vx, y)
	if vx != 0 && okX && dtx != tx && crosses(dtx, tx, true) {
		vx = 0
		blocked = true
	}
	_, dty, okY := g.TileOf(x, y+vy)
	if vy != 0 && okY && dty != ty && crosses(dty, ty, false) {
		vy = 0
		blocked = true
	}

	// Both axes clear but the diagonal corner is not: keep the axis leading onto cheaper ground
	if vx != 0 && vy != 0 {
		cx, cy, ok := g.TileOf(x+vx, y+vy)
		if ok && forbidden(cx, cy) {
			costX := capability.Traversal(caps, c.table.Of(g.At(dtx, ty)))
			costY := capability.Traversal(caps, c.table.Of(g.At(tx, dty)))
			switch {
			case costX < costY:
				vy = 0
			case costY < costX:
				vx = 0
			case math.Abs(vx) >= math.Abs(vy):
				vy = 0
			default:
				vx = 0
			}
			blocked = true
		}
	}
	return vx, vy, blocked
}

// launchCanceler is implemented by strategies that commit to a launch on the tick they request it
type launchCanceler interface {
	CancelLaunch()
}

// heldInPlace drops jump and dash requests from a mover pinned by a stuck roll
func heldInPlace(m *mover, d strategy.Decision) strategy.Decision {
	if d.Has(strategy.ActionJump) {
		if lc, ok := m.strat.(launchCanceler); ok {
			lc.CancelLaunch()
		}
	}
	var kept []strategy.Action
	for _, a := range d.Actions {
		if a != strategy.ActionJump && a != strategy.ActionDash {
			kept = append(kept, a)
		}
	}
	d.Actions = kept
	return d
}

// emit produces damage, status and action events for this tick
func (c *Coordinator) emit(m *mover, sc scalars, d strategy.Decision) []Event {
	var events []Event

	if sc.damage > 0 && m.sinceDamage >= c.damageInterval {
		events = append(events, Event{Type: EventDamage, Mover: m.id, Damage: sc.damage})
		m.sinceDamage = 0
	}
	if m.sinceDamage < c.damageInterval {
		m.sinceDamage++
	}

	if sc.status != m.status {
		if m.status != terrain.StatusNone {
			events = append(events, Event{Type: EventStatus, Mover: m.id, Status: m.status, Active: false})
		}
		if sc.status != terrain.StatusNone {
			events = append(events, Event{Type: EventStatus, Mover: m.id, Status: sc.status, Active: true})
		}
		m.status = sc.status
	}

	for _, a := range d.Actions {
		events = append(events, Event{Type: EventAction, Mover: m.id, Action: a})
	}
	return events
}

// TickAll runs Tick for each request in order, unknown movers yield a zero Result and are logged
func (c *Coordinator) TickAll(reqs []TickRequest) []Result {
	out := make([]Result, len(reqs))
	for i, req := range reqs {
		res, err := c.Tick(req)
		if err != nil {
			log.Printf("locomotion: %v", err)
			continue
		}
		out[i] = res
	}
	return out
}
