package layout

import (
	"math"

	"sociogram/internal/domain"
)

// Config tunes the relaxation simulation. Zero values fall back to the
// defaults below.
type Config struct {
	Repulsion  float64 // inverse-square push between every node pair
	Spring     float64 // pull per unit of stretch along each edge
	TargetDist float64 // edge rest length
	Damping    float64 // fraction of the computed force applied per tick
	Threshold  float64 // max displacement under which the layout counts as settled
	Radius     float64 // sphere radius for initial placement
}

func (c *Config) applyDefaults() {
	if c.Repulsion == 0 {
		c.Repulsion = 1.5
	}
	if c.Spring == 0 {
		c.Spring = 0.08
	}
	if c.TargetDist == 0 {
		c.TargetDist = 2.0
	}
	if c.Damping == 0 {
		c.Damping = 0.5
	}
	if c.Threshold == 0 {
		c.Threshold = 0.005
	}
	if c.Radius == 0 {
		c.Radius = 3.0
	}
}

// Engine relaxes node positions under mutual repulsion and edge
// springs. It is not safe for concurrent use; callers drive it from a
// single loop.
type Engine struct {
	cfg Config

	order     []string
	positions map[string]domain.Vec3
	dragged   map[string]bool
	edges     []domain.Edge

	lastShift float64
}

// NewEngine creates an engine with the given tuning.
func NewEngine(cfg Config) *Engine {
	cfg.applyDefaults()
	return &Engine{
		cfg:       cfg,
		positions: make(map[string]domain.Vec3),
		dragged:   make(map[string]bool),
		lastShift: math.Inf(1),
	}
}

// SetGraph replaces the simulated graph. Known nodes keep their current
// positions; new nodes are seeded on the sphere. Removed nodes are
// forgotten, including any drag override.
func (e *Engine) SetGraph(nodes []domain.Node, edges []domain.Edge) {
	seen := make(map[string]bool, len(nodes))
	order := make([]string, 0, len(nodes))

	for i, n := range nodes {
		seen[n.ID] = true
		order = append(order, n.ID)
		if _, ok := e.positions[n.ID]; ok {
			continue
		}
		if n.Position.IsFinite() && n.Position.Length() > 0 {
			e.positions[n.ID] = n.Position
			continue
		}
		e.positions[n.ID] = SpherePoint(i, len(nodes)).Scale(e.cfg.Radius)
	}

	for id := range e.positions {
		if !seen[id] {
			delete(e.positions, id)
			delete(e.dragged, id)
		}
	}

	e.order = order
	e.edges = append(e.edges[:0], edges...)
	e.lastShift = math.Inf(1)
}

// Position returns the current coordinates for a node.
func (e *Engine) Position(id string) (domain.Vec3, bool) {
	p, ok := e.positions[id]
	return p, ok
}

// Positions returns a copy of all current coordinates.
func (e *Engine) Positions() map[string]domain.Vec3 {
	out := make(map[string]domain.Vec3, len(e.positions))
	for id, p := range e.positions {
		out[id] = p
	}
	return out
}

// Drag pins a node at the given position. The simulation keeps running
// for its neighbors so the rest of the layout adapts around it.
func (e *Engine) Drag(id string, pos domain.Vec3) {
	if _, ok := e.positions[id]; !ok {
		return
	}
	e.positions[id] = pos
	e.dragged[id] = true
	e.lastShift = math.Inf(1)
}

// Release unpins a dragged node, returning it to the simulation.
func (e *Engine) Release(id string) {
	delete(e.dragged, id)
	e.lastShift = math.Inf(1)
}

// Settled reports whether the last tick moved every node less than the
// configured threshold.
func (e *Engine) Settled() bool {
	return e.lastShift < e.cfg.Threshold
}

// Step advances the simulation one tick and returns the largest
// displacement any node experienced.
func (e *Engine) Step() float64 {
	forces := make(map[string]domain.Vec3, len(e.order))

	// Pairwise repulsion
	for i := 0; i < len(e.order); i++ {
		for j := i + 1; j < len(e.order); j++ {
			a, b := e.order[i], e.order[j]
			delta := e.positions[a].Sub(e.positions[b])
			dist := delta.Length()
			if dist < 1e-6 {
				// Coincident nodes get a deterministic nudge apart
				delta = domain.Vec3{X: 1e-3 * float64(i+1)}
				dist = delta.Length()
			}
			push := delta.Scale(e.cfg.Repulsion / (dist * dist * dist))
			forces[a] = forces[a].Add(push)
			forces[b] = forces[b].Sub(push)
		}
	}

	// Edge springs pull endpoints toward the rest length
	for _, edge := range e.edges {
		pa, oka := e.positions[edge.From]
		pb, okb := e.positions[edge.To]
		if !oka || !okb {
			continue
		}
		delta := pb.Sub(pa)
		dist := delta.Length()
		if dist < 1e-6 {
			continue
		}
		stretch := dist - e.cfg.TargetDist
		pull := delta.Scale(e.cfg.Spring * stretch / dist)
		forces[edge.From] = forces[edge.From].Add(pull)
		forces[edge.To] = forces[edge.To].Sub(pull)
	}

	maxShift := 0.0
	for _, id := range e.order {
		if e.dragged[id] {
			continue
		}
		shift := forces[id].Scale(e.cfg.Damping)
		if !shift.IsFinite() {
			continue
		}
		e.positions[id] = e.positions[id].Add(shift)
		if l := shift.Length(); l > maxShift {
			maxShift = l
		}
	}

	e.lastShift = maxShift
	return maxShift
}

// Relax steps the simulation until it settles or maxTicks elapse.
// Returns the number of ticks run.
func (e *Engine) Relax(maxTicks int) int {
	for tick := 0; tick < maxTicks; tick++ {
		if e.Step() < e.cfg.Threshold {
			return tick + 1
		}
	}
	return maxTicks
}
