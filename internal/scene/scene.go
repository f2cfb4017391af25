// Package scene keeps a fixed set of shapes, their collision adjacency and
// the state of a pointer drag.
//
// A drag moves exactly one shape, so each pointer move re-tests only that
// shape against the others. The full pairwise pass runs once at
// construction and on every Reset.
package scene

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/tomz197/shapedrag/internal/geom"
	"github.com/tomz197/shapedrag/internal/physics"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"
)

// Scene owns the shape arena and all collision state. It is not safe for
// concurrent use; callers drive it from a single loop.
type Scene struct {
	shapes []*geom.Shape
	order  []ID // draw order, last is on top
	adj    *Adjacency

	active     ID
	hasActive  bool
	last       r2.Vec // last pointer position
	preview    r2.Vec
	hasPreview bool

	log *zap.Logger
}

// Option configures a Scene.
type Option func(*Scene)

// WithHitRadius sets the pointer pick radius of every shape.
func WithHitRadius(r float64) Option {
	return func(s *Scene) {
		for _, sh := range s.shapes {
			sh.SetHitRadius(r)
		}
	}
}

// WithLogger sets the logger used for collision transitions.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.log = l
		}
	}
}

// New builds a scene over shapes and seeds the collision relation with a
// full pairwise pass. The scene takes ownership of the shapes.
func New(shapes []*geom.Shape, opts ...Option) *Scene {
	s := &Scene{
		shapes: shapes,
		order:  make([]ID, len(shapes)),
		adj:    NewAdjacency(len(shapes)),
		log:    zap.NewNop(),
	}
	for i := range s.order {
		s.order[i] = ID(i)
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Rescan()
	return s
}

// Len returns the number of shapes.
func (s *Scene) Len() int { return len(s.shapes) }

// Shape returns the shape with the given id.
func (s *Scene) Shape(id ID) *geom.Shape { return s.shapes[id] }

// Shapes returns the shapes indexed by ID.
func (s *Scene) Shapes() []*geom.Shape { return slices.Clone(s.shapes) }

// Order returns the draw order, bottom first.
func (s *Scene) Order() []ID { return slices.Clone(s.order) }

// Adjacency exposes the collision relation for reading.
func (s *Scene) Adjacency() *Adjacency { return s.adj }

// Active returns the shape being dragged.
func (s *Scene) Active() (ID, bool) { return s.active, s.hasActive }

// Preview returns where releasing now would push the active shape. It is
// only set while the active shape collides with exactly one other shape.
func (s *Scene) Preview() (r2.Vec, bool) { return s.preview, s.hasPreview }

// CollisionSet returns the shapes currently overlapping id.
func (s *Scene) CollisionSet(id ID) []ID { return s.adj.Neighbors(id) }

// Colliding reports whether id overlaps any other shape.
func (s *Scene) Colliding(id ID) bool { return s.adj.Degree(id) > 0 }

// Reset moves every shape to the given absolute centroid position, drops
// all drag and collision state, and rescans every pair.
func (s *Scene) Reset(positions []r2.Vec) error {
	if len(positions) != len(s.shapes) {
		return errors.Errorf("scene: %d positions for %d shapes", len(positions), len(s.shapes))
	}

	for i, sh := range s.shapes {
		sh.MoveTo(positions[i])
	}
	for i := range s.order {
		s.order[i] = ID(i)
	}
	s.hasActive = false
	s.clearPreview()
	s.adj.Clear()
	s.Rescan()

	s.log.Debug("scene reset", zap.Int("shapes", len(s.shapes)), zap.Int("pairs", len(s.adj.Pairs())))
	return nil
}

// Rescan tests every pair of shapes and links the colliding ones. Existing
// links are kept; call it on a cleared relation.
func (s *Scene) Rescan() {
	for i := range s.shapes {
		for j := i + 1; j < len(s.shapes); j++ {
			if _, ok := physics.IsColliding(s.shapes[i], s.shapes[j]); ok {
				s.link(ID(i), ID(j))
			}
		}
	}
}

// OnPointerDown picks the topmost shape whose hit region contains (x, y),
// makes it active and raises it to the top of the draw order.
func (s *Scene) OnPointerDown(x, y float64) bool {
	s.last = r2.Vec{X: x, Y: y}

	for i := len(s.order) - 1; i >= 0; i-- {
		id := s.order[i]
		if !s.shapes[id].HitTest(x, y) {
			continue
		}

		s.order = append(slices.Delete(s.order, i, i+1), id)
		s.active = id
		s.hasActive = true
		s.updatePreview()

		s.log.Debug("shape picked", zap.Int("id", int(id)), zap.String("name", s.shapes[id].Name))
		return true
	}
	return false
}

// OnPointerMove drags the active shape by the pointer delta and updates its
// collision links.
func (s *Scene) OnPointerMove(x, y float64) {
	p := r2.Vec{X: x, Y: y}
	delta := r2.Sub(p, s.last)
	s.last = p

	if !s.hasActive {
		return
	}

	s.shapes[s.active].Translate(delta)
	s.refresh(s.active)
	s.updatePreview()
}

// OnPointerUp resolves every isolated colliding pair, then releases the
// active shape.
func (s *Scene) OnPointerUp() []Resolution {
	res := s.commit()

	if s.hasActive {
		s.log.Debug("shape released", zap.Int("id", int(s.active)), zap.Int("resolved", len(res)))
	}
	s.hasActive = false
	s.clearPreview()
	return res
}

// refresh re-tests id against every other shape.
func (s *Scene) refresh(id ID) {
	a := s.shapes[id]
	for i, b := range s.shapes {
		other := ID(i)
		if other == id {
			continue
		}
		if _, ok := physics.IsColliding(a, b); ok {
			s.link(id, other)
		} else {
			s.unlink(id, other)
		}
	}
}

func (s *Scene) link(a, b ID) {
	if s.adj.Link(a, b) {
		s.log.Debug("collision started",
			zap.Int("a", int(a)), zap.Int("b", int(b)),
			zap.String("a_name", s.shapes[a].Name), zap.String("b_name", s.shapes[b].Name))
	}
}

func (s *Scene) unlink(a, b ID) {
	if s.adj.Unlink(a, b) {
		s.log.Debug("collision ended",
			zap.Int("a", int(a)), zap.Int("b", int(b)),
			zap.String("a_name", s.shapes[a].Name), zap.String("b_name", s.shapes[b].Name))
	}
}

func (s *Scene) updatePreview() {
	s.clearPreview()
	if !s.hasActive {
		return
	}
	other, ok := s.adj.Sole(s.active)
	if !ok {
		return
	}
	if v, ok := physics.IsColliding(s.shapes[s.active], s.shapes[other]); ok {
		s.preview = v
		s.hasPreview = true
	}
}

func (s *Scene) clearPreview() {
	s.preview = r2.Vec{}
	s.hasPreview = false
}
