// Package geom defines the convex shapes of a scene: arbitrary convex
// polygons, regular polygons and circles.
//
// All variants share one concrete type, Shape, tagged by Kind. Polygon kinds
// store a fixed-size vertex slice and iterate edges as (i, i+1 mod N); circles
// store only a centre and radius.
package geom

import (
	"math"
	"sync/atomic"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultHitRadius is the radius of the pointer pick region around a centroid.
const DefaultHitRadius = 10.0

// Kind identifies a shape variant.
type Kind int

const (
	KindPolygon Kind = iota
	KindRegularPolygon
	KindCircle
)

// String returns the lower-case variant name.
func (k Kind) String() string {
	switch k {
	case KindPolygon:
		return "polygon"
	case KindRegularPolygon:
		return "regular"
	case KindCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// PolygonLike reports whether the kind is defined by a vertex list.
func (k Kind) PolygonLike() bool {
	return k == KindPolygon || k == KindRegularPolygon
}

// Shape is a convex shape positioned in scene coordinates.
// Geometry changes only through the Translate methods.
type Shape struct {
	Name string

	kind      Kind
	centroid  r2.Vec
	vertices  []r2.Vec
	edgeLens  []float64 // per-edge for KindPolygon
	edgeLen   float64   // shared for KindRegularPolygon
	radius    float64   // circle radius, or circumradius of a regular polygon
	hitRadius float64
	serial    uint64
}

// serials orders shapes by construction.
var serials atomic.Uint64

// Before reports whether s was constructed before o. Clones count as newly
// constructed. It gives symmetric tests a fixed order for shapes that are
// otherwise indistinguishable.
func (s *Shape) Before(o *Shape) bool { return s.serial < o.serial }

// NewPolygon builds a convex polygon from its vertices in a fixed winding
// order. The slice is copied.
func NewPolygon(vertices []r2.Vec) (*Shape, error) {
	n := len(vertices)
	if n < 3 {
		return nil, errors.Wrapf(ErrTooFewVertices, "got %d", n)
	}

	s := &Shape{
		kind:      KindPolygon,
		vertices:  make([]r2.Vec, n),
		edgeLens:  make([]float64, n),
		hitRadius: DefaultHitRadius,
		serial:    serials.Add(1),
	}
	copy(s.vertices, vertices)

	for i := 0; i < n; i++ {
		l := r2.Norm(r2.Sub(s.vertices[(i+1)%n], s.vertices[i]))
		if l == 0 {
			return nil, errors.Wrapf(ErrZeroLengthEdge, "edge %d", i)
		}
		s.edgeLens[i] = l
	}

	c, ok := areaCentroid(s.vertices)
	if !ok {
		return nil, ErrDegenerate
	}
	s.centroid = c
	return s, nil
}

// NewRegularPolygon builds a regular polygon with edgeCount edges inscribed
// in a circle of the given radius, centred at the origin. Y grows downwards,
// so vertices are laid out clockwise on screen.
func NewRegularPolygon(edgeCount int, radius float64) (*Shape, error) {
	if edgeCount < 3 {
		return nil, errors.Wrapf(ErrTooFewVertices, "got %d", edgeCount)
	}
	if !(radius > 0) {
		return nil, errors.Wrapf(ErrNonPositiveRadius, "got %g", radius)
	}

	alpha := math.Pi / float64(edgeCount)
	theta := 2 * alpha
	vertices := make([]r2.Vec, edgeCount)
	for i := range vertices {
		a := float64(i)*theta + alpha
		vertices[i] = r2.Vec{X: radius * math.Cos(a), Y: -radius * math.Sin(a)}
	}

	return &Shape{
		kind:      KindRegularPolygon,
		vertices:  vertices,
		edgeLen:   2 * radius * math.Sin(alpha),
		radius:    radius,
		hitRadius: DefaultHitRadius,
		serial:    serials.Add(1),
	}, nil
}

// NewCircle builds a circle centred at the origin.
func NewCircle(radius float64) (*Shape, error) {
	if !(radius > 0) {
		return nil, errors.Wrapf(ErrNonPositiveRadius, "got %g", radius)
	}
	return &Shape{
		kind:      KindCircle,
		radius:    radius,
		hitRadius: DefaultHitRadius,
		serial:    serials.Add(1),
	}, nil
}

// MustPolygon is like NewPolygon but panics on invalid input.
func MustPolygon(vertices []r2.Vec) *Shape {
	s, err := NewPolygon(vertices)
	if err != nil {
		panic(err)
	}
	return s
}

// MustRegularPolygon is like NewRegularPolygon but panics on invalid input.
func MustRegularPolygon(edgeCount int, radius float64) *Shape {
	s, err := NewRegularPolygon(edgeCount, radius)
	if err != nil {
		panic(err)
	}
	return s
}

// MustCircle is like NewCircle but panics on invalid input.
func MustCircle(radius float64) *Shape {
	s, err := NewCircle(radius)
	if err != nil {
		panic(err)
	}
	return s
}

// areaCentroid returns the centroid of the region enclosed by a simple
// polygon. ok is false when the enclosed area is zero.
func areaCentroid(vs []r2.Vec) (c r2.Vec, ok bool) {
	n := len(vs)
	var area, x, y float64
	for i := 0; i < n; i++ {
		p, q := vs[i], vs[(i+1)%n]
		cross := p.X*q.Y - q.X*p.Y
		area += cross
		x += (p.X + q.X) * cross
		y += (p.Y + q.Y) * cross
	}
	if area == 0 {
		return r2.Vec{}, false
	}
	area *= 3
	return r2.Vec{X: x / area, Y: y / area}, true
}

// Kind returns the shape variant.
func (s *Shape) Kind() Kind { return s.kind }

// Centroid returns the reference point used for translation and picking.
func (s *Shape) Centroid() r2.Vec { return s.centroid }

// Radius returns the circle radius, or the circumradius of a regular polygon.
// It is zero for arbitrary polygons.
func (s *Shape) Radius() float64 { return s.radius }

// VertexCount returns the number of distinct vertices (zero for circles).
func (s *Shape) VertexCount() int { return len(s.vertices) }

// Vertex returns vertex i.
func (s *Shape) Vertex(i int) r2.Vec { return s.vertices[i] }

// Vertices returns a copy of the vertex list.
func (s *Shape) Vertices() []r2.Vec {
	out := make([]r2.Vec, len(s.vertices))
	copy(out, s.vertices)
	return out
}

// Edge returns the endpoints of edge i, which joins vertex i and i+1 mod N.
func (s *Shape) Edge(i int) (r2.Vec, r2.Vec) {
	return s.vertices[i], s.vertices[(i+1)%len(s.vertices)]
}

// EdgeLength returns the length of edge i.
func (s *Shape) EdgeLength(i int) float64 {
	if s.kind == KindRegularPolygon {
		return s.edgeLen
	}
	return s.edgeLens[i]
}

// EdgeNormal returns the unit normal of edge i. For a consistent winding the
// normals of all edges point to the same side.
func (s *Shape) EdgeNormal(i int) r2.Vec {
	p, q := s.Edge(i)
	l := s.EdgeLength(i)
	return r2.Vec{X: (p.Y - q.Y) / l, Y: (q.X - p.X) / l}
}

// HitRadius returns the pick radius around the centroid.
func (s *Shape) HitRadius() float64 { return s.hitRadius }

// SetHitRadius changes the pick radius. Non-positive values are ignored.
func (s *Shape) SetHitRadius(r float64) {
	if r > 0 {
		s.hitRadius = r
	}
}

// HitTest reports whether (x, y) lies inside the pick region, a circle of
// HitRadius around the centroid. It ignores the actual geometry.
func (s *Shape) HitTest(x, y float64) bool {
	dx := s.centroid.X - x
	dy := s.centroid.Y - y
	return dx*dx+dy*dy < s.hitRadius*s.hitRadius
}

// Extents returns the distances from the centroid to the left, right, top
// and bottom of the bounding box. All values are non-negative.
func (s *Shape) Extents() (xmin, xmax, ymin, ymax float64) {
	if s.kind == KindCircle {
		return s.radius, s.radius, s.radius, s.radius
	}

	lo, hi := s.vertices[0], s.vertices[0]
	for _, v := range s.vertices[1:] {
		lo.X = math.Min(lo.X, v.X)
		lo.Y = math.Min(lo.Y, v.Y)
		hi.X = math.Max(hi.X, v.X)
		hi.Y = math.Max(hi.Y, v.Y)
	}
	c := s.centroid
	return math.Abs(lo.X - c.X), math.Abs(hi.X - c.X), math.Abs(lo.Y - c.Y), math.Abs(hi.Y - c.Y)
}

// Translate shifts the shape rigidly by v.
func (s *Shape) Translate(v r2.Vec) {
	for i := range s.vertices {
		s.vertices[i] = r2.Add(s.vertices[i], v)
	}
	s.centroid = r2.Add(s.centroid, v)
}

// TranslateX shifts the shape along the x axis.
func (s *Shape) TranslateX(dx float64) {
	s.Translate(r2.Vec{X: dx})
}

// TranslateY shifts the shape along the y axis.
func (s *Shape) TranslateY(dy float64) {
	s.Translate(r2.Vec{Y: dy})
}

// MoveTo translates the shape so that its centroid lands on p.
func (s *Shape) MoveTo(p r2.Vec) {
	s.Translate(r2.Sub(p, s.centroid))
}

// Project returns the extent of the shape along a unit axis.
func (s *Shape) Project(axis r2.Vec) (lo, hi float64) {
	if s.kind == KindCircle {
		p := r2.Dot(s.centroid, axis)
		return p - s.radius, p + s.radius
	}

	lo = r2.Dot(s.vertices[0], axis)
	hi = lo
	for _, v := range s.vertices[1:] {
		p := r2.Dot(v, axis)
		if p > hi {
			hi = p
		} else if p < lo {
			lo = p
		}
	}
	return lo, hi
}

// ProjectEdge projects a polygon onto the normal of its own edge i. The edge
// vertices share one projected value, so only vertex i is projected and
// vertex i+1 is skipped.
func (s *Shape) ProjectEdge(axis r2.Vec, i int) (lo, hi float64) {
	n := len(s.vertices)
	skip := (i + 1) % n

	lo = r2.Dot(s.vertices[i], axis)
	hi = lo
	for j, v := range s.vertices {
		if j == i || j == skip {
			continue
		}
		p := r2.Dot(v, axis)
		if p > hi {
			hi = p
		} else if p < lo {
			lo = p
		}
	}
	return lo, hi
}

// Clone returns a deep copy of the shape.
func (s *Shape) Clone() *Shape {
	c := *s
	c.serial = serials.Add(1)
	c.vertices = s.Vertices()
	if s.edgeLens != nil {
		c.edgeLens = make([]float64, len(s.edgeLens))
		copy(c.edgeLens, s.edgeLens)
	}
	return &c
}
