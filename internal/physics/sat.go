package physics

import (
	"math"

	"github.com/tomz197/shapedrag/internal/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

// Penetration is the least-penetration candidate found on one shape's own
// axes. Overlap is signed: translating the tested shape by Overlap*Axis
// pushes it out of the other shape along Axis.
type Penetration struct {
	Overlap float64
	Axis    r2.Vec
}

// Vector returns Overlap*Axis.
func (p Penetration) Vector() r2.Vec {
	return r2.Scale(p.Overlap, p.Axis)
}

// fallbackAxis is used when a circle centre coincides with the point that
// defines its test axis.
var fallbackAxis = r2.Vec{X: 1, Y: 0}

type mtvFunc func(a, b *geom.Shape) (Penetration, bool)

// mtvTable dispatches on (tested kind, other kind).
var mtvTable = [3][3]mtvFunc{
	geom.KindPolygon: {
		geom.KindPolygon:        polygonMTV,
		geom.KindRegularPolygon: polygonMTV,
		geom.KindCircle:         polygonMTV,
	},
	geom.KindRegularPolygon: {
		geom.KindPolygon:        polygonMTV,
		geom.KindRegularPolygon: polygonMTV,
		geom.KindCircle:         polygonMTV,
	},
	geom.KindCircle: {
		geom.KindPolygon:        circlePolygonMTV,
		geom.KindRegularPolygon: circlePolygonMTV,
		geom.KindCircle:         circleCircleMTV,
	},
}

// MTV tests a against b using only a's candidate axes. It returns false as
// soon as one of those axes separates the shapes.
func MTV(a, b *geom.Shape) (Penetration, bool) {
	return mtvTable[a.Kind()][b.Kind()](a, b)
}

// IsColliding runs the SAT test from both sides and returns the translation
// to apply to a that resolves the overlap with b. The narrower of the two
// candidates wins; b's candidate is negated because its axis describes a
// push on b.
//
// IsColliding(a, b) and IsColliding(b, a) always return exact negations.
// When both candidates lie on one line, the shape constructed first keeps
// its own candidate.
func IsColliding(a, b *geom.Shape) (r2.Vec, bool) {
	pa, ok := MTV(a, b)
	if !ok {
		return r2.Vec{}, false
	}
	pb, ok := MTV(b, a)
	if !ok {
		return r2.Vec{}, false
	}

	va := pa.Vector()
	vb := r2.Scale(-1, pb.Vector())

	oa, ob := math.Abs(pa.Overlap), math.Abs(pb.Overlap)
	switch {
	case oa < ob:
		return va, true
	case ob < oa:
		return vb, true
	}

	// Equal magnitudes: pick by a key that ignores sign so both argument
	// orders choose the same candidate.
	switch {
	case lineLess(vb, va):
		return vb, true
	case lineLess(va, vb):
		return va, true
	}

	// Same line, usually coincident copies of one shape. Argument order
	// carries no information here, so fall back to construction order.
	if b.Before(a) {
		return vb, true
	}
	return va, true
}

// lineLess orders vectors by their direction-free representative.
func lineLess(u, v r2.Vec) bool {
	u, v = canonical(u), canonical(v)
	if u.X != v.X {
		return u.X < v.X
	}
	return u.Y < v.Y
}

func canonical(v r2.Vec) r2.Vec {
	if v.X < 0 || (v.X == 0 && v.Y < 0) {
		return r2.Vec{X: -v.X, Y: -v.Y}
	}
	return v
}

// intervalOverlap returns the signed overlap of [aLo,aHi] against [bLo,bHi]
// and false if they are disjoint. Touching intervals overlap.
func intervalOverlap(aLo, aHi, bLo, bHi float64) (float64, bool) {
	if aHi < bLo || bHi < aLo {
		return 0, false
	}
	if aLo > bLo {
		return bHi - aLo, true
	}
	return bLo - aHi, true
}

// polygonMTV tests every edge normal of a. The first axis with the smallest
// absolute overlap wins.
func polygonMTV(a, b *geom.Shape) (Penetration, bool) {
	var best Penetration
	for i := 0; i < a.VertexCount(); i++ {
		axis := a.EdgeNormal(i)
		aLo, aHi := a.ProjectEdge(axis, i)
		bLo, bHi := b.Project(axis)

		o, ok := intervalOverlap(aLo, aHi, bLo, bHi)
		if !ok {
			return Penetration{}, false
		}
		if i == 0 || math.Abs(o) < math.Abs(best.Overlap) {
			best = Penetration{Overlap: o, Axis: axis}
		}
	}
	return best, true
}

// circleCircleMTV compares centre distance against the radius sum. The axis
// points from b's centre to a's.
func circleCircleMTV(a, b *geom.Shape) (Penetration, bool) {
	ca, cb := a.Centroid(), b.Centroid()
	if !CirclesOverlap(ca, a.Radius(), cb, b.Radius()) {
		return Penetration{}, false
	}

	dist := Distance(ca, cb)
	axis := fallbackAxis
	if dist > 0 {
		d := r2.Sub(ca, cb)
		axis = r2.Vec{X: d.X / dist, Y: d.Y / dist}
	}
	return Penetration{Overlap: a.Radius() + b.Radius() - dist, Axis: axis}, true
}

// circlePolygonMTV tests a single axis: from the nearest vertex of b to the
// centre of a. Edge axes of b are covered when b is tested against a.
func circlePolygonMTV(a, b *geom.Shape) (Penetration, bool) {
	axis := nearestVertexAxis(a.Centroid(), b)
	aLo, aHi := a.Project(axis)
	bLo, bHi := b.Project(axis)

	o, ok := intervalOverlap(aLo, aHi, bLo, bHi)
	if !ok {
		return Penetration{}, false
	}
	return Penetration{Overlap: o, Axis: axis}, true
}

// nearestVertexAxis returns the unit vector pointing from the vertex of s
// closest to c towards c. Ties keep the first vertex.
func nearestVertexAxis(c r2.Vec, s *geom.Shape) r2.Vec {
	best := r2.Sub(c, s.Vertex(0))
	bestD := r2.Norm2(best)
	for i := 1; i < s.VertexCount(); i++ {
		d := r2.Sub(c, s.Vertex(i))
		if n := r2.Norm2(d); n < bestD {
			best, bestD = d, n
		}
	}
	if bestD == 0 {
		return fallbackAxis
	}
	l := math.Sqrt(bestD)
	return r2.Vec{X: best.X / l, Y: best.Y / l}
}
