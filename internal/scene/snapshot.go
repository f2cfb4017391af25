package scene

import (
	"github.com/tomz197/shapedrag/internal/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

// ShapeView is the render-facing state of one shape.
type ShapeView struct {
	ID        ID
	Name      string
	Kind      geom.Kind
	Vertices  []r2.Vec // polygon kinds
	Centre    r2.Vec
	Radius    float64 // circles
	HitRadius float64
	Colliding bool
	Active    bool

	Preview    r2.Vec
	HasPreview bool
}

// Snapshot is a copy of everything a renderer needs, in draw order.
type Snapshot struct {
	Shapes []ShapeView
	Pairs  []Pair
}

// Snapshot copies the current geometry and collision flags.
func (s *Scene) Snapshot() Snapshot {
	snap := Snapshot{
		Shapes: make([]ShapeView, 0, len(s.order)),
		Pairs:  s.adj.Pairs(),
	}
	for _, id := range s.order {
		sh := s.shapes[id]
		v := ShapeView{
			ID:        id,
			Name:      sh.Name,
			Kind:      sh.Kind(),
			Centre:    sh.Centroid(),
			HitRadius: sh.HitRadius(),
			Colliding: s.adj.Degree(id) > 0,
			Active:    s.hasActive && s.active == id,
		}
		if sh.Kind() == geom.KindCircle {
			v.Radius = sh.Radius()
		} else {
			v.Vertices = sh.Vertices()
		}
		if v.Active {
			v.Preview, v.HasPreview = s.preview, s.hasPreview
		}
		snap.Shapes = append(snap.Shapes, v)
	}
	return snap
}
