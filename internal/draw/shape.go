package draw

import (
	"github.com/tomz197/shapedrag/internal/geom"
	"github.com/tomz197/shapedrag/internal/scene"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	defaultCircleSegments = 48
	dashOn                = 2
	dashOff               = 2
)

// ShapeStyle controls how DrawShape renders one shape.
type ShapeStyle struct {
	// Offset shifts the drawn geometry, e.g. while a release settles.
	Offset r2.Vec
	// CircleSegments is the polygonization of circles; 0 means a default.
	CircleSegments int
}

// DrawShape draws v onto c. Colliding shapes are filled; others are outlined.
// The active shape shows its pick region and, when there is one, a dashed
// ghost at the position its resolution would move it to.
func DrawShape(c *Canvas, v scene.ShapeView, style ShapeStyle) {
	centre := r2.Add(v.Centre, style.Offset)
	pts := outline(c, v, style)

	c.DrawPolygon(pts, v.Colliding)

	if v.HasPreview {
		for i := range pts {
			pts[i] = r2.Add(pts[i], v.Preview)
		}
		c.DrawDashedPolygon(pts, dashOn, dashOff)
	}

	if v.Active {
		if v.Colliding {
			c.EraseCircle(centre, v.HitRadius)
		} else {
			c.FillCircle(centre, v.HitRadius)
		}
	}
}

// outline returns the drawn boundary of v in a buffer borrowed from c.
func outline(c *Canvas, v scene.ShapeView, style ShapeStyle) []r2.Vec {
	if v.Kind == geom.KindCircle {
		n := style.CircleSegments
		if n < 3 {
			n = defaultCircleSegments
		}
		pts := c.BorrowPoints(n)
		CirclePoints(pts, r2.Add(v.Centre, style.Offset), v.Radius)
		return pts
	}

	pts := c.BorrowPoints(len(v.Vertices))
	for i, p := range v.Vertices {
		pts[i] = r2.Add(p, style.Offset)
	}
	return pts
}
