package scene

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tomz197/shapedrag/internal/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

// Layout computes an absolute centroid position for each shape inside a
// width x height area.
type Layout func(width, height float64, shapes []*geom.Shape) ([]r2.Vec, error)

// layoutMargin is the fraction of the area kept free along each border.
const layoutMargin = 0.05

// ClassicLayout arranges exactly seven shapes: shapes 0 and 1 along the top,
// 2, 3 and 4 across the middle, 5 and 6 along the bottom under 0 and 1.
func ClassicLayout(width, height float64, shapes []*geom.Shape) ([]r2.Vec, error) {
	if len(shapes) != 7 {
		return nil, errors.Errorf("scene: classic layout needs 7 shapes, got %d", len(shapes))
	}

	rl := layoutMargin * width
	tb := layoutMargin * height
	pos := make([]r2.Vec, 7)

	top := func(s *geom.Shape) float64 {
		_, _, ymin, _ := s.Extents()
		return tb + ymin
	}
	bottom := func(s *geom.Shape) float64 {
		_, _, _, ymax := s.Extents()
		return height - tb - ymax
	}

	left := (width + rl) / 3
	right := (2*width - rl) / 3
	pos[0] = r2.Vec{X: left, Y: top(shapes[0])}
	pos[5] = r2.Vec{X: left, Y: bottom(shapes[5])}
	pos[1] = r2.Vec{X: right, Y: top(shapes[1])}
	pos[6] = r2.Vec{X: right, Y: bottom(shapes[6])}

	mid := height / 2
	xmin2, _, _, _ := shapes[2].Extents()
	_, xmax4, _, _ := shapes[4].Extents()
	pos[2] = r2.Vec{X: rl + xmin2, Y: mid}
	pos[3] = r2.Vec{X: width / 2, Y: mid}
	pos[4] = r2.Vec{X: width - rl - xmax4, Y: mid}

	return pos, nil
}

// GridLayout places shapes row by row at the centres of a near-square grid.
func GridLayout(width, height float64, shapes []*geom.Shape) ([]r2.Vec, error) {
	n := len(shapes)
	if n == 0 {
		return nil, nil
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	rl := layoutMargin * width
	tb := layoutMargin * height
	cw := (width - 2*rl) / float64(cols)
	ch := (height - 2*tb) / float64(rows)

	pos := make([]r2.Vec, n)
	for i := range pos {
		c, r := i%cols, i/cols
		pos[i] = r2.Vec{
			X: rl + (float64(c)+0.5)*cw,
			Y: tb + (float64(r)+0.5)*ch,
		}
	}
	return pos, nil
}

// LayoutByName returns the named layout. Unknown names fall back to the
// classic layout for seven shapes and the grid otherwise.
func LayoutByName(name string, n int) Layout {
	switch name {
	case "classic":
		return ClassicLayout
	case "grid":
		return GridLayout
	}
	if n == 7 {
		return ClassicLayout
	}
	return GridLayout
}
