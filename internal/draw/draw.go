// Package draw renders scenes to a terminal with half-block characters.
package draw

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// CirclePoints fills dst with len(dst) points evenly spaced on a circle,
// starting at angle 0 and turning clockwise on screen.
func CirclePoints(dst []r2.Vec, centre r2.Vec, r float64) {
	step := 2 * math.Pi / float64(len(dst))
	for i := range dst {
		a := float64(i) * step
		dst[i] = r2.Vec{X: centre.X + r*math.Cos(a), Y: centre.Y + r*math.Sin(a)}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
