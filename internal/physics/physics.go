// Package physics provides collision detection and distance utilities for
// convex shapes: Separating Axis Theorem overlap tests and minimum
// translation vectors.
package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Distance calculates the Euclidean distance between two points.
func Distance(a, b r2.Vec) float64 {
	return math.Sqrt(DistanceSquared(a, b))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b r2.Vec) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(c1 r2.Vec, rad1 float64, c2 r2.Vec, rad2 float64) bool {
	minDist := rad1 + rad2
	return DistanceSquared(c1, c2) < minDist*minDist
}
