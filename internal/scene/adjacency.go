package scene

import (
	"cmp"
	"slices"
)

// ID indexes a shape in the scene arena.
type ID int

// Pair is an unordered pair of shapes, stored with A < B.
type Pair struct {
	A, B ID
}

// MakePair orders a and b.
func MakePair(a, b ID) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Adjacency is the symmetric collision relation over a fixed set of shapes.
// Each node keeps its own neighbor set for O(1) lookup; the only mutators
// update both ends of a pair in the same call.
type Adjacency struct {
	neighbors []map[ID]struct{}
}

// NewAdjacency returns an empty relation over n shapes.
func NewAdjacency(n int) *Adjacency {
	a := &Adjacency{neighbors: make([]map[ID]struct{}, n)}
	for i := range a.neighbors {
		a.neighbors[i] = make(map[ID]struct{})
	}
	return a
}

// Len returns the number of nodes.
func (a *Adjacency) Len() int { return len(a.neighbors) }

// Link records that x and y collide. It reports whether the pair was new.
func (a *Adjacency) Link(x, y ID) bool {
	if x == y {
		return false
	}
	if _, ok := a.neighbors[x][y]; ok {
		return false
	}
	a.neighbors[x][y] = struct{}{}
	a.neighbors[y][x] = struct{}{}
	return true
}

// Unlink removes the pair. It reports whether the pair existed.
func (a *Adjacency) Unlink(x, y ID) bool {
	if _, ok := a.neighbors[x][y]; !ok {
		return false
	}
	delete(a.neighbors[x], y)
	delete(a.neighbors[y], x)
	return true
}

// Clear removes every pair.
func (a *Adjacency) Clear() {
	for i := range a.neighbors {
		clear(a.neighbors[i])
	}
}

// Has reports whether x and y are linked.
func (a *Adjacency) Has(x, y ID) bool {
	_, ok := a.neighbors[x][y]
	return ok
}

// Degree returns the number of shapes colliding with x.
func (a *Adjacency) Degree(x ID) int {
	return len(a.neighbors[x])
}

// Neighbors returns the shapes colliding with x in ascending order.
func (a *Adjacency) Neighbors(x ID) []ID {
	out := make([]ID, 0, len(a.neighbors[x]))
	for y := range a.neighbors[x] {
		out = append(out, y)
	}
	slices.Sort(out)
	return out
}

// Sole returns the only neighbor of x, or false if x does not have exactly
// one.
func (a *Adjacency) Sole(x ID) (ID, bool) {
	if len(a.neighbors[x]) != 1 {
		return 0, false
	}
	for y := range a.neighbors[x] {
		return y, true
	}
	return 0, false
}

// Pairs returns every linked pair, sorted.
func (a *Adjacency) Pairs() []Pair {
	var out []Pair
	for x, ns := range a.neighbors {
		for y := range ns {
			if ID(x) < y {
				out = append(out, Pair{A: ID(x), B: y})
			}
		}
	}
	slices.SortFunc(out, func(p, q Pair) int {
		if c := cmp.Compare(p.A, q.A); c != 0 {
			return c
		}
		return cmp.Compare(p.B, q.B)
	})
	return out
}

// Symmetric reports whether every link is present on both sides.
func (a *Adjacency) Symmetric() bool {
	for x, ns := range a.neighbors {
		for y := range ns {
			if _, ok := a.neighbors[y][ID(x)]; !ok {
				return false
			}
		}
	}
	return true
}
