package scene

import (
	"slices"

	"github.com/tomz197/shapedrag/internal/physics"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"
)

// Resolution records a committed separation: A moved by Translation and B
// by its negation.
type Resolution struct {
	A, B        ID
	Translation r2.Vec
}

// commit separates every pair whose members collide only with each other.
// Shapes with two or more overlaps are left in place and stay linked.
//
// A shape with a single overlap is skipped when its partner has others:
// resolving it would move the partner, and a shape with several overlaps
// must not move. The single-overlap rule alone would allow that move; the
// multi-overlap rule wins.
func (s *Scene) commit() []Resolution {
	var pending []ID
	for _, id := range s.order {
		if s.adj.Degree(id) == 1 {
			pending = append(pending, id)
		}
	}

	var (
		out   []Resolution
		moved []ID
	)
	for len(pending) > 0 {
		a := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		b, ok := s.adj.Sole(a)
		if !ok {
			continue
		}
		// b is reachable from a only once per pass.
		if i := slices.Index(pending, b); i >= 0 {
			pending = slices.Delete(pending, i, i+1)
		}
		if s.adj.Degree(b) != 1 {
			continue
		}

		v, ok := physics.IsColliding(s.shapes[a], s.shapes[b])
		if !ok {
			s.unlink(a, b)
			continue
		}

		s.shapes[a].Translate(v)
		s.shapes[b].Translate(r2.Scale(-1, v))
		s.unlink(a, b)
		moved = append(moved, a, b)
		out = append(out, Resolution{A: a, B: b, Translation: v})

		s.log.Debug("collision resolved",
			zap.Int("a", int(a)), zap.Int("b", int(b)),
			zap.Float64("dx", v.X), zap.Float64("dy", v.Y))
	}

	// A pushed shape may now touch a third one.
	for _, id := range moved {
		s.refresh(id)
	}
	return out
}
