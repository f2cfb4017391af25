package loop

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/tomz197/shapedrag/internal/scene"
	"gonum.org/v1/gonum/spatial/r2"
)

// settle eases a shape's drawn position onto its committed one. The scene
// geometry is already final; only the render offset animates.
type settle struct {
	from  r2.Vec
	k     float64
	tween *gween.Tween
	done  bool
}

func newSettle(from r2.Vec) *settle {
	return &settle{
		from:  from,
		k:     1,
		tween: gween.New(1, 0, float32(settleDuration.Seconds()), ease.OutCubic),
	}
}

func (s *settle) update(dt float32) {
	if s.done {
		return
	}
	val, finished := s.tween.Update(dt)
	s.k = float64(val)
	s.done = finished
}

func (s *settle) offset() r2.Vec {
	if s.done {
		return r2.Vec{}
	}
	return r2.Scale(s.k, s.from)
}

// settles tracks the running settle per shape.
type settles map[scene.ID]*settle

// start animates both members of every resolution from where they were drawn
// before the commit. A shape still settling continues from its current offset.
func (m settles) start(res []scene.Resolution) {
	for _, r := range res {
		m.push(r.A, r2.Scale(-1, r.Translation))
		m.push(r.B, r.Translation)
	}
}

func (m settles) push(id scene.ID, from r2.Vec) {
	if cur, ok := m[id]; ok {
		from = r2.Add(from, cur.offset())
	}
	m[id] = newSettle(from)
}

func (m settles) update(dt float32) {
	for id, s := range m {
		s.update(dt)
		if s.done {
			delete(m, id)
		}
	}
}

func (m settles) offset(id scene.ID) r2.Vec {
	if s, ok := m[id]; ok {
		return s.offset()
	}
	return r2.Vec{}
}
