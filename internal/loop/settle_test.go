package loop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/shapedrag/internal/scene"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestSettlesStartFromPreCommitPosition(t *testing.T) {
	m := settles{}
	m.start([]scene.Resolution{{A: 1, B: 4, Translation: r2.Vec{X: 6, Y: -2}}})

	assert.Equal(t, r2.Vec{X: -6, Y: 2}, m.offset(1))
	assert.Equal(t, r2.Vec{X: 6, Y: -2}, m.offset(4))
	assert.Equal(t, r2.Vec{}, m.offset(2))

	m.update(float32(settleDuration.Seconds()) / 2)
	mid := m.offset(1)
	assert.Greater(t, mid.X, -6.0)
	assert.Less(t, mid.X, 0.0)

	m.update(float32(settleDuration.Seconds()))
	assert.Empty(t, m)
	assert.Equal(t, r2.Vec{}, m.offset(1))
}

func TestSettlesChain(t *testing.T) {
	m := settles{}
	m.start([]scene.Resolution{{A: 0, B: 1, Translation: r2.Vec{X: 10}}})
	m.start([]scene.Resolution{{A: 1, B: 2, Translation: r2.Vec{X: 5}}})

	// Shape 1 is still drawn where it was before both commits.
	require.Contains(t, m, scene.ID(1))
	assert.Equal(t, r2.Vec{X: 5}, m.offset(1))
}
