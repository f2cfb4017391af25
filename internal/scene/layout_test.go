package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/shapedrag/internal/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestClassicLayout(t *testing.T) {
	shapes := classicShapes()
	pos, err := ClassicLayout(worldW, worldH, shapes)
	require.NoError(t, err)
	require.Len(t, pos, 7)

	assert.Equal(t, pos[0].X, pos[5].X, "bottom row sits under the top row")
	assert.Equal(t, pos[1].X, pos[6].X)
	assert.Equal(t, pos[2].Y, pos[3].Y)
	assert.Equal(t, pos[3], r2.Vec{X: worldW / 2, Y: worldH / 2})

	// Every shape lies inside the world once placed.
	s := sceneWith(t, shapes, pos)
	for i := 0; i < s.Len(); i++ {
		sh := s.Shape(ID(i))
		xmin, xmax, ymin, ymax := sh.Extents()
		c := sh.Centroid()
		assert.GreaterOrEqual(t, c.X-xmin, 0.0, sh.Name)
		assert.LessOrEqual(t, c.X+xmax, float64(worldW), sh.Name)
		assert.GreaterOrEqual(t, c.Y-ymin, 0.0, sh.Name)
		assert.LessOrEqual(t, c.Y+ymax, float64(worldH), sh.Name)
	}
}

func TestClassicLayoutNeedsSeven(t *testing.T) {
	_, err := ClassicLayout(worldW, worldH, classicShapes()[:3])
	assert.Error(t, err)
}

func TestGridLayout(t *testing.T) {
	shapes := make([]*geom.Shape, 5)
	for i := range shapes {
		shapes[i] = geom.MustCircle(10)
	}
	pos, err := GridLayout(300, 200, shapes)
	require.NoError(t, err)
	require.Len(t, pos, 5)

	// 3 columns, 2 rows inside 15/10 margins.
	assert.InDelta(t, 15+45, pos[0].X, 1e-9)
	assert.InDelta(t, 10+45, pos[0].Y, 1e-9)
	assert.InDelta(t, 15+90+45, pos[1].X, 1e-9)
	assert.InDelta(t, 10+90+45, pos[4].Y, 1e-9)
	assert.Equal(t, pos[0].X, pos[3].X)

	pos, err = GridLayout(300, 200, nil)
	require.NoError(t, err)
	assert.Empty(t, pos)
}

func TestLayoutByName(t *testing.T) {
	shapes := classicShapes()

	cases := []struct {
		name string
		n    int
		want Layout
	}{
		{"classic", 7, ClassicLayout},
		{"grid", 7, GridLayout},
		{"", 7, ClassicLayout},
		{"", 4, GridLayout},
		{"spiral", 9, GridLayout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LayoutByName(tc.name, tc.n)(worldW, worldH, shapes)
			want, wantErr := tc.want(worldW, worldH, shapes)
			require.Equal(t, wantErr == nil, err == nil)
			assert.Equal(t, want, got)
		})
	}
}
