package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/shapedrag/internal/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestDefaultScene(t *testing.T) {
	c, err := DefaultScene()
	require.NoError(t, err)
	assert.Equal(t, World{Width: 1200, Height: 800}, c.World)
	assert.Equal(t, "classic", c.Layout)
	require.Len(t, c.Shapes, 7)

	shapes, err := c.Build()
	require.NoError(t, err)

	kinds := make([]geom.Kind, len(shapes))
	for i, s := range shapes {
		kinds[i] = s.Kind()
		assert.Equal(t, c.HitRadius, s.HitRadius())
	}
	assert.Equal(t, []geom.Kind{
		geom.KindPolygon, geom.KindPolygon,
		geom.KindRegularPolygon, geom.KindRegularPolygon, geom.KindRegularPolygon,
		geom.KindCircle, geom.KindCircle,
	}, kinds)
	assert.Equal(t, "hexagon", shapes[2].Name)
	assert.Equal(t, 6, shapes[2].VertexCount())
	assert.Equal(t, 40.0, shapes[6].Radius())
}

func TestDefaultSceneStartsWithoutCollisions(t *testing.T) {
	c, err := DefaultScene()
	require.NoError(t, err)

	s, err := c.NewScene()
	require.NoError(t, err)
	assert.Equal(t, 7, s.Len())
	assert.Empty(t, s.Adjacency().Pairs())
}

func TestLoadSceneDefaultsAndPositions(t *testing.T) {
	const doc = `
shapes:
  - kind: circle
    radius: 10
    position: [5, 6]
  - name: tri
    kind: polygon
    vertices: [[0, 0], [10, 0], [0, 10]]
    position: [50, 50]
`
	c, err := LoadScene(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, World{Width: 1200, Height: 800}, c.World)
	assert.Equal(t, geom.DefaultHitRadius, c.HitRadius)
	assert.Equal(t, "circle-0", c.Shapes[0].Name)

	shapes, err := c.Build()
	require.NoError(t, err)
	pos, err := c.Positions(shapes)
	require.NoError(t, err)
	assert.Equal(t, []r2.Vec{{X: 5, Y: 6}, {X: 50, Y: 50}}, pos)
}

func TestLoadSceneGridFallback(t *testing.T) {
	const doc = `
world: {width: 300, height: 200}
shapes:
  - {kind: circle, radius: 5}
  - {kind: circle, radius: 5}
`
	c, err := LoadScene(strings.NewReader(doc))
	require.NoError(t, err)
	shapes, err := c.Build()
	require.NoError(t, err)
	pos, err := c.Positions(shapes)
	require.NoError(t, err)
	require.Len(t, pos, 2)
	assert.Equal(t, pos[0].Y, pos[1].Y)
	assert.Less(t, pos[0].X, pos[1].X)
}

func TestLoadSceneErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown key", "shapes: [{kind: circle, radius: 1}]\ncolour: red\n", "decode scene"},
		{"no shapes", "world: {width: 10, height: 10}\n", "no shapes"},
		{"bad kind", "shapes: [{kind: star}]\n", "unknown kind"},
		{"bad layout", "layout: spiral\nshapes: [{kind: circle, radius: 1}]\n", "unknown layout"},
		{"classic count", "layout: classic\nshapes: [{kind: circle, radius: 1}]\n", "needs 7"},
		{"short point", "shapes: [{kind: polygon, vertices: [[1, 2, 3]]}]\n", "2 coordinates"},
		{"negative world", "world: {width: -1, height: 5}\nshapes: [{kind: circle, radius: 1}]\n", "positive"},
		{
			"partial positions",
			"shapes: [{kind: circle, radius: 1, position: [1, 1]}, {kind: circle, radius: 1}]\n",
			"all or none",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScene(strings.NewReader(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestBuildWrapsGeometryErrors(t *testing.T) {
	const doc = `
shapes:
  - {name: ok, kind: circle, radius: 3}
  - {name: flat, kind: circle, radius: 0}
  - {name: line, kind: polygon, vertices: [[0, 0], [1, 1]]}
`
	c, err := LoadScene(strings.NewReader(doc))
	require.NoError(t, err)

	_, err = c.Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, geom.ErrNonPositiveRadius))
	assert.Contains(t, err.Error(), "shape 1 (flat)")

	c.Shapes[1].Radius = 2
	_, err = c.Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, geom.ErrTooFewVertices))
	assert.Contains(t, err.Error(), "shape 2 (line)")
}

func TestLoadSceneFile(t *testing.T) {
	c, err := LoadSceneFile("")
	require.NoError(t, err)
	assert.Len(t, c.Shapes, 7)

	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shapes: [{kind: circle, radius: 4}]\n"), 0o600))
	c, err = LoadSceneFile(path)
	require.NoError(t, err)
	assert.Len(t, c.Shapes, 1)

	_, err = LoadSceneFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadSceneFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hit_radius: 12\nshapes: [{kind: circle, radius: 4}]\n"), 0o600))

	t.Run("default scene", func(t *testing.T) {
		t.Setenv("SCENE_FILE", "")
		t.Setenv("HIT_RADIUS", "")
		c, err := LoadSceneFromEnv()
		require.NoError(t, err)
		assert.Len(t, c.Shapes, 7)
	})

	t.Run("file", func(t *testing.T) {
		t.Setenv("SCENE_FILE", path)
		t.Setenv("HIT_RADIUS", "")
		c, err := LoadSceneFromEnv()
		require.NoError(t, err)
		assert.Equal(t, 12.0, c.HitRadius)
	})

	t.Run("hit radius override", func(t *testing.T) {
		t.Setenv("SCENE_FILE", path)
		t.Setenv("HIT_RADIUS", "25.5")
		c, err := LoadSceneFromEnv()
		require.NoError(t, err)
		assert.Equal(t, 25.5, c.HitRadius)

		shapes, err := c.Build()
		require.NoError(t, err)
		assert.Equal(t, 25.5, shapes[0].HitRadius())
	})

	t.Run("bad override", func(t *testing.T) {
		t.Setenv("SCENE_FILE", path)
		t.Setenv("HIT_RADIUS", "-3")
		_, err := LoadSceneFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HIT_RADIUS")
	})
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("SHAPEDRAG_TEST_INT", "42")
	t.Setenv("SHAPEDRAG_TEST_FLOAT", "2.5")
	t.Setenv("SHAPEDRAG_TEST_BAD", "x")

	assert.Equal(t, 42, GetEnvInt("SHAPEDRAG_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvInt("SHAPEDRAG_TEST_BAD", 1))
	assert.Equal(t, 7, GetEnvInt("SHAPEDRAG_TEST_UNSET", 7))
	assert.Equal(t, 2.5, GetEnvFloat("SHAPEDRAG_TEST_FLOAT", 0))
	assert.Equal(t, 0.5, GetEnvFloat("SHAPEDRAG_TEST_BAD", 0.5))
	assert.Equal(t, "42", GetEnv("SHAPEDRAG_TEST_INT", ""))
	assert.Equal(t, "dflt", GetEnv("SHAPEDRAG_TEST_UNSET", "dflt"))
}
