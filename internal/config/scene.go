package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/tomz197/shapedrag/internal/geom"
	"github.com/tomz197/shapedrag/internal/scene"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultScene []byte

const (
	defaultWorldWidth  = 1200
	defaultWorldHeight = 800
)

// Point is a YAML [x, y] pair.
type Point struct {
	X, Y float64
}

// UnmarshalYAML decodes a two element sequence.
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var xy []float64
	if err := value.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return errors.Errorf("line %d: point needs 2 coordinates, got %d", value.Line, len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Vec converts p to a vector.
func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

type World struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ShapeConfig struct {
	Name     string  `yaml:"name"`
	Kind     string  `yaml:"kind"`
	Vertices []Point `yaml:"vertices,omitempty"`
	Edges    int     `yaml:"edges,omitempty"`
	Radius   float64 `yaml:"radius,omitempty"`
	Position *Point  `yaml:"position,omitempty"`
}

// SceneConfig describes a scene: its logical world size, pick radius,
// initial arrangement and shapes.
type SceneConfig struct {
	World     World         `yaml:"world"`
	HitRadius float64       `yaml:"hit_radius"`
	Layout    string        `yaml:"layout"`
	Shapes    []ShapeConfig `yaml:"shapes"`
}

// LoadScene decodes and validates a scene. Unknown keys are rejected.
func LoadScene(r io.Reader) (*SceneConfig, error) {
	var c SceneConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, errors.Wrap(err, "config: decode scene")
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadSceneFile reads a scene from path. An empty path yields the default
// scene.
func LoadSceneFile(path string) (*SceneConfig, error) {
	if path == "" {
		return DefaultScene()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: open scene %s", path)
	}
	defer f.Close()

	c, err := LoadScene(f)
	if err != nil {
		return nil, errors.Wrapf(err, "config: scene %s", path)
	}
	return c, nil
}

// LoadSceneFromEnv loads the scene named by SCENE_FILE, or the default
// scene, and applies a HIT_RADIUS override when one is set.
func LoadSceneFromEnv() (*SceneConfig, error) {
	c, err := LoadSceneFile(GetEnv("SCENE_FILE", ""))
	if err != nil {
		return nil, err
	}
	if r := GetEnvFloat("HIT_RADIUS", 0); r != 0 {
		c.HitRadius = r
		if err := c.Validate(); err != nil {
			return nil, errors.Wrap(err, "config: HIT_RADIUS")
		}
	}
	return c, nil
}

// DefaultScene returns the built-in seven shape scene.
func DefaultScene() (*SceneConfig, error) {
	return LoadScene(bytes.NewReader(defaultScene))
}

func (c *SceneConfig) applyDefaults() {
	if c.World.Width == 0 {
		c.World.Width = defaultWorldWidth
	}
	if c.World.Height == 0 {
		c.World.Height = defaultWorldHeight
	}
	if c.HitRadius == 0 {
		c.HitRadius = geom.DefaultHitRadius
	}
	for i := range c.Shapes {
		if c.Shapes[i].Name == "" {
			c.Shapes[i].Name = fmt.Sprintf("%s-%d", c.Shapes[i].Kind, i)
		}
	}
}

// Validate checks the parts of the scene that shape construction does not.
func (c *SceneConfig) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return errors.Errorf("config: world must be positive, got %gx%g", c.World.Width, c.World.Height)
	}
	if c.HitRadius <= 0 {
		return errors.Errorf("config: hit_radius must be positive, got %g", c.HitRadius)
	}
	if len(c.Shapes) == 0 {
		return errors.New("config: scene has no shapes")
	}

	switch c.Layout {
	case "", "grid":
	case "classic":
		if len(c.Shapes) != 7 {
			return errors.Errorf("config: classic layout needs 7 shapes, got %d", len(c.Shapes))
		}
	default:
		return errors.Errorf("config: unknown layout %q", c.Layout)
	}

	placed := 0
	for i, s := range c.Shapes {
		switch s.Kind {
		case "polygon", "regular", "circle":
		default:
			return errors.Errorf("config: shape %d (%s): unknown kind %q", i, s.Name, s.Kind)
		}
		if s.Position != nil {
			placed++
		}
	}
	if placed != 0 && placed != len(c.Shapes) {
		return errors.Errorf("config: %d of %d shapes have a position; set all or none", placed, len(c.Shapes))
	}
	return nil
}

// Build constructs the shapes in declaration order.
func (c *SceneConfig) Build() ([]*geom.Shape, error) {
	shapes := make([]*geom.Shape, 0, len(c.Shapes))
	for i, sc := range c.Shapes {
		s, err := sc.build()
		if err != nil {
			return nil, errors.Wrapf(err, "config: shape %d (%s)", i, sc.Name)
		}
		s.Name = sc.Name
		s.SetHitRadius(c.HitRadius)
		shapes = append(shapes, s)
	}
	return shapes, nil
}

func (sc ShapeConfig) build() (*geom.Shape, error) {
	switch sc.Kind {
	case "polygon":
		vs := make([]r2.Vec, len(sc.Vertices))
		for i, p := range sc.Vertices {
			vs[i] = p.Vec()
		}
		return geom.NewPolygon(vs)
	case "regular":
		return geom.NewRegularPolygon(sc.Edges, sc.Radius)
	case "circle":
		return geom.NewCircle(sc.Radius)
	}
	return nil, errors.Errorf("unknown kind %q", sc.Kind)
}

// Positions returns the initial centroid of every shape: the configured
// positions when present, else the configured layout.
func (c *SceneConfig) Positions(shapes []*geom.Shape) ([]r2.Vec, error) {
	if len(c.Shapes) > 0 && c.Shapes[0].Position != nil {
		pos := make([]r2.Vec, len(c.Shapes))
		for i, sc := range c.Shapes {
			pos[i] = sc.Position.Vec()
		}
		return pos, nil
	}
	layout := scene.LayoutByName(c.Layout, len(shapes))
	return layout(c.World.Width, c.World.Height, shapes)
}

// NewScene builds the shapes, places them and returns a ready scene.
func (c *SceneConfig) NewScene(opts ...scene.Option) (*scene.Scene, error) {
	shapes, err := c.Build()
	if err != nil {
		return nil, err
	}
	pos, err := c.Positions(shapes)
	if err != nil {
		return nil, err
	}
	s := scene.New(shapes, opts...)
	if err := s.Reset(pos); err != nil {
		return nil, err
	}
	return s, nil
}
