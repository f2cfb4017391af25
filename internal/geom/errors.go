package geom

import "github.com/pkg/errors"

// Construction errors. Shapes are validated once when built; malformed
// geometry never reaches the collision code.
var (
	ErrTooFewVertices    = errors.New("geom: polygon needs at least 3 vertices")
	ErrZeroLengthEdge    = errors.New("geom: polygon has a zero-length edge")
	ErrNonPositiveRadius = errors.New("geom: radius must be positive")
	ErrDegenerate        = errors.New("geom: polygon has zero area")
)
