package loop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/shapedrag/internal/config"
	"gonum.org/v1/gonum/spatial/r2"
)

// Two circles in a 1200x800 world. A 122x42 terminal renders it at 120x40
// cells with a one column, one row offset: cell (x/10+1, y/20+1).
const twoCircles = `
hit_radius: 30
shapes:
  - {name: left, kind: circle, radius: 60, position: [300, 400]}
  - {name: right, kind: circle, radius: 60, position: [500, 400]}
`

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func newTestSession(t *testing.T, doc string, opts Options) (*Session, *io.PipeWriter) {
	t.Helper()
	cfg, err := config.LoadScene(strings.NewReader(doc))
	require.NoError(t, err)

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	opts.Scene = cfg
	opts.TermSizeFunc = fixedSize(122, 42)
	s, err := NewSession(bufio.NewReader(pr), &bytes.Buffer{}, opts)
	require.NoError(t, err)
	return s, pw
}

func runSession(t *testing.T, ctx context.Context, s *Session) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("session did not stop")
	}
}

func TestSessionDragAndRelease(t *testing.T) {
	s, pw := newTestSession(t, twoCircles, Options{ID: "drag"})
	assert.Equal(t, "drag", s.ID())
	require.Empty(t, s.Scene().Adjacency().Pairs())

	done := runSession(t, context.Background(), s)

	// Press on the left circle, drag it 100 units right, release, quit.
	_, err := pw.Write([]byte("\x1b[<0;32;22M\x1b[<32;42;22M\x1b[<0;42;22mq"))
	require.NoError(t, err)
	waitDone(t, done)

	sc := s.Scene()
	assert.Empty(t, sc.Adjacency().Pairs())
	left, right := sc.Shape(0).Centroid(), sc.Shape(1).Centroid()
	assert.InDelta(t, 380, left.X, 1e-9)
	assert.InDelta(t, 520, right.X, 1e-9)
	assert.InDelta(t, 400, left.Y, 1e-9)
	assert.Equal(t, 1, s.resolved)
	_, active := sc.Active()
	assert.False(t, active)
}

func TestSessionReset(t *testing.T) {
	s, pw := newTestSession(t, twoCircles, Options{})
	done := runSession(t, context.Background(), s)

	_, err := pw.Write([]byte("\x1b[<0;32;22M\x1b[<32;36;22M\x1b[<0;36;22m"))
	require.NoError(t, err)
	_, err = pw.Write([]byte("rq"))
	require.NoError(t, err)
	waitDone(t, done)

	assert.Equal(t, r2.Vec{X: 300, Y: 400}, s.Scene().Shape(0).Centroid())
	assert.Empty(t, s.settles)
}

func TestSessionStopsOnContext(t *testing.T) {
	s, _ := newTestSession(t, twoCircles, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := runSession(t, ctx, s)

	time.Sleep(50 * time.Millisecond)
	cancel()
	waitDone(t, done)

	select {
	case <-s.stream.Done():
	default:
		t.Fatal("input stream still running after the session ended")
	}
}

func TestSessionStopsOnEOF(t *testing.T) {
	s, pw := newTestSession(t, twoCircles, Options{})
	done := runSession(t, context.Background(), s)

	require.NoError(t, pw.Close())
	waitDone(t, done)
}

func TestSessionIdleTimeout(t *testing.T) {
	s, _ := newTestSession(t, twoCircles, Options{IdleTimeout: 50 * time.Millisecond})
	done := runSession(t, context.Background(), s)
	waitDone(t, done)
}

func TestSessionDefaultScene(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	s, err := NewSession(bufio.NewReader(pr), io.Discard, Options{TermSizeFunc: fixedSize(80, 24)})
	require.NoError(t, err)
	assert.Equal(t, 7, s.Scene().Len())
	assert.NotEmpty(t, s.ID())
}
