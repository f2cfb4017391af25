// Package loop runs one interactive scene per terminal: input, scene
// updates and drawing at a fixed frame rate.
package loop

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tomz197/shapedrag/internal/config"
	"github.com/tomz197/shapedrag/internal/draw"
	"github.com/tomz197/shapedrag/internal/input"
	"github.com/tomz197/shapedrag/internal/scene"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"
)

// Options configures a session.
type Options struct {
	Scene        *config.SceneConfig // nil means the default scene
	TermSizeFunc draw.TermSizeFunc   // nil means the local terminal
	Logger       *zap.Logger         // nil means no logging
	ID           string              // empty means a fresh UUID
	IdleTimeout  time.Duration       // 0 disables the idle disconnect
}

// Session owns one scene and the terminal it is drawn on.
type Session struct {
	id     string
	cfg   *config.SceneConfig
	scene *scene.Scene
	log   *zap.Logger

	writer       io.Writer
	out          *draw.ChunkWriter
	canvas       *draw.Canvas
	stream       *input.Stream
	termSizeFunc draw.TermSizeFunc
	termWidth    int
	termHeight   int

	settles     settles
	pointer     r2.Vec
	hasPointer  bool
	help        bool
	resolved    int
	idleTimeout time.Duration
	lastInput   time.Time
	running     bool
}

// NewSession builds the scene described by opts and prepares to draw it on w.
func NewSession(r *bufio.Reader, w io.Writer, opts Options) (*Session, error) {
	cfg := opts.Scene
	if cfg == nil {
		var err error
		if cfg, err = config.DefaultScene(); err != nil {
			return nil, err
		}
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("session", id))
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	sc, err := cfg.NewScene(scene.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return &Session{
		id:           id,
		cfg:          cfg,
		scene:        sc,
		log:          log,
		writer:       w,
		out:          draw.NewChunkWriter(w),
		canvas:       draw.NewScaledCanvas(1, 1, cfg.World.Width, cfg.World.Height),
		stream:       input.StartStream(r),
		termSizeFunc: termSizeFunc,
		settles:      settles{},
		idleTimeout:  opts.IdleTimeout,
		lastInput:    time.Now(),
		running:      true,
	}, nil
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Scene exposes the session's scene.
func (s *Session) Scene() *scene.Scene { return s.scene }

// Run draws frames until the user quits, the input closes, the session
// idles out or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	defer s.stream.Stop()
	draw.HideCursor(s.writer)
	defer draw.ShowCursor(s.writer)
	if err := input.EnableMouse(s.writer); err != nil {
		return errors.Wrap(err, "loop: enable mouse")
	}
	defer input.DisableMouse(s.writer)
	draw.ClearScreen(s.writer)

	s.log.Info("session started", zap.Int("shapes", s.scene.Len()))
	started := time.Now()
	lastTime := started

	for s.running {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		select {
		case <-ctx.Done():
			s.running = false
			continue
		default:
		}

		s.updateScreen()
		if err := s.processInput(frameStart); err != nil {
			return err
		}
		s.settles.update(float32(delta.Seconds()))

		if err := s.drawFrame(); err != nil {
			return errors.Wrap(err, "loop: draw frame")
		}

		elapsed := time.Since(frameStart)
		if elapsed < targetFrameTime {
			time.Sleep(targetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(s.writer)
	s.log.Info("session ended",
		zap.Duration("duration", time.Since(started)),
		zap.Int("resolved", s.resolved))
	return nil
}

// processInput applies this frame's keys and pointer events to the scene.
func (s *Session) processInput(now time.Time) error {
	in := input.ReadInput(s.stream)

	if len(in.Pressed) > 0 || len(in.Pointer) > 0 {
		s.lastInput = now
	} else if s.idleTimeout > 0 && now.Sub(s.lastInput) > s.idleTimeout {
		s.log.Info("session idle", zap.Duration("timeout", s.idleTimeout))
		s.running = false
	}

	for _, ev := range in.Pointer {
		s.handlePointer(ev)
	}

	if in.Help {
		s.help = !s.help
		if !s.help {
			s.canvas.ForceRedraw()
		}
	}
	if in.Reset {
		if err := s.reset(); err != nil {
			return err
		}
	}
	if in.Quit || in.Closed {
		s.running = false
	}
	return nil
}

func (s *Session) handlePointer(ev input.PointerEvent) {
	p, inside := s.canvas.TerminalToLogical(ev.Col, ev.Row)
	s.pointer, s.hasPointer = p, inside

	switch ev.Kind {
	case input.PointerDown:
		if !inside {
			return
		}
		if s.scene.OnPointerDown(p.X, p.Y) {
			clear(s.settles)
		}
	case input.PointerMove:
		s.scene.OnPointerMove(p.X, p.Y)
	case input.PointerUp:
		s.scene.OnPointerMove(p.X, p.Y)
		res := s.scene.OnPointerUp()
		s.resolved += len(res)
		s.settles.start(res)
	}
}

// reset places every shape at its configured starting position.
func (s *Session) reset() error {
	pos, err := s.cfg.Positions(s.scene.Shapes())
	if err != nil {
		return err
	}
	if err := s.scene.Reset(pos); err != nil {
		return err
	}
	clear(s.settles)
	s.log.Debug("scene reset", zap.Int("pairs", len(s.scene.Adjacency().Pairs())))
	return nil
}

// updateScreen handles terminal resize. On actual size changes, clears the
// terminal to remove residual pixels outside the new canvas area.
func (s *Session) updateScreen() {
	termWidth, termHeight, err := s.termSizeFunc()
	if err != nil {
		return
	}
	if termWidth == s.termWidth && termHeight == s.termHeight {
		return
	}
	s.termWidth, s.termHeight = termWidth, termHeight

	fit := draw.FitTerminal(termWidth, termHeight, s.cfg.World.Width, s.cfg.World.Height)
	draw.ClearScreen(s.out)
	s.canvas.Resize(fit.Cols, fit.Rows)
	s.canvas.SetOffset(fit.OffsetCol, fit.OffsetRow)
	s.canvas.ForceRedraw()
	_ = s.canvas.RenderBorder(s.out)
}

// drawFrame draws the scene and the overlays and flushes them.
func (s *Session) drawFrame() error {
	s.canvas.Clear()

	snap := s.scene.Snapshot()
	for _, v := range snap.Shapes {
		draw.DrawShape(s.canvas, v, draw.ShapeStyle{Offset: s.settles.offset(v.ID)})
	}

	if err := s.canvas.Render(s.out); err != nil {
		return err
	}
	s.drawHUD(snap)
	return s.out.Flush()
}
