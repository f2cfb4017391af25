package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tomz197/shapedrag/internal/config"
	"github.com/tomz197/shapedrag/internal/draw"
	applog "github.com/tomz197/shapedrag/internal/logging"
	"github.com/tomz197/shapedrag/internal/loop"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultHost         = "::"
	defaultPort         = "2222"
	defaultHostKeyPath  = "/app/keys/host_key"
	defaultIdleSecs     = 300
	defaultShutdownSecs = 5
)

func main() {
	logger, err := applog.New(config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FILE", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "shapedrag-ssh: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	idleTimeout := time.Duration(config.GetEnvInt("IDLE_TIMEOUT", defaultIdleSecs)) * time.Second
	shutdownTimeout := time.Duration(config.GetEnvInt("SHUTDOWN_TIMEOUT", defaultShutdownSecs)) * time.Second

	cfg, err := config.LoadSceneFromEnv()
	if err != nil {
		return err
	}
	logger.Info("ssh config",
		zap.String("host", host), zap.String("port", port),
		zap.String("host_key", hostKeyPath), zap.Int("shapes", len(cfg.Shapes)),
		zap.Float64("hit_radius", cfg.HitRadius), zap.Duration("idle_timeout", idleTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			sceneMiddleware(ctx, cfg, idleTimeout, logger),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY so drags are not batched by Nagle's algorithm
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return errors.Wrap(err, "create server")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting ssh server", zap.String("addr", s.Addr))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	return g.Wait()
}

// sceneMiddleware runs an independent scene for every session. Sessions end
// when the client leaves, after idleTimeout without input, or when ctx is done.
func sceneMiddleware(ctx context.Context, cfg *config.SceneConfig, idleTimeout time.Duration, logger *zap.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			id := uuid.NewString()
			log := logger.With(zap.String("user", sess.User()))
			log.Info("new session",
				zap.String("session", id),
				zap.String("term", pty.Term),
				zap.Int("width", pty.Window.Width),
				zap.Int("height", pty.Window.Height))

			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			sessCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			stopAfter := context.AfterFunc(sess.Context(), cancel)
			defer stopAfter()

			sc, err := loop.NewSession(bufio.NewReader(sess), sess, loop.Options{
				Scene:        cfg,
				TermSizeFunc: sizeTracker.getSize,
				Logger:       log,
				ID:           id,
				IdleTimeout:  idleTimeout,
			})
			if err != nil {
				log.Error("session setup failed", zap.String("session", id), zap.Error(err))
				fmt.Fprintln(sess, "Error: could not build the scene")
				return
			}
			if err := sc.Run(sessCtx); err != nil {
				log.Error("session failed", zap.String("session", id), zap.Error(err))
			}
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
