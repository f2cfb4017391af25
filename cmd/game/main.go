package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/tomz197/shapedrag/internal/config"
	"github.com/tomz197/shapedrag/internal/logging"
	"github.com/tomz197/shapedrag/internal/loop"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "shapedrag: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// The terminal is the UI, so logs only go to a file when asked for.
	logger, err := logging.NewOrNop(config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FILE", ""))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadSceneFromEnv()
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return errors.Wrap(err, "enable raw mode")
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := loop.NewSession(bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Scene:  cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	if err := s.Run(ctx); err != nil {
		logger.Error("session failed", zap.Error(err))
		return err
	}
	return nil
}
