// gameharness runs a headless demo game with the automation server attached.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"gameharness/internal/adapter/discovery"
	"gameharness/internal/adapter/harness"
	metricsinmem "gameharness/internal/adapter/metrics/inmemory"
	"gameharness/internal/adapter/ops"
	"gameharness/internal/app/ports"
	"gameharness/internal/config"
	"gameharness/internal/logging"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "gameharness: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := buildProgressStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	game, err := buildGame(cfg.Game, store, logger)
	if err != nil {
		return err
	}

	disp := harness.NewDispatcher(logger)
	defer disp.Close()

	// Saved progress is host work, so it goes through the dispatcher too.
	var loadErr error
	if err := disp.Do(ctx, func(ctx context.Context, _ ports.Game) { loadErr = game.Load(ctx) }); err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	if loadErr != nil {
		logger.Warn("starting without saved progress", zap.Error(loadErr))
	}

	recorder := metricsinmem.NewRecorder()
	srv := &harness.Server{
		Config: harness.Config{
			Host:            cfg.Harness.Host,
			Port:            cfg.Harness.Port,
			MaxRequestBytes: cfg.Harness.MaxRequestBytes,
			ReadTimeout:     cfg.Harness.ReadTimeout,
		},
		Dispatcher: disp,
		Metrics:    recorder,
		Logger:     logger.Named("harness"),
	}
	if !cfg.Discovery.Disabled {
		path, err := discovery.Path(cfg.Discovery.Dir, cfg.Discovery.FileName)
		if err != nil {
			logger.Warn("discovery file disabled", zap.Error(err))
		} else {
			srv.Publisher = discovery.Publisher{Path: path, Logger: logger.Named("discovery")}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-time.After(cfg.Harness.StartDelay):
		case <-gctx.Done():
			return nil
		}
		// The game keeps running when the server cannot bind.
		if err := srv.Start(gctx, game); err != nil && !errors.Is(err, harness.ErrServerStopped) {
			logger.Error("automation server unavailable", zap.Error(err))
		}
		return nil
	})

	if cfg.Ops.Port != 0 {
		addr := net.JoinHostPort(cfg.Ops.Host, strconv.Itoa(cfg.Ops.Port))
		opsSrv := ops.NewServer(addr, ops.Handler{KPI: recorder, Health: srv})
		g.Go(func() error {
			logger.Info("ops server listening", zap.String("addr", addr))
			if err := opsSrv.Run(); err != nil && gctx.Err() == nil {
				return fmt.Errorf("ops server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := opsSrv.Shutdown(sctx); err != nil {
				logger.Debug("ops server shutdown", zap.Error(err))
			}
			return nil
		})
	}

	logger.Info("game running", zap.String("game", game.Name()), zap.String("storage", cfg.Storage.Type))
	<-gctx.Done()
	logger.Info("shutting down")

	if err := srv.Stop(); err != nil {
		logger.Warn("stop automation server", zap.Error(err))
	}
	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	var flushErr error
	if err := disp.Do(flushCtx, func(ctx context.Context, _ ports.Game) { flushErr = game.Flush(ctx) }); err != nil {
		flushErr = err
	}
	if flushErr != nil {
		logger.Warn("flush progress failed", zap.Error(flushErr))
	}

	return g.Wait()
}
