package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/agent"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/bus"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/config"
)

func main() {
	config.LoadDotenv()

	configPath := flag.String("config", "agent.yaml", "path to the agent YAML config")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logCfg := zap.NewProductionConfig()
	if *verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadAgent(*configPath)
	if err != nil {
		logger.Fatal("load agent config failed", zap.Error(err))
	}

	a := agent.New(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	updates := make(chan bus.Update, 16)
	if err := a.Bus().Subscribe("console", updates); err != nil {
		logger.Fatal("subscribe failed", zap.Error(err))
	}

	group.Go(func() error {
		return a.Run(ctx)
	})
	group.Go(func() error {
		// Console sink: mirrors what a UI widget would render.
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case update := <-updates:
				logger.Debug("pet state",
					zap.String("gif", string(update.Gif)),
					zap.Int("health", update.Health),
					zap.Bool("dead", update.Dead),
				)
				if update.Died {
					logger.Info("pet died")
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("agent failed", zap.Error(err))
	}
}
