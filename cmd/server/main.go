package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/config"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/httpapi"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/media"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/roast"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/service"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/store"
)

func main() {
	config.LoadDotenv()
	cfg := config.ServerFromEnv()

	addr := flag.String("addr", cfg.Addr, "server listen address, e.g. :8080")
	verbose := flag.Bool("verbose", cfg.Verbose, "enable debug logging")
	flag.Parse()

	logger := newLogger(*verbose)
	defer func() { _ = logger.Sync() }()

	st, err := store.NewByEngine(cfg.StoreEngine, cfg.DataFile)
	if err != nil {
		logger.Fatal("init store failed", zap.String("engine", cfg.StoreEngine), zap.Error(err))
	}
	if closer, ok := st.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Warn("store close failed", zap.Error(err))
			}
		}()
	}

	svc := service.New(st)

	if cfg.GeminiAPIKey != "" {
		roaster, err := roast.NewClient(context.Background(), roast.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.RoastModel,
			Timeout: cfg.RoastTimeout,
		})
		if err != nil {
			logger.Warn("init roast client failed, falling back to canned roasts", zap.Error(err))
		} else {
			svc.SetRoastClient(roaster)
			logger.Info("roast generation enabled", zap.String("model", cfg.RoastModel))
		}
	} else {
		logger.Info("roast generation disabled, GEMINI_API_KEY is empty")
	}

	uploader := media.NewUploader(media.Config{
		SecretID:     cfg.COSSecretID,
		SecretKey:    cfg.COSSecretKey,
		Region:       cfg.COSRegion,
		BucketName:   cfg.COSBucketName,
		PublicDomain: cfg.COSPublicDomain,
	})
	if uploader.Enabled() {
		svc.SetUploader(uploader)
		logger.Info("pet image upload enabled", zap.String("bucket", cfg.COSBucketName))
	}

	handler := httpapi.NewHandler(svc, logger)
	server := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("waddl backend listening", zap.String("addr", *addr), zap.String("store", cfg.StoreEngine))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(verbose bool) *zap.Logger {
	logCfg := zap.NewProductionConfig()
	if verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
