package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpHandler "github.com/anthanhphan/go-secure-file-storage/internal/adapter/inbound/http"
	"github.com/anthanhphan/go-secure-file-storage/internal/adapter/outbound/disk"
	"github.com/anthanhphan/go-secure-file-storage/internal/config"
	"github.com/anthanhphan/go-secure-file-storage/internal/naming"
	"github.com/anthanhphan/go-secure-file-storage/internal/policy"
	"github.com/anthanhphan/go-secure-file-storage/internal/resolver"
	"github.com/anthanhphan/go-secure-file-storage/internal/service"
	"github.com/anthanhphan/go-secure-file-storage/pkg/clock"
	"github.com/anthanhphan/go-secure-file-storage/pkg/resilience"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/redis/go-redis/v9"
)

const (
	rootDirPerm     = 0750
	shutdownTimeout = 10 * time.Second
)

type App struct {
	cfg         *config.Config
	server      *httpHandler.Server
	redisClient *redis.Client
}

func New(configPath string) (*App, error) {
	// 1. Load Config
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Initialize Logger
	logger.InitLogger(&cfg.Logger)

	return build(cfg)
}

// build wires every component from an already validated config.
func build(cfg *config.Config) (*App, error) {
	// 1. Storage root, canonicalized once
	if err := os.MkdirAll(cfg.Storage.RootDir, rootDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	res, err := resolver.New(cfg.Storage.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}

	store, err := disk.NewDiskAdapter(res, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to init disk store: %w", err)
	}

	// 2. Clock
	a := &App{cfg: cfg}
	var clk clock.Clock = clock.SystemClock{}
	if cfg.Clock.Source == config.ClockRedis {
		a.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:             "redis-clock",
			FailureThreshold: 3,
			OpenTimeout:      10 * time.Second,
		})
		clk = clock.NewRedisClock(a.redisClient, breaker, time.Duration(cfg.Clock.RedisTimeoutMS)*time.Millisecond)
	}

	// 3. Services
	svc := service.NewFileService(cfg, store, policy.New(cfg.Storage.AllowedExtensions), naming.NewGenerator(), clk)

	// 4. HTTP Server
	a.server = httpHandler.NewServer(cfg, svc)

	logger.Infow("Storage ready",
		"root", res.Root(),
		"max_file_size", cfg.Storage.MaxFileSize,
		"allowed_extensions", cfg.Storage.AllowedExtensions,
		"blocked_extensions", policy.Denied(),
		"clock", cfg.Clock.Source,
	)

	return a, nil
}

func (a *App) Run() error {
	logger.Infow("File server starting", "addr", a.cfg.Server.Addr)
	serverErrCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			serverErrCh <- err
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case sig := <-stop:
		logger.Infow("Shutdown signal received", "signal", sig.String())
	case err := <-serverErrCh:
		runErr = fmt.Errorf("http server failed: %w", err)
		logger.Errorw("File server exited unexpectedly", "error", err.Error())
	}

	logger.Info("Shutting down file server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Stop(ctx); err != nil {
		logger.Errorw("HTTP shutdown error", "error", err.Error())
		if runErr == nil {
			runErr = err
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			logger.Warnw("Redis close error", "error", err.Error())
		}
	}

	return runErr
}
