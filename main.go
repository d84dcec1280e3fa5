package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"altesse/internal/config"
	"altesse/internal/middleware"
	"altesse/internal/routes"
	"altesse/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfgFileName := flag.String("c", "config.yml", "Path to config file")
	tokenFor := flag.String("token", "", "Print a token for the named client and exit")
	flag.Parse()

	cfg := config.MustLoad(*cfgFileName)
	log := newLogger(cfg)

	if *tokenFor != "" {
		if err := printToken(cfg, *tokenFor, log); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newStatsStore(ctx, cfg)
	if err != nil {
		log.Error("Cannot open stats store", slog.String("backend", cfg.Stats.Backend), slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	hub := services.NewWebSocketHub(log)
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()

	opts := routes.Options{
		Stats:          services.NewStatsService(store, hub, log),
		Files:          services.NewFileService(afero.NewOsFs(), cfg.Files.TempDir, cfg.Files.Workers, log),
		Hub:            hub,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		PingInterval:   cfg.WebSocket.PingInterval,
		Log:            log,
	}
	if cfg.Auth.Enabled {
		opts.Auth, err = services.NewAuthService(cfg.Auth.Secret, cfg.Auth.TokenExpiry, log)
		if err != nil {
			log.Error("Cannot create auth service", slog.Any("error", err))
			os.Exit(1)
		}
	}

	if cfg.LogLevel != config.LogLevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: routes.NewRouter(opts),
	}

	go func() {
		log.Info("Start listen", slog.String("addr", cfg.Listen), slog.Bool("auth", cfg.Auth.Enabled))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Could not serve", slog.String("listen_addr", cfg.Listen), slog.Any("error", err))
			os.Exit(2)
		}
	}()

	<-ctx.Done()
	log.Info("Received termination signal. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown failed", slog.Any("error", err))
	}
	<-hubDone
	log.Info("done")
}

func newLogger(cfg *config.Config) *slog.Logger {
	lo := &slog.HandlerOptions{}
	switch cfg.LogLevel {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		panic("unknown log level")
	}

	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, lo))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, lo))
}

func newStatsStore(ctx context.Context, cfg *config.Config) (services.StatsStore, func(), error) {
	if cfg.Stats.Backend != config.StatsBackendRedis {
		return services.NewFileStatsStore(afero.NewOsFs(), cfg.Stats.Path), func() {}, nil
	}

	opt, err := redis.ParseURL(cfg.Stats.RedisURL)
	if err != nil {
		return nil, nil, err
	}

	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, nil, err
	}

	return services.NewRedisStatsStore(rdb, cfg.Stats.RedisKey), func() { rdb.Close() }, nil
}

func printToken(cfg *config.Config, clientName string, log *slog.Logger) error {
	if !middleware.ValidateClientName(clientName) {
		return fmt.Errorf("invalid client name %q", clientName)
	}
	if cfg.Auth.Secret == "" {
		return errors.New("auth.secret must be set to issue tokens")
	}

	auth, err := services.NewAuthService(cfg.Auth.Secret, cfg.Auth.TokenExpiry, log)
	if err != nil {
		return err
	}

	token, err := auth.GenerateToken(clientName)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
