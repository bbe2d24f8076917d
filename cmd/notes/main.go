// Package main реализует точку входа службы заметок.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	notescache "gonotes/internal/notes/adapters/cache"
	notesHTTP "gonotes/internal/notes/adapters/http"
	"gonotes/internal/notes/adapters/postgres"
	"gonotes/internal/notes/app"
	"gonotes/internal/notes/config"
	"gonotes/internal/notes/db"
	"gonotes/pkg/logger"
	"gonotes/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTES_LOGGER_MODE"
	EnvLoggerLevel = "NOTES_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrInitCache            = "failed to initialize list cache, continuing without cache"
	ErrStartHTTP            = "failed to start HTTP server"
	ErrCloseCache           = "failed to close list cache"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "note service started"
	LogServiceShutdownDone = "note service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingCache        = "closing list cache"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitRepo            = "initializing repositories"
	LogInitCache           = "initializing list cache"
	LogCacheDisabled       = "list cache disabled"
	LogInitUseCases        = "initializing use cases"
	LogInitRouter          = "initializing HTTP router"
	LogStartingHTTP        = "starting HTTP server"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		database, err := db.New(ctx, &cfg.Postgres)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitRepo)
		repoFactory := postgres.NewRepositoryFactory(database.Pool())
		noteRepo := repoFactory.NoteRepository()

		var opts []app.Option
		var listCache *notescache.RedisListCache
		if cfg.Redis.Enabled {
			log.Info(ctx, LogInitCache, zap.String("address", cfg.Redis.GetAddress()))
			listCache, err = notescache.NewRedisListCache(ctx, &cfg.Redis)
			if err != nil {
				log.Warn(ctx, ErrInitCache, zap.Error(err))
			} else {
				opts = append(opts, app.WithListCache(listCache))
			}
		} else {
			log.Info(ctx, LogCacheDisabled)
		}

		log.Info(ctx, LogInitUseCases)
		noteUseCase := app.NewNoteUseCase(noteRepo, opts...)

		log.Info(ctx, LogInitRouter)
		fiberApp := notesHTTP.NewApp(&cfg.HTTP)
		notesHTTP.SetupRouter(fiberApp, noteUseCase, notesHTTP.RouterOptions{
			CORSOrigins:       cfg.HTTP.CORSOrigins,
			RateLimit:         cfg.HTTP.RateLimit,
			ExposeErrorDetail: cfg.Logging.ExposeErrorDetail(),
		})
		httpServer := notesHTTP.NewServer(&cfg.HTTP, fiberApp)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		if err := httpServer.Start(ctx); err != nil {
			log.Error(ctx, ErrStartHTTP, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}

		// Пул и кэш закрываются только после того, как сервер дождался активных запросов.
		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(), shutdown.Sequence(
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return httpServer.Stop(ctx)
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingDB)
				database.Close(ctx)
				return nil
			},
			func(ctx context.Context) error {
				if listCache == nil {
					return nil
				}
				log.Info(ctx, LogClosingCache)
				if err := listCache.Close(); err != nil {
					return fmt.Errorf("%s: %w", ErrCloseCache, err)
				}
				return nil
			},
		))

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
