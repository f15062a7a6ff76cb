// Package main реализует точку входа службы аутентификации.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"sessionauth/internal/auth/adapters/cache"
	authhttp "sessionauth/internal/auth/adapters/http"
	"sessionauth/internal/auth/adapters/oauth"
	"sessionauth/internal/auth/adapters/postgres"
	"sessionauth/internal/auth/adapters/services"
	"sessionauth/internal/auth/app"
	"sessionauth/internal/auth/config"
	"sessionauth/internal/auth/db"
	"sessionauth/pkg/db/redis"
	"sessionauth/pkg/logger"
	"sessionauth/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "AUTH_LOG_MODE"
	EnvLoggerLevel = "AUTH_LOG_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrInitRedis            = "failed to connect to redis"
	ErrStartHTTP            = "failed to start HTTP server"
	ErrCloseRedis           = "failed to close redis connection"
	ErrPurgeSessions        = "failed to purge expired sessions"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "authentication service started"
	LogServiceShutdownDone = "authentication service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingRedis        = "closing redis connection"
	LogInitRepo            = "initializing repositories"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitProviders       = "initializing oauth providers"
	LogInitHTTPServer      = "initializing HTTP server"
	LogPurgeDone           = "expired session purge complete"
)

func main() {
	var purgeSessions bool
	flag.BoolVar(&purgeSessions, "cleanup-sessions", false, "delete expired refresh sessions and exit")
	flag.Parse()

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

		if purgeSessions {
			exitCode = purgeExpiredSessions(ctx, database, cfg)
			return
		}

		redisClient, err := redis.Connect(ctx, redis.Options{
			Addr:         cfg.Redis.GetAddress(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.Error(ctx, ErrInitRedis, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("app_mode", cfg.App.Mode),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitRepo)
		repoFactory := postgres.NewRepositoryFactory(database.Pool())
		userRepo := repoFactory.UserRepository()
		sessionRepo := repoFactory.SessionRepository()
		statisticsRepo := repoFactory.StatisticsRepository()

		log.Info(ctx, LogInitServices)
		serviceFactory := services.NewServiceFactory(cfg.JWT)

		log.Info(ctx, LogInitUseCases)
		tokenUseCase := app.NewTokenUseCase(sessionRepo, userRepo, serviceFactory.TokenService())
		authUseCase := app.NewAuthUseCase(userRepo, serviceFactory.PasswordService(), tokenUseCase)
		userUseCase := app.NewUserUseCase(userRepo, statisticsRepo, serviceFactory.PasswordService())

		log.Info(ctx, LogInitProviders, zap.Strings("providers", cfg.OAuth.Enabled()))
		providers := oauth.NewRegistryFromConfig(cfg.OAuth)
		states := cache.NewStateStore(redisClient, cfg.Redis.StateTTL)

		log.Info(ctx, LogInitHTTPServer)
		cookies := authhttp.NewCookieWriter(cfg.Cookie, cfg.App.IsProduction(), tokenUseCase)
		httpServer := authhttp.NewServer(&cfg.HTTP, authhttp.Handlers{
			Auth:  authhttp.NewAuthHandler(authUseCase, providers, states, cookies, oauth.NewState),
			Users: authhttp.NewUserHandler(userUseCase),
		}, tokenUseCase)

		if err := httpServer.Start(ctx); err != nil {
			log.Error(ctx, ErrStartHTTP, zap.Error(err))
			_ = redisClient.Close()
			database.Close(ctx)
			exitCode = 1
			return
		}

		// Хранилища закрываются после остановки HTTP сервера.
		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				stopErr := httpServer.Stop(ctx)

				log.Info(ctx, LogClosingRedis)
				if err := redisClient.Close(); err != nil {
					log.Error(ctx, ErrCloseRedis, zap.Error(err))
				}

				log.Info(ctx, LogClosingDB)
				database.Close(ctx)

				return stopErr
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// purgeExpiredSessions выполняет разовую очистку истекших сессий и закрывает базу.
func purgeExpiredSessions(ctx context.Context, database *db.DB, cfg *config.Config) int {
	log := logger.Log(ctx)
	defer database.Close(ctx)

	repoFactory := postgres.NewRepositoryFactory(database.Pool())
	tokens := app.NewTokenUseCase(
		repoFactory.SessionRepository(),
		repoFactory.UserRepository(),
		services.NewServiceFactory(cfg.JWT).TokenService(),
	)

	removed, err := tokens.PurgeExpiredSessions(ctx)
	if err != nil {
		log.Error(ctx, ErrPurgeSessions, zap.Error(err))
		return 1
	}

	log.Info(ctx, LogPurgeDone, zap.Int64("removed", removed))
	return 0
}
