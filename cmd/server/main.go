package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"whoami_backend/internal/app/di"
	"whoami_backend/internal/app/router"
	authadapters "whoami_backend/internal/feature/auth/adapters"
	authhandler "whoami_backend/internal/feature/auth/transport/handler"
	authusecase "whoami_backend/internal/feature/auth/usecase"
	boardadapters "whoami_backend/internal/feature/board/adapters"
	boardhandler "whoami_backend/internal/feature/board/transport/handler"
	boardusecase "whoami_backend/internal/feature/board/usecase"
	"whoami_backend/internal/platform/config"
	infradb "whoami_backend/internal/platform/db"
	"whoami_backend/internal/platform/http/handler"
	jwtmw "whoami_backend/internal/platform/jwt"
	"whoami_backend/internal/platform/logging"
	"whoami_backend/internal/platform/password"
	infraredis "whoami_backend/internal/platform/redis"
	sentrymw "whoami_backend/internal/platform/sentry"
	"whoami_backend/internal/shared/ratelimiter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.Setup(os.Stdout, cfg.LogLevel, cfg.IsDevelopment())

	flush, err := sentrymw.Init(cfg.SentryDSN, cfg.AppEnv)
	if err != nil {
		logger.Warn("sentry init failed", "error", err)
	}
	defer flush()

	// db
	db, err := infradb.Open(cfg.DB, &authadapters.UserModel{}, &boardadapters.FollowModel{})
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("failed to get sql.DB", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	// Redis
	checks := map[string]handler.Pinger{"db": handler.PingerFunc(sqlDB.PingContext)}
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(context.Background(), cfg.Redis); err != nil {
		logger.Warn("redis unavailable, running without cache", "error", err)
	} else if tmp != nil {
		rdb = tmp
		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	followRepo := di.NewFollowRepository(rdb, db, cfg.Redis.FollowCacheTTL)

	// Usecase
	tokens := jwtmw.NewTokenService(cfg.Auth.JWTSecret)
	authUC := authusecase.NewAuthUsecase(authusecase.Dependencies{
		Users:      userRepo,
		Hasher:     password.NewHasher(bcrypt.DefaultCost),
		Tokens:     tokens,
		ThirdParty: di.NewThirdPartyValidator(cfg.Google),
		Links:      authadapters.NewLogLinkSender(logger, cfg.FrontendURL),
		TTLs: authusecase.TokenTTLs{
			Login:         config.TTL(cfg.Auth.LoginTokenTTLHours),
			Confirmation:  config.TTL(cfg.Auth.ConfirmationTokenTTLHours),
			PasswordReset: config.TTL(cfg.Auth.PasswordResetTokenTTLHours),
		},
	})
	gate := authusecase.NewAuthorizer(userRepo, tokens)
	boardUC := boardusecase.NewBoardUsecase(userRepo, followRepo)

	// ルータ生成
	r := router.NewRouter(router.Handlers{
		Auth:           authhandler.NewAuthHandler(authUC),
		Account:        authhandler.NewAccountHandler(authUC),
		Board:          boardhandler.NewBoardHandler(boardUC),
		Health:         handler.Health(checks),
		Gate:           gate,
		Throttle:       ratelimiter.Middleware(ratelimiter.NewLimiter(cfg.RateLimit.LoginPerSecond)),
		AllowedOrigins: cfg.FEHosts,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
}
