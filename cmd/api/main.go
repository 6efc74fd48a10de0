package main

import (
	"context"
	"time"

	"github.com/abhishek622/exitview/internal/auth"
	"github.com/abhishek622/exitview/internal/cache"
	"github.com/abhishek622/exitview/internal/config"
	"github.com/abhishek622/exitview/internal/database"
	"github.com/abhishek622/exitview/internal/handler"
	"github.com/abhishek622/exitview/internal/lifecycle"
	"github.com/abhishek622/exitview/internal/logger"
	"github.com/abhishek622/exitview/internal/metrics"
	"github.com/abhishek622/exitview/internal/repository"
	"github.com/abhishek622/exitview/pkg"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type application struct {
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Logger  *zap.Logger
	Config  *config.Config
	Metrics *metrics.Lifecycle
	Handler *handler.Handler
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded: %s", cfg)

	crypto, err := pkg.NewCrypto(cfg.Crypto.Secret)
	if err != nil {
		sugar.Fatal(err)
	}

	app := &application{
		Logger:  log,
		Config:  cfg,
		Metrics: metrics.NewLifecycle(),
	}

	var (
		candidates lifecycle.Store
		users      handler.UserStore
	)
	switch cfg.Store {
	case "memory":
		sugar.Warn("using in-memory store, data is lost on restart")
		candidates = repository.NewMemoryCandidateStore()
		users = repository.NewMemoryUserStore()
	default:
		pool, err := database.Connect(ctx, cfg.DB.DSN, cfg.DB.MaxConns, cfg.DB.MaxConnLifetime)
		if err != nil {
			sugar.Fatal(err)
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := database.Migrate(ctx, pool); err != nil {
				sugar.Fatal(err)
			}
		}
		app.DB = pool
		repo := repository.NewRepository(pool, crypto)
		candidates = &repo.Candidate
		users = &repo.User
	}

	opts := []lifecycle.Option{
		lifecycle.WithLogger(log),
		lifecycle.WithObserver(app.Metrics),
		lifecycle.WithDefaultMaxAttempts(cfg.Lifecycle.MaxFollowupAttempts),
	}
	if cfg.Redis.Addr != "" {
		rdb := cache.NewRedisClient(cfg.Redis)
		if err := cache.Ping(ctx, rdb, 5*time.Second); err != nil {
			sugar.Fatal(err)
		}
		defer rdb.Close()
		app.Redis = rdb
		opts = append(opts, lifecycle.WithLocker(cache.NewCandidateLocker(rdb, log, cfg.Redis.LockTTL)))
	}

	app.Handler = &handler.Handler{
		Logger:     log,
		Lifecycle:  lifecycle.NewService(candidates, opts...),
		Users:      users,
		TokenMaker: auth.NewJWTMaker(cfg.JWT.Secret),
		TokenTTL:   cfg.JWT.AccessTokenTTL,
	}

	if cfg.Admin.Seed() {
		if err := app.Handler.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			sugar.Fatal(err)
		}
	}

	if err := app.serve(); err != nil {
		sugar.Fatal(err)
	}
}
