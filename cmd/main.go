package main

import (
	"context"
	"errors"
	"moodmingle/backend/internal/api/handler"
	"moodmingle/backend/internal/chathub"
	"moodmingle/backend/internal/config"
	"moodmingle/backend/internal/logger"
	"moodmingle/backend/internal/social"
	"moodmingle/backend/internal/storage"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config, log zerolog.Logger) (*gorm.DB, *redis.Client) {
	db, err := storage.Open(cfg.Database, !cfg.IsDevelopment())
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect database")
	}

	// Міграції (створення таблиць)
	if cfg.Database.AutoMigrate {
		if err := storage.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Redis is optional: without it there is no public-info cache and no cross-instance relay.
	if !cfg.Redis.Enabled() {
		log.Info().Msg("redis not configured, running single-instance")
		return db, nil
	}
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}

	log.Info().Str("driver", cfg.Database.Driver).Bool("redis", true).Msg("dependencies ready")
	return db, rdb
}

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		// Логер ще не налаштований.
		bootLog := logger.New("production", "info")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.Env, cfg.Log.Level)
	log.Info().Str("env", cfg.Env).Int("port", cfg.Server.Port).Msg("starting MoodMingle backend")

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Ініціалізація залежностей
	db, rdb := setupDependencies(cfg, log)
	store := storage.NewStorageService(db, rdb, cfg.Redis.CacheTTL, logger.WithComponent(log, "storage"))

	// 2. Chat Hub та соціальні сигнали
	var relay *chathub.RedisRelay
	if rdb != nil {
		relay = chathub.NewRedisRelay(rdb)
	}
	hub := chathub.NewManagerService(store, relay, log)
	soc := social.NewService(store, hub, log)
	hub.SetHeartSender(soc)

	go hub.Run()

	// 3. HTTP
	h := handler.NewHandler(hub, soc, store, cfg.Server.FrontendURL, cfg.IsDevelopment(), log)
	server := &http.Server{
		Addr:           cfg.Server.Addr(),
		Handler:        h.Router(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return server.Shutdown(ctx)
			},
			"chat-hub": func(ctx context.Context) error {
				hub.Stop()
				return nil
			},
			"redis": func(ctx context.Context) error {
				if rdb == nil {
					return nil
				}
				return rdb.Close()
			},
			"database": func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		},
	)

	exitCode := <-wait
	log.Info().Int("exit_code", exitCode).Msg("shutdown complete")
	os.Exit(exitCode)
}
