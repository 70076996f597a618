package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/storycircle/backend/internal/cache"
	"github.com/storycircle/backend/internal/logger"
	"github.com/storycircle/backend/internal/mailer"
	"github.com/storycircle/backend/internal/router"
	"github.com/storycircle/backend/internal/search"
	"github.com/storycircle/backend/internal/validators"
	"github.com/storycircle/backend/pkg/config"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize databases")
	}
	defer db.CloseDB()
	log.Info().Msg("database connections established")

	// Text index is optional. Without Mongo the synchronizer counts skipped
	// writes and search endpoints answer 503.
	var index search.Index
	if db.Mongo != nil {
		mongoIndex := search.NewMongoIndex(db.Mongo, cfg.MongoDatabase)
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := mongoIndex.EnsureIndexes(ctx, "posts", "blogs", "platforms"); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("failed to ensure text indexes")
		}
		cancel()
		index = mongoIndex
		log.Info().Str("database", cfg.MongoDatabase).Msg("text index ready")
	} else {
		log.Warn().Msg("MONGO_URI not set; search runs in degraded mode")
	}
	sync := search.NewSynchronizer(index, log)

	var likeCache *cache.RedisCache
	if cfg.RedisAddr != "" {
		likeCache = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := likeCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable; like counts served from the database")
			likeCache = nil
		}
		cancel()
	}

	var m mailer.Mailer
	if cfg.SMTPHost != "" {
		m = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, log)
	} else {
		log.Warn().Msg("SMTP_HOST not set; outgoing mail is dropped")
		m = mailer.NewDisabled(log)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	router.SetupMiddleware(e)

	err = router.SetupRoutes(e, router.Dependencies{
		DB:        db.Postgres,
		Sync:      sync,
		LikeCache: likeCache,
		Mailer:    m,
		Config:    cfg,
		Log:       log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up routes")
	}

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
