package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/inkwell-app/inkwell/internal/ai"
	"github.com/inkwell-app/inkwell/internal/config"
	"github.com/inkwell-app/inkwell/internal/database"
	"github.com/inkwell-app/inkwell/internal/handler"
	"github.com/inkwell-app/inkwell/internal/mailer"
	"github.com/inkwell-app/inkwell/internal/middleware"
	"github.com/inkwell-app/inkwell/internal/queue"
	"github.com/inkwell-app/inkwell/internal/repository"
	"github.com/inkwell-app/inkwell/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	// Redis is optional. A nil client disables caching and rate
	// limiting instead of failing startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	entries := repository.NewEntryRepo(db)
	categories := repository.NewCategoryRepo(db)
	tags := repository.NewTagRepo(db)

	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel)

	m := mailer.New(mailer.Config{
		Host: cfg.SMTPHost, Port: cfg.SMTPPort,
		User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.SMTPFrom,
	})
	go func() {
		if err := queue.StartResetMailConsumer(m); err != nil {
			log.Printf("reset mail consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// Rate limiting, caching and invalidation are wired per route
	// group so they run after JWT auth and see the user id.
	cacheCfg := config.LoadCacheConfig()
	router.Register(e, router.Deps{
		JWTSecret:  cfg.JWTSecret,
		Auth:       handler.NewAuthHandler(cfg, users, tokens),
		Journal:    handler.NewJournalHandler(entries),
		Category:   handler.NewCategoryHandler(categories, entries),
		Tag:        handler.NewTagHandler(tags, entries),
		Analytics:  handler.NewAnalyticsHandler(entries),
		AI:         handler.NewAIHandler(aiClient),
		Health:     handler.Health(db),
		RateLimit:  middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:      middleware.NewRedisCache(cacheCfg, rdb),
		Invalidate: middleware.NewCacheInvalidator(cacheCfg, rdb),
	})

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
