package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/catalogadmin/internal/cache"
	"github.com/example/catalogadmin/internal/config"
	"github.com/example/catalogadmin/internal/database"
	"github.com/example/catalogadmin/internal/events"
	"github.com/example/catalogadmin/internal/routes"
	"github.com/example/catalogadmin/internal/utils"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(database.Options{
		Driver:   cfg.DatabaseDriver,
		DSN:      cfg.DatabaseURL,
		LogLevel: cfg.DatabaseLogLevel,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	var publicKey []byte
	if cfg.JWTPublicKeyPath != "" {
		publicKey, err = os.ReadFile(cfg.JWTPublicKeyPath)
		if err != nil {
			log.Fatalf("read JWT public key: %v", err)
		}
	}
	tokens, err := utils.NewTokenParser(cfg.JWTSecret, publicKey)
	if err != nil {
		log.Fatalf("token parser: %v", err)
	}

	var responseCache cache.Cache = cache.Noop{}
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err := cache.Dial(ctx, cfg.RedisURL, cfg.CacheTTL)
		cancel()
		if err != nil {
			log.Printf("[cache] redis unavailable, caching disabled: %v", err)
		} else {
			defer redisCache.Close()
			responseCache = redisCache
		}
	}

	app := routes.NewApp(cfg)
	routes.Register(app, cfg, routes.Deps{
		DB:     db,
		Cache:  responseCache,
		Hub:    events.NewHub(),
		Tokens: tokens,
	})

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
