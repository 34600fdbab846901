package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"rav/internal/blobstore"
	"rav/internal/config"
	"rav/internal/database"
	"rav/internal/handlers"
	"rav/internal/middleware"
	"rav/internal/session"
	"rav/internal/store"
	"rav/pkg/cache"
	"rav/pkg/logger"
	"rav/pkg/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	config.Load()
	cfg := config.AppConfig

	database.InitDB(cfg.Database.Path)

	blobs := blobstore.New(cfg.Storage.Path)

	sessions, err := session.New(
		cfg.Session.SecretPath,
		cfg.Session.MaxAge,
		cfg.Server.Env == "production",
	)
	if err != nil {
		log.Fatalf("[FATAL] Session store init failed: %v", err)
	}

	cacheTTL, _ := time.ParseDuration(cfg.Cache.TTL)
	appCache := cache.New(cfg.Cache.Enabled, cfg.Cache.MaxCapacity, cacheTTL)

	h := handlers.New(
		store.NewUsers(database.DB),
		store.NewAvatars(database.DB, cfg.Image.StdWidth),
		blobs,
		sessions,
		appCache,
	)
	h.AppName = cfg.App.Name
	h.Tagline = cfg.App.Tagline
	h.MaxUploadBytes = utils.SizeToBytes(cfg.Image.MaxUploadSize, 10<<20)

	mux := http.NewServeMux()
	h.Register(mux)

	finalHandler := middleware.RateLimitMiddleware(middleware.LoggerMiddleware(mux))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.LogServerStart(cfg.Server.Port, cfg.GetBaseUrl())
	log.Fatal(server.ListenAndServe())
}
