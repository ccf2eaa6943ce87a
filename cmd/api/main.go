package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/manforhire/contractor-api/internal/bootstrap"
	"github.com/manforhire/contractor-api/internal/config"
	"github.com/manforhire/contractor-api/internal/middleware"
	"github.com/manforhire/contractor-api/internal/routes"
	"github.com/manforhire/contractor-api/internal/store"
)

func main() {

	cfg := config.Load()

	st, err := store.New(cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	if err := bootstrap.Seed(context.Background(), st, cfg); err != nil {
		log.Fatalf("failed to seed defaults: %v", err)
	}

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(cfg))

	routes.RegisterRoutes(r, st, cfg)

	log.Printf("Server running on %s (%s backend, %s)", cfg.Addr(), cfg.StoreBackend, cfg.Env)
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
