package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/assistant"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/config"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/database"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/handler"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/middleware"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/repository"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/router"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/service"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	incidentRepo := repository.NewIncidentRepo(db)
	datasetRepo := repository.NewDatasetRepo(db)
	ticketRepo := repository.NewTicketRepo(db)

	assist := assistant.New(cfg.OpenAIKey, cfg.OpenAIModel)
	if !assist.Enabled() {
		log.Println("assistant disabled: OPENAI_API_KEY not set")
	}

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(cfg, userRepo, tokenRepo)),
		Incident: handler.NewIncidentHandler(service.NewIncidentService(incidentRepo), assist),
		Dataset:  handler.NewDatasetHandler(service.NewDatasetService(datasetRepo), assist),
		Ticket:   handler.NewTicketHandler(service.NewTicketService(ticketRepo), assist),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	// The limiter is a no-op when Redis is unreachable or rate limiting
	// is disabled; the dashboards must not depend on it.
	rlCfg := config.LoadRateLimitConfig()
	e.Use(middleware.NewTokenBucket(rlCfg, config.NewRedisClient()))

	router.RegisterRoutes(e, db, h)
	router.RegisterProtected(e, cfg.JWTSecret, h)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
