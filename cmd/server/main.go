package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/broadside/api/internal/auth"
	"github.com/freeeve/broadside/api/internal/config"
	"github.com/freeeve/broadside/api/internal/handler"
	"github.com/freeeve/broadside/api/internal/logger"
	"github.com/freeeve/broadside/api/internal/middleware"
	"github.com/freeeve/broadside/api/internal/model"
	"github.com/freeeve/broadside/api/internal/repository/memory"
	"github.com/freeeve/broadside/api/internal/service"
)

func main() {
	logger.Init()
	cfg := config.Load()

	// Repos. Everything lives in process memory; a restart starts clean.
	userRepo := memory.NewUserRepo()
	templateRepo := memory.NewTemplateRepo()
	fleetRepo := memory.NewFleetRepo()
	gameRepo := memory.NewGameRepo()

	// Auth
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)
	googleOAuth := auth.NewGoogleOAuth(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
	)

	// Services
	userSvc := service.NewUserService(userRepo)
	catalogSvc := service.NewCatalogService(templateRepo, fleetRepo)
	gameSvc := service.NewGameService(gameRepo, fleetRepo, templateRepo, userRepo)

	if err := userSvc.SeedAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("Admin seeding failed")
	}

	// Handlers
	authHandler := handler.NewAuthHandler(userSvc, jwtMgr, googleOAuth)
	gameHandler := handler.NewGameHandler(gameSvc)
	playerHandler := handler.NewPlayerHandler(gameSvc, catalogSvc)
	adminHandler := handler.NewAdminHandler(catalogSvc)

	// Router
	authMw := auth.Middleware(jwtMgr)

	// Admin routes sit behind both the auth middleware and the role check.
	admin := http.NewServeMux()
	admin.HandleFunc("POST /admin/ship-templates", adminHandler.CreateTemplate)
	admin.HandleFunc("GET /admin/ship-templates", adminHandler.ListTemplates)
	admin.HandleFunc("GET /admin/ship-templates/{id}", adminHandler.GetTemplate)
	admin.HandleFunc("PUT /admin/ship-templates/{id}", adminHandler.UpdateTemplate)
	admin.HandleFunc("DELETE /admin/ship-templates/{id}", adminHandler.DeleteTemplate)
	admin.HandleFunc("POST /admin/base-fleets", adminHandler.CreateFleet)
	admin.HandleFunc("GET /admin/base-fleets", adminHandler.ListFleets)
	admin.HandleFunc("GET /admin/base-fleets/{id}", adminHandler.GetFleet)
	admin.HandleFunc("PUT /admin/base-fleets/{id}", adminHandler.UpdateFleet)
	admin.HandleFunc("DELETE /admin/base-fleets/{id}", adminHandler.DeleteFleet)

	// Routes for any authenticated account.
	protected := http.NewServeMux()
	protected.HandleFunc("GET /auth/me", authHandler.Me)
	protected.HandleFunc("POST /game", gameHandler.CreateGame)
	protected.HandleFunc("GET /game/{id}", gameHandler.GetGame)
	protected.HandleFunc("POST /game/{id}/join", gameHandler.JoinGame)
	protected.HandleFunc("POST /game/{id}/place-ship", gameHandler.PlaceShip)
	protected.HandleFunc("POST /game/{id}/shoot", gameHandler.Shoot)
	protected.HandleFunc("GET /game/{id}/board", gameHandler.GetBoard)
	protected.HandleFunc("GET /game/{id}/stats", gameHandler.GetStats)
	protected.HandleFunc("GET /game/{id}/shots", gameHandler.GetShots)
	protected.HandleFunc("DELETE /game/{id}", gameHandler.DeleteGame)
	protected.HandleFunc("GET /player/available-games", playerHandler.AvailableGames)
	protected.HandleFunc("GET /player/my-games", playerHandler.MyGames)
	protected.HandleFunc("GET /player/fleets", playerHandler.ListFleets)
	protected.HandleFunc("GET /player/fleets/{id}", playerHandler.GetFleet)
	protected.Handle("/admin/", auth.RequireRole(model.RoleAdmin)(admin))

	// Public routes win on specificity; everything else under /api/v1
	// requires a token.
	api := http.NewServeMux()
	api.HandleFunc("POST /auth/register", authHandler.Register)
	api.HandleFunc("POST /auth/login", authHandler.Login)
	api.HandleFunc("POST /auth/refresh", authHandler.RefreshToken)
	api.HandleFunc("GET /auth/google/login", authHandler.GoogleLogin)
	api.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)
	api.Handle("/", authMw(protected))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", api))

	root := middleware.Chain(mux,
		middleware.Logger,
		middleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.JSON,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
