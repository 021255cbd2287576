package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"mealplanner/internal/clipper"
	"mealplanner/internal/config"
	"mealplanner/internal/database"
	"mealplanner/internal/handlers"
	"mealplanner/internal/logger"
	"mealplanner/internal/meal"
	"mealplanner/internal/middleware"
	"mealplanner/internal/planner"
	"mealplanner/internal/recipe"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	defer log.Sync()
	zap.ReplaceGlobals(log)

	log.Info("starting meal planner server",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("env", cfg.Env),
		zap.String("database", cfg.DatabasePath),
	)

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	recipeRepo := recipe.NewRepository(db.SQL)
	mealRepo := meal.NewRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)

	// Services
	recipeClipper := clipper.NewClipper(recipeRepo)
	generator := planner.NewGenerator(planner.NewPicker())

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	recipeHandler := handlers.NewRecipeHandler(recipeRepo, recipeClipper, log)
	mealHandler := handlers.NewMealHandler(mealRepo, log)
	planHandler := handlers.NewPlanHandler(mealRepo, planRepo, generator, log, nil)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", recipeHandler.List)
			r.Post("/", recipeHandler.Create)
			r.Post("/import", recipeHandler.Import)
			r.Get("/{recipeID}", recipeHandler.Get)
			r.Put("/{recipeID}", recipeHandler.Update)
			r.Delete("/{recipeID}", recipeHandler.Delete)
		})

		r.Route("/meals", func(r chi.Router) {
			r.Get("/", mealHandler.List)
			r.Post("/", mealHandler.Create)
			r.Get("/{mealID}", mealHandler.Get)
			r.Put("/{mealID}", mealHandler.Update)
			r.Delete("/{mealID}", mealHandler.Delete)
		})

		r.Route("/plan", func(r chi.Router) {
			r.Get("/weekly", planHandler.Weekly)
			r.Get("/weekly/calendar", planHandler.Calendar)
			r.Get("/history", planHandler.History)
		})
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped gracefully")
}
