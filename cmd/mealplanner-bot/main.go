package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"mealplanner/internal/clipper"
	"mealplanner/internal/config"
	"mealplanner/internal/database"
	"mealplanner/internal/logger"
	"mealplanner/internal/meal"
	"mealplanner/internal/planner"
	"mealplanner/internal/recipe"
	"mealplanner/internal/telegram"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateTelegram(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	defer log.Sync()
	zap.ReplaceGlobals(log)

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	recipeRepo := recipe.NewRepository(db.SQL)
	mealRepo := meal.NewRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)

	recipeClipper := clipper.NewClipper(recipeRepo)
	generator := planner.NewGenerator(planner.NewPicker())

	bot, err := telegram.NewBot(cfg, mealRepo, planRepo, recipeClipper, generator, log)
	if err != nil {
		log.Fatal("failed to initialize telegram bot", zap.Error(err))
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: nil,
	}

	go func() {
		log.Info("telegram bot server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
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

	log.Info("server exiting")
}
