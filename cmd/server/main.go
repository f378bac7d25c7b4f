package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dineops/dineops/internal/auth"
	"github.com/dineops/dineops/internal/config"
	"github.com/dineops/dineops/internal/db"
	"github.com/dineops/dineops/internal/gate"
	"github.com/dineops/dineops/internal/jobs"
	"github.com/dineops/dineops/internal/services"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Environment overrides come from the process; .env fills the gaps.
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := buildLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	dbConn, err := db.Connect(cfg.Database.DSN)
	if err != nil {
		sugar.Fatalw("database connection failed", "err", err)
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(dbConn); err != nil {
			sugar.Fatalw("migration failed", "err", err)
		}
		sugar.Info("migrations completed")
		return
	}
	if *seedOnlyFlag {
		if err := db.Seed(dbConn); err != nil {
			sugar.Fatalw("seeding failed", "err", err)
		}
		sugar.Info("seeding completed")
		return
	}

	if cfg.App.Migrations {
		if err := db.Migrate(dbConn); err != nil {
			sugar.Fatalw("migration failed", "err", err)
		}
	}
	if err := db.Seed(dbConn); err != nil {
		sugar.Fatalw("seeding failed", "err", err)
	}

	authGate := gate.New(dbConn, 5*time.Minute)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret)
	sessions := auth.NewSessionStore(cfg.Auth.SessionSecret)

	app := NewApp(dbConn, authGate, tokens, sessions, sugar)

	scheduler := jobs.NewScheduler(services.NewInventoryService(dbConn, sugar), sugar)
	if err := scheduler.Start(cfg.App.StatusSweepSpec); err != nil {
		sugar.Fatalw("scheduler failed to start", "err", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(sugar, app),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		sugar.Infow("server starting", "port", cfg.Server.Port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugar.Info("shutdown signal received")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		sugar.Errorw("shutdown error", "err", err)
	}
	sugar.Info("server stopped")
}

// buildLogger picks the zap preset for the environment.
func buildLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// withLogging adds request logging middleware.
func withLogging(log *zap.SugaredLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Infow("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
