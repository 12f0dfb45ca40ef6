package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/authkit/authkit/internal/application/auth"
	"github.com/authkit/authkit/internal/config"
	"github.com/authkit/authkit/internal/infrastructure/postgres"
	"github.com/authkit/authkit/internal/infrastructure/resend"
	"github.com/authkit/authkit/internal/infrastructure/smtp"
	transporthttp "github.com/authkit/authkit/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	// Apply pending migrations on startup so a fresh database is usable
	// without a separate deploy step.
	if err := postgres.Migrate(ctx, cfg.DatabaseDSN); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// Email notifier (optional — graceful fallback). Resend wins when both
	// backends are configured.
	var notifier auth.Notifier
	switch {
	case cfg.ResendAPIKey != "":
		notifier = resend.NewNotifier(cfg)
	case cfg.SMTPHost != "":
		notifier = smtp.NewNotifier(cfg)
	default:
		log.Println("WARN: no email backend configured, auth emails disabled")
	}

	svc := auth.NewService(auth.ServiceDeps{
		UserRepo:               postgres.NewUserRepo(pool),
		VerificationTokenRepo:  postgres.NewVerificationTokenRepo(pool),
		PasswordResetTokenRepo: postgres.NewPasswordResetTokenRepo(pool),
		Notifier:               notifier,
		AppURL:                 cfg.AppURL,
	})

	router := transporthttp.NewRouter(cfg, svc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
