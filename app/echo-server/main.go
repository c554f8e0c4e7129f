package main

import (
	"context"
	"fmt"
	"kenyaMart/app/echo-server/metrics"
	"kenyaMart/internal/repository/notification"
	"kenyaMart/internal/rest"
	"kenyaMart/pkg/config"
	"kenyaMart/pkg/logger"
	cartMetrics "kenyaMart/pkg/metrics"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting KenyaMart", "version", cfg.App.Version)

	metrics.Init()
	cartMetrics.Init()

	var b backend
	switch cfg.Store.Backend {
	case config.BackendMemory:
		b = newMemoryBackend(cfg)
	default:
		b, err = newPostgresBackend(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
	}
	defer b.close()

	// Init notification from mailjet
	var confirmer rest.OrderConfirmer
	mailjetConfig := notification.MailjetConfig{
		MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
		MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
		MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
		MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
		MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
	}
	if mailjetConfig.Enabled() {
		confirmer = notification.NewMailjetRepository(mailjetConfig)
	} else {
		logger.Info("Mailjet not configured, order confirmations disabled")
	}

	e := newServer(cfg, b, confirmer)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
