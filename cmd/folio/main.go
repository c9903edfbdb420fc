package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/folio/internal/api"
	"github.com/MikeSquared-Agency/folio/internal/background"
	"github.com/MikeSquared-Agency/folio/internal/chat"
	"github.com/MikeSquared-Agency/folio/internal/config"
	"github.com/MikeSquared-Agency/folio/internal/contact"
	"github.com/MikeSquared-Agency/folio/internal/hermes"
	"github.com/MikeSquared-Agency/folio/internal/mailer"
	"github.com/MikeSquared-Agency/folio/internal/openrouter"
	"github.com/MikeSquared-Agency/folio/internal/slack"
	"github.com/MikeSquared-Agency/folio/internal/store"
)

const (
	taskTimeout     = 30 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("folio starting", "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	fatal := fatalCloser(db, os.Exit)

	if err := db.Migrate(ctx); err != nil {
		fatal("failed to migrate database", err)
	}
	slog.Info("database ready")

	tasks := background.New(cfg.BackgroundWorkers, cfg.BackgroundQueue, taskTimeout, slog.Default())

	// Model (optional, the classifier answers without it)
	var model chat.Completer
	if cfg.ModelConfigured() {
		model = openrouter.NewClient(cfg.ModelAPIKey, cfg.Model, cfg.ModelBaseURL,
			openrouter.WithAttribution(cfg.ModelReferer, cfg.ModelTitle))
		slog.Info("model client ready", "model", cfg.Model)
	} else {
		slog.Warn("OPENROUTER_API_KEY not set, chat will use canned replies")
	}

	dispatcher := chat.NewDispatcher(chat.Options{
		Model:   model,
		Timeout: cfg.ModelTimeout,
		Budget:  chat.NewBudget(cfg.ModelRatePerMin),
		Log:     db,
		Tasks:   tasks,
	}, slog.Default())

	// Contact notifiers, each optional
	var notifiers []contact.Notifier
	if cfg.MailConfigured() {
		m, err := mailer.New(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.MailUser,
			Password: cfg.MailPassword,
			FromName: cfg.MailFromName,
		}, slog.Default())
		if err != nil {
			fatal("failed to configure mailer", err)
		}
		notifiers = append(notifiers, m)
		slog.Info("acknowledgment email enabled", "smtp_host", cfg.SMTPHost)
	} else {
		slog.Warn("email not configured, acknowledgments disabled")
	}

	if cfg.SlackConfigured() {
		notifiers = append(notifiers, slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, slog.Default()))
		slog.Info("slack alerts ready", "channel", cfg.SlackChannel)
	}

	var hermesClient *hermes.Client
	if cfg.NatsURL != "" {
		hermesClient, err = hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			fatal("failed to connect to NATS", err)
		}
		notifiers = append(notifiers, hermes.NewContactPublisher(hermesClient))
		slog.Info("NATS connected", "url", cfg.NatsURL)
	}

	recorder := contact.NewRecorder(db, tasks, slog.Default(), notifiers...)

	// HTTP API
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(dispatcher, recorder, cfg.CORSOrigins, slog.Default()).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if hermesClient != nil {
		if err := hermesClient.Publish(hermes.SubjectServiceStarted, hermes.ServiceStarted{
			Service:   "folio",
			Addr:      addr,
			StartedAt: time.Now().UTC(),
		}); err != nil {
			slog.Warn("failed to publish startup event", "error", err)
		}
	}

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errCh:
		slog.Error("HTTP server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "error", err)
	}
	if err := tasks.Shutdown(shutdownCtx); err != nil {
		slog.Warn("background tasks abandoned", "error", err)
	}
	stats := tasks.Stats()
	slog.Info("background tasks drained", "completed", stats.Completed, "failed", stats.Failed, "dropped", stats.Dropped)

	if hermesClient != nil {
		hermesClient.Close()
	}
	slog.Info("folio stopped")
}

type closer interface {
	Close()
}

// fatalCloser returns a fatal-error handler that closes c before exiting,
// since os.Exit skips deferred calls.
func fatalCloser(c closer, exit func(int)) func(msg string, err error) {
	return func(msg string, err error) {
		slog.Error(msg, "error", err)
		c.Close()
		exit(1)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
