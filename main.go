package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/kendo-tally/internal/club"
	"github.com/mauv0809/kendo-tally/internal/config"
	"github.com/mauv0809/kendo-tally/internal/database"
	server "github.com/mauv0809/kendo-tally/internal/http"
	"github.com/mauv0809/kendo-tally/internal/kendo"
	"github.com/mauv0809/kendo-tally/internal/metrics"
	"github.com/mauv0809/kendo-tally/internal/notifier"
	"github.com/mauv0809/kendo-tally/internal/notifier/slack"
	"github.com/mauv0809/kendo-tally/internal/processor"
	"github.com/mauv0809/kendo-tally/internal/pubsub"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}
	cfg.ApplyLogging()

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.TursoPrimaryURL, cfg.TursoAuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	clubStore := club.New(db)
	usage := metrics.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	notif := newNotifier(cfg, metricsSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pubsubClient, err := pubsub.New(ctx, cfg.GCPProject)
	if err != nil {
		log.Fatalf("Failed to initialize pubsub: %s", err)
	}
	defer pubsubClient.Close()

	proc := processor.New(clubStore, notif, metricsSvc, pubsubClient, usage)
	if err := proc.Load(); err != nil {
		log.Fatalf("Failed to load state: %s", err)
	}
	if err := proc.SeedSettings(kendo.Format(cfg.DefaultFormat), cfg.PromptTechnique); err != nil {
		log.Fatalf("Failed to apply default settings: %s", err)
	}

	s := server.NewServer(proc, notif, metricsSvc, metricsHandler, cfg, pubsubClient)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	serve(&http.Server{Addr: ":" + cfg.Port, Handler: s})
	log.Info("Server process shutting down")
}

// serve runs srv until it fails or the process is asked to stop, then drains
// in-flight requests.
func serve(srv *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server started", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}
}

func newNotifier(cfg config.Config, metricsSvc metrics.Metrics) notifier.Notifier {
	if !cfg.SlackEnabled() {
		log.Warn("Slack is not configured, notifications are disabled")
		return notifier.Noop{}
	}
	return slack.NewNotifier(cfg.SlackBotToken, cfg.SlackChannelID, metricsSvc)
}
