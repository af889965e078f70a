package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/oculo/internal/adapters/capture"
	"github.com/okian/oculo/internal/adapters/http/api"
	"github.com/okian/oculo/internal/adapters/oracle"
	"github.com/okian/oculo/internal/adapters/referral"
	"github.com/okian/oculo/internal/adapters/stimulus"
	"github.com/okian/oculo/internal/adapters/summary"
	app "github.com/okian/oculo/internal/app"
	"github.com/okian/oculo/internal/config"
	"github.com/okian/oculo/internal/domain/blink"
	"github.com/okian/oculo/pkg/logger"
	"github.com/okian/oculo/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Open the webcam and connect to the landmark oracle sidecar.
	source, err := capture.OpenWebcam(cfg.CaptureDevice)
	if err != nil {
		os.Stderr.WriteString("failed to open webcam: " + err.Error() + "\n")
		return
	}

	oracleClient := oracle.NewClient(cfg.OracleURL)
	if err := oracleClient.Connect(ctx); err != nil {
		os.Stderr.WriteString("failed to connect to landmark oracle: " + err.Error() + "\n")
		_ = source.Close()
		return
	}

	// Stimulus hub keeps browser displays in sync with the running phase.
	hub := stimulus.NewHub()

	// Create and start the service with configuration options
	opts := []app.Option{
		app.WithLogger(loggerInstance),
		app.WithSource(source),
		app.WithOracle(oracleClient),
		app.WithBroadcaster(hub),
		app.WithProtocol(protocolFromConfig(cfg)),
		app.WithQueueSize(cfg.QueueSize),
		app.WithStoreCapacity(cfg.StoreCapacity),
		app.WithBlinkOptions(
			blink.WithBaseThreshold(cfg.BlinkBaseThreshold),
			blink.WithDebounceFrames(cfg.BlinkDebounceFrames),
		),
	}

	// Summaries are optional: no API key means the report ships without one.
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		gen, err := summary.NewGemini(ctx, apiKey, summary.WithModel(cfg.GeminiModel))
		if err != nil {
			loggerInstance.Warn(ctx, "summary generator unavailable", logger.Error(err))
		} else {
			opts = append(opts, app.WithSummaryGenerator(gen))
		}
	} else {
		loggerInstance.Info(ctx, "GEMINI_API_KEY not set; skipping AI summaries")
	}

	// Referral email delivery stays off unless explicitly enabled.
	if cfg.ReferralEnabled {
		sender, err := referral.NewGmailSender(ctx, referral.GmailConfig{
			ClientID:     os.Getenv("GMAIL_CLIENT_ID"),
			ClientSecret: os.Getenv("GMAIL_CLIENT_SECRET"),
			TokenPath:    cfg.GmailTokenPath,
		})
		if err != nil {
			loggerInstance.Warn(ctx, "referral sender unavailable", logger.Error(err))
		} else {
			opts = append(opts, app.WithReferralSender(sender))
		}
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop(context.Background())
	defer func() {
		if err := hub.Close(); err != nil {
			loggerInstance.Warn(ctx, "failed to close stimulus hub", logger.Error(err))
		}
	}()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Stimulus displays connect over websocket.
	mux.Handle("/ws/stimulus", hub)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, api.WithMaxRecentLimit(cfg.MaxRecentReports))
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// protocolFromConfig maps the loaded configuration onto the screening protocol.
func protocolFromConfig(cfg *config.Config) app.Protocol {
	p := app.DefaultProtocol()
	p.BaselineDuration = time.Duration(cfg.BaselineSeconds) * time.Second
	p.FlickerDuration = time.Duration(cfg.FlickerSeconds) * time.Second
	p.PauseDuration = time.Duration(cfg.PauseSeconds) * time.Second
	p.PursuitDuration = time.Duration(cfg.PursuitSeconds) * time.Second
	p.FlickerRate = cfg.FlickerRate
	p.StimulusWidth = cfg.StimulusWidth
	p.StimulusHeight = cfg.StimulusHeight
	p.PursuitAmplitude = cfg.PursuitAmplitude
	p.PursuitFrequency = cfg.PursuitFrequency
	p.PursuitCenterX = cfg.PursuitCenterX
	p.PursuitCenterY = cfg.PursuitCenterY
	p.PursuitTolerance = cfg.PursuitTolerance
	return p
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval) // Update every 10 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval) // Update every 5 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(ctx, svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(ctx context.Context, svc *app.Service) {
	queued, stored := svc.Stats(ctx)
	metrics.UpdateQueueSize(queued)
	metrics.UpdateStoredReports(stored)
}
