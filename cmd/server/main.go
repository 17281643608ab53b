// Package main provides the WhatsApp chatbot server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/atiendebot/atiendebot/internal/buildinfo"
	"github.com/atiendebot/atiendebot/internal/config"
	"github.com/atiendebot/atiendebot/internal/debounce"
	"github.com/atiendebot/atiendebot/internal/genai"
	"github.com/atiendebot/atiendebot/internal/logger"
	"github.com/atiendebot/atiendebot/internal/metrics"
	"github.com/atiendebot/atiendebot/internal/pipeline"
	"github.com/atiendebot/atiendebot/internal/registry"
	"github.com/atiendebot/atiendebot/internal/sentry"
	"github.com/atiendebot/atiendebot/internal/startup"
	"github.com/atiendebot/atiendebot/internal/transport"
	"github.com/atiendebot/atiendebot/internal/webhook"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger (stdout JSON, plus Better Stack when configured)
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log.Info("Starting AtiendeBot server")

	// Initialize Sentry error tracking (no-op when DSN is empty)
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Version,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, error tracking disabled")
	}
	defer sentry.Flush(2 * time.Second)

	// Open the client registry
	store, err := registry.NewStore(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Error("Failed to open client registry")
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("Client registry opened")

	// Create Prometheus registry with standard collectors
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector())
	promRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promRegistry.MustRegister(collectors.NewBuildInfoCollector())

	m := metrics.New(promRegistry)
	log.Info("Metrics initialized")

	// Debounce store with periodic eviction
	debounceStore := debounce.NewMemoryStore(debounce.MemoryStoreConfig{
		Window:        cfg.Pipeline.DebounceWindow,
		EntryTTL:      cfg.Pipeline.DebounceTTL,
		SweepInterval: cfg.Pipeline.DebounceSweepInterval,
	})
	debounceStore.OnUpdate(m.SetDebounceEntries)
	defer debounceStore.Stop()

	// Completion providers with retry and fallback
	completer, err := genai.NewCompleter(context.Background(), genai.FactoryConfig{
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OpenAIModel:  cfg.OpenAIModel,
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  cfg.GeminiModel,
		Retry: genai.RetryConfig{
			MaxAttempts:  cfg.GenerationMaxRetries,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     3 * time.Second,
		},
	})
	if err != nil {
		log.WithError(err).Error("Failed to create completion client")
		os.Exit(1)
	}
	defer func() { _ = completer.Close() }()
	log.WithField("provider", string(completer.Provider())).
		WithField("fallback", cfg.HasFallbackProvider()).
		Info("Completion client created")

	// Pre-flight checks before accepting traffic
	if err := startup.Run(context.Background(), store, completer, log, startup.Options{}); err != nil {
		log.WithError(err).Error("Pre-flight checks failed")
		os.Exit(1)
	}

	// Outbound delivery client
	sender := transport.NewTwilioClient(transport.TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		BaseURL:    cfg.TwilioBaseURL,
		Timeout:    cfg.DeliveryTimeout,
	})

	// Reply pipeline and its dispatcher
	processor := pipeline.NewProcessor(pipeline.ProcessorConfig{
		Registry:          store,
		Completer:         completer,
		Sender:            sender,
		Debounce:          debounceStore,
		Logger:            log,
		Metrics:           m,
		MaxChunkSize:      cfg.Pipeline.MaxChunkSize,
		GenerationTimeout: cfg.GenerationTimeout,
	})
	dispatcher := pipeline.NewDispatcher(pipeline.DispatcherConfig{
		Processor: processor,
		Logger:    log,
		Metrics:   m,
		Workers:   cfg.Pipeline.WorkerCount,
		QueueSize: cfg.Pipeline.WorkerQueueSize,
		Timeout:   cfg.Pipeline.ProcessingTimeout,
	})
	log.WithField("workers", cfg.Pipeline.WorkerCount).Info("Pipeline dispatcher started")

	// HTTP handlers
	webhookHandler := webhook.NewHandler(webhook.HandlerConfig{
		Dispatcher: dispatcher,
		Logger:     log,
		Metrics:    m,
	})
	registerHandler := webhook.NewRegisterHandler(webhook.RegisterHandlerConfig{
		Registry:       store,
		Sender:         sender,
		DefaultChannel: cfg.TwilioWhatsAppNumber,
		Logger:         log,
	})

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(sentryMiddleware())

	setupRoutes(router, routeDeps{
		webhook:  webhookHandler,
		register: registerHandler,
		store:    store,
		registry: promRegistry,
		config:   cfg,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.WebhookHTTPRead,
		WriteTimeout: config.WebhookHTTPWrite,
		IdleTimeout:  config.WebhookHTTPIdle,
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Failed to start server")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Stop accepting webhooks first, then drain in-flight pipeline work
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Timeout draining pipeline workers")
	}

	log.Info("Server stopped")
}
