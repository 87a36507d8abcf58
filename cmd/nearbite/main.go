package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nearbite/internal/config"
	logpkg "github.com/kailas-cloud/nearbite/internal/logger"
	"github.com/kailas-cloud/nearbite/internal/metrics"
	chiTransport "github.com/kailas-cloud/nearbite/internal/transport/chi"
	"github.com/kailas-cloud/nearbite/internal/transport/gemini"
	openaiGen "github.com/kailas-cloud/nearbite/internal/transport/openai"
	"github.com/kailas-cloud/nearbite/internal/transport/places"
	"github.com/kailas-cloud/nearbite/internal/usecase/classify"
	"github.com/kailas-cloud/nearbite/internal/usecase/discovery"
	"github.com/kailas-cloud/nearbite/internal/usecase/generation"
	"github.com/kailas-cloud/nearbite/internal/usecase/geocode"
	healthuc "github.com/kailas-cloud/nearbite/internal/usecase/health"
	"github.com/kailas-cloud/nearbite/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting nearbite API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("classifier_provider", cfg.Classifier.Provider),
		zap.String("classifier_model", cfg.Classifier.Model),
	)

	// Register provider metrics explicitly (no init())
	metrics.RegisterProviderMetrics()

	ctx := context.Background()

	placesClient := places.NewClient(&places.Config{
		APIKey:    cfg.Places.APIKey,
		BaseURL:   cfg.Places.BaseURL,
		Language:  cfg.Places.Language,
		Timeout:   cfg.Places.Timeout(),
		RateLimit: cfg.Places.RateLimit,
		Logger:    logger,
	})

	generator, err := buildGenerator(ctx, cfg.Classifier, logger)
	if err != nil {
		logger.Fatal("Failed to create text generator", zap.Error(err))
	}

	// Use case services
	searcher := discovery.NewSearcher(placesClient, discovery.SearchConfig{
		Types:          cfg.Places.SearchTypes,
		Keywords:       cfg.Places.Keywords,
		MaxPages:       cfg.Places.MaxPages,
		PageTokenDelay: cfg.Places.PageTokenDelay(),
		CallTimeout:    cfg.Places.Timeout(),
	}, logger)
	fetcher := discovery.NewDetailFetcher(placesClient, cfg.Places.Timeout())
	aggregator := discovery.NewDetailAggregator(fetcher, cfg.Discovery.DetailWorkers, logger)
	discoverySvc := discovery.New(searcher, aggregator, fetcher, logger)
	classifySvc := classify.New(generator, cfg.Classifier.ChunkSize, cfg.Classifier.Workers, logger)
	geocodeSvc := geocode.New(placesClient, logger)
	healthSvc := healthuc.New().With("generator", generator)

	server := chiTransport.NewServer(discoverySvc, classifySvc, geocodeSvc, healthSvc, logger,
		chiTransport.WithRadius(cfg.Discovery.DefaultRadius, cfg.Discovery.MaxRadius),
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)
	mountStatic(r, cfg.HTTP.StaticDir, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildGenerator assembles the provider chain: Gemini or OpenAI -> Instrumented.
func buildGenerator(
	ctx context.Context, cfg config.ClassifierConfig, logger *zap.Logger,
) (*generation.InstrumentedGenerator, error) {
	var base generation.Provider
	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := gemini.NewGenerator(ctx, &gemini.Config{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout(),
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini generator: %w", err)
		}
		base = g
	case config.ProviderOpenAI:
		base = openaiGen.NewGenerator(&openaiGen.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout(),
			Provider:    cfg.Provider,
			Logger:      logger,
		})
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
	}

	logger.Info("Text generator created",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
	)
	return generation.NewInstrumentedGenerator(base, cfg.Provider, cfg.Model, logger), nil
}

// mountStatic serves the browser front-end from dir; unknown routes get a JSON 404 otherwise.
func mountStatic(r chi.Router, dir string, logger *zap.Logger) {
	if dir == "" {
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"code":    "not_found",
				"message": "not found",
			})
		})
		return
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		logger.Warn("Static directory not available, front-end disabled", zap.String("dir", dir))
		return
	}
	logger.Info("Serving static front-end", zap.String("dir", dir))
	r.Handle("/*", http.FileServer(http.Dir(dir)))
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity, as net/http does
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
