package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"extractive-summarizer/internal/config"
	hhttp "extractive-summarizer/internal/handler/http"
	"extractive-summarizer/internal/handler/http/middleware"
	"extractive-summarizer/internal/handler/http/requestid"
	hsum "extractive-summarizer/internal/handler/http/summarize"
	"extractive-summarizer/internal/infra/htmltext"
	"extractive-summarizer/internal/infra/scorer"
	grpcsrv "extractive-summarizer/internal/interface/grpc"
	"extractive-summarizer/internal/observability/logging"
	"extractive-summarizer/internal/observability/slo"
	"extractive-summarizer/internal/observability/tracing"
	sumUC "extractive-summarizer/internal/usecase/summarize"
)

// sloPublishInterval is how often the SLO gauges are refreshed.
const sloPublishInterval = 30 * time.Second

func main() {
	loadDotEnv()
	logger := initLogger()

	serverCfg, err := config.LoadServerConfig()
	if err != nil {
		logger.Error("failed to load server configuration", slog.Any("error", err))
		os.Exit(1)
	}

	scorerClient := initScorer(logger)
	defer func() {
		if err := scorerClient.Close(); err != nil {
			logger.Error("failed to close scorer", slog.Any("error", err))
		}
	}()

	svc := initService(logger, serverCfg, scorerClient)
	version := getVersion()
	handler := setupServer(logger, serverCfg, svc, scorerClient, version)

	if err := runServer(logger, serverCfg, handler, svc, version); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// loadDotEnv loads .env from the working directory if present.
// Variables already set in the environment win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", slog.Any("error", err))
	}
}

// initLogger initializes the process logger from LOG_LEVEL and LOG_FORMAT.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initScorer builds the scorer backend selected by SCORER_BACKEND.
func initScorer(logger *slog.Logger) scorer.Client {
	scorerCfg, err := config.LoadScorerConfig()
	if err != nil {
		logger.Error("failed to load scorer configuration", slog.Any("error", err))
		os.Exit(1)
	}

	client, err := scorer.New(scorerCfg)
	if err != nil {
		logger.Error("failed to create scorer", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("scorer initialized",
		slog.String("backend", client.Backend()),
		slog.Duration("timeout", scorerCfg.Timeout),
		slog.Float64("rate_limit", scorerCfg.RateLimit))
	return client
}

// initService loads the inference settings and builds the pipeline.
func initService(logger *slog.Logger, serverCfg *config.ServerConfig, client scorer.Client) *sumUC.Service {
	inferenceCfg, err := config.LoadInferenceConfig(serverCfg.InferenceConfigPath())
	if err != nil {
		logger.Error("failed to load inference configuration",
			slog.String("path", serverCfg.InferenceConfigPath()),
			slog.Any("error", err))
		os.Exit(1)
	}

	svc, err := sumUC.NewService(client, inferenceCfg.ServiceConfig(),
		sumUC.WithHTMLExtractor(htmltext.New()),
		sumUC.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create summarize service", slog.Any("error", err))
		os.Exit(1)
	}

	defaults := svc.Defaults()
	logger.Info("summarize service initialized",
		slog.Int("top_k", defaults.TopK),
		slog.Float64("threshold", defaults.Threshold),
		slog.Int("max_input_tokens", inferenceCfg.MaxInputTokens))
	return svc
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer registers routes and wraps them with the middleware chain.
func setupServer(
	logger *slog.Logger,
	cfg *config.ServerConfig,
	svc hsum.Service,
	probe hhttp.ScorerProbe,
	version string,
) http.Handler {
	mux := http.NewServeMux()
	hsum.Register(mux, svc)

	mux.Handle("GET /healthz", &hhttp.HealthzHandler{Backend: probe.Backend()})
	mux.Handle("GET /health", &hhttp.HealthHandler{Scorer: probe, Version: version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Scorer: probe})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	return applyMiddleware(logger, cfg, mux)
}

// applyMiddleware wraps the handler with the middleware chain.
// Middleware order: CORS → Request ID → Recovery → Logging → Body Limit → Tracing → Metrics → Timeout
func applyMiddleware(logger *slog.Logger, cfg *config.ServerConfig, handler http.Handler) http.Handler {
	middlewareChain := handler

	// Apply in reverse order (innermost to outermost)
	middlewareChain = hhttp.Timeout(cfg.RequestTimeout)(middlewareChain)
	middlewareChain = hhttp.MetricsMiddleware(middlewareChain)
	middlewareChain = tracing.Middleware(middlewareChain)
	middlewareChain = hhttp.LimitRequestBody(cfg.MaxBodyBytes)(middlewareChain)
	middlewareChain = hhttp.Logging(logger)(middlewareChain)
	middlewareChain = hhttp.Recover(logger)(middlewareChain)
	middlewareChain = requestid.Middleware(middlewareChain)

	corsConfig := middleware.NewCORSConfig(cfg.AllowedOrigins, logger)
	if corsConfig == nil {
		logger.Info("CORS disabled (ALLOWED_ORIGINS is empty)")
		return middlewareChain
	}
	logger.Info("CORS enabled",
		slog.Int("allowed_origins_count", len(corsConfig.Validator.GetAllowedOrigins())),
		slog.Any("allowed_origins", corsConfig.Validator.GetAllowedOrigins()),
		slog.Int("max_age", corsConfig.MaxAge))
	return middleware.CORS(*corsConfig)(middlewareChain)
}

// runServer serves HTTP, and gRPC when GRPC_ADDR is set, until SIGINT or
// SIGTERM, then shuts both down gracefully.
func runServer(
	logger *slog.Logger,
	cfg *config.ServerConfig,
	handler http.Handler,
	svc grpcsrv.Summarizer,
	version string,
) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
	}

	g.Go(func() error {
		logger.Info("http server starting",
			slog.String("addr", srv.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	var grpcServer *grpc.Server
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}
		grpcServer = grpcsrv.NewServer(svc, logger)
		g.Go(func() error {
			logger.Info("grpc server starting", slog.String("addr", cfg.GRPCAddr))
			if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		return slo.Default.Run(ctx, sloPublishInterval)
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if grpcServer != nil {
			stopped := make(chan struct{})
			go func() {
				grpcServer.GracefulStop()
				close(stopped)
			}()
			select {
			case <-stopped:
			case <-shutdownCtx.Done():
				grpcServer.Stop()
			}
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown failed", slog.Any("error", err))
			return err
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
