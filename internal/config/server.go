package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	pkgconfig "extractive-summarizer/pkg/config"
)

const (
	// DefaultPort is used when PORT is unset or not a valid port number.
	DefaultPort = 8000

	// DefaultArtifactsDir holds the model artifacts and inference_config.json.
	DefaultArtifactsDir = "artifacts/afriberta_extractive_v1"

	// InferenceConfigFile is the name of the static inference settings file
	// inside the artifacts directory.
	InferenceConfigFile = "inference_config.json"

	// DefaultMaxBodyBytes caps request bodies at 1 MiB.
	DefaultMaxBodyBytes int64 = 1 << 20
)

// ServerConfig holds process level settings for cmd/api.
type ServerConfig struct {
	// Port for the HTTP listener. Default: 8000
	Port int

	// GRPCAddr enables the gRPC Summarizer server when non-empty (e.g. ":9090").
	GRPCAddr string

	// AllowedOrigins for CORS. CORS is disabled when empty.
	AllowedOrigins []string

	// ArtifactsDir locates inference_config.json.
	ArtifactsDir string

	// RequestTimeout bounds a whole summarize request. Default: 60s
	RequestTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration

	// MaxBodyBytes limits request body size. Default: 1 MiB
	MaxBodyBytes int64
}

// LoadServerConfig reads server settings from the environment.
//
// PORT values that do not parse, or fall outside 1-65535, are replaced by
// DefaultPort with a warning rather than failing startup.
func LoadServerConfig() (*ServerConfig, error) {
	port := pkgconfig.GetEnvInt("PORT", DefaultPort)
	if port < 1 || port > 65535 {
		slog.Warn("PORT out of range, using default",
			slog.Int("value", port),
			slog.Int("default", DefaultPort))
		port = DefaultPort
	}

	cfg := &ServerConfig{
		Port:            port,
		GRPCAddr:        pkgconfig.GetEnvString("GRPC_ADDR", ""),
		AllowedOrigins:  pkgconfig.GetEnvStringList("ALLOWED_ORIGINS", nil),
		ArtifactsDir:    pkgconfig.GetEnvString("ARTIFACTS_DIR", DefaultArtifactsDir),
		RequestTimeout:  pkgconfig.GetEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
		ShutdownTimeout: pkgconfig.GetEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxBodyBytes:    int64(pkgconfig.GetEnvInt("MAX_BODY_BYTES", int(DefaultMaxBodyBytes))),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *ServerConfig) Validate() error {
	if err := pkgconfig.ValidateDurationRange(c.RequestTimeout, time.Second, 10*time.Minute); err != nil {
		return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	if c.GRPCAddr != "" && c.GRPCAddr == c.HTTPAddr() {
		return fmt.Errorf("GRPC_ADDR must differ from the HTTP address %s", c.HTTPAddr())
	}
	return nil
}

// HTTPAddr is the listen address for the HTTP server.
func (c *ServerConfig) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// InferenceConfigPath returns the location of inference_config.json.
func (c *ServerConfig) InferenceConfigPath() string {
	return filepath.Join(c.ArtifactsDir, InferenceConfigFile)
}
