package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearServerEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT",
		"GRPC_ADDR",
		"ALLOWED_ORIGINS",
		"ARTIFACTS_DIR",
		"REQUEST_TIMEOUT",
		"SHUTDOWN_TIMEOUT",
		"MAX_BODY_BYTES",
	} {
		unsetEnv(t, key)
	}
}

func TestLoadServerConfig_Defaults(t *testing.T) {
	clearServerEnvVars(t)

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, ":8000", cfg.HTTPAddr())
	assert.Empty(t, cfg.GRPCAddr)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, DefaultArtifactsDir, cfg.ArtifactsDir)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, filepath.Join(DefaultArtifactsDir, "inference_config.json"), cfg.InferenceConfigPath())
}

func TestLoadServerConfig_Port(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{value: "9000", want: 9000},
		{value: " 9001 ", want: 9001},
		{value: "abc", want: 8000},
		{value: "80.5", want: 8000},
		{value: "8000abc", want: 8000},
		{value: "0", want: 8000},
		{value: "70000", want: 8000},
		{value: "-1", want: 8000},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			clearServerEnvVars(t)
			setEnv(t, "PORT", tt.value)

			cfg, err := LoadServerConfig()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Port)
		})
	}
}

func TestLoadServerConfig_AllowedOrigins(t *testing.T) {
	clearServerEnvVars(t)
	setEnv(t, "ALLOWED_ORIGINS", "http://localhost:3000, https://app.example.com ,,")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.AllowedOrigins)
}

func TestLoadServerConfig_CustomValues(t *testing.T) {
	clearServerEnvVars(t)
	setEnv(t, "GRPC_ADDR", ":9090")
	setEnv(t, "ARTIFACTS_DIR", "/models/v2")
	setEnv(t, "REQUEST_TIMEOUT", "15s")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.GRPCAddr)
	assert.Equal(t, "/models/v2/inference_config.json", cfg.InferenceConfigPath())
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestServerConfig_Validate(t *testing.T) {
	valid := func() *ServerConfig {
		return &ServerConfig{
			Port:            8000,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    DefaultMaxBodyBytes,
		}
	}

	tests := []struct {
		name      string
		mutate    func(*ServerConfig)
		expectErr string
	}{
		{name: "valid", mutate: func(c *ServerConfig) {}},
		{name: "request timeout too short", mutate: func(c *ServerConfig) { c.RequestTimeout = time.Millisecond }, expectErr: "REQUEST_TIMEOUT"},
		{name: "request timeout too long", mutate: func(c *ServerConfig) { c.RequestTimeout = time.Hour }, expectErr: "REQUEST_TIMEOUT"},
		{name: "zero shutdown timeout", mutate: func(c *ServerConfig) { c.ShutdownTimeout = 0 }, expectErr: "SHUTDOWN_TIMEOUT"},
		{name: "zero body limit", mutate: func(c *ServerConfig) { c.MaxBodyBytes = 0 }, expectErr: "MAX_BODY_BYTES"},
		{name: "grpc clashes with http", mutate: func(c *ServerConfig) { c.GRPCAddr = ":8000" }, expectErr: "GRPC_ADDR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectErr)
		})
	}
}
