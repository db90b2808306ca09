package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"extractive-summarizer/internal/domain/entity"
	"extractive-summarizer/internal/usecase/summarize"

	"gopkg.in/yaml.v3"
)

// Inference defaults, used for any key missing from the file.
const (
	DefaultMaxInputTokens = summarize.DefaultMaxInputTokens
	DefaultTopK           = 3
	DefaultThreshold      = 0.5
	DefaultBatchSize      = summarize.DefaultBatchSize
)

// InferenceConfig is the static model configuration shipped next to the
// model artifacts. JSON is a subset of YAML, so inference_config.json is
// decoded with the YAML decoder and YAML files work as well.
type InferenceConfig struct {
	MaxInputTokens int             `yaml:"max_input_tokens"`
	BatchSize      int             `yaml:"batch_size"`
	Selection      SelectionConfig `yaml:"selection"`
	Segmentation   struct {
		LongSentenceRunes   int    `yaml:"long_sentence_chars"`
		Terminators         string `yaml:"terminators"`
		SecondaryDelimiters string `yaml:"secondary_delimiters"`
	} `yaml:"segmentation"`
}

// SelectionConfig holds the default selection parameters.
// Pointers distinguish a missing key from an explicit zero.
type SelectionConfig struct {
	TopK      *int     `yaml:"top_k"`
	Threshold *float64 `yaml:"threshold"`
}

// DefaultInferenceConfig returns the settings used when no file is present.
func DefaultInferenceConfig() *InferenceConfig {
	topK, threshold := DefaultTopK, DefaultThreshold
	return &InferenceConfig{
		MaxInputTokens: DefaultMaxInputTokens,
		BatchSize:      DefaultBatchSize,
		Selection:      SelectionConfig{TopK: &topK, Threshold: &threshold},
	}
}

// LoadInferenceConfig loads inference settings from path.
// A missing file is not an error: defaults are returned and a warning is logged.
// The path parameter is expected to come from a trusted source (env or CLI flag).
func LoadInferenceConfig(path string) (*InferenceConfig, error) {
	// #nosec G304 -- path is provided by trusted source (ARTIFACTS_DIR or CLI flag), not user input
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("inference config not found, using defaults",
			slog.String("path", path),
			slog.Int("max_input_tokens", DefaultMaxInputTokens),
			slog.Int("top_k", DefaultTopK),
			slog.Float64("threshold", DefaultThreshold))
		return DefaultInferenceConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read inference config: %w", err)
	}

	return ParseInferenceConfig(data)
}

// ParseInferenceConfig decodes a JSON or YAML document and fills defaults.
func ParseInferenceConfig(data []byte) (*InferenceConfig, error) {
	var cfg InferenceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse inference config: %w", err)
	}

	def := DefaultInferenceConfig()
	if cfg.MaxInputTokens == 0 {
		cfg.MaxInputTokens = def.MaxInputTokens
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.Selection.TopK == nil {
		cfg.Selection.TopK = def.Selection.TopK
	}
	if cfg.Selection.Threshold == nil {
		cfg.Selection.Threshold = def.Selection.Threshold
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("inference config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the loaded values. Threshold is deliberately not range
// checked; out-of-range values make every sentence pass or fail.
func (c *InferenceConfig) Validate() error {
	if c.MaxInputTokens < 1 {
		return fmt.Errorf("max_input_tokens must be positive")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be positive")
	}
	if c.Segmentation.LongSentenceRunes < 0 {
		return fmt.Errorf("segmentation.long_sentence_chars must not be negative")
	}
	return nil
}

// ServiceConfig converts the file settings into pipeline settings.
func (c *InferenceConfig) ServiceConfig() summarize.Config {
	sel := entity.SelectionConfig{TopK: DefaultTopK, Threshold: DefaultThreshold}
	if c.Selection.TopK != nil {
		sel.TopK = *c.Selection.TopK
	}
	if c.Selection.Threshold != nil {
		sel.Threshold = *c.Selection.Threshold
	}
	return summarize.Config{
		Selection:      sel,
		MaxInputTokens: c.MaxInputTokens,
		BatchSize:      c.BatchSize,
		Segmenter: summarize.SegmenterConfig{
			LongSentenceRunes:   c.Segmentation.LongSentenceRunes,
			Terminators:         c.Segmentation.Terminators,
			SecondaryDelimiters: c.Segmentation.SecondaryDelimiters,
		},
	}
}
