package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"extractive-summarizer/internal/domain/entity"
	"extractive-summarizer/internal/observability/logging"
	"extractive-summarizer/internal/observability/metrics"
	"extractive-summarizer/internal/observability/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// ErrHTMLUnsupported is returned for HTML requests when no extractor is configured.
var ErrHTMLUnsupported = errors.New("html input is not supported")

// TextExtractor converts an encoded document into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, document string) (string, error)
}

// Config holds the static settings of the pipeline.
type Config struct {
	// Selection holds the default top_k and threshold.
	Selection entity.SelectionConfig
	// MaxInputTokens is passed to the scorer as maxLength. Default: 2048
	MaxInputTokens int
	// BatchSize is the number of sentences per scorer call. Default: 16
	BatchSize int
	// Segmenter configures sentence splitting.
	Segmenter SegmenterConfig
}

// Option customizes a Service.
type Option func(*Service)

// WithHTMLExtractor enables format "html" requests.
func WithHTMLExtractor(x TextExtractor) Option {
	return func(s *Service) { s.html = x }
}

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// Service runs the sentence selection pipeline: segment, score in batches,
// select, assemble. It holds no per-request state and is safe for concurrent
// use once constructed.
type Service struct {
	scorer    Scorer
	segmenter *Segmenter
	cfg       Config
	html      TextExtractor
	logger    *slog.Logger
}

// NewService creates a summarization Service.
//
// Parameters:
//   - scorer: salience model adapter (required)
//   - cfg: static pipeline settings; zero BatchSize and MaxInputTokens take defaults
//   - opts: optional HTML extractor and logger
//
// Example:
//
//	svc, err := summarize.NewService(scorer, summarize.Config{
//	    Selection: entity.SelectionConfig{TopK: 3, Threshold: 0.5},
//	}, summarize.WithHTMLExtractor(htmltext.New()))
func NewService(scorer Scorer, cfg Config, opts ...Option) (*Service, error) {
	if scorer == nil {
		return nil, errors.New("scorer is required")
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxInputTokens < 1 {
		cfg.MaxInputTokens = DefaultMaxInputTokens
	}

	segmenter, err := NewSegmenter(cfg.Segmenter)
	if err != nil {
		return nil, fmt.Errorf("create segmenter: %w", err)
	}

	s := &Service{
		scorer:    scorer,
		segmenter: segmenter,
		cfg:       cfg,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Defaults returns the static selection configuration.
func (s *Service) Defaults() entity.SelectionConfig {
	return s.cfg.Selection
}

// Summarize reduces req.Text to its most salient sentences in original order.
//
// It never fails because of the text itself: empty input yields an empty
// summary. Any scorer failure fails the whole request with an error wrapping
// entity.ErrScorerFailure.
func (s *Service) Summarize(ctx context.Context, req entity.SummarizeRequest) (*entity.SummarizeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracing.GetTracer().Start(ctx, "summarize.Summarize")
	defer span.End()

	start := time.Now()
	logger := logging.WithRequestID(ctx, s.logger)

	input := req.Text
	if req.Format == entity.InputFormatHTML {
		if s.html == nil {
			return nil, ErrHTMLUnsupported
		}
		extracted, err := s.html.ExtractText(ctx, input)
		if err != nil {
			tracing.RecordError(ctx, err)
			return nil, fmt.Errorf("extract html text: %w", err)
		}
		input = extracted
	}

	selection := s.cfg.Selection.Resolve(req.TopK, req.Threshold)

	sentences, fallback := s.segmenter.segment(input)
	if fallback != "" {
		metrics.RecordSegmentationFallback(fallback)
		logger.Debug("segmentation fallback",
			slog.String("kind", fallback),
			slog.Int("sentences", len(sentences)))
	}

	scores, err := s.score(ctx, entity.Texts(sentences))
	if err != nil {
		metrics.RecordSummary(false, time.Since(start))
		tracing.RecordError(ctx, err)
		logger.Warn("summarization failed",
			slog.Int("sentences", len(sentences)),
			slog.Any("error", err))
		return nil, err
	}

	scored := make([]entity.ScoredSentence, len(sentences))
	for i, sent := range sentences {
		scored[i] = entity.ScoredSentence{Position: sent.Position, Score: scores[i]}
	}

	kept, fellBack := selectTop(scored, selection)
	summary := Assemble(sentences, kept)

	result := &entity.SummarizeResult{
		Summary:   summary,
		Sentences: sentences,
		Scores:    scores,
		Selected:  sortedPositions(kept),
		Selection: selection,
		FellBack:  fellBack,
	}

	metrics.RecordSummary(true, time.Since(start))
	metrics.RecordSelection(len(sentences), len(result.Selected), fellBack)
	span.SetAttributes(
		attribute.Int("summarize.sentences", len(sentences)),
		attribute.Int("summarize.selected", len(result.Selected)),
		attribute.Int("summarize.top_k", selection.TopK),
		attribute.Float64("summarize.threshold", selection.Threshold),
		attribute.Bool("summarize.fallback", fellBack),
	)
	logger.Debug("summary built",
		slog.Int("sentences", len(sentences)),
		slog.Int("selected", len(result.Selected)),
		slog.Bool("threshold_fallback", fellBack),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

// score runs the scorer over contiguous batches and concatenates the
// results in sentence order. The first failing batch aborts the request.
func (s *Service) score(ctx context.Context, texts []string) ([]float64, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "summarize.score")
	defer span.End()

	scores := make([]float64, 0, len(texts))
	n := 0
	for batch := range Batches(texts, s.cfg.BatchSize) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", entity.ErrScorerFailure, err)
		}

		start := time.Now()
		out, err := s.scorer.Score(ctx, batch, s.cfg.MaxInputTokens)
		metrics.RecordScorerBatch(time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("%w: batch %d: %w", entity.ErrScorerFailure, n, err)
		}
		if err := validateScores(batch, out); err != nil {
			return nil, fmt.Errorf("%w: batch %d: %w", entity.ErrScorerFailure, n, err)
		}
		scores = append(scores, out...)
		n++
	}

	span.SetAttributes(attribute.Int("summarize.batches", n))
	return scores, nil
}
