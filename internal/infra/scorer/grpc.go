package scorer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"extractive-summarizer/internal/config"
	"extractive-summarizer/internal/observability/tracing"
	"extractive-summarizer/internal/resilience/circuitbreaker"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ScoreMethod is the full gRPC method name of the model server's scoring RPC.
// Request and response are google.protobuf.Struct values:
//
//	request:  {"sentences": ["..."], "max_length": 2048}
//	response: {"probabilities": [0.1, ...]} or {"logits": [[-1.2, 0.8], ...]}
const ScoreMethod = "/salience.v1.Scorer/Score"

// GRPCScorer scores sentences on a remote model server over gRPC.
type GRPCScorer struct {
	conn           *grpc.ClientConn
	timeout        time.Duration
	circuitBreaker *circuitbreaker.CircuitBreaker
	logger         *slog.Logger
}

// NewGRPCScorer dials the model server and waits until the connection is
// ready or cfg.ConnectionTimeout elapses.
func NewGRPCScorer(cfg *config.ScorerConfig) (*GRPCScorer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("scorer config is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectionTimeout)
	defer cancel()

	conn, err := grpc.NewClient(
		cfg.GRPCAddress,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	// Initiate connection (non-blocking)
	conn.Connect()

	if !waitForConnection(ctx, conn) {
		if closeErr := conn.Close(); closeErr != nil {
			slog.Error("failed to close gRPC connection", slog.Any("error", closeErr))
		}
		return nil, fmt.Errorf("%w: connection to %s timed out", ErrUnavailable, cfg.GRPCAddress)
	}

	return newGRPCScorer(conn, cfg), nil
}

// newGRPCScorer wraps an existing connection.
func newGRPCScorer(conn *grpc.ClientConn, cfg *config.ScorerConfig) *GRPCScorer {
	return &GRPCScorer{
		conn:           conn,
		timeout:        cfg.Timeout,
		circuitBreaker: newCircuitBreaker("salience-scorer-grpc", cfg.CircuitBreaker),
		logger:         slog.Default(),
	}
}

// Backend returns config.ScorerBackendGRPC.
func (s *GRPCScorer) Backend() string { return config.ScorerBackendGRPC }

// Score sends one batch to the model server.
func (s *GRPCScorer) Score(ctx context.Context, batch []string, maxLength int) ([]float64, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "scorer.grpc.Score")
	defer span.End()
	span.SetAttributes(attribute.Int("scorer.batch_size", len(batch)))

	req, err := scoreRequest{Sentences: batch, MaxLength: maxLength}.toStruct()
	if err != nil {
		return nil, fmt.Errorf("encode score request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	scores, err := circuitbreaker.Call(s.circuitBreaker, func() ([]float64, error) {
		resp := &structpb.Struct{}
		if err := s.conn.Invoke(ctx, ScoreMethod, req, resp); err != nil {
			return nil, mapGRPCError(err)
		}
		decoded, err := responseFromStruct(resp)
		if err != nil {
			return nil, err
		}
		return decoded.scores(len(batch))
	})
	if err = observe(config.ScorerBackendGRPC, start, err); err != nil {
		tracing.RecordError(ctx, err)
		s.logger.Debug("grpc scorer call failed",
			slog.Int("batch_size", len(batch)),
			slog.Any("error", err))
		return nil, err
	}
	return scores, nil
}

// Health returns the health status of the model server connection.
func (s *GRPCScorer) Health(ctx context.Context) (*HealthStatus, error) {
	start := time.Now()

	if s.circuitBreaker.IsOpen() {
		return &HealthStatus{
			Healthy:     false,
			Message:     "circuit breaker is open",
			CircuitOpen: true,
		}, nil
	}

	state := s.conn.GetState()
	return &HealthStatus{
		Healthy: state == connectivity.Ready || state == connectivity.Idle,
		Latency: time.Since(start),
		Message: fmt.Sprintf("connection state: %s", state),
	}, nil
}

// Close releases the connection.
func (s *GRPCScorer) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// mapGRPCError converts gRPC status errors into adapter errors.
func mapGRPCError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch st.Code() {
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrTimeout, st.Message())
	case codes.Canceled:
		return fmt.Errorf("scorer call canceled: %w", context.Canceled)
	case codes.Unavailable:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, st.Message())
	default:
		return fmt.Errorf("%w: %s: %s", ErrUnavailable, st.Code(), st.Message())
	}
}

// waitForConnection waits for the gRPC connection to be ready.
func waitForConnection(ctx context.Context, conn *grpc.ClientConn) bool {
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			return true
		}
		if !conn.WaitForStateChange(ctx, state) {
			return false
		}
	}
}
