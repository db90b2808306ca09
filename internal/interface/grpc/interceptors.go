package grpc

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"extractive-summarizer/internal/handler/http/requestid"
	"extractive-summarizer/internal/observability/logging"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UnaryRequestID propagates the x-request-id metadata value, or a fresh one,
// into the context together with a request scoped logger. The ID is echoed in
// the response header.
func UnaryRequestID(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		var candidate string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(requestid.MetadataKey); len(vals) > 0 {
				candidate = vals[0]
			}
		}
		reqID := requestid.Resolve(candidate)

		ctx = requestid.WithRequestID(ctx, reqID)
		ctx = logging.WithLogger(ctx, logging.WithRequestID(ctx, logger))
		_ = grpc.SetHeader(ctx, metadata.Pairs(requestid.MetadataKey, reqID))

		return handler(ctx, req)
	}
}

// UnaryLogging logs every completed call.
func UnaryLogging(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		logger.Info("rpc completed",
			slog.String("request_id", requestid.FromContext(ctx)),
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Duration("duration", time.Since(start)))
		return resp, err
	}
}

// UnaryRecover turns handler panics into codes.Internal.
func UnaryRecover(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					slog.String("request_id", requestid.FromContext(ctx)),
					slog.String("method", info.FullMethod),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())))
				resp = nil
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

// NewServer returns a grpc.Server with the interceptor chain installed and
// the summarizer registered.
func NewServer(svc Summarizer, logger *slog.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		UnaryRequestID(logger),
		UnaryLogging(logger),
		UnaryRecover(logger),
	))
	gs := grpc.NewServer(opts...)
	NewSummarizerServer(svc).Register(gs)
	return gs
}
