// Package grpc exposes the summarization pipeline over gRPC.
//
// Messages are google.protobuf.Struct values carrying the same fields as the
// HTTP API, so clients need no generated stubs:
//
//	request:  {"text": "...", "top_k": 3, "threshold": 0.5, "format": "text", "debug": false}
//	response: {"summary": "..."} plus "sentences", "selected", "scores" when debug is set
package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"extractive-summarizer/internal/domain/entity"
	"extractive-summarizer/internal/infra/scorer"
	"extractive-summarizer/internal/observability/logging"
	"extractive-summarizer/internal/usecase/summarize"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "summarizer.v1.Summarizer"

	// SummarizeMethod is the full method name of Summarize.
	SummarizeMethod = "/" + ServiceName + "/Summarize"
)

// Summarizer is the pipeline used by the server.
type Summarizer interface {
	Summarize(ctx context.Context, req entity.SummarizeRequest) (*entity.SummarizeResult, error)
}

// summarizerServer is the handler type checked by grpc.Server.RegisterService.
type summarizerServer interface {
	Summarize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// SummarizerServer implements summarizer.v1.Summarizer.
type SummarizerServer struct {
	svc Summarizer
}

// NewSummarizerServer creates a new SummarizerServer.
func NewSummarizerServer(svc Summarizer) *SummarizerServer {
	return &SummarizerServer{svc: svc}
}

// Register adds the server to gs.
func (s *SummarizerServer) Register(gs grpc.ServiceRegistrar) {
	gs.RegisterService(&serviceDesc, s)
}

// Summarize decodes the request Struct, runs the pipeline and encodes the result.
func (s *SummarizerServer) Summarize(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	req, debug, err := decodeRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	result, err := s.svc.Summarize(ctx, req)
	if err != nil {
		st := toStatus(err)
		logger.Warn("grpc summarize failed",
			slog.String("code", st.Code().String()),
			slog.Any("error", err))
		return nil, st.Err()
	}

	out, err := encodeResult(result, debug)
	if err != nil {
		logger.Error("failed to encode summarize response", slog.Any("error", err))
		return nil, status.Error(codes.Internal, "failed to encode response")
	}

	logger.Info("grpc summarize completed",
		slog.Int("sentences", len(result.Sentences)),
		slog.Int("selected", len(result.Selected)),
		slog.Duration("duration", time.Since(start)))
	return out, nil
}

// decodeRequest maps the request Struct onto the domain request.
// A missing text field is treated as empty text.
func decodeRequest(in *structpb.Struct) (entity.SummarizeRequest, bool, error) {
	var (
		req   entity.SummarizeRequest
		debug bool
	)

	for key, v := range in.GetFields() {
		if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
			continue
		}
		switch key {
		case "text":
			sv, ok := v.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return req, false, fmt.Errorf("text must be a string")
			}
			req.Text = sv.StringValue
		case "top_k":
			nv, ok := v.GetKind().(*structpb.Value_NumberValue)
			if !ok || nv.NumberValue != math.Trunc(nv.NumberValue) || math.Abs(nv.NumberValue) > math.MaxInt32 {
				return req, false, fmt.Errorf("top_k must be an integer")
			}
			k := int(nv.NumberValue)
			req.TopK = &k
		case "threshold":
			nv, ok := v.GetKind().(*structpb.Value_NumberValue)
			if !ok {
				return req, false, fmt.Errorf("threshold must be a number")
			}
			th := nv.NumberValue
			req.Threshold = &th
		case "format":
			sv, ok := v.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return req, false, fmt.Errorf("format must be a string")
			}
			req.Format = entity.InputFormat(sv.StringValue)
		case "debug":
			bv, ok := v.GetKind().(*structpb.Value_BoolValue)
			if !ok {
				return req, false, fmt.Errorf("debug must be a boolean")
			}
			debug = bv.BoolValue
		}
	}
	return req, debug, nil
}

// encodeResult builds the response Struct.
func encodeResult(result *entity.SummarizeResult, debug bool) (*structpb.Struct, error) {
	m := map[string]any{"summary": result.Summary}
	if debug {
		sentences := make([]any, len(result.Sentences))
		for i, s := range result.Sentences {
			sentences[i] = s.Text
		}
		selected := make([]any, len(result.Selected))
		for i, p := range result.Selected {
			selected[i] = p
		}
		scores := make([]any, len(result.Scores))
		for i, sc := range result.Scores {
			scores[i] = sc
		}
		m["sentences"] = sentences
		m["selected"] = selected
		m["scores"] = scores
	}
	return structpb.NewStruct(m)
}

// toStatus maps pipeline errors onto gRPC status codes.
func toStatus(err error) *status.Status {
	var validationErr *entity.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return status.New(codes.InvalidArgument, validationErr.Error())
	case errors.Is(err, summarize.ErrHTMLUnsupported):
		return status.New(codes.Unimplemented, err.Error())
	case errors.Is(err, context.Canceled):
		return status.New(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, scorer.ErrTimeout):
		return status.New(codes.DeadlineExceeded, "scorer timed out")
	case errors.Is(err, scorer.ErrCircuitOpen):
		return status.New(codes.Unavailable, "scorer temporarily unavailable")
	case errors.Is(err, entity.ErrScorerFailure):
		return status.New(codes.Unavailable, "scorer failed")
	default:
		return status.New(codes.Internal, "internal error")
	}
}

func summarizeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(summarizerServer).Summarize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SummarizeMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(summarizerServer).Summarize(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*summarizerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Summarize",
			Handler:    summarizeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "summarizer/v1/summarizer.proto",
}
