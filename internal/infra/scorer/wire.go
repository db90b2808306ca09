package scorer

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// scoreRequest is the batch sent to a model server.
type scoreRequest struct {
	Sentences []string `json:"sentences"`
	MaxLength int      `json:"max_length"`
}

// scoreResponse carries either probabilities or raw logits.
type scoreResponse struct {
	Probabilities []float64   `json:"probabilities,omitempty"`
	Logits        [][]float64 `json:"logits,omitempty"`
}

// scores validates the response against a batch of n sentences and returns
// one probability per sentence.
func (r scoreResponse) scores(n int) ([]float64, error) {
	var out []float64
	switch {
	case r.Probabilities != nil:
		out = r.Probabilities
	case r.Logits != nil:
		probs, err := Normalize(r.Logits)
		if err != nil {
			return nil, err
		}
		out = probs
	case n == 0:
		return []float64{}, nil
	default:
		return nil, fmt.Errorf("%w: response has neither probabilities nor logits", ErrInvalidOutput)
	}

	if len(out) != n {
		return nil, fmt.Errorf("%w: got %d scores for %d sentences", ErrInvalidOutput, len(out), n)
	}
	return out, nil
}

// toStruct encodes the request as a google.protobuf.Struct.
func (r scoreRequest) toStruct() (*structpb.Struct, error) {
	sentences := make([]any, len(r.Sentences))
	for i, s := range r.Sentences {
		sentences[i] = s
	}
	return structpb.NewStruct(map[string]any{
		"sentences":  sentences,
		"max_length": r.MaxLength,
	})
}

// responseFromStruct decodes a response Struct.
func responseFromStruct(s *structpb.Struct) (scoreResponse, error) {
	var resp scoreResponse
	fields := s.GetFields()

	if v, ok := fields["probabilities"]; ok {
		probs, err := numbers(v.GetListValue())
		if err != nil {
			return scoreResponse{}, fmt.Errorf("%w: probabilities: %w", ErrInvalidOutput, err)
		}
		resp.Probabilities = probs
	}
	if v, ok := fields["logits"]; ok {
		rows := v.GetListValue().GetValues()
		resp.Logits = make([][]float64, len(rows))
		for i, row := range rows {
			vals, err := numbers(row.GetListValue())
			if err != nil {
				return scoreResponse{}, fmt.Errorf("%w: logits[%d]: %w", ErrInvalidOutput, i, err)
			}
			resp.Logits[i] = vals
		}
	}
	return resp, nil
}

func numbers(list *structpb.ListValue) ([]float64, error) {
	out := make([]float64, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("element %d is not a number", i)
		}
		out = append(out, n.NumberValue)
	}
	return out, nil
}
