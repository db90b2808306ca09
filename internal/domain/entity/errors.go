package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationFailed matches every *ValidationError.
	ErrValidationFailed = errors.New("validation failed")

	// ErrScorerFailure means some batch could not be scored. The request
	// fails as a whole; partial summaries are never produced.
	ErrScorerFailure = errors.New("scorer failure")
)

// ValidationError rejects one request field. Its message is safe to show
// to clients.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is lets errors.Is match any ValidationError against ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
