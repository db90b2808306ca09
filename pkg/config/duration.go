package config

import (
	"fmt"
	"time"
)

// ValidatePositiveDuration rejects zero and negative durations.
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidateNonNegativeDuration rejects negative durations. Zero is allowed,
// e.g. for an optional delay.
func ValidateNonNegativeDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("duration must be non-negative, got %v", d)
	}
	return nil
}

// ValidateDurationRange checks lo <= d <= hi.
func ValidateDurationRange(d, lo, hi time.Duration) error {
	switch {
	case lo > hi:
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", lo, hi)
	case d < lo:
		return fmt.Errorf("duration %v is below minimum %v", d, lo)
	case d > hi:
		return fmt.Errorf("duration %v exceeds maximum %v", d, hi)
	}
	return nil
}
