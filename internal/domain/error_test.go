package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"validation", &ValidationError{Field: "script", Reason: "missing"}, true},
		{"render failed", &RenderFailedError{JobID: "job-1", Reason: "policy"}, true},
		{"timeout", &TimeoutError{JobID: "job-1", Attempts: 60}, true},
		{"invalid argument", fmt.Errorf("bad input: %w", ErrInvalidArgument), true},
		{"wrapped validation", fmt.Errorf("generate: %w", &ValidationError{Reason: "bad json"}), true},
		{"plain error", errors.New("connection reset"), false},
		{"not found", ErrNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
