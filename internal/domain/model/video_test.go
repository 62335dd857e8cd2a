package model

import "testing"

func TestVideoStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status VideoStatus
		want   bool
	}{
		{VideoStatusQueued, false},
		{VideoStatusInProgress, false},
		{VideoStatusCompleted, true},
		{VideoStatusFailed, true},
	}
	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("%q.IsTerminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
