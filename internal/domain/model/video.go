package model

import "time"

type VideoStatus string

const (
	VideoStatusQueued     VideoStatus = "queued"
	VideoStatusInProgress VideoStatus = "in_progress"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

// IsTerminal reports whether no further status transition can occur.
func (s VideoStatus) IsTerminal() bool {
	return s == VideoStatusCompleted || s == VideoStatusFailed
}

// UnknownJobID is recorded when a run fails before submission ever
// returned a job identifier.
const UnknownJobID = "unknown"

// VideoJobStatus is one observation of a render job, as reported by the
// render collaborator. Progress is informational only; VideoURL is
// meaningful only when Status is completed.
type VideoJobStatus struct {
	JobID    string      `json:"job_id"`
	Status   VideoStatus `json:"status"`
	VideoURL string      `json:"video_url,omitempty"`
	Progress int         `json:"progress,omitempty"` // 0-100 when reported
	Error    string      `json:"error,omitempty"`
}

// VideoResult is the durable record of one pipeline run. Created once per
// invocation, immutable afterwards. Final status is always completed or
// failed; queued/in_progress never persist.
type VideoResult struct {
	JobID       string         `json:"job_id"`
	Topic       string         `json:"topic"`
	Script      string         `json:"script"`
	SoraPrompt  string         `json:"sora_prompt"`
	VideoURL    string         `json:"video_url"`
	Metadata    ScriptMetadata `json:"metadata"`
	Status      VideoStatus    `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt time.Time      `json:"completed_at"`
	Error       string         `json:"error,omitempty"`
}
