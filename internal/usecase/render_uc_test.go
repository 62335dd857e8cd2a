package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ugc-video-pipeline/internal/domain"
	"ugc-video-pipeline/internal/domain/model"
)

func queued() statusStep {
	return statusStep{st: model.VideoJobStatus{JobID: "job-1", Status: model.VideoStatusQueued}}
}

func inProgress(p int) statusStep {
	return statusStep{st: model.VideoJobStatus{JobID: "job-1", Status: model.VideoStatusInProgress, Progress: p}}
}

func completed() statusStep {
	return statusStep{st: model.VideoJobStatus{JobID: "job-1", Status: model.VideoStatusCompleted, VideoURL: "sora:job-1", Progress: 100}}
}

func newRenderUC(r *fakeRenderer, maxAttempts int, sleeps *[]time.Duration) *RenderUseCase {
	uc := NewRenderUseCase(r, testRetry(), maxAttempts, 10*time.Second, testLogger())
	uc.sleep = recordSleep(sleeps)
	return uc
}

func TestSubmit_RetriesThenSucceeds(t *testing.T) {
	r := &fakeRenderer{jobID: "job-1", submitErrs: []error{errors.New("503 from upstream")}}
	var sleeps []time.Duration
	uc := newRenderUC(r, 60, &sleeps)

	jobID, err := uc.Submit(context.Background(), "a calm bedroom scene", 8, "1280x720")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if jobID != "job-1" {
		t.Errorf("jobID = %q, want job-1", jobID)
	}
	if r.submitCalls != 2 {
		t.Errorf("submit calls = %d, want 2", r.submitCalls)
	}
	if len(sleeps) != 1 || sleeps[0] != 2*time.Second {
		t.Errorf("backoffs = %v, want [2s]", sleeps)
	}
}

func TestSubmit_GivesUpAfterMaxAttempts(t *testing.T) {
	boom := errors.New("upstream down")
	r := &fakeRenderer{jobID: "job-1", submitErrs: []error{boom, boom, boom}}
	var sleeps []time.Duration
	uc := newRenderUC(r, 60, &sleeps)

	if _, err := uc.Submit(context.Background(), "x", 8, "1280x720"); !errors.Is(err, boom) {
		t.Fatalf("Submit() error = %v, want %v", err, boom)
	}
	if r.submitCalls != 3 {
		t.Errorf("submit calls = %d, want 3", r.submitCalls)
	}
}

func TestPollUntilTerminal_CompletesAfterProgress(t *testing.T) {
	r := &fakeRenderer{steps: []statusStep{queued(), queued(), inProgress(60), completed()}}
	var sleeps []time.Duration
	uc := newRenderUC(r, 60, &sleeps)

	var seen []model.VideoStatus
	st, err := uc.PollUntilTerminal(context.Background(), "job-1", func(s model.VideoJobStatus) {
		seen = append(seen, s.Status)
	})
	if err != nil {
		t.Fatalf("PollUntilTerminal() error = %v", err)
	}
	if st.Status != model.VideoStatusCompleted {
		t.Errorf("status = %q, want completed", st.Status)
	}
	if st.VideoURL != "sora:job-1" {
		t.Errorf("video url = %q, want sora:job-1", st.VideoURL)
	}
	if r.statusCalls != 4 {
		t.Errorf("status checks = %d, want 4", r.statusCalls)
	}
	// one wait between consecutive checks, none after the terminal one
	if len(sleeps) != 3 {
		t.Errorf("waits = %d, want 3", len(sleeps))
	}
	for i, d := range sleeps {
		if d != 10*time.Second {
			t.Errorf("wait[%d] = %v, want poll interval 10s", i, d)
		}
	}
	if len(seen) != 4 {
		t.Errorf("progress callbacks = %d, want 4", len(seen))
	}
}

func TestPollUntilTerminal_FailedJob(t *testing.T) {
	r := &fakeRenderer{steps: []statusStep{
		queued(),
		{st: model.VideoJobStatus{JobID: "job-1", Status: model.VideoStatusFailed, Error: "model overloaded"}},
	}}
	var sleeps []time.Duration
	uc := newRenderUC(r, 60, &sleeps)

	_, err := uc.PollUntilTerminal(context.Background(), "job-1", nil)
	var rf *domain.RenderFailedError
	if !errors.As(err, &rf) {
		t.Fatalf("PollUntilTerminal() error = %v, want RenderFailedError", err)
	}
	if !strings.Contains(rf.Reason, "model overloaded") {
		t.Errorf("reason = %q, want collaborator error text preserved", rf.Reason)
	}
	if r.statusCalls != 2 {
		t.Errorf("status checks = %d, want 2 (failed state aborts immediately)", r.statusCalls)
	}
}

func TestPollUntilTerminal_FailedJobWithoutReason(t *testing.T) {
	r := &fakeRenderer{steps: []statusStep{
		{st: model.VideoJobStatus{JobID: "job-1", Status: model.VideoStatusFailed}},
	}}
	var sleeps []time.Duration
	uc := newRenderUC(r, 60, &sleeps)

	_, err := uc.PollUntilTerminal(context.Background(), "job-1", nil)
	var rf *domain.RenderFailedError
	if !errors.As(err, &rf) {
		t.Fatalf("PollUntilTerminal() error = %v, want RenderFailedError", err)
	}
	if rf.Reason != "unknown error" {
		t.Errorf("reason = %q, want \"unknown error\"", rf.Reason)
	}
}

func TestPollUntilTerminal_Timeout(t *testing.T) {
	r := &fakeRenderer{steps: []statusStep{queued()}}
	var sleeps []time.Duration
	uc := newRenderUC(r, 3, &sleeps)

	_, err := uc.PollUntilTerminal(context.Background(), "job-1", nil)
	var te *domain.TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("PollUntilTerminal() error = %v, want TimeoutError", err)
	}
	if te.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", te.Attempts)
	}
	if r.statusCalls != 3 {
		t.Errorf("status checks = %d, want exactly the attempt budget", r.statusCalls)
	}
	// no wait after the final check
	if len(sleeps) != 2 {
		t.Errorf("waits = %d, want 2", len(sleeps))
	}
}

func TestPollUntilTerminal_ToleratesCheckErrors(t *testing.T) {
	r := &fakeRenderer{steps: []statusStep{
		{err: errors.New("network blip")},
		queued(),
		{err: errors.New("another blip")},
		completed(),
	}}
	var sleeps []time.Duration
	uc := newRenderUC(r, 60, &sleeps)

	st, err := uc.PollUntilTerminal(context.Background(), "job-1", nil)
	if err != nil {
		t.Fatalf("PollUntilTerminal() error = %v", err)
	}
	if st.Status != model.VideoStatusCompleted {
		t.Errorf("status = %q, want completed", st.Status)
	}
	if r.statusCalls != 4 {
		t.Errorf("status checks = %d, want 4 (check errors consume budget)", r.statusCalls)
	}
}

func TestPollUntilTerminal_CheckErrorOnLastAttempt(t *testing.T) {
	blip := errors.New("gateway timeout")
	r := &fakeRenderer{steps: []statusStep{queued(), {err: blip}}}
	var sleeps []time.Duration
	uc := newRenderUC(r, 2, &sleeps)

	_, err := uc.PollUntilTerminal(context.Background(), "job-1", nil)
	if !errors.Is(err, blip) {
		t.Fatalf("PollUntilTerminal() error = %v, want %v", err, blip)
	}
}
