package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ugc-video-pipeline/internal/domain"
	"ugc-video-pipeline/internal/domain/model"
	"ugc-video-pipeline/internal/domain/ports/adapter"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// recordSleep returns a sleepFunc that records each requested wait instead of
// actually waiting.
func recordSleep(dst *[]time.Duration) sleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		*dst = append(*dst, d)
		return nil
	}
}

// stubClock hands out start, start+step, start+2*step, ... on consecutive
// calls.
func stubClock(start time.Time, step time.Duration) func() time.Time {
	cur := start
	return func() time.Time {
		t := cur
		cur = cur.Add(step)
		return t
	}
}

type scriptReply struct {
	raw string
	err error
}

// fakeScriptClient replays a fixed sequence of completions.
type fakeScriptClient struct {
	mu       sync.Mutex
	replies  []scriptReply
	calls    int
	lastUser string
}

var _ adapter.ScriptClient = (*fakeScriptClient)(nil)

func (f *fakeScriptClient) Provider() string { return "fake" }

func (f *fakeScriptClient) Complete(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUser = user
	if f.calls >= len(f.replies) {
		return "", errors.New("fakeScriptClient: no reply scripted for call")
	}
	r := f.replies[f.calls]
	f.calls++
	return r.raw, r.err
}

type statusStep struct {
	st  model.VideoJobStatus
	err error
}

// fakeRenderer replays submission errors and then a fixed sequence of status
// observations. The final step repeats if polled past the end.
type fakeRenderer struct {
	mu          sync.Mutex
	submitErrs  []error
	submitCalls int
	jobID       string
	steps       []statusStep
	statusCalls int
	content     string
	downloadErr error
}

var _ adapter.VideoRenderer = (*fakeRenderer)(nil)

func (f *fakeRenderer) Submit(ctx context.Context, req adapter.RenderRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.submitCalls
	f.submitCalls++
	if call < len(f.submitErrs) {
		return "", f.submitErrs[call]
	}
	return f.jobID, nil
}

func (f *fakeRenderer) Status(ctx context.Context, jobID string) (model.VideoJobStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.statusCalls
	f.statusCalls++
	if i >= len(f.steps) {
		i = len(f.steps) - 1
	}
	step := f.steps[i]
	return step.st, step.err
}

func (f *fakeRenderer) DownloadContent(ctx context.Context, jobID string) (io.ReadCloser, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

// memResultRepo is an in-memory ResultRepository.
type memResultRepo struct {
	mu         sync.Mutex
	records    map[string]*model.VideoResult
	storeErr   error
	storeCalls int
	downloads  []bool
}

func newMemResultRepo() *memResultRepo {
	return &memResultRepo{records: make(map[string]*model.VideoResult)}
}

func (m *memResultRepo) Store(ctx context.Context, result *model.VideoResult, downloadVideo bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeCalls++
	m.downloads = append(m.downloads, downloadVideo)
	if m.storeErr != nil {
		return "", m.storeErr
	}
	cp := *result
	m.records[result.JobID] = &cp
	return "mem:" + result.JobID, nil
}

func (m *memResultRepo) Load(ctx context.Context, jobID string) (*model.VideoResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}
