package web

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type InvocationStatus string

const (
	InvocationQueued    InvocationStatus = "queued"
	InvocationRunning   InvocationStatus = "running"
	InvocationCompleted InvocationStatus = "completed"
	InvocationFailed    InvocationStatus = "failed"
)

// Invocation tracks one background generation request. The id is assigned by
// this process, distinct from the render job id the collaborator hands out
// later.
type Invocation struct {
	ID        string           `json:"invocation_id"`
	Topic     string           `json:"topic"`
	Status    InvocationStatus `json:"status"`
	JobID     string           `json:"job_id,omitempty"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Tracker is an in-memory registry of async invocations. State lives for the
// process lifetime; durable results are in the result repository.
type Tracker struct {
	mu sync.RWMutex
	m  map[string]*Invocation
}

func NewTracker() *Tracker {
	return &Tracker{m: make(map[string]*Invocation)}
}

func (t *Tracker) Create(topic string) Invocation {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now().UTC()
	inv := &Invocation{
		ID:        uuid.NewString(),
		Topic:     topic,
		Status:    InvocationQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.m[inv.ID] = inv
	return *inv
}

func (t *Tracker) SetRunning(id string) {
	t.update(id, func(inv *Invocation) { inv.Status = InvocationRunning })
}

func (t *Tracker) Complete(id, jobID string) {
	t.update(id, func(inv *Invocation) {
		inv.Status = InvocationCompleted
		inv.JobID = jobID
	})
}

func (t *Tracker) Fail(id, jobID, errText string) {
	t.update(id, func(inv *Invocation) {
		inv.Status = InvocationFailed
		inv.JobID = jobID
		inv.Error = errText
	})
}

func (t *Tracker) Get(id string) (Invocation, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	inv, ok := t.m[id]
	if !ok {
		return Invocation{}, false
	}
	return *inv, true
}

func (t *Tracker) update(id string, fn func(*Invocation)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if inv, ok := t.m[id]; ok {
		fn(inv)
		inv.UpdatedAt = time.Now().UTC()
	}
}
