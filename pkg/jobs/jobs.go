// Package jobs tracks analysis runs submitted through the HTTP API.
package jobs

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skoglund/feature-scan/pkg/analysis"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job is one submitted analysis run. Created on submission, mutated by
// the background task, read by polling clients.
type Job struct {
	ID          string           `json:"id"`
	Status      Status           `json:"status"`
	Reason      string           `json:"reason,omitempty"`
	SubmittedAt time.Time        `json:"submittedAt"`
	FinishedAt  *time.Time       `json:"finishedAt,omitempty"`
	Error       string           `json:"error,omitempty"`
	Result      *analysis.Result `json:"result,omitempty"`
}

// Registry is the process-wide job table. Entries are never evicted;
// there is no expiry policy, so a long-lived server accumulates one
// entry per submission.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Submit creates a pending job and returns its id.
func (r *Registry) Submit(reason string) *Job {
	job := &Job{
		ID:          uuid.New().String(),
		Status:      StatusPending,
		Reason:      reason,
		SubmittedAt: time.Now().UTC(),
	}
	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()
	return job
}

// Get returns a snapshot of the job.
func (r *Registry) Get(id string) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("job %s not found", id)
	}
	return *job, nil
}

// Len returns the number of registered jobs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// MarkRunning moves a job to running.
func (r *Registry) MarkRunning(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.Status = StatusRunning
	}
}

// MarkCompleted stores the result and finishes the job.
func (r *Registry) MarkCompleted(id string, result *analysis.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		now := time.Now().UTC()
		job.Status = StatusCompleted
		job.Result = result
		job.FinishedAt = &now
	}
}

// MarkFailed records the failure message and finishes the job.
func (r *Registry) MarkFailed(id string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		now := time.Now().UTC()
		job.Status = StatusFailed
		job.Error = err.Error()
		job.FinishedAt = &now
	}
}
