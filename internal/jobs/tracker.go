package jobs

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// State is the lifecycle state of an upload job. Transitions are strictly
// forward: processing -> completed or processing -> failed.
type State string

const (
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// ErrNotFound is returned when a job id is unknown or its entry has
// already been evicted.
var ErrNotFound = errors.New("job not found")

// Result is the payload of a successfully completed job.
type Result struct {
	ContentID  string `json:"content_id"`
	FileName   string `json:"file_name"`
	ChunkCount int    `json:"chunk_count"`
	Preview    string `json:"preview"`
}

// Status is a snapshot of one job entry.
type Status struct {
	State  State   `json:"state"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// Tracker maps job ids to lifecycle state. It is the only structure shared
// between the request path and the background ingestion units, so every
// access goes through the mutex.
//
// Completed entries are evicted on first read. Failed entries are retained
// until the process exits.
type Tracker struct {
	mu   sync.Mutex
	jobs map[string]*Status
}

func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[string]*Status)}
}

// Create allocates a fresh job id in state processing. Ids are random
// UUIDs rather than a counter so concurrent creations never collide.
func (t *Tracker) Create() string {
	id := uuid.NewString()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[id] = &Status{State: StateProcessing}
	return id
}

// MarkCompleted records the terminal success state and result payload.
// The job's background unit is the sole writer, so last write wins.
func (t *Tracker) MarkCompleted(id string, res Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[id] = &Status{State: StateCompleted, Result: &res}
}

// MarkFailed records the terminal failure state and error message.
func (t *Tracker) MarkFailed(id string, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[id] = &Status{State: StateFailed, Error: msg}
}

// Read returns the job's current status. A completed entry is evicted as
// part of the read, so a second read reports ErrNotFound.
func (t *Tracker) Read(id string) (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.jobs[id]
	if !ok {
		return Status{}, ErrNotFound
	}
	snapshot := *st
	if st.State == StateCompleted {
		delete(t.jobs, id)
	}
	return snapshot, nil
}
