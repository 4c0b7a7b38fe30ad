package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a generation job.
type JobStatus string

const (
	StatusQueued        JobStatus = "queued"
	StatusParsing       JobStatus = "parsing"
	StatusLoadingMatrix JobStatus = "loading_matrix"
	StatusGenerating    JobStatus = "generating"
	StatusWriting       JobStatus = "writing"
	StatusCompleted     JobStatus = "completed"
	StatusFailed        JobStatus = "failed"
)

// Terminal reports whether no further transitions follow s.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks one specification + matrix pair through the pipeline.
type Job struct {
	mu sync.Mutex

	ID         string
	Status     JobStatus
	Phase      string
	SpecName   string
	MatrixName string

	Progress Progress

	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Internal: not serialized.
	input      Input
	resultName string
	result     []byte
}

// Progress counts what the pipeline has produced so far.
type Progress struct {
	Sections     int      `json:"sections"`
	Requirements int      `json:"requirements"`
	Signals      int      `json:"signals"`
	TestCases    int      `json:"test_cases"`
	SkippedPages []int    `json:"skipped_pages"`
	Errors       []string `json:"errors"`
}

// NewJob creates a queued job with a fresh id.
func NewJob(in Input) *Job {
	now := time.Now()
	return &Job{
		ID:         uuid.NewString(),
		Status:     StatusQueued,
		Phase:      "queued",
		SpecName:   in.SpecName,
		MatrixName: in.MatrixName,
		CreatedAt:  now,
		UpdatedAt:  now,
		input:      in,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes finished jobs idle for longer than the TTL and reports how
// many it removed.
func (s *JobStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := job.Status.Terminal() && now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Errors = append(j.Progress.Errors, err)
	j.UpdatedAt = time.Now()
}

// SetExtraction records extraction counts.
func (j *Job) SetExtraction(e *Extraction) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = e.ContentHash
	j.Progress.Sections = len(e.Sections)
	j.Progress.Requirements = len(e.Requirements)
	j.Progress.Signals = len(e.Signals)
	j.Progress.SkippedPages = e.SkippedPages()
	j.UpdatedAt = time.Now()
}

// SetTestCases records the generated case count.
func (j *Job) SetTestCases(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TestCases = n
	j.UpdatedAt = time.Now()
}

// Input returns the uploaded files.
func (j *Job) Input() Input {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.input
}

// SetResult stores the rendered workbook and drops the uploaded files.
func (j *Job) SetResult(name string, data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.resultName = name
	j.result = data
	j.input = Input{SpecName: j.input.SpecName, MatrixName: j.input.MatrixName}
	j.UpdatedAt = time.Now()
}

// Result returns the rendered workbook, if any.
func (j *Job) Result() (name string, data []byte, ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.resultName, j.result, j.result != nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	SpecName    string    `json:"spec_filename"`
	MatrixName  string    `json:"matrix_filename"`
	ContentHash string    `json:"content_hash,omitempty"`
	Progress    Progress  `json:"progress"`
	ResultName  string    `json:"result_filename,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	p := j.Progress
	p.Errors = append([]string{}, j.Progress.Errors...)
	p.SkippedPages = append([]int{}, j.Progress.SkippedPages...)
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		SpecName:    j.SpecName,
		MatrixName:  j.MatrixName,
		ContentHash: j.ContentHash,
		Progress:    p,
		ResultName:  j.resultName,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}
