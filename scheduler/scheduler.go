package scheduler

import (
	"errors"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
)

// jobTag identifies the single recurring sync job. There is never more
// than one; a second create must be rejected, not queued.
const jobTag = "job"

var (
	ErrConflict = errors.New("a job is already scheduled")
	ErrNotFound = errors.New("no job is scheduled")
)

// Status describes the named job for the health and schedule endpoints.
type Status struct {
	NextRun time.Time
	Running bool
}

// Scheduler manages the one named cron job bound to the stock sync.
type Scheduler struct {
	inner *gocron.Scheduler
	task  func()
	loc   *time.Location
}

// New starts a scheduler in the given timezone. task runs on every
// cron fire.
func New(loc *time.Location, task func()) *Scheduler {
	inner := gocron.NewScheduler(loc)
	inner.StartAsync()

	return &Scheduler{inner: inner, task: task, loc: loc}
}

// Exists reports whether the named job is registered.
func (s *Scheduler) Exists() bool {
	jobs, err := s.inner.FindJobsByTag(jobTag)
	return err == nil && len(jobs) > 0
}

// Add registers the job with the given cron expression. Both 5-field
// and 6-field (leading seconds) expressions are accepted.
func (s *Scheduler) Add(expr string) (Status, error) {
	if s.Exists() {
		return Status{}, ErrConflict
	}

	var def *gocron.Scheduler
	if len(strings.Fields(expr)) == 6 {
		def = s.inner.CronWithSeconds(expr)
	} else {
		def = s.inner.Cron(expr)
	}

	job, err := def.Tag(jobTag).Do(s.task)
	if err != nil {
		return Status{}, err
	}

	return Status{NextRun: job.NextRun(), Running: s.inner.IsRunning()}, nil
}

// Get returns the current job status.
func (s *Scheduler) Get() (Status, error) {
	jobs, err := s.inner.FindJobsByTag(jobTag)
	if err != nil || len(jobs) == 0 {
		return Status{}, ErrNotFound
	}

	return Status{NextRun: jobs[0].NextRun(), Running: s.inner.IsRunning()}, nil
}

// Remove unregisters the job. Removing when none exists is NotFound and
// leaves the registry untouched.
func (s *Scheduler) Remove() error {
	if !s.Exists() {
		return ErrNotFound
	}
	return s.inner.RemoveByTag(jobTag)
}

// Location returns the scheduler's timezone, used to render fire times.
func (s *Scheduler) Location() *time.Location {
	return s.loc
}

// Stop halts the underlying scheduler. Used on shutdown and in tests.
func (s *Scheduler) Stop() {
	s.inner.Stop()
}
