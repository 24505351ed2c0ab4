// Package scheduler wraps cron for daemon mode, where the batch run
// repeats on a schedule instead of executing once and exiting.
package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the recurring batch job.
type Scheduler struct {
	Cron *cron.Cron
}

// NewScheduler creates a Scheduler (cron specs include a seconds field).
func NewScheduler() *Scheduler {
	return &Scheduler{Cron: cron.New(cron.WithSeconds())}
}

// Register adds the batch job under the given cron spec. The job is
// wrapped so a tick that fires while a previous run is still going is
// skipped; history.csv assumes a single writer. The wrapped job is
// returned so out-of-schedule invocations share the same guard.
func (s *Scheduler) Register(spec string, job func()) (cron.Job, error) {
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(cron.FuncJob(job))
	if _, err := s.Cron.AddJob(spec, wrapped); err != nil {
		return nil, fmt.Errorf("register batch job: %w", err)
	}
	return wrapped, nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}
