package cmd

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
)

// scheduler runs one job on a cron schedule that can be swapped at runtime.
type scheduler struct {
	cron *cron.Cron
	job  func()

	mu    sync.Mutex
	entry cron.EntryID
	spec  string
}

func newScheduler(job func()) *scheduler {
	return &scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		job:  job,
	}
}

// Reschedule replaces the current schedule with spec. An invalid spec keeps
// the previous schedule.
func (s *scheduler) Reschedule(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if spec == s.spec && s.entry != 0 {
		return nil
	}

	id, err := s.cron.AddFunc(spec, s.job)
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	if s.entry != 0 {
		s.cron.Remove(s.entry)
	}
	s.entry = id
	s.spec = spec
	return nil
}

// Spec returns the active schedule.
func (s *scheduler) Spec() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

func (s *scheduler) Start() {
	s.cron.Start()
}

// Stop stops the schedule and waits for a running job.
func (s *scheduler) Stop() {
	<-s.cron.Stop().Done()
}
