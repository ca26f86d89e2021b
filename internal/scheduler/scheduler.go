// Package scheduler runs periodic background jobs such as the soft delete
// purge sweep and the country synchronisation.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Job runs first after InitialDelay and then every Interval.
type Job struct {
	Name         string
	InitialDelay time.Duration
	Interval     time.Duration
	Run          func(ctx context.Context) error
}

type Scheduler struct {
	jobs   []Job
	log    logrus.FieldLogger
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func New(logger logrus.FieldLogger, jobs ...Job) *Scheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scheduler{jobs: jobs, log: logger.WithField("component", "scheduler")}
}

// Start launches every job in its own goroutine. Jobs stop when ctx is done
// or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	for _, job := range s.jobs {
		if job.Run == nil || job.Interval <= 0 {
			s.log.WithField("job", job.Name).Warn("skipping job without run function or interval")
			continue
		}
		s.wg.Add(1)
		go s.loop(ctx, job)
	}
	s.log.WithField("jobs", len(s.jobs)).Info("scheduler started")
}

// Stop cancels all jobs and waits for running ones to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()
	entry := s.log.WithField("job", job.Name)

	delay := time.NewTimer(job.InitialDelay)
	defer delay.Stop()
	select {
	case <-ctx.Done():
		return
	case <-delay.C:
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		s.runOnce(ctx, entry, job)
		select {
		case <-ctx.Done():
			entry.Debug("job stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, entry logrus.FieldLogger, job Job) {
	defer func() {
		if r := recover(); r != nil {
			entry.WithField("panic", r).Error("job panicked")
		}
	}()
	started := time.Now()
	if err := job.Run(ctx); err != nil {
		entry.WithError(err).Error("job failed")
		return
	}
	entry.WithField("took", time.Since(started).String()).Debug("job finished")
}
