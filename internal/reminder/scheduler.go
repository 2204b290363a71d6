package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the Job on a cron schedule.
type Scheduler struct {
	cron  *cron.Cron
	job   *Job
	entry cron.EntryID
	log   logrus.FieldLogger
}

// NewScheduler registers job at spec (standard five-field cron) in loc.
// Overlapping runs are skipped.
func NewScheduler(job *Job, spec string, loc *time.Location, log logrus.FieldLogger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	log = log.WithField("component", "reminder-scheduler")
	logger := cron.PrintfLogger(log)

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		job: job,
		log: log,
	}

	entry, err := s.cron.AddFunc(spec, s.run)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	s.entry = entry

	return s, nil
}

// Start begins the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	if next := s.NextRun(); next != nil {
		s.log.WithField("next_run", next.Format(time.RFC3339)).Info("Reminder scheduler started")
	}
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Reminder scheduler stopped")
}

// RunNow runs the job immediately, waiting for any scheduled run in progress.
func (s *Scheduler) RunNow(ctx context.Context) (Result, error) {
	return s.job.Run(ctx)
}

// NextRun returns the next scheduled run, or nil before Start.
func (s *Scheduler) NextRun() *time.Time {
	entry := s.cron.Entry(s.entry)
	if entry.Next.IsZero() {
		return nil
	}
	return &entry.Next
}

func (s *Scheduler) run() {
	if _, err := s.job.Run(context.Background()); err != nil {
		s.log.WithError(err).Error("Contract renewal check failed")
	}
}
