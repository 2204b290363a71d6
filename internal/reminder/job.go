// Package reminder creates contract-renewal reminders for units whose
// contract is about to end.
package reminder

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shanteshgogi/Property-Manager/internal/storage"
	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

// Publisher is told about every reminder the job creates.
type Publisher interface {
	BroadcastReminderCreated(r models.Reminder)
}

// Result summarizes one run.
type Result struct {
	Expiring int `json:"expiring"`
	Created  int `json:"created"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Job scans for expiring contracts. A unit gets at most one reminder ever:
// any existing reminder suppresses a new one.
type Job struct {
	store      storage.Store
	pub        Publisher
	windowDays int
	loc        *time.Location
	now        func() time.Time
	log        logrus.FieldLogger

	mu sync.Mutex
}

// NewJob creates a job looking windowDays ahead. pub may be nil.
func NewJob(store storage.Store, pub Publisher, windowDays int, loc *time.Location, log logrus.FieldLogger) *Job {
	if loc == nil {
		loc = time.UTC
	}
	return &Job{
		store:      store,
		pub:        pub,
		windowDays: windowDays,
		loc:        loc,
		now:        time.Now,
		log:        log.WithField("component", "reminder"),
	}
}

// Run performs one scan. Runs never overlap. A failure for one unit is
// logged and counted; only a failed scan aborts the run.
func (j *Job) Run(ctx context.Context) (Result, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var res Result
	now := j.now().In(j.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, j.loc)
	// Contracts ending at any time on the last day of the window count.
	until := today.AddDate(0, 0, j.windowDays+1)

	units, err := j.store.Units().List(ctx, storage.NewQuery().
		NotNull(storage.FieldContractEnd).
		Gte(storage.FieldContractEnd, today).
		Lt(storage.FieldContractEnd, until))
	if err != nil {
		return res, fmt.Errorf("scanning expiring units: %w", err)
	}
	res.Expiring = len(units)

	for _, u := range units {
		end := u.ContractEnd.In(j.loc)
		r := &models.Reminder{
			UnitID:      u.ID,
			Message:     Message(u.Name, DaysUntil(now, end), end),
			ContractEnd: u.ContractEnd,
		}

		created, err := j.store.Reminders().CreateIfAbsent(ctx, r)
		if err != nil {
			res.Failed++
			j.log.WithError(err).WithField("unit_id", u.ID).Error("Failed to create reminder")
			continue
		}
		if !created {
			res.Skipped++
			continue
		}

		res.Created++
		j.log.WithField("unit", u.Name).Info("Created contract reminder")
		if j.pub != nil {
			j.pub.BroadcastReminderCreated(*r)
		}
	}

	j.log.WithFields(logrus.Fields{
		"expiring": res.Expiring,
		"created":  res.Created,
		"failed":   res.Failed,
	}).Info("Contract renewal check complete")

	return res, nil
}

// DaysUntil is the number of started days between now and end.
func DaysUntil(now, end time.Time) int {
	return int(math.Ceil(end.Sub(now).Hours() / 24))
}

// Message formats the reminder text.
func Message(unitName string, days int, end time.Time) string {
	return fmt.Sprintf("Contract for unit %s expires in %d days (%s)", unitName, days, end.Format("2006-01-02"))
}
