// Package scheduler runs the periodic stale-result report.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// StaleCounter counts results that were started before cutoff (unix
// seconds) and never completed.
type StaleCounter interface {
	StaleResults(ctx context.Context, cutoff int64) (int, error)
}

// Scheduler logs, every interval, how many attempts are stuck in the
// started state for longer than staleAfter. Those are submissions that
// failed part way through grading.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	counter    StaleCounter
	every      time.Duration
	staleAfter time.Duration
	now        func() time.Time
}

func New(counter StaleCounter, every, staleAfter time.Duration) *Scheduler {
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.UTC),
		counter:    counter,
		every:      every,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Start schedules the report. A zero interval leaves the scheduler idle.
func (s *Scheduler) Start() error {
	if s.every <= 0 {
		return nil
	}
	if _, err := s.scheduler.Every(s.every).Do(s.run); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	log.Printf("scheduler: stale result report every %s (stale after %s)", s.every, s.staleAfter)
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := s.ReportStale(ctx); err != nil {
		log.Printf("scheduler: stale result report: %v", err)
	}
}

// ReportStale counts stale results and logs the count when non-zero.
func (s *Scheduler) ReportStale(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.staleAfter).Unix()
	n, err := s.counter.StaleResults(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("scheduler: %d result(s) started before %s never completed", n,
			time.Unix(cutoff, 0).UTC().Format(time.RFC3339))
	}
	return n, nil
}
