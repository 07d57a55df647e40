package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// OverdueNotifier sends the overdue-bill reminder and reports how many bills it covered.
type OverdueNotifier interface {
	SendOverdue(ctx context.Context) (int, error)
}

// Scheduler runs the periodic billing jobs.
type Scheduler struct {
	cron    *cron.Cron
	overdue OverdueNotifier
	timeout time.Duration
}

// New registers the reminder job on spec, a six-field cron expression evaluated in loc.
func New(spec string, loc *time.Location, overdue OverdueNotifier) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		overdue: overdue,
		timeout: 5 * time.Minute,
	}
	if _, err := s.cron.AddFunc(spec, s.SendOverdueReminders); err != nil {
		return nil, err
	}
	return s, nil
}

// SendOverdueReminders is one run of the reminder job.
func (s *Scheduler) SendOverdueReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.overdue.SendOverdue(ctx)
	if err != nil {
		log.Error().Err(err).Msg("overdue reminder job failed")
		return
	}
	log.Info().Int("bills", n).Dur("took", time.Since(start)).Msg("overdue reminder job done")
}

func (s *Scheduler) Start() {
	log.Info().Msg("starting cron scheduler")
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("cron scheduler stopped")
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
