package cronjob

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Redriver is the piece of the queue the sweep needs.
type Redriver interface {
	Redrive(ctx context.Context) (int, error)
}

type Scheduler struct {
	queue Redriver
	log   *logrus.Logger
	cron  *cron.Cron
}

func NewScheduler(queue Redriver, log *logrus.Logger) *Scheduler {
	return &Scheduler{queue: queue, log: log}
}

// Start schedules the retry sweep: every minute, anything parked on the
// retry list is pushed back onto the delivery queue.
func (s *Scheduler) Start() {
	c := cron.New()

	_, err := c.AddFunc("@every 1m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		moved, err := s.queue.Redrive(ctx)
		if err != nil {
			s.log.WithError(err).Warn("retry sweep failed")
			return
		}
		if moved > 0 {
			s.log.WithField("moved", moved).Info("redrove notification events")
		}
	})
	if err != nil {
		s.log.WithError(err).Error("failed to schedule retry sweep")
		return
	}

	s.cron = c
	c.Start()
	s.log.Info("retry sweep scheduled (every minute)")
}

// Stop halts the scheduler. Safe to call when Start failed.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
