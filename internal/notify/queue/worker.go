package queue

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/domuus/domuus-backend/internal/notify"
	"github.com/domuus/domuus-backend/internal/observability"
)

const dequeueWait = 5 * time.Second

// Worker drains the queue and hands each event to the right notifier:
// user-ref contacts go to the primary channel, anything it cannot handle
// falls through to the fallback.
type Worker struct {
	queue       *Queue
	primary     notify.Notifier
	fallback    notify.Notifier
	limiter     *rate.Limiter
	maxAttempts int
	log         *logrus.Logger
}

func NewWorker(q *Queue, primary, fallback notify.Notifier, ratePerSec float64, maxAttempts int, log *logrus.Logger) *Worker {
	if ratePerSec <= 0 {
		ratePerSec = 5
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Worker{
		queue:       q,
		primary:     primary,
		fallback:    fallback,
		limiter:     rate.NewLimiter(rate.Limit(ratePerSec), 1),
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// Run processes events until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("notification worker started")

	for {
		if err := w.limiter.Wait(ctx); err != nil {
			w.log.Info("notification worker stopped")
			return
		}

		event, err := w.queue.Dequeue(ctx, dequeueWait)
		if err != nil {
			if ctx.Err() != nil {
				w.log.Info("notification worker stopped")
				return
			}
			w.log.WithError(err).Warn("dequeue failed")
			continue
		}
		if event == nil {
			continue
		}

		w.process(ctx, *event)
	}
}

func (w *Worker) process(ctx context.Context, event notify.Event) {
	err := w.primary.Notify(ctx, event)
	if errors.Is(err, notify.ErrUnsupportedContact) {
		err = w.fallback.Notify(ctx, event)
	}
	if err == nil {
		observability.NotificationsDelivered.Inc()
		return
	}

	observability.NotificationsFailed.Inc()
	w.log.WithError(err).WithFields(logrus.Fields{
		"event_id": event.ID,
		"attempts": event.Attempts,
	}).Warn("notification delivery failed")

	// Attempts counts deliveries already tried; this failure was attempt n+1.
	if event.Attempts+1 >= w.maxAttempts {
		observability.NotificationsDead.Inc()
		if berr := w.queue.Bury(ctx, event); berr != nil {
			w.log.WithError(berr).WithField("event_id", event.ID).Error("failed to bury event")
		}
		return
	}

	if rerr := w.queue.Retry(ctx, event); rerr != nil {
		w.log.WithError(rerr).WithField("event_id", event.ID).Error("failed to park event for retry")
	}
}
