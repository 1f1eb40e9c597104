// Package queue is the Redis-backed delivery queue for notification events.
// Delivery is at-least-once: a failed event lands on a retry list that a
// periodic sweep pushes back onto the main queue, until the attempt budget
// is spent and the event is parked on the dead list.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/domuus/domuus-backend/internal/notify"
)

const (
	queueKey = "notify:queue" // pending events
	retryKey = "notify:retry" // failed events awaiting redrive
	deadKey  = "notify:dead"  // events that exhausted their attempts
)

type Queue struct {
	client *redis.Client
}

func New(client *redis.Client) *Queue {
	return &Queue{client: client}
}

// Enqueue pushes a fresh event onto the pending list.
func (q *Queue) Enqueue(ctx context.Context, event notify.Event) error {
	if event.EnqueuedAt.IsZero() {
		event.EnqueuedAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := q.client.LPush(ctx, queueKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue event: %w", err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next pending event. Returns nil when
// the wait times out with nothing to do.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*notify.Event, error) {
	res, err := q.client.BRPop(ctx, timeout, queueKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue event: %w", err)
	}

	// BRPop returns [key, value]
	var event notify.Event
	if err := json.Unmarshal([]byte(res[1]), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return &event, nil
}

// Retry records a failed attempt and parks the event on the retry list.
func (q *Queue) Retry(ctx context.Context, event notify.Event) error {
	event.Attempts++

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := q.client.LPush(ctx, retryKey, data).Err(); err != nil {
		return fmt.Errorf("failed to park event for retry: %w", err)
	}
	return nil
}

// Bury moves an event to the dead list once its attempts are spent.
func (q *Queue) Bury(ctx context.Context, event notify.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := q.client.LPush(ctx, deadKey, data).Err(); err != nil {
		return fmt.Errorf("failed to bury event: %w", err)
	}
	return nil
}

// Redrive moves everything on the retry list back onto the pending list and
// returns how many events were moved.
func (q *Queue) Redrive(ctx context.Context) (int, error) {
	moved := 0
	for {
		err := q.client.RPopLPush(ctx, retryKey, queueKey).Err()
		if err == redis.Nil {
			return moved, nil
		}
		if err != nil {
			return moved, fmt.Errorf("failed to redrive events: %w", err)
		}
		moved++
	}
}

// Depths reports the pending/retry/dead list lengths, for health reporting.
func (q *Queue) Depths(ctx context.Context) (pending, retry, dead int64, err error) {
	pipe := q.client.Pipeline()
	pendingCmd := pipe.LLen(ctx, queueKey)
	retryCmd := pipe.LLen(ctx, retryKey)
	deadCmd := pipe.LLen(ctx, deadKey)
	if _, err = pipe.Exec(ctx); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to read queue depths: %w", err)
	}
	return pendingCmd.Val(), retryCmd.Val(), deadCmd.Val(), nil
}
