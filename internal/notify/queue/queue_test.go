package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuus/domuus-backend/internal/notify"
	"github.com/domuus/domuus-backend/internal/presence/domain"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return New(client)
}

func testEvent(id string) notify.Event {
	return notify.Event{
		ID:        id,
		UserID:    "uid-1",
		GuestID:   "guest-1",
		ChildName: "Emma",
		GuestName: "Lucas",
		NewStatus: domain.StatusIn,
		Contact:   domain.Contact{Kind: domain.ContactPhone, Value: "+46701234567"},
	}
}

func TestQueueRoundTrip(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, testEvent("ev-1")))

	got, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ev-1", got.ID)
	assert.Equal(t, "Lucas", got.GuestName)
	assert.False(t, got.EnqueuedAt.IsZero())
}

func TestQueueOrderIsFIFO(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, testEvent("ev-1")))
	require.NoError(t, q.Enqueue(ctx, testEvent("ev-2")))

	first, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	second, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)

	assert.Equal(t, "ev-1", first.ID)
	assert.Equal(t, "ev-2", second.ID)
}

func TestRetryIncrementsAttempts(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	event := testEvent("ev-1")
	require.NoError(t, q.Retry(ctx, event))

	moved, err := q.Redrive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	got, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Attempts)
}

func TestRedriveEmptyRetryList(t *testing.T) {
	q := newTestQueue(t)

	moved, err := q.Redrive(context.Background())
	require.NoError(t, err)
	assert.Zero(t, moved)
}

func TestDepths(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, testEvent("ev-1")))
	require.NoError(t, q.Retry(ctx, testEvent("ev-2")))
	require.NoError(t, q.Bury(ctx, testEvent("ev-3")))

	pending, retry, dead, err := q.Depths(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
	assert.Equal(t, int64(1), retry)
	assert.Equal(t, int64(1), dead)
}
