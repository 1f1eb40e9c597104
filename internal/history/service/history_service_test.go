package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuus/domuus-backend/internal/presence/domain"
)

type fakeChildren struct {
	children []domain.Child
}

func (f *fakeChildren) List(ctx context.Context, uid string) ([]domain.Child, error) {
	return f.children, nil
}

type fakeGuests struct {
	byChild map[string][]domain.Guest
}

func (f *fakeGuests) List(ctx context.Context, uid, childID string) ([]domain.Guest, error) {
	return f.byChild[childID], nil
}

type fakeTransitions struct {
	entries []domain.Transition
	filter  domain.TransitionFilter
}

func (f *fakeTransitions) List(ctx context.Context, uid string, filter domain.TransitionFilter) ([]domain.Transition, error) {
	f.filter = filter
	return f.entries, nil
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func stamp(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func newFixture(t *testing.T) (*HistoryService, *fakeTransitions) {
	t.Helper()

	children := &fakeChildren{children: []domain.Child{
		{ID: "c1", Name: "Emma"},
		{ID: "c2", Name: "Noah"},
	}}
	guests := &fakeGuests{byChild: map[string][]domain.Guest{
		"c1": {
			{ID: "g1", Name: "Lucas", Status: domain.StatusIn, Timestamp: stamp(t, "2026-08-29T10:00:00Z")},
			{ID: "g2", Name: "Maja", Status: domain.StatusOut, Timestamp: stamp(t, "2026-08-29T12:00:00Z")},
		},
		"c2": {
			{ID: "g3", Name: "Elsa", Status: domain.StatusIn, Timestamp: stamp(t, "2026-08-28T09:00:00Z")},
			{ID: "g4", Name: "Olle", Status: domain.StatusOut, Timestamp: stamp(t, "2026-08-29T12:00:00Z")},
		},
	}}
	transitions := &fakeTransitions{}
	return NewHistoryService(children, guests, transitions, 0), transitions
}

func TestBuildHistory(t *testing.T) {
	t.Run("one record per guest, newest first, guest id breaks ties", func(t *testing.T) {
		svc, _ := newFixture(t)

		records, err := svc.BuildHistory(context.Background(), "uid-1", Filter{})
		require.NoError(t, err)
		require.Len(t, records, 4)

		// g2 and g4 share a timestamp; g2 sorts first by id.
		assert.Equal(t, "g2", records[0].GuestID)
		assert.Equal(t, "g4", records[1].GuestID)
		assert.Equal(t, "g1", records[2].GuestID)
		assert.Equal(t, "g3", records[3].GuestID)

		seen := map[string]int{}
		for _, r := range records {
			seen[r.GuestID]++
		}
		for id, n := range seen {
			assert.Equal(t, 1, n, "guest %s appears more than once", id)
		}
	})

	t.Run("child filter matches case-insensitively", func(t *testing.T) {
		svc, _ := newFixture(t)

		records, err := svc.BuildHistory(context.Background(), "uid-1", Filter{ChildName: "emma"})
		require.NoError(t, err)
		require.Len(t, records, 2)
		for _, r := range records {
			assert.Equal(t, "Emma", r.ChildName)
		}
	})

	t.Run("date filter keeps records from that calendar day", func(t *testing.T) {
		svc, _ := newFixture(t)

		records, err := svc.BuildHistory(context.Background(), "uid-1", Filter{Day: day(t, "2026-08-28")})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "g3", records[0].GuestID)
	})

	t.Run("filters combine conjunctively", func(t *testing.T) {
		svc, _ := newFixture(t)

		records, err := svc.BuildHistory(context.Background(), "uid-1",
			Filter{ChildName: "Noah", Day: day(t, "2026-08-29")})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "g4", records[0].GuestID)
	})

	t.Run("no matches yields an empty list, not an error", func(t *testing.T) {
		svc, _ := newFixture(t)

		records, err := svc.BuildHistory(context.Background(), "uid-1", Filter{ChildName: "Vera"})
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("requires an authenticated caller", func(t *testing.T) {
		svc, _ := newFixture(t)

		_, err := svc.BuildHistory(context.Background(), "", Filter{})
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})
}

func TestTransitions(t *testing.T) {
	t.Run("passes the filter through to the log", func(t *testing.T) {
		svc, transitions := newFixture(t)
		transitions.entries = []domain.Transition{{ID: "t1", ToStatus: domain.StatusIn}}

		out, err := svc.Transitions(context.Background(), "uid-1",
			Filter{ChildName: "Emma", Day: day(t, "2026-08-29")})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "Emma", transitions.filter.ChildName)
		assert.False(t, transitions.filter.Day.IsZero())
	})
}
