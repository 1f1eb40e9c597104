package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuus/domuus-backend/internal/notify"
	"github.com/domuus/domuus-backend/internal/presence/domain"
)

type fakeChildStore struct {
	children map[string]*domain.Child
}

func newFakeChildStore() *fakeChildStore {
	return &fakeChildStore{children: map[string]*domain.Child{}}
}

func (f *fakeChildStore) List(ctx context.Context, uid string) ([]domain.Child, error) {
	out := make([]domain.Child, 0, len(f.children))
	for _, c := range f.children {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeChildStore) Get(ctx context.Context, uid, childID string) (*domain.Child, error) {
	c, ok := f.children[childID]
	if !ok {
		return nil, domain.ErrChildNotFound
	}
	return c, nil
}

func (f *fakeChildStore) Create(ctx context.Context, uid string, child *domain.Child) error {
	child.ID = "child-" + child.Name
	f.children[child.ID] = child
	return nil
}

func (f *fakeChildStore) Delete(ctx context.Context, uid, childID string) error {
	delete(f.children, childID)
	return nil
}

type fakeGuestStore struct {
	guests map[string]*domain.Guest
}

func newFakeGuestStore() *fakeGuestStore {
	return &fakeGuestStore{guests: map[string]*domain.Guest{}}
}

func (f *fakeGuestStore) List(ctx context.Context, uid, childID string) ([]domain.Guest, error) {
	out := make([]domain.Guest, 0, len(f.guests))
	for _, g := range f.guests {
		out = append(out, *g)
	}
	return out, nil
}

func (f *fakeGuestStore) Get(ctx context.Context, uid, childID, guestID string) (*domain.Guest, error) {
	g, ok := f.guests[guestID]
	if !ok {
		return nil, domain.ErrGuestNotFound
	}
	copied := *g
	return &copied, nil
}

func (f *fakeGuestStore) Create(ctx context.Context, uid, childID string, guest *domain.Guest) error {
	guest.ID = "guest-" + guest.Name
	f.guests[guest.ID] = guest
	return nil
}

func (f *fakeGuestStore) UpdateStatus(ctx context.Context, uid, childID, guestID, newStatus string, ts time.Time) error {
	g, ok := f.guests[guestID]
	if !ok {
		return domain.ErrGuestNotFound
	}
	g.Status = newStatus
	g.Timestamp = ts
	return nil
}

type fakeTransitionStore struct {
	appended []domain.Transition
	err      error
}

func (f *fakeTransitionStore) Append(ctx context.Context, t *domain.Transition) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, *t)
	return nil
}

type fakePublisher struct {
	events []notify.Event
	err    error
}

func (f *fakePublisher) Enqueue(ctx context.Context, event notify.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fixture struct {
	children    *fakeChildStore
	guests      *fakeGuestStore
	transitions *fakeTransitionStore
	publisher   *fakePublisher
	svc         *PresenceService
}

func newFixture() *fixture {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	f := &fixture{
		children:    newFakeChildStore(),
		guests:      newFakeGuestStore(),
		transitions: &fakeTransitionStore{},
		publisher:   &fakePublisher{},
	}
	f.svc = NewPresenceService(f.children, f.guests, f.transitions, f.publisher, 0, log)
	return f
}

func (f *fixture) seed(t *testing.T, childName, guestName string) (childID, guestID string) {
	t.Helper()
	child, err := f.svc.AddChild(context.Background(), "uid-1", childName, "")
	require.NoError(t, err)
	guest, err := f.svc.AddGuest(context.Background(), "uid-1", child.ID, guestName,
		domain.Contact{Kind: domain.ContactPhone, Value: "+46701234567"})
	require.NoError(t, err)
	return child.ID, guest.ID
}

func TestAddGuest(t *testing.T) {
	t.Run("new guests start checked out", func(t *testing.T) {
		f := newFixture()
		_, guestID := f.seed(t, "Emma", "Lucas")

		guest, err := f.guests.Get(context.Background(), "uid-1", "", guestID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusOut, guest.Status)
		assert.False(t, guest.Timestamp.IsZero())
	})

	t.Run("rejects a contact with no channel", func(t *testing.T) {
		f := newFixture()
		child, err := f.svc.AddChild(context.Background(), "uid-1", "Emma", "")
		require.NoError(t, err)

		_, err = f.svc.AddGuest(context.Background(), "uid-1", child.ID, "Lucas", domain.Contact{})
		assert.Error(t, err)
	})

	t.Run("rejects unknown child", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.AddGuest(context.Background(), "uid-1", "missing", "Lucas",
			domain.Contact{Kind: domain.ContactPhone, Value: "123"})
		assert.ErrorIs(t, err, domain.ErrChildNotFound)
	})
}

func TestSetStatus(t *testing.T) {
	t.Run("toggles between in and out", func(t *testing.T) {
		f := newFixture()
		childID, guestID := f.seed(t, "Emma", "Lucas")

		guest, err := f.svc.SetStatus(context.Background(), "uid-1", childID, guestID, domain.StatusIn)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusIn, guest.Status)

		guest, err = f.svc.SetStatus(context.Background(), "uid-1", childID, guestID, domain.StatusOut)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusOut, guest.Status)
	})

	t.Run("setting the same status twice is a permitted no-op that re-stamps the timestamp", func(t *testing.T) {
		f := newFixture()
		childID, guestID := f.seed(t, "Emma", "Lucas")

		first, err := f.svc.SetStatus(context.Background(), "uid-1", childID, guestID, domain.StatusIn)
		require.NoError(t, err)

		second, err := f.svc.SetStatus(context.Background(), "uid-1", childID, guestID, domain.StatusIn)
		require.NoError(t, err)

		assert.Equal(t, first.Status, second.Status)
		assert.False(t, second.Timestamp.Before(first.Timestamp))
	})

	t.Run("rejects anything but in or out", func(t *testing.T) {
		f := newFixture()
		childID, guestID := f.seed(t, "Emma", "Lucas")

		_, err := f.svc.SetStatus(context.Background(), "uid-1", childID, guestID, "maybe")
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("appends an audit record carrying both statuses", func(t *testing.T) {
		f := newFixture()
		childID, guestID := f.seed(t, "Emma", "Lucas")

		_, err := f.svc.SetStatus(context.Background(), "uid-1", childID, guestID, domain.StatusIn)
		require.NoError(t, err)

		require.Len(t, f.transitions.appended, 1)
		tr := f.transitions.appended[0]
		assert.Equal(t, domain.StatusOut, tr.FromStatus)
		assert.Equal(t, domain.StatusIn, tr.ToStatus)
		assert.Equal(t, "Emma", tr.ChildName)
		assert.Equal(t, "Lucas", tr.GuestName)
		assert.NotEmpty(t, tr.ID)
	})

	t.Run("queues a notification for the guest contact", func(t *testing.T) {
		f := newFixture()
		childID, guestID := f.seed(t, "Emma", "Lucas")

		_, err := f.svc.SetStatus(context.Background(), "uid-1", childID, guestID, domain.StatusIn)
		require.NoError(t, err)

		require.Len(t, f.publisher.events, 1)
		ev := f.publisher.events[0]
		assert.Equal(t, domain.StatusIn, ev.NewStatus)
		assert.Equal(t, domain.ContactPhone, ev.Contact.Kind)
	})

	t.Run("audit or queue failure never fails the status change", func(t *testing.T) {
		f := newFixture()
		childID, guestID := f.seed(t, "Emma", "Lucas")
		f.transitions.err = errors.New("pg down")
		f.publisher.err = errors.New("redis down")

		guest, err := f.svc.SetStatus(context.Background(), "uid-1", childID, guestID, domain.StatusIn)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusIn, guest.Status)
	})

	t.Run("unknown guest", func(t *testing.T) {
		f := newFixture()
		childID, _ := f.seed(t, "Emma", "Lucas")

		_, err := f.svc.SetStatus(context.Background(), "uid-1", childID, "missing", domain.StatusIn)
		assert.ErrorIs(t, err, domain.ErrGuestNotFound)
	})
}

func TestDeleteChild(t *testing.T) {
	t.Run("removes the child", func(t *testing.T) {
		f := newFixture()
		childID, _ := f.seed(t, "Emma", "Lucas")

		require.NoError(t, f.svc.DeleteChild(context.Background(), "uid-1", childID))

		_, err := f.svc.ListGuests(context.Background(), "uid-1", childID)
		assert.ErrorIs(t, err, domain.ErrChildNotFound)
	})

	t.Run("unknown child", func(t *testing.T) {
		f := newFixture()
		err := f.svc.DeleteChild(context.Background(), "uid-1", "missing")
		assert.ErrorIs(t, err, domain.ErrChildNotFound)
	})
}
