package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/domuus/domuus-backend/internal/notify"
	"github.com/domuus/domuus-backend/internal/observability"
	"github.com/domuus/domuus-backend/internal/presence/domain"
)

// ChildStore is the child document store.
type ChildStore interface {
	List(ctx context.Context, uid string) ([]domain.Child, error)
	Get(ctx context.Context, uid, childID string) (*domain.Child, error)
	Create(ctx context.Context, uid string, child *domain.Child) error
	Delete(ctx context.Context, uid, childID string) error
}

// GuestStore is the guest document store.
type GuestStore interface {
	List(ctx context.Context, uid, childID string) ([]domain.Guest, error)
	Get(ctx context.Context, uid, childID, guestID string) (*domain.Guest, error)
	Create(ctx context.Context, uid, childID string, guest *domain.Guest) error
	UpdateStatus(ctx context.Context, uid, childID, guestID, newStatus string, ts time.Time) error
}

// TransitionStore appends to the audit log.
type TransitionStore interface {
	Append(ctx context.Context, t *domain.Transition) error
}

// NotificationPublisher puts a notification event on the delivery queue.
type NotificationPublisher interface {
	Enqueue(ctx context.Context, event notify.Event) error
}

// PresenceService owns the check-in/check-out state machine: two states
// {in, out}, unconditional bidirectional transitions, no guards. Writing the
// status a guest already has is a no-op transition that still re-stamps the
// timestamp.
type PresenceService struct {
	children    ChildStore
	guests      GuestStore
	transitions TransitionStore
	publisher   NotificationPublisher
	timeout     time.Duration
	log         *logrus.Logger
}

func NewPresenceService(children ChildStore, guests GuestStore, transitions TransitionStore, publisher NotificationPublisher, timeout time.Duration, log *logrus.Logger) *PresenceService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PresenceService{
		children:    children,
		guests:      guests,
		transitions: transitions,
		publisher:   publisher,
		timeout:     timeout,
		log:         log,
	}
}

// ListChildren returns all children owned by the user.
func (s *PresenceService) ListChildren(ctx context.Context, uid string) ([]domain.Child, error) {
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	children, err := s.children.List(opCtx, uid)
	if err != nil {
		return nil, storeErr(err)
	}
	return children, nil
}

// AddChild registers a child under the user.
func (s *PresenceService) AddChild(ctx context.Context, uid, name, birthDate string) (*domain.Child, error) {
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("child name is required")
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	child := &domain.Child{
		Name:      name,
		BirthDate: birthDate,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.children.Create(opCtx, uid, child); err != nil {
		return nil, storeErr(err)
	}
	return child, nil
}

// DeleteChild removes a child and, implicitly, access to its guest subtree.
func (s *PresenceService) DeleteChild(ctx context.Context, uid, childID string) error {
	if uid == "" {
		return domain.ErrNotAuthenticated
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.children.Get(opCtx, uid, childID); err != nil {
		return storeErr(err)
	}
	return storeErr(s.children.Delete(opCtx, uid, childID))
}

// ListGuests returns every guest under the child. A child with no guests
// yields an empty list; a child that is not the caller's yields
// ErrChildNotFound.
func (s *PresenceService) ListGuests(ctx context.Context, uid, childID string) ([]domain.Guest, error) {
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.children.Get(opCtx, uid, childID); err != nil {
		return nil, storeErr(err)
	}

	guests, err := s.guests.List(opCtx, uid, childID)
	if err != nil {
		return nil, storeErr(err)
	}
	return guests, nil
}

// AddGuest registers a guest under the child with initial status "out".
func (s *PresenceService) AddGuest(ctx context.Context, uid, childID, name string, contact domain.Contact) (*domain.Guest, error) {
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("guest name is required")
	}
	if !contact.Valid() {
		return nil, errors.New("contact must carry a phone or user reference")
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.children.Get(opCtx, uid, childID); err != nil {
		return nil, storeErr(err)
	}

	now := time.Now().UTC()
	guest := &domain.Guest{
		Name:      name,
		Contact:   contact,
		Status:    domain.StatusOut,
		Timestamp: now,
		CreatedAt: now,
	}
	if err := s.guests.Create(opCtx, uid, childID, guest); err != nil {
		return nil, storeErr(err)
	}
	return guest, nil
}

// SetStatus moves the guest to the intended status. The write always
// re-stamps the timestamp, so setting the status a guest already has is
// permitted and not an error. A transition record is appended to the audit
// log, and a notification event is queued for the guest's contact; neither
// can fail the status change itself.
func (s *PresenceService) SetStatus(ctx context.Context, uid, childID, guestID, intendedStatus string) (*domain.Guest, error) {
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if !domain.ValidStatus(intendedStatus) {
		return nil, domain.ErrInvalidStatus
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	child, err := s.children.Get(opCtx, uid, childID)
	if err != nil {
		return nil, storeErr(err)
	}

	guest, err := s.guests.Get(opCtx, uid, childID, guestID)
	if err != nil {
		return nil, storeErr(err)
	}

	now := time.Now().UTC()
	if err := s.guests.UpdateStatus(opCtx, uid, childID, guestID, intendedStatus, now); err != nil {
		return nil, storeErr(err)
	}

	fromStatus := guest.Status
	guest.Status = intendedStatus
	guest.Timestamp = now

	observability.TransitionsTotal.WithLabelValues(intendedStatus).Inc()

	// The status change is the primary transaction; a failed audit append
	// degrades history rather than failing check-in at the door.
	transition := &domain.Transition{
		ID:         uuid.New().String(),
		UserID:     uid,
		ChildID:    childID,
		ChildName:  child.Name,
		GuestID:    guest.ID,
		GuestName:  guest.Name,
		FromStatus: fromStatus,
		ToStatus:   intendedStatus,
		OccurredAt: now,
	}
	if err := s.transitions.Append(opCtx, transition); err != nil {
		s.log.WithError(err).WithField("guest_id", guest.ID).
			Warn("failed to append transition record")
	}

	if err := s.publisher.Enqueue(opCtx, notify.Event{
		ID:        uuid.New().String(),
		UserID:    uid,
		GuestID:   guest.ID,
		ChildName: child.Name,
		GuestName: guest.Name,
		NewStatus: intendedStatus,
		Contact:   guest.Contact,
	}); err != nil {
		s.log.WithError(err).WithField("guest_id", guest.ID).
			Warn("failed to enqueue notification event")
	}

	return guest, nil
}

func (s *PresenceService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrProviderUnavailable
	}
	return err
}
