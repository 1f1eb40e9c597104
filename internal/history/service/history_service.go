package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/domuus/domuus-backend/internal/presence/domain"
)

// ChildLister and GuestLister read the presence tree for the projection.
type ChildLister interface {
	List(ctx context.Context, uid string) ([]domain.Child, error)
}

type GuestLister interface {
	List(ctx context.Context, uid, childID string) ([]domain.Guest, error)
}

// TransitionLister reads the append-only audit log.
type TransitionLister interface {
	List(ctx context.Context, uid string, filter domain.TransitionFilter) ([]domain.Transition, error)
}

// Record is one row of the presence overview: the latest known state of one
// guest, denormalised with the child it belongs to.
type Record struct {
	ChildID   string    `json:"childId"`
	ChildName string    `json:"childName"`
	GuestID   string    `json:"guestId"`
	GuestName string    `json:"guestName"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Filter narrows the overview. Both dimensions are optional and combine
// conjunctively: child name matches case-insensitively, day matches the
// calendar day of the record's timestamp.
type Filter struct {
	ChildName string
	Day       time.Time
}

type HistoryService struct {
	children    ChildLister
	guests      GuestLister
	transitions TransitionLister
	timeout     time.Duration
}

func NewHistoryService(children ChildLister, guests GuestLister, transitions TransitionLister, timeout time.Duration) *HistoryService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HistoryService{
		children:    children,
		guests:      guests,
		transitions: transitions,
		timeout:     timeout,
	}
}

// BuildHistory projects the current presence state into a flat list with
// exactly one record per guest, newest first. Guest id breaks ties between
// records stamped in the same instant so the order is stable.
func (s *HistoryService) BuildHistory(ctx context.Context, uid string, filter Filter) ([]Record, error) {
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	children, err := s.children.List(opCtx, uid)
	if err != nil {
		return nil, storeErr(err)
	}

	records := make([]Record, 0, 16)
	for _, child := range children {
		if filter.ChildName != "" && !strings.EqualFold(child.Name, filter.ChildName) {
			continue
		}

		guests, err := s.guests.List(opCtx, uid, child.ID)
		if err != nil {
			return nil, storeErr(err)
		}

		for _, guest := range guests {
			if !filter.Day.IsZero() && !sameDay(guest.Timestamp, filter.Day) {
				continue
			}
			records = append(records, Record{
				ChildID:   child.ID,
				ChildName: child.Name,
				GuestID:   guest.ID,
				GuestName: guest.Name,
				Status:    guest.Status,
				Timestamp: guest.Timestamp,
			})
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.After(records[j].Timestamp)
		}
		return records[i].GuestID < records[j].GuestID
	})

	return records, nil
}

// Transitions returns the audit log of every status change, newest first.
func (s *HistoryService) Transitions(ctx context.Context, uid string, filter Filter) ([]domain.Transition, error) {
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	transitions, err := s.transitions.List(opCtx, uid, domain.TransitionFilter{
		ChildName: filter.ChildName,
		Day:       filter.Day,
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return transitions, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrProviderUnavailable
	}
	return err
}
