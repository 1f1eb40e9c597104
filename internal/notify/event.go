package notify

import (
	"fmt"
	"time"

	"github.com/domuus/domuus-backend/internal/presence/domain"
)

// Event is one queued notification: a guest's presence changed and the
// registered contact should hear about it.
type Event struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	GuestID    string         `json:"guest_id"`
	ChildName  string         `json:"child_name"`
	GuestName  string         `json:"guest_name"`
	NewStatus  string         `json:"new_status"`
	Contact    domain.Contact `json:"contact"`
	Attempts   int            `json:"attempts"`
	EnqueuedAt time.Time      `json:"enqueued_at"`
}

// Message renders the human-readable notification text.
func (e Event) Message() string {
	return fmt.Sprintf("%s is checked %s (child: %s)", e.GuestName, e.NewStatus, e.ChildName)
}
