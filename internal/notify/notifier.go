package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/domuus/domuus-backend/internal/presence/domain"
)

// ErrUnsupportedContact means this notifier cannot reach the event's contact
// kind; the dispatcher should fall through to another channel.
var ErrUnsupportedContact = errors.New("unsupported contact kind")

// Notifier delivers one event to its contact. Delivery is best-effort and
// must never influence the status change that produced the event.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// DeliveryError wraps a failed delivery with the contact it was aimed at.
type DeliveryError struct {
	Contact domain.Contact
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s contact failed: %v", e.Contact.Kind, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
