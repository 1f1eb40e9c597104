package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogNotifier writes the notification to the log instead of a real channel.
// It stands in for the SMS integration on phone contacts.
// TODO: wire an SMS provider for phone contacts.
type LogNotifier struct {
	log *logrus.Logger
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, event Event) error {
	n.log.WithFields(logrus.Fields{
		"event_id": event.ID,
		"contact":  string(event.Contact.Kind) + ":" + event.Contact.Value,
		"guest":    event.GuestName,
		"child":    event.ChildName,
		"status":   event.NewStatus,
	}).Info(event.Message())
	return nil
}
