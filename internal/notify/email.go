package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/sirupsen/logrus"

	"github.com/domuus/domuus-backend/internal/presence/domain"
)

// EmailDirectory resolves a parent user id to an email address.
type EmailDirectory interface {
	EmailForUser(ctx context.Context, userID string) (string, error)
}

// EmailNotifier delivers events for user-ref contacts by email via Amazon
// SES. When no from-address is configured the notifier is created disabled
// and reports every delivery as successful without sending anything.
type EmailNotifier struct {
	client    *sesv2.Client
	directory EmailDirectory
	fromEmail string
	fromName  string
	enabled   bool
	log       *logrus.Logger
}

func NewEmailNotifier(ctx context.Context, awsRegion, fromEmail, fromName string, directory EmailDirectory, log *logrus.Logger) (*EmailNotifier, error) {
	if fromEmail == "" {
		log.Info("email notifier disabled: NOTIFY_FROM_EMAIL not configured")
		return &EmailNotifier{enabled: false, log: log}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.WithFields(logrus.Fields{"from": fromEmail, "region": awsRegion}).
		Info("email notifier enabled")

	return &EmailNotifier{
		client:    sesv2.NewFromConfig(cfg),
		directory: directory,
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		log:       log,
	}, nil
}

// Notify sends the event message to the parent's email address. Phone
// contacts are not this notifier's job.
func (n *EmailNotifier) Notify(ctx context.Context, event Event) error {
	if event.Contact.Kind != domain.ContactUser {
		return ErrUnsupportedContact
	}

	if !n.enabled {
		n.log.WithField("event_id", event.ID).
			Info("skipping email send (notifier disabled)")
		return nil
	}

	toEmail, err := n.directory.EmailForUser(ctx, event.Contact.Value)
	if err != nil {
		return &DeliveryError{Contact: event.Contact, Err: fmt.Errorf("resolve contact email: %w", err)}
	}

	subject := fmt.Sprintf("Domuus: %s checked %s", event.GuestName, event.NewStatus)
	body := event.Message()

	_, err = n.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", n.fromName, n.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return &DeliveryError{Contact: event.Contact, Err: err}
	}

	n.log.WithFields(logrus.Fields{"event_id": event.ID, "to": toEmail}).
		Info("notification email sent")
	return nil
}
