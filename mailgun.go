package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

type MailgunService struct {
	domain        string               // Mail domain name.
	defaultSender string               // Default sender email address.
	recipients    []string             // Meeting attendees.
	staging       bool                 // Prefixes subjects so test runs are easy to spot.
	mgClient      *mailgun.MailgunImpl // Mailgun API Client
}

func NewMailgunService(domain, apiKey, baseAPIurlOverride string, recipients []string, staging bool) *MailgunService {
	mgClient := mailgun.NewMailgun(domain, apiKey)
	if len(baseAPIurlOverride) > 0 {
		mgClient.SetAPIBase(baseAPIurlOverride)
	}
	return &MailgunService{
		domain:        domain,
		defaultSender: fmt.Sprintf("Operation Spark <meetings@%s>", domain),
		recipients:    recipients,
		staging:       staging,
		mgClient:      mgClient,
	}
}

// Run emails the meeting details to every attendee. Attendee-less meetings send nothing.
func (m *MailgunService) run(ctx context.Context, r Result) error {
	if len(m.recipients) == 0 {
		return nil
	}
	return m.sendInvitation(ctx, r)
}

func (m *MailgunService) name() string {
	return "mailgun service"
}

func (m *MailgunService) sendInvitation(ctx context.Context, r Result) error {
	subject := fmt.Sprintf("Zoom meeting: %s", r.Start.Format("Mon, Jan 2 3:04 PM MST"))
	if m.staging {
		subject = "[staging] " + subject
	}

	body := r.Invitation
	if body == "" {
		body = summary(r)
		if r.Password != "" {
			body += fmt.Sprintf("\nPasscode: %s", r.Password)
		}
	}

	message := m.mgClient.NewMessage(m.defaultSender, subject, body, m.recipients...)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	// Send the message with a 10 second timeout
	_, _, err := m.mgClient.Send(ctxWithTimeout, message)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}
