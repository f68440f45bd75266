package mailing

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Resend sends emails through the Resend API.
type Resend struct {
	client *resend.Client
	from   string
}

func NewResend(from, apiKey string) *Resend {
	return &Resend{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (r *Resend) Send(ctx context.Context, msg Message) error {
	_, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: r.from,
	})
	if err != nil {
		return fmt.Errorf("resend: failed to send email to %q: %w", msg.To, err)
	}
	return nil
}
