package delivery

import (
	"context"

	"github.com/sells-group/scout-cli/pkg/resend"
)

// resendSender adapts the Resend client to the Sender interface.
type resendSender struct {
	client *resend.Client
}

// NewResendSender wraps a Resend client as a Sender.
func NewResendSender(client *resend.Client) Sender {
	return &resendSender{client: client}
}

func (s *resendSender) Send(ctx context.Context, email Email) error {
	return s.client.Send(ctx, resend.SendRequest{
		From:           email.From,
		To:             email.To,
		Subject:        email.Subject,
		Text:           email.Text,
		IdempotencyKey: email.IdempotencyKey,
	})
}
