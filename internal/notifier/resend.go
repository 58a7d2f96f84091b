package notifier

import (
	"context"
	"fmt"

	"github.com/cryptohub-labs/walletalert/internal/common"
	"github.com/cryptohub-labs/walletalert/internal/logger"
	"github.com/resend/resend-go/v2"
)

// ResendNotifier sends email through the Resend API.
type ResendNotifier struct {
	client *resend.Client
	from   string
	log    *logger.Logger
}

// NewResendNotifier creates a notifier using the given API key and sender,
// e.g. "CryptoHub Alerts <alerts@example.com>".
func NewResendNotifier(apiKey, from string, log *logger.Logger) *ResendNotifier {
	return &ResendNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
		log:    log.WithComponent(common.ComponentNotifier),
	}
}

// Send delivers one email. Errors are returned, never raised, so the
// webhook ingress can continue to the next wallet on failure.
func (n *ResendNotifier) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	n.log.Infow("email sent", "to", to, "subject", subject, "id", sent.Id)
	return nil
}
