package notifier

import "context"

// Notifier delivers a formatted alert message to an email address.
// Implementations report failures as errors and never panic, so callers
// looping over multiple recipients can log and continue.
type Notifier interface {
	Send(ctx context.Context, to, subject, html string) error
}
