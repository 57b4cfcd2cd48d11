package mailer

import "context"

// Mailer dispatches transactional e-mail. Implementations must be safe for
// concurrent use.
type Mailer interface {
	SendBirthdayGreeting(ctx context.Context, to, name string) error
}
