package ports

import "context"

// Notifier delivers a message to a user's email address.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EmailJob is a queued outbound email.
type EmailJob struct {
	To      string
	Subject string
	Body    string
}

// MailEnqueuer hands an email to a background dispatcher. Enqueue must never
// block and must never fail the caller: delivery is fire-and-forget.
type MailEnqueuer interface {
	Enqueue(job EmailJob)
}
