package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes outbound mail to the log instead of a real transport.
// It stands in wherever an SMTP or provider-backed Notifier is not wired;
// the OTP still reaches operators through the log stream in development.
type LogNotifier struct {
	from string
	log  zerolog.Logger
}

// NewLogNotifier returns a LogNotifier sending "from" the given address.
func NewLogNotifier(from string, log zerolog.Logger) *LogNotifier {
	return &LogNotifier{from: from, log: log}
}

// Send logs the message. It never fails.
func (n *LogNotifier) Send(_ context.Context, to, subject, body string) error {
	n.log.Info().
		Str("from", n.from).
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("outbound mail")
	return nil
}
