package gateway

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/gosend/internal/domain"
)

// MessageSender delivers a verification message to a phone number. Real SMS
// delivery lives behind this boundary; this repo ships the dry-run sender.
type MessageSender interface {
	Send(ctx context.Context, phone domain.Phone, body string) error
}

// LogSender writes messages to the log instead of sending them. Used in
// development and tests.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a new LogSender.
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message body.
func (s *LogSender) Send(_ context.Context, phone domain.Phone, body string) error {
	s.logger.Info().
		Str("phone", domain.MaskPhone(phone)).
		Str("body", body).
		Msg("dry-run message send")

	return nil
}
