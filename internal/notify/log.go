// Package notify delivers one-time login codes.
package notify

import (
	"context"
	"log/slog"

	"github.com/Veraticus/creditbook/internal/model"
)

// LogSender writes codes to the log. It stands in for a real delivery
// channel on a single-user machine.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a sender writing to logger, or slog.Default when nil.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// SendCode implements service.CodeSender.
func (s *LogSender) SendCode(ctx context.Context, user model.User, code string) error {
	s.logger.InfoContext(ctx, "Your OTP is: "+code, "username", user.Username, "mobile", user.Mobile)
	return nil
}
