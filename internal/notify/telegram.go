package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/model"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender posts codes to a Telegram chat.
type TelegramSender struct {
	bot    messageSender
	retry  common.RetryOptions
	chatID int64
}

// sendRetry gives up well inside a typical code lifetime.
var sendRetry = common.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: 500 * time.Millisecond,
	MaxDelay:     5 * time.Second,
}

// NewTelegramSender logs in with the bot token.
func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: telegram.token", common.ErrMissingConfig)
	}
	if chatID == 0 {
		return nil, fmt.Errorf("%w: telegram.chat_id", common.ErrMissingConfig)
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	return &TelegramSender{bot: bot, chatID: chatID, retry: sendRetry}, nil
}

// SendCode implements service.CodeSender.
func (s *TelegramSender) SendCode(ctx context.Context, user model.User, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(s.chatID, fmt.Sprintf("Login code for %s: %s", user.Username, code))
	err := common.WithRetry(ctx, func() error {
		_, err := s.bot.Send(msg)
		return classify(err)
	}, s.retry)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// classify marks Telegram API rejections as permanent, except flood
// control, which asks the caller to wait.
func classify(err error) error {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.RetryAfter > 0 {
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	}
	return common.Permanent(err)
}
