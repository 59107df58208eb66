package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/model"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nimal = model.User{Username: "nimal", Mobile: "771234567"}

var fastRetry = common.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, sender.SendCode(context.Background(), nimal, "4821"))
	assert.Contains(t, buf.String(), "Your OTP is: 4821")
	assert.Contains(t, buf.String(), "username=nimal")
}

type fakeBot struct {
	err      error
	failures int
	calls    int
	sent     []tgbotapi.MessageConfig
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.calls++
	if f.err != nil && (f.failures == 0 || f.calls <= f.failures) {
		return tgbotapi.Message{}, f.err
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func TestTelegramSender(t *testing.T) {
	t.Run("sends to configured chat", func(t *testing.T) {
		bot := &fakeBot{}
		sender := &TelegramSender{bot: bot, chatID: 1234, retry: fastRetry}

		require.NoError(t, sender.SendCode(context.Background(), nimal, "4821"))
		require.Len(t, bot.sent, 1)
		assert.Equal(t, int64(1234), bot.sent[0].ChatID)
		assert.Equal(t, "Login code for nimal: 4821", bot.sent[0].Text)
	})

	t.Run("retries network errors", func(t *testing.T) {
		bot := &fakeBot{err: errors.New("connection reset"), failures: 1}
		sender := &TelegramSender{bot: bot, chatID: 1, retry: fastRetry}

		require.NoError(t, sender.SendCode(context.Background(), nimal, "4821"))
		assert.Equal(t, 2, bot.calls)
		assert.Len(t, bot.sent, 1)
	})

	t.Run("wraps send errors", func(t *testing.T) {
		bot := &fakeBot{err: errors.New("blocked")}
		sender := &TelegramSender{bot: bot, chatID: 1, retry: fastRetry}
		err := sender.SendCode(context.Background(), nimal, "4821")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blocked")
		assert.ErrorIs(t, err, common.ErrMaxRetries)
		assert.Equal(t, 3, bot.calls)
	})

	t.Run("does not retry api rejections", func(t *testing.T) {
		bot := &fakeBot{err: &tgbotapi.Error{Code: 400, Message: "chat not found"}}
		sender := &TelegramSender{bot: bot, chatID: 1, retry: fastRetry}
		err := sender.SendCode(context.Background(), nimal, "4821")
		require.Error(t, err)
		assert.Equal(t, 1, bot.calls)
	})

	t.Run("waits out flood control", func(t *testing.T) {
		flood := &tgbotapi.Error{Code: 429, Message: "Too Many Requests"}
		flood.RetryAfter = 1
		bot := &fakeBot{err: flood, failures: 1}
		sender := &TelegramSender{bot: bot, chatID: 1, retry: fastRetry}
		require.NoError(t, sender.SendCode(context.Background(), nimal, "4821"))
		assert.Equal(t, 2, bot.calls)
	})

	t.Run("honors canceled context", func(t *testing.T) {
		bot := &fakeBot{}
		sender := &TelegramSender{bot: bot, chatID: 1}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.ErrorIs(t, sender.SendCode(ctx, nimal, "4821"), context.Canceled)
		assert.Empty(t, bot.sent)
	})

	t.Run("requires configuration", func(t *testing.T) {
		_, err := NewTelegramSender("", 1)
		require.ErrorIs(t, err, common.ErrMissingConfig)
		_, err = NewTelegramSender("token", 0)
		require.ErrorIs(t, err, common.ErrMissingConfig)
	})
}
