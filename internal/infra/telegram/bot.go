package telegram

import (
	"context"
	"net/http"
	"time"

	"homework_status_bot/internal/infra/scheduler"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// BotSettings is the subset of telebot.Settings the bot is configured with.
// URL and Client are only overridden in tests.
type BotSettings struct {
	Token       string
	URL         string
	Offline     bool
	Synchronous bool
	Client      *http.Client
}

func NewBot(s BotSettings, logger *logrus.Entry) (*telebot.Bot, error) {
	pref := telebot.Settings{
		URL:         s.URL,
		Token:       s.Token,
		Offline:     s.Offline,
		Synchronous: s.Synchronous,
		Client:      s.Client,
		Poller:      &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			logCtx := logger.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				logCtx = logCtx.WithFields(logrus.Fields{
					"text":      c.Text(),
					"sender_id": c.Sender().ID,
					"chat_id":   c.Chat().ID,
				})
			}
			logCtx.Error("Telegram handler failed")
		},
	}
	return telebot.NewBot(pref)
}

// ConnectBot builds an online bot, which needs a successful getMe call.
// Failures are logged and retried every retry until ctx is done, in which
// case ctx.Err() is returned.
func ConnectBot(ctx context.Context, s BotSettings, retry time.Duration, logger *logrus.Entry) (*telebot.Bot, error) {
	s.Offline = false
	for attempt := 1; ; attempt++ {
		b, err := NewBot(s, logger)
		if err == nil {
			return b, nil
		}

		logger.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt,
			"retry":   retry.String(),
		}).Warn("Telegram API unavailable, retrying")
		if err := scheduler.Sleep(ctx, retry); err != nil {
			return nil, err
		}
	}
}
