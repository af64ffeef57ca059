// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"homework_status_bot/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// StatusReporter exposes the current state of the poll loop.
type StatusReporter interface {
	Snapshot() app.Snapshot
}

// RegisterBotCommands answers /start and /status in the configured chat only.
// Messages from any other chat are logged and ignored.
func RegisterBotCommands(
	b *telebot.Bot,
	chatID string,
	reporter StatusReporter,
	baseLogger *logrus.Entry,
) {
	commandsLogger := baseLogger.WithField("handler_group", "commands")
	onlyChat := configuredChatOnly(chatID, commandsLogger)

	b.Handle("/start", func(c telebot.Context) error {
		commandsLogger.WithField("command", "/start").WithField("chat_id", c.Chat().ID).Info("Processing /start command")
		return c.Send("Hi! I watch the review status of your homework and report every change here. Use /status to see what I am doing.")
	}, onlyChat)

	b.Handle("/status", func(c telebot.Context) error {
		commandsLogger.WithField("command", "/status").WithField("chat_id", c.Chat().ID).Info("Processing /status command")
		return c.Send(formatSnapshot(reporter.Snapshot()))
	}, onlyChat)
}

func configuredChatOnly(chatID string, logger *logrus.Entry) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if !isConfiguredChat(c.Chat(), chatID) {
				logCtx := logger.WithField("text", c.Text())
				if chat := c.Chat(); chat != nil {
					logCtx = logCtx.WithField("chat_id", chat.ID)
				}
				logCtx.Warn("Ignoring command from an unknown chat")
				return nil
			}
			return next(c)
		}
	}
}

func isConfiguredChat(chat *telebot.Chat, chatID string) bool {
	if chat == nil {
		return false
	}
	if strings.HasPrefix(chatID, "@") {
		return chat.Username != "" && strings.EqualFold("@"+chat.Username, chatID)
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	return err == nil && chat.ID == id
}

func formatSnapshot(s app.Snapshot) string {
	var b strings.Builder

	state := string(s.State)
	if state == "" {
		state = "STARTING"
	}
	fmt.Fprintf(&b, "State: %s\n", state)
	fmt.Fprintf(&b, "Checked up to: %s\n", time.Unix(s.Cursor, 0).UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Cycles: %d, notifications sent: %d", s.Cycles, s.Notifications)

	if s.LastVerdict != "" {
		fmt.Fprintf(&b, "\nLast verdict: %s", s.LastVerdict)
	}
	if s.LastError != "" {
		fmt.Fprintf(&b, "\nLast error (%d in a row): %s", s.ConsecutiveFailures, s.LastError)
	}
	return b.String()
}
