// internal/infra/telegram/client.go
package telegram

import (
	"context"

	domainTelegram "homework_status_bot/internal/domain/telegram"

	"gopkg.in/telebot.v3"
)

// chatRecipient addresses a chat by numeric id or @username.
type chatRecipient string

func (r chatRecipient) Recipient() string {
	return string(r)
}

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot       *telebot.Bot
	recipient chatRecipient
}

var _ domainTelegram.Client = (*TelebotAdapter)(nil)

func NewTelebotAdapter(b *telebot.Bot, chatID string) *TelebotAdapter {
	return &TelebotAdapter{bot: b, recipient: chatRecipient(chatID)}
}

// SendMessage sends text to the configured chat.
func (tba *TelebotAdapter) SendMessage(ctx context.Context, text string) error {
	if text == "" {
		return tba.deliveryError(domainTelegram.ErrEmptyMessage)
	}
	if err := ctx.Err(); err != nil {
		return tba.deliveryError(err)
	}

	if _, err := tba.bot.Send(tba.recipient, text, &telebot.SendOptions{}); err != nil {
		return tba.deliveryError(err)
	}
	return nil
}

func (tba *TelebotAdapter) deliveryError(err error) error {
	return &domainTelegram.DeliveryError{ChatID: string(tba.recipient), Err: err}
}
