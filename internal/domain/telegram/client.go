package telegram

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyMessage is wrapped in a DeliveryError when there is nothing to send.
var ErrEmptyMessage = errors.New("message text is empty")

// Client sends a text message to the chat configured at startup.
// This keeps the poll loop independent of the bot library.
type Client interface {
	SendMessage(ctx context.Context, text string) error
}

// DeliveryError is returned when a message could not be handed to the chat.
type DeliveryError struct {
	ChatID string
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver message to chat %s: %v", e.ChatID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
