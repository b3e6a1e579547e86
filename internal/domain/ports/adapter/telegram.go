// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, telegramID int64, text string) error
	// SendPhoto uploads a PNG (e.g. an LNURL QR code) with an optional caption.
	SendPhoto(ctx context.Context, telegramID int64, filename string, png []byte, caption string) error
}
