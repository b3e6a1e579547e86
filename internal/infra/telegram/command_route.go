package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-voucher-bot/internal/application"
	"telegram-voucher-bot/internal/infra/logging"
	"telegram-voucher-bot/internal/infra/metrics"
	"telegram-voucher-bot/internal/infra/qr"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start":      r.handleStartCommand,
		"getvoucher": r.handleGetVoucherCommand,
		"info":       r.handleInfoCommand,
		"lucky":      r.handleLuckyCommand,
		"help":       r.handleHelpCommand,

		// These handlers are wrapped in our adminOnly middleware.
		"stats":   r.adminOnly(r.handleStatsCommand),
		"cleanup": r.adminOnly(r.handleCleanupCommand),
		"refill":  r.adminOnly(r.handleRefillCommand),
	}
}

// adminOnly rejects non-admin callers with an explicit denial and leaves
// all state untouched.
func (r *RealTelegramBotAdapter) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if !r.isAdmin(message.From.ID) {
			metrics.IncAdminCommand("/"+message.Command(), "unauthorized")
			return r.SendMessage(ctx, message.Chat.ID, "You are not authorized to use this command.")
		}
		metrics.IncAdminCommand("/"+message.Command(), "authorized")
		return next(ctx, message)
	}
}

// handleStartCommand greets the user. The "claim" deep-link payload
// (t.me/<bot>?start=claim) goes straight into the claim flow.
func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	payload := strings.ToLower(strings.TrimSpace(message.CommandArguments()))
	if payload == "claim" {
		return r.handleGetVoucherCommand(ctx, message)
	}
	return r.SendMessage(ctx, message.Chat.ID, "⚡ Welcome!\nTo claim your sats, use /getvoucher.\nSend /help for all commands.")
}

// handleGetVoucherCommand runs the claim flow and delivers voucher(s) as
// copyable text plus a QR image.
func (r *RealTelegramBotAdapter) handleGetVoucherCommand(ctx context.Context, message *tgbotapi.Message) error {
	reply, deliveries, err := r.facade.HandleGetVoucher(ctx, message.From.ID, message.From.UserName, r.isAdmin(message.From.ID))
	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).Msg("claim failed")
		return r.SendMessage(ctx, message.Chat.ID, "Sorry, something went wrong issuing your voucher. Please try again in a bit.")
	}
	if reply != "" {
		return r.SendMessage(ctx, message.Chat.ID, reply)
	}
	for _, d := range deliveries {
		if err := r.sendVoucher(ctx, message.Chat.ID, message.From.UserName, d); err != nil {
			return err
		}
	}
	return nil
}

// sendVoucher mirrors the claim reply: amount text with the LNURL in a
// <code> block, then the QR image for wallet scanning.
func (r *RealTelegramBotAdapter) sendVoucher(ctx context.Context, chatID int64, username string, d application.VoucherDelivery) error {
	name := username
	if strings.TrimSpace(name) == "" {
		name = "Anonymous"
	}
	bonusNote := ""
	if d.Bonus {
		bonusNote = "\n🍀 LUCKY BONUS! 🍀"
	}
	text := fmt.Sprintf(
		"Hey @%s, here are your %d sats 🎁%s\n\n<code>%s</code>\n\n👉 Press to copy the voucher if needed!",
		name, d.AmountSats, bonusNote, d.LNURL,
	)
	if err := r.sendHTML(ctx, chatID, text); err != nil {
		return err
	}

	png, err := qr.EncodePNG(d.LNURL)
	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).
			Str("lnurl", logging.Redact(d.LNURL, false)).
			Msg("failed to render voucher QR")
		return nil // the text voucher already went out
	}
	return r.SendPhoto(ctx, chatID, "voucher.png", png, "")
}

func (r *RealTelegramBotAdapter) handleInfoCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleInfo(ctx))
}

func (r *RealTelegramBotAdapter) handleLuckyCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleLucky(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to get lucky stats")
		return r.SendMessage(ctx, message.Chat.ID, "Failed to fetch the winner list. Please try again later.")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleStatsCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleStats(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to get stats")
		return r.SendMessage(ctx, message.Chat.ID, "Failed to get stats. Please try again later.")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleCleanupCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleCleanup(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("cleanup failed")
		return r.SendMessage(ctx, message.Chat.ID, "Cleanup failed. Please try again later.")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleRefillCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleRefill(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("refill failed")
		return r.SendMessage(ctx, message.Chat.ID, "Refill failed. Please try again later.")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	help := "Available commands:\n/getvoucher - claim your sats\n/info - bonus odds and amounts\n/lucky - recent bonus winners"
	if r.isAdmin(message.From.ID) {
		help += "\n/stats - pool and claim totals\n/cleanup - drop invalid records\n/refill - mint a fresh batch"
	}
	return r.SendMessage(ctx, message.Chat.ID, help)
}
