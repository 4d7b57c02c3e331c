package handlers

import (
	"context"

	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireUser возвращает зарегистрированного автора сообщения.
// При отказе пользователь уже получил объяснение.
func (h *Handlers) requireUser(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	return h.requireRole(ctx, b, update, false)
}

// requireMentor как requireUser, но только для менторов
func (h *Handlers) requireMentor(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	return h.requireRole(ctx, b, update, true)
}

func (h *Handlers) requireRole(ctx context.Context, b *bot.Bot, update *models.Update, mentorOnly bool) (*model.User, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}
	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	user, err := h.userService.GetByTelegramID(ctx, telegramID)
	switch {
	case err != nil:
		h.logger.Error("Failed to get user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendMessage(ctx, b, chatID, "❌ Something went wrong. Please try again later.", nil)
		return nil, false
	case user == nil:
		h.sendMessage(ctx, b, chatID, "❌ User not found. Use /start to register.", nil)
		return nil, false
	case mentorOnly && !user.IsMentor:
		h.sendMessage(ctx, b, chatID, "❌ This command is for mentors only.\n\nBecome one: /becomementor", nil)
		return nil, false
	}

	return user, true
}

// sendMessage отправляет HTML-сообщение без превью ссылок, ошибки только логируются
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:             chatID,
		Text:               text,
		ParseMode:          models.ParseModeHTML,
		LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: bot.True()},
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
