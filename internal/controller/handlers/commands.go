package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/common"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/common/formatting"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	user := update.Message.From

	registeredUser, err := h.userService.RegisterUser(
		ctx,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
	)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", user.ID), zap.Error(err))
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Registration failed. Please try again later.", nil)
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Hi, %s!\n\n"+
			"MusicMentor helps you find a music mentor and book a lesson at a time that suits you both.\n\n",
		formatting.Escape(registeredUser.DisplayName()),
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText+common.MainMenuText(registeredUser), nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 <b>Help</b>\n\n" +
		"<b>Students</b>\n" +
		"/mentors - Browse mentors and book a lesson\n" +
		"/mybookings - Your lessons and their status\n" +
		"/inbox - New notifications\n" +
		"/cancel - Abort the current dialog\n\n" +
		"<b>Mentors</b>\n" +
		"/becomementor - Start teaching\n" +
		"/requests - Pending lesson requests\n" +
		"/lessons - Upcoming confirmed lessons\n" +
		"/availability - Weekly availability\n" +
		"/setday monday 09:00-12:00,14:00-18:00 - Open times for a weekday\n" +
		"/setday sunday off - Close a weekday\n" +
		"/blockdate 2026-12-31 - Day off\n" +
		"/unblockdate 2026-12-31 - Undo a day off\n" +
		"/duration 30 - Session length in minutes\n" +
		"/rate 25 - Session rate in dollars"

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	_, hasFlow := h.stateManager.GetData(telegramID, common.FlowKey)

	if h.stateManager.GetState(telegramID) == callbacktypes.StateNone && !hasFlow {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Nothing to cancel.", nil)
		return
	}

	h.stateManager.ClearState(telegramID)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Cancelled.\n\nSee /help for available commands.", nil)
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case callbacktypes.StateNone:
		return
	case callbacktypes.StateBookingMessage, callbacktypes.StateBookingReview:
		h.handleBookingMessage(ctx, b, update)
	case callbacktypes.StateMentorInstrument:
		h.handleMentorInstrument(ctx, b, update)
	case callbacktypes.StateMentorBio:
		h.handleMentorBio(ctx, b, update)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
	}
}
