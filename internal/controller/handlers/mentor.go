package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/common"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/Freeeeeet/musicmentor/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const instrumentKey = "mentor_instrument"

// HandleBecomeMentor обрабатывает команду /becomementor
func (h *Handlers) HandleBecomeMentor(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	if user.IsMentor {
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("🎵 You already teach %s.\n\nSet your times with /availability", formatting.Escape(user.Instrument)), nil)
		return
	}

	h.stateManager.ClearState(user.TelegramID)
	h.stateManager.SetState(user.TelegramID, callbacktypes.StateMentorInstrument)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"🎓 <b>Becoming a mentor</b>\n\nWhich instrument do you teach?\n\n/cancel to stop", nil)
}

// handleMentorInstrument шаг 1: инструмент
func (h *Handlers) handleMentorInstrument(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	instrument := strings.TrimSpace(update.Message.Text)

	if instrument == "" || len(instrument) > 50 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Please enter an instrument name up to 50 characters.", nil)
		return
	}

	h.stateManager.SetData(telegramID, instrumentKey, instrument)
	h.stateManager.SetState(telegramID, callbacktypes.StateMentorBio)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"✍️ Tell students a little about yourself: experience, styles, who you teach.", nil)
}

// handleMentorBio шаг 2: о себе, затем сохранение
func (h *Handlers) handleMentorBio(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	raw, ok := h.stateManager.GetData(telegramID, instrumentKey)
	instrument, _ := raw.(string)
	if !ok || instrument == "" {
		h.stateManager.ClearState(telegramID)
		h.sendMessage(ctx, b, chatID, "❌ Something went wrong. Start again with /becomementor", nil)
		return
	}

	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	mentor, err := h.userService.BecomeMentor(ctx, user.ID, instrument, update.Message.Text)
	if err != nil {
		h.logger.Error("Failed to become mentor", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendMessage(ctx, b, chatID, common.ErrorMessage(err), nil)
		return
	}

	h.stateManager.ClearState(telegramID)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf(
		"🎉 You're a %s mentor now!\n\n"+
			"Next steps:\n"+
			"1. Open times: /setday monday 09:00-12:00\n"+
			"2. Your rate: /rate 25\n"+
			"3. Check the result: /availability",
		formatting.Escape(mentor.Instrument),
	), nil)
}

// HandleRequests обрабатывает команду /requests: ожидающие запросы с кнопками
func (h *Handlers) HandleRequests(ctx context.Context, b *bot.Bot, update *models.Update) {
	mentor, ok := h.requireMentor(ctx, b, update)
	if !ok {
		return
	}

	pending, err := h.bookingService.PendingForMentor(ctx, mentor.ID)
	if err != nil {
		h.logger.Error("Failed to get pending bookings", zap.Int64("mentor_id", mentor.ID), zap.Error(err))
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Could not load requests.", nil)
		return
	}

	if len(pending) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "📭 No pending requests.", nil)
		return
	}

	for _, booking := range pending {
		text := common.BuildBookingCard(booking, service.FormatSchedule(booking, h.location), true)
		h.sendMessage(ctx, b, update.Message.Chat.ID, text, common.BuildRequestKeyboard(booking.ID))
	}
}

// HandleLessons обрабатывает команду /lessons: подтверждённые занятия ментора
func (h *Handlers) HandleLessons(ctx context.Context, b *bot.Bot, update *models.Update) {
	mentor, ok := h.requireMentor(ctx, b, update)
	if !ok {
		return
	}

	lessons, err := h.bookingService.MentorBookings(ctx, mentor.ID, model.BookingStatusConfirmed)
	if err != nil {
		h.logger.Error("Failed to get mentor lessons", zap.Int64("mentor_id", mentor.ID), zap.Error(err))
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Could not load your lessons.", nil)
		return
	}

	if len(lessons) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "📭 No confirmed lessons.\n\nCheck new requests: /requests", nil)
		return
	}

	if len(lessons) > maxListedBookings {
		lessons = lessons[:maxListedBookings]
	}

	for _, lesson := range lessons {
		text := common.BuildBookingCard(lesson, service.FormatSchedule(lesson, h.location), true)
		h.sendMessage(ctx, b, update.Message.Chat.ID, text, common.BuildLessonKeyboard(lesson))
	}
}

// HandleAvailability обрабатывает команду /availability
func (h *Handlers) HandleAvailability(ctx context.Context, b *bot.Bot, update *models.Update) {
	mentor, ok := h.requireMentor(ctx, b, update)
	if !ok {
		return
	}

	tmpl, err := h.availabilityService.Template(ctx, mentor.ID)
	if err != nil {
		h.logger.Error("Failed to get template", zap.Int64("mentor_id", mentor.ID), zap.Error(err))
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Could not load your availability.", nil)
		return
	}

	h.sendTemplate(ctx, b, update.Message.Chat.ID, tmpl)
}

// HandleSetDay обрабатывает команду /setday <weekday> <ranges|off>
func (h *Handlers) HandleSetDay(ctx context.Context, b *bot.Bot, update *models.Update) {
	mentor, ok := h.requireMentor(ctx, b, update)
	if !ok {
		return
	}

	const usage = "Usage: /setday monday 09:00-12:00,14:00-18:00\nor /setday sunday off"

	args := commandArgs(update.Message.Text)
	if len(args) < 2 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, usage, nil)
		return
	}

	weekday, err := parseWeekday(args[0])
	if err != nil {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Unknown weekday.\n\n"+usage, nil)
		return
	}

	ranges, err := parseDayRanges(args[1:])
	if err != nil {
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("❌ %s\n\n%s", formatting.Escape(err.Error()), usage), nil)
		return
	}

	h.applyTemplateChange(ctx, b, update, func() (*model.WeeklyTemplate, error) {
		return h.availabilityService.SetDay(ctx, mentor.ID, weekday, ranges)
	})
}

// HandleBlockDate обрабатывает команду /blockdate YYYY-MM-DD
func (h *Handlers) HandleBlockDate(ctx context.Context, b *bot.Bot, update *models.Update) {
	mentor, ok := h.requireMentor(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Usage: /blockdate 2026-12-31", nil)
		return
	}

	h.applyTemplateChange(ctx, b, update, func() (*model.WeeklyTemplate, error) {
		return h.availabilityService.BlockDate(ctx, mentor.ID, args[0])
	})
}

// HandleUnblockDate обрабатывает команду /unblockdate YYYY-MM-DD
func (h *Handlers) HandleUnblockDate(ctx context.Context, b *bot.Bot, update *models.Update) {
	mentor, ok := h.requireMentor(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Usage: /unblockdate 2026-12-31", nil)
		return
	}

	h.applyTemplateChange(ctx, b, update, func() (*model.WeeklyTemplate, error) {
		return h.availabilityService.UnblockDate(ctx, mentor.ID, args[0])
	})
}

// HandleDuration обрабатывает команду /duration <minutes>
func (h *Handlers) HandleDuration(ctx context.Context, b *bot.Bot, update *models.Update) {
	mentor, ok := h.requireMentor(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Usage: /duration 30", nil)
		return
	}

	minutes, err := strconv.Atoi(args[0])
	if err != nil {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Duration must be a whole number of minutes.", nil)
		return
	}

	h.applyTemplateChange(ctx, b, update, func() (*model.WeeklyTemplate, error) {
		return h.availabilityService.SetSessionDuration(ctx, mentor.ID, minutes)
	})
}

// HandleRate обрабатывает команду /rate <dollars>
func (h *Handlers) HandleRate(ctx context.Context, b *bot.Bot, update *models.Update) {
	mentor, ok := h.requireMentor(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("💰 Current rate: %s\n\nUsage: /rate 25 or /rate 0 for free lessons", formatting.FormatRate(mentor.Rate)), nil)
		return
	}

	cents, err := parseDollars(args[0])
	if err != nil {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Enter an amount like 25 or 25.50", nil)
		return
	}

	updated, err := h.userService.SetRate(ctx, mentor.ID, cents)
	if err != nil {
		if !service.IsValidation(err) {
			h.logger.Error("Failed to set rate", zap.Int64("mentor_id", mentor.ID), zap.Error(err))
		}
		h.sendMessage(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err), nil)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("✅ Rate set to %s per session.\n\nExisting requests keep their original rate.", formatting.FormatRate(updated.Rate)), nil)
}

// applyTemplateChange выполняет изменение шаблона и показывает результат
func (h *Handlers) applyTemplateChange(
	ctx context.Context,
	b *bot.Bot,
	update *models.Update,
	change func() (*model.WeeklyTemplate, error),
) {
	tmpl, err := change()
	if err != nil {
		var verr *service.ValidationError
		if !errors.As(err, &verr) {
			h.logger.Error("Failed to update availability",
				zap.Int64("telegram_id", update.Message.From.ID),
				zap.Error(err))
		}
		h.sendMessage(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err), nil)
		return
	}

	h.sendTemplate(ctx, b, update.Message.Chat.ID, tmpl)
}

func (h *Handlers) sendTemplate(ctx context.Context, b *bot.Bot, chatID int64, tmpl *model.WeeklyTemplate) {
	h.sendMessage(ctx, b, chatID, common.BuildTemplateScreen(tmpl), nil)
}
