package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/common"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/musicmentor/internal/notify"
	"github.com/Freeeeeet/musicmentor/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// maxListedBookings сколько записей показывать в /mybookings
const maxListedBookings = 10

// HandleMentors обрабатывает команду /mentors
func (h *Handlers) HandleMentors(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	mentors, err := h.userService.ListMentors(ctx)
	if err != nil {
		h.logger.Error("Failed to list mentors", zap.Error(err))
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Could not load mentors. Please try again later.", nil)
		return
	}

	text, keyboard := common.BuildMentorsListScreen(mentors)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, keyboard)
}

// HandleMyBookings обрабатывает команду /mybookings
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	bookings, err := h.bookingService.StudentBookings(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to get student bookings", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Could not load your lessons.", nil)
		return
	}

	if len(bookings) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "📭 No lessons yet.\n\nFind a mentor: /mentors", nil)
		return
	}

	if len(bookings) > maxListedBookings {
		bookings = bookings[:maxListedBookings]
	}

	cards := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		cards = append(cards, common.BuildBookingCard(booking, service.FormatSchedule(booking, h.location), false))
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "📅 <b>My lessons</b>\n\n"+strings.Join(cards, "\n"), nil)
}

// HandleInbox обрабатывает команду /inbox: непрочитанные уведомления
func (h *Handlers) HandleInbox(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	unread, err := h.notificationService.ReadInbox(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to read inbox", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Could not load notifications.", nil)
		return
	}

	if len(unread) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "🔔 No new notifications.", nil)
		return
	}

	items := make([]string, 0, len(unread))
	for _, n := range unread {
		items = append(items, fmt.Sprintf("<i>%s</i>\n%s",
			n.CreatedAt.In(h.location).Format("02 Jan 15:04"),
			formatting.Escape(notify.Render(n))))
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "🔔 <b>Notifications</b>\n\n"+strings.Join(items, "\n\n"), nil)
}

// handleBookingMessage сообщение ментору на шаге деталей записи
func (h *Handlers) handleBookingMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	flow, err := common.GetFlow(h.stateManager, telegramID)
	if err != nil {
		h.stateManager.ClearState(telegramID)
		h.sendMessage(ctx, b, chatID, common.ErrorMessage(err), nil)
		return
	}

	message := strings.TrimSpace(update.Message.Text)
	if message == "" {
		h.sendMessage(ctx, b, chatID, "✍️ Please write a few words for the mentor.", nil)
		return
	}

	if err := flow.SetMessage(message); err != nil {
		h.sendMessage(ctx, b, chatID, common.ErrorMessage(err), nil)
		return
	}

	h.stateManager.SetState(telegramID, callbacktypes.StateBookingReview)

	saved, video := flow.Details()
	text, keyboard := common.BuildSummaryScreen(flow.Mentor, flow.When(h.location), saved, video)
	h.sendMessage(ctx, b, chatID, text, keyboard)
}
