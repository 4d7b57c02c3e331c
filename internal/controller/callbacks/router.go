package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/common"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/mentor"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/student"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	// ===== Common Navigation =====
	case data == callbacktypes.BackToMain:
		common.WithUser(ctx, b, callback, h, common.HandleBackToMain)
	case data == callbacktypes.ShowMentors:
		common.WithUser(ctx, b, callback, h, common.HandleShowMentors)
	case data == callbacktypes.MyBookings:
		common.WithUser(ctx, b, callback, h, common.HandleShowMyBookings)
	case data == callbacktypes.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Student: Booking =====
	case strings.HasPrefix(data, callbacktypes.BookMentor):
		common.WithUser(ctx, b, callback, h, student.HandleBookMentor)
	case strings.HasPrefix(data, callbacktypes.PickDate):
		common.WithUser(ctx, b, callback, h, student.HandlePickDate)
	case strings.HasPrefix(data, callbacktypes.PickTime):
		common.WithUser(ctx, b, callback, h, student.HandlePickTime)
	case strings.HasPrefix(data, callbacktypes.PickPref):
		common.WithUser(ctx, b, callback, h, student.HandlePickPreference)
	case data == callbacktypes.ToggleVideo:
		common.WithUser(ctx, b, callback, h, student.HandleToggleVideo)
	case data == callbacktypes.SubmitBooking:
		common.WithUser(ctx, b, callback, h, student.HandleSubmitBooking)
	case data == callbacktypes.SelectionBack:
		common.WithUser(ctx, b, callback, h, student.HandleSelectionBack)
	case data == callbacktypes.CancelBooking:
		common.WithUser(ctx, b, callback, h, student.HandleCancelBooking)

	// ===== Mentor: Requests =====
	case strings.HasPrefix(data, callbacktypes.ConfirmBooking):
		common.WithMentor(ctx, b, callback, h, mentor.HandleConfirmBooking)
	case strings.HasPrefix(data, callbacktypes.DeclineBooking):
		common.WithMentor(ctx, b, callback, h, mentor.HandleDeclineBooking)
	case strings.HasPrefix(data, callbacktypes.CompleteLesson):
		common.WithMentor(ctx, b, callback, h, mentor.HandleCompleteLesson)

	// ===== Unknown Callback =====
	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Unknown action")
	}
}
