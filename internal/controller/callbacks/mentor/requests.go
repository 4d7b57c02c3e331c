package mentor

import (
	"context"

	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/common"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/Freeeeeet/musicmentor/internal/service"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleConfirmBooking ментор подтверждает запрос
func HandleConfirmBooking(hc *common.HandlerContext) {
	decide(hc, "confirm", hc.Handler.BookingService.Confirm)
}

// HandleDeclineBooking ментор отклоняет запрос
func HandleDeclineBooking(hc *common.HandlerContext) {
	decide(hc, "decline", hc.Handler.BookingService.Decline)
}

// HandleCompleteLesson ментор отмечает занятие проведённым
func HandleCompleteLesson(hc *common.HandlerContext) {
	decide(hc, "complete", hc.Handler.BookingService.Complete)
}

func decide(
	hc *common.HandlerContext,
	action string,
	apply func(ctx context.Context, bookingID, mentorID int64) (*model.Booking, error),
) {
	h := hc.Handler

	bookingID, err := common.ParseIDFromCallback(hc.Callback.Data)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	booking, err := apply(hc.Ctx, bookingID, hc.User.ID)
	if err != nil {
		if !service.IsValidation(err) {
			h.Logger.Warn("Booking decision failed",
				zap.String("action", action),
				zap.Int64("booking_id", bookingID),
				zap.Int64("mentor_id", hc.User.ID),
				zap.Error(err))
		}
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}

	text := common.BuildBookingCard(booking, service.FormatSchedule(booking, h.Location), true)
	if booking.Status == model.BookingStatusConfirmed && booking.VideoPreferred && !booking.Video.Ready() {
		text += "\n⚠️ The video room could not be created. Please share a call link with the student."
	}

	var kb *models.InlineKeyboardMarkup
	if booking.Video.Ready() && booking.Status == model.BookingStatusConfirmed {
		kb = keyboard.NewBuilder().Row(keyboard.URLButton("🎥 Open video room", booking.Video.URL)).Build()
	}

	if err := hc.EditMessage(text, kb); err != nil {
		h.Logger.Error("Failed to edit request message", zap.Int64("booking_id", bookingID), zap.Error(err))
	}

	switch booking.Status {
	case model.BookingStatusConfirmed:
		hc.Answer("✅ Confirmed, the student has been notified")
	case model.BookingStatusCompleted:
		hc.Answer("🏁 Lesson marked as completed")
	default:
		hc.Answer("🚫 Declined, the student has been notified")
	}
}
