package common

import (
	"errors"

	"github.com/Freeeeeet/musicmentor/internal/availability"
	"github.com/Freeeeeet/musicmentor/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrNotAMentor    = errors.New("user is not a mentor")
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrNoSelection   = errors.New("no booking in progress")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return "❌ " + verr.Error()
	case errors.Is(err, ErrUserNotFound), errors.Is(err, service.ErrUserNotFound):
		return "❌ User not found. Use /start"
	case errors.Is(err, ErrNotAMentor):
		return "❌ This is available to mentors only. See /becomementor"
	case errors.Is(err, ErrNoMessage):
		return "❌ Could not process the message"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Invalid data"
	case errors.Is(err, ErrNoSelection):
		return "⌛ This booking session has expired. Start again from /mentors"
	case errors.Is(err, service.ErrMentorNotFound):
		return "❌ Mentor not found"
	case errors.Is(err, service.ErrBookingNotFound):
		return "❌ Booking not found"
	case errors.Is(err, service.ErrNotBookingOwner):
		return "❌ This request belongs to another mentor"
	case errors.Is(err, service.ErrInvalidTransition):
		return "⚠️ This request has already been handled"
	case errors.Is(err, service.ErrSlotUnavailable), errors.Is(err, availability.ErrSlotTaken):
		return "⚠️ That time was just taken. Please pick another one"
	case errors.Is(err, service.ErrTemplateUnavailable):
		return "😔 No availability could be loaded right now. Try again later"
	case errors.Is(err, availability.ErrUnknownDate), errors.Is(err, availability.ErrSlotNotOnDate):
		return "❌ That option is no longer offered"
	case errors.Is(err, availability.ErrWrongStage), errors.Is(err, availability.ErrSelectionPending):
		return "❌ Please finish the previous step first"
	default:
		return "❌ Something went wrong"
	}
}
