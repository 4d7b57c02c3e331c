package callbacktypes

import (
	"context"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Запись студента
	StateBookingMessage UserState = "booking_message" // ждём сообщение ментору
	StateBookingReview  UserState = "booking_review"  // итог показан, ждём отправки

	// Оформление ментора
	StateMentorInstrument UserState = "mentor_instrument"
	StateMentorBio        UserState = "mentor_bio"
)

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	ClearState(telegramID int64)
	GetState(telegramID int64) UserState
	SetState(telegramID int64, state UserState)
	SetData(telegramID int64, key string, value interface{})
	GetData(telegramID int64, key string) (interface{}, bool)
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	UserService         *service.UserService
	BookingService      *service.BookingService
	SlotService         *service.SlotService
	AvailabilityService *service.AvailabilityService
	StateManager        StateManager
	Location            *time.Location
	Logger              *zap.Logger

	// Функции-хэндлеры из основного контроллера
	HandleMentors    func(ctx context.Context, b *bot.Bot, update *models.Update)
	HandleMyBookings func(ctx context.Context, b *bot.Bot, update *models.Update)
}
