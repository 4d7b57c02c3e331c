package callbacks

import (
	"context"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/musicmentor/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обертка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	userService *service.UserService,
	bookingService *service.BookingService,
	slotService *service.SlotService,
	availabilityService *service.AvailabilityService,
	stateManager callbacktypes.StateManager,
	location *time.Location,
	logger *zap.Logger,
	handleMentors func(ctx context.Context, b *bot.Bot, update *models.Update),
	handleMyBookings func(ctx context.Context, b *bot.Bot, update *models.Update),
) *Handler {
	inner := &callbacktypes.Handler{
		UserService:         userService,
		BookingService:      bookingService,
		SlotService:         slotService,
		AvailabilityService: availabilityService,
		StateManager:        stateManager,
		Location:            location,
		Logger:              logger,
		HandleMentors:       handleMentors,
		HandleMyBookings:    handleMyBookings,
	}
	return &Handler{Handler: inner}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery

	h.Logger.Debug("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	Route(ctx, b, callback, h.Handler)
}
