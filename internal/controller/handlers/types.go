package handlers

import (
	"time"

	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/musicmentor/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService         *service.UserService
	bookingService      *service.BookingService
	availabilityService *service.AvailabilityService
	notificationService *service.NotificationService
	stateManager        callbacktypes.StateManager
	location            *time.Location
	logger              *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	bookingService *service.BookingService,
	availabilityService *service.AvailabilityService,
	notificationService *service.NotificationService,
	stateManager callbacktypes.StateManager,
	location *time.Location,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:         userService,
		bookingService:      bookingService,
		availabilityService: availabilityService,
		notificationService: notificationService,
		stateManager:        stateManager,
		location:            location,
		logger:              logger,
	}
}
