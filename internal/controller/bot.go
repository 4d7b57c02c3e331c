package controller

import (
	"context"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks"
	"github.com/Freeeeeet/musicmentor/internal/controller/handlers"
	"github.com/Freeeeeet/musicmentor/internal/controller/state"
	"github.com/Freeeeeet/musicmentor/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// stateSweepInterval как часто удалять забытые диалоги
const stateSweepInterval = 10 * time.Minute

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	stateManager    *state.Manager
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	bookingService *service.BookingService,
	slotService *service.SlotService,
	availabilityService *service.AvailabilityService,
	notificationService *service.NotificationService,
	location *time.Location,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager(state.DefaultIdleTTL)

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		userService,
		bookingService,
		availabilityService,
		notificationService,
		stateManager,
		location,
		logger,
	)

	// Создаём callback handler с зависимостями
	callbackHandler := callbacks.NewHandler(
		userService,
		bookingService,
		slotService,
		availabilityService,
		stateManager,
		location,
		logger,
		cmdHandlers.HandleMentors,
		cmdHandlers.HandleMyBookings,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		stateManager:    stateManager,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mentors", bot.MatchTypeExact, c.handlers.HandleMentors)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/inbox", bot.MatchTypeExact, c.handlers.HandleInbox)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Команды для менторов
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/becomementor", bot.MatchTypeExact, c.handlers.HandleBecomeMentor)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/requests", bot.MatchTypeExact, c.handlers.HandleRequests)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/lessons", bot.MatchTypeExact, c.handlers.HandleLessons)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/availability", bot.MatchTypeExact, c.handlers.HandleAvailability)

	// Команды с аргументами
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/setday", bot.MatchTypePrefix, c.handlers.HandleSetDay)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/blockdate", bot.MatchTypePrefix, c.handlers.HandleBlockDate)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/unblockdate", bot.MatchTypePrefix, c.handlers.HandleUnblockDate)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/duration", bot.MatchTypePrefix, c.handlers.HandleDuration)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/rate", bot.MatchTypePrefix, c.handlers.HandleRate)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Get started"},
		{Command: "mentors", Description: "🎵 Find a mentor"},
		{Command: "mybookings", Description: "📅 My lessons"},
		{Command: "inbox", Description: "🔔 Notifications"},
		{Command: "requests", Description: "📨 Lesson requests (mentor)"},
		{Command: "lessons", Description: "🎼 Upcoming lessons (mentor)"},
		{Command: "availability", Description: "🗓 My availability (mentor)"},
		{Command: "becomementor", Description: "🎓 Become a mentor"},
		{Command: "help", Description: "❓ Help"},
		{Command: "cancel", Description: "❌ Cancel current dialog"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")

	go c.sweepStates(ctx)

	c.bot.Start(ctx)
	return nil
}

func (c *BotController) sweepStates(ctx context.Context) {
	ticker := time.NewTicker(stateSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := c.stateManager.Sweep(); removed > 0 {
				c.logger.Debug("Expired dialog states removed", zap.Int("count", removed))
			}
		}
	}
}
