package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/musicmentor/internal/app"
	"github.com/Freeeeeet/musicmentor/internal/availability"
	"github.com/Freeeeeet/musicmentor/internal/config"
	"github.com/Freeeeeet/musicmentor/internal/controller"
	"github.com/Freeeeeet/musicmentor/internal/notify"
	"github.com/Freeeeeet/musicmentor/internal/repository"
	"github.com/Freeeeeet/musicmentor/internal/service"
	"github.com/Freeeeeet/musicmentor/internal/video"
	"github.com/Freeeeeet/musicmentor/migrations"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting MusicMentor bot",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.Location.String()),
		zap.Bool("redis", cfg.RedisEnabled()),
		zap.Bool("kafka", cfg.KafkaEnabled()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// База данных
	poolCfg, err := pgxpool.ParseConfig(cfg.GetDBDSN())
	if err != nil {
		logger.Fatal("Failed to parse DB DSN", zap.Error(err))
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Database is not reachable", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Redis для удержания слотов (необязательно)
	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis is not reachable, slot holds will be skipped", zap.Error(err))
		}
		defer rdb.Close()
	}

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	holdRepo := repository.NewSlotHoldRepository(rdb, cfg.SlotHoldTTL, "musicmentor:slothold")

	// Уведомления
	sinks := []notify.Sink{notify.NewTelegramSink(b, userRepo)}
	var kafkaSink *notify.KafkaSink
	if cfg.KafkaEnabled() {
		kafkaSink = notify.NewKafkaSink(notify.NewKafkaWriter(cfg.KafkaBrokers), cfg.KafkaTopic)
		sinks = append(sinks, kafkaSink)
	}
	dispatcher := notify.NewDispatcher(notificationRepo, logger.Named("notify"), sinks...)

	dailyClient := video.NewDailyClient(cfg.DailyAPIKey, cfg.DailyAPIURL, logger.Named("video"))

	// Сервисы
	generator := availability.NewGenerator(availability.Options{
		TruncateOvershoot: cfg.SlotTruncateOvershoot,
	}, logger.Named("generator"))

	userService := service.NewUserService(userRepo, logger)
	availabilityService := service.NewAvailabilityService(availabilityRepo, cfg.Location, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)
	slotService := service.NewSlotService(availabilityRepo, bookingRepo, generator, service.SlotConfig{
		HorizonDays: cfg.SlotHorizonDays,
		MaxDates:    cfg.SlotMaxDates,
		Location:    cfg.Location,
	}, logger)
	bookingService := service.NewBookingService(
		bookingRepo,
		userRepo,
		slotService,
		holdRepo,
		dispatcher,
		dailyClient,
		cfg.Location,
		logger,
	)

	// Фоновые задачи
	scheduler := app.NewScheduler(bookingService, cfg.CompletionInterval, logger.Named("scheduler"))
	scheduler.Start(ctx)

	botController := controller.NewBotController(
		b,
		userService,
		bookingService,
		slotService,
		availabilityService,
		notificationService,
		cfg.Location,
		logger,
	)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Failed to register bot commands menu", zap.Error(err))
	}

	// Блокируется до сигнала завершения
	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Shutting down")

	scheduler.Stop()
	dispatcher.Wait()

	if kafkaSink != nil {
		if err := kafkaSink.Close(); err != nil {
			logger.Warn("Failed to close Kafka writer", zap.Error(err))
		}
	}

	logger.Info("Bye")
}
