package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// BookingCompleter переводит прошедшие подтверждённые записи в completed
type BookingCompleter interface {
	CompleteFinished(ctx context.Context, now time.Time) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	completer BookingCompleter
	interval  time.Duration
	now       func() time.Time
	logger    *zap.Logger
	stopChan  chan struct{}
	done      chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(completer BookingCompleter, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Scheduler{
		completer: completer,
		interval:  interval,
		now:       time.Now,
		logger:    logger,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))
	go s.runCompletionTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт завершения
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
	<-s.done
}

func (s *Scheduler) runCompletionTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.completeFinished(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.completeFinished(ctx)
		case <-s.stopChan:
			s.logger.Info("Completion task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Completion task cancelled")
			return
		}
	}
}

func (s *Scheduler) completeFinished(ctx context.Context) {
	n, err := s.completer.CompleteFinished(ctx, s.now())
	if err != nil {
		s.logger.Error("Failed to complete finished bookings", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("Completed finished bookings", zap.Int("count", n))
	}
}
