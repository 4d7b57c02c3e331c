// Package notify доставляет уведомления пользователям: сохраняет их в БД,
// отправляет в Telegram и публикует событие в Kafka.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/model"
	"go.uber.org/zap"
)

// Store хранилище уведомлений
type Store interface {
	Create(ctx context.Context, n *model.Notification) error
}

// Sink канал доставки уведомления
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n *model.Notification) error
}

// Dispatcher сохраняет уведомление и раздаёт его по каналам в фоне.
// Ошибки доставки только логируются и не возвращаются вызывающему.
type Dispatcher struct {
	store   Store
	sinks   []Sink
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

func NewDispatcher(store Store, logger *zap.Logger, sinks ...Sink) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		store:   store,
		sinks:   sinks,
		timeout: 15 * time.Second,
		logger:  logger,
	}
}

// Notify ставит уведомление в доставку и сразу возвращается
func (d *Dispatcher) Notify(ctx context.Context, userID int64, kind model.NotificationKind, payload map[string]string) {
	n := &model.Notification{
		UserID:    userID,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		deliverCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		d.deliver(deliverCtx, n)
	}()
}

func (d *Dispatcher) deliver(ctx context.Context, n *model.Notification) {
	if d.store != nil {
		if err := d.store.Create(ctx, n); err != nil {
			d.logger.Error("Failed to store notification",
				zap.Int64("user_id", n.UserID),
				zap.String("kind", string(n.Kind)),
				zap.Error(err),
			)
		}
	}

	for _, sink := range d.sinks {
		if err := sink.Deliver(ctx, n); err != nil {
			d.logger.Warn("Notification delivery failed",
				zap.String("sink", sink.Name()),
				zap.Int64("user_id", n.UserID),
				zap.String("kind", string(n.Kind)),
				zap.Error(err),
			)
		}
	}
}

// Wait ждёт завершения всех начатых доставок
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
