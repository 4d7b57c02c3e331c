package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/musicmentor/internal/model"
	"go.uber.org/zap"
)

// DefaultInboxLimit сколько непрочитанных уведомлений показывать за раз
const DefaultInboxLimit = 20

// NotificationInbox хранилище сохранённых уведомлений
type NotificationInbox interface {
	ListUnread(ctx context.Context, userID int64, limit int) ([]*model.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

type NotificationService struct {
	inbox  NotificationInbox
	logger *zap.Logger
}

func NewNotificationService(inbox NotificationInbox, logger *zap.Logger) *NotificationService {
	return &NotificationService{inbox: inbox, logger: logger}
}

// ReadInbox возвращает непрочитанные уведомления и помечает все прочитанными.
// Если чтение списка не удалось, отметки не ставятся.
func (s *NotificationService) ReadInbox(ctx context.Context, userID int64) ([]*model.Notification, error) {
	unread, err := s.inbox.ListUnread(ctx, userID, DefaultInboxLimit)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	if len(unread) == 0 {
		return nil, nil
	}

	marked, err := s.inbox.MarkAllRead(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to mark notifications read", zap.Int64("user_id", userID), zap.Error(err))
		return unread, nil
	}

	s.logger.Debug("Inbox read", zap.Int64("user_id", userID), zap.Int64("marked", marked))
	return unread, nil
}
