package notify

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MessageSender отправка сообщений в Telegram (реализуется *bot.Bot)
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// UserLookup поиск пользователя для получения Telegram ID
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// TelegramSink отправляет уведомление в личный чат пользователя
type TelegramSink struct {
	sender MessageSender
	users  UserLookup
}

func NewTelegramSink(sender MessageSender, users UserLookup) *TelegramSink {
	return &TelegramSink{sender: sender, users: users}
}

func (s *TelegramSink) Name() string { return "telegram" }

func (s *TelegramSink) Deliver(ctx context.Context, n *model.Notification) error {
	user, err := s.users.GetByID(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("get recipient: %w", err)
	}
	if user == nil {
		return fmt.Errorf("recipient %d not found", n.UserID)
	}

	_, err = s.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: user.TelegramID,
		Text:   Render(n),
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	return nil
}
