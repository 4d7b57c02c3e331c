package common

import (
	"context"

	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandlerFunc обработчик callback с уже загруженным пользователем
type HandlerFunc func(*HandlerContext)

// WithUser запускает handler для любого зарегистрированного пользователя
func WithUser(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, handler HandlerFunc) {
	guarded(ctx, b, callback, h, (*HandlerContext).LoadUser, handler)
}

// WithMentor запускает handler только для менторов
func WithMentor(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, handler HandlerFunc) {
	guarded(ctx, b, callback, h, (*HandlerContext).RequireMentor, handler)
}

// guarded проверяет доступ через check и при отказе сам отвечает на callback
func guarded(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	check func(*HandlerContext) error,
	handler HandlerFunc,
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	if err := check(hc); err != nil {
		h.Logger.Warn("Callback access denied",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("data", callback.Data),
			zap.Error(err))
		hc.AnswerAlert(ErrorMessage(err))
		return
	}

	handler(hc)
}
