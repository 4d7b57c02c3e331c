package common

import (
	"context"

	"github.com/Freeeeeet/musicmentor/internal/availability"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// FlowKey ключ незавершённой записи в данных состояния
const FlowKey = "booking_flow"

// HandlerContext содержит общие данные для обработки callback
type HandlerContext struct {
	Ctx        context.Context
	Bot        *bot.Bot
	Callback   *models.CallbackQuery
	Handler    *callbacktypes.Handler
	Message    *models.Message
	User       *model.User
	TelegramID int64
	ChatID     int64
}

// NewHandlerContext создаёт новый контекст обработчика
func NewHandlerContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	var chatID int64
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Handler:    h,
		Message:    msg,
		TelegramID: callback.From.ID,
		ChatID:     chatID,
	}
}

// LoadUser загружает пользователя в контекст
func (hc *HandlerContext) LoadUser() error {
	user, err := hc.Handler.UserService.GetByTelegramID(hc.Ctx, hc.TelegramID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	hc.User = user
	return nil
}

// RequireUser проверяет что пользователь загружен
func (hc *HandlerContext) RequireUser() error {
	if hc.User == nil {
		return hc.LoadUser()
	}
	return nil
}

// RequireMentor проверяет что пользователь является ментором
func (hc *HandlerContext) RequireMentor() error {
	if err := hc.RequireUser(); err != nil {
		return err
	}
	if !hc.User.IsMentor {
		return ErrNotAMentor
	}
	return nil
}

// Answer отвечает на callback query
func (hc *HandlerContext) Answer(text string) {
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// AnswerAlert отвечает на callback query с alert
func (hc *HandlerContext) AnswerAlert(text string) {
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// EditMessage редактирует сообщение
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	params := &bot.EditMessageTextParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := hc.Bot.EditMessageText(hc.Ctx, params)

	// "message is not modified" - не настоящая ошибка
	if IsMessageNotModifiedError(err) {
		return nil
	}

	return err
}

// SendMessage отправляет новое сообщение
func (hc *HandlerContext) SendMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:    hc.ChatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := hc.Bot.SendMessage(hc.Ctx, params)
	return err
}

// ClearState очищает состояние пользователя
func (hc *HandlerContext) ClearState() {
	hc.Handler.StateManager.ClearState(hc.TelegramID)
}

// SetState устанавливает состояние пользователя
func (hc *HandlerContext) SetState(state callbacktypes.UserState) {
	hc.Handler.StateManager.SetState(hc.TelegramID, state)
}

// Flow возвращает незавершённую запись пользователя
func (hc *HandlerContext) Flow() (*BookingFlow, error) {
	return GetFlow(hc.Handler.StateManager, hc.TelegramID)
}

// ReviewFlow незавершённая запись, итог которой сейчас показан пользователю
func (hc *HandlerContext) ReviewFlow() (*BookingFlow, error) {
	return GetReviewFlow(hc.Handler.StateManager, hc.TelegramID)
}

// SetFlow сохраняет незавершённую запись пользователя
func (hc *HandlerContext) SetFlow(flow *BookingFlow) {
	hc.Handler.StateManager.SetData(hc.TelegramID, FlowKey, flow)
}

// GetFlow достаёт незавершённую запись из менеджера состояний
func GetFlow(sm callbacktypes.StateManager, telegramID int64) (*BookingFlow, error) {
	raw, ok := sm.GetData(telegramID, FlowKey)
	if !ok {
		return nil, ErrNoSelection
	}
	flow, ok := raw.(*BookingFlow)
	if !ok || flow == nil {
		return nil, ErrNoSelection
	}
	return flow, nil
}

// GetReviewFlow как GetFlow, но только на шаге итога. Кнопки старых
// итогов после возврата назад не должны отправлять новый выбор.
func GetReviewFlow(sm callbacktypes.StateManager, telegramID int64) (*BookingFlow, error) {
	if sm.GetState(telegramID) != callbacktypes.StateBookingReview {
		if _, err := GetFlow(sm, telegramID); err != nil {
			return nil, err
		}
		return nil, availability.ErrSelectionPending
	}
	return GetFlow(sm, telegramID)
}
