package common

import (
	"context"

	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// MainMenuText текст главного меню с учётом роли пользователя
func MainMenuText(user *model.User) string {
	text := "📋 <b>Main menu</b>\n\n" +
		"/mentors - Find a mentor and book a lesson\n" +
		"/mybookings - My lessons\n" +
		"/inbox - Notifications\n" +
		"/help - Help\n"

	if user != nil && user.IsMentor {
		text += "\n<b>Mentor</b>\n" +
			"/requests - Lesson requests\n" +
			"/lessons - Upcoming lessons\n" +
			"/availability - Weekly availability\n" +
			"/rate - Session rate"
	} else {
		text += "\n/becomementor - Teach on MusicMentor"
	}

	return text
}

// HandleBackToMain возвращает пользователя к главному меню
func HandleBackToMain(hc *HandlerContext) {
	hc.ClearState()

	if hc.Message != nil {
		hc.Bot.DeleteMessage(hc.Ctx, &bot.DeleteMessageParams{
			ChatID:    hc.ChatID,
			MessageID: hc.Message.ID,
		})
	}

	if err := hc.SendMessage(MainMenuText(hc.User), nil); err != nil {
		hc.Handler.Logger.Error("Failed to send main menu", zap.Int64("telegram_id", hc.TelegramID), zap.Error(err))
	}

	hc.Answer("")
}

// HandleShowMentors показывает список менторов новым сообщением
func HandleShowMentors(hc *HandlerContext) {
	replaceWithCommand(hc, hc.Handler.HandleMentors)
}

// HandleShowMyBookings показывает записи пользователя новым сообщением
func HandleShowMyBookings(hc *HandlerContext) {
	replaceWithCommand(hc, hc.Handler.HandleMyBookings)
}

// replaceWithCommand удаляет сообщение с кнопкой и вызывает обработчик команды
func replaceWithCommand(hc *HandlerContext, command func(ctx context.Context, b *bot.Bot, update *models.Update)) {
	if hc.Message == nil || command == nil {
		hc.Answer("")
		return
	}

	hc.ClearState()
	hc.Bot.DeleteMessage(hc.Ctx, &bot.DeleteMessageParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
	})

	update := &models.Update{
		Message: &models.Message{
			Chat: models.Chat{ID: hc.ChatID},
			From: &hc.Callback.From,
		},
	}

	command(hc.Ctx, hc.Bot, update)
	hc.Answer("")
}
