package keyboard

import (
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot/models"
)

// BackButton создаёт кнопку "Назад"
func BackButton(callbackData string) models.InlineKeyboardButton {
	return Button("⬅️ Back", callbackData)
}

// BackToMainButton создаёт кнопку "В главное меню"
func BackToMainButton() models.InlineKeyboardButton {
	return Button("🏠 Main menu", callbacktypes.BackToMain)
}

// CancelButton создаёт кнопку "Отмена"
func CancelButton(callbackData string) models.InlineKeyboardButton {
	return Button("❌ Cancel", callbackData)
}

// BackCancelRow ряд с кнопками Назад/Отмена для шагов записи
func BackCancelRow() []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		BackButton(callbacktypes.SelectionBack),
		CancelButton(callbacktypes.CancelBooking),
	}
}
