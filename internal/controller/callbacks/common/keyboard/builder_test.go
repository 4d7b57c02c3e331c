package keyboard

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func TestGrid(t *testing.T) {
	var buttons []models.InlineKeyboardButton
	for _, label := range []string{"a", "b", "c", "d", "e"} {
		buttons = append(buttons, Button(label, label))
	}

	kb := NewBuilder().Grid(2, buttons...).Row(BackCancelRow()...).Build()

	assert.Len(t, kb.InlineKeyboard, 4)
	assert.Len(t, kb.InlineKeyboard[0], 2)
	assert.Len(t, kb.InlineKeyboard[2], 1)
	assert.Equal(t, "e", kb.InlineKeyboard[2][0].CallbackData)
}

func TestRowSkipsEmpty(t *testing.T) {
	kb := NewBuilder().Row().Build()

	assert.Empty(t, kb.InlineKeyboard)
}
