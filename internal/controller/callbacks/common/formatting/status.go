package formatting

import "github.com/Freeeeeet/musicmentor/internal/model"

// BookingStatusDisplay представляет отображение статуса записи
type BookingStatusDisplay struct {
	Emoji string
	Text  string
}

// GetBookingStatusDisplay возвращает emoji и текст для статуса записи
func GetBookingStatusDisplay(status model.BookingStatus) BookingStatusDisplay {
	displays := map[model.BookingStatus]BookingStatusDisplay{
		model.BookingStatusPending:   {"⏳", "Waiting for mentor"},
		model.BookingStatusConfirmed: {"✅", "Confirmed"},
		model.BookingStatusDeclined:  {"🚫", "Declined"},
		model.BookingStatusCompleted: {"✔️", "Completed"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return BookingStatusDisplay{"❓", "Unknown"}
}
