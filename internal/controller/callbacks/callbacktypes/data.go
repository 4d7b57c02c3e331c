package callbacktypes

// Форматы callback data. Лимит Telegram - 64 байта.
const (
	BackToMain  = "back_to_main"
	Noop        = "noop"
	ShowMentors = "show_mentors"
	MyBookings  = "my_bookings"

	// Студент: выбор ментора -> даты -> времени -> детали
	BookMentor    = "book_mentor:"   // book_mentor:mentor_id
	PickDate      = "pick_date:"     // pick_date:2026-10-19
	PickTime      = "pick_time:"     // pick_time:slot_id
	PickPref      = "pick_pref:"     // pick_pref:morning
	ToggleVideo   = "toggle_video"
	SubmitBooking = "submit_booking"
	SelectionBack = "selection_back"
	CancelBooking = "cancel_booking" // отмена незавершённого выбора

	// Ментор: решения по запросам
	ConfirmBooking = "confirm_booking:" // confirm_booking:booking_id
	DeclineBooking = "decline_booking:" // decline_booking:booking_id
	CompleteLesson = "complete_lesson:" // complete_lesson:booking_id
)
