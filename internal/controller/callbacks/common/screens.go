package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/availability"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/go-telegram/bot/models"
)

// BuildMentorsListScreen список менторов с кнопками записи
func BuildMentorsListScreen(mentors []*model.User) (string, *models.InlineKeyboardMarkup) {
	if len(mentors) == 0 {
		return "🎵 No mentors yet.\n\nPlay an instrument? Become the first one: /becomementor", nil
	}

	var sb strings.Builder
	sb.WriteString("🎵 <b>Mentors</b>\n\n")

	kb := keyboard.NewBuilder()
	for _, m := range mentors {
		fmt.Fprintf(&sb, "• <b>%s</b> · %s · %s\n",
			formatting.Escape(m.DisplayName()),
			formatting.Escape(m.Instrument),
			formatting.FormatRate(m.Rate),
		)
		if m.Bio != "" {
			fmt.Fprintf(&sb, "  <i>%s</i>\n", formatting.Escape(m.Bio))
		}

		kb.Row(keyboard.Button(
			fmt.Sprintf("📅 Book %s", m.DisplayName()),
			fmt.Sprintf("%s%d", callbacktypes.BookMentor, m.ID),
		))
	}

	return sb.String(), kb.Build()
}

// BuildDatesScreen шаг выбора даты: только даты со свободными слотами
func BuildDatesScreen(mentor *model.User, sel *availability.Selection, resolved bool, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	var buttons []models.InlineKeyboardButton
	total := 0
	for _, g := range sel.Groups {
		free := len(availability.OnlyAvailable(g.Slots))
		if free == 0 {
			continue
		}
		total += free
		buttons = append(buttons, keyboard.Button(
			fmt.Sprintf("%s (%d)", formatting.FormatDateKey(g.Date, loc), free),
			callbacktypes.PickDate+g.Date,
		))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 <b>%s</b> · %s\n%s\n\nPick a date:",
		formatting.Escape(mentor.DisplayName()),
		formatting.Escape(mentor.Instrument),
		formatting.Plural(total, "free slot", "free slots"))
	if !resolved {
		sb.WriteString("\n\n⚠️ Some times shown may already be taken.")
	}

	kb := keyboard.NewBuilder().
		Grid(2, buttons...).
		Row(keyboard.CancelButton(callbacktypes.CancelBooking))

	return sb.String(), kb.Build()
}

// BuildTimesScreen шаг выбора времени внутри даты
func BuildTimesScreen(sel *availability.Selection, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	times := sel.TimesForDate()

	text := fmt.Sprintf("🕐 <b>%s</b>\n\nPick a time:", formatting.FormatDateKey(sel.Date, loc))
	if len(times) == 0 {
		text = fmt.Sprintf("🕐 <b>%s</b>\n\nNo free times left on this date.", formatting.FormatDateKey(sel.Date, loc))
	}

	buttons := make([]models.InlineKeyboardButton, 0, len(times))
	for _, s := range times {
		buttons = append(buttons, keyboard.Button(
			formatting.FormatTime(s.Start.In(loc)),
			callbacktypes.PickTime+s.SlotID,
		))
	}

	kb := keyboard.NewBuilder().
		Grid(4, buttons...).
		Row(keyboard.BackCancelRow()...)

	return text, kb.Build()
}

// BuildMessagePromptScreen просьба написать сообщение ментору
func BuildMessagePromptScreen(when string) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("✍️ %s\n\nWrite a short message for the mentor: what you'd like to work on, your level, any questions.",
		formatting.Escape(when))

	kb := keyboard.NewBuilder().Row(keyboard.BackCancelRow()...)
	return text, kb.Build()
}

// BuildSummaryScreen итог перед отправкой запроса
func BuildSummaryScreen(mentor *model.User, when, message string, videoPreferred bool) (string, *models.InlineKeyboardMarkup) {
	video := "no"
	toggle := "🎥 Request video room"
	if videoPreferred {
		video = "yes"
		toggle = "🚫 No video room"
	}

	text := fmt.Sprintf(
		"📝 <b>Lesson request</b>\n\n"+
			"👤 Mentor: %s\n"+
			"🕐 When: %s\n"+
			"💰 Rate: %s\n"+
			"🎥 Video: %s\n\n"+
			"«%s»",
		formatting.Escape(mentor.DisplayName()),
		formatting.Escape(when),
		formatting.FormatRate(mentor.Rate),
		video,
		formatting.Escape(message),
	)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button(toggle, callbacktypes.ToggleVideo)).
		Row(keyboard.Button("📨 Send request", callbacktypes.SubmitBooking)).
		Row(keyboard.BackCancelRow()...)

	return text, kb.Build()
}

// BuildPreferenceScreen запись без расписания: выбор удобного времени суток
func BuildPreferenceScreen(mentor *model.User) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("📅 <b>%s</b> hasn't published open times yet.\n\nWhen would suit you best?",
		formatting.Escape(mentor.DisplayName()))

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("🌅 Morning", callbacktypes.PickPref+string(model.PreferenceMorning)),
			keyboard.Button("☀️ Afternoon", callbacktypes.PickPref+string(model.PreferenceAfternoon)),
		).
		Row(
			keyboard.Button("🌙 Evening", callbacktypes.PickPref+string(model.PreferenceEvening)),
			keyboard.Button("🔄 Flexible", callbacktypes.PickPref+string(model.PreferenceFlexible)),
		).
		Row(keyboard.CancelButton(callbacktypes.CancelBooking))

	return text, kb.Build()
}

// BuildBookingSubmittedScreen запрос отправлен
func BuildBookingSubmittedScreen(booking *model.Booking, when string) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf(
		"✅ Request #%d sent!\n\n🕐 %s\n\nThe mentor will confirm or decline it soon. Track it in /mybookings.",
		booking.ID,
		formatting.Escape(when),
	)
	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📅 My lessons", callbacktypes.MyBookings)).
		Row(keyboard.Button("➕ Book another", callbacktypes.ShowMentors)).
		Build()
	return text, kb
}

// BuildBookingCard запись для списков студента и ментора
func BuildBookingCard(b *model.Booking, when string, forMentor bool) string {
	display := formatting.GetBookingStatusDisplay(b.Status)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>#%d</b> · %s\n", display.Emoji, b.ID, display.Text)
	fmt.Fprintf(&sb, "🕐 %s\n", formatting.Escape(when))

	if forMentor && b.Student != nil {
		fmt.Fprintf(&sb, "👤 %s\n", formatting.Escape(b.Student.DisplayName()))
	}
	if !forMentor && b.Mentor != nil {
		fmt.Fprintf(&sb, "🎵 %s\n", formatting.Escape(b.Mentor.DisplayName()))
	}

	fmt.Fprintf(&sb, "💰 %s\n", formatting.FormatRate(b.Rate))

	if b.VideoPreferred {
		switch {
		case b.Video.Ready():
			fmt.Fprintf(&sb, "🎥 %s\n", formatting.Escape(b.Video.URL))
		case b.Video != nil && b.Video.Status == model.VideoRoomFailed:
			sb.WriteString("🎥 Video room unavailable, the mentor will share a link\n")
		default:
			sb.WriteString("🎥 Video requested\n")
		}
	}

	if forMentor && b.Message != "" {
		fmt.Fprintf(&sb, "\n«%s»\n", formatting.Escape(b.Message))
	}

	return sb.String()
}

// BuildRequestKeyboard кнопки решения ментора по запросу
func BuildRequestKeyboard(bookingID int64) *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(
			keyboard.Button("✅ Confirm", fmt.Sprintf("%s%d", callbacktypes.ConfirmBooking, bookingID)),
			keyboard.Button("🚫 Decline", fmt.Sprintf("%s%d", callbacktypes.DeclineBooking, bookingID)),
		).
		Build()
}

// BuildLessonKeyboard кнопки подтверждённого занятия в /lessons
func BuildLessonKeyboard(b *model.Booking) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()
	if b.Video.Ready() {
		kb.Row(keyboard.URLButton("🎥 Video room", b.Video.URL))
	}
	return kb.
		Row(keyboard.Button("🏁 Mark completed", fmt.Sprintf("%s%d", callbacktypes.CompleteLesson, b.ID))).
		Build()
}

// BuildTemplateScreen недельный шаблон ментора
func BuildTemplateScreen(tmpl *model.WeeklyTemplate) string {
	var sb strings.Builder
	sb.WriteString("🗓 <b>Your weekly availability</b>\n\n")

	for _, d := range formatting.WeekdayOrder {
		day, ok := tmpl.Day(d)
		line := "off"
		if ok && day.Available && len(day.Slots) > 0 {
			line = availability.FormatRanges(day.Slots)
		}
		fmt.Fprintf(&sb, "<b>%s</b>: %s\n", d.String()[:3], line)
	}

	fmt.Fprintf(&sb, "\n⏱ Session: %s (+%d min break after each booking)\n",
		formatting.FormatDuration(int(tmpl.Duration()/time.Minute)),
		int(availability.BufferDuration/time.Minute),
	)

	if len(tmpl.BlockedDates) > 0 {
		fmt.Fprintf(&sb, "🚫 Blocked: %s\n", strings.Join(tmpl.BlockedDates, ", "))
	}

	sb.WriteString("\nEdit with:\n" +
		"/setday monday 09:00-12:00,14:00-18:00\n" +
		"/setday sunday off\n" +
		"/blockdate 2026-12-31 · /unblockdate 2026-12-31\n" +
		"/duration 30")

	return sb.String()
}
