package student

import (
	"errors"
	"strings"

	"github.com/Freeeeeet/musicmentor/internal/availability"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/common"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/Freeeeeet/musicmentor/internal/service"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Student Booking Handlers
// ========================

// HandleBookMentor начинает запись к ментору: даты со свободными слотами
// или выбор удобного времени, если слотов нет
func HandleBookMentor(hc *common.HandlerContext) {
	h := hc.Handler

	mentorID, err := common.ParseIDFromCallback(hc.Callback.Data)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	mentor, err := h.UserService.GetMentor(hc.Ctx, mentorID)
	if err != nil {
		h.Logger.Warn("Failed to load mentor", zap.Int64("mentor_id", mentorID), zap.Error(err))
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}
	if mentor.ID == hc.User.ID {
		hc.AnswerAlert("❌ You can't book a lesson with yourself")
		return
	}

	result, err := h.SlotService.AvailableSlots(hc.Ctx, mentor.ID)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}
	if len(result.Warnings) > 0 {
		h.Logger.Warn("Slots built with warnings",
			zap.Int64("mentor_id", mentor.ID),
			zap.Strings("warnings", result.Warnings))
	}

	hc.ClearState()

	if !result.HasAvailable() {
		hc.SetFlow(common.NewPreferenceFlow(mentor))
		text, kb := common.BuildPreferenceScreen(mentor)
		editOrLog(hc, text, kb)
		hc.Answer("")
		return
	}

	flow := common.NewSlotFlow(mentor, result.Groups, result.Resolved)
	hc.SetFlow(flow)

	text, kb := common.BuildDatesScreen(mentor, flow.Selection, flow.Resolved, h.Location)
	editOrLog(hc, text, kb)
	hc.Answer("")
}

// HandlePickDate выбор даты
func HandlePickDate(hc *common.HandlerContext) {
	flow, ok := slotFlow(hc)
	if !ok {
		return
	}

	date, err := common.ParseValueFromCallback(hc.Callback.Data)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	if err := flow.Selection.PickDate(date); err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}

	text, kb := common.BuildTimesScreen(flow.Selection, hc.Handler.Location)
	editOrLog(hc, text, kb)
	hc.Answer("")
}

// HandlePickTime выбор времени, затем запрос сообщения ментору
func HandlePickTime(hc *common.HandlerContext) {
	flow, ok := slotFlow(hc)
	if !ok {
		return
	}

	slotID, err := common.ParseValueFromCallback(hc.Callback.Data)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	if err := flow.Selection.PickTime(slotID); err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}

	hc.SetState(callbacktypes.StateBookingMessage)

	text, kb := common.BuildMessagePromptScreen(flow.When(hc.Handler.Location))
	editOrLog(hc, text, kb)
	hc.Answer("")
}

// HandlePickPreference пожелание по времени для записи без слота
func HandlePickPreference(hc *common.HandlerContext) {
	flow, err := hc.Flow()
	if err != nil || flow.Selection != nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrNoSelection))
		return
	}

	value, err := common.ParseValueFromCallback(hc.Callback.Data)
	pref := model.TimePreference(value)
	if err != nil || !pref.Valid() {
		hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	flow.Preference = pref
	hc.SetState(callbacktypes.StateBookingMessage)

	text, kb := common.BuildMessagePromptScreen(flow.When(hc.Handler.Location))
	editOrLog(hc, text, kb)
	hc.Answer("")
}

// HandleToggleVideo переключает пожелание видеокомнаты на экране итога
func HandleToggleVideo(hc *common.HandlerContext) {
	flow, err := hc.ReviewFlow()
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}

	if err := flow.ToggleVideo(); err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}

	message, video := flow.Details()
	text, kb := common.BuildSummaryScreen(flow.Mentor, flow.When(hc.Handler.Location), message, video)
	editOrLog(hc, text, kb)
	hc.Answer("")
}

// HandleSubmitBooking отправляет запрос ментору
func HandleSubmitBooking(hc *common.HandlerContext) {
	h := hc.Handler

	flow, err := hc.ReviewFlow()
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}

	draft, err := flow.Draft(hc.User.ID)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}

	booking, err := h.BookingService.Submit(hc.Ctx, draft)
	if err != nil {
		if errors.Is(err, service.ErrSlotUnavailable) && flow.Selection != nil {
			h.Logger.Info("Slot taken before submit, refreshing",
				zap.Int64("mentor_id", flow.Mentor.ID),
				zap.Int64("student_id", hc.User.ID))
			hc.AnswerAlert(common.ErrorMessage(err))
			refreshDates(hc, flow)
			return
		}
		if !service.IsValidation(err) {
			h.Logger.Error("Failed to submit booking",
				zap.Int64("mentor_id", flow.Mentor.ID),
				zap.Int64("student_id", hc.User.ID),
				zap.Error(err))
		}
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}

	hc.ClearState()

	text, kb := common.BuildBookingSubmittedScreen(booking, flow.When(h.Location))
	editOrLog(hc, text, kb)
	hc.Answer("✅ Request sent")
}

// HandleSelectionBack возвращает на предыдущий шаг записи
func HandleSelectionBack(hc *common.HandlerContext) {
	h := hc.Handler

	flow, err := hc.Flow()
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}

	hc.SetState(callbacktypes.StateNone)
	hc.SetFlow(flow)

	if flow.Selection == nil {
		flow.ResetPreference()
		text, kb := common.BuildPreferenceScreen(flow.Mentor)
		editOrLog(hc, text, kb)
		hc.Answer("")
		return
	}

	flow.Selection.Back()

	if flow.Selection.Stage == availability.StageTime {
		text, kb := common.BuildTimesScreen(flow.Selection, h.Location)
		editOrLog(hc, text, kb)
	} else {
		text, kb := common.BuildDatesScreen(flow.Mentor, flow.Selection, flow.Resolved, h.Location)
		editOrLog(hc, text, kb)
	}
	hc.Answer("")
}

// HandleCancelBooking отменяет незавершённую запись
func HandleCancelBooking(hc *common.HandlerContext) {
	hc.ClearState()

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🎵 Mentors", callbacktypes.ShowMentors)).
		Row(keyboard.BackToMainButton()).
		Build()
	editOrLog(hc, "❌ Booking cancelled.", kb)
	hc.Answer("")
}

// slotFlow незавершённая запись со слотами, иначе отвечает ошибкой
func slotFlow(hc *common.HandlerContext) (*common.BookingFlow, bool) {
	flow, err := hc.Flow()
	if err != nil || flow.Selection == nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrNoSelection))
		return nil, false
	}
	return flow, true
}

// refreshDates перечитывает слоты ментора и возвращает к выбору даты
func refreshDates(hc *common.HandlerContext, flow *common.BookingFlow) {
	h := hc.Handler

	result, err := h.SlotService.AvailableSlots(hc.Ctx, flow.Mentor.ID)
	if err != nil || !result.HasAvailable() {
		hc.ClearState()
		editOrLog(hc, "😔 No free times are left with this mentor. Try /mentors later.", nil)
		return
	}

	fresh := common.NewSlotFlow(flow.Mentor, result.Groups, result.Resolved)
	hc.SetState(callbacktypes.StateNone)
	hc.SetFlow(fresh)

	text, kb := common.BuildDatesScreen(fresh.Mentor, fresh.Selection, fresh.Resolved, h.Location)
	editOrLog(hc, text, kb)
}

func editOrLog(hc *common.HandlerContext, text string, kb *models.InlineKeyboardMarkup) {
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to edit message",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("callback", strings.SplitN(hc.Callback.Data, ":", 2)[0]),
			zap.Error(err))
	}
}
