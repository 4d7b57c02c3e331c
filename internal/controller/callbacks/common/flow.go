package common

import (
	"strings"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/availability"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/musicmentor/internal/model"
)

// BookingFlow незавершённая запись студента.
// Selection задан, если у ментора есть свободные слоты; иначе запись идёт по пожеланию.
type BookingFlow struct {
	Mentor    *model.User
	Resolved  bool
	Selection *availability.Selection

	Preference     model.TimePreference
	Message        string
	VideoPreferred bool
}

// NewSlotFlow запись на конкретный слот
func NewSlotFlow(mentor *model.User, groups []model.DateGroup, resolved bool) *BookingFlow {
	return &BookingFlow{
		Mentor:    mentor,
		Resolved:  resolved,
		Selection: availability.NewSelection(mentor.ID, groups),
	}
}

// NewPreferenceFlow запись без слота
func NewPreferenceFlow(mentor *model.User) *BookingFlow {
	return &BookingFlow{Mentor: mentor, Resolved: true}
}

// ResetPreference возврат к выбору пожелания: детали сбрасываются вместе с ним
func (f *BookingFlow) ResetPreference() {
	f.Preference = ""
	f.Message = ""
	f.VideoPreferred = false
}

// SetMessage сохраняет сообщение ментору
func (f *BookingFlow) SetMessage(message string) error {
	if f.Selection != nil {
		return f.Selection.SetDetails(message, f.Selection.VideoPreferred)
	}
	if f.Preference == "" {
		return availability.ErrWrongStage
	}
	f.Message = strings.TrimSpace(message)
	return nil
}

// ToggleVideo переключает пожелание видеокомнаты
func (f *BookingFlow) ToggleVideo() error {
	if f.Selection != nil {
		return f.Selection.SetDetails(f.Selection.Message, !f.Selection.VideoPreferred)
	}
	if f.Preference == "" {
		return availability.ErrWrongStage
	}
	f.VideoPreferred = !f.VideoPreferred
	return nil
}

// Details текущее сообщение и пожелание видео
func (f *BookingFlow) Details() (string, bool) {
	if f.Selection != nil {
		return f.Selection.Message, f.Selection.VideoPreferred
	}
	return f.Message, f.VideoPreferred
}

// Draft черновик записи для отправки
func (f *BookingFlow) Draft(studentID int64) (model.BookingDraft, error) {
	if f.Selection != nil {
		return f.Selection.Draft(studentID)
	}
	if f.Preference == "" {
		return model.BookingDraft{}, availability.ErrSelectionPending
	}
	return model.BookingDraft{
		MentorID:       f.Mentor.ID,
		StudentID:      studentID,
		Message:        f.Message,
		VideoPreferred: f.VideoPreferred,
		Preference:     f.Preference,
	}, nil
}

// When выбранное время для показа
func (f *BookingFlow) When(loc *time.Location) string {
	if f.Selection != nil {
		if f.Selection.Slot == nil {
			return ""
		}
		start := f.Selection.Slot.Start.In(loc)
		return start.Format("Mon 02 Jan") + " " + formatting.FormatTimeRange(start, f.Selection.Slot.End.In(loc))
	}
	if f.Preference == "" {
		return ""
	}
	return "preferred: " + string(f.Preference)
}
