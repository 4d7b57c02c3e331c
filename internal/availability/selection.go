package availability

import (
	"errors"
	"strings"

	"github.com/Freeeeeet/musicmentor/internal/model"
)

// Stage шаг выбора в процессе записи
type Stage int

const (
	StageDate Stage = iota
	StageTime
	StageDetails
)

func (s Stage) String() string {
	switch s {
	case StageDate:
		return "date"
	case StageTime:
		return "time"
	case StageDetails:
		return "details"
	}
	return "unknown"
}

var (
	ErrUnknownDate      = errors.New("date is not offered")
	ErrSlotNotOnDate    = errors.New("slot does not belong to chosen date")
	ErrSlotTaken        = errors.New("slot is not available")
	ErrWrongStage       = errors.New("action is not allowed at this stage")
	ErrSelectionPending = errors.New("selection is not complete")
)

// Selection трёхшаговый выбор: дата -> время -> детали.
// Возврат назад сбрасывает только шаги после текущего.
type Selection struct {
	MentorID       int64
	Groups         []model.DateGroup
	Stage          Stage
	Date           string
	Slot           *model.CandidateSlot
	Message        string
	VideoPreferred bool
}

func NewSelection(mentorID int64, groups []model.DateGroup) *Selection {
	return &Selection{MentorID: mentorID, Groups: groups, Stage: StageDate}
}

// PickDate выбирает дату; ранее выбранное время сбрасывается
func (s *Selection) PickDate(date string) error {
	if _, ok := FindGroup(s.Groups, date); !ok {
		return ErrUnknownDate
	}
	s.Date = date
	s.Slot = nil
	s.resetDetails()
	s.Stage = StageTime
	return nil
}

// TimesForDate возвращает свободные слоты выбранной даты
func (s *Selection) TimesForDate() []model.CandidateSlot {
	g, ok := FindGroup(s.Groups, s.Date)
	if !ok {
		return nil
	}
	return OnlyAvailable(g.Slots)
}

// PickTime выбирает слот внутри выбранной даты
func (s *Selection) PickTime(slotID string) error {
	if s.Stage != StageTime && s.Stage != StageDetails {
		return ErrWrongStage
	}
	g, ok := FindGroup(s.Groups, s.Date)
	if !ok {
		return ErrUnknownDate
	}
	for i := range g.Slots {
		if g.Slots[i].SlotID != slotID {
			continue
		}
		if !g.Slots[i].Available {
			return ErrSlotTaken
		}
		if s.Slot == nil || s.Slot.SlotID != slotID {
			s.resetDetails()
		}
		slot := g.Slots[i]
		s.Slot = &slot
		s.Stage = StageDetails
		return nil
	}
	return ErrSlotNotOnDate
}

// SetDetails сохраняет сообщение и пожелание видео
func (s *Selection) SetDetails(message string, videoPreferred bool) error {
	if s.Stage != StageDetails {
		return ErrWrongStage
	}
	s.Message = strings.TrimSpace(message)
	s.VideoPreferred = videoPreferred
	return nil
}

// Back возвращает на предыдущий шаг
func (s *Selection) Back() {
	switch s.Stage {
	case StageDetails:
		s.Slot = nil
		s.resetDetails()
		s.Stage = StageTime
	case StageTime:
		s.Slot = nil
		s.Date = ""
		s.Stage = StageDate
	}
}

// resetDetails детали относятся к конкретному слоту и не переносятся на другой
func (s *Selection) resetDetails() {
	s.Message = ""
	s.VideoPreferred = false
}

// Draft собирает черновик записи из завершённого выбора
func (s *Selection) Draft(studentID int64) (model.BookingDraft, error) {
	if s.Stage != StageDetails || s.Slot == nil {
		return model.BookingDraft{}, ErrSelectionPending
	}
	slot := *s.Slot
	return model.BookingDraft{
		MentorID:       s.MentorID,
		StudentID:      studentID,
		Message:        s.Message,
		VideoPreferred: s.VideoPreferred,
		Slot:           &slot,
	}, nil
}
