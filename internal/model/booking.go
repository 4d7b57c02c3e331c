package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // Ожидает решения ментора
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено ментором
	BookingStatusDeclined  BookingStatus = "declined"  // Отклонено ментором
	BookingStatusCompleted BookingStatus = "completed" // Занятие прошло
)

// transitions описывает допустимые переходы статусов
var transitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusDeclined},
	BookingStatusConfirmed: {BookingStatusCompleted},
}

// CanTransitionTo проверяет допустим ли переход в статус next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive возвращает true для статусов, которые занимают время ментора
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// ActiveBookingStatuses статусы, блокирующие слоты
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

// TimePreference грубое пожелание по времени, когда слот не выбран
type TimePreference string

const (
	PreferenceMorning   TimePreference = "morning"
	PreferenceAfternoon TimePreference = "afternoon"
	PreferenceEvening   TimePreference = "evening"
	PreferenceFlexible  TimePreference = "flexible"
)

// Valid проверяет что значение из допустимого набора
func (p TimePreference) Valid() bool {
	switch p {
	case PreferenceMorning, PreferenceAfternoon, PreferenceEvening, PreferenceFlexible:
		return true
	}
	return false
}

// Schedule время занятия: либо конкретный слот, либо пожелание
type Schedule interface {
	isSchedule()
}

// TimeSlotSchedule конкретное окно, выбранное из свободных слотов
type TimeSlotSchedule struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PreferenceSchedule запись без слота, только пожелание по времени
type PreferenceSchedule struct {
	Preference TimePreference `json:"preference"`
}

func (TimeSlotSchedule) isSchedule()   {}
func (PreferenceSchedule) isSchedule() {}

type Booking struct {
	ID             int64         `json:"id"`
	MentorID       int64         `json:"mentor_id"`
	StudentID      int64         `json:"student_id"`
	Status         BookingStatus `json:"status"`
	Message        string        `json:"message"`
	VideoPreferred bool          `json:"video_preferred"`
	Rate           int           `json:"rate"` // в центах, копируется у ментора при создании
	Schedule       Schedule      `json:"-"`
	Video          *VideoRoom    `json:"video,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Mentor  *User `json:"mentor,omitempty"`
	Student *User `json:"student,omitempty"`
}

// TimeSlot возвращает окно занятия, если запись сделана на конкретный слот
func (b *Booking) TimeSlot() (TimeSlotSchedule, bool) {
	switch s := b.Schedule.(type) {
	case TimeSlotSchedule:
		return s, true
	case *TimeSlotSchedule:
		if s != nil {
			return *s, true
		}
	}
	return TimeSlotSchedule{}, false
}

// Preference возвращает пожелание по времени для записей без слота
func (b *Booking) Preference() (TimePreference, bool) {
	switch s := b.Schedule.(type) {
	case PreferenceSchedule:
		return s.Preference, true
	case *PreferenceSchedule:
		if s != nil {
			return s.Preference, true
		}
	}
	return "", false
}

// BookingDraft данные для создания записи до сохранения
type BookingDraft struct {
	MentorID       int64          `validate:"required,gt=0"`
	StudentID      int64          `validate:"required,gt=0,nefield=MentorID"`
	Message        string         `validate:"required,max=1000"`
	VideoPreferred bool
	Slot           *CandidateSlot // выбранный слот
	Preference     TimePreference // используется, если слот не выбран
}
