package model

import (
	"strings"
	"time"
)

// DefaultSessionDuration длительность сессии по умолчанию, минуты
const DefaultSessionDuration = 15

// TimeRange промежуток внутри дня, "HH:MM" в 24-часовом формате
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DaySchedule расписание одного дня недели
type DaySchedule struct {
	Available bool        `json:"available"`
	Slots     []TimeRange `json:"slots"`
}

// WeeklyTemplate недельный шаблон доступности ментора.
// Ключи Days - названия дней недели в нижнем регистре: "monday" ... "sunday".
type WeeklyTemplate struct {
	MentorID        int64                  `json:"mentor_id"`
	Days            map[string]DaySchedule `json:"days"`
	SessionDuration int                    `json:"session_duration"` // минуты
	BlockedDates    []string               `json:"blocked_dates"`    // "2006-01-02"
	UpdatedAt       time.Time              `json:"updated_at"`
}

// WeekdayKey возвращает ключ дня недели для Days
func WeekdayKey(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// Day возвращает расписание на день недели
func (t *WeeklyTemplate) Day(d time.Weekday) (DaySchedule, bool) {
	if t == nil || t.Days == nil {
		return DaySchedule{}, false
	}
	day, ok := t.Days[WeekdayKey(d)]
	return day, ok
}

// SetDay заменяет расписание дня недели
func (t *WeeklyTemplate) SetDay(d time.Weekday, day DaySchedule) {
	if t.Days == nil {
		t.Days = make(map[string]DaySchedule)
	}
	t.Days[WeekdayKey(d)] = day
}

// Duration длительность сессии с учётом значения по умолчанию
func (t *WeeklyTemplate) Duration() time.Duration {
	if t == nil || t.SessionDuration <= 0 {
		return DefaultSessionDuration * time.Minute
	}
	return time.Duration(t.SessionDuration) * time.Minute
}

// IsBlocked проверяет что дата полностью исключена
func (t *WeeklyTemplate) IsBlocked(dateKey string) bool {
	if t == nil {
		return false
	}
	for _, d := range t.BlockedDates {
		if d == dateKey {
			return true
		}
	}
	return false
}

// Block добавляет дату в исключения (без дублей)
func (t *WeeklyTemplate) Block(dateKey string) bool {
	if t.IsBlocked(dateKey) {
		return false
	}
	t.BlockedDates = append(t.BlockedDates, dateKey)
	return true
}

// Unblock убирает дату из исключений
func (t *WeeklyTemplate) Unblock(dateKey string) bool {
	for i, d := range t.BlockedDates {
		if d == dateKey {
			t.BlockedDates = append(t.BlockedDates[:i], t.BlockedDates[i+1:]...)
			return true
		}
	}
	return false
}
