package model

import "time"

// CandidateSlot слот, сгенерированный из шаблона. В БД не хранится.
type CandidateSlot struct {
	SlotID    string    `json:"slot_id"`
	MentorID  int64     `json:"mentor_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// DateGroup слоты одной календарной даты
type DateGroup struct {
	Date  string          `json:"date"` // "2006-01-02"
	Slots []CandidateSlot `json:"slots"`
}
