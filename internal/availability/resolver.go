package availability

import (
	"time"

	"github.com/Freeeeeet/musicmentor/internal/model"
)

// BufferDuration обязательный перерыв ментора после каждой сессии
const BufferDuration = 15 * time.Minute

// Overlaps проверяет пересечение окна [start, end) с записью с учётом буфера
// после её окончания. Учитываются только активные записи на конкретный слот.
func Overlaps(start, end time.Time, booking *model.Booking) bool {
	if booking == nil || !booking.Status.IsActive() {
		return false
	}
	ts, ok := booking.TimeSlot()
	if !ok {
		return false
	}
	return start.Before(ts.End.Add(BufferDuration)) && end.After(ts.Start)
}

// Resolve возвращает копию slots, где Available сброшен у слотов,
// пересекающихся с активными записями того же ментора
func Resolve(slots []model.CandidateSlot, bookings []*model.Booking) []model.CandidateSlot {
	resolved := make([]model.CandidateSlot, len(slots))
	copy(resolved, slots)

	for i := range resolved {
		slot := &resolved[i]
		slot.Available = true
		for _, b := range bookings {
			if b == nil || b.MentorID != slot.MentorID {
				continue
			}
			if Overlaps(slot.Start, slot.End, b) {
				slot.Available = false
				break
			}
		}
	}

	return resolved
}

// OnlyAvailable оставляет только свободные слоты
func OnlyAvailable(slots []model.CandidateSlot) []model.CandidateSlot {
	var out []model.CandidateSlot
	for _, s := range slots {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}
