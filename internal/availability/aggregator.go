package availability

import (
	"sort"

	"github.com/Freeeeeet/musicmentor/internal/model"
)

// DefaultMaxDates ограничение количества дат в выдаче (для отображения)
const DefaultMaxDates = 14

// GroupByDate группирует слоты по календарной дате начала.
// Группы идут по возрастанию даты, их не больше maxDates (<= 0 - DefaultMaxDates).
func GroupByDate(slots []model.CandidateSlot, maxDates int) []model.DateGroup {
	if maxDates <= 0 {
		maxDates = DefaultMaxDates
	}

	byDate := make(map[string][]model.CandidateSlot)
	for _, s := range slots {
		key := DateKey(s.Start)
		byDate[key] = append(byDate[key], s)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	if len(dates) > maxDates {
		dates = dates[:maxDates]
	}

	groups := make([]model.DateGroup, 0, len(dates))
	for _, d := range dates {
		daySlots := byDate[d]
		sort.SliceStable(daySlots, func(i, j int) bool {
			return daySlots[i].Start.Before(daySlots[j].Start)
		})
		groups = append(groups, model.DateGroup{Date: d, Slots: daySlots})
	}

	return groups
}

// FindGroup ищет группу по дате
func FindGroup(groups []model.DateGroup, date string) (model.DateGroup, bool) {
	for _, g := range groups {
		if g.Date == date {
			return g, true
		}
	}
	return model.DateGroup{}, false
}
