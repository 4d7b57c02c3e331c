package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// slotNamespace пространство имён для детерминированных идентификаторов слотов
var slotNamespace = uuid.MustParse("5b0f4a63-8c8e-4f5e-9a59-4d2d6f1c7a10")

// SlotID возвращает идентификатор слота: чистая функция ментора и начала слота
func SlotID(mentorID int64, start time.Time) string {
	name := fmt.Sprintf("%d:%d", mentorID, start.Unix())
	return uuid.NewSHA1(slotNamespace, []byte(name)).String()
}

// Anomaly пропущенный промежуток шаблона
type Anomaly struct {
	Date   string
	Range  model.TimeRange
	Reason string
}

// GenerationResult результат генерации слотов
type GenerationResult struct {
	Slots     []model.CandidateSlot
	Anomalies []Anomaly
}

// Options настройки генератора
type Options struct {
	// TruncateOvershoot отбрасывает последний слот промежутка, если его конец
	// выходит за конец промежутка. По умолчанию такой слот выдаётся.
	TruncateOvershoot bool
}

// Generator разворачивает недельный шаблон в конкретные слоты
type Generator struct {
	opts   Options
	logger *zap.Logger
}

func NewGenerator(opts Options, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{opts: opts, logger: logger}
}

// Generate строит слоты на даты от сегодняшней полуночи до today+horizonDays включительно.
// Слоты с началом не позже now отбрасываются. Результат отсортирован по началу.
func (g *Generator) Generate(tmpl *model.WeeklyTemplate, horizonDays int, now time.Time) GenerationResult {
	var result GenerationResult
	if tmpl == nil || horizonDays < 0 {
		return result
	}

	duration := tmpl.Duration()
	today := StartOfDay(now)
	seen := make(map[string]struct{})

	for i := 0; i <= horizonDays; i++ {
		// AddDate, а не Add(24h): корректно при переходе на летнее время
		date := today.AddDate(0, 0, i)
		dateKey := DateKey(date)

		if tmpl.IsBlocked(dateKey) {
			continue
		}

		day, ok := tmpl.Day(date.Weekday())
		if !ok || !day.Available || len(day.Slots) == 0 {
			continue
		}

		for _, tr := range day.Slots {
			blockStart, blockEnd, err := g.block(date, tr)
			if err != nil {
				g.logger.Warn("Skipping malformed availability range",
					zap.Int64("mentor_id", tmpl.MentorID),
					zap.String("date", dateKey),
					zap.String("start", tr.Start),
					zap.String("end", tr.End),
					zap.Error(err))
				result.Anomalies = append(result.Anomalies, Anomaly{Date: dateKey, Range: tr, Reason: err.Error()})
				continue
			}

			for cursor := blockStart; cursor.Before(blockEnd); cursor = cursor.Add(duration) {
				end := cursor.Add(duration)
				if g.opts.TruncateOvershoot && end.After(blockEnd) {
					break
				}
				if !cursor.After(now) {
					continue
				}

				id := SlotID(tmpl.MentorID, cursor)
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}

				result.Slots = append(result.Slots, model.CandidateSlot{
					SlotID:    id,
					MentorID:  tmpl.MentorID,
					Start:     cursor,
					End:       end,
					Available: true,
				})
			}
		}
	}

	sort.SliceStable(result.Slots, func(i, j int) bool {
		return result.Slots[i].Start.Before(result.Slots[j].Start)
	})

	return result
}

// block переводит промежуток шаблона в абсолютные границы на дату date
func (g *Generator) block(date time.Time, tr model.TimeRange) (time.Time, time.Time, error) {
	sh, sm, err := ParseTime(tr.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start: %w", err)
	}
	eh, em, err := ParseTime(tr.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse end: %w", err)
	}

	start := CombineDateAndTime(date, sh, sm)
	end := CombineDateAndTime(date, eh, em)
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("range end %s is not after start %s", tr.End, tr.Start)
	}

	return start, end, nil
}
