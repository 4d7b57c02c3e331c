package availability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/model"
)

// DateLayout формат календарной даты, используемый в ключах и blocked dates
const DateLayout = "2006-01-02"

var ErrMalformedTime = errors.New("malformed time")

// ParseTime разбирает "HH:MM" в часы и минуты
func ParseTime(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	// Atoi допускает знак, поэтому цифры проверяются отдельно
	if !allDigits(parts[0]) || !allDigits(parts[1]) {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}

	return hours, minutes, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CombineDateAndTime возвращает момент времени в дату date в hours:minutes
// по локальным часам date.Location(). Секунды и наносекунды обнуляются.
func CombineDateAndTime(date time.Time, hours, minutes int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hours, minutes, 0, 0, date.Location())
}

// StartOfDay возвращает полночь дня t
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateKey форматирует дату как "2006-01-02"
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseRanges разбирает список вида "09:00-12:00,14:00-15:30".
// Каждый промежуток проверяется: оба времени корректны и конец позже начала.
func ParseRanges(s string) ([]model.TimeRange, error) {
	var ranges []model.TimeRange
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("%w: range %q", ErrMalformedTime, part)
		}

		start, end := strings.TrimSpace(bounds[0]), strings.TrimSpace(bounds[1])
		sh, sm, err := ParseTime(start)
		if err != nil {
			return nil, err
		}
		eh, em, err := ParseTime(end)
		if err != nil {
			return nil, err
		}
		if eh*60+em <= sh*60+sm {
			return nil, fmt.Errorf("%w: range %q ends before it starts", ErrMalformedTime, part)
		}

		ranges = append(ranges, model.TimeRange{
			Start: fmt.Sprintf("%02d:%02d", sh, sm),
			End:   fmt.Sprintf("%02d:%02d", eh, em),
		})
	}

	if len(ranges) == 0 {
		return nil, fmt.Errorf("%w: no ranges in %q", ErrMalformedTime, s)
	}

	return ranges, nil
}

// FormatRanges обратное к ParseRanges
func FormatRanges(ranges []model.TimeRange) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.Start + "-" + r.End
	}
	return strings.Join(parts, ", ")
}
