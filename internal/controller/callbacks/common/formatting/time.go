package formatting

import (
	"fmt"
	"time"
)

// FormatDateKey "2026-10-19" -> "Mon 19 Oct"
func FormatDateKey(key string, loc *time.Location) string {
	d, err := time.ParseInLocation("2006-01-02", key, loc)
	if err != nil {
		return key
	}
	return d.Format("Mon 02 Jan")
}

// FormatTime форматирует только время
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d h", hours)
	}
	return fmt.Sprintf("%d h %d min", hours, mins)
}

// WeekdayOrder дни недели, начиная с понедельника
var WeekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}
