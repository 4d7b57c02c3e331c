package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/availability"
	"github.com/Freeeeeet/musicmentor/internal/model"
)

var errUsage = errors.New("usage")

// commandArgs аргументы после команды: "/setday monday 9:00-12:00" -> ["monday", "9:00-12:00"]
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}

// parseWeekday понимает полные и короткие названия: "monday", "Mon"
func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, fmt.Errorf("unknown weekday %q", s)
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		key := model.WeekdayKey(d)
		if s == key || s == key[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// parseDayRanges "off" -> пустой список, иначе "09:00-12:00,14:00-18:00"
func parseDayRanges(args []string) ([]model.TimeRange, error) {
	joined := strings.Join(args, "")
	if joined == "" {
		return nil, errUsage
	}
	if strings.EqualFold(joined, "off") {
		return nil, nil
	}
	return availability.ParseRanges(joined)
}

// parseDollars "25", "$25.5", "25.05" -> центы
func parseDollars(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, errUsage
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	dollars, err := strconv.Atoi(whole)
	if err != nil || dollars < 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	cents := 0
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.Atoi(frac)
		if err != nil || cents < 0 {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}

	return dollars*100 + cents, nil
}
