package handlers

import (
	"testing"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandArgs(t *testing.T) {
	assert.Nil(t, commandArgs("/setday"))
	assert.Equal(t, []string{"monday", "09:00-12:00"}, commandArgs("/setday  monday 09:00-12:00"))
}

func TestParseWeekday(t *testing.T) {
	d, err := parseWeekday("Monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d)

	d, err = parseWeekday("sun")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, d)

	_, err = parseWeekday("mo")
	assert.Error(t, err)
	_, err = parseWeekday("funday")
	assert.Error(t, err)
}

func TestParseDayRanges(t *testing.T) {
	ranges, err := parseDayRanges([]string{"OFF"})
	require.NoError(t, err)
	assert.Empty(t, ranges)

	ranges, err = parseDayRanges([]string{"9:00-12:00,", "14:00-18:00"})
	require.NoError(t, err)
	assert.Equal(t, []model.TimeRange{{Start: "09:00", End: "12:00"}, {Start: "14:00", End: "18:00"}}, ranges)

	_, err = parseDayRanges(nil)
	assert.ErrorIs(t, err, errUsage)

	_, err = parseDayRanges([]string{"12:00-09:00"})
	assert.Error(t, err)
}

func TestParseDollars(t *testing.T) {
	cases := map[string]int{
		"25":     2500,
		"$25":    2500,
		"25.5":   2550,
		"25.05":  2505,
		"0":      0,
		" 7.00 ": 700,
	}
	for in, want := range cases {
		got, err := parseDollars(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "abc", "-5", "1.234", "1.", "1.x"} {
		_, err := parseDollars(bad)
		assert.Error(t, err, bad)
	}
}
