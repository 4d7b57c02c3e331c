package availability

import (
	"testing"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 2026-10-19 - понедельник
var (
	monday   = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	tuesday  = monday.AddDate(0, 0, 1)
	nextMon  = monday.AddDate(0, 0, 7)
	nopGen   = NewGenerator(Options{}, zap.NewNop())
	at       = func(day time.Time, h, m int) time.Time { return CombineDateAndTime(day, h, m) }
	mentorID = int64(7)
)

func mondayTemplate(ranges ...model.TimeRange) *model.WeeklyTemplate {
	tmpl := &model.WeeklyTemplate{MentorID: mentorID, SessionDuration: 15}
	tmpl.SetDay(time.Monday, model.DaySchedule{Available: true, Slots: ranges})
	return tmpl
}

func starts(slots []model.CandidateSlot) []time.Time {
	out := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start)
	}
	return out
}

func TestGenerateSingleMondayBlock(t *testing.T) {
	tmpl := mondayTemplate(model.TimeRange{Start: "14:00", End: "15:00"})

	res := nopGen.Generate(tmpl, 6, at(tuesday, 10, 0))

	require.Len(t, res.Slots, 4)
	assert.Empty(t, res.Anomalies)
	want := []time.Time{at(nextMon, 14, 0), at(nextMon, 14, 15), at(nextMon, 14, 30), at(nextMon, 14, 45)}
	assert.Equal(t, want, starts(res.Slots))
	for _, s := range res.Slots {
		assert.Equal(t, 15*time.Minute, s.End.Sub(s.Start))
		assert.True(t, s.Available)
		assert.Equal(t, mentorID, s.MentorID)
	}
}

func TestGenerateHorizonIsInclusive(t *testing.T) {
	tmpl := mondayTemplate(model.TimeRange{Start: "14:00", End: "15:00"})

	res := nopGen.Generate(tmpl, 7, at(monday, 9, 0))

	assert.Len(t, res.Slots, 8)
	assert.Equal(t, at(nextMon, 14, 45), res.Slots[7].Start)
}

func TestGenerateDropsPastAndRunningSlots(t *testing.T) {
	tmpl := mondayTemplate(model.TimeRange{Start: "14:00", End: "15:00"})
	now := at(monday, 14, 20)

	res := nopGen.Generate(tmpl, 0, now)

	assert.Equal(t, []time.Time{at(monday, 14, 30), at(monday, 14, 45)}, starts(res.Slots))
	for _, s := range res.Slots {
		assert.True(t, s.End.After(now))
		assert.True(t, s.Start.After(now))
	}
}

func TestGenerateSlotStartingNowIsDropped(t *testing.T) {
	tmpl := mondayTemplate(model.TimeRange{Start: "14:00", End: "14:30"})

	res := nopGen.Generate(tmpl, 0, at(monday, 14, 15))

	assert.Empty(t, res.Slots)
}

func TestGenerateSkipsBlockedDates(t *testing.T) {
	tmpl := mondayTemplate(model.TimeRange{Start: "14:00", End: "15:00"})
	tmpl.BlockedDates = []string{"2026-10-26"}

	res := nopGen.Generate(tmpl, 7, at(monday, 9, 0))

	require.Len(t, res.Slots, 4)
	for _, s := range res.Slots {
		assert.NotEqual(t, "2026-10-26", DateKey(s.Start))
	}
}

func TestGenerateSkipsUnavailableDays(t *testing.T) {
	tmpl := &model.WeeklyTemplate{MentorID: mentorID}
	tmpl.SetDay(time.Monday, model.DaySchedule{Available: false, Slots: []model.TimeRange{{Start: "14:00", End: "15:00"}}})
	tmpl.SetDay(time.Tuesday, model.DaySchedule{Available: true})

	res := nopGen.Generate(tmpl, 14, at(monday, 9, 0))

	assert.Empty(t, res.Slots)
	assert.Empty(t, res.Anomalies)
}

func TestGenerateToleratesMalformedRanges(t *testing.T) {
	tmpl := mondayTemplate(
		model.TimeRange{Start: "15:00", End: "14:00"},
		model.TimeRange{Start: "14:00", End: "14:30"},
	)
	tmpl.SetDay(time.Tuesday, model.DaySchedule{Available: true, Slots: []model.TimeRange{{Start: "bad", End: "10:00"}}})

	res := nopGen.Generate(tmpl, 6, at(tuesday, 8, 0))

	assert.Equal(t, []time.Time{at(nextMon, 14, 0), at(nextMon, 14, 15)}, starts(res.Slots))
	require.Len(t, res.Anomalies, 2)
	assert.Equal(t, "2026-10-20", res.Anomalies[0].Date)
	assert.Equal(t, "2026-10-26", res.Anomalies[1].Date)
}

func TestGenerateOvershootIsKeptByDefault(t *testing.T) {
	tmpl := mondayTemplate(model.TimeRange{Start: "14:00", End: "14:50"})

	res := nopGen.Generate(tmpl, 0, at(monday, 9, 0))

	require.Len(t, res.Slots, 4)
	last := res.Slots[3]
	assert.Equal(t, at(monday, 14, 45), last.Start)
	assert.Equal(t, at(monday, 15, 0), last.End)
}

func TestGenerateTruncateOvershoot(t *testing.T) {
	tmpl := mondayTemplate(model.TimeRange{Start: "14:00", End: "14:50"})
	gen := NewGenerator(Options{TruncateOvershoot: true}, nil)

	res := gen.Generate(tmpl, 0, at(monday, 9, 0))

	require.Len(t, res.Slots, 3)
	assert.False(t, res.Slots[2].End.After(at(monday, 14, 50)))
}

func TestGenerateSortsAcrossRanges(t *testing.T) {
	tmpl := mondayTemplate(
		model.TimeRange{Start: "16:00", End: "16:30"},
		model.TimeRange{Start: "14:00", End: "14:30"},
		model.TimeRange{Start: "14:15", End: "14:45"},
	)

	res := nopGen.Generate(tmpl, 0, at(monday, 9, 0))

	want := []time.Time{at(monday, 14, 0), at(monday, 14, 15), at(monday, 14, 30), at(monday, 16, 0), at(monday, 16, 15)}
	assert.Equal(t, want, starts(res.Slots))
}

func TestGenerateCustomSessionDuration(t *testing.T) {
	tmpl := mondayTemplate(model.TimeRange{Start: "14:00", End: "15:00"})
	tmpl.SessionDuration = 30

	res := nopGen.Generate(tmpl, 0, at(monday, 9, 0))

	require.Len(t, res.Slots, 2)
	for _, s := range res.Slots {
		assert.Equal(t, 30*time.Minute, s.End.Sub(s.Start))
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	tmpl := mondayTemplate(model.TimeRange{Start: "10:00", End: "12:00"}, model.TimeRange{Start: "18:00", End: "19:00"})
	now := at(tuesday, 10, 0)

	first := nopGen.Generate(tmpl, 21, now)
	second := nopGen.Generate(tmpl, 21, now)

	require.NotEmpty(t, first.Slots)
	assert.Equal(t, first.Slots, second.Slots)

	other := *tmpl
	other.MentorID = mentorID + 1
	third := nopGen.Generate(&other, 21, now)
	require.Len(t, third.Slots, len(first.Slots))
	assert.NotEqual(t, first.Slots[0].SlotID, third.Slots[0].SlotID)
}

func TestGenerateNilTemplate(t *testing.T) {
	res := nopGen.Generate(nil, 14, at(monday, 9, 0))

	assert.Empty(t, res.Slots)
}
