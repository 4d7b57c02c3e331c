package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/availability"
	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/Freeeeeet/musicmentor/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	mentorID  int64 = 7
	studentID int64 = 11
)

type bookingFixture struct {
	svc       *BookingService
	store     *fakeBookingStore
	users     fakeUsers
	holds     *fakeHolds
	notifier  *fakeNotifier
	rooms     *fakeRooms
	templates *fakeTemplates
}

func newBookingFixture(existing ...*model.Booking) *bookingFixture {
	f := &bookingFixture{
		store: newFakeBookingStore(existing...),
		users: fakeUsers{
			mentorID:  {ID: mentorID, FirstName: "Ann", IsMentor: true, Instrument: "piano", Rate: 2500},
			studentID: {ID: studentID, FirstName: "Bob"},
		},
		holds:     newFakeHolds(),
		notifier:  &fakeNotifier{},
		rooms:     &fakeRooms{},
		templates: &fakeTemplates{tmpl: mondayAfternoon()},
	}
	slots := newSlotService(f.templates, f.store)
	f.svc = NewBookingService(f.store, f.users, slots, f.holds, f.notifier, f.rooms, time.UTC, zap.NewNop())
	f.svc.now = func() time.Time { return testNow }
	return f
}

func slotAt(hour, minute int) *model.CandidateSlot {
	start := time.Date(2026, 10, 19, hour, minute, 0, 0, time.UTC)
	return &model.CandidateSlot{
		SlotID:    availability.SlotID(mentorID, start),
		MentorID:  mentorID,
		Start:     start,
		End:       start.Add(15 * time.Minute),
		Available: true,
	}
}

func validDraft() model.BookingDraft {
	return model.BookingDraft{
		MentorID:  mentorID,
		StudentID: studentID,
		Message:   "  I'd like to work on jazz voicings ",
		Slot:      slotAt(14, 0),
	}
}

func TestSubmit_SlotBooking(t *testing.T) {
	f := newBookingFixture()

	b, err := f.svc.Submit(context.Background(), validDraft())
	require.NoError(t, err)

	assert.NotZero(t, b.ID)
	assert.Equal(t, model.BookingStatusPending, b.Status)
	assert.Equal(t, "I'd like to work on jazz voicings", b.Message)
	assert.Equal(t, 2500, b.Rate)

	ts, ok := b.TimeSlot()
	require.True(t, ok)
	assert.Equal(t, slotAt(14, 0).Start, ts.Start)

	assert.Equal(t, []time.Duration{availability.BufferDuration}, f.store.guarded)
	assert.Empty(t, f.holds.held, "hold is released after submit")

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, mentorID, f.notifier.sent[0].userID)
	assert.Equal(t, model.NotificationBookingRequested, f.notifier.sent[0].kind)
	assert.Equal(t, "Bob", f.notifier.sent[0].payload[notify.KeyStudentName])
}

func TestSubmit_RateIsCapturedByValue(t *testing.T) {
	f := newBookingFixture()

	b, err := f.svc.Submit(context.Background(), validDraft())
	require.NoError(t, err)

	f.users[mentorID].Rate = 9900

	stored, err := f.store.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2500, stored.Rate)
}

func TestSubmit_RejectsBeforeAnyWrite(t *testing.T) {
	cases := map[string]func(d *model.BookingDraft){
		"empty message":      func(d *model.BookingDraft) { d.Message = "" },
		"whitespace message": func(d *model.BookingDraft) { d.Message = " \n\t " },
		"missing student":    func(d *model.BookingDraft) { d.StudentID = 0 },
		"missing mentor":     func(d *model.BookingDraft) { d.MentorID = 0 },
		"self booking":       func(d *model.BookingDraft) { d.StudentID = mentorID },
		"no schedule":        func(d *model.BookingDraft) { d.Slot = nil },
		"bad preference": func(d *model.BookingDraft) {
			d.Slot = nil
			d.Preference = "midnight"
		},
		"foreign slot": func(d *model.BookingDraft) { d.Slot.MentorID = 99 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newBookingFixture()
			d := validDraft()
			mutate(&d)

			_, err := f.svc.Submit(context.Background(), d)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Zero(t, f.store.writes)
			assert.Empty(t, f.notifier.sent)
		})
	}
}

func TestSubmit_PastSlot(t *testing.T) {
	f := newBookingFixture()
	d := validDraft()
	d.Slot = slotAt(7, 45)

	_, err := f.svc.Submit(context.Background(), d)

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Zero(t, f.store.writes)
}

func TestSubmit_SlotMustBeOfferedByTemplate(t *testing.T) {
	cases := map[string]func(d *model.BookingDraft){
		"outside template": func(d *model.BookingDraft) { d.Slot = slotAt(18, 0) },
		"stretched window": func(d *model.BookingDraft) { d.Slot.End = d.Slot.Start.Add(2 * time.Hour) },
		"shifted start": func(d *model.BookingDraft) {
			d.Slot.Start = d.Slot.Start.Add(5 * time.Minute)
			d.Slot.End = d.Slot.End.Add(5 * time.Minute)
		},
		"forged slot id": func(d *model.BookingDraft) { d.Slot.SlotID = "not-a-slot" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newBookingFixture()
			d := validDraft()
			mutate(&d)

			_, err := f.svc.Submit(context.Background(), d)

			assert.ErrorIs(t, err, ErrSlotUnavailable)
			assert.Zero(t, f.store.writes)
			assert.Empty(t, f.notifier.sent)
		})
	}
}

func TestSubmit_SlotWithoutIDIsMatchedByStart(t *testing.T) {
	f := newBookingFixture()
	d := validDraft()
	d.Slot.SlotID = ""

	b, err := f.svc.Submit(context.Background(), d)

	require.NoError(t, err)
	assert.NotZero(t, b.ID)
}

func TestSubmit_TemplateOutageBlocksSlotBooking(t *testing.T) {
	f := newBookingFixture()
	f.templates.err = errors.New("timeout")

	_, err := f.svc.Submit(context.Background(), validDraft())

	assert.ErrorIs(t, err, ErrTemplateUnavailable)
	assert.Zero(t, f.store.writes)
}

func TestSubmit_UnknownMentor(t *testing.T) {
	f := newBookingFixture()
	f.users[mentorID].IsMentor = false

	_, err := f.svc.Submit(context.Background(), validDraft())

	assert.ErrorIs(t, err, ErrMentorNotFound)
	assert.Zero(t, f.store.writes)
}

func TestSubmit_OverlapIsRejectedAtWrite(t *testing.T) {
	existing := &model.Booking{
		ID:        1,
		MentorID:  mentorID,
		StudentID: 12,
		Status:    model.BookingStatusConfirmed,
		Schedule:  model.TimeSlotSchedule{Start: slotAt(14, 15).Start, End: slotAt(14, 15).End},
	}
	f := newBookingFixture(existing)
	d := validDraft()
	d.Slot = slotAt(14, 30)

	_, err := f.svc.Submit(context.Background(), d)

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Empty(t, f.notifier.sent)
}

func TestSubmit_SlotHeldByAnotherStudent(t *testing.T) {
	f := newBookingFixture()
	d := validDraft()
	f.holds.held[d.Slot.SlotID] = 42

	_, err := f.svc.Submit(context.Background(), d)

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Zero(t, f.store.writes)
}

func TestSubmit_HoldOutageFallsBackToStoreGuard(t *testing.T) {
	f := newBookingFixture()
	f.holds.err = errors.New("redis down")

	b, err := f.svc.Submit(context.Background(), validDraft())

	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Len(t, f.store.guarded, 1)
}

func TestSubmit_PreferenceBooking(t *testing.T) {
	f := newBookingFixture()
	d := validDraft()
	d.Slot = nil
	d.Preference = model.PreferenceEvening

	b, err := f.svc.Submit(context.Background(), d)
	require.NoError(t, err)

	p, ok := b.Preference()
	require.True(t, ok)
	assert.Equal(t, model.PreferenceEvening, p)
	assert.Empty(t, f.store.guarded)
}

func pendingBooking(withVideo bool) *model.Booking {
	slot := slotAt(14, 0)
	return &model.Booking{
		ID:             5,
		MentorID:       mentorID,
		StudentID:      studentID,
		Status:         model.BookingStatusPending,
		Message:        "hello",
		VideoPreferred: withVideo,
		Schedule:       model.TimeSlotSchedule{Start: slot.Start, End: slot.End},
	}
}

func TestConfirm_WithVideo(t *testing.T) {
	f := newBookingFixture(pendingBooking(true))

	b, err := f.svc.Confirm(context.Background(), 5, mentorID)
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusConfirmed, b.Status)
	require.True(t, b.Video.Ready())
	assert.Equal(t, 1, f.rooms.calls)

	require.Len(t, f.notifier.sent, 1)
	n := f.notifier.sent[0]
	assert.Equal(t, studentID, n.userID)
	assert.Equal(t, model.NotificationBookingConfirmed, n.kind)
	assert.Equal(t, b.Video.URL, n.payload[notify.KeyVideoURL])
}

func TestConfirm_VideoFailureKeepsConfirmation(t *testing.T) {
	f := newBookingFixture(pendingBooking(true))
	f.rooms.err = errors.New("daily: 503")

	b, err := f.svc.Confirm(context.Background(), 5, mentorID)
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusConfirmed, b.Status)
	require.NotNil(t, b.Video)
	assert.Equal(t, model.VideoRoomFailed, b.Video.Status)
	assert.Contains(t, b.Video.Error, "503")

	stored, _ := f.store.GetByID(context.Background(), 5)
	assert.Equal(t, model.BookingStatusConfirmed, stored.Status)
	assert.Equal(t, model.VideoRoomFailed, stored.Video.Status)

	require.Len(t, f.notifier.sent, 1)
	assert.Empty(t, f.notifier.sent[0].payload[notify.KeyVideoURL])
}

func TestConfirm_WithoutVideoSkipsProvisioning(t *testing.T) {
	f := newBookingFixture(pendingBooking(false))

	b, err := f.svc.Confirm(context.Background(), 5, mentorID)
	require.NoError(t, err)

	assert.Nil(t, b.Video)
	assert.Zero(t, f.rooms.calls)
}

func TestConfirm_Errors(t *testing.T) {
	f := newBookingFixture(pendingBooking(false))

	_, err := f.svc.Confirm(context.Background(), 404, mentorID)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = f.svc.Confirm(context.Background(), 5, 99)
	assert.ErrorIs(t, err, ErrNotBookingOwner)

	_, err = f.svc.Decline(context.Background(), 5, mentorID)
	require.NoError(t, err)

	_, err = f.svc.Confirm(context.Background(), 5, mentorID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDecline(t *testing.T) {
	f := newBookingFixture(pendingBooking(true))

	b, err := f.svc.Decline(context.Background(), 5, mentorID)
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusDeclined, b.Status)
	assert.Zero(t, f.rooms.calls)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, model.NotificationBookingDeclined, f.notifier.sent[0].kind)
	assert.Equal(t, "Ann", f.notifier.sent[0].payload[notify.KeyMentorName])

	_, err = f.svc.Decline(context.Background(), 5, mentorID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestComplete_OnlyFromConfirmed(t *testing.T) {
	f := newBookingFixture(pendingBooking(false))

	_, err := f.svc.Complete(context.Background(), 5, mentorID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.Complete(context.Background(), 5, mentorID+1)
	assert.ErrorIs(t, err, ErrNotBookingOwner)

	_, err = f.svc.Confirm(context.Background(), 5, mentorID)
	require.NoError(t, err)

	b, err := f.svc.Complete(context.Background(), 5, mentorID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCompleted, b.Status)
}

func TestCompleteFinished(t *testing.T) {
	finished := pendingBooking(false)
	finished.Status = model.BookingStatusConfirmed

	upcoming := pendingBooking(false)
	upcoming.ID = 6
	upcoming.Status = model.BookingStatusConfirmed
	upcoming.Schedule = model.TimeSlotSchedule{Start: slotAt(18, 0).Start, End: slotAt(18, 0).End}

	f := newBookingFixture(finished, upcoming)

	n, err := f.svc.CompleteFinished(context.Background(), time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	done, _ := f.store.GetByID(context.Background(), 5)
	assert.Equal(t, model.BookingStatusCompleted, done.Status)
	later, _ := f.store.GetByID(context.Background(), 6)
	assert.Equal(t, model.BookingStatusConfirmed, later.Status)
}

func TestPendingForMentor_AttachesParticipants(t *testing.T) {
	f := newBookingFixture(pendingBooking(false))

	pending, err := f.svc.PendingForMentor(context.Background(), mentorID)
	require.NoError(t, err)

	require.Len(t, pending, 1)
	assert.Equal(t, "Bob", pending[0].Student.DisplayName())
	assert.Equal(t, "Ann", pending[0].Mentor.DisplayName())
}

func TestFormatSchedule(t *testing.T) {
	b := pendingBooking(false)
	assert.Equal(t, "Mon 19 Oct 14:00-14:15", FormatSchedule(b, time.UTC))

	b.Schedule = model.PreferenceSchedule{Preference: model.PreferenceMorning}
	assert.Equal(t, "preferred: morning", FormatSchedule(b, time.UTC))
}
