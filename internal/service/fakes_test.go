package service

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/availability"
	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/Freeeeeet/musicmentor/internal/repository"
	"github.com/Freeeeeet/musicmentor/internal/video"
)

var testNow = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[int64]*model.Booking
	nextID   int64
	writes   int
	listErr  error
	guarded  []time.Duration
	setVideo []*model.VideoRoom
}

func newFakeBookingStore(existing ...*model.Booking) *fakeBookingStore {
	s := &fakeBookingStore{bookings: make(map[int64]*model.Booking), nextID: 100}
	for _, b := range existing {
		s.bookings[b.ID] = b
	}
	return s
}

func (s *fakeBookingStore) Create(ctx context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.nextID++
	b.ID = s.nextID
	b.CreatedAt = testNow
	stored := *b
	s.bookings[b.ID] = &stored
	return nil
}

func (s *fakeBookingStore) CreateGuarded(ctx context.Context, b *model.Booking, buffer time.Duration) error {
	s.mu.Lock()
	s.guarded = append(s.guarded, buffer)
	ts, _ := b.TimeSlot()
	for _, other := range s.bookings {
		if other.MentorID == b.MentorID && availability.Overlaps(ts.Start, ts.End, other) {
			s.writes++
			s.mu.Unlock()
			return repository.ErrSlotConflict
		}
	}
	s.mu.Unlock()
	return s.Create(ctx, b)
}

func (s *fakeBookingStore) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (s *fakeBookingStore) ListByMentor(ctx context.Context, mentorID int64, statuses ...model.BookingStatus) ([]*model.Booking, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Booking
	for _, b := range s.bookings {
		if b.MentorID != mentorID {
			continue
		}
		if len(statuses) == 0 || containsStatus(statuses, b.Status) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func containsStatus(statuses []model.BookingStatus, s model.BookingStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func (s *fakeBookingStore) ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Booking
	for _, b := range s.bookings {
		if b.StudentID == studentID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) ListConfirmedEndedBefore(ctx context.Context, t time.Time) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Booking
	for _, b := range s.bookings {
		ts, ok := b.TimeSlot()
		if ok && b.Status == model.BookingStatusConfirmed && ts.End.Before(t) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) UpdateStatus(ctx context.Context, id int64, from, to model.BookingStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	b, ok := s.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (s *fakeBookingStore) SetVideoRoom(ctx context.Context, id int64, room *model.VideoRoom) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setVideo = append(s.setVideo, room)
	if b, ok := s.bookings[id]; ok {
		b.Video = room
	}
	return nil
}

type fakeUsers map[int64]*model.User

func (f fakeUsers) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return f[id], nil
}

type fakeHolds struct {
	held     map[string]int64
	err      error
	released []string
}

func newFakeHolds() *fakeHolds {
	return &fakeHolds{held: make(map[string]int64)}
}

func (h *fakeHolds) Acquire(ctx context.Context, slotID string, studentID int64) (bool, error) {
	if h.err != nil {
		return false, h.err
	}
	if owner, ok := h.held[slotID]; ok && owner != studentID {
		return false, nil
	}
	h.held[slotID] = studentID
	return true, nil
}

func (h *fakeHolds) Release(ctx context.Context, slotID string, studentID int64) error {
	h.released = append(h.released, slotID)
	if h.held[slotID] == studentID {
		delete(h.held, slotID)
	}
	return nil
}

type sentNotification struct {
	userID  int64
	kind    model.NotificationKind
	payload map[string]string
}

type fakeNotifier struct {
	sent []sentNotification
}

func (n *fakeNotifier) Notify(ctx context.Context, userID int64, kind model.NotificationKind, payload map[string]string) {
	n.sent = append(n.sent, sentNotification{userID: userID, kind: kind, payload: payload})
}

type fakeRooms struct {
	err   error
	calls int
}

func (r *fakeRooms) ProvisionRoom(ctx context.Context, bookingID int64, details video.RoomDetails) (*video.RoomInfo, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	name := video.RoomName()
	return &video.RoomInfo{Name: name, URL: "https://mm.daily.co/" + name}, nil
}

type fakeTemplates struct {
	tmpl  *model.WeeklyTemplate
	err   error
	saved int
}

func (f *fakeTemplates) GetTemplate(ctx context.Context, mentorID int64) (*model.WeeklyTemplate, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.tmpl == nil {
		return nil, nil
	}
	cp := *f.tmpl
	return &cp, nil
}

func (f *fakeTemplates) SaveTemplate(ctx context.Context, tmpl *model.WeeklyTemplate) error {
	f.saved++
	cp := *tmpl
	f.tmpl = &cp
	return nil
}
