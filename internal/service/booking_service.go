package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/availability"
	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/Freeeeeet/musicmentor/internal/notify"
	"github.com/Freeeeeet/musicmentor/internal/repository"
	"github.com/Freeeeeet/musicmentor/internal/video"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// BookingStore хранилище записей
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	CreateGuarded(ctx context.Context, b *model.Booking, buffer time.Duration) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ListByMentor(ctx context.Context, mentorID int64, statuses ...model.BookingStatus) ([]*model.Booking, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error)
	ListConfirmedEndedBefore(ctx context.Context, t time.Time) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to model.BookingStatus) (bool, error)
	SetVideoRoom(ctx context.Context, id int64, room *model.VideoRoom) error
}

// UserReader чтение пользователей
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// SlotHolder короткое удержание слота на время создания записи
type SlotHolder interface {
	Acquire(ctx context.Context, slotID string, studentID int64) (bool, error)
	Release(ctx context.Context, slotID string, studentID int64) error
}

// Notifier отправка уведомлений, без ожидания результата
type Notifier interface {
	Notify(ctx context.Context, userID int64, kind model.NotificationKind, payload map[string]string)
}

// SlotVerifier проверяет, что слот действительно предлагается ментором
type SlotVerifier interface {
	VerifySlot(ctx context.Context, mentorID int64, slot model.CandidateSlot) error
}

// RoomProvisioner создание видеокомнаты
type RoomProvisioner interface {
	ProvisionRoom(ctx context.Context, bookingID int64, details video.RoomDetails) (*video.RoomInfo, error)
}

type BookingService struct {
	bookings BookingStore
	users    UserReader
	slots    SlotVerifier
	holds    SlotHolder
	notifier Notifier
	rooms    RoomProvisioner
	validate *validator.Validate
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

func NewBookingService(
	bookings BookingStore,
	users UserReader,
	slots SlotVerifier,
	holds SlotHolder,
	notifier Notifier,
	rooms RoomProvisioner,
	loc *time.Location,
	logger *zap.Logger,
) *BookingService {
	if loc == nil {
		loc = time.Local
	}
	return &BookingService{
		bookings: bookings,
		users:    users,
		slots:    slots,
		holds:    holds,
		notifier: notifier,
		rooms:    rooms,
		validate: validator.New(),
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// validateDraft проверяет черновик; ничего не пишет
func (s *BookingService) validateDraft(draft *model.BookingDraft) error {
	draft.Message = strings.TrimSpace(draft.Message)

	if err := s.validate.Struct(draft); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return invalid(fe.Field(), describeTag(fe.Tag(), fe.Param()))
		}
		return fmt.Errorf("validate draft: %w", err)
	}

	switch {
	case draft.Slot != nil:
		if draft.Slot.MentorID != 0 && draft.Slot.MentorID != draft.MentorID {
			return invalid("Slot", "slot belongs to another mentor")
		}
		if !draft.Slot.End.After(draft.Slot.Start) {
			return invalid("Slot", "slot end must be after start")
		}
	case draft.Preference != "":
		if !draft.Preference.Valid() {
			return invalid("Preference", "unknown time preference")
		}
	default:
		return invalid("Schedule", "choose a time slot or a time preference")
	}

	return nil
}

func describeTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + param + " characters"
	case "gt":
		return "must be greater than " + param
	case "nefield":
		return "must differ from " + param
	}
	return "failed " + tag
}

// Submit создаёт запись в статусе pending.
// Для слота: слот должен быть в будущем, удерживается в Redis и
// сохраняется с проверкой пересечений в БД.
func (s *BookingService) Submit(ctx context.Context, draft model.BookingDraft) (*model.Booking, error) {
	if err := s.validateDraft(&draft); err != nil {
		return nil, err
	}

	if draft.Slot != nil {
		if !draft.Slot.Start.After(s.now()) {
			return nil, ErrSlotUnavailable
		}
		if draft.Slot.SlotID == "" {
			draft.Slot.SlotID = availability.SlotID(draft.MentorID, draft.Slot.Start)
		}
		if err := s.slots.VerifySlot(ctx, draft.MentorID, *draft.Slot); err != nil {
			if errors.Is(err, ErrSlotUnavailable) {
				s.logger.Warn("Submitted slot is not offered",
					zap.Int64("mentor_id", draft.MentorID),
					zap.String("slot_id", draft.Slot.SlotID))
			}
			return nil, err
		}
	}

	mentor, err := s.users.GetByID(ctx, draft.MentorID)
	if err != nil {
		return nil, fmt.Errorf("get mentor: %w", err)
	}
	if mentor == nil || !mentor.IsMentor {
		return nil, ErrMentorNotFound
	}

	student, err := s.users.GetByID(ctx, draft.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, invalid("StudentID", "unknown student")
	}

	booking := &model.Booking{
		MentorID:       draft.MentorID,
		StudentID:      draft.StudentID,
		Status:         model.BookingStatusPending,
		Message:        draft.Message,
		VideoPreferred: draft.VideoPreferred,
		Rate:           mentor.Rate,
	}

	if draft.Slot != nil {
		booking.Schedule = model.TimeSlotSchedule{Start: draft.Slot.Start, End: draft.Slot.End}
		if err := s.createForSlot(ctx, booking, draft.Slot.SlotID); err != nil {
			return nil, err
		}
	} else {
		booking.Schedule = model.PreferenceSchedule{Preference: draft.Preference}
		if err := s.bookings.Create(ctx, booking); err != nil {
			return nil, fmt.Errorf("create booking: %w", err)
		}
	}

	booking.Mentor = mentor
	booking.Student = student

	s.logger.Info("Booking submitted",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("mentor_id", booking.MentorID),
		zap.Int64("student_id", booking.StudentID),
	)

	payload := s.payload(booking)
	payload[notify.KeyMessage] = booking.Message
	s.notifier.Notify(ctx, mentor.ID, model.NotificationBookingRequested, payload)

	return booking, nil
}

func (s *BookingService) createForSlot(ctx context.Context, booking *model.Booking, slotID string) error {
	held, err := s.holds.Acquire(ctx, slotID, booking.StudentID)
	if err != nil {
		// Удержание вспомогательное, проверка в БД остаётся
		s.logger.Warn("Slot hold unavailable", zap.String("slot_id", slotID), zap.Error(err))
	} else if !held {
		return ErrSlotUnavailable
	} else {
		defer func() {
			if err := s.holds.Release(context.WithoutCancel(ctx), slotID, booking.StudentID); err != nil {
				s.logger.Warn("Failed to release slot hold", zap.String("slot_id", slotID), zap.Error(err))
			}
		}()
	}

	if err := s.bookings.CreateGuarded(ctx, booking, availability.BufferDuration); err != nil {
		if errors.Is(err, repository.ErrSlotConflict) {
			return ErrSlotUnavailable
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// loadOwned загружает запись и проверяет что ею владеет ментор
func (s *BookingService) loadOwned(ctx context.Context, bookingID, mentorID int64) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if b.MentorID != mentorID {
		return nil, ErrNotBookingOwner
	}
	return b, nil
}

func (s *BookingService) transition(ctx context.Context, b *model.Booking, to model.BookingStatus) error {
	if !b.Status.CanTransitionTo(to) {
		return ErrInvalidTransition
	}

	ok, err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, to)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if !ok {
		// Статус уже изменён параллельно
		return ErrInvalidTransition
	}

	b.Status = to
	return nil
}

// Confirm подтверждает запись. Если студент просил видео, создаётся комната;
// ошибка создания сохраняется в записи и не отменяет подтверждение.
func (s *BookingService) Confirm(ctx context.Context, bookingID, mentorID int64) (*model.Booking, error) {
	b, err := s.loadOwned(ctx, bookingID, mentorID)
	if err != nil {
		return nil, err
	}

	if err := s.transition(ctx, b, model.BookingStatusConfirmed); err != nil {
		return nil, err
	}

	s.attachParticipants(ctx, b)

	if b.VideoPreferred {
		b.Video = s.provisionVideo(ctx, b)
		if err := s.bookings.SetVideoRoom(ctx, b.ID, b.Video); err != nil {
			s.logger.Error("Failed to save video room", zap.Int64("booking_id", b.ID), zap.Error(err))
		}
	}

	s.logger.Info("Booking confirmed",
		zap.Int64("booking_id", b.ID),
		zap.Int64("mentor_id", mentorID),
		zap.Bool("video_ready", b.Video.Ready()),
	)

	payload := s.payload(b)
	if b.Video.Ready() {
		payload[notify.KeyVideoURL] = b.Video.URL
	}
	s.notifier.Notify(ctx, b.StudentID, model.NotificationBookingConfirmed, payload)

	return b, nil
}

func (s *BookingService) provisionVideo(ctx context.Context, b *model.Booking) *model.VideoRoom {
	details := video.RoomDetails{}
	if ts, ok := b.TimeSlot(); ok {
		details.Start = ts.Start
		details.End = ts.End
	}
	if b.Mentor != nil {
		details.MentorName = b.Mentor.DisplayName()
	}
	if b.Student != nil {
		details.StudentName = b.Student.DisplayName()
	}

	if s.rooms == nil {
		return &model.VideoRoom{Status: model.VideoRoomFailed, Error: video.ErrNotConfigured.Error()}
	}

	room, err := s.rooms.ProvisionRoom(ctx, b.ID, details)
	if err != nil {
		s.logger.Warn("Video room provisioning failed", zap.Int64("booking_id", b.ID), zap.Error(err))
		return &model.VideoRoom{Status: model.VideoRoomFailed, Error: err.Error()}
	}

	return &model.VideoRoom{Status: model.VideoRoomReady, Name: room.Name, URL: room.URL}
}

// Decline отклоняет запись
func (s *BookingService) Decline(ctx context.Context, bookingID, mentorID int64) (*model.Booking, error) {
	b, err := s.loadOwned(ctx, bookingID, mentorID)
	if err != nil {
		return nil, err
	}

	if err := s.transition(ctx, b, model.BookingStatusDeclined); err != nil {
		return nil, err
	}

	s.attachParticipants(ctx, b)

	s.logger.Info("Booking declined", zap.Int64("booking_id", b.ID), zap.Int64("mentor_id", mentorID))
	s.notifier.Notify(ctx, b.StudentID, model.NotificationBookingDeclined, s.payload(b))

	return b, nil
}

// Complete ментор вручную отмечает подтверждённое занятие проведённым
func (s *BookingService) Complete(ctx context.Context, bookingID, mentorID int64) (*model.Booking, error) {
	b, err := s.loadOwned(ctx, bookingID, mentorID)
	if err != nil {
		return nil, err
	}

	if err := s.complete(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *BookingService) complete(ctx context.Context, b *model.Booking) error {
	if err := s.transition(ctx, b, model.BookingStatusCompleted); err != nil {
		return err
	}

	s.attachParticipants(ctx, b)
	s.logger.Info("Booking completed", zap.Int64("booking_id", b.ID))
	s.notifier.Notify(ctx, b.StudentID, model.NotificationBookingCompleted, s.payload(b))

	return nil
}

// CompleteFinished завершает все подтверждённые записи, закончившиеся до now.
// Возвращает количество завершённых записей.
func (s *BookingService) CompleteFinished(ctx context.Context, now time.Time) (int, error) {
	finished, err := s.bookings.ListConfirmedEndedBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list finished bookings: %w", err)
	}

	completed := 0
	for _, b := range finished {
		if err := s.complete(ctx, b); err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			s.logger.Error("Failed to complete booking", zap.Int64("booking_id", b.ID), zap.Error(err))
			continue
		}
		completed++
	}

	return completed, nil
}

// StudentBookings все записи студента, новые первыми
func (s *BookingService) StudentBookings(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	bookings, err := s.bookings.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list student bookings: %w", err)
	}

	s.attachParticipants(ctx, bookings...)
	return bookings, nil
}

// MentorBookings записи ментора с указанными статусами (без статусов - все)
func (s *BookingService) MentorBookings(ctx context.Context, mentorID int64, statuses ...model.BookingStatus) ([]*model.Booking, error) {
	bookings, err := s.bookings.ListByMentor(ctx, mentorID, statuses...)
	if err != nil {
		return nil, fmt.Errorf("list mentor bookings: %w", err)
	}

	s.attachParticipants(ctx, bookings...)
	return bookings, nil
}

// PendingForMentor запросы, ожидающие решения ментора
func (s *BookingService) PendingForMentor(ctx context.Context, mentorID int64) ([]*model.Booking, error) {
	return s.MentorBookings(ctx, mentorID, model.BookingStatusPending)
}

// attachParticipants заполняет Mentor и Student; ошибки только логируются
func (s *BookingService) attachParticipants(ctx context.Context, bookings ...*model.Booking) {
	cache := make(map[int64]*model.User)
	load := func(id int64) *model.User {
		if u, ok := cache[id]; ok {
			return u
		}
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			s.logger.Warn("Failed to load booking participant", zap.Int64("user_id", id), zap.Error(err))
		}
		cache[id] = u
		return u
	}

	for _, b := range bookings {
		if b.Mentor == nil {
			b.Mentor = load(b.MentorID)
		}
		if b.Student == nil {
			b.Student = load(b.StudentID)
		}
	}
}

// payload общие поля уведомления о записи
func (s *BookingService) payload(b *model.Booking) map[string]string {
	p := map[string]string{
		notify.KeyBookingID: strconv.FormatInt(b.ID, 10),
		notify.KeyWhen:      FormatSchedule(b, s.loc),
	}
	if b.Mentor != nil {
		p[notify.KeyMentorName] = b.Mentor.DisplayName()
	}
	if b.Student != nil {
		p[notify.KeyStudentName] = b.Student.DisplayName()
	}
	return p
}

// FormatSchedule время записи для показа пользователю
func FormatSchedule(b *model.Booking, loc *time.Location) string {
	if ts, ok := b.TimeSlot(); ok {
		start := ts.Start.In(loc)
		return start.Format("Mon 02 Jan 15:04") + "-" + ts.End.In(loc).Format("15:04")
	}
	if p, ok := b.Preference(); ok {
		return "preferred: " + string(p)
	}
	return ""
}
