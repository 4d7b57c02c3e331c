package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/Freeeeeet/musicmentor/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSlotConflict окно пересекается с активной записью ментора
var ErrSlotConflict = errors.New("slot overlaps an active booking")

const bookingColumns = `
	id, mentor_id, student_id, status, message, video_preferred, rate,
	scheduled_start, scheduled_end, time_preference,
	video_status, video_room_name, video_url, video_error,
	created_at, updated_at
`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var (
		b          model.Booking
		start, end *time.Time
		preference *string
		videoState *string
		roomName   *string
		videoURL   *string
		videoErr   *string
	)

	err := row.Scan(
		&b.ID,
		&b.MentorID,
		&b.StudentID,
		&b.Status,
		&b.Message,
		&b.VideoPreferred,
		&b.Rate,
		&start,
		&end,
		&preference,
		&videoState,
		&roomName,
		&videoURL,
		&videoErr,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	switch {
	case start != nil && end != nil:
		b.Schedule = model.TimeSlotSchedule{Start: *start, End: *end}
	case preference != nil:
		b.Schedule = model.PreferenceSchedule{Preference: model.TimePreference(*preference)}
	}

	if videoState != nil {
		b.Video = &model.VideoRoom{
			Status: model.VideoRoomStatus(*videoState),
			Name:   deref(roomName),
			URL:    deref(videoURL),
			Error:  deref(videoErr),
		}
	}

	return &b, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func statusStrings(statuses []model.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// scheduleArgs раскладывает Schedule по колонкам таблицы
func scheduleArgs(s model.Schedule) (start, end *time.Time, preference *string) {
	switch v := s.(type) {
	case model.TimeSlotSchedule:
		return &v.Start, &v.End, nil
	case *model.TimeSlotSchedule:
		if v != nil {
			return &v.Start, &v.End, nil
		}
	case model.PreferenceSchedule:
		p := string(v.Preference)
		return nil, nil, &p
	case *model.PreferenceSchedule:
		if v != nil {
			p := string(v.Preference)
			return nil, nil, &p
		}
	}
	return nil, nil, nil
}

const insertBookingQuery = `
	INSERT INTO bookings (mentor_id, student_id, status, message, video_preferred, rate,
		scheduled_start, scheduled_end, time_preference)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at, updated_at
`

func insertBooking(ctx context.Context, q base.Querier, b *model.Booking) error {
	start, end, preference := scheduleArgs(b.Schedule)
	return q.QueryRow(
		ctx, insertBookingQuery,
		b.MentorID,
		b.StudentID,
		b.Status,
		b.Message,
		b.VideoPreferred,
		b.Rate,
		start,
		end,
		preference,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// Create создаёт запись без проверки пересечений
func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) error {
	if err := insertBooking(ctx, r.DB(), b); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// CreateGuarded создаёт запись на конкретное окно, если оно не пересекается
// (с учётом буфера после каждой записи) с активными записями того же ментора.
// Записи одного ментора сериализуются advisory lock внутри транзакции.
func (r *BookingRepository) CreateGuarded(ctx context.Context, b *model.Booking, buffer time.Duration) error {
	slot, ok := b.TimeSlot()
	if !ok {
		return r.Create(ctx, b)
	}

	err := r.InLockedTx(ctx, b.MentorID, func(tx base.Querier) error {
		query := `
			SELECT COUNT(*)
			FROM bookings
			WHERE mentor_id = $1
				AND status = ANY($2)
				AND scheduled_start IS NOT NULL
				AND $3 < scheduled_end + make_interval(secs => $5)
				AND $4 > scheduled_start
		`

		var overlaps int
		err := tx.QueryRow(
			ctx, query,
			b.MentorID,
			statusStrings(model.ActiveBookingStatuses),
			slot.Start,
			slot.End,
			buffer.Seconds(),
		).Scan(&overlaps)
		if err != nil {
			return fmt.Errorf("count overlaps: %w", err)
		}
		if overlaps > 0 {
			return ErrSlotConflict
		}

		return insertBooking(ctx, tx, b)
	})
	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			return err
		}
		return fmt.Errorf("create guarded booking: %w", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return b, nil
}

func (r *BookingRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Booking, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

// ListByMentor возвращает записи ментора. Без статусов возвращаются все
func (r *BookingRepository) ListByMentor(ctx context.Context, mentorID int64, statuses ...model.BookingStatus) ([]*model.Booking, error) {
	if len(statuses) == 0 {
		query := `SELECT ` + bookingColumns + ` FROM bookings WHERE mentor_id = $1 ORDER BY created_at DESC`
		return r.list(ctx, "list mentor bookings", query, mentorID)
	}

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE mentor_id = $1 AND status = ANY($2)
		ORDER BY created_at DESC
	`
	return r.list(ctx, "list mentor bookings", query, mentorID, statusStrings(statuses))
}

// ListByStudent возвращает записи студента, новые первыми
func (r *BookingRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE student_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, "list student bookings", query, studentID)
}

// ListConfirmedEndedBefore возвращает подтверждённые записи, закончившиеся до t
func (r *BookingRepository) ListConfirmedEndedBefore(ctx context.Context, t time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1 AND scheduled_end IS NOT NULL AND scheduled_end < $2
		ORDER BY scheduled_end
	`
	return r.list(ctx, "list finished bookings", query, model.BookingStatusConfirmed, t)
}

// UpdateStatus меняет статус, только если текущий равен from.
// Возвращает false, если запись уже в другом статусе.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to model.BookingStatus) (bool, error) {
	query := `UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	affected, err := r.ExecAffected(ctx, query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}

	return affected > 0, nil
}

// SetVideoRoom сохраняет результат создания видеокомнаты
func (r *BookingRepository) SetVideoRoom(ctx context.Context, id int64, room *model.VideoRoom) error {
	query := `
		UPDATE bookings
		SET video_status = $2, video_room_name = $3, video_url = $4, video_error = $5, updated_at = NOW()
		WHERE id = $1
	`

	affected, err := r.ExecAffected(ctx, query, id, room.Status, room.Name, room.URL, room.Error)
	if err != nil {
		return fmt.Errorf("set video room: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}
