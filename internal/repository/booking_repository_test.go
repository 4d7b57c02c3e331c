package repository_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/app"
	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/Freeeeeet/musicmentor/internal/repository"
	"github.com/Freeeeeet/musicmentor/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const buffer = 15 * time.Minute

var telegramSeq = time.Now().UnixNano()

// testPool подключается к TEST_DB_DSN и применяет миграции.
// Без переменной тесты пропускаются.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migrator, err := app.NewMigrator(pool, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Run(ctx))
	require.NoError(t, migrator.Close())

	return pool
}

func createUser(t *testing.T, users *repository.UserRepository, mentor bool) *model.User {
	t.Helper()

	u := &model.User{TelegramID: atomic.AddInt64(&telegramSeq, 1), FirstName: "Test", IsMentor: mentor}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func slotBooking(mentor, student *model.User, start time.Time, status model.BookingStatus) *model.Booking {
	return &model.Booking{
		MentorID:  mentor.ID,
		StudentID: student.ID,
		Status:    status,
		Message:   "scales",
		Schedule:  model.TimeSlotSchedule{Start: start, End: start.Add(15 * time.Minute)},
	}
}

func TestCreateGuarded_OverlapAndBuffer(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := repository.NewUserRepository(pool)
	bookings := repository.NewBookingRepository(pool)

	mentor := createUser(t, users, true)
	student := createUser(t, users, false)
	base := time.Date(2030, 3, 4, 14, 0, 0, 0, time.UTC)

	require.NoError(t, bookings.CreateGuarded(ctx, slotBooking(mentor, student, base, model.BookingStatusConfirmed), buffer))

	cases := map[string]struct {
		start   time.Time
		wantErr bool
	}{
		"same window":          {start: base, wantErr: true},
		"starts inside":        {start: base.Add(10 * time.Minute), wantErr: true},
		"inside buffer":        {start: base.Add(15 * time.Minute), wantErr: true},
		"right after buffer":   {start: base.Add(30 * time.Minute)},
		"ends at booked start": {start: base.Add(-15 * time.Minute)},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			b := slotBooking(mentor, student, tc.start, model.BookingStatusPending)
			err := bookings.CreateGuarded(ctx, b, buffer)
			if tc.wantErr {
				assert.ErrorIs(t, err, repository.ErrSlotConflict)
				return
			}
			require.NoError(t, err)
			// освобождаем окно для остальных случаев
			ok, err := bookings.UpdateStatus(ctx, b.ID, model.BookingStatusPending, model.BookingStatusDeclined)
			require.NoError(t, err)
			require.True(t, ok)
		})
	}
}

func TestCreateGuarded_DeclinedDoesNotBlock(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := repository.NewUserRepository(pool)
	bookings := repository.NewBookingRepository(pool)

	mentor := createUser(t, users, true)
	student := createUser(t, users, false)
	start := time.Date(2030, 3, 5, 9, 0, 0, 0, time.UTC)

	first := slotBooking(mentor, student, start, model.BookingStatusPending)
	require.NoError(t, bookings.CreateGuarded(ctx, first, buffer))
	ok, err := bookings.UpdateStatus(ctx, first.ID, model.BookingStatusPending, model.BookingStatusDeclined)
	require.NoError(t, err)
	require.True(t, ok)

	assert.NoError(t, bookings.CreateGuarded(ctx, slotBooking(mentor, student, start, model.BookingStatusPending), buffer))
}

func TestCreateGuarded_ConcurrentSubmitsForSameWindow(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := repository.NewUserRepository(pool)
	bookings := repository.NewBookingRepository(pool)

	mentor := createUser(t, users, true)
	start := time.Date(2030, 3, 6, 11, 0, 0, 0, time.UTC)

	const racers = 5
	students := make([]*model.User, racers)
	for i := range students {
		students[i] = createUser(t, users, false)
	}

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = bookings.CreateGuarded(ctx, slotBooking(mentor, students[i], start, model.BookingStatusPending), buffer)
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, repository.ErrSlotConflict)
	}
	assert.Equal(t, 1, created)

	active, err := bookings.ListByMentor(ctx, mentor.ID, model.ActiveBookingStatuses...)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
