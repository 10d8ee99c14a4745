package booking_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booking4u/booking-service/internal/domain"
	"github.com/booking4u/booking-service/internal/infra/storage/booking"
	"github.com/booking4u/booking-service/pkg/dbmetrics"
	"github.com/booking4u/booking-service/pkg/ptr"
	"github.com/booking4u/booking-service/pkg/types"
)

var bookingColumns = []string{
	"id", "customer_id", "business_id", "service_id", "booking_date", "start_time",
	"duration_minutes", "status", "notes", "service_name", "service_price",
	"cancellation_reason", "cancelled_by", "cancelled_at", "created_at", "updated_at",
}

var testDate = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func setupRepo(t *testing.T) (*booking.Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return booking.NewRepository(db), db, mock
}

func bookingRow(rows *sqlmock.Rows, id int64, start string, status domain.BookingStatus) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, int64(7), int64(1), int64(3), testDate, start+":00", 60, string(status),
		nil, "Haircut", 50.0, nil, nil, nil, now, now)
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := setupRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(int64(7), int64(1), int64(3), testDate, sqlmock.AnyArg(), 60, sqlmock.AnyArg(), nil, "Haircut", 50.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	created, err := repo.Create(context.Background(), &domain.Booking{
		CustomerID:      7,
		BusinessID:      1,
		ServiceID:       3,
		BookingDate:     testDate,
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          domain.StatusPending,
		ServiceName:     "Haircut",
		ServicePrice:    50,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_ExclusionViolation(t *testing.T) {
	repo, _, mock := setupRepo(t)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23P01", Message: "conflicting key value violates exclusion constraint"})

	_, err := repo.Create(context.Background(), &domain.Booking{StartTime: "10:00", DurationMinutes: 60})
	assert.ErrorIs(t, err, booking.ErrSlotNotAvailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, _, mock := setupRepo(t)

	t.Run("found", func(t *testing.T) {
		cancelledAt := time.Now()
		rows := sqlmock.NewRows(bookingColumns).AddRow(
			int64(5), int64(7), int64(1), int64(3), testDate, "10:30:00", 45, "cancelled",
			"window seat", "Haircut", 50.0, "sick", "customer", cancelledAt, cancelledAt, cancelledAt)
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
			WithArgs(int64(5)).
			WillReturnRows(rows)

		b, err := repo.GetByID(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, types.TimeString("10:30"), b.StartTime)
		assert.Equal(t, domain.StatusCancelled, b.Status)
		assert.Equal(t, ptr.Ptr("window seat"), b.Notes)
		assert.Equal(t, ptr.Ptr("sick"), b.CancellationReason)
		require.NotNil(t, b.CancelledBy)
		assert.Equal(t, domain.RoleCustomer, *b.CancelledBy)
		require.NotNil(t, b.CancelledAt)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 404)
		assert.ErrorIs(t, err, booking.ErrBookingNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetActiveByBusinessAndDate_LocksRowsInTransaction(t *testing.T) {
	repo, db, mock := setupRepo(t)

	mock.ExpectBegin()
	rows := bookingRow(sqlmock.NewRows(bookingColumns), 1, "10:00", domain.StatusConfirmed)
	rows = bookingRow(rows, 2, "12:00", domain.StatusPending)
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE (.+) ORDER BY start_time ASC FOR UPDATE").
		WithArgs(int64(1), testDate, testDate, "pending", "confirmed").
		WillReturnRows(rows)
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), dbmetrics.SqlTxWrapper{Tx: tx})

	bookings, err := repo.GetActiveByBusinessAndDate(ctx, 1, testDate)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, types.TimeString("10:00"), bookings[0].StartTime)
	assert.Equal(t, domain.StatusPending, bookings[1].Status)

	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByBusinessWithFilter_Status(t *testing.T) {
	repo, _, mock := setupRepo(t)

	status := domain.StatusCompleted
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE business_id = \\$1 AND status = \\$2 ORDER BY booking_date DESC, start_time DESC").
		WithArgs(int64(1), "completed").
		WillReturnRows(bookingRow(sqlmock.NewRows(bookingColumns), 9, "09:00", domain.StatusCompleted))

	bookings, err := repo.GetByBusinessWithFilter(context.Background(), domain.BookingsFilter{BusinessID: 1, Status: &status})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, domain.StatusCompleted, bookings[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByCustomerID(t *testing.T) {
	repo, _, mock := setupRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE customer_id = \\$1").
		WithArgs(int64(7)).
		WillReturnRows(bookingRow(sqlmock.NewRows(bookingColumns), 1, "10:00", domain.StatusPending))

	bookings, err := repo.GetByCustomerID(context.Background(), 7, nil)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	t.Run("confirm", func(t *testing.T) {
		repo, _, mock := setupRepo(t)

		mock.ExpectQuery("UPDATE bookings SET status = \\$1, updated_at = NOW\\(\\) WHERE (.+) RETURNING").
			WillReturnRows(bookingRow(sqlmock.NewRows(bookingColumns), 1, "10:00", domain.StatusConfirmed))

		b, err := repo.UpdateStatus(context.Background(), 1, domain.StatusPending, domain.StatusConfirmed, nil, domain.RoleBusiness)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, b.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancel stores reason and role", func(t *testing.T) {
		repo, _, mock := setupRepo(t)

		mock.ExpectQuery("UPDATE bookings SET (.+) cancellation_reason = (.+) cancelled_by = (.+) cancelled_at = NOW\\(\\)").
			WillReturnRows(bookingRow(sqlmock.NewRows(bookingColumns), 1, "10:00", domain.StatusCancelled))

		b, err := repo.UpdateStatus(context.Background(), 1, domain.StatusPending, domain.StatusCancelled, ptr.Ptr("changed plans"), domain.RoleCustomer)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, b.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status changed concurrently", func(t *testing.T) {
		repo, _, mock := setupRepo(t)

		mock.ExpectQuery("UPDATE bookings").WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(bookingRow(sqlmock.NewRows(bookingColumns), 1, "10:00", domain.StatusCancelled))

		_, err := repo.UpdateStatus(context.Background(), 1, domain.StatusPending, domain.StatusConfirmed, nil, domain.RoleBusiness)
		assert.ErrorIs(t, err, booking.ErrStatusChanged)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, _, mock := setupRepo(t)

		mock.ExpectQuery("UPDATE bookings").WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").WillReturnError(sql.ErrNoRows)

		_, err := repo.UpdateStatus(context.Background(), 1, domain.StatusPending, domain.StatusConfirmed, nil, domain.RoleBusiness)
		assert.ErrorIs(t, err, booking.ErrBookingNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetStats(t *testing.T) {
	repo, _, mock := setupRepo(t)

	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\), (.+) FROM bookings WHERE business_id = \\$1 GROUP BY status").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "sum"}).
			AddRow("pending", 2, 100.0).
			AddRow("completed", 3, 150.0).
			AddRow("cancelled", 1, 50.0))
	mock.ExpectQuery("SELECT COUNT\\(DISTINCT customer_id\\) FROM bookings").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	stats, err := repo.GetStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[domain.StatusPending])
	assert.Equal(t, 0, stats.ByStatus[domain.StatusConfirmed])
	assert.Equal(t, 3, stats.ByStatus[domain.StatusCompleted])
	assert.Equal(t, 4, stats.UniqueCustomers)
	assert.InDelta(t, 150.0, stats.CompletedRevenue, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsSlotConflict(t *testing.T) {
	assert.True(t, booking.IsSlotConflict(&pq.Error{Code: "23P01"}))
	assert.True(t, booking.IsSlotConflict(&pq.Error{Code: "40001"}))
	assert.True(t, booking.IsSlotConflict(booking.ErrSlotNotAvailable))
	assert.False(t, booking.IsSlotConflict(&pq.Error{Code: "23505"}))
	assert.False(t, booking.IsSlotConflict(sql.ErrConnDone))
}
