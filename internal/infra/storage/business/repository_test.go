package business_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booking4u/booking-service/internal/domain"
	"github.com/booking4u/booking-service/internal/infra/storage/business"
)

var businessColumns = []string{
	"id", "owner_id", "name", "category", "phone", "email", "is_active", "working_hours", "created_at", "updated_at",
}

func setupRepo(t *testing.T) (*business.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return business.NewRepository(db), mock
}

func TestRepository_GetBusiness(t *testing.T) {
	now := time.Now()

	t.Run("decodes working hours", func(t *testing.T) {
		repo, mock := setupRepo(t)

		hours := []byte(`{"monday":{"isOpen":true,"open":"09:00","close":"17:00"},"friday":{"isOpen":false}}`)
		mock.ExpectQuery("SELECT (.+) FROM businesses WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(businessColumns).
				AddRow(int64(1), int64(42), "Salon", "beauty", "+966500000000", nil, true, hours, now, now))

		b, err := repo.GetBusiness(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(42), b.OwnerID)
		assert.True(t, b.IsOwnedBy(42))
		require.NotNil(t, b.Phone)
		assert.Nil(t, b.Email)
		assert.Equal(t, domain.DaySchedule{IsOpen: true, Open: "09:00", Close: "17:00"}, b.WorkingHours["monday"])
		assert.False(t, b.WorkingHours["friday"].IsOpen)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("broken working hours", func(t *testing.T) {
		repo, mock := setupRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM businesses").
			WillReturnRows(sqlmock.NewRows(businessColumns).
				AddRow(int64(1), int64(42), "Salon", "beauty", nil, nil, true, []byte(`[1,2]`), now, now))

		_, err := repo.GetBusiness(context.Background(), 1)
		assert.ErrorIs(t, err, business.ErrInvalidWorkingHours)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := setupRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM businesses").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetBusiness(context.Background(), 1)
		assert.ErrorIs(t, err, business.ErrBusinessNotFound)
	})
}

func TestRepository_GetService(t *testing.T) {
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		repo, mock := setupRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM services WHERE id = \\$1").
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "business_id", "name", "category", "duration_minutes", "price", "is_active", "created_at", "updated_at",
			}).AddRow(int64(3), int64(1), "Haircut", "beauty", 60, "75.50", true, now, now))

		s, err := repo.GetService(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, 60, s.DurationMinutes)
		assert.InDelta(t, 75.5, s.Price, 0.001)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := setupRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM services").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetService(context.Background(), 3)
		assert.ErrorIs(t, err, business.ErrServiceNotFound)
	})
}
