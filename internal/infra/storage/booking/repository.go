package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/booking4u/booking-service/internal/domain"
	"github.com/booking4u/booking-service/pkg/dbmetrics"
	"github.com/booking4u/booking-service/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"customer_id",
	"business_id",
	"service_id",
	"booking_date",
	"start_time",
	"duration_minutes",
	"status",
	"notes",
	"service_name",
	"service_price",
	"cancellation_reason",
	"cancelled_by",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте есть транзакция, запрос выполняется в ней.
// Пересечение с активным бронированием, найденное БД, возвращается как ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"customer_id",
			"business_id",
			"service_id",
			"booking_date",
			"start_time",
			"duration_minutes",
			"status",
			"notes",
			"service_name",
			"service_price",
		).
		Values(
			booking.CustomerID,
			booking.BusinessID,
			booking.ServiceID,
			booking.BookingDate,
			booking.StartTime,
			booking.DurationMinutes,
			booking.Status,
			booking.Notes,
			booking.ServiceName,
			booking.ServicePrice,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if IsSlotConflict(err) {
			return nil, fmt.Errorf("%w: Create: %v", ErrSlotNotAvailable, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByCustomerID получает бронирования клиента, опционально по статусу
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("booking_date DESC", "start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByBusinessWithFilter получает бронирования бизнеса с фильтрацией по периоду и статусу.
// Без статуса и IncludeInactive возвращаются только pending и confirmed.
// Внутри транзакции запрос на один день блокирует строки (FOR UPDATE).
func (r *Repository) GetByBusinessWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.SlotOccupyingStatuses)})
	}

	if filter.IsSingleDay() {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC", "start_time DESC")
	}

	if dbmetrics.IsInTransaction(ctx) && filter.IsSingleDay() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetActiveByBusinessAndDate возвращает pending и confirmed бронирования бизнеса на дату
func (r *Repository) GetActiveByBusinessAndDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.Booking, error) {
	return r.GetByBusinessWithFilter(ctx, domain.BookingsFilter{
		BusinessID: businessID,
		StartDate:  &date,
		EndDate:    &date,
	})
}

// UpdateStatus меняет статус бронирования с from на to.
// Обновление выполняется только если текущий статус равен from,
// иначе возвращается ErrStatusChanged (или ErrBookingNotFound, если записи нет).
// Для отмены сохраняются причина, роль отменившего и время отмены.
func (r *Repository) UpdateStatus(
	ctx context.Context,
	id int64,
	from, to domain.BookingStatus,
	reason *string,
	by domain.Role,
) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(table).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from})

	if to == domain.StatusCancelled {
		updateBuilder = updateBuilder.
			Set("cancellation_reason", reason).
			Set("cancelled_by", string(by)).
			Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.classifyMissedUpdate(ctx, id)
	}
	if err != nil {
		if IsSlotConflict(err) {
			return nil, fmt.Errorf("%w: UpdateStatus: %v", ErrSlotNotAvailable, err)
		}
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// classifyMissedUpdate различает отсутствующую запись и изменившийся статус
func (r *Repository) classifyMissedUpdate(ctx context.Context, id int64) error {
	_, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return ErrStatusChanged
}

// GetStats считает бронирования бизнеса по статусам, уникальных клиентов
// и выручку завершенных бронирований
func (r *Repository) GetStats(ctx context.Context, businessID int64) (*domain.BookingStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"status",
		"COUNT(*)",
		"COALESCE(SUM(service_price), 0)",
	).
		From(table).
		Where(squirrel.Eq{"business_id": businessID}).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStats - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStats - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := &domain.BookingStats{
		BusinessID: businessID,
		ByStatus:   make(map[domain.BookingStatus]int, len(domain.AllStatuses)),
	}
	for _, s := range domain.AllStatuses {
		stats.ByStatus[s] = 0
	}

	for rows.Next() {
		var (
			status domain.BookingStatus
			count  int
			sum    float64
		)
		if err := rows.Scan(&status, &count, &sum); err != nil {
			return nil, fmt.Errorf("%w: GetStats - scan row: %v", ErrScanRow, err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
		if status == domain.StatusCompleted {
			stats.CompletedRevenue = sum
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetStats - rows error: %v", ErrScanRow, err)
	}

	customersQuery, customersArgs, err := psqlbuilder.Select("COUNT(DISTINCT customer_id)").
		From(table).
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStats - build customers query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, customersQuery, customersArgs...).Scan(&stats.UniqueCustomers); err != nil {
		return nil, fmt.Errorf("%w: GetStats - scan customers: %v", ErrScanRow, err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		notes, reason, byRaw sql.NullString
		cancelledAt          sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.BusinessID,
		&booking.ServiceID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.DurationMinutes,
		&booking.Status,
		&notes,
		&booking.ServiceName,
		&booking.ServicePrice,
		&reason,
		&byRaw,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if notes.Valid {
		booking.Notes = &notes.String
	}
	if reason.Valid {
		booking.CancellationReason = &reason.String
	}
	if byRaw.Valid {
		role := domain.Role(byRaw.String)
		booking.CancelledBy = &role
	}
	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
