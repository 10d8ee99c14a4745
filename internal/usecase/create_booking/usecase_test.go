package create_booking_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booking4u/booking-service/internal/domain"
	"github.com/booking4u/booking-service/internal/infra/storage/business"
	configRepo "github.com/booking4u/booking-service/internal/infra/storage/config"
	"github.com/booking4u/booking-service/internal/scheduling"
	uc "github.com/booking4u/booking-service/internal/usecase/create_booking"
	"github.com/booking4u/booking-service/pkg/logger"
	"github.com/booking4u/booking-service/pkg/slotlock"
	"github.com/booking4u/booking-service/pkg/txmanager"
	"github.com/booking4u/booking-service/pkg/types"
)

var (
	// воскресенье, 08:00
	fixedNow = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	monday   = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	friday   = time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeBookings struct {
	mu        sync.Mutex
	bookings  []*domain.Booking
	nextID    int64
	createErr error
}

func (f *fakeBookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	copied := *b
	copied.ID = f.nextID
	f.bookings = append(f.bookings, &copied)
	return &copied, nil
}

func (f *fakeBookings) GetActiveByBusinessAndDate(_ context.Context, businessID int64, date time.Time) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.BusinessID == businessID && b.BookingDate.Equal(date) && b.OccupiesSlot() {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeBookings) active() []*domain.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.OccupiesSlot() {
			result = append(result, b)
		}
	}
	return result
}

type fakeBusinesses struct {
	businesses map[int64]*domain.Business
	services   map[int64]*domain.Service
}

func (f *fakeBusinesses) GetBusiness(_ context.Context, id int64) (*domain.Business, error) {
	b, ok := f.businesses[id]
	if !ok {
		return nil, business.ErrBusinessNotFound
	}
	return b, nil
}

func (f *fakeBusinesses) GetService(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, business.ErrServiceNotFound
	}
	return s, nil
}

type fakeConfigs struct {
	config *domain.BusinessSlotsConfig
}

func (f *fakeConfigs) GetConfigWithHierarchy(_ context.Context, _ int64, _ *int64) (*domain.BusinessSlotsConfig, error) {
	if f.config == nil {
		return nil, configRepo.ErrConfigNotFound
	}
	return f.config, nil
}

// inlineTx выполняет функцию без БД, опционально возвращая ошибку коммита
type inlineTx struct {
	commitErr error
}

func (t inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return t.commitErr
}

type countingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *countingMetrics) IncBookingOperation(_, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

type fixture struct {
	bookings   *fakeBookings
	businesses *fakeBusinesses
	configs    *fakeConfigs
	tx         inlineTx
	metrics    *countingMetrics
}

func newFixture() *fixture {
	return &fixture{
		bookings: &fakeBookings{},
		businesses: &fakeBusinesses{
			businesses: map[int64]*domain.Business{
				1: {
					ID:       1,
					OwnerID:  100,
					IsActive: true,
					WorkingHours: domain.WorkingHours{
						"monday": {IsOpen: true, Open: "09:00", Close: "17:00"},
						"friday": {IsOpen: false},
					},
				},
				2: {ID: 2, OwnerID: 200, IsActive: false},
			},
			services: map[int64]*domain.Service{
				3: {ID: 3, BusinessID: 1, Name: "Haircut", DurationMinutes: 60, Price: 50, IsActive: true},
				4: {ID: 4, BusinessID: 2, Name: "Massage", DurationMinutes: 60, Price: 80, IsActive: true},
				5: {ID: 5, BusinessID: 1, Name: "Retired", DurationMinutes: 30, Price: 10, IsActive: false},
			},
		},
		configs: &fakeConfigs{config: &domain.BusinessSlotsConfig{BusinessID: 1, SlotStepMinutes: 30}},
		metrics: &countingMetrics{},
	}
}

func (f *fixture) useCase() *uc.UseCase {
	return uc.NewUseCase(
		f.bookings,
		f.businesses,
		f.configs,
		f.tx,
		slotlock.NewMemoryLocker(),
		f.metrics,
		uc.Settings{Location: time.UTC, LockTimeout: time.Second},
		logger.NewNop(),
	).WithTimeProvider(fixedClock{now: fixedNow})
}

func request(date time.Time, start string) *uc.Request {
	return &uc.Request{
		CustomerID: 7,
		BusinessID: 1,
		ServiceID:  3,
		Date:       date,
		StartTime:  types.TimeString(start),
	}
}

func TestCreateBooking_ConflictScenario(t *testing.T) {
	f := newFixture()
	f.bookings.bookings = []*domain.Booking{{
		ID: 1, BusinessID: 1, BookingDate: monday, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed,
	}}
	f.bookings.nextID = 1
	useCase := f.useCase()

	_, err := useCase.Execute(context.Background(), request(monday, "10:30"))
	require.ErrorIs(t, err, domain.ErrSlotConflict)
	var conflictErr *domain.SlotConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, int64(1), conflictErr.ConflictingBookingID)

	resp, err := useCase.Execute(context.Background(), request(monday, "11:00"))
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, types.TimeString("12:00"), resp.EndTime)
	assert.Equal(t, "Haircut", resp.ServiceName)
	assert.InDelta(t, 50.0, resp.ServicePrice, 0.001)
	assert.Equal(t, 60, resp.DurationMinutes)

	assert.Equal(t, 1, f.metrics.outcomes["conflict"])
	assert.Equal(t, 1, f.metrics.outcomes["success"])
}

func TestCreateBooking_OutOfHours(t *testing.T) {
	cases := []struct {
		name  string
		req   *uc.Request
		setup func(f *fixture)
		want  error
	}{
		{name: "closed friday", req: request(friday, "10:00"), want: uc.ErrBusinessClosed},
		{name: "closed sunday (missing day)", req: request(time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), "10:00"), want: uc.ErrBusinessClosed},
		{name: "before opening", req: request(monday, "08:00"), want: uc.ErrInvalidTimeSlot},
		{name: "ends after closing", req: request(monday, "16:30"), want: uc.ErrInvalidTimeSlot},
		{name: "not aligned to step", req: request(monday, "10:15"), want: uc.ErrInvalidTimeSlot},
		{name: "past date", req: request(time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC), "10:00"), want: uc.ErrInvalidDate},
		{
			name: "beyond advance window",
			req:  request(time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC), "10:00"),
			setup: func(f *fixture) {
				f.configs.config.AdvanceBookingDays = 14
			},
			want: uc.ErrDateTooFarInFuture,
		},
		{
			name: "inside notice window",
			req:  request(monday, "09:00"),
			setup: func(f *fixture) {
				f.configs.config.MinBookingNoticeMinutes = 24*60 + 120
			},
			want: uc.ErrTooLateToBook,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			if tc.setup != nil {
				tc.setup(f)
			}

			_, err := f.useCase().Execute(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, domain.ErrOutOfHours)
			assert.Empty(t, f.bookings.active())
		})
	}
}

func TestCreateBooking_NotFound(t *testing.T) {
	cases := []struct {
		name string
		mod  func(r *uc.Request)
	}{
		{"unknown service", func(r *uc.Request) { r.ServiceID = 99 }},
		{"service of another business", func(r *uc.Request) { r.ServiceID = 4 }},
		{"inactive service", func(r *uc.Request) { r.ServiceID = 5 }},
		{"inactive business", func(r *uc.Request) { r.BusinessID = 2; r.ServiceID = 4 }},
		{"unknown business", func(r *uc.Request) { r.BusinessID = 42 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			req := request(monday, "10:00")
			tc.mod(req)

			_, err := f.useCase().Execute(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestCreateBooking_Validation(t *testing.T) {
	long := make([]byte, domain.MaxNotesLength+1)
	for i := range long {
		long[i] = 'a'
	}
	notes := string(long)

	cases := []struct {
		name string
		mod  func(r *uc.Request)
	}{
		{"no customer", func(r *uc.Request) { r.CustomerID = 0 }},
		{"no business", func(r *uc.Request) { r.BusinessID = 0 }},
		{"no service", func(r *uc.Request) { r.ServiceID = -1 }},
		{"no date", func(r *uc.Request) { r.Date = time.Time{} }},
		{"no start", func(r *uc.Request) { r.StartTime = "" }},
		{"bad start", func(r *uc.Request) { r.StartTime = "25:00" }},
		{"long notes", func(r *uc.Request) { r.Notes = &notes }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			req := request(monday, "10:00")
			tc.mod(req)

			_, err := f.useCase().Execute(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreateBooking_DefaultConfigUsesServiceDurationAsStep(t *testing.T) {
	f := newFixture()
	f.configs.config = nil
	useCase := f.useCase()

	_, err := useCase.Execute(context.Background(), request(monday, "10:00"))
	require.NoError(t, err)

	_, err = useCase.Execute(context.Background(), request(monday, "10:30"))
	assert.ErrorIs(t, err, uc.ErrInvalidTimeSlot)
}

func TestCreateBooking_StorageConflicts(t *testing.T) {
	t.Run("exclusion constraint on insert", func(t *testing.T) {
		f := newFixture()
		f.bookings.createErr = fmt.Errorf("booking.repository: slot not available: %w", &pq.Error{Code: "23P01"})

		_, err := f.useCase().Execute(context.Background(), request(monday, "10:00"))
		assert.ErrorIs(t, err, domain.ErrSlotConflict)
	})

	t.Run("serialization failure on commit", func(t *testing.T) {
		f := newFixture()
		f.tx = inlineTx{commitErr: fmt.Errorf("%w: %w", txmanager.ErrCommitTx, &pq.Error{Code: "40001"})}

		_, err := f.useCase().Execute(context.Background(), request(monday, "10:00"))
		assert.ErrorIs(t, err, domain.ErrSlotConflict)
	})

	t.Run("other storage failure", func(t *testing.T) {
		f := newFixture()
		f.bookings.createErr = errors.New("connection refused")

		_, err := f.useCase().Execute(context.Background(), request(monday, "10:00"))
		assert.ErrorIs(t, err, domain.ErrStorage)
		assert.NotErrorIs(t, err, domain.ErrSlotConflict)
	})
}

func TestCreateBooking_ConcurrentSameSlot(t *testing.T) {
	f := newFixture()
	useCase := f.useCase()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := useCase.Execute(context.Background(), request(monday, "10:00"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrSlotConflict):
				conflicts++
			default:
				assert.NoError(t, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, f.bookings.active(), 1)
}

func TestCreateBooking_SuccessfulBookingsNeverOverlap(t *testing.T) {
	f := newFixture()
	f.configs.config.SlotStepMinutes = 15
	useCase := f.useCase()

	starts := []string{"09:00", "09:15", "09:45", "10:00", "10:30", "11:00", "11:15", "13:00", "12:15", "12:00"}

	var wg sync.WaitGroup
	for _, s := range starts {
		wg.Add(1)
		go func(start string) {
			defer wg.Done()
			_, _ = useCase.Execute(context.Background(), request(monday, start))
		}(s)
	}
	wg.Wait()

	active := f.bookings.active()
	require.NotEmpty(t, active)
	for i := range active {
		for j := i + 1; j < len(active); j++ {
			a, err := scheduling.BookingInterval(active[i])
			require.NoError(t, err)
			b, err := scheduling.BookingInterval(active[j])
			require.NoError(t, err)
			assert.False(t, a.Overlaps(b), "%s overlaps %s", active[i].StartTime, active[j].StartTime)
		}
	}
}
