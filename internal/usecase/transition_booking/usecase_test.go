package transition_booking_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/booking4u/booking-service/internal/domain"
	"github.com/booking4u/booking-service/internal/infra/storage/booking"
	"github.com/booking4u/booking-service/internal/scheduling"
	uc "github.com/booking4u/booking-service/internal/usecase/transition_booking"
	"github.com/booking4u/booking-service/pkg/logger"
	"github.com/booking4u/booking-service/pkg/ptr"
)

type mockBookings struct {
	mock.Mock
}

func (m *mockBookings) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *mockBookings) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, reason *string, by domain.Role) (*domain.Booking, error) {
	args := m.Called(ctx, id, from, to, reason, by)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

type mockBusinesses struct {
	mock.Mock
}

func (m *mockBusinesses) GetBusiness(ctx context.Context, id int64) (*domain.Business, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Business)
	return b, args.Error(1)
}

type nopMetrics struct{}

func (nopMetrics) IncBookingOperation(string, string) {}

const (
	customerID = int64(7)
	ownerID    = int64(100)
)

func newUseCase(bookings *mockBookings, businesses *mockBusinesses, policy scheduling.Policy) *uc.UseCase {
	return uc.NewUseCase(bookings, businesses, scheduling.NewStateMachine(policy), nopMetrics{}, logger.NewNop())
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{ID: 1, CustomerID: customerID, BusinessID: 1, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusPending}
}

func withStatus(b *domain.Booking, s domain.BookingStatus) *domain.Booking {
	b.Status = s
	return b
}

func TestTransition_BusinessConfirms(t *testing.T) {
	bookings := new(mockBookings)
	businesses := new(mockBusinesses)

	bookings.On("GetByID", mock.Anything, int64(1)).Return(pendingBooking(), nil)
	businesses.On("GetBusiness", mock.Anything, int64(1)).Return(&domain.Business{ID: 1, OwnerID: ownerID}, nil)
	bookings.On("UpdateStatus", mock.Anything, int64(1), domain.StatusPending, domain.StatusConfirmed, (*string)(nil), domain.RoleBusiness).
		Return(withStatus(pendingBooking(), domain.StatusConfirmed), nil)

	updated, err := newUseCase(bookings, businesses, scheduling.Policy{}).Execute(context.Background(), &uc.Request{
		BookingID:    1,
		Actor:        domain.Actor{UserID: ownerID, Role: domain.RoleBusiness},
		TargetStatus: domain.StatusConfirmed,
		Reason:       ptr.Ptr("ignored for confirm"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
	bookings.AssertExpectations(t)
	businesses.AssertExpectations(t)
}

func TestTransition_CustomerCancelsPending(t *testing.T) {
	bookings := new(mockBookings)
	reason := ptr.Ptr("changed plans")

	bookings.On("GetByID", mock.Anything, int64(1)).Return(pendingBooking(), nil)
	bookings.On("UpdateStatus", mock.Anything, int64(1), domain.StatusPending, domain.StatusCancelled, reason, domain.RoleCustomer).
		Return(withStatus(pendingBooking(), domain.StatusCancelled), nil)

	updated, err := newUseCase(bookings, new(mockBusinesses), scheduling.Policy{}).Execute(context.Background(), &uc.Request{
		BookingID:    1,
		Actor:        domain.Actor{UserID: customerID, Role: domain.RoleCustomer},
		TargetStatus: domain.StatusCancelled,
		Reason:       reason,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)
	bookings.AssertExpectations(t)
}

func TestTransition_Forbidden(t *testing.T) {
	cases := []struct {
		name    string
		booking *domain.Booking
		actor   domain.Actor
		target  domain.BookingStatus
		owner   int64
	}{
		{
			name:    "other customer",
			booking: pendingBooking(),
			actor:   domain.Actor{UserID: 8, Role: domain.RoleCustomer},
			target:  domain.StatusCancelled,
		},
		{
			name:    "owner of another business",
			booking: pendingBooking(),
			actor:   domain.Actor{UserID: 555, Role: domain.RoleBusiness},
			target:  domain.StatusConfirmed,
			owner:   ownerID,
		},
		{
			name:    "customer confirms own booking",
			booking: pendingBooking(),
			actor:   domain.Actor{UserID: customerID, Role: domain.RoleCustomer},
			target:  domain.StatusConfirmed,
		},
		{
			name:    "customer cancels confirmed without policy",
			booking: withStatus(pendingBooking(), domain.StatusConfirmed),
			actor:   domain.Actor{UserID: customerID, Role: domain.RoleCustomer},
			target:  domain.StatusCancelled,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bookings := new(mockBookings)
			businesses := new(mockBusinesses)
			bookings.On("GetByID", mock.Anything, int64(1)).Return(tc.booking, nil)
			if tc.owner != 0 {
				businesses.On("GetBusiness", mock.Anything, int64(1)).Return(&domain.Business{ID: 1, OwnerID: tc.owner}, nil)
			}

			_, err := newUseCase(bookings, businesses, scheduling.Policy{}).Execute(context.Background(), &uc.Request{
				BookingID:    1,
				Actor:        tc.actor,
				TargetStatus: tc.target,
			})
			assert.ErrorIs(t, err, domain.ErrForbidden)
			bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestTransition_PolicyAllowsCustomerCancelConfirmed(t *testing.T) {
	bookings := new(mockBookings)
	confirmed := withStatus(pendingBooking(), domain.StatusConfirmed)

	bookings.On("GetByID", mock.Anything, int64(1)).Return(confirmed, nil)
	bookings.On("UpdateStatus", mock.Anything, int64(1), domain.StatusConfirmed, domain.StatusCancelled, (*string)(nil), domain.RoleCustomer).
		Return(withStatus(pendingBooking(), domain.StatusCancelled), nil)

	_, err := newUseCase(bookings, new(mockBusinesses), scheduling.Policy{CustomerCanCancelConfirmed: true}).
		Execute(context.Background(), &uc.Request{
			BookingID:    1,
			Actor:        domain.Actor{UserID: customerID, Role: domain.RoleCustomer},
			TargetStatus: domain.StatusCancelled,
		})
	require.NoError(t, err)
}

func TestTransition_InvalidTransitions(t *testing.T) {
	t.Run("completed to cancelled", func(t *testing.T) {
		bookings := new(mockBookings)
		bookings.On("GetByID", mock.Anything, int64(1)).Return(withStatus(pendingBooking(), domain.StatusCompleted), nil)

		_, err := newUseCase(bookings, new(mockBusinesses), scheduling.Policy{}).Execute(context.Background(), &uc.Request{
			BookingID:    1,
			Actor:        domain.Actor{UserID: 1, Role: domain.RoleAdmin},
			TargetStatus: domain.StatusCancelled,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("repeated identical transition", func(t *testing.T) {
		bookings := new(mockBookings)
		bookings.On("GetByID", mock.Anything, int64(1)).Return(pendingBooking(), nil).Once()
		bookings.On("UpdateStatus", mock.Anything, int64(1), domain.StatusPending, domain.StatusConfirmed, (*string)(nil), domain.RoleAdmin).
			Return(withStatus(pendingBooking(), domain.StatusConfirmed), nil).Once()
		bookings.On("GetByID", mock.Anything, int64(1)).Return(withStatus(pendingBooking(), domain.StatusConfirmed), nil).Once()

		useCase := newUseCase(bookings, new(mockBusinesses), scheduling.Policy{})
		req := &uc.Request{
			BookingID:    1,
			Actor:        domain.Actor{UserID: 1, Role: domain.RoleAdmin},
			TargetStatus: domain.StatusConfirmed,
		}

		_, err := useCase.Execute(context.Background(), req)
		require.NoError(t, err)

		_, err = useCase.Execute(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		bookings.AssertExpectations(t)
	})

	t.Run("concurrent change", func(t *testing.T) {
		bookings := new(mockBookings)
		bookings.On("GetByID", mock.Anything, int64(1)).Return(pendingBooking(), nil)
		bookings.On("UpdateStatus", mock.Anything, int64(1), domain.StatusPending, domain.StatusCancelled, (*string)(nil), domain.RoleAdmin).
			Return(nil, booking.ErrStatusChanged)

		_, err := newUseCase(bookings, new(mockBusinesses), scheduling.Policy{}).Execute(context.Background(), &uc.Request{
			BookingID:    1,
			Actor:        domain.Actor{UserID: 1, Role: domain.RoleAdmin},
			TargetStatus: domain.StatusCancelled,
		})
		var transitionErr *domain.TransitionError
		require.True(t, errors.As(err, &transitionErr))
		assert.Equal(t, domain.StatusPending, transitionErr.From)
	})
}

func TestTransition_NotFoundAndValidation(t *testing.T) {
	bookings := new(mockBookings)
	bookings.On("GetByID", mock.Anything, int64(404)).Return(nil, booking.ErrBookingNotFound)
	useCase := newUseCase(bookings, new(mockBusinesses), scheduling.Policy{})

	_, err := useCase.Execute(context.Background(), &uc.Request{
		BookingID:    404,
		Actor:        domain.Actor{UserID: 1, Role: domain.RoleAdmin},
		TargetStatus: domain.StatusCancelled,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = useCase.Execute(context.Background(), &uc.Request{
		BookingID:    1,
		Actor:        domain.Actor{UserID: 1, Role: domain.RoleAdmin},
		TargetStatus: domain.BookingStatus("archived"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTransition_StorageFailure(t *testing.T) {
	bookings := new(mockBookings)
	bookings.On("GetByID", mock.Anything, int64(1)).Return(nil, errors.New("connection reset"))

	_, err := newUseCase(bookings, new(mockBusinesses), scheduling.Policy{}).Execute(context.Background(), &uc.Request{
		BookingID:    1,
		Actor:        domain.Actor{UserID: 1, Role: domain.RoleAdmin},
		TargetStatus: domain.StatusCancelled,
	})
	assert.ErrorIs(t, err, domain.ErrStorage)
}
