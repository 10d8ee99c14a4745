package domain

// Default configuration values
const (
	DefaultSlotStepMinutes         = 0 // шаг равен длительности услуги
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 0
)

// Business validation constants
const (
	MinSlotStepMinutes          = 0
	MaxSlotStepMinutes          = 480 // 8 hours
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// DateFormat формат даты в API и логах
const DateFormat = "2006-01-02"

// SlotOccupyingStatuses статусы, участвующие в проверке пересечений
var SlotOccupyingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// AllStatuses все статусы бронирования
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}
