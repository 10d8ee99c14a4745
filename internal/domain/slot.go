package domain

import "github.com/booking4u/booking-service/pkg/types"

// Slot represents a candidate time interval within business hours
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Available bool
}
