package domain

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// TimeSlot represents a fixed clock-time booking unit from the catalog
type TimeSlot struct {
	ID              int64
	StartTime       types.TimeString
	DurationMinutes int
	IsAvailable     bool // catalog-level on/off, false = soft-deleted
	MaxConcurrent   int  // maximum simultaneous non-cancelled appointments, >= 1

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAtCapacity returns true if activeCount appointments exhaust the slot
func (s *TimeSlot) IsAtCapacity(activeCount int) bool {
	return activeCount >= s.MaxConcurrent
}

// SpotsLeft returns the remaining capacity given activeCount appointments
func (s *TimeSlot) SpotsLeft(activeCount int) int {
	left := s.MaxConcurrent - activeCount
	if left < 0 {
		return 0
	}
	return left
}
