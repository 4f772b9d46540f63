package domain

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a client appointment occupying one time slot on one date
type Appointment struct {
	ID              int64
	TimeSlotID      int64
	ServiceID       int64
	AppointmentDate time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	ClientName  string
	ClientPhone string
	Notes       *string

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CountsAgainstCapacity returns true if the appointment consumes slot capacity.
// Only cancelled appointments free their spot.
func (a *Appointment) CountsAgainstCapacity() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// DayAppointmentsFilter фильтр для получения записей на дату
type DayAppointmentsFilter struct {
	Date            time.Time // Обязательный параметр
	TimeSlotID      *int64    // Фильтр по слоту (опционально)
	Status          *AppointmentStatus
	IncludeInactive bool // Включать ли отменённые записи
}
