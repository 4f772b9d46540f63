package domain

import "time"

// AvailabilityRule restricts which weekdays and/or which catalog slots a service
// may be booked on. A service without an active rule is unrestricted.
type AvailabilityRule struct {
	ID                int64
	ServiceID         int64
	DaysOfWeek        []int64 // 0=Sunday .. 6=Saturday, empty = every day
	SpecificTimeSlots []int64 // slot ids, empty = all catalog slots
	IsActive          bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RestrictsDays returns true if the rule limits the allowed weekdays
func (r *AvailabilityRule) RestrictsDays() bool {
	return r != nil && len(r.DaysOfWeek) > 0
}

// RestrictsSlots returns true if the rule limits the allowed time slots
func (r *AvailabilityRule) RestrictsSlots() bool {
	return r != nil && len(r.SpecificTimeSlots) > 0
}

// AllowsDate returns true if the date's weekday is allowed by the rule.
// A nil rule or a rule without day restrictions allows every date.
func (r *AvailabilityRule) AllowsDate(date time.Time) bool {
	if !r.RestrictsDays() {
		return true
	}

	weekday := int64(date.Weekday())
	for _, day := range r.DaysOfWeek {
		if day == weekday {
			return true
		}
	}
	return false
}

// AllowsSlot returns true if the slot id is allowed by the rule.
// Slot ids unknown to the catalog simply never match.
func (r *AvailabilityRule) AllowsSlot(slotID int64) bool {
	if !r.RestrictsSlots() {
		return true
	}

	for _, id := range r.SpecificTimeSlots {
		if id == slotID {
			return true
		}
	}
	return false
}
