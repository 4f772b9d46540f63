package domain

import "time"

// BlockType represents the kind of a schedule block
type BlockType string

const (
	BlockTypeFullDay    BlockType = "full_day"
	BlockTypePartialDay BlockType = "partial_day"
)

// ScheduleBlock is an ad-hoc exception removing availability for a whole date
// or for specific slots on that date. Soft-deleted via IsActive.
type ScheduleBlock struct {
	ID               int64
	BlockDate        time.Time
	BlockType        BlockType
	BlockedTimeSlots []int64 // only meaningful for partial_day blocks
	Reason           *string
	IsActive         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFullDay returns true if the block closes the entire date
func (b *ScheduleBlock) IsFullDay() bool {
	return b.BlockType == BlockTypeFullDay
}

// BlocksSlot returns true if a partial-day block covers the given slot id
func (b *ScheduleBlock) BlocksSlot(slotID int64) bool {
	if b.BlockType != BlockTypePartialDay {
		return false
	}
	for _, id := range b.BlockedTimeSlots {
		if id == slotID {
			return true
		}
	}
	return false
}
