package create_schedule_block

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule/models"
)

// CreateBlockRequest HTTP request model
type CreateBlockRequest struct {
	BlockDate        string  `json:"blockDate"` // "2025-10-15"
	BlockType        string  `json:"blockType"` // "full_day" или "partial_day"
	BlockedTimeSlots []int64 `json:"blockedTimeSlots,omitempty"`
	Reason           *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса (с парсингом даты)
func (r *CreateBlockRequest) ToServiceRequest() (*models.CreateBlockRequest, error) {
	blockDate, err := time.Parse(domain.DateFormat, r.BlockDate)
	if err != nil {
		return nil, err
	}

	return &models.CreateBlockRequest{
		BlockDate:        blockDate,
		BlockType:        r.BlockType,
		BlockedTimeSlots: r.BlockedTimeSlots,
		Reason:           r.Reason,
	}, nil
}
