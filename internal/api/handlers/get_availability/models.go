package get_availability

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	resolveAvailability "github.com/m04kA/SMC-ScheduleService/internal/usecase/resolve_availability"
)

// SlotResponse HTTP модель доступного слота
type SlotResponse struct {
	TimeSlotID      int64  `json:"timeSlotId"`
	StartTime       string `json:"startTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	AvailableSpots  int    `json:"availableSpots"`
	TotalSpots      int    `json:"totalSpots"`
}

// AvailabilityResponse HTTP модель ответа о доступности даты
type AvailabilityResponse struct {
	Date        string         `json:"date"` // "2025-10-15"
	ServiceID   *int64         `json:"serviceId,omitempty"`
	IsAvailable bool           `json:"isAvailable"`
	Reason      *string        `json:"reason,omitempty"`
	Slots       []SlotResponse `json:"slots"`
}

// ToUseCaseRequest собирает запрос use case из query параметров
func ToUseCaseRequest(dateStr, serviceIDStr, excludeAppointmentIDStr string) (*resolveAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &resolveAvailability.Request{Date: date}

	if serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ServiceID = &serviceID
	}

	if excludeAppointmentIDStr != "" {
		excludeID, err := strconv.ParseInt(excludeAppointmentIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ExcludeAppointmentID = &excludeID
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *resolveAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			TimeSlotID:      slot.TimeSlotID,
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
			AvailableSpots:  slot.AvailableSpots,
			TotalSpots:      slot.TotalSpots,
		}
	}

	return &AvailabilityResponse{
		Date:        resp.Date.Format(domain.DateFormat),
		ServiceID:   resp.ServiceID,
		IsAvailable: resp.IsAvailable,
		Reason:      resp.Reason,
		Slots:       slots,
	}
}
