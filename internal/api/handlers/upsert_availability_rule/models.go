package upsert_availability_rule

import "github.com/m04kA/SMC-ScheduleService/internal/service/schedule/models"

// UpsertRuleRequest HTTP request model
// serviceId берётся из URL, поэтому в теле запроса его нет
type UpsertRuleRequest struct {
	DaysOfWeek        []int64 `json:"daysOfWeek,omitempty"`
	SpecificTimeSlots []int64 `json:"specificTimeSlots,omitempty"`
}

// ToServiceRequest собирает запрос сервиса из тела и serviceId из URL
func (r *UpsertRuleRequest) ToServiceRequest(serviceID int64) *models.UpsertRuleRequest {
	return &models.UpsertRuleRequest{
		ServiceID:         serviceID,
		DaysOfWeek:        r.DaysOfWeek,
		SpecificTimeSlots: r.SpecificTimeSlots,
	}
}
