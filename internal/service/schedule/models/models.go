package models

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Request модели

// CreateTimeSlotRequest запрос на создание слота расписания
type CreateTimeSlotRequest struct {
	StartTime       string `json:"startTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	MaxConcurrent   int    `json:"maxConcurrent"`
}

// ToDomainTimeSlot конвертирует request в domain модель
func (r *CreateTimeSlotRequest) ToDomainTimeSlot() (*domain.TimeSlot, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &domain.TimeSlot{
		StartTime:       startTime,
		DurationMinutes: r.DurationMinutes,
		MaxConcurrent:   r.MaxConcurrent,
		IsAvailable:     true,
	}, nil
}

// UpdateTimeSlotRequest запрос на изменение слота расписания
// Не указанные поля остаются без изменений
type UpdateTimeSlotRequest struct {
	DurationMinutes *int  `json:"durationMinutes,omitempty"`
	MaxConcurrent   *int  `json:"maxConcurrent,omitempty"`
	IsAvailable     *bool `json:"isAvailable,omitempty"`
}

// UpsertRuleRequest запрос на создание или обновление правила доступности услуги
type UpsertRuleRequest struct {
	ServiceID         int64   `json:"serviceId"`
	DaysOfWeek        []int64 `json:"daysOfWeek,omitempty"`        // 0=воскресенье ... 6=суббота, пусто - без ограничений
	SpecificTimeSlots []int64 `json:"specificTimeSlots,omitempty"` // Пусто - все слоты каталога
}

// ToDomainRule конвертирует request в domain модель
func (r *UpsertRuleRequest) ToDomainRule() *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		ServiceID:         r.ServiceID,
		DaysOfWeek:        r.DaysOfWeek,
		SpecificTimeSlots: r.SpecificTimeSlots,
		IsActive:          true,
	}
}

// CreateBlockRequest запрос на создание блокировки расписания
type CreateBlockRequest struct {
	BlockDate        time.Time `json:"blockDate"`
	BlockType        string    `json:"blockType"` // "full_day" или "partial_day"
	BlockedTimeSlots []int64   `json:"blockedTimeSlots,omitempty"`
	Reason           *string   `json:"reason,omitempty"`
}

// ToDomainBlock конвертирует request в domain модель
func (r *CreateBlockRequest) ToDomainBlock() *domain.ScheduleBlock {
	return &domain.ScheduleBlock{
		BlockDate:        r.BlockDate,
		BlockType:        domain.BlockType(r.BlockType),
		BlockedTimeSlots: r.BlockedTimeSlots,
		Reason:           r.Reason,
		IsActive:         true,
	}
}

// Response модели

// TimeSlotResponse ответ с данными слота
type TimeSlotResponse struct {
	ID              int64  `json:"id"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	MaxConcurrent   int    `json:"maxConcurrent"`
	IsAvailable     bool   `json:"isAvailable"`
}

// TimeSlotListResponse ответ со списком слотов
type TimeSlotListResponse struct {
	TimeSlots []TimeSlotResponse `json:"timeSlots"`
}

// RuleResponse ответ с данными правила доступности
type RuleResponse struct {
	ID                int64   `json:"id"`
	ServiceID         int64   `json:"serviceId"`
	DaysOfWeek        []int64 `json:"daysOfWeek,omitempty"`
	SpecificTimeSlots []int64 `json:"specificTimeSlots,omitempty"`
	IsActive          bool    `json:"isActive"`
}

// BlockResponse ответ с данными блокировки
type BlockResponse struct {
	ID               int64   `json:"id"`
	BlockDate        string  `json:"blockDate"` // "2025-10-15"
	BlockType        string  `json:"blockType"`
	BlockedTimeSlots []int64 `json:"blockedTimeSlots,omitempty"`
	Reason           *string `json:"reason,omitempty"`
	IsActive         bool    `json:"isActive"`
}

// Методы конвертации

// FromDomainTimeSlot конвертирует domain модель в DTO
func FromDomainTimeSlot(s *domain.TimeSlot) *TimeSlotResponse {
	if s == nil {
		return nil
	}

	return &TimeSlotResponse{
		ID:              s.ID,
		StartTime:       s.StartTime.String(),
		DurationMinutes: s.DurationMinutes,
		MaxConcurrent:   s.MaxConcurrent,
		IsAvailable:     s.IsAvailable,
	}
}

// FromDomainTimeSlotList конвертирует список domain моделей в DTO
func FromDomainTimeSlotList(slots []*domain.TimeSlot) *TimeSlotListResponse {
	if slots == nil {
		return &TimeSlotListResponse{
			TimeSlots: []TimeSlotResponse{},
		}
	}

	resp := &TimeSlotListResponse{
		TimeSlots: make([]TimeSlotResponse, len(slots)),
	}

	for i, slot := range slots {
		if slotResp := FromDomainTimeSlot(slot); slotResp != nil {
			resp.TimeSlots[i] = *slotResp
		}
	}

	return resp
}

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.AvailabilityRule) *RuleResponse {
	if r == nil {
		return nil
	}

	return &RuleResponse{
		ID:                r.ID,
		ServiceID:         r.ServiceID,
		DaysOfWeek:        r.DaysOfWeek,
		SpecificTimeSlots: r.SpecificTimeSlots,
		IsActive:          r.IsActive,
	}
}

// FromDomainBlock конвертирует domain модель в DTO
func FromDomainBlock(b *domain.ScheduleBlock) *BlockResponse {
	if b == nil {
		return nil
	}

	return &BlockResponse{
		ID:               b.ID,
		BlockDate:        b.BlockDate.Format(domain.DateFormat),
		BlockType:        string(b.BlockType),
		BlockedTimeSlots: b.BlockedTimeSlots,
		Reason:           b.Reason,
		IsActive:         b.IsActive,
	}
}
