package resolve_availability

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// Чистые функции расчёта доступности. Никакого I/O - все входные коллекции
// загружаются в usecase, поэтому одинаковые входы дают одинаковый результат.

const fullDayBlockFallbackReason = "Запись на эту дату закрыта"

// dayRestrictionReason формирует причину отказа по ограничению дней недели
func dayRestrictionReason(rule *domain.AvailabilityRule) string {
	names := make([]string, 0, len(rule.DaysOfWeek))
	for _, day := range rule.DaysOfWeek {
		if day < domain.MinDayOfWeek || day > domain.MaxDayOfWeek {
			// Некорректный день в правиле не должен ломать расчёт
			continue
		}
		names = append(names, domain.DayNames[day])
	}
	return fmt.Sprintf("Услуга доступна только в следующие дни: %s", strings.Join(names, ", "))
}

// fullDayBlock возвращает первую активную блокировку на весь день
// Любая такая блокировка закрывает дату целиком, независимо от остальных
func fullDayBlock(blocks []*domain.ScheduleBlock) *domain.ScheduleBlock {
	for _, block := range blocks {
		if block.IsFullDay() {
			return block
		}
	}
	return nil
}

// fullDayBlockReason возвращает причину блокировки или стандартный текст
func fullDayBlockReason(block *domain.ScheduleBlock) string {
	if block.Reason != nil && *block.Reason != "" {
		return *block.Reason
	}
	return fullDayBlockFallbackReason
}

// blockedSlotIDs собирает объединение заблокированных слотов по всем
// частичным блокировкам даты
func blockedSlotIDs(blocks []*domain.ScheduleBlock) map[int64]struct{} {
	blocked := make(map[int64]struct{})
	for _, block := range blocks {
		if block.IsFullDay() {
			continue
		}
		for _, slotID := range block.BlockedTimeSlots {
			blocked[slotID] = struct{}{}
		}
	}
	return blocked
}

// filterByRule оставляет только слоты, разрешённые правилом услуги
// Правило без ограничения слотов (или nil) пропускает весь каталог;
// id из правила, отсутствующие в каталоге, молча игнорируются
func filterByRule(slots []*domain.TimeSlot, rule *domain.AvailabilityRule) []*domain.TimeSlot {
	if !rule.RestrictsSlots() {
		return slots
	}

	filtered := make([]*domain.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if rule.AllowsSlot(slot.ID) {
			filtered = append(filtered, slot)
		}
	}
	return filtered
}

// activeCountsBySlot группирует записи по слотам и считает занятые места
// Отменённые записи место не занимают; запись с ID excludeAppointmentID
// пропускается (self-exemption при редактировании)
func activeCountsBySlot(appointments []*domain.Appointment, excludeAppointmentID *int64) map[int64]int {
	counts := make(map[int64]int)
	for _, appt := range appointments {
		if !appt.CountsAgainstCapacity() {
			continue
		}
		if excludeAppointmentID != nil && appt.ID == *excludeAppointmentID {
			continue
		}
		counts[appt.TimeSlotID]++
	}
	return counts
}

// buildSlots превращает прошедшие фильтры слоты каталога в ответ
// Слоты, занятые до max_concurrent, исключаются; порядок каталога
// (по времени начала) сохраняется
func buildSlots(slots []*domain.TimeSlot, blocked map[int64]struct{}, counts map[int64]int) []Slot {
	result := make([]Slot, 0, len(slots))
	for _, slot := range slots {
		if _, isBlocked := blocked[slot.ID]; isBlocked {
			continue
		}

		taken := counts[slot.ID]
		if slot.IsAtCapacity(taken) {
			continue
		}

		result = append(result, Slot{
			TimeSlotID:      slot.ID,
			StartTime:       slot.StartTime,
			DurationMinutes: slot.DurationMinutes,
			AvailableSpots:  slot.SpotsLeft(taken),
			TotalSpots:      slot.MaxConcurrent,
		})
	}
	return result
}
