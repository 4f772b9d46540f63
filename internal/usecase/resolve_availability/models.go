package resolve_availability

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Request модель запроса на расчёт доступности даты
type Request struct {
	Date      time.Time // Дата, для которой рассчитывается доступность
	ServiceID *int64    // ID услуги (опционально; nil = без ограничений услуги)

	// ExcludeAppointmentID - ID редактируемой записи (опционально)
	// Слот, занятый этой записью, остаётся доступным для выбора,
	// даже если он заполнен до предела - иначе форма редактирования
	// не смогла бы показать текущий слот записи
	ExcludeAppointmentID *int64
}

// Response модель ответа с результатом расчёта доступности
type Response struct {
	Date      time.Time
	ServiceID *int64

	// IsAvailable = false означает, что дата закрыта целиком (ограничение по
	// дням недели или блокировка на весь день); Reason объясняет причину.
	// IsAvailable = true с пустым Slots - валидный результат "всё занято".
	IsAvailable bool
	Reason      *string
	Slots       []Slot
}

// Slot модель доступного временного слота
type Slot struct {
	TimeSlotID      int64
	StartTime       types.TimeString
	DurationMinutes int
	AvailableSpots  int // Количество свободных мест
	TotalSpots      int // Общее количество мест
}
