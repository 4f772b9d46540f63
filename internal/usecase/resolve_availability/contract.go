package resolve_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/catalogservice"
)

// TimeSlotRepository интерфейс репозитория каталога слотов
type TimeSlotRepository interface {
	// ListAvailable возвращает активные слоты каталога, отсортированные по времени начала
	ListAvailable(ctx context.Context) ([]*domain.TimeSlot, error)
}

// RuleRepository интерфейс репозитория правил доступности услуг
type RuleRepository interface {
	// GetActiveByServiceID возвращает активное правило услуги
	// Отсутствие правила означает "услуга доступна всегда"
	GetActiveByServiceID(ctx context.Context, serviceID int64) (*domain.AvailabilityRule, error)
}

// BlockRepository интерфейс репозитория блокировок расписания
type BlockRepository interface {
	// GetActiveByDate возвращает все активные блокировки на дату
	GetActiveByDate(ctx context.Context, date time.Time) ([]*domain.ScheduleBlock, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetByDate возвращает записи на дату (по умолчанию без отменённых)
	GetByDate(ctx context.Context, filter domain.DayAppointmentsFilter) ([]*domain.Appointment, error)
}

// CatalogServiceClient интерфейс клиента каталога услуг
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
