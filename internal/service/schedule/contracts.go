package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/catalogservice"
)

// TimeSlotRepository интерфейс репозитория слотов расписания
type TimeSlotRepository interface {
	Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error)
	Update(ctx context.Context, slot *domain.TimeSlot) error
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	ListAvailable(ctx context.Context) ([]*domain.TimeSlot, error)
	ListAll(ctx context.Context) ([]*domain.TimeSlot, error)
}

// RuleRepository интерфейс репозитория правил доступности услуг
type RuleRepository interface {
	GetActiveByServiceID(ctx context.Context, serviceID int64) (*domain.AvailabilityRule, error)
	Upsert(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error)
	Deactivate(ctx context.Context, serviceID int64) error
}

// BlockRepository интерфейс репозитория блокировок расписания
type BlockRepository interface {
	Create(ctx context.Context, block *domain.ScheduleBlock) (*domain.ScheduleBlock, error)
	GetActiveByDate(ctx context.Context, date time.Time) ([]*domain.ScheduleBlock, error)
	Deactivate(ctx context.Context, id int64) error
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
