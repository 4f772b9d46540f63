package resolve_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	ruleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/availabilityrule"
	catalogClient "github.com/m04kA/SMC-ScheduleService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
)

// UseCase use case расчёта доступности даты для записи
//
// Порядок проверок фиксирован и важен для причин отказа:
//  1. Ограничение услуги по дням недели - дата закрыта с причиной
//  2. Блокировка на весь день - дата закрыта с причиной блокировки
//  3. Каталог слотов, суженный правилом услуги, минус частичные блокировки,
//     минус заполненные слоты - итоговый список для выбора времени
//
// Шаги 1 и 2 завершают расчёт сразу; если оба применимы к дате,
// клиент увидит причину шага 1
type UseCase struct {
	slotRepo      TimeSlotRepository
	ruleRepo      RuleRepository
	blockRepo     BlockRepository
	apptRepo      AppointmentRepository
	catalogClient CatalogServiceClient
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo TimeSlotRepository,
	ruleRepo RuleRepository,
	blockRepo BlockRepository,
	apptRepo AppointmentRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:      slotRepo,
		ruleRepo:      ruleRepo,
		blockRepo:     blockRepo,
		apptRepo:      apptRepo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// Execute выполняет расчёт доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ResolveAvailability: date=%s, service=%v, excludeAppointment=%v",
		req.Date.Format(domain.DateFormat), formatID(req.ServiceID), formatID(req.ExcludeAppointmentID))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ResolveAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем правило доступности услуги (если услуга указана)
	// Отсутствие правила - не ошибка: услуга без правила доступна всегда
	rule, err := uc.getServiceRule(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	// 3. Проверка дня недели по правилу услуги
	if rule.RestrictsDays() && !rule.AllowsDate(req.Date) {
		reason := dayRestrictionReason(rule)
		uc.logger.Info("ResolveAvailability: date %s rejected by day-of-week rule for service=%d",
			req.Date.Format(domain.DateFormat), rule.ServiceID)
		return uc.unavailable(req, reason), nil
	}

	// 4. Получаем все активные блокировки на дату
	blocks, err := uc.blockRepo.GetActiveByDate(ctx, req.Date)
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to get schedule blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule blocks: %v", ErrInternal, err)
	}

	// 5. Блокировка на весь день закрывает дату целиком
	if block := fullDayBlock(blocks); block != nil {
		reason := fullDayBlockReason(block)
		uc.logger.Info("ResolveAvailability: date %s closed by full-day block id=%d",
			req.Date.Format(domain.DateFormat), block.ID)
		return uc.unavailable(req, reason), nil
	}

	// 6. Каталог активных слотов
	catalog, err := uc.slotRepo.ListAvailable(ctx)
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to list time slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list time slots: %v", ErrInternal, err)
	}

	// 7. Сужение каталога правилом услуги (specific_time_slots)
	candidates := filterByRule(catalog, rule)

	// 8. Записи на дату (отменённые не занимают места)
	appointments, err := uc.apptRepo.GetByDate(ctx, domain.DayAppointmentsFilter{Date: req.Date})
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 9. Вычитаем частичные блокировки и заполненные слоты
	counts := activeCountsBySlot(appointments, req.ExcludeAppointmentID)
	slots := buildSlots(candidates, blockedSlotIDs(blocks), counts)

	uc.logger.Info("ResolveAvailability: date=%s, service=%v - %d of %d slots open",
		req.Date.Format(domain.DateFormat), formatID(req.ServiceID), len(slots), len(catalog))

	return &Response{
		Date:        req.Date,
		ServiceID:   req.ServiceID,
		IsAvailable: true,
		Slots:       slots,
	}, nil
}

// getServiceRule загружает активное правило услуги
// Возвращает nil без ошибки, если услуга не указана или правила нет
func (uc *UseCase) getServiceRule(ctx context.Context, serviceID *int64) (*domain.AvailabilityRule, error) {
	if serviceID == nil {
		return nil, nil
	}

	// Услуга должна существовать и быть активной в каталоге
	if _, err := uc.catalogClient.GetService(ctx, *serviceID); err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) || errors.Is(err, catalogClient.ErrServiceInactive) {
			uc.logger.Warn("ResolveAvailability: service id=%d not found in catalog", *serviceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("ResolveAvailability: failed to get service id=%d: %v", *serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	rule, err := uc.ruleRepo.GetActiveByServiceID(ctx, *serviceID)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			return nil, nil
		}
		uc.logger.Error("ResolveAvailability: failed to get rule for service id=%d: %v", *serviceID, err)
		return nil, fmt.Errorf("%w: failed to get availability rule: %v", ErrInternal, err)
	}

	return rule, nil
}

func (uc *UseCase) unavailable(req *Request, reason string) *Response {
	return &Response{
		Date:        req.Date,
		ServiceID:   req.ServiceID,
		IsAvailable: false,
		Reason:      ptr.Ptr(reason),
		Slots:       []Slot{},
	}
}

func formatID(id *int64) interface{} {
	if id == nil {
		return "<nil>"
	}
	return *id
}
