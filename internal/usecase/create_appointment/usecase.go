package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	ruleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/availabilityrule"
	slotRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/timeslot"
	catalogClient "github.com/m04kA/SMC-ScheduleService/internal/integrations/catalogservice"
)

// UseCase use case для создания записи
type UseCase struct {
	apptRepo      AppointmentRepository
	slotRepo      TimeSlotRepository
	ruleRepo      RuleRepository
	blockRepo     BlockRepository
	catalogClient CatalogServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	slotRepo TimeSlotRepository,
	ruleRepo RuleRepository,
	blockRepo BlockRepository,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:      apptRepo,
		slotRepo:      slotRepo,
		ruleRepo:      ruleRepo,
		blockRepo:     blockRepo,
		catalogClient: catalogClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания записи
// Использует сериализуемую транзакцию для предотвращения гонки данных:
// параллельные записи в один слот не смогут превысить max_concurrent
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: slot=%d, service=%d, date=%s, client=%s",
		req.TimeSlotID, req.ServiceID, req.Date.Format(domain.DateFormat), req.ClientName)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата записи не может быть в прошлом
	if err := validateDate(req.Date, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateAppointment: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 3. Получаем услугу из каталога (должна существовать и быть активной)
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) || errors.Is(err, catalogClient.ErrServiceInactive) {
			uc.logger.Warn("CreateAppointment: service id=%d not found in catalog", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Слот должен существовать и быть включённым
		slot, err := uc.slotRepo.GetByID(txCtx, req.TimeSlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateAppointment: time slot id=%d not found", req.TimeSlotID)
				return ErrTimeSlotNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get time slot id=%d: %v", req.TimeSlotID, err)
			return fmt.Errorf("%w: failed to get time slot: %v", ErrInternal, err)
		}
		if !slot.IsAvailable {
			uc.logger.Warn("CreateAppointment: time slot id=%d is disabled", req.TimeSlotID)
			return ErrTimeSlotNotFound
		}

		// 4.2. Проверяем правило доступности услуги (отсутствие правила - услуга без ограничений)
		rule, err := uc.ruleRepo.GetActiveByServiceID(txCtx, req.ServiceID)
		if err != nil && !errors.Is(err, ruleRepo.ErrRuleNotFound) {
			uc.logger.Error("CreateAppointment: failed to get rule for service id=%d: %v", req.ServiceID, err)
			return fmt.Errorf("%w: failed to get availability rule: %v", ErrInternal, err)
		}

		if rule.RestrictsDays() && !rule.AllowsDate(req.Date) {
			uc.logger.Warn("CreateAppointment: service id=%d is not available on %s",
				req.ServiceID, req.Date.Format(domain.DateFormat))
			return ErrDateNotAvailable
		}
		if rule.RestrictsSlots() && !rule.AllowsSlot(slot.ID) {
			uc.logger.Warn("CreateAppointment: slot id=%d is not allowed for service id=%d", slot.ID, req.ServiceID)
			return ErrSlotNotAllowed
		}

		// 4.3. Проверяем блокировки расписания на дату
		blocks, err := uc.blockRepo.GetActiveByDate(txCtx, req.Date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get schedule blocks: %v", err)
			return fmt.Errorf("%w: failed to get schedule blocks: %v", ErrInternal, err)
		}

		for _, block := range blocks {
			if block.IsFullDay() {
				uc.logger.Warn("CreateAppointment: date %s is closed by full-day block id=%d",
					req.Date.Format(domain.DateFormat), block.ID)
				return ErrDateBlocked
			}
			if block.BlocksSlot(slot.ID) {
				uc.logger.Warn("CreateAppointment: slot id=%d is blocked on %s by block id=%d",
					slot.ID, req.Date.Format(domain.DateFormat), block.ID)
				return ErrSlotBlocked
			}
		}

		// 4.4. Получаем активные записи на эту дату и слот с блокировкой (FOR UPDATE)
		filter := domain.DayAppointmentsFilter{
			Date:            req.Date,
			TimeSlotID:      &req.TimeSlotID,
			IncludeInactive: false, // Отменённые записи место не занимают
		}

		appointments, err := uc.apptRepo.GetByDate(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 4.5. Проверяем занятость слота
		// Если max_concurrent = 3, то допустимо taken = 0, 1, 2; при taken >= 3 слот занят
		taken := countActiveForSlot(appointments, slot.ID)
		if slot.IsAtCapacity(taken) {
			uc.logger.Warn("CreateAppointment: slot id=%d is full, %d/%d spots taken",
				slot.ID, taken, slot.MaxConcurrent)
			return ErrSlotNotAvailable
		}

		uc.logger.Info("CreateAppointment: slot id=%d available, %d/%d spots taken",
			slot.ID, taken, slot.MaxConcurrent)

		// 4.6. Создаем запись с денормализацией данных услуги
		appt := &domain.Appointment{
			TimeSlotID:      slot.ID,
			ServiceID:       req.ServiceID,
			AppointmentDate: req.Date,
			StartTime:       slot.StartTime,
			DurationMinutes: slot.DurationMinutes,
			Status:          domain.StatusPending,
			ClientName:      req.ClientName,
			ClientPhone:     req.ClientPhone,
			Notes:           req.Notes,
			ServiceName:     service.Name,
			ServicePrice:    getServicePrice(service),
		}

		created, err := uc.apptRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// Конвертируем в response
	return &Response{
		ID:              result.ID,
		TimeSlotID:      result.TimeSlotID,
		ServiceID:       result.ServiceID,
		AppointmentDate: result.AppointmentDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ClientName:      result.ClientName,
		ClientPhone:     result.ClientPhone,
		Notes:           result.Notes,
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// getServicePrice извлекает цену из услуги
// Если цена не указана (nil), возвращает 0.0
func getServicePrice(service *catalogClient.Service) float64 {
	if service.Price == nil {
		return 0.0
	}
	return *service.Price
}
