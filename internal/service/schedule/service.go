package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	ruleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/availabilityrule"
	blockRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/scheduleblock"
	slotRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/timeslot"
	catalogClient "github.com/m04kA/SMC-ScheduleService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule/models"
)

// Service сервис для администрирования расписания:
// каталог слотов, правила доступности услуг и блокировки дат
type Service struct {
	slotRepo      TimeSlotRepository
	ruleRepo      RuleRepository
	blockRepo     BlockRepository
	catalogClient CatalogServiceClient
	logger        Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	slotRepo TimeSlotRepository,
	ruleRepo RuleRepository,
	blockRepo BlockRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:      slotRepo,
		ruleRepo:      ruleRepo,
		blockRepo:     blockRepo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// Слоты расписания

// ListTimeSlots возвращает каталог слотов
// includeDisabled добавляет в ответ отключённые слоты
func (s *Service) ListTimeSlots(ctx context.Context, includeDisabled bool) (*models.TimeSlotListResponse, error) {
	s.logger.Info("ListTimeSlots: fetching time slots, includeDisabled=%v", includeDisabled)

	var (
		slots []*domain.TimeSlot
		err   error
	)
	if includeDisabled {
		slots, err = s.slotRepo.ListAll(ctx)
	} else {
		slots, err = s.slotRepo.ListAvailable(ctx)
	}
	if err != nil {
		s.logger.Error("ListTimeSlots: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListTimeSlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListTimeSlots: successfully fetched %d time slots", len(slots))
	return models.FromDomainTimeSlotList(slots), nil
}

// CreateTimeSlot создает новый слот расписания
func (s *Service) CreateTimeSlot(ctx context.Context, req *models.CreateTimeSlotRequest) (*models.TimeSlotResponse, error) {
	s.logger.Info("CreateTimeSlot: creating slot startTime=%s, duration=%d, maxConcurrent=%d",
		req.StartTime, req.DurationMinutes, req.MaxConcurrent)

	if err := s.validateSlotParams(req.DurationMinutes, req.MaxConcurrent); err != nil {
		s.logger.Warn("CreateTimeSlot: validation failed: %v", err)
		return nil, err
	}

	slot, err := req.ToDomainTimeSlot()
	if err != nil {
		s.logger.Warn("CreateTimeSlot: invalid startTime=%s", req.StartTime)
		return nil, fmt.Errorf("%w: invalid startTime format, expected HH:MM", ErrInvalidInput)
	}

	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		s.logger.Error("CreateTimeSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateTimeSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateTimeSlot: successfully created slot id=%d", created.ID)
	return models.FromDomainTimeSlot(created), nil
}

// UpdateTimeSlot изменяет параметры слота
// Выключение слота (isAvailable=false) скрывает его из каталога,
// существующие записи при этом не затрагиваются
func (s *Service) UpdateTimeSlot(ctx context.Context, id int64, req *models.UpdateTimeSlotRequest) (*models.TimeSlotResponse, error) {
	s.logger.Info("UpdateTimeSlot: updating slot id=%d", id)

	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("UpdateTimeSlot: slot id=%d not found", id)
			return nil, ErrTimeSlotNotFound
		}
		s.logger.Error("UpdateTimeSlot: repository error for slot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateTimeSlot - repository error: %v", ErrInternal, err)
	}

	if req.DurationMinutes != nil {
		slot.DurationMinutes = *req.DurationMinutes
	}
	if req.MaxConcurrent != nil {
		slot.MaxConcurrent = *req.MaxConcurrent
	}
	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}

	if err := s.validateSlotParams(slot.DurationMinutes, slot.MaxConcurrent); err != nil {
		s.logger.Warn("UpdateTimeSlot: validation failed for slot id=%d: %v", id, err)
		return nil, err
	}

	if err := s.slotRepo.Update(ctx, slot); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("UpdateTimeSlot: slot id=%d not found during update", id)
			return nil, ErrTimeSlotNotFound
		}
		s.logger.Error("UpdateTimeSlot: repository error for slot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateTimeSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateTimeSlot: successfully updated slot id=%d", id)
	return models.FromDomainTimeSlot(slot), nil
}

// Правила доступности услуг

// GetRule возвращает активное правило доступности услуги
func (s *Service) GetRule(ctx context.Context, serviceID int64) (*models.RuleResponse, error) {
	s.logger.Info("GetRule: fetching rule for service=%d", serviceID)

	if serviceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	rule, err := s.ruleRepo.GetActiveByServiceID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("GetRule: rule for service=%d not found", serviceID)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("GetRule: repository error for service=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: GetRule - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRule(rule), nil
}

// UpsertRule создает или заменяет правило доступности услуги
// Услуга проверяется в каталоге, слоты из specificTimeSlots - в каталоге слотов
func (s *Service) UpsertRule(ctx context.Context, req *models.UpsertRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("UpsertRule: upserting rule for service=%d, days=%v, slots=%v",
		req.ServiceID, req.DaysOfWeek, req.SpecificTimeSlots)

	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	for _, day := range req.DaysOfWeek {
		if day < domain.MinDayOfWeek || day > domain.MaxDayOfWeek {
			s.logger.Warn("UpsertRule: invalid day of week %d for service=%d", day, req.ServiceID)
			return nil, fmt.Errorf("%w: dayOfWeek must be between %d and %d",
				ErrInvalidInput, domain.MinDayOfWeek, domain.MaxDayOfWeek)
		}
	}

	// Услуга должна существовать и быть активной в каталоге
	if _, err := s.catalogClient.GetService(ctx, req.ServiceID); err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) || errors.Is(err, catalogClient.ErrServiceInactive) {
			s.logger.Warn("UpsertRule: service id=%d not found in catalog", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("UpsertRule: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// Все слоты правила должны существовать в каталоге
	for _, slotID := range req.SpecificTimeSlots {
		if _, err := s.slotRepo.GetByID(ctx, slotID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				s.logger.Warn("UpsertRule: slot id=%d not found for service=%d", slotID, req.ServiceID)
				return nil, fmt.Errorf("%w: time slot %d does not exist", ErrInvalidInput, slotID)
			}
			s.logger.Error("UpsertRule: failed to check slot id=%d: %v", slotID, err)
			return nil, fmt.Errorf("%w: failed to check time slot: %v", ErrInternal, err)
		}
	}

	upserted, err := s.ruleRepo.Upsert(ctx, req.ToDomainRule())
	if err != nil {
		s.logger.Error("UpsertRule: repository error for service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: UpsertRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertRule: successfully upserted rule id=%d for service=%d", upserted.ID, req.ServiceID)
	return models.FromDomainRule(upserted), nil
}

// DeactivateRule снимает правило доступности с услуги
// Услуга без правила снова доступна в любой день и любой слот
func (s *Service) DeactivateRule(ctx context.Context, serviceID int64) error {
	s.logger.Info("DeactivateRule: deactivating rule for service=%d", serviceID)

	if serviceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if err := s.ruleRepo.Deactivate(ctx, serviceID); err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("DeactivateRule: rule for service=%d not found", serviceID)
			return ErrRuleNotFound
		}
		s.logger.Error("DeactivateRule: repository error for service=%d: %v", serviceID, err)
		return fmt.Errorf("%w: DeactivateRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeactivateRule: successfully deactivated rule for service=%d", serviceID)
	return nil
}

// Блокировки расписания

// GetBlocksByDate возвращает активные блокировки на дату
func (s *Service) GetBlocksByDate(ctx context.Context, date time.Time) ([]*models.BlockResponse, error) {
	s.logger.Info("GetBlocksByDate: fetching blocks for date=%s", date.Format(domain.DateFormat))

	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	blocks, err := s.blockRepo.GetActiveByDate(ctx, date)
	if err != nil {
		s.logger.Error("GetBlocksByDate: repository error for date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: GetBlocksByDate - repository error: %v", ErrInternal, err)
	}

	result := make([]*models.BlockResponse, 0, len(blocks))
	for _, block := range blocks {
		result = append(result, models.FromDomainBlock(block))
	}

	s.logger.Info("GetBlocksByDate: successfully fetched %d blocks for date=%s",
		len(result), date.Format(domain.DateFormat))
	return result, nil
}

// CreateBlock создает блокировку расписания
// Блокировка на весь день закрывает дату целиком, частичная - только указанные слоты
func (s *Service) CreateBlock(ctx context.Context, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	s.logger.Info("CreateBlock: creating %s block for date=%s",
		req.BlockType, req.BlockDate.Format(domain.DateFormat))

	if err := s.validateBlockRequest(req); err != nil {
		s.logger.Warn("CreateBlock: validation failed: %v", err)
		return nil, err
	}

	// Слоты частичной блокировки должны существовать в каталоге
	for _, slotID := range req.BlockedTimeSlots {
		if _, err := s.slotRepo.GetByID(ctx, slotID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				s.logger.Warn("CreateBlock: slot id=%d not found", slotID)
				return nil, fmt.Errorf("%w: time slot %d does not exist", ErrInvalidInput, slotID)
			}
			s.logger.Error("CreateBlock: failed to check slot id=%d: %v", slotID, err)
			return nil, fmt.Errorf("%w: failed to check time slot: %v", ErrInternal, err)
		}
	}

	created, err := s.blockRepo.Create(ctx, req.ToDomainBlock())
	if err != nil {
		s.logger.Error("CreateBlock: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBlock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlock: successfully created block id=%d", created.ID)
	return models.FromDomainBlock(created), nil
}

// DeactivateBlock снимает блокировку расписания
func (s *Service) DeactivateBlock(ctx context.Context, id int64) error {
	s.logger.Info("DeactivateBlock: deactivating block id=%d", id)

	if id <= 0 {
		return fmt.Errorf("%w: block id must be positive", ErrInvalidInput)
	}

	if err := s.blockRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, blockRepo.ErrBlockNotFound) {
			s.logger.Warn("DeactivateBlock: block id=%d not found", id)
			return ErrBlockNotFound
		}
		s.logger.Error("DeactivateBlock: repository error for block id=%d: %v", id, err)
		return fmt.Errorf("%w: DeactivateBlock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeactivateBlock: successfully deactivated block id=%d", id)
	return nil
}

// Вспомогательные методы

// validateSlotParams проверяет бизнес-ограничения параметров слота
func (s *Service) validateSlotParams(durationMinutes, maxConcurrent int) error {
	if durationMinutes < domain.MinSlotDurationMinutes || durationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	if maxConcurrent < domain.MinMaxConcurrent || maxConcurrent > domain.MaxMaxConcurrent {
		return fmt.Errorf("%w: maxConcurrent must be between %d and %d",
			ErrInvalidInput, domain.MinMaxConcurrent, domain.MaxMaxConcurrent)
	}

	return nil
}

// validateBlockRequest проверяет согласованность типа блокировки и списка слотов
func (s *Service) validateBlockRequest(req *models.CreateBlockRequest) error {
	if req.BlockDate.IsZero() {
		return fmt.Errorf("%w: blockDate is required", ErrInvalidInput)
	}

	switch domain.BlockType(req.BlockType) {
	case domain.BlockTypeFullDay:
		if len(req.BlockedTimeSlots) > 0 {
			return fmt.Errorf("%w: full_day block must not list time slots", ErrInvalidInput)
		}
	case domain.BlockTypePartialDay:
		if len(req.BlockedTimeSlots) == 0 {
			return fmt.Errorf("%w: partial_day block requires at least one time slot", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: blockType must be full_day or partial_day", ErrInvalidInput)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxBlockReasonLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxBlockReasonLength)
	}

	return nil
}
