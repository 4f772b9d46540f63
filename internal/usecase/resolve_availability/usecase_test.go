package resolve_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	ruleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/availabilityrule"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Фейковые реализации контрактов usecase

type fakeSlotRepo struct {
	slots []*domain.TimeSlot
}

func (f *fakeSlotRepo) ListAvailable(_ context.Context) ([]*domain.TimeSlot, error) {
	return f.slots, nil
}

type fakeRuleRepo struct {
	rules map[int64]*domain.AvailabilityRule
}

func (f *fakeRuleRepo) GetActiveByServiceID(_ context.Context, serviceID int64) (*domain.AvailabilityRule, error) {
	rule, ok := f.rules[serviceID]
	if !ok {
		return nil, ruleRepo.ErrRuleNotFound
	}
	return rule, nil
}

type fakeBlockRepo struct {
	blocks map[string][]*domain.ScheduleBlock // ключ - дата YYYY-MM-DD
}

func (f *fakeBlockRepo) GetActiveByDate(_ context.Context, date time.Time) ([]*domain.ScheduleBlock, error) {
	return f.blocks[date.Format(domain.DateFormat)], nil
}

type fakeApptRepo struct {
	appointments []*domain.Appointment
}

func (f *fakeApptRepo) GetByDate(_ context.Context, filter domain.DayAppointmentsFilter) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, appt := range f.appointments {
		if appt.AppointmentDate.Format(domain.DateFormat) == filter.Date.Format(domain.DateFormat) {
			result = append(result, appt)
		}
	}
	return result, nil
}

type fakeCatalogClient struct {
	services map[int64]*catalogservice.Service
}

func (f *fakeCatalogClient) GetService(_ context.Context, serviceID int64) (*catalogservice.Service, error) {
	service, ok := f.services[serviceID]
	if !ok {
		return nil, catalogservice.ErrServiceNotFound
	}
	return service, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Вспомогательная сборка usecase

type fixture struct {
	slots   *fakeSlotRepo
	rules   *fakeRuleRepo
	blocks  *fakeBlockRepo
	appts   *fakeApptRepo
	catalog *fakeCatalogClient
	usecase *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		slots:   &fakeSlotRepo{},
		rules:   &fakeRuleRepo{rules: map[int64]*domain.AvailabilityRule{}},
		blocks:  &fakeBlockRepo{blocks: map[string][]*domain.ScheduleBlock{}},
		appts:   &fakeApptRepo{},
		catalog: &fakeCatalogClient{services: map[int64]*catalogservice.Service{}},
	}
	f.usecase = NewUseCase(f.slots, f.rules, f.blocks, f.appts, f.catalog, nopLogger{})
	return f
}

func (f *fixture) withService(id int64) {
	f.catalog.services[id] = &catalogservice.Service{ID: id, Name: "Чистка лица", IsActive: true}
}

var (
	monday    = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC) // понедельник
	tuesday   = time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC) // вторник
	wednesday = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC) // среда
)

func slot(id int64, start string, maxConcurrent int) *domain.TimeSlot {
	return &domain.TimeSlot{
		ID:              id,
		StartTime:       types.TimeString(start),
		DurationMinutes: 60,
		IsAvailable:     true,
		MaxConcurrent:   maxConcurrent,
	}
}

// Ограничение по дням недели: Пн/Ср/Пт, запрос на вторник
func TestExecute_DayOfWeekRestriction(t *testing.T) {
	f := newFixture()
	f.withService(1)
	f.slots.slots = []*domain.TimeSlot{slot(1, "09:00", 1)}
	f.rules.rules[1] = &domain.AvailabilityRule{ServiceID: 1, DaysOfWeek: []int64{1, 3, 5}, IsActive: true}

	resp, err := f.usecase.Execute(context.Background(), &Request{Date: tuesday, ServiceID: ptr.Ptr(int64(1))})
	require.NoError(t, err)

	assert.False(t, resp.IsAvailable)
	require.NotNil(t, resp.Reason)
	assert.Contains(t, *resp.Reason, "Понедельник")
	assert.Contains(t, *resp.Reason, "Среда")
	assert.Contains(t, *resp.Reason, "Пятница")
	assert.Empty(t, resp.Slots)

	// Понедельник проходит проверку дня недели
	resp, err = f.usecase.Execute(context.Background(), &Request{Date: monday, ServiceID: ptr.Ptr(int64(1))})
	require.NoError(t, err)
	assert.True(t, resp.IsAvailable)
	assert.Len(t, resp.Slots, 1)
}

// При конфликте причин побеждает ограничение по дню недели:
// проверка дня выполняется раньше проверки блокировок
func TestExecute_DayRestrictionBeatsFullDayBlock(t *testing.T) {
	f := newFixture()
	f.withService(1)
	f.slots.slots = []*domain.TimeSlot{slot(1, "09:00", 1)}
	f.rules.rules[1] = &domain.AvailabilityRule{ServiceID: 1, DaysOfWeek: []int64{1, 3, 5}, IsActive: true}
	f.blocks.blocks[tuesday.Format(domain.DateFormat)] = []*domain.ScheduleBlock{
		{ID: 1, BlockDate: tuesday, BlockType: domain.BlockTypeFullDay, Reason: ptr.Ptr("Отпуск"), IsActive: true},
	}

	resp, err := f.usecase.Execute(context.Background(), &Request{Date: tuesday, ServiceID: ptr.Ptr(int64(1))})
	require.NoError(t, err)

	assert.False(t, resp.IsAvailable)
	require.NotNil(t, resp.Reason)
	assert.Contains(t, *resp.Reason, "Понедельник")
	assert.NotContains(t, *resp.Reason, "Отпуск")
}

func TestExecute_FullDayBlock(t *testing.T) {
	f := newFixture()
	f.slots.slots = []*domain.TimeSlot{slot(1, "09:00", 1)}
	f.blocks.blocks[monday.Format(domain.DateFormat)] = []*domain.ScheduleBlock{
		{ID: 1, BlockDate: monday, BlockType: domain.BlockTypePartialDay, BlockedTimeSlots: []int64{1}, IsActive: true},
		{ID: 2, BlockDate: monday, BlockType: domain.BlockTypeFullDay, Reason: ptr.Ptr("Санитарный день"), IsActive: true},
	}

	resp, err := f.usecase.Execute(context.Background(), &Request{Date: monday})
	require.NoError(t, err)

	assert.False(t, resp.IsAvailable)
	require.NotNil(t, resp.Reason)
	assert.Equal(t, "Санитарный день", *resp.Reason)
	assert.Empty(t, resp.Slots)
}

// Частичная блокировка вычитает только свои слоты
func TestExecute_PartialBlockSubtraction(t *testing.T) {
	f := newFixture()
	f.slots.slots = []*domain.TimeSlot{
		slot(1, "09:00", 1),
		slot(2, "10:00", 1),
		slot(3, "11:00", 1),
	}
	f.blocks.blocks[monday.Format(domain.DateFormat)] = []*domain.ScheduleBlock{
		{ID: 1, BlockDate: monday, BlockType: domain.BlockTypePartialDay, BlockedTimeSlots: []int64{2}, IsActive: true},
	}

	resp, err := f.usecase.Execute(context.Background(), &Request{Date: monday})
	require.NoError(t, err)

	assert.True(t, resp.IsAvailable)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, int64(1), resp.Slots[0].TimeSlotID)
	assert.Equal(t, int64(3), resp.Slots[1].TimeSlotID)
}

// Порог занятости: слот исключается только при достижении max_concurrent
func TestExecute_CapacityThreshold(t *testing.T) {
	f := newFixture()
	f.slots.slots = []*domain.TimeSlot{slot(1, "09:00", 2)}

	appt := func(id int64, status domain.AppointmentStatus) *domain.Appointment {
		return &domain.Appointment{ID: id, TimeSlotID: 1, AppointmentDate: monday, Status: status}
	}

	// Одна активная запись из двух мест - слот остаётся доступным
	f.appts.appointments = []*domain.Appointment{appt(1, domain.StatusConfirmed)}
	resp, err := f.usecase.Execute(context.Background(), &Request{Date: monday})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, 1, resp.Slots[0].AvailableSpots)
	assert.Equal(t, 2, resp.Slots[0].TotalSpots)

	// Две активные записи - слот заполнен и исключается
	f.appts.appointments = append(f.appts.appointments, appt(2, domain.StatusPending))
	resp, err = f.usecase.Execute(context.Background(), &Request{Date: monday})
	require.NoError(t, err)
	assert.True(t, resp.IsAvailable, "переполненный день - валидный результат, а не закрытая дата")
	assert.Empty(t, resp.Slots)

	// Отменённая запись сверху ничего не меняет
	f.appts.appointments = append(f.appts.appointments, appt(3, domain.StatusCancelled))
	resp, err = f.usecase.Execute(context.Background(), &Request{Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

// Self-exemption: слот редактируемой записи остаётся доступным
func TestExecute_ExcludeAppointmentKeepsOwnSlot(t *testing.T) {
	f := newFixture()
	f.slots.slots = []*domain.TimeSlot{slot(1, "09:00", 1)}
	f.appts.appointments = []*domain.Appointment{
		{ID: 77, TimeSlotID: 1, AppointmentDate: monday, Status: domain.StatusConfirmed},
	}

	// Без исключения слот заполнен
	resp, err := f.usecase.Execute(context.Background(), &Request{Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)

	// При редактировании записи 77 её слот снова доступен
	resp, err = f.usecase.Execute(context.Background(), &Request{
		Date:                 monday,
		ExcludeAppointmentID: ptr.Ptr(int64(77)),
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, int64(1), resp.Slots[0].TimeSlotID)
}

// Услуга без правила эквивалентна запросу без услуги
func TestExecute_NoRuleDefaultsToUnrestricted(t *testing.T) {
	f := newFixture()
	f.withService(5)
	f.slots.slots = []*domain.TimeSlot{
		slot(1, "09:00", 1),
		slot(2, "10:00", 1),
	}

	withService, err := f.usecase.Execute(context.Background(), &Request{Date: monday, ServiceID: ptr.Ptr(int64(5))})
	require.NoError(t, err)

	withoutService, err := f.usecase.Execute(context.Background(), &Request{Date: monday})
	require.NoError(t, err)

	assert.True(t, withService.IsAvailable)
	assert.Equal(t, withoutService.Slots, withService.Slots)
}

// Идемпотентность: одинаковые входы дают одинаковый результат
func TestExecute_Idempotent(t *testing.T) {
	f := newFixture()
	f.withService(1)
	f.slots.slots = []*domain.TimeSlot{slot(1, "09:00", 2), slot(2, "10:00", 1)}
	f.rules.rules[1] = &domain.AvailabilityRule{ServiceID: 1, SpecificTimeSlots: []int64{1, 2}, IsActive: true}
	f.appts.appointments = []*domain.Appointment{
		{ID: 1, TimeSlotID: 1, AppointmentDate: monday, Status: domain.StatusConfirmed},
	}

	req := &Request{Date: monday, ServiceID: ptr.Ptr(int64(1))}

	first, err := f.usecase.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := f.usecase.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture()
	f.slots.slots = []*domain.TimeSlot{slot(1, "09:00", 1)}

	_, err := f.usecase.Execute(context.Background(), &Request{Date: monday, ServiceID: ptr.Ptr(int64(404))})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture()

	_, err := f.usecase.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.usecase.Execute(context.Background(), &Request{Date: monday, ServiceID: ptr.Ptr(int64(-1))})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// Сквозной сценарий: услуга только по вторникам, два слота по одному месту
func TestExecute_EndToEnd(t *testing.T) {
	f := newFixture()
	f.withService(9)
	f.slots.slots = []*domain.TimeSlot{
		slot(1, "09:00", 1),
		slot(2, "10:00", 1),
	}
	f.rules.rules[9] = &domain.AvailabilityRule{ServiceID: 9, DaysOfWeek: []int64{2}, IsActive: true}

	// Вторник: оба слота доступны, порядок по времени начала
	resp, err := f.usecase.Execute(context.Background(), &Request{Date: tuesday, ServiceID: ptr.Ptr(int64(9))})
	require.NoError(t, err)
	assert.True(t, resp.IsAvailable)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, "10:00", resp.Slots[1].StartTime.String())

	// Среда: дата закрыта с причиной, упоминающей вторник
	resp, err = f.usecase.Execute(context.Background(), &Request{Date: wednesday, ServiceID: ptr.Ptr(int64(9))})
	require.NoError(t, err)
	assert.False(t, resp.IsAvailable)
	require.NotNil(t, resp.Reason)
	assert.Contains(t, *resp.Reason, "Вторник")
	assert.Empty(t, resp.Slots)
}
