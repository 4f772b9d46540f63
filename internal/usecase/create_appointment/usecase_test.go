package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	ruleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/availabilityrule"
	slotRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

var (
	// Фиксированные даты: 2025-10-13 - понедельник, 2025-10-14 - вторник
	monday  = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
)

// --- Фейки зависимостей ---

type fakeApptRepo struct {
	appointments []*domain.Appointment
	nextID       int64
}

func (f *fakeApptRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	f.nextID++
	created := *appt
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.appointments = append(f.appointments, &created)
	return &created, nil
}

func (f *fakeApptRepo) GetByDate(_ context.Context, filter domain.DayAppointmentsFilter) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, appt := range f.appointments {
		if !appt.AppointmentDate.Equal(filter.Date) {
			continue
		}
		if filter.TimeSlotID != nil && appt.TimeSlotID != *filter.TimeSlotID {
			continue
		}
		if !filter.IncludeInactive && appt.IsCancelled() {
			continue
		}
		result = append(result, appt)
	}
	return result, nil
}

type fakeSlotRepo struct {
	slots map[int64]*domain.TimeSlot
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.TimeSlot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return slot, nil
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
	blocks map[string][]*domain.ScheduleBlock
}

func (f *fakeBlockRepo) GetActiveByDate(_ context.Context, date time.Time) ([]*domain.ScheduleBlock, error) {
	return f.blocks[date.Format(domain.DateFormat)], nil
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

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Фикстура ---

type fixture struct {
	appts   *fakeApptRepo
	slots   *fakeSlotRepo
	rules   *fakeRuleRepo
	blocks  *fakeBlockRepo
	catalog *fakeCatalogClient
	usecase *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		appts:   &fakeApptRepo{},
		slots:   &fakeSlotRepo{slots: make(map[int64]*domain.TimeSlot)},
		rules:   &fakeRuleRepo{rules: make(map[int64]*domain.AvailabilityRule)},
		blocks:  &fakeBlockRepo{blocks: make(map[string][]*domain.ScheduleBlock)},
		catalog: &fakeCatalogClient{services: make(map[int64]*catalogservice.Service)},
	}

	f.usecase = NewUseCase(f.appts, f.slots, f.rules, f.blocks, f.catalog, &fakeTxManager{}, nopLogger{})
	// Тесты выполняются "в пятницу перед monday"
	f.usecase.timeProvider = &fixedTimeProvider{now: time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)}

	f.slots.slots[1] = &domain.TimeSlot{ID: 1, StartTime: "10:00", DurationMinutes: 60, IsAvailable: true, MaxConcurrent: 2}
	f.catalog.services[100] = &catalogservice.Service{ID: 100, Name: "Маникюр", Price: ptr.Ptr(1500.0), IsActive: true}

	return f
}

func validRequest() *Request {
	return &Request{
		TimeSlotID:  1,
		ServiceID:   100,
		Date:        monday,
		ClientName:  "Анна Иванова",
		ClientPhone: "+79991234567",
	}
}

// --- Тесты ---

func TestExecute_CreatesPendingAppointment(t *testing.T) {
	f := newFixture()

	resp, err := f.usecase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
	assert.Equal(t, 60, resp.DurationMinutes)

	// Данные услуги денормализуются в запись
	assert.Equal(t, "Маникюр", resp.ServiceName)
	assert.Equal(t, 1500.0, resp.ServicePrice)
}

func TestExecute_SlotAtCapacity(t *testing.T) {
	f := newFixture()

	// Слот вмещает 2 записи
	_, err := f.usecase.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	_, err = f.usecase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Третья запись в тот же слот не проходит
	_, err = f.usecase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_CancelledAppointmentFreesSpot(t *testing.T) {
	f := newFixture()

	_, err := f.usecase.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	_, err = f.usecase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Отмена одной из записей освобождает место
	f.appts.appointments[0].Status = domain.StatusCancelled

	resp, err := f.usecase.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.ID)
}

func TestExecute_OtherSlotDoesNotConsumeCapacity(t *testing.T) {
	f := newFixture()
	f.slots.slots[2] = &domain.TimeSlot{ID: 2, StartTime: "12:00", DurationMinutes: 60, IsAvailable: true, MaxConcurrent: 1}

	req := validRequest()
	req.TimeSlotID = 2
	_, err := f.usecase.Execute(context.Background(), req)
	require.NoError(t, err)

	// Слот 1 остаётся свободным, запись в слот 2 его не занимает
	_, err = f.usecase.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.Date = time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC)

	_, err := f.usecase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.ServiceID = 999

	_, err := f.usecase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_TimeSlotNotFound(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.TimeSlotID = 999

	_, err := f.usecase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTimeSlotNotFound)
}

func TestExecute_DisabledSlotTreatedAsMissing(t *testing.T) {
	f := newFixture()
	f.slots.slots[1].IsAvailable = false

	_, err := f.usecase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTimeSlotNotFound)
}

func TestExecute_RuleRestrictsDayOfWeek(t *testing.T) {
	f := newFixture()
	// Услуга доступна только по вторникам
	f.rules.rules[100] = &domain.AvailabilityRule{ID: 1, ServiceID: 100, DaysOfWeek: []int64{2}, IsActive: true}

	_, err := f.usecase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDateNotAvailable)

	req := validRequest()
	req.Date = tuesday
	_, err = f.usecase.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_RuleRestrictsSlots(t *testing.T) {
	f := newFixture()
	f.slots.slots[2] = &domain.TimeSlot{ID: 2, StartTime: "12:00", DurationMinutes: 60, IsAvailable: true, MaxConcurrent: 1}
	f.rules.rules[100] = &domain.AvailabilityRule{ID: 1, ServiceID: 100, SpecificTimeSlots: []int64{2}, IsActive: true}

	_, err := f.usecase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAllowed)

	req := validRequest()
	req.TimeSlotID = 2
	_, err = f.usecase.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_FullDayBlock(t *testing.T) {
	f := newFixture()
	f.blocks.blocks[monday.Format(domain.DateFormat)] = []*domain.ScheduleBlock{
		{ID: 1, BlockDate: monday, BlockType: domain.BlockTypeFullDay, IsActive: true},
	}

	_, err := f.usecase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDateBlocked)
}

func TestExecute_PartialBlock(t *testing.T) {
	f := newFixture()
	f.blocks.blocks[monday.Format(domain.DateFormat)] = []*domain.ScheduleBlock{
		{ID: 1, BlockDate: monday, BlockType: domain.BlockTypePartialDay, BlockedTimeSlots: []int64{1}, IsActive: true},
	}

	_, err := f.usecase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotBlocked)

	// Блокировка другого слота записи не мешает
	f.blocks.blocks[monday.Format(domain.DateFormat)][0].BlockedTimeSlots = []int64{2}
	_, err = f.usecase.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"zero slot id", func(req *Request) { req.TimeSlotID = 0 }},
		{"zero service id", func(req *Request) { req.ServiceID = 0 }},
		{"zero date", func(req *Request) { req.Date = time.Time{} }},
		{"empty client name", func(req *Request) { req.ClientName = "  " }},
		{"empty client phone", func(req *Request) { req.ClientPhone = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := f.usecase.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
