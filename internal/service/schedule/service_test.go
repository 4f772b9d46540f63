package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	ruleStorage "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/availabilityrule"
	blockStorage "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/scheduleblock"
	slotStorage "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
)

type fakeSlotRepo struct {
	slots  map[int64]*domain.TimeSlot
	nextID int64
}

func (f *fakeSlotRepo) Create(_ context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	f.nextID++
	created := *slot
	created.ID = f.nextID
	f.slots[created.ID] = &created
	return &created, nil
}

func (f *fakeSlotRepo) Update(_ context.Context, slot *domain.TimeSlot) error {
	if _, ok := f.slots[slot.ID]; !ok {
		return slotStorage.ErrSlotNotFound
	}
	f.slots[slot.ID] = slot
	return nil
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.TimeSlot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, slotStorage.ErrSlotNotFound
	}
	return slot, nil
}

func (f *fakeSlotRepo) ListAvailable(_ context.Context) ([]*domain.TimeSlot, error) {
	var result []*domain.TimeSlot
	for _, slot := range f.slots {
		if slot.IsAvailable {
			result = append(result, slot)
		}
	}
	return result, nil
}

func (f *fakeSlotRepo) ListAll(_ context.Context) ([]*domain.TimeSlot, error) {
	var result []*domain.TimeSlot
	for _, slot := range f.slots {
		result = append(result, slot)
	}
	return result, nil
}

type fakeRuleRepo struct {
	rules map[int64]*domain.AvailabilityRule
}

func (f *fakeRuleRepo) GetActiveByServiceID(_ context.Context, serviceID int64) (*domain.AvailabilityRule, error) {
	rule, ok := f.rules[serviceID]
	if !ok || !rule.IsActive {
		return nil, ruleStorage.ErrRuleNotFound
	}
	return rule, nil
}

func (f *fakeRuleRepo) Upsert(_ context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	stored := *rule
	stored.ID = rule.ServiceID
	f.rules[rule.ServiceID] = &stored
	return &stored, nil
}

func (f *fakeRuleRepo) Deactivate(_ context.Context, serviceID int64) error {
	rule, ok := f.rules[serviceID]
	if !ok || !rule.IsActive {
		return ruleStorage.ErrRuleNotFound
	}
	rule.IsActive = false
	return nil
}

type fakeBlockRepo struct {
	blocks map[int64]*domain.ScheduleBlock
	nextID int64
}

func (f *fakeBlockRepo) Create(_ context.Context, block *domain.ScheduleBlock) (*domain.ScheduleBlock, error) {
	f.nextID++
	created := *block
	created.ID = f.nextID
	f.blocks[created.ID] = &created
	return &created, nil
}

func (f *fakeBlockRepo) GetActiveByDate(_ context.Context, date time.Time) ([]*domain.ScheduleBlock, error) {
	var result []*domain.ScheduleBlock
	for _, block := range f.blocks {
		if block.IsActive && block.BlockDate.Equal(date) {
			result = append(result, block)
		}
	}
	return result, nil
}

func (f *fakeBlockRepo) Deactivate(_ context.Context, id int64) error {
	block, ok := f.blocks[id]
	if !ok || !block.IsActive {
		return blockStorage.ErrBlockNotFound
	}
	block.IsActive = false
	return nil
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

type fixture struct {
	service   *Service
	slotRepo  *fakeSlotRepo
	ruleRepo  *fakeRuleRepo
	blockRepo *fakeBlockRepo
	catalog   *fakeCatalogClient
}

func newFixture() *fixture {
	f := &fixture{
		slotRepo:  &fakeSlotRepo{slots: make(map[int64]*domain.TimeSlot)},
		ruleRepo:  &fakeRuleRepo{rules: make(map[int64]*domain.AvailabilityRule)},
		blockRepo: &fakeBlockRepo{blocks: make(map[int64]*domain.ScheduleBlock)},
		catalog:   &fakeCatalogClient{services: make(map[int64]*catalogservice.Service)},
	}
	f.service = NewService(f.slotRepo, f.ruleRepo, f.blockRepo, f.catalog, nopLogger{})
	return f
}

func (f *fixture) addSlot(id int64, available bool) {
	f.slotRepo.slots[id] = &domain.TimeSlot{
		ID:              id,
		StartTime:       "10:00",
		DurationMinutes: 60,
		MaxConcurrent:   2,
		IsAvailable:     available,
	}
	if id > f.slotRepo.nextID {
		f.slotRepo.nextID = id
	}
}

func (f *fixture) addService(id int64, name string) {
	f.catalog.services[id] = &catalogservice.Service{
		ID:       id,
		Name:     name,
		IsActive: true,
	}
}

func TestCreateTimeSlot(t *testing.T) {
	f := newFixture()

	resp, err := f.service.CreateTimeSlot(context.Background(), &models.CreateTimeSlotRequest{
		StartTime:       "09:30",
		DurationMinutes: 45,
		MaxConcurrent:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, "09:30", resp.StartTime)
	assert.True(t, resp.IsAvailable)
}

func TestCreateTimeSlot_Validation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name string
		req  *models.CreateTimeSlotRequest
	}{
		{"duration too short", &models.CreateTimeSlotRequest{StartTime: "10:00", DurationMinutes: 1, MaxConcurrent: 2}},
		{"duration too long", &models.CreateTimeSlotRequest{StartTime: "10:00", DurationMinutes: 600, MaxConcurrent: 2}},
		{"maxConcurrent zero", &models.CreateTimeSlotRequest{StartTime: "10:00", DurationMinutes: 60, MaxConcurrent: 0}},
		{"bad startTime", &models.CreateTimeSlotRequest{StartTime: "25:99", DurationMinutes: 60, MaxConcurrent: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateTimeSlot(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateTimeSlot(t *testing.T) {
	f := newFixture()
	f.addSlot(1, true)

	// Частичное обновление: выключение слота не трогает остальные поля
	resp, err := f.service.UpdateTimeSlot(context.Background(), 1, &models.UpdateTimeSlotRequest{
		IsAvailable: ptr.Ptr(false),
	})
	require.NoError(t, err)
	assert.False(t, resp.IsAvailable)
	assert.Equal(t, 60, resp.DurationMinutes)

	_, err = f.service.UpdateTimeSlot(context.Background(), 999, &models.UpdateTimeSlotRequest{
		IsAvailable: ptr.Ptr(false),
	})
	assert.ErrorIs(t, err, ErrTimeSlotNotFound)

	// Итоговые параметры после применения patch тоже валидируются
	_, err = f.service.UpdateTimeSlot(context.Background(), 1, &models.UpdateTimeSlotRequest{
		MaxConcurrent: ptr.Ptr(0),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListTimeSlots(t *testing.T) {
	f := newFixture()
	f.addSlot(1, true)
	f.addSlot(2, false)

	resp, err := f.service.ListTimeSlots(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, resp.TimeSlots, 1)

	resp, err = f.service.ListTimeSlots(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, resp.TimeSlots, 2)
}

func TestUpsertRule(t *testing.T) {
	f := newFixture()
	f.addSlot(1, true)
	f.addService(100, "Маникюр")

	resp, err := f.service.UpsertRule(context.Background(), &models.UpsertRuleRequest{
		ServiceID:         100,
		DaysOfWeek:        []int64{1, 3, 5},
		SpecificTimeSlots: []int64{1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ServiceID)
	assert.True(t, resp.IsActive)

	got, err := f.service.GetRule(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 5}, got.DaysOfWeek)
}

func TestUpsertRule_Validation(t *testing.T) {
	f := newFixture()
	f.addSlot(1, true)
	f.addService(100, "Маникюр")

	// День недели вне диапазона 0..6
	_, err := f.service.UpsertRule(context.Background(), &models.UpsertRuleRequest{
		ServiceID:  100,
		DaysOfWeek: []int64{7},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Услуга должна существовать в каталоге
	_, err = f.service.UpsertRule(context.Background(), &models.UpsertRuleRequest{
		ServiceID: 999,
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	// Слоты правила должны существовать в каталоге слотов
	_, err = f.service.UpsertRule(context.Background(), &models.UpsertRuleRequest{
		ServiceID:         100,
		SpecificTimeSlots: []int64{999},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeactivateRule(t *testing.T) {
	f := newFixture()
	f.addService(100, "Маникюр")

	_, err := f.service.UpsertRule(context.Background(), &models.UpsertRuleRequest{
		ServiceID:  100,
		DaysOfWeek: []int64{2},
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeactivateRule(context.Background(), 100))

	// Услуга без активного правила - правило не найдено
	_, err = f.service.GetRule(context.Background(), 100)
	assert.ErrorIs(t, err, ErrRuleNotFound)

	err = f.service.DeactivateRule(context.Background(), 100)
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestCreateBlock(t *testing.T) {
	f := newFixture()
	f.addSlot(1, true)
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	full, err := f.service.CreateBlock(context.Background(), &models.CreateBlockRequest{
		BlockDate: date,
		BlockType: "full_day",
		Reason:    ptr.Ptr("Санитарный день"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-10-15", full.BlockDate)

	partial, err := f.service.CreateBlock(context.Background(), &models.CreateBlockRequest{
		BlockDate:        date,
		BlockType:        "partial_day",
		BlockedTimeSlots: []int64{1},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, partial.BlockedTimeSlots)

	blocks, err := f.service.GetBlocksByDate(context.Background(), date)
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
}

func TestCreateBlock_Validation(t *testing.T) {
	f := newFixture()
	f.addSlot(1, true)
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  *models.CreateBlockRequest
	}{
		{"full_day with slots", &models.CreateBlockRequest{BlockDate: date, BlockType: "full_day", BlockedTimeSlots: []int64{1}}},
		{"partial_day without slots", &models.CreateBlockRequest{BlockDate: date, BlockType: "partial_day"}},
		{"unknown block type", &models.CreateBlockRequest{BlockDate: date, BlockType: "half_day"}},
		{"missing date", &models.CreateBlockRequest{BlockType: "full_day"}},
		{"unknown slot", &models.CreateBlockRequest{BlockDate: date, BlockType: "partial_day", BlockedTimeSlots: []int64{999}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateBlock(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDeactivateBlock(t *testing.T) {
	f := newFixture()
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	created, err := f.service.CreateBlock(context.Background(), &models.CreateBlockRequest{
		BlockDate: date,
		BlockType: "full_day",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeactivateBlock(context.Background(), created.ID))

	blocks, err := f.service.GetBlocksByDate(context.Background(), date)
	require.NoError(t, err)
	assert.Empty(t, blocks)

	err = f.service.DeactivateBlock(context.Background(), 999)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}
