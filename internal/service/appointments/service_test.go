package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	apptRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ScheduleService/internal/service/appointments/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
)

type fakeApptRepo struct {
	appointments map[int64]*domain.Appointment
}

func (f *fakeApptRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := f.appointments[id]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	return appt, nil
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
		if filter.Status != nil && appt.Status != *filter.Status {
			continue
		}
		if !filter.IncludeInactive && appt.IsCancelled() {
			continue
		}
		result = append(result, appt)
	}
	return result, nil
}

func (f *fakeApptRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	appt, ok := f.appointments[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	appt.Status = status
	return nil
}

func (f *fakeApptRepo) Cancel(_ context.Context, id int64, reason string) error {
	appt, ok := f.appointments[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	now := time.Now()
	appt.Status = domain.StatusCancelled
	appt.CancellationReason = &reason
	appt.CancelledAt = &now
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testDate = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

func newService(appointments ...*domain.Appointment) (*Service, *fakeApptRepo) {
	repo := &fakeApptRepo{appointments: make(map[int64]*domain.Appointment)}
	for _, appt := range appointments {
		repo.appointments[appt.ID] = appt
	}
	return NewService(repo, nopLogger{}), repo
}

func appointment(id int64, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		TimeSlotID:      1,
		ServiceID:       100,
		AppointmentDate: testDate,
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          status,
		ClientName:      "Анна Иванова",
		ClientPhone:     "+79991234567",
	}
}

func TestGetByID(t *testing.T) {
	svc, _ := newService(appointment(1, domain.StatusPending))

	resp, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "2025-10-13", resp.AppointmentDate)
	assert.Equal(t, "10:00", resp.StartTime)

	_, err = svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetDayAppointments_Filters(t *testing.T) {
	cancelled := appointment(2, domain.StatusCancelled)
	svc, _ := newService(appointment(1, domain.StatusPending), cancelled)

	// По умолчанию отменённые записи не возвращаются
	resp, err := svc.GetDayAppointments(context.Background(), &models.GetDayAppointmentsRequest{Date: testDate})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)

	// includeInactive добавляет отменённые
	resp, err = svc.GetDayAppointments(context.Background(), &models.GetDayAppointmentsRequest{
		Date:            testDate,
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 2)

	// Некорректный статус в фильтре отклоняется
	_, err = svc.GetDayAppointments(context.Background(), &models.GetDayAppointmentsRequest{
		Date:   testDate,
		Status: ptr.Ptr("unknown"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Дата обязательна
	_, err = svc.GetDayAppointments(context.Background(), &models.GetDayAppointmentsRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel(t *testing.T) {
	svc, repo := newService(appointment(1, domain.StatusConfirmed))

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{CancellationReason: "Клиент попросил перенос"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, repo.appointments[1].Status)
	require.NotNil(t, repo.appointments[1].CancellationReason)
	assert.Equal(t, "Клиент попросил перенос", *repo.appointments[1].CancellationReason)
	assert.NotNil(t, repo.appointments[1].CancelledAt)
}

func TestCancel_Validation(t *testing.T) {
	svc, _ := newService(
		appointment(1, domain.StatusCompleted),
		appointment(2, domain.StatusCancelled),
		appointment(3, domain.StatusPending),
	)

	// Причина отмены обязательна
	err := svc.Cancel(context.Background(), 3, &models.CancelAppointmentRequest{CancellationReason: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Завершённую и уже отменённую запись отменить нельзя
	err = svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{CancellationReason: "причина"})
	assert.ErrorIs(t, err, ErrCannotCancel)
	err = svc.Cancel(context.Background(), 2, &models.CancelAppointmentRequest{CancellationReason: "причина"})
	assert.ErrorIs(t, err, ErrCannotCancel)

	err = svc.Cancel(context.Background(), 999, &models.CancelAppointmentRequest{CancellationReason: "причина"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdateStatus(t *testing.T) {
	svc, repo := newService(appointment(1, domain.StatusPending))

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, repo.appointments[1].Status)

	// Отмена через смену статуса запрещена - только через Cancel с причиной
	err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "unknown"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.UpdateStatus(context.Background(), 999, &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
