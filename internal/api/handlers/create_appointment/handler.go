package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	createAppointment "github.com/m04kA/SMC-ScheduleService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты записи, ожидается YYYY-MM-DD"
	msgServiceNotFound    = "услуга не найдена"
	msgTimeSlotNotFound   = "временной слот не найден"
	msgPastDate           = "запись на прошедшую дату невозможна"
	msgDateNotAvailable   = "услуга недоступна в выбранную дату"
	msgDateBlocked        = "запись на выбранную дату закрыта"
	msgSlotNotAllowed     = "выбранный слот недоступен для этой услуги"
	msgSlotBlocked        = "выбранный слот заблокирован на эту дату"
	msgSlotNotAvailable   = "все места в выбранном слоте заняты"
	msgInvalidInput       = "некорректные данные записи"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: slot_id=%d, date=%s",
				req.TimeSlotID, req.AppointmentDate)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrTimeSlotNotFound):
			h.logger.Warn("POST /appointments - Time slot not found: slot_id=%d", req.TimeSlotID)
			handlers.RespondNotFound(w, msgTimeSlotNotFound)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Past date: date=%s", req.AppointmentDate)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, createAppointment.ErrDateNotAvailable):
			h.logger.Warn("POST /appointments - Date not available: service_id=%d, date=%s",
				req.ServiceID, req.AppointmentDate)
			handlers.RespondBadRequest(w, msgDateNotAvailable)

		case errors.Is(err, createAppointment.ErrDateBlocked):
			h.logger.Warn("POST /appointments - Date blocked: date=%s", req.AppointmentDate)
			handlers.RespondError(w, http.StatusConflict, msgDateBlocked)

		case errors.Is(err, createAppointment.ErrSlotNotAllowed):
			h.logger.Warn("POST /appointments - Slot not allowed: slot_id=%d, service_id=%d",
				req.TimeSlotID, req.ServiceID)
			handlers.RespondBadRequest(w, msgSlotNotAllowed)

		case errors.Is(err, createAppointment.ErrSlotBlocked):
			h.logger.Warn("POST /appointments - Slot blocked: slot_id=%d, date=%s",
				req.TimeSlotID, req.AppointmentDate)
			handlers.RespondError(w, http.StatusConflict, msgSlotBlocked)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: slot_id=%d, date=%s, error=%v",
				req.TimeSlotID, req.AppointmentDate, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, slot_id=%d, date=%s",
		result.ID, req.TimeSlotID, req.AppointmentDate)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
