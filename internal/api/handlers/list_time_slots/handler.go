package list_time_slots

import (
	"net/http"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/time-slots
// Query params: includeDisabled (optional, bool) - добавить отключённые слоты
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	includeDisabled := r.URL.Query().Get("includeDisabled") == "true"

	result, err := h.service.ListTimeSlots(r.Context(), includeDisabled)
	if err != nil {
		h.logger.Error("GET /time-slots - Failed to list time slots: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /time-slots - Time slots retrieved successfully: count=%d", len(result.TimeSlots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
