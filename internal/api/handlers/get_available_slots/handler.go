package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/recentro-booking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/recentro-booking/internal/usecase/get_available_slots"
)

const (
	msgMissingDate  = "data obrigatória"
	msgInvalidDate  = "formato de data inválido, esperado AAAA-MM-DD"
	msgInvalidInput = "data ou órgão inválido"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: date (required, YYYY-MM-DD), agencies (optional, "A,B")
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(dateStr, handlers.QueryList(r, "agencies"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /availability - Failed to get slots: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Slots retrieved successfully: date=%s, agencies=%d", dateStr, len(result.Agencies))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
