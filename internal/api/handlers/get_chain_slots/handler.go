package get_chain_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/recentro-booking/internal/api/handlers"
	getChainSlots "github.com/m04kA/recentro-booking/internal/usecase/get_chain_slots"
)

const (
	msgMissingDate     = "data obrigatória"
	msgMissingAgencies = "informe ao menos um órgão"
	msgInvalidDate     = "formato de data inválido, esperado AAAA-MM-DD"
	msgInvalidInput    = "data ou órgão inválido"
)

type Handler struct {
	useCase GetChainSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetChainSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability/chain
// Query params: date (required), agencies (required, в порядке посещения)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availability/chain - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	agencies := handlers.QueryList(r, "agencies")
	if len(agencies) == 0 {
		h.logger.Warn("GET /availability/chain - Missing agencies")
		handlers.RespondBadRequest(w, msgMissingAgencies)
		return
	}

	useCaseReq, err := ToUseCaseRequest(dateStr, agencies)
	if err != nil {
		h.logger.Warn("GET /availability/chain - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getChainSlots.ErrInvalidInput):
			h.logger.Warn("GET /availability/chain - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /availability/chain - Failed to get chain slots: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability/chain - Start times retrieved: date=%s, agencies=%v, count=%d",
		dateStr, agencies, len(result.StartTimes))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
