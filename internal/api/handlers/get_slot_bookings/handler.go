package get_slot_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/recentro-booking/internal/api/handlers"
	"github.com/m04kA/recentro-booking/internal/service/bookings"
	"github.com/m04kA/recentro-booking/internal/service/bookings/models"
)

const (
	msgMissingDate   = "data obrigatória"
	msgInvalidParams = "parâmetros de consulta inválidos"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots/bookings
// Query params: date (required), agency, time (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.ListBookingsRequest{
		Date:   r.URL.Query().Get("date"),
		Agency: handlers.QueryOptional(r, "agency"),
		Time:   handlers.QueryOptional(r, "time"),
	}
	if req.Date == "" {
		h.logger.Warn("GET /slots/bookings - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	result, err := h.service.ListBySlot(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /slots/bookings - Invalid params: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /slots/bookings - Failed to list bookings: date=%s, error=%v", req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots/bookings - Bookings retrieved: date=%s, count=%d", req.Date, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
