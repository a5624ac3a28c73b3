package get_submission

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/recentro-booking/internal/api/handlers"
	"github.com/m04kA/recentro-booking/internal/service/bookings"
)

const (
	msgInvalidSubmissionID = "ID de solicitação inválido"
	msgNotFound            = "solicitação não encontrada"
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

// Handle GET /api/v1/submissions/{submissionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	submissionID := mux.Vars(r)["submissionId"]

	submission, err := h.service.GetBySubmission(r.Context(), submissionID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /submissions/{id} - Invalid submission ID: %s", submissionID)
			handlers.RespondBadRequest(w, msgInvalidSubmissionID)

		case errors.Is(err, bookings.ErrSubmissionNotFound):
			h.logger.Warn("GET /submissions/{id} - Submission not found: submission_id=%s", submissionID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /submissions/{id} - Failed to get submission: submission_id=%s, error=%v", submissionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /submissions/{id} - Submission retrieved: submission_id=%s, bookings=%d",
		submissionID, len(submission.Bookings))
	handlers.RespondJSON(w, http.StatusOK, submission)
}
