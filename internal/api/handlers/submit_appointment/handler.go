package submit_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/recentro-booking/internal/api/handlers"
	submitAppointment "github.com/m04kA/recentro-booking/internal/usecase/submit_appointment"
)

const (
	headerIdempotencyKey = "Idempotency-Key"

	msgConfirmed          = "Agendamento confirmado!"
	msgInvalidRequestBody = "Corpo da requisição inválido."
	msgInvalidFields      = "Campos obrigatórios ausentes ou inválidos."
	msgConflict           = "Conflito de agendamento: um ou mais horários estão lotados."
	msgOutOfRange         = "Não há horários consecutivos suficientes até o fim do dia."
	msgStorage            = "Erro ao salvar agendamento."
)

type Handler struct {
	useCase SubmitAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase SubmitAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SubmitAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		reject(w, http.StatusBadRequest, RejectionResponse{
			Message: msgInvalidRequestBody,
			Reason:  reasonValidation,
			Details: err.Error(),
		})
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(r.Header.Get(headerIdempotencyKey))
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		reject(w, http.StatusBadRequest, RejectionResponse{
			Message: msgInvalidFields,
			Reason:  reasonValidation,
			Details: err.Error(),
		})
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *submitAppointment.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("POST /appointments - Slot conflict: date=%s, slots=%v", req.Date, conflict.Keys)
			reject(w, http.StatusConflict, RejectionResponse{
				Message:   msgConflict,
				Reason:    reasonConflict,
				Conflicts: fromConflict(conflict),
			})

		case errors.Is(err, submitAppointment.ErrOutOfRange):
			h.logger.Warn("POST /appointments - Chain out of range: date=%s, agencies=%v", req.Date, req.Agencies)
			reject(w, http.StatusUnprocessableEntity, RejectionResponse{
				Message: msgOutOfRange,
				Reason:  reasonOutOfRange,
				Details: err.Error(),
			})

		case errors.Is(err, submitAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Validation failed: %v", err)
			reject(w, http.StatusBadRequest, RejectionResponse{
				Message: msgInvalidFields,
				Reason:  reasonValidation,
				Details: err.Error(),
			})

		default:
			h.logger.Error("POST /appointments - Failed to submit appointment: date=%s, error=%v", req.Date, err)
			reject(w, http.StatusInternalServerError, RejectionResponse{
				Message: msgStorage,
				Reason:  reasonStorage,
			})
		}
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	h.logger.Info("POST /appointments - Appointment confirmed: submission_id=%s, bookings=%d, replayed=%t",
		result.SubmissionID, len(result.Bookings), result.Replayed)
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}

func reject(w http.ResponseWriter, status int, body RejectionResponse) {
	body.Success = false
	handlers.RespondJSON(w, status, body)
}
