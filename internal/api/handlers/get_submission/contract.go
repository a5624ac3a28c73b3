package get_submission

import (
	"context"

	"github.com/m04kA/recentro-booking/internal/service/bookings/models"
)

type BookingService interface {
	GetBySubmission(ctx context.Context, submissionID string) (*models.SubmissionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
