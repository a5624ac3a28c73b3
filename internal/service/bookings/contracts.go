package bookings

import (
	"context"

	"github.com/m04kA/recentro-booking/internal/domain"
)

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetBySubmissionID(ctx context.Context, submissionID string) ([]*domain.Booking, error)
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// SubmissionRepository интерфейс репозитория заявок
type SubmissionRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
}

// AgencyCatalog справочник органов
type AgencyCatalog interface {
	Resolve(s string) (domain.AgencyCode, error)
	Name(code domain.AgencyCode) string
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
