package submit_appointment

import (
	"context"
	"time"

	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/internal/service/planner"
)

// Planner размещает заявку по слотам
type Planner interface {
	Plan(req planner.Request) (*planner.Plan, error)
}

// CapacityLedger атомарное резервирование мест
type CapacityLedger interface {
	Reserve(ctx context.Context, key domain.SlotKey, maxPerSlot int) (int, error)
}

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetBySubmissionID(ctx context.Context, submissionID string) ([]*domain.Booking, error)
}

// SubmissionRepository интерфейс репозитория заявок
type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) (bool, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Submission, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier отправляет подтверждение после фиксации. Не блокирует и не влияет на результат.
type Notifier interface {
	NotifyConfirmed(ctx context.Context, confirmation *domain.Confirmation)
}

// Metrics счетчики результатов
type Metrics interface {
	ObserveSubmission(outcome string)
	AddSlotsReserved(n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
