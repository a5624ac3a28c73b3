package audit_ledger

import (
	"context"

	"github.com/m04kA/recentro-booking/internal/domain"
)

// CapacityLedger сверка счетчиков с записями
type CapacityLedger interface {
	Drift(ctx context.Context) ([]domain.LedgerDrift, error)
}

// Metrics gauge числа расходящихся слотов
type Metrics interface {
	SetLedgerDrift(slots int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
