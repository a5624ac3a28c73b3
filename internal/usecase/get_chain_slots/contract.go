package get_chain_slots

import (
	"context"

	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/types"
)

// Planner строит цепочки слотов для последовательной записи
type Planner interface {
	ValidateDate(date types.Date) error
	ResolveAgencies(raw []string) ([]domain.AgencyCode, error)
	Chain(date types.Date, agencies []domain.AgencyCode, start types.TimeString) ([]domain.SlotKey, error)
	Times() *domain.TimeCatalog
}

// CapacityLedger счетчики занятости слотов
type CapacityLedger interface {
	CountsByDate(ctx context.Context, date types.Date, agencies []domain.AgencyCode) (map[domain.SlotKey]int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
