package get_available_slots

import (
	"context"

	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/types"
)

// Catalog каталоги времен и органов с проверкой даты
type Catalog interface {
	ValidateDate(date types.Date) error
	ResolveAgencies(raw []string) ([]domain.AgencyCode, error)
	Times() *domain.TimeCatalog
	Agencies() *domain.AgencyCatalog
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
