package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/recentro-booking/internal/domain"
)

// UseCase use case для получения занятости слотов дня
type UseCase struct {
	catalog  Catalog
	ledger   CapacityLedger
	capacity domain.CapacityPolicy
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(catalog Catalog, ledger CapacityLedger, capacity domain.CapacityPolicy, logger Logger) *UseCase {
	return &UseCase{
		catalog:  catalog,
		ledger:   ledger,
		capacity: capacity,
		logger:   logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Результат носит справочный характер: место не резервируется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s, agencies=%v", req.Date, req.Agencies)

	// 1. Валидация входных данных
	if err := uc.catalog.ValidateDate(req.Date); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	agencies, err := uc.resolveAgencies(req.Agencies)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: agency validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Счетчики дня
	counts, err := uc.ledger.CountsByDate(ctx, req.Date, agencies)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get slot counts: %v", err)
		return nil, fmt.Errorf("%w: failed to get slot counts: %v", ErrInternal, err)
	}

	// 3. Доступность по каждому органу
	times := uc.catalog.Times().Times()
	names := uc.catalog.Agencies()

	resp := &Response{
		Date:     req.Date,
		Agencies: make([]AgencyAvailability, 0, len(agencies)),
	}
	for _, agency := range agencies {
		resp.Agencies = append(resp.Agencies, AgencyAvailability{
			Agency: agency,
			Name:   names.Name(agency),
			Slots:  calculateAvailability(req.Date, agency, times, counts, uc.capacity.For(agency)),
		})
	}

	uc.logger.Info("GetAvailableSlots: %d agencies x %d slots for date=%s", len(agencies), len(times), req.Date)
	return resp, nil
}

func (uc *UseCase) resolveAgencies(raw []string) ([]domain.AgencyCode, error) {
	if len(raw) == 0 {
		all := uc.catalog.Agencies().All()
		codes := make([]domain.AgencyCode, len(all))
		for i, a := range all {
			codes[i] = a.Code
		}
		return codes, nil
	}
	return uc.catalog.ResolveAgencies(raw)
}
