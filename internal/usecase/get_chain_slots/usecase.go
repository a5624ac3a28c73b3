package get_chain_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/types"
)

// UseCase подбирает времена, с которых вся цепочка органов еще свободна
type UseCase struct {
	planner  Planner
	ledger   CapacityLedger
	capacity domain.CapacityPolicy
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(planner Planner, ledger CapacityLedger, capacity domain.CapacityPolicy, logger Logger) *UseCase {
	return &UseCase{
		planner:  planner,
		ledger:   ledger,
		capacity: capacity,
		logger:   logger,
	}
}

// Execute возвращает стартовые времена в порядке каталога.
// Ответ справочный: между запросом и записью места могут закончиться.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetChainSlots: date=%s, agencies=%v", req.Date, req.Agencies)

	if err := uc.planner.ValidateDate(req.Date); err != nil {
		uc.logger.Warn("GetChainSlots: date validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	agencies, err := uc.planner.ResolveAgencies(req.Agencies)
	if err != nil {
		uc.logger.Warn("GetChainSlots: agency validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	counts, err := uc.ledger.CountsByDate(ctx, req.Date, agencies)
	if err != nil {
		uc.logger.Error("GetChainSlots: failed to get slot counts: %v", err)
		return nil, fmt.Errorf("%w: failed to get slot counts: %v", ErrInternal, err)
	}

	starts := make([]types.TimeString, 0)
	for _, start := range uc.planner.Times().Times() {
		keys, err := uc.planner.Chain(req.Date, agencies, start)
		if err != nil {
			// Дальше цепочки только длиннее конца дня
			break
		}
		if uc.chainFits(keys, counts) {
			starts = append(starts, start)
		}
	}

	uc.logger.Info("GetChainSlots: %d start times for %d agencies on %s", len(starts), len(agencies), req.Date)

	return &Response{
		Date:       req.Date,
		Agencies:   agencies,
		StartTimes: starts,
	}, nil
}

func (uc *UseCase) chainFits(keys []domain.SlotKey, counts map[domain.SlotKey]int) bool {
	for _, key := range keys {
		if counts[key] >= uc.capacity.For(key.Agency) {
			return false
		}
	}
	return true
}
