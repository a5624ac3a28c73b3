package audit_ledger

import (
	"context"
	"fmt"

	"github.com/m04kA/recentro-booking/internal/domain"
)

// UseCase сверяет счетчики слотов с числом записей.
// Только отчет: счетчики не исправляются.
type UseCase struct {
	ledger  CapacityLedger
	metrics Metrics
	logger  Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(ledger CapacityLedger, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		ledger:  ledger,
		metrics: metrics,
		logger:  logger,
	}
}

// Execute выполняет одну сверку и возвращает найденные расхождения
func (uc *UseCase) Execute(ctx context.Context) ([]domain.LedgerDrift, error) {
	drifts, err := uc.ledger.Drift(ctx)
	if err != nil {
		uc.logger.Error("AuditLedger: failed to compare ledger with bookings: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.metrics.SetLedgerDrift(len(drifts))

	if len(drifts) == 0 {
		uc.logger.Info("AuditLedger: ledger matches bookings")
		return drifts, nil
	}

	for _, d := range drifts {
		uc.logger.Warn("AuditLedger: slot %s counter=%d bookings=%d", d.Slot, d.Recorded, d.Actual)
	}
	return drifts, nil
}

// Run вариант Execute для планировщика: ошибка уже залогирована
func (uc *UseCase) Run(ctx context.Context) {
	_, _ = uc.Execute(ctx)
}
