package submit_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/recentro-booking/internal/domain"
	ledgerRepo "github.com/m04kA/recentro-booking/internal/infra/storage/ledger"
	"github.com/m04kA/recentro-booking/internal/service/planner"
)

// Результаты заявки для метрик
const (
	OutcomeAccepted   = "accepted"
	OutcomeReplayed   = "replayed"
	OutcomeValidation = "validation"
	OutcomeOutOfRange = "out_of_range"
	OutcomeConflict   = "conflict"
	OutcomeStorage    = "storage"
)

// Settings параметры, приходящие из конфигурации
type Settings struct {
	Capacity    domain.CapacityPolicy
	PhoneRegion string
}

// UseCase принимает заявку целиком или не принимает ничего
type UseCase struct {
	planner        Planner
	ledger         CapacityLedger
	bookingRepo    BookingRepository
	submissionRepo SubmissionRepository
	txManager      TransactionManager
	notifier       Notifier
	metrics        Metrics
	settings       Settings
	timeProvider   TimeProvider
	newID          func() string
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	planner Planner,
	ledger CapacityLedger,
	bookingRepo BookingRepository,
	submissionRepo SubmissionRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if settings.PhoneRegion == "" {
		settings.PhoneRegion = domain.DefaultPhoneRegion
	}

	return &UseCase{
		planner:        planner,
		ledger:         ledger,
		bookingRepo:    bookingRepo,
		submissionRepo: submissionRepo,
		txManager:      txManager,
		notifier:       notifier,
		metrics:        metrics,
		settings:       settings,
		timeProvider:   &RealTimeProvider{},
		newID:          uuid.NewString,
		logger:         logger,
	}
}

// Execute размещает заявку и фиксирует все её записи в одной транзакции.
// Слоты резервируются в каноническом порядке; если хотя бы один заполнен,
// транзакция откатывается и возвращается ConflictError со всеми заполненными слотами.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitAppointment: state=%s, date=%s, agencies=%v, selected=%d",
		domain.SubmissionReceived, req.Date, req.Agencies, len(req.SelectedTimes))

	// 1. Данные заявителя
	applicant, err := normalizeApplicant(req.Applicant, uc.settings.PhoneRegion)
	if err != nil {
		uc.logger.Warn("SubmitAppointment: applicant validation failed: %v", err)
		uc.metrics.ObserveSubmission(OutcomeValidation)
		return nil, err
	}

	// 2. План размещения, без обращения к хранилищу
	plan, err := uc.planner.Plan(planner.Request{
		Date:          req.Date,
		Agencies:      req.Agencies,
		Time:          req.Time,
		SelectedTimes: req.SelectedTimes,
	})
	if err != nil {
		if errors.Is(err, planner.ErrOutOfRange) {
			uc.logger.Warn("SubmitAppointment: plan out of range: %v", err)
			uc.metrics.ObserveSubmission(OutcomeOutOfRange)
			return nil, fmt.Errorf("%w: %v", ErrOutOfRange, err)
		}
		uc.logger.Warn("SubmitAppointment: plan rejected: %v", err)
		uc.metrics.ObserveSubmission(OutcomeValidation)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	uc.logger.Info("SubmitAppointment: state=%s, mode=%s, slots=%v", domain.SubmissionPlanned, plan.Mode, plan.Keys)

	submission := &domain.Submission{
		ID:             uc.newID(),
		IdempotencyKey: req.IdempotencyKey,
		FlowType:       plan.Mode,
		CreatedAt:      uc.timeProvider.Now(),
	}

	var (
		result   *Response
		bookings []*domain.Booking
	)

	// 3. Резервирование и запись в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err := uc.submissionRepo.Create(txCtx, submission)
		if err != nil {
			return fmt.Errorf("%w: create submission: %v", ErrInternal, err)
		}
		if !created {
			result, err = uc.replay(txCtx, req.IdempotencyKey)
			return err
		}

		uc.logger.Info("SubmitAppointment: state=%s, submission=%s", domain.SubmissionReserving, submission.ID)
		if err := uc.reserve(txCtx, plan); err != nil {
			return err
		}

		bookings, err = uc.persist(txCtx, submission, applicant, plan)
		if err != nil {
			return err
		}

		result = newResponse(submission, bookings, false)
		return nil
	})

	if err != nil {
		var conflict *ConflictError
		switch {
		case errors.As(err, &conflict):
			uc.logger.Warn("SubmitAppointment: state=%s, submission=%s, full slots: %v",
				domain.SubmissionAborted, submission.ID, conflict.Keys)
			uc.metrics.ObserveSubmission(OutcomeConflict)
			return nil, err
		case errors.Is(err, ErrInternal):
			uc.logger.Error("SubmitAppointment: state=%s, submission=%s: %v", domain.SubmissionAborted, submission.ID, err)
			uc.metrics.ObserveSubmission(OutcomeStorage)
			return nil, err
		default:
			uc.logger.Error("SubmitAppointment: state=%s, submission=%s, transaction failed: %v",
				domain.SubmissionAborted, submission.ID, err)
			uc.metrics.ObserveSubmission(OutcomeStorage)
			return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
		}
	}

	if result.Replayed {
		uc.logger.Info("SubmitAppointment: replayed submission=%s for idempotency key", result.SubmissionID)
		uc.metrics.ObserveSubmission(OutcomeReplayed)
		return result, nil
	}

	uc.logger.Info("SubmitAppointment: state=%s, submission=%s, bookings=%v",
		domain.SubmissionCommitted, submission.ID, result.BookingIDs())
	uc.metrics.ObserveSubmission(OutcomeAccepted)
	uc.metrics.AddSlotsReserved(len(bookings))

	// 4. Подтверждение уходит после фиксации; его сбой не отменяет записи
	if uc.notifier != nil {
		uc.notifier.NotifyConfirmed(ctx, domain.NewConfirmation(submission, bookings))
	}

	return result, nil
}

// reserve занимает по месту в каждом слоте плана. После первого заполненного
// слота продолжает проверять остальные, чтобы вернуть полный список.
func (uc *UseCase) reserve(ctx context.Context, plan *planner.Plan) error {
	full := make(map[domain.SlotKey]struct{})

	for _, key := range domain.SortedSlotKeys(plan.Keys) {
		limit := uc.settings.Capacity.For(key.Agency)

		count, err := uc.ledger.Reserve(ctx, key, limit)
		if err != nil {
			if errors.Is(err, ledgerRepo.ErrSlotFull) {
				full[key] = struct{}{}
				continue
			}
			return fmt.Errorf("%w: reserve %s: %v", ErrInternal, key, err)
		}

		uc.logger.Info("SubmitAppointment: reserved %s (%d/%d)", key, count, limit)
	}

	if len(full) == 0 {
		return nil
	}

	conflict := &ConflictError{}
	for _, key := range plan.Keys {
		if _, ok := full[key]; ok {
			conflict.Keys = append(conflict.Keys, key)
		}
	}
	return conflict
}

func (uc *UseCase) persist(
	ctx context.Context,
	submission *domain.Submission,
	applicant domain.Applicant,
	plan *planner.Plan,
) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0, len(plan.Keys))

	for i, key := range plan.Keys {
		booking := &domain.Booking{
			ID:           uc.newID(),
			SubmissionID: submission.ID,
			Position:     i,
			Applicant:    applicant,
			Slot:         key,
			FlowType:     plan.Mode,
			CreatedAt:    submission.CreatedAt,
		}
		if err := uc.bookingRepo.Create(ctx, booking); err != nil {
			return nil, fmt.Errorf("%w: create booking for %s: %v", ErrInternal, key, err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

// replay возвращает ранее принятую заявку с тем же ключом идемпотентности
func (uc *UseCase) replay(ctx context.Context, key *string) (*Response, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: submission was not stored", ErrInternal)
	}

	existing, err := uc.submissionRepo.GetByIdempotencyKey(ctx, *key)
	if err != nil {
		return nil, fmt.Errorf("%w: load submission by idempotency key: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetBySubmissionID(ctx, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: load bookings of submission %s: %v", ErrInternal, existing.ID, err)
	}

	return newResponse(existing, bookings, true), nil
}

type noopMetrics struct{}

func (noopMetrics) ObserveSubmission(string) {}
func (noopMetrics) AddSlotsReserved(int)     {}
