package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/recentro-booking/internal/domain"
	bookingRepo "github.com/m04kA/recentro-booking/internal/infra/storage/booking"
	submissionRepo "github.com/m04kA/recentro-booking/internal/infra/storage/submission"
	"github.com/m04kA/recentro-booking/internal/service/bookings/models"
	"github.com/m04kA/recentro-booking/pkg/types"
)

// Service сервис чтения записей для операторов мероприятия
type Service struct {
	bookingRepo    BookingRepository
	submissionRepo SubmissionRepository
	agencies       AgencyCatalog
	logger         Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	bookingRepo BookingRepository,
	submissionRepo SubmissionRepository,
	agencies AgencyCatalog,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		submissionRepo: submissionRepo,
		agencies:       agencies,
		logger:         logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: booking id must be a UUID", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking, s.agencies.Name(booking.Slot.Agency)), nil
}

// GetBySubmission получает заявку и все ее записи
func (s *Service) GetBySubmission(ctx context.Context, submissionID string) (*models.SubmissionResponse, error) {
	s.logger.Info("GetBySubmission: fetching submission id=%s", submissionID)

	if _, err := uuid.Parse(submissionID); err != nil {
		return nil, fmt.Errorf("%w: submission id must be a UUID", ErrInvalidInput)
	}

	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, submissionRepo.ErrSubmissionNotFound) {
			s.logger.Warn("GetBySubmission: submission id=%s not found", submissionID)
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("GetBySubmission: repository error for submission id=%s: %v", submissionID, err)
		return nil, fmt.Errorf("%w: GetBySubmission - repository error: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.GetBySubmissionID(ctx, submissionID)
	if err != nil {
		s.logger.Error("GetBySubmission: repository error for submission id=%s: %v", submissionID, err)
		return nil, fmt.Errorf("%w: GetBySubmission - repository error: %v", ErrInternal, err)
	}

	list := models.FromDomainBookingList(bookings, s.agencies.Name)
	return &models.SubmissionResponse{
		ID:        submission.ID,
		FlowType:  string(submission.FlowType),
		CreatedAt: submission.CreatedAt,
		Bookings:  list.Bookings,
	}, nil
}

// ListBySlot получает записи дня с фильтром по органу и времени
func (s *Service) ListBySlot(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListBySlot: date=%s, agency=%v, time=%v", req.Date, req.Agency, req.Time)

	filter, err := s.toDomainFilter(req)
	if err != nil {
		s.logger.Warn("ListBySlot: invalid filter: %v", err)
		return nil, err
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListBySlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBySlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBySlot: fetched %d bookings for date=%s", len(bookings), req.Date)
	return models.FromDomainBookingList(bookings, s.agencies.Name), nil
}

func (s *Service) toDomainFilter(req *models.ListBookingsRequest) (domain.BookingsFilter, error) {
	date, err := types.NewDateFromString(req.Date)
	if err != nil {
		return domain.BookingsFilter{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	filter := domain.BookingsFilter{Date: date}

	if req.Agency != nil && *req.Agency != "" {
		code, err := s.agencies.Resolve(*req.Agency)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Agency = &code
	}

	if req.Time != nil && *req.Time != "" {
		t, err := types.NewTimeStringFromString(*req.Time)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Time = &t
	}

	return filter, nil
}
