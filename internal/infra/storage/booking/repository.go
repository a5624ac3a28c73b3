package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/dbmetrics"
	"github.com/m04kA/recentro-booking/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"submission_id",
	"position",
	"full_name",
	"email",
	"phone",
	"property_address",
	"profile",
	"other_profile_description",
	"query",
	"company_name",
	"role",
	"company_address",
	"lgpd_consent",
	"flow_type",
	"agency",
	"appt_date",
	"appt_time",
	"created_at",
}

// Repository репозиторий записей заявителей в слоты
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись. ID и CreatedAt задаются вызывающим.
// Вызывается внутри транзакции заявки, вместе с резервированием емкости.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	profile, err := encodeProfile(booking.Applicant.Profile)
	if err != nil {
		return err
	}

	a := booking.Applicant
	query, args, err := psqlbuilder.Insert("appointments").
		Columns(bookingColumns...).
		Values(
			booking.ID,
			booking.SubmissionID,
			booking.Position,
			a.FullName,
			a.Email,
			a.Phone,
			a.PropertyAddress,
			profile,
			a.OtherProfileDescription,
			a.Query,
			a.CompanyName,
			a.Role,
			a.CompanyAddress,
			a.LGPDConsent,
			string(booking.FlowType),
			string(booking.Slot.Agency),
			booking.Slot.Date,
			booking.Slot.Time,
			booking.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetBySubmissionID записи одной заявки в порядке заявки
func (r *Repository) GetBySubmissionID(ctx context.Context, submissionID string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("appointments").
		Where(squirrel.Eq{"submission_id": submissionID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySubmissionID - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBookings(ctx, executor, "GetBySubmissionID", query, args)
}

// GetWithFilter записи дня с опциональным фильтром по органу и времени
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	qb := psqlbuilder.Select(bookingColumns...).
		From("appointments").
		Where(squirrel.Eq{"appt_date": filter.Date})

	if filter.Agency != nil {
		qb = qb.Where(squirrel.Eq{"agency": string(*filter.Agency)})
	}
	if filter.Time != nil {
		qb = qb.Where(squirrel.Eq{"appt_time": *filter.Time})
	}

	query, args, err := qb.OrderBy("appt_time ASC", "agency ASC", "created_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBookings(ctx, executor, "GetWithFilter", query, args)
}

// CountBySlot число записей в слоте
func (r *Repository) CountBySlot(ctx context.Context, key domain.SlotKey) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("appointments").
		Where(squirrel.Eq{
			"appt_date": key.Date,
			"agency":    string(key.Agency),
			"appt_time": key.Time,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountBySlot - execute select: %v", ErrExecQuery, err)
	}

	return count, nil
}

func (r *Repository) queryBookings(
	ctx context.Context,
	executor DBExecutor,
	op string,
	query string,
	args []interface{},
) ([]*domain.Booking, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute select: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b         domain.Booking
		flowType  string
		agency    string
		profile   string
		phone     sql.NullString
		other     sql.NullString
		query     sql.NullString
		company   sql.NullString
		role      sql.NullString
		companyAd sql.NullString
	)

	err := row.Scan(
		&b.ID,
		&b.SubmissionID,
		&b.Position,
		&b.Applicant.FullName,
		&b.Applicant.Email,
		&phone,
		&b.Applicant.PropertyAddress,
		&profile,
		&other,
		&query,
		&company,
		&role,
		&companyAd,
		&b.Applicant.LGPDConsent,
		&flowType,
		&agency,
		&b.Slot.Date,
		&b.Slot.Time,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.FlowType = domain.FlowType(flowType)
	b.Slot.Agency = domain.AgencyCode(agency)
	b.Applicant.Phone = nullString(phone)
	b.Applicant.OtherProfileDescription = nullString(other)
	b.Applicant.Query = nullString(query)
	b.Applicant.CompanyName = nullString(company)
	b.Applicant.Role = nullString(role)
	b.Applicant.CompanyAddress = nullString(companyAd)

	if err := json.Unmarshal([]byte(profile), &b.Applicant.Profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	return &b, nil
}

func encodeProfile(profile []string) (string, error) {
	if profile == nil {
		profile = []string{}
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodeProfile, err)
	}
	return string(data), nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
