package submission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/dbmetrics"
	"github.com/m04kA/recentro-booking/pkg/psqlbuilder"
)

// Repository заявки и их ключи идемпотентности
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет заявку. Если заявка с тем же IdempotencyKey уже есть,
// ничего не пишет и возвращает false.
func (r *Repository) Create(ctx context.Context, s *domain.Submission) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("submissions").
		Columns("id", "idempotency_key", "flow_type", "created_at").
		Values(s.ID, s.IdempotencyKey, string(s.FlowType), s.CreatedAt).
		Suffix("ON CONFLICT (idempotency_key) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var id string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return true, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

func (r *Repository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Submission, error) {
	return r.getOne(ctx, "GetByIdempotencyKey", squirrel.Eq{"idempotency_key": key})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Submission, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "idempotency_key", "flow_type", "created_at").
		From("submissions").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var (
		s        domain.Submission
		key      sql.NullString
		flowType string
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &key, &flowType, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("%w: %s - execute select: %v", ErrExecQuery, op, err)
	}

	s.FlowType = domain.FlowType(flowType)
	if key.Valid {
		s.IdempotencyKey = &key.String
	}

	return &s, nil
}
