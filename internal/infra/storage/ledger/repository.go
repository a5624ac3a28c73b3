package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/dbmetrics"
	"github.com/m04kA/recentro-booking/pkg/psqlbuilder"
	"github.com/m04kA/recentro-booking/pkg/types"
)

// reserveSuffix увеличивает счетчик существующей строки, только пока он ниже емкости.
// Если условие не выполнено, RETURNING не возвращает строк.
const reserveSuffix = `ON CONFLICT (appt_date, agency, appt_time) DO UPDATE
SET booked_count = slot_capacity.booked_count + 1, updated_at = CURRENT_TIMESTAMP
WHERE slot_capacity.booked_count < ?
RETURNING booked_count`

// Repository счетчики занятости слотов
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Reserve атомарно занимает одно место в слоте, если занято меньше maxPerSlot.
// Проверка и увеличение выполняются одним оператором, поэтому конкурентные
// вызовы не могут вместе превысить емкость. Возвращает новое значение счетчика.
// Вызывать внутри транзакции: при откате заявки место возвращается.
func (r *Repository) Reserve(ctx context.Context, key domain.SlotKey, maxPerSlot int) (int, error) {
	if maxPerSlot < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCapacity, maxPerSlot)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_capacity").
		Columns("appt_date", "agency", "appt_time", "booked_count", "updated_at").
		Values(key.Date, string(key.Agency), key.Time, 1, squirrel.Expr("CURRENT_TIMESTAMP")).
		Suffix(reserveSuffix, maxPerSlot).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Reserve - build upsert query: %v", ErrBuildQuery, err)
	}

	var count int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s (max %d)", ErrSlotFull, key, maxPerSlot)
		}
		return 0, fmt.Errorf("%w: Reserve - execute upsert for %s: %v", ErrExecQuery, key, err)
	}

	return count, nil
}

// CurrentCount число занятых мест. Слот без строки считается пустым.
func (r *Repository) CurrentCount(ctx context.Context, key domain.SlotKey) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("booked_count").
		From("slot_capacity").
		Where(squirrel.Eq{
			"appt_date": key.Date,
			"agency":    string(key.Agency),
			"appt_time": key.Time,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CurrentCount - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: CurrentCount - execute select for %s: %v", ErrExecQuery, key, err)
	}

	return count, nil
}

// CountsByDate счетчики всех непустых слотов дня для указанных органов
func (r *Repository) CountsByDate(
	ctx context.Context,
	date types.Date,
	agencies []domain.AgencyCode,
) (map[domain.SlotKey]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	codes := make([]string, len(agencies))
	for i, a := range agencies {
		codes[i] = string(a)
	}

	query, args, err := psqlbuilder.Select("appt_date", "agency", "appt_time", "booked_count").
		From("slot_capacity").
		Where(squirrel.Eq{"appt_date": date}).
		Where(squirrel.Eq{"agency": codes}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountsByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountsByDate - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[domain.SlotKey]int)
	for rows.Next() {
		var (
			key    domain.SlotKey
			agency string
			count  int
		)
		if err := rows.Scan(&key.Date, &agency, &key.Time, &count); err != nil {
			return nil, fmt.Errorf("%w: CountsByDate - scan row: %v", ErrScanRow, err)
		}
		key.Agency = domain.AgencyCode(agency)
		counts[key] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountsByDate - rows iteration: %v", ErrScanRow, err)
	}

	return counts, nil
}

// Drift слоты, где счетчик не совпадает с числом записей в appointments
func (r *Repository) Drift(ctx context.Context) ([]domain.LedgerDrift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"c.appt_date",
		"c.agency",
		"c.appt_time",
		"c.booked_count",
		"COUNT(a.id)",
	).
		From("slot_capacity c").
		LeftJoin("appointments a ON a.appt_date = c.appt_date AND a.agency = c.agency AND a.appt_time = c.appt_time").
		GroupBy("c.appt_date", "c.agency", "c.appt_time", "c.booked_count").
		Having("c.booked_count <> COUNT(a.id)").
		OrderBy("c.appt_date", "c.agency", "c.appt_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Drift - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Drift - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var drift []domain.LedgerDrift
	for rows.Next() {
		var (
			d      domain.LedgerDrift
			agency string
		)
		if err := rows.Scan(&d.Slot.Date, &agency, &d.Slot.Time, &d.Recorded, &d.Actual); err != nil {
			return nil, fmt.Errorf("%w: Drift - scan row: %v", ErrScanRow, err)
		}
		d.Slot.Agency = domain.AgencyCode(agency)
		drift = append(drift, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Drift - rows iteration: %v", ErrScanRow, err)
	}

	return drift, nil
}
