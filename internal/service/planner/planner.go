package planner

import (
	"errors"
	"fmt"

	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/types"
)

// Planner превращает заявку в список слотов. Не обращается к хранилищу.
type Planner struct {
	times      *domain.TimeCatalog
	agencies   *domain.AgencyCatalog
	eventDates map[types.Date]struct{}
}

// New создает планировщик. Пустой eventDates разрешает любую дату.
func New(times *domain.TimeCatalog, agencies *domain.AgencyCatalog, eventDates []types.Date) *Planner {
	dates := make(map[types.Date]struct{}, len(eventDates))
	for _, d := range eventDates {
		dates[d] = struct{}{}
	}
	return &Planner{times: times, agencies: agencies, eventDates: dates}
}

func (p *Planner) Times() *domain.TimeCatalog {
	return p.times
}

func (p *Planner) Agencies() *domain.AgencyCatalog {
	return p.agencies
}

// Plan строит план. Режим выбирается по полям запроса:
// непустой SelectedTimes означает независимый режим, иначе Time означает цепочку.
func (p *Planner) Plan(req Request) (*Plan, error) {
	if err := p.ValidateDate(req.Date); err != nil {
		return nil, err
	}

	agencies, err := p.ResolveAgencies(req.Agencies)
	if err != nil {
		return nil, err
	}

	hasSelected := len(req.SelectedTimes) > 0
	hasTime := req.Time != nil && !req.Time.IsZero()

	switch {
	case hasSelected && hasTime:
		return nil, fmt.Errorf("%w: time and selectedTimes are mutually exclusive", ErrInvalidRequest)
	case hasSelected:
		return p.planIndependent(req.Date, agencies, req.SelectedTimes)
	case hasTime:
		return p.planSequential(req.Date, agencies, *req.Time)
	default:
		return nil, fmt.Errorf("%w: either time or selectedTimes is required", ErrInvalidRequest)
	}
}

// ValidateDate проверяет формат даты и то, что она входит в дни мероприятия
func (p *Planner) ValidateDate(date types.Date) error {
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidRequest)
	}
	if _, err := date.Time(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if len(p.eventDates) == 0 {
		return nil
	}
	if _, ok := p.eventDates[date]; !ok {
		return fmt.Errorf("%w: %s is not an event date", ErrInvalidRequest, date)
	}
	return nil
}

// ResolveAgencies переводит названия в коды, сохраняя порядок.
// Повтор органа в одной заявке запрещен.
func (p *Planner) ResolveAgencies(raw []string) ([]domain.AgencyCode, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: at least one agency is required", ErrInvalidRequest)
	}
	if len(raw) > domain.MaxAgenciesPerRequest {
		return nil, fmt.Errorf("%w: too many agencies (%d)", ErrInvalidRequest, len(raw))
	}

	codes := make([]domain.AgencyCode, 0, len(raw))
	seen := make(map[domain.AgencyCode]struct{}, len(raw))

	for _, name := range raw {
		code, err := p.agencies.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("%w: agency %s is listed twice", ErrInvalidRequest, code)
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}

	return codes, nil
}

// Chain возвращает слоты цепочки с началом в start
func (p *Planner) Chain(date types.Date, agencies []domain.AgencyCode, start types.TimeString) ([]domain.SlotKey, error) {
	keys := make([]domain.SlotKey, 0, len(agencies))

	for i, agency := range agencies {
		t, err := p.times.Successor(start, i)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrOutOfRange):
				return nil, fmt.Errorf("%w: %d agencies starting at %s need slots until after %s",
					ErrOutOfRange, len(agencies), start, p.times.Last())
			case errors.Is(err, domain.ErrTimeNotInCatalog):
				return nil, fmt.Errorf("%w: time %s is not a slot start", ErrInvalidRequest, start)
			default:
				return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
			}
		}
		keys = append(keys, domain.SlotKey{Date: date, Agency: agency, Time: t})
	}

	return keys, nil
}

func (p *Planner) planSequential(date types.Date, agencies []domain.AgencyCode, start types.TimeString) (*Plan, error) {
	keys, err := p.Chain(date, agencies, start)
	if err != nil {
		return nil, err
	}
	return &Plan{Mode: domain.FlowSequential, Date: date, Keys: keys}, nil
}

func (p *Planner) planIndependent(
	date types.Date,
	agencies []domain.AgencyCode,
	selected map[string]types.TimeString,
) (*Plan, error) {
	// Ключи selectedTimes тоже могут быть названиями органов
	times := make(map[domain.AgencyCode]types.TimeString, len(selected))
	for name, t := range selected {
		code, err := p.agencies.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("%w: selectedTimes: %v", ErrInvalidRequest, err)
		}
		if _, dup := times[code]; dup {
			return nil, fmt.Errorf("%w: selectedTimes lists %s twice", ErrInvalidRequest, code)
		}
		times[code] = t
	}

	if len(times) != len(agencies) {
		return nil, fmt.Errorf("%w: selectedTimes must name exactly the requested agencies", ErrInvalidRequest)
	}

	keys := make([]domain.SlotKey, 0, len(agencies))
	for _, agency := range agencies {
		t, ok := times[agency]
		if !ok {
			return nil, fmt.Errorf("%w: no time selected for %s", ErrInvalidRequest, agency)
		}
		if !p.times.Contains(t) {
			return nil, fmt.Errorf("%w: time %s for %s is not a slot start", ErrInvalidRequest, t, agency)
		}
		keys = append(keys, domain.SlotKey{Date: date, Agency: agency, Time: t})
	}

	return &Plan{Mode: domain.FlowIndependent, Date: date, Keys: keys}, nil
}
