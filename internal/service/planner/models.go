package planner

import (
	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/types"
)

// Request что заявитель хочет получить. Ровно один из Time и SelectedTimes задан.
type Request struct {
	Date          types.Date
	Agencies      []string                    // коды или названия, в порядке посещения
	Time          *types.TimeString           // начало цепочки
	SelectedTimes map[string]types.TimeString // орган -> время
}

// Plan упорядоченный список слотов, по одному на орган, в порядке запроса
type Plan struct {
	Mode domain.FlowType
	Date types.Date
	Keys []domain.SlotKey
}

// Agencies коды органов плана в порядке запроса
func (p *Plan) Agencies() []domain.AgencyCode {
	codes := make([]domain.AgencyCode, len(p.Keys))
	for i, k := range p.Keys {
		codes[i] = k.Agency
	}
	return codes
}
