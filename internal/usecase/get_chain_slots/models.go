package get_chain_slots

import (
	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/types"
)

// Request модель запроса стартовых времен цепочки
type Request struct {
	Date     types.Date
	Agencies []string // порядок посещения
}

// Response модель ответа
type Response struct {
	Date       types.Date
	Agencies   []domain.AgencyCode
	StartTimes []types.TimeString
}
