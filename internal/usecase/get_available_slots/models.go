package get_available_slots

import (
	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/types"
)

// Request модель запроса занятости слотов
type Request struct {
	Date     types.Date
	Agencies []string // пусто = все органы
}

// Response модель ответа со слотами по органам
type Response struct {
	Date     types.Date
	Agencies []AgencyAvailability
}

// AgencyAvailability слоты дня одного органа
type AgencyAvailability struct {
	Agency domain.AgencyCode
	Name   string
	Slots  []domain.AvailableSlot
}
