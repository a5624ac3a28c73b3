package get_available_slots

import (
	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/types"
)

// calculateAvailability строит состояние каждого слота каталога.
// Слот без строки в счетчиках свободен полностью.
func calculateAvailability(
	date types.Date,
	agency domain.AgencyCode,
	times []types.TimeString,
	counts map[domain.SlotKey]int,
	capacity int,
) []domain.AvailableSlot {
	slots := make([]domain.AvailableSlot, 0, len(times))
	for _, t := range times {
		booked := counts[domain.SlotKey{Date: date, Agency: agency, Time: t}]
		slots = append(slots, domain.NewAvailableSlot(t, booked, capacity))
	}
	return slots
}
