package domain

import (
	"fmt"
	"sort"

	"github.com/m04kA/recentro-booking/pkg/types"
)

// SlotKey адрес единицы емкости: день, орган, время начала
type SlotKey struct {
	Date   types.Date
	Agency AgencyCode
	Time   types.TimeString
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Date, k.Agency, k.Time)
}

// Compare задает канонический порядок (дата, орган, время).
// В этом порядке слоты резервируются, чтобы пересекающиеся заявки не блокировали друг друга.
func (k SlotKey) Compare(other SlotKey) int {
	if c := k.Date.Compare(other.Date); c != 0 {
		return c
	}
	if k.Agency != other.Agency {
		if k.Agency < other.Agency {
			return -1
		}
		return 1
	}
	return k.Time.Compare(other.Time)
}

// SortedSlotKeys возвращает копию keys в каноническом порядке
func SortedSlotKeys(keys []SlotKey) []SlotKey {
	sorted := make([]SlotKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) < 0
	})
	return sorted
}

// AvailableSlot состояние одного слота для отображения
type AvailableSlot struct {
	Time      types.TimeString
	Booked    int
	Available int
	Total     int
}

// NewAvailableSlot считает свободные места, не уходя в минус
func NewAvailableSlot(t types.TimeString, booked, total int) AvailableSlot {
	available := total - booked
	if available < 0 {
		available = 0
	}
	return AvailableSlot{Time: t, Booked: booked, Available: available, Total: total}
}

func (s AvailableSlot) IsFull() bool {
	return s.Available <= 0
}
