package domain

import (
	"fmt"

	"github.com/m04kA/recentro-booking/pkg/types"
)

// TimeCatalog упорядоченный список времен начала слотов дня.
// Окно [start, end): последний слот целиком помещается до end.
type TimeCatalog struct {
	times []types.TimeString
	index map[types.TimeString]int
	step  int
}

// NewTimeCatalog строит каталог с шагом stepMinutes
func NewTimeCatalog(windowStart, windowEnd types.TimeString, stepMinutes int) (*TimeCatalog, error) {
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("%w: step must be positive, got %d", ErrInvalidCatalog, stepMinutes)
	}
	if err := windowStart.Validate(); err != nil {
		return nil, fmt.Errorf("%w: window start: %v", ErrInvalidCatalog, err)
	}
	if err := windowEnd.Validate(); err != nil {
		return nil, fmt.Errorf("%w: window end: %v", ErrInvalidCatalog, err)
	}
	if !windowStart.IsBefore(windowEnd) {
		return nil, fmt.Errorf("%w: window %s-%s is empty", ErrInvalidCatalog, windowStart, windowEnd)
	}

	catalog := &TimeCatalog{
		index: make(map[types.TimeString]int),
		step:  stepMinutes,
	}

	current := windowStart
	for current.IsBefore(windowEnd) {
		slotEnd, err := current.AddMinutes(stepMinutes)
		if err != nil || slotEnd.IsAfter(windowEnd) {
			break
		}

		catalog.index[current] = len(catalog.times)
		catalog.times = append(catalog.times, current)
		current = slotEnd
	}

	if len(catalog.times) == 0 {
		return nil, fmt.Errorf("%w: no slot fits into %s-%s with step %d",
			ErrInvalidCatalog, windowStart, windowEnd, stepMinutes)
	}

	return catalog, nil
}

// Times возвращает копию списка времен
func (c *TimeCatalog) Times() []types.TimeString {
	times := make([]types.TimeString, len(c.times))
	copy(times, c.times)
	return times
}

func (c *TimeCatalog) Len() int {
	return len(c.times)
}

func (c *TimeCatalog) Step() int {
	return c.step
}

func (c *TimeCatalog) First() types.TimeString {
	return c.times[0]
}

func (c *TimeCatalog) Last() types.TimeString {
	return c.times[len(c.times)-1]
}

func (c *TimeCatalog) Contains(t types.TimeString) bool {
	_, ok := c.index[t]
	return ok
}

// Index позиция времени в каталоге
func (c *TimeCatalog) Index(t types.TimeString) (int, bool) {
	i, ok := c.index[t]
	return i, ok
}

// Successor возвращает время на n шагов позже t.
// Successor(t, 0) == t; выход за последний слот дает ErrOutOfRange.
func (c *TimeCatalog) Successor(t types.TimeString, n int) (types.TimeString, error) {
	i, ok := c.index[t]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTimeNotInCatalog, t)
	}
	if n < 0 {
		return "", fmt.Errorf("%w: negative offset %d", ErrInvalidCatalog, n)
	}
	if i+n >= len(c.times) {
		return "", fmt.Errorf("%w: %s + %d slots, last slot is %s", ErrOutOfRange, t, n, c.Last())
	}
	return c.times[i+n], nil
}
