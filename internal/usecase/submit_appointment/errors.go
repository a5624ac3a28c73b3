package submit_appointment

import (
	"errors"
	"strings"

	"github.com/m04kA/recentro-booking/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных данных заявки
	ErrInvalidInput = errors.New("submit_appointment: invalid input data")

	// ErrOutOfRange возвращается, когда цепочка не помещается в день
	ErrOutOfRange = errors.New("submit_appointment: not enough consecutive slots left in the day")

	// ErrSlotConflict возвращается, когда хотя бы один слот заполнен. Ничего не сохранено.
	ErrSlotConflict = errors.New("submit_appointment: slot capacity exhausted")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("submit_appointment: internal error")
)

// ConflictError перечисляет все заполненные слоты заявки.
// errors.Is(err, ErrSlotConflict) == true.
type ConflictError struct {
	Keys []domain.SlotKey
}

func (e *ConflictError) Error() string {
	keys := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		keys[i] = k.String()
	}
	return ErrSlotConflict.Error() + ": " + strings.Join(keys, ", ")
}

func (e *ConflictError) Unwrap() error {
	return ErrSlotConflict
}
