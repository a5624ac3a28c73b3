package get_available_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректной дате или органе
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
