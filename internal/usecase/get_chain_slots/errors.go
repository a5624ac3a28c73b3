package get_chain_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректной дате или списке органов
	ErrInvalidInput = errors.New("get_chain_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_chain_slots: internal error")
)
