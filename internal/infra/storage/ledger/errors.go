package ledger

import "errors"

var (
	// ErrSlotFull возвращается, когда в слоте не осталось мест
	ErrSlotFull = errors.New("ledger.repository: slot is full")

	// ErrInvalidCapacity возвращается для емкости меньше 1
	ErrInvalidCapacity = errors.New("ledger.repository: capacity must be positive")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("ledger.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("ledger.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("ledger.repository: failed to scan row")
)
