package domain

import "errors"

var (
	// ErrOutOfRange возвращается, когда цепочка слотов выходит за конец дня
	ErrOutOfRange = errors.New("domain: time is past the end of the catalog")

	// ErrTimeNotInCatalog возвращается для времени, которого нет в каталоге
	ErrTimeNotInCatalog = errors.New("domain: time is not in the catalog")

	// ErrInvalidCatalog возвращается при некорректных параметрах каталога
	ErrInvalidCatalog = errors.New("domain: invalid catalog")

	// ErrUnknownAgency возвращается для неизвестного кода или названия органа
	ErrUnknownAgency = errors.New("domain: unknown agency")
)
