package catalog

import "github.com/m04kA/recentro-booking/internal/domain"

// AgencyCatalog справочник органов
type AgencyCatalog interface {
	All() []domain.Agency
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}
