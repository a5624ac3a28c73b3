package notification

import (
	"context"

	"github.com/m04kA/recentro-booking/internal/domain"
)

// EmailSender отправка письма одному получателю
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// EventPublisher публикация события в брокер
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// AgencyCatalog справочник органов
type AgencyCatalog interface {
	Name(code domain.AgencyCode) string
}

// Metrics счетчик отправок по каналам
type Metrics interface {
	ObserveNotification(channel string, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
