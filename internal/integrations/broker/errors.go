package broker

import "errors"

var (
	// ErrConnect возвращается, когда не удалось подключиться к RabbitMQ
	ErrConnect = errors.New("broker: connect failed")

	// ErrPublish возвращается, когда событие не удалось опубликовать
	ErrPublish = errors.New("broker: publish failed")
)
