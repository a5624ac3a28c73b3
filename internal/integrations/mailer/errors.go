package mailer

import "errors"

var (
	// ErrInvalidConfig возвращается при неполной конфигурации SES
	ErrInvalidConfig = errors.New("mailer: invalid configuration")

	// ErrInvalidMessage возвращается для письма без получателя
	ErrInvalidMessage = errors.New("mailer: invalid message")

	// ErrSend возвращается, когда SES отклонил письмо
	ErrSend = errors.New("mailer: send failed")
)
