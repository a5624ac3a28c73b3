package mailer

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

// sesAPI часть клиента SESv2, которую использует Client
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
