package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Config параметры SES
type Config struct {
	Region          string
	Sender          string
	AccessKeyID     string // пусто = стандартная цепочка AWS
	SecretAccessKey string
}

// Client отправляет текстовые письма через AWS SESv2
type Client struct {
	api    sesAPI
	sender string
	log    Logger
}

// NewClient создает клиента SES.
// Без ключей в конфиге используются переменные окружения и профиль AWS.
func NewClient(ctx context.Context, cfg Config, log Logger) (*Client, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required", ErrInvalidConfig)
	}
	if cfg.Sender == "" {
		return nil, fmt.Errorf("%w: sender is required", ErrInvalidConfig)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %v", ErrInvalidConfig, err)
	}

	return newClient(sesv2.NewFromConfig(awsCfg), cfg.Sender, log), nil
}

func newClient(api sesAPI, sender string, log Logger) *Client {
	return &Client{api: api, sender: sender, log: log}
}

// Send отправляет письмо одному получателю
func (c *Client) Send(ctx context.Context, recipient, subject, body string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidMessage)
	}

	input := &sesv2.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{recipient},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
				},
			},
		},
		FromEmailAddress: aws.String(c.sender),
	}

	out, err := c.api.SendEmail(ctx, input)
	if err != nil {
		c.log.Error("mailer: failed to send %q to %s: %v", subject, recipient, err)
		return fmt.Errorf("%w: %v", ErrSend, err)
	}

	c.log.Info("mailer: sent %q to %s, message_id=%s", subject, recipient, aws.ToString(out.MessageId))
	return nil
}
