package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/recentro-booking/internal/domain"
)

const (
	ChannelEmail  = "email"
	ChannelBroker = "broker"

	defaultTimeout = 10 * time.Second
)

// Settings параметры рассылки
type Settings struct {
	EventName  string
	RoutingKey string
	Timeout    time.Duration // на одну заявку, все каналы вместе
}

// Dispatcher рассылает подтверждения после фиксации заявки.
// Ошибки каналов только логируются: запись уже сохранена.
type Dispatcher struct {
	settings Settings
	email    EmailSender    // nil = письма отключены
	events   EventPublisher // nil = брокер отключен
	agencies AgencyCatalog
	metrics  Metrics
	logger   Logger
	now      func() time.Time

	wg sync.WaitGroup
}

// NewDispatcher создает диспетчер. Отключенный канал передается как nil.
func NewDispatcher(
	settings Settings,
	email EmailSender,
	events EventPublisher,
	agencies AgencyCatalog,
	metrics Metrics,
	logger Logger,
) *Dispatcher {
	if settings.Timeout <= 0 {
		settings.Timeout = defaultTimeout
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Dispatcher{
		settings: settings,
		email:    email,
		events:   events,
		agencies: agencies,
		metrics:  metrics,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NotifyConfirmed запускает рассылку в фоне и сразу возвращает управление.
// Отмена ctx запроса рассылку не прерывает.
func (d *Dispatcher) NotifyConfirmed(ctx context.Context, c *domain.Confirmation) {
	if c == nil || (d.email == nil && d.events == nil) {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("Notification: panic while notifying submission=%s: %v", c.SubmissionID, r)
			}
		}()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.settings.Timeout)
		defer cancel()

		if err := d.Deliver(sendCtx, c); err != nil {
			d.logger.Warn("Notification: submission=%s delivered partially: %v", c.SubmissionID, err)
		}
	}()
}

// Deliver отправляет по всем включенным каналам параллельно.
// Сбой одного канала не отменяет другой; возвращается первая ошибка.
func (d *Dispatcher) Deliver(ctx context.Context, c *domain.Confirmation) error {
	var g errgroup.Group

	if d.email != nil {
		g.Go(func() error {
			err := d.sendEmail(ctx, c)
			d.metrics.ObserveNotification(ChannelEmail, err)
			return err
		})
	}

	if d.events != nil {
		g.Go(func() error {
			event := newConfirmedEvent(d.settings.EventName, c, d.now())
			err := d.events.PublishJSON(ctx, d.settings.RoutingKey, event)
			d.metrics.ObserveNotification(ChannelBroker, err)
			if err != nil {
				d.logger.Error("Notification: failed to publish submission=%s: %v", c.SubmissionID, err)
				return fmt.Errorf("%s: %w", ChannelBroker, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// Wait ждет завершения фоновых рассылок, но не дольше ctx
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) sendEmail(ctx context.Context, c *domain.Confirmation) error {
	subject, body, err := renderEmail(d.settings.EventName, c, d.agencies)
	if err != nil {
		d.logger.Error("Notification: %v", err)
		return fmt.Errorf("%s: %w", ChannelEmail, err)
	}

	if err := d.email.Send(ctx, c.Applicant.Email, subject, body); err != nil {
		d.logger.Error("Notification: failed to email submission=%s: %v", c.SubmissionID, err)
		return fmt.Errorf("%s: %w", ChannelEmail, err)
	}

	d.logger.Info("Notification: confirmation for submission=%s sent to %s", c.SubmissionID, c.Applicant.Email)
	return nil
}

type noopMetrics struct{}

func (noopMetrics) ObserveNotification(string, error) {}
