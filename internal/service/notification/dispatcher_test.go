package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/logger"
)

type sentEmail struct {
	recipient, subject, body string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeSender) Send(_ context.Context, recipient, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{recipient, subject, body})
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	keys   []string
	events []any
	err    error
	block  chan struct{}
}

func (f *fakePublisher) PublishJSON(ctx context.Context, key string, v any) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.events = append(f.events, v)
	return nil
}

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *countingMetrics) ObserveNotification(channel string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.counts[channel+"/"+status]++
}

func newAgencies(t *testing.T) *domain.AgencyCatalog {
	t.Helper()
	agencies, err := domain.NewAgencyCatalog(domain.DefaultAgencies)
	require.NoError(t, err)
	return agencies
}

func confirmation() *domain.Confirmation {
	return &domain.Confirmation{
		SubmissionID: "sub-1",
		Applicant: domain.Applicant{
			FullName: "Maria da Silva",
			Email:    "maria@example.com",
		},
		Date:     "2025-10-07",
		FlowType: domain.FlowSequential,
		Slots: []domain.ConfirmedSlot{
			{BookingID: "b-1", Agency: "SEFIN", Time: "14:00"},
			{BookingID: "b-2", Agency: "IPHAN", Time: "14:15"},
		},
	}
}

func settings() Settings {
	return Settings{EventName: domain.DefaultEventName, RoutingKey: "appointment.confirmed", Timeout: time.Second}
}

func TestDeliver_EmailAndEvent(t *testing.T) {
	sender := &fakeSender{}
	publisher := &fakePublisher{}
	metrics := &countingMetrics{counts: map[string]int{}}
	d := NewDispatcher(settings(), sender, publisher, newAgencies(t), metrics, logger.NewNop())

	require.NoError(t, d.Deliver(context.Background(), confirmation()))

	require.Len(t, sender.sent, 1)
	mail := sender.sent[0]
	assert.Equal(t, "maria@example.com", mail.recipient)
	assert.Equal(t, "Confirmação de Agendamento - Atende Recentro 2025", mail.subject)
	assert.Contains(t, mail.body, "Olá, Maria da Silva!")
	assert.Contains(t, mail.body, "Data: 07/10/2025")
	assert.Contains(t, mail.body, "14:00 - Secretaria de Finanças")
	assert.Contains(t, mail.body, "14:15 - Instituto do Patrimônio Histórico e Artístico Nacional")
	assert.Less(t, strings.Index(mail.body, "14:00"), strings.Index(mail.body, "14:15"))

	require.Len(t, publisher.events, 1)
	assert.Equal(t, []string{"appointment.confirmed"}, publisher.keys)
	event := publisher.events[0].(ConfirmedEvent)
	assert.Equal(t, "sub-1", event.SubmissionID)
	assert.Equal(t, "2025-10-07", event.Date)
	assert.Equal(t, []EventSlot{
		{BookingID: "b-1", Agency: "SEFIN", Time: "14:00"},
		{BookingID: "b-2", Agency: "IPHAN", Time: "14:15"},
	}, event.Slots)

	assert.Equal(t, map[string]int{"email/sent": 1, "broker/sent": 1}, metrics.counts)
}

func TestDeliver_ChannelFailureDoesNotStopOther(t *testing.T) {
	sender := &fakeSender{err: errors.New("ses throttled")}
	publisher := &fakePublisher{}
	metrics := &countingMetrics{counts: map[string]int{}}
	d := NewDispatcher(settings(), sender, publisher, newAgencies(t), metrics, logger.NewNop())

	err := d.Deliver(context.Background(), confirmation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ChannelEmail)

	assert.Len(t, publisher.events, 1)
	assert.Equal(t, map[string]int{"email/failed": 1, "broker/sent": 1}, metrics.counts)
}

func TestNotifyConfirmed_RunsInBackgroundAndOutlivesRequest(t *testing.T) {
	publisher := &fakePublisher{block: make(chan struct{})}
	d := NewDispatcher(settings(), nil, publisher, newAgencies(t), nil, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	d.NotifyConfirmed(ctx, confirmation())
	cancel()

	// запрос уже завершился, а событие все еще в пути
	close(publisher.block)
	require.NoError(t, d.Wait(context.Background()))
	assert.Len(t, publisher.events, 1)
}

func TestNotifyConfirmed_TimeoutBoundsDelivery(t *testing.T) {
	publisher := &fakePublisher{block: make(chan struct{})}
	s := settings()
	s.Timeout = 20 * time.Millisecond
	d := NewDispatcher(s, nil, publisher, newAgencies(t), nil, logger.NewNop())

	d.NotifyConfirmed(context.Background(), confirmation())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))
	assert.Empty(t, publisher.events)
}

func TestNotifyConfirmed_NoChannels(t *testing.T) {
	d := NewDispatcher(settings(), nil, nil, newAgencies(t), nil, logger.NewNop())
	d.NotifyConfirmed(context.Background(), confirmation())
	require.NoError(t, d.Wait(context.Background()))
}
