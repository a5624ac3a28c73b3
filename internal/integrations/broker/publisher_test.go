package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

// fakeBroker выдает подготовленные каналы по одному на каждое подключение
type fakeBroker struct {
	channels []*fakeChannel
	notify   []chan *amqp.Error
	dials    int
	dialErr  error
}

func (b *fakeBroker) dial() (*session, error) {
	if b.dialErr != nil {
		return nil, b.dialErr
	}
	if b.dials >= len(b.channels) {
		return nil, errors.New("no more connections")
	}
	ch := b.channels[b.dials]
	closed := make(chan *amqp.Error, 1)
	b.notify = append(b.notify, closed)
	b.dials++
	return &session{ch: ch, closed: closed}, nil
}

func TestPublishJSON(t *testing.T) {
	ch := &fakeChannel{}
	b := &fakeBroker{channels: []*fakeChannel{ch}}
	p := newPublisher(b.dial, "recentro.appointments")

	require.NoError(t, p.PublishJSON(context.Background(), "appointment.confirmed", map[string]string{"id": "s-1"}))

	assert.Equal(t, "recentro.appointments", ch.exchange)
	assert.Equal(t, "appointment.confirmed", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var body map[string]string
	require.NoError(t, json.Unmarshal(ch.msg.Body, &body))
	assert.Equal(t, "s-1", body["id"])

	require.NoError(t, p.PublishJSON(context.Background(), "appointment.confirmed", 2))
	assert.Equal(t, 1, b.dials)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
	assert.ErrorIs(t, p.PublishJSON(context.Background(), "k", 1), ErrPublish)
}

func TestPublishJSON_RedialsAfterBrokerClosedConnection(t *testing.T) {
	first, second := &fakeChannel{}, &fakeChannel{}
	b := &fakeBroker{channels: []*fakeChannel{first, second}}
	p := newPublisher(b.dial, "x")

	require.NoError(t, p.PublishJSON(context.Background(), "k", 1))

	// брокер перезапустился
	b.notify[0] <- amqp.ErrClosed

	require.NoError(t, p.PublishJSON(context.Background(), "k", 2))
	assert.Equal(t, 2, b.dials)
	assert.True(t, first.closed)
	assert.Equal(t, []byte("2"), second.msg.Body)
}

func TestPublishJSON_RetriesOnceOnFreshConnection(t *testing.T) {
	broken := &fakeChannel{err: amqp.ErrClosed}
	healthy := &fakeChannel{}
	b := &fakeBroker{channels: []*fakeChannel{broken, healthy}}
	p := newPublisher(b.dial, "x")

	require.NoError(t, p.PublishJSON(context.Background(), "k", 1))
	assert.True(t, broken.closed)
	assert.Equal(t, []byte("1"), healthy.msg.Body)
}

func TestPublishJSON_RecoversWhenBrokerComesBack(t *testing.T) {
	b := &fakeBroker{dialErr: errors.New("connection refused"), channels: []*fakeChannel{{}}}
	p := newPublisher(b.dial, "x")

	assert.ErrorIs(t, p.PublishJSON(context.Background(), "k", 1), ErrPublish)

	b.dialErr = nil
	require.NoError(t, p.PublishJSON(context.Background(), "k", 1))
}

func TestPublishJSON_Errors(t *testing.T) {
	failing := func() *fakeChannel { return &fakeChannel{err: errors.New("channel closed")} }
	b := &fakeBroker{channels: []*fakeChannel{failing(), failing()}}
	p := newPublisher(b.dial, "x")

	assert.ErrorIs(t, p.PublishJSON(context.Background(), "k", 1), ErrPublish)
	assert.Equal(t, 2, b.dials)
	assert.ErrorIs(t, p.PublishJSON(context.Background(), "k", make(chan int)), ErrPublish)
}
