package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// channel часть amqp.Channel, которую использует Publisher
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// session одно подключение к брокеру. closed получает ошибку, когда брокер
// закрыл канал или соединение.
type session struct {
	ch     channel
	conn   io.Closer
	closed <-chan *amqp.Error
}

func (s *session) alive() bool {
	select {
	case <-s.closed:
		return false
	default:
		return true
	}
}

func (s *session) close() {
	_ = s.ch.Close()
	if s.conn != nil {
		_ = s.conn.Close()
	}
}

type dialFunc func() (*session, error)

// Publisher публикует JSON-события в topic exchange.
// После разрыва связи переподключается при следующей публикации.
type Publisher struct {
	mu       sync.Mutex // amqp.Channel нельзя использовать из нескольких горутин
	dial     dialFunc
	current  *session
	exchange string
	closed   bool
}

// NewPublisher подключается и объявляет durable topic exchange
func NewPublisher(url, exchange string) (*Publisher, error) {
	p := newPublisher(func() (*session, error) {
		return connect(url, exchange)
	}, exchange)

	s, err := p.dial()
	if err != nil {
		return nil, err
	}
	p.current = s
	return p, nil
}

func newPublisher(dial dialFunc, exchange string) *Publisher {
	return &Publisher{dial: dial, exchange: exchange}
}

func connect(url, exchange string) (*session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare exchange %s: %v", ErrConnect, exchange, err)
	}

	// закрытие соединения закрывает и канал, одного уведомления достаточно
	closed := ch.NotifyClose(make(chan *amqp.Error, 1))

	return &session{ch: ch, conn: conn, closed: closed}, nil
}

// PublishJSON публикует v как persistent-сообщение.
// Ошибка публикации сбрасывает подключение; делается одна повторная попытка.
func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPublish, key, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("%w: %s: publisher closed", ErrPublish, key)
	}

	for attempt := 0; ; attempt++ {
		s, err := p.session()
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrPublish, key, err)
		}

		err = s.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg)
		if err == nil {
			return nil
		}

		p.reset()
		if attempt > 0 || ctx.Err() != nil {
			return fmt.Errorf("%w: %s: %v", ErrPublish, key, err)
		}
	}
}

// session возвращает живое подключение, при необходимости переподключаясь. Вызывать под mu.
func (p *Publisher) session() (*session, error) {
	if p.current != nil && !p.current.alive() {
		p.reset()
	}
	if p.current == nil {
		s, err := p.dial()
		if err != nil {
			return nil, err
		}
		p.current = s
	}
	return p.current, nil
}

func (p *Publisher) reset() {
	if p.current != nil {
		p.current.close()
		p.current = nil
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.current == nil {
		return nil
	}

	s := p.current
	p.current = nil
	_ = s.ch.Close()
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
