// Package events publishes domain events to RabbitMQ.
package events

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	PublishPaymentRecorded(ctx context.Context, msg PaymentRecorded) error
	Close() error
}

// Noop is used when AMQP_URL is empty.
type Noop struct{}

func (Noop) PublishPaymentRecorded(context.Context, PaymentRecorded) error { return nil }
func (Noop) Close() error                                              { return nil }

// session is one broker connection with its publishing channel.
type session interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	NotifyClose() <-chan *amqp091.Error
	IsClosed() bool
	Close() error
}

type amqpSession struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	closed  chan *amqp091.Error
}

func dialSession(url, exchange string) (*amqpSession, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial AMQP")
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}
	// topic: consumers bind on transport.# or a single routing key
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, errors.Wrap(err, "declare exchange")
	}
	return &amqpSession{
		conn:    conn,
		channel: ch,
		closed:  conn.NotifyClose(make(chan *amqp091.Error, 1)),
	}, nil
}

func (s *amqpSession) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	return s.channel.PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

func (s *amqpSession) NotifyClose() <-chan *amqp091.Error { return s.closed }

func (s *amqpSession) IsClosed() bool { return s.conn.IsClosed() || s.channel.IsClosed() }

func (s *amqpSession) Close() error {
	_ = s.channel.Close()
	return s.conn.Close()
}

// AMQPPublisher keeps one session open and redials lazily on the next
// publish after the broker drops it.
type AMQPPublisher struct {
	mu          sync.Mutex
	sess        session
	closed      bool
	exchange    string
	dial        func() (session, error)
	now         func() time.Time
	lastDial    time.Time
	redialEvery time.Duration
}

const defaultRedialEvery = 5 * time.Second

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	dial := func() (session, error) {
		s, err := dialSession(url, exchange)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return newPublisher(exchange, dial, time.Now)
}

func newPublisher(exchange string, dial func() (session, error), now func() time.Time) (*AMQPPublisher, error) {
	s, err := dial()
	if err != nil {
		return nil, err
	}
	p := &AMQPPublisher{
		exchange:    exchange,
		dial:        dial,
		now:         now,
		lastDial:    now(),
		redialEvery: defaultRedialEvery,
	}
	p.attachLocked(s)
	return p, nil
}

// New falls back to Noop when url is empty or the broker is unreachable.
func New(url, exchange string) Publisher {
	if url == "" {
		log.Println("[INFO] AMQP_URL not set, payment events disabled")
		return Noop{}
	}
	p, err := NewAMQPPublisher(url, exchange)
	if err != nil {
		log.Printf("[WARN] AMQP unavailable, payment events disabled: %v", err)
		return Noop{}
	}
	log.Printf("[INFO] publishing events to exchange %q", exchange)
	return p
}

func (p *AMQPPublisher) PublishPaymentRecorded(ctx context.Context, msg PaymentRecorded) error {
	body, err := msg.ToJSON()
	if err != nil {
		return errors.Wrap(err, "marshal message")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		MessageId:    msg.FeeID.String() + ":" + msg.ReceiptID,
		Body:         body,
	}

	// amqp091 channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.sessionLocked()
	if err != nil {
		return err
	}
	err = s.PublishWithContext(ctx, p.exchange, RoutingPaymentRecorded, false, false, pub)
	if errors.Is(err, amqp091.ErrClosed) {
		// the broker went away between the close notification and this call
		p.dropLocked(s)
		p.lastDial = time.Time{}
		if s, err = p.sessionLocked(); err != nil {
			return err
		}
		err = s.PublishWithContext(ctx, p.exchange, RoutingPaymentRecorded, false, false, pub)
	}
	if err != nil {
		return errors.Wrap(err, "publish message")
	}
	return nil
}

// sessionLocked returns the live session, redialing at most once per redialEvery.
func (p *AMQPPublisher) sessionLocked() (session, error) {
	if p.closed {
		return nil, errors.New("publisher closed")
	}
	if p.sess != nil && !p.sess.IsClosed() {
		return p.sess, nil
	}
	p.dropLocked(p.sess)

	now := p.now()
	if !p.lastDial.IsZero() && now.Sub(p.lastDial) < p.redialEvery {
		return nil, errors.New("AMQP connection down, waiting to redial")
	}
	p.lastDial = now
	s, err := p.dial()
	if err != nil {
		return nil, errors.Wrap(err, "redial AMQP")
	}
	log.Printf("[INFO] AMQP reconnected to exchange %q", p.exchange)
	p.attachLocked(s)
	return s, nil
}

func (p *AMQPPublisher) attachLocked(s session) {
	p.sess = s
	go func() {
		if e, ok := <-s.NotifyClose(); ok && e != nil {
			log.Printf("[WARN] AMQP connection closed: %v", e)
		}
		p.mu.Lock()
		p.dropLocked(s)
		p.mu.Unlock()
	}()
}

func (p *AMQPPublisher) dropLocked(s session) {
	if s == nil || p.sess != s {
		return
	}
	_ = s.Close()
	p.sess = nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.sess == nil {
		return nil
	}
	err := p.sess.Close()
	p.sess = nil
	return err
}
