package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutURLIsNoop(t *testing.T) {
	p := New("", "school.transport")
	_, ok := p.(Noop)
	require.True(t, ok)
	assert.NoError(t, p.PublishPaymentRecorded(context.Background(), PaymentRecorded{}))
	assert.NoError(t, p.Close())
}

func TestPaymentRecordedJSON(t *testing.T) {
	msg := PaymentRecorded{
		FeeID:      uuid.New(),
		Month:      "June",
		Year:       2025,
		PaidAmount: decimal.RequireFromString("350000.50"),
		Status:     "Late",
		ReceiptID:  "AB12CD34EF",
		OccurredAt: time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
	}
	b, err := msg.ToJSON()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "June", got["month"])
	assert.Equal(t, "350000.5", got["paid_amount"])
	assert.Equal(t, "Late", got["status"])
	assert.Equal(t, msg.FeeID.String(), got["fee_id"])
}

type fakeSession struct {
	mu        sync.Mutex
	published []string
	down      bool
	failWith  error
	notify    chan *amqp091.Error
}

func newFakeSession() *fakeSession {
	return &fakeSession{notify: make(chan *amqp091.Error, 1)}
}

func (s *fakeSession) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp091.Publishing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.published = append(s.published, key+" "+msg.MessageId)
	return nil
}

func (s *fakeSession) NotifyClose() <-chan *amqp091.Error { return s.notify }

func (s *fakeSession) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.down
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.down {
		s.down = true
		close(s.notify)
	}
	return nil
}

// brokerDrop simulates the server closing the connection.
func (s *fakeSession) brokerDrop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = true
	s.notify <- &amqp091.Error{Code: amqp091.ConnectionForced, Reason: "CONNECTION_FORCED"}
	close(s.notify)
}

type fakeDialer struct {
	sessions []*fakeSession
	calls    int
	err      error
}

func (d *fakeDialer) dial() (session, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	s := newFakeSession()
	d.sessions = append(d.sessions, s)
	return s, nil
}

func testMsg() PaymentRecorded {
	return PaymentRecorded{FeeID: uuid.New(), Month: "June", Year: 2025, ReceiptID: "R1"}
}

func TestPublisherRedialsAfterBrokerDrop(t *testing.T) {
	d := &fakeDialer{}
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	p, err := newPublisher("school.transport", d.dial, func() time.Time { return now })
	require.NoError(t, err)
	require.Equal(t, 1, d.calls)

	require.NoError(t, p.PublishPaymentRecorded(context.Background(), testMsg()))
	d.sessions[0].brokerDrop()

	now = now.Add(time.Minute)
	require.NoError(t, p.PublishPaymentRecorded(context.Background(), testMsg()))
	assert.Equal(t, 2, d.calls)
	assert.Len(t, d.sessions[0].published, 1)
	assert.Len(t, d.sessions[1].published, 1)
	assert.Contains(t, d.sessions[1].published[0], RoutingPaymentRecorded)
	require.NoError(t, p.Close())
}

func TestPublisherRetriesOnceWhenChannelClosed(t *testing.T) {
	d := &fakeDialer{}
	p, err := newPublisher("school.transport", d.dial, time.Now)
	require.NoError(t, err)

	d.sessions[0].mu.Lock()
	d.sessions[0].failWith = amqp091.ErrClosed
	d.sessions[0].mu.Unlock()

	require.NoError(t, p.PublishPaymentRecorded(context.Background(), testMsg()))
	assert.Equal(t, 2, d.calls)
	assert.Len(t, d.sessions[1].published, 1)
}

func TestPublisherThrottlesRedial(t *testing.T) {
	d := &fakeDialer{}
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	p, err := newPublisher("school.transport", d.dial, func() time.Time { return now })
	require.NoError(t, err)

	d.sessions[0].brokerDrop()
	d.err = errors.New("connection refused")

	now = now.Add(10 * time.Second)
	assert.Error(t, p.PublishPaymentRecorded(context.Background(), testMsg()))
	assert.Equal(t, 2, d.calls)

	// still inside the backoff window: no new dial
	now = now.Add(time.Second)
	assert.Error(t, p.PublishPaymentRecorded(context.Background(), testMsg()))
	assert.Equal(t, 2, d.calls)

	d.err = nil
	now = now.Add(defaultRedialEvery)
	require.NoError(t, p.PublishPaymentRecorded(context.Background(), testMsg()))
	assert.Equal(t, 3, d.calls)
}

func TestPublisherClosedRejectsPublish(t *testing.T) {
	d := &fakeDialer{}
	p, err := newPublisher("school.transport", d.dial, time.Now)
	require.NoError(t, err)
	require.NoError(t, p.Close())
	assert.True(t, d.sessions[0].IsClosed())
	assert.Error(t, p.PublishPaymentRecorded(context.Background(), testMsg()))
	assert.Equal(t, 1, d.calls)
}
