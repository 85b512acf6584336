package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"ticketbooker/internal/shared/config"
	"ticketbooker/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent(t EventType) *BookingEvent {
	e := NewBookingEvent(t, uuid.New(), uuid.New(), uuid.New(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	e.BookingRef = "EVT-20260301-ABCDEF"
	e.SeatCount = 2
	return e
}

func TestKafkaPublisherSendsJSON(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	event := sampleEvent(EventBookingConfirmed)

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var decoded BookingEvent
		if err := json.Unmarshal(val, &decoded); err != nil {
			return err
		}
		if decoded.BookingID != event.BookingID || decoded.Type != EventBookingConfirmed {
			return errors.New("unexpected payload")
		}
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, "booking-events")
	require.NoError(t, pub.Publish(context.Background(), event))
	require.NoError(t, pub.Close())
}

func TestKafkaPublisherWrapsSendError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, "booking-events")
	err := pub.Publish(context.Background(), sampleEvent(EventBookingCreated))

	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, exchange+"/"+key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRabbitPublisherPublishesPersistentMessage(t *testing.T) {
	ch := &fakeChannel{}
	pub := &RabbitPublisher{channel: ch, queue: "booking-events"}
	event := sampleEvent(EventBookingExpired)

	require.NoError(t, pub.Publish(context.Background(), event))
	require.Len(t, ch.published, 1)

	msg := ch.published[0]
	assert.Equal(t, "/booking-events", ch.keys[0])
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, event.ID.String(), msg.MessageId)
	assert.Equal(t, "booking.expired", msg.Type)

	require.NoError(t, pub.Close())
	assert.True(t, ch.closed)
}

func TestRabbitPublisherError(t *testing.T) {
	pub := &RabbitPublisher{channel: &fakeChannel{err: amqp.ErrClosed}, queue: "q"}
	err := pub.Publish(context.Background(), sampleEvent(EventBookingCreated))
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*BookingEvent
	closed bool
}

func (r *recordingPublisher) Publish(_ context.Context, e *BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) Close() error {
	r.closed = true
	return nil
}

func TestAsyncPublisherDrainsOnClose(t *testing.T) {
	inner := &recordingPublisher{}
	pub := NewAsyncPublisher(inner, 16, logger.Discard())

	for i := 0; i < 5; i++ {
		require.NoError(t, pub.Publish(context.Background(), sampleEvent(EventBookingCreated)))
	}
	require.NoError(t, pub.Close())

	assert.Len(t, inner.events, 5)
	assert.True(t, inner.closed)
	assert.Error(t, pub.Publish(context.Background(), sampleEvent(EventBookingCreated)))
	assert.NoError(t, pub.Close())
}

func TestNewPublisherSelectsBroker(t *testing.T) {
	pub, err := NewPublisher(config.NotificationsConfig{Broker: "none"}, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, &LogPublisher{}, pub)

	_, err = NewPublisher(config.NotificationsConfig{Broker: "carrier-pigeon"}, logger.Discard())
	assert.Error(t, err)
}
