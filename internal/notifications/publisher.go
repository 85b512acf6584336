package notifications

import (
	"context"
	"fmt"
	"sync"

	"ticketbooker/internal/shared/config"
	"ticketbooker/pkg/logger"
)

// Publisher delivers booking events to a broker
type Publisher interface {
	Publish(ctx context.Context, event *BookingEvent) error
	Close() error
}

// NewPublisher builds the publisher selected by cfg.Broker
func NewPublisher(cfg config.NotificationsConfig, log *logger.Logger) (Publisher, error) {
	switch cfg.Broker {
	case "kafka":
		return NewKafkaPublisher(DefaultKafkaConfig(cfg.KafkaBrokers, cfg.KafkaTopic))
	case "rabbitmq":
		return NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitQueue)
	case "", "none", "log":
		return NewLogPublisher(log), nil
	default:
		return nil, fmt.Errorf("unknown notifications broker %q", cfg.Broker)
	}
}

// LogPublisher writes events to the application log
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	if log == nil {
		log = logger.GetDefault()
	}
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, event *BookingEvent) error {
	p.log.DebugWithContext(ctx, "Booking event", map[string]interface{}{
		"type":       string(event.Type),
		"booking_id": event.BookingID.String(),
		"event_id":   event.EventID.String(),
	})
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// AsyncPublisher hands events to a background worker so request paths never
// wait on the broker. Events are dropped with a warning when the buffer is full.
type AsyncPublisher struct {
	inner  Publisher
	log    *logger.Logger
	queue  chan *BookingEvent
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewAsyncPublisher(inner Publisher, buffer int, log *logger.Logger) *AsyncPublisher {
	if log == nil {
		log = logger.GetDefault()
	}
	p := &AsyncPublisher{
		inner: inner,
		log:   log.WithComponent("notifications"),
		queue: make(chan *BookingEvent, buffer),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

func (p *AsyncPublisher) run() {
	defer p.wg.Done()
	for event := range p.queue {
		if err := p.inner.Publish(context.Background(), event); err != nil {
			p.log.ErrorWithContext(context.Background(), "Failed to publish booking event", err, map[string]interface{}{
				"type":       string(event.Type),
				"booking_id": event.BookingID.String(),
			})
		}
	}
}

func (p *AsyncPublisher) Publish(ctx context.Context, event *BookingEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("publisher closed")
	}

	select {
	case p.queue <- event:
		return nil
	default:
		p.log.WarnWithContext(ctx, "Notification buffer full, dropping event", map[string]interface{}{
			"type":       string(event.Type),
			"booking_id": event.BookingID.String(),
		})
		return fmt.Errorf("notification buffer full")
	}
}

// Close drains queued events and closes the underlying publisher
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	return p.inner.Close()
}
