package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	TypeAppointmentBooked    = "appointment.booked"
	TypeAppointmentUpdated   = "appointment.updated"
	TypeAppointmentCancelled = "appointment.cancelled"
	TypeStockSold            = "stock.sold"
	TypeStockAdjusted        = "stock.adjusted"
	TypeStockLow             = "stock.low"
)

// Envelope wraps every published event with routing metadata.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

// Publisher emits domain events after a store operation commits. Publish
// failures never fail the operation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any)
	Close() error
}

type kafkaPublisher struct {
	writer      *kafkago.Writer
	serviceName string
}

// NewKafkaPublisher returns a Publisher that writes envelopes to a single
// topic, partitioned by the resource key so events for one resource stay
// ordered.
func NewKafkaPublisher(brokers []string, topic, serviceName string) Publisher {
	return &kafkaPublisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireAll,
			Async:        true,
		},
		serviceName: serviceName,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType, key string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("marshal %s payload: %v", eventType, err)
		return
	}

	env := Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Producer:   p.serviceName,
		Payload:    data,
	}

	value, err := json.Marshal(env)
	if err != nil {
		log.Printf("marshal %s envelope: %v", eventType, err)
		return
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "x-event-type", Value: []byte(eventType)},
		},
	})
	if err != nil {
		log.Printf("publish %s: %v", eventType, err)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that drops everything. Used when no
// broker is configured and in tests.
func NewNopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(ctx context.Context, eventType, key string, payload any) {}
func (nopPublisher) Close() error                                                    { return nil }
