package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/nikolayk812/smartpos/internal/logger"
	"github.com/segmentio/kafka-go"
)

const (
	SaleCompletedTopic = "smartpos.sale.completed"
	SaleCompletedType  = "sale.completed"
)

// Writer is the subset of *kafka.Writer the producer needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope wraps every published payload.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

type Producer struct {
	writer Writer
	topic  string
	source string
	logger *slog.Logger
}

func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: 2 * time.Second,
	}
}

func NewProducer(w Writer, topic, source string, logger *slog.Logger) *Producer {
	if topic == "" {
		topic = SaleCompletedTopic
	}

	return &Producer{
		writer: w,
		topic:  topic,
		source: source,
		logger: logger,
	}
}

// PublishSaleCompleted writes the invoice keyed by sale id, so all events of
// one sale land on the same partition.
func (p *Producer) PublishSaleCompleted(ctx context.Context, sale domain.SaleRecord) error {
	data, err := json.Marshal(sale)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     SaleCompletedType,
		AggregateID:   sale.ID.String(),
		Timestamp:     time.Now().UTC(),
		Source:        p.source,
		CorrelationID: logger.CorrelationIDFromContext(ctx),
		Data:          data,
	}

	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(env.AggregateID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.EventType)},
			{Key: "source", Value: []byte(env.Source)},
		},
	}
	if env.CorrelationID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "correlation_id", Value: []byte(env.CorrelationID)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writer.WriteMessages[%s]: %w", p.topic, err)
	}

	p.logger.DebugContext(ctx, "event published",
		slog.String("topic", p.topic),
		slog.String("event_type", env.EventType),
		slog.String("sale_id", env.AggregateID),
	)

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
