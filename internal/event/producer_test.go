package event_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/nikolayk812/smartpos/internal/event"
	"github.com/nikolayk812/smartpos/internal/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

var php = currency.MustParseISO("PHP")

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishSaleCompleted(t *testing.T) {
	w := &fakeWriter{}
	p := event.NewProducer(w, "", "smartpos", slog.New(slog.NewTextHandler(io.Discard, nil)))
	sale := testSale(t)

	ctx := logger.WithCorrelationID(t.Context(), "corr-42")
	require.NoError(t, p.PublishSaleCompleted(ctx, sale))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, event.SaleCompletedTopic, msg.Topic)
	assert.Equal(t, sale.ID.String(), string(msg.Key))
	assert.Contains(t, msg.Headers, kafka.Header{Key: "event_type", Value: []byte(event.SaleCompletedType)})
	assert.Contains(t, msg.Headers, kafka.Header{Key: "correlation_id", Value: []byte("corr-42")})

	var env event.Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, event.SaleCompletedType, env.EventType)
	assert.Equal(t, sale.ID.String(), env.AggregateID)
	assert.Equal(t, "smartpos", env.Source)
	assert.NotEmpty(t, env.EventID)

	var payload domain.SaleRecord
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, sale.ID, payload.ID)
	assert.True(t, sale.Total.Equal(payload.Total))
	assert.Len(t, payload.Lines, 1)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishSaleCompleted_WriterError(t *testing.T) {
	brokerErr := errors.New("leader not available")
	p := event.NewProducer(&fakeWriter{err: brokerErr}, "custom.topic", "smartpos",
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := p.PublishSaleCompleted(t.Context(), testSale(t))
	require.ErrorIs(t, err, brokerErr)
	assert.ErrorContains(t, err, "custom.topic")
}

func testSale(t *testing.T) domain.SaleRecord {
	t.Helper()

	product := domain.Product{
		ID:    "A",
		Name:  "Cola",
		Price: domain.NewMoney(decimal.RequireFromString("12.50"), php),
	}

	sale, err := domain.NewSaleRecord(uuid.New(), domain.PaymentCash, time.Now().UTC(), php,
		[]domain.SaleLine{domain.NewSaleLine(product, 2)})
	require.NoError(t, err)

	return sale
}
