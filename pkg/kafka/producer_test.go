package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/reed/pkg/models"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func newTestProducer(w MessageWriter) *Producer {
	return NewProducerWithWriter(w, "review-events", ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
}

func TestParseConfig(t *testing.T) {
	cfg := ParseConfig("kafka-1:9092, kafka-2:9092", "review-events")

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
	assert.Equal(t, "review-events", cfg.Topic)
}

func TestProducer_PublishResultsPersisted(t *testing.T) {
	w := &recordingWriter{}
	p := newTestProducer(w)

	err := p.PublishResultsPersisted(context.Background(), &models.ReviewResultsPersistedEvent{
		BillRunID:         "bill-run-1",
		LicenceCount:      2,
		ReviewResultCount: 6,
	})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "bill-run-1", string(msg.Key))

	var evt models.ReviewResultsPersistedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &evt))
	assert.Equal(t, models.EventReviewResultsPersisted, evt.Type)
	assert.Equal(t, 6, evt.ReviewResultCount)
	assert.False(t, evt.Timestamp.IsZero())

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "bill-run-1", headers["bill_run_id"])
	assert.Equal(t, models.EventReviewResultsPersisted, headers["type"])
}

func TestProducer_PublishError(t *testing.T) {
	p := newTestProducer(&recordingWriter{err: errors.New("broker unavailable")})

	err := p.PublishResultsPersisted(context.Background(), &models.ReviewResultsPersistedEvent{BillRunID: "bill-run-1"})

	assert.ErrorContains(t, err, "broker unavailable")
}

func TestProducer_NilEvent(t *testing.T) {
	p := newTestProducer(&recordingWriter{})

	assert.Error(t, p.PublishResultsPersisted(context.Background(), nil))
}

func TestProducer_Close(t *testing.T) {
	w := &recordingWriter{}

	require.NoError(t, newTestProducer(w).Close())
	assert.True(t, w.closed)
}
