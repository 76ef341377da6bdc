package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemRisk-Intelligence/internal/application/analysis"
	"github.com/turtacn/ChemRisk-Intelligence/internal/config"
	"github.com/turtacn/ChemRisk-Intelligence/pkg/types/common"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func TestProducerPublish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducerWithWriter(w, nil)

	err := p.Publish(context.Background(), "chemrisk.analysis.alert", []byte("id-1"), []byte(`{"a":1}`))
	require.NoError(t, err)

	require.Len(t, w.messages, 1)
	assert.Equal(t, "chemrisk.analysis.alert", w.messages[0].Topic)
	assert.Equal(t, []byte("id-1"), w.messages[0].Key)
	assert.Equal(t, int64(1), p.Metrics().MessagesSent.Load())
}

func TestProducerPublishValidation(t *testing.T) {
	p := newProducerWithWriter(&fakeWriter{}, nil)
	ctx := context.Background()

	assert.Error(t, p.Publish(ctx, "", nil, []byte("x")))
	assert.Error(t, p.Publish(ctx, "topic", nil, nil))
}

func TestProducerWriteFailure(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newProducerWithWriter(w, nil)

	err := p.Publish(context.Background(), "topic", nil, []byte("x"))
	require.Error(t, err)
	assert.Equal(t, int64(1), p.Metrics().MessagesFailed.Load())
}

func TestProducerClosed(t *testing.T) {
	w := &fakeWriter{}
	p := newProducerWithWriter(w, nil)
	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	err := p.Publish(context.Background(), "topic", nil, []byte("x"))
	assert.ErrorIs(t, err, ErrProducerClosed)

	// Closing twice is a no-op.
	assert.NoError(t, p.Close())
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer(config.KafkaConfig{}, nil)
	assert.Error(t, err)
}

func TestAlertPublisher(t *testing.T) {
	w := &fakeWriter{}
	pub := NewAlertPublisher(newProducerWithWriter(w, nil))

	alert := analysis.Alert{
		AnalysisID:  "a-1",
		GlobalScore: 72.5,
		RiskLevel:   common.RiskEleve,
		Substances:  []string{"chloroforme", "eau de javel"},
		Reactions:   []string{"Phosgène"},
		OccurredAt:  time.Now().UTC(),
	}
	require.NoError(t, pub.PublishAlert(context.Background(), alert))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, TopicAnalysisAlert, msg.Topic)
	assert.Equal(t, []byte("a-1"), msg.Key)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.Equal(t, EventTypeAnalysisAlert, envelope.EventType)
	assert.NotEmpty(t, envelope.EventID)

	var decoded analysis.Alert
	require.NoError(t, json.Unmarshal(envelope.Payload, &decoded))
	assert.Equal(t, alert.AnalysisID, decoded.AnalysisID)
	assert.Equal(t, alert.RiskLevel, decoded.RiskLevel)
	assert.Equal(t, alert.Reactions, decoded.Reactions)
}
