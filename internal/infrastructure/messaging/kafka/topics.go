package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/ChemRisk-Intelligence/internal/application/analysis"
	"github.com/turtacn/ChemRisk-Intelligence/pkg/errors"
)

const (
	// TopicAnalysisAlert carries high-risk analyses and detected dangerous
	// reactions, keyed by analysis ID.
	TopicAnalysisAlert = "chemrisk.analysis.alert"
)

const (
	EventTypeAnalysisAlert = "analysis.alert"

	eventSource   = "chemrisk-apiserver"
	schemaVersion = "1.0"
)

// EventEnvelope is the wire shape shared by every published event.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a payload for publication.
func NewEnvelope(eventType string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "cannot marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		Source:        eventSource,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: schemaVersion,
		Payload:       data,
	}, nil
}

// AlertPublisher publishes analysis alerts to the alert topic.  It satisfies
// the analysis service's publisher contract.
type AlertPublisher struct {
	producer *Producer
}

func NewAlertPublisher(producer *Producer) *AlertPublisher {
	return &AlertPublisher{producer: producer}
}

func (p *AlertPublisher) PublishAlert(ctx context.Context, alert analysis.Alert) error {
	envelope, err := NewEnvelope(EventTypeAnalysisAlert, alert)
	if err != nil {
		return err
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "cannot marshal event envelope")
	}
	return p.producer.Publish(ctx, TopicAnalysisAlert, []byte(alert.AnalysisID), data)
}
