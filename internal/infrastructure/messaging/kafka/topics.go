// Package kafka publishes scheduling events to downstream consumers
// (notification fan-out, audit, reporting) using segmentio/kafka-go.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

// Topic constants
const (
	TopicCaseReconciled    = "timebar.case.reconciled"
	TopicNoticeAttached    = "timebar.notice.attached"
	TopicNoticeRemoved     = "timebar.notice.removed"
	TopicReminderScheduled = "timebar.reminder.scheduled"
)

// Event type names carried in envelopes and headers.
const (
	EventTypeCaseReconciled    = "timebar.case.reconciled.v1"
	EventTypeNoticeAttached    = "timebar.notice.attached.v1"
	EventTypeNoticeRemoved     = "timebar.notice.removed.v1"
	EventTypeReminderScheduled = "timebar.reminder.scheduled.v1"
)

// EventEnvelope standardizes event messages on the wire.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEventEnvelope wraps a payload in a versioned envelope.
func NewEventEnvelope(eventType string, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the envelope payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return nil
	}
	return json.Unmarshal(e.Payload, target)
}

// ToMessage serializes the envelope into a producer message for topic,
// keyed so all events of one case land on the same partition.
func (e *EventEnvelope) ToMessage(topic string, key string) (*ProducerMessage, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	headers := map[string]string{
		"event_type":     e.EventType,
		"source_service": e.Source,
		"schema_version": e.SchemaVersion,
	}
	if e.TraceID != "" {
		headers["trace_id"] = e.TraceID
	}
	return &ProducerMessage{
		Topic:     topic,
		Key:       []byte(key),
		Value:     val,
		Headers:   headers,
		Timestamp: e.Timestamp,
	}, nil
}

//Personal.AI order the ending
