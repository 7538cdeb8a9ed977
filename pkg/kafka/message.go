package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is one event ready to publish.
type Message struct {
	Key       string            // Partition key (booking code)
	Value     []byte            // JSON payload
	Headers   map[string]string
	Topic     string
	Timestamp time.Time
}

const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderCorrelationID = "correlation-id"
	HeaderSchemaVersion = "schema-version"
	HeaderSource        = "source"
	HeaderTimestamp     = "timestamp"
)

// MessageBuilder provides a fluent interface for building messages
type MessageBuilder struct {
	msg Message
	err error
}

func NewMessage() *MessageBuilder {
	return &MessageBuilder{
		msg: Message{
			Headers:   make(map[string]string),
			Timestamp: time.Now().UTC(),
		},
	}
}

func (mb *MessageBuilder) WithKey(key string) *MessageBuilder {
	mb.msg.Key = key
	return mb
}

// WithValue JSON-encodes value. An encoding failure is reported by Build.
func (mb *MessageBuilder) WithValue(value any) *MessageBuilder {
	data, err := json.Marshal(value)
	if err != nil {
		mb.err = fmt.Errorf("encode message value: %w", err)
		return mb
	}
	mb.msg.Value = data
	return mb
}

func (mb *MessageBuilder) WithHeader(key, value string) *MessageBuilder {
	mb.msg.Headers[key] = value
	return mb
}

func (mb *MessageBuilder) WithEventType(eventType string) *MessageBuilder {
	return mb.WithHeader(HeaderEventType, eventType)
}

func (mb *MessageBuilder) WithCorrelationID(correlationID string) *MessageBuilder {
	if correlationID == "" {
		return mb
	}
	return mb.WithHeader(HeaderCorrelationID, correlationID)
}

func (mb *MessageBuilder) WithSchemaVersion(version string) *MessageBuilder {
	return mb.WithHeader(HeaderSchemaVersion, version)
}

func (mb *MessageBuilder) WithSource(source string) *MessageBuilder {
	return mb.WithHeader(HeaderSource, source)
}

// Build fills in the event id and timestamp headers when they are unset.
func (mb *MessageBuilder) Build() (Message, error) {
	if mb.err != nil {
		return Message{}, mb.err
	}
	if mb.msg.Headers[HeaderEventID] == "" {
		mb.msg.Headers[HeaderEventID] = uuid.New().String()
	}
	if mb.msg.Headers[HeaderTimestamp] == "" {
		mb.msg.Headers[HeaderTimestamp] = mb.msg.Timestamp.Format(time.RFC3339)
	}
	return mb.msg, nil
}

func (m *Message) DecodeValue(v any) error {
	return json.Unmarshal(m.Value, v)
}

func (m *Message) GetEventID() string {
	return m.Headers[HeaderEventID]
}

func (m *Message) GetCorrelationID() string {
	return m.Headers[HeaderCorrelationID]
}
