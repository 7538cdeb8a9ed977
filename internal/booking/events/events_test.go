package events

import (
	"context"
	"testing"
	"time"

	"staybook/pkg/kafka"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

type mockProducer struct {
	published []kafka.Message
}

func (m *mockProducer) Publish(ctx context.Context, msg kafka.Message) error {
	m.published = append(m.published, msg)
	return nil
}

func (m *mockProducer) Close() error { return nil }

func TestPublishBookingConfirmed(t *testing.T) {
	prod := &mockProducer{}
	p := NewKafkaPublisher(prod, "staybook-gateway", logger.Discard())

	rate := 5000.0
	event := NewBookingConfirmed(model.JournalEntry{
		BookingCode: "BK-1",
		HotelID:     "H1",
		TraceID:     "T-1",
		OptionID:    "opt-1",
		FinalRate:   &rate,
		Rooms:       2,
		CreatedAt:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	})
	if err := p.PublishBookingConfirmed(context.Background(), event); err != nil {
		t.Fatal(err)
	}

	if len(prod.published) != 1 {
		t.Fatalf("published %d messages", len(prod.published))
	}
	msg := prod.published[0]
	if msg.Key != "BK-1" || msg.GetCorrelationID() != "T-1" {
		t.Errorf("message = %+v", msg)
	}
	if msg.Headers[kafka.HeaderEventType] != EventBookingConfirmed || msg.Headers[kafka.HeaderSource] != "staybook-gateway" {
		t.Errorf("headers = %v", msg.Headers)
	}

	var decoded BookingConfirmed
	if err := msg.DecodeValue(&decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.BookingCode != "BK-1" || decoded.Rooms != 2 || decoded.FinalRate == nil || *decoded.FinalRate != 5000 {
		t.Errorf("decoded = %+v", decoded)
	}
}
