// Package events announces confirmed bookings to downstream consumers.
package events

import (
	"context"
	"time"

	"staybook/pkg/kafka"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	SchemaVersion         = "1"
)

type BookingConfirmed struct {
	BookingCode string    `json:"bookingCode"`
	HotelID     string    `json:"hotelId"`
	HotelName   string    `json:"hotelName,omitempty"`
	TraceID     string    `json:"traceId"`
	OptionID    string    `json:"optionId"`
	CheckIn     string    `json:"checkIn,omitempty"`
	CheckOut    string    `json:"checkOut,omitempty"`
	FinalRate   *float64  `json:"finalRate,omitempty"`
	Rooms       int       `json:"rooms"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// NewBookingConfirmed builds the event from a journal entry.
func NewBookingConfirmed(e model.JournalEntry) BookingConfirmed {
	return BookingConfirmed{
		BookingCode: e.BookingCode,
		HotelID:     e.HotelID,
		HotelName:   e.HotelName,
		TraceID:     e.TraceID,
		OptionID:    e.OptionID,
		CheckIn:     e.CheckIn,
		CheckOut:    e.CheckOut,
		FinalRate:   e.FinalRate,
		Rooms:       e.Rooms,
		ConfirmedAt: e.CreatedAt,
	}
}

type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, event BookingConfirmed) error
	Close() error
}

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	producer publisher
	source   string
	logger   *logger.Logger
}

func NewKafkaPublisher(producer publisher, source string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source, logger: log}
}

// PublishBookingConfirmed keys the event by booking code and correlates it
// with the search trace id.
func (p *KafkaPublisher) PublishBookingConfirmed(ctx context.Context, event BookingConfirmed) error {
	msg, err := kafka.NewMessage().
		WithKey(event.BookingCode).
		WithValue(event).
		WithEventType(EventBookingConfirmed).
		WithCorrelationID(event.TraceID).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishBookingConfirmed(context.Context, BookingConfirmed) error { return nil }
func (NopPublisher) Close() error                                                   { return nil }
