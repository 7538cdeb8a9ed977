package model

import (
	"time"

	"staybook/pkg/jsonv"
)

// PriceCheck is the re-verified price shown on the preview step.
type PriceCheck struct {
	FinalRate    *float64 `json:"finalRate"`
	PriceChanged bool     `json:"priceChanged"`
	// Fallback is set when the price check failed and FinalRate is the last
	// known rate from the rates step.
	Fallback bool `json:"fallback"`
}

// BookingSummary is one row of the bookings list.
type BookingSummary struct {
	BookingID string `json:"bookingId,omitempty"`
	HotelName string `json:"hotelName"`
	CheckIn   string `json:"checkIn"`
	CheckOut  string `json:"checkOut"`
	Status    string `json:"status"`
}

// BookedRoom is one room line of a booking detail.
type BookedRoom struct {
	Name string      `json:"name"`
	Rate jsonv.Value `json:"rate"`
}

// BookedGuest is one guest line of a booking detail.
type BookedGuest struct {
	Title         string `json:"title,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Email         string `json:"email,omitempty"`
	ISDCode       string `json:"isdCode,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
}

// BookingDetail is the normalized read of one booking. TotalAmount keeps the
// server's value, which may be a number or preformatted text.
type BookingDetail struct {
	BookingCode string        `json:"bookingCode"`
	HotelName   string        `json:"hotelName"`
	CheckIn     string        `json:"checkIn,omitempty"`
	CheckOut    string        `json:"checkOut,omitempty"`
	TotalAmount jsonv.Value   `json:"totalAmount"`
	Status      string        `json:"status"`
	Rooms       []BookedRoom  `json:"rooms"`
	Guests      []BookedGuest `json:"guests"`
}

// Confirmation is the outcome of a successful book call. Warning carries a
// detail fetch failure; the booking code stays valid.
type Confirmation struct {
	BookingCode string         `json:"bookingCode"`
	Detail      *BookingDetail `json:"detail"`
	Warning     string         `json:"warning,omitempty"`
}

// JournalEntry is the locally persisted record of a confirmed booking.
type JournalEntry struct {
	ID          string    `json:"id" bson:"_id"`
	BookingCode string    `json:"bookingCode" bson:"booking_code"`
	HotelID     string    `json:"hotelId" bson:"hotel_id"`
	HotelName   string    `json:"hotelName" bson:"hotel_name"`
	TraceID     string    `json:"traceId" bson:"trace_id"`
	OptionID    string    `json:"optionId" bson:"option_id"`
	CheckIn     string    `json:"checkIn" bson:"check_in"`
	CheckOut    string    `json:"checkOut" bson:"check_out"`
	FinalRate   *float64  `json:"finalRate,omitempty" bson:"final_rate,omitempty"`
	Rooms       int       `json:"rooms" bson:"rooms"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}
