package normalize

import (
	"fmt"

	"staybook/pkg/jsonv"
	"staybook/pkg/model"
)

const (
	DefaultHotelName  = "Your hotel"
	DefaultStatus     = "Confirmed"
	DefaultListHotel  = "Hotel"
	DefaultListStatus = "—"
)

var bookingCodePaths = []string{
	"bookingCode", "bookingId", "reference", "confirmationNumber", "id",
	"result.bookingCode", "result.bookingId", "result.reference",
	"data.bookingCode", "data.bookingId", "data.reference", "data.id",
	"results.bookingCode", "results.bookingId",
	"results.0.bookingCode", "results.0.bookingId", "results.0.reference",
}

// BookingCode finds the server-assigned reference in a book response.
func BookingCode(raw jsonv.Value) string {
	return Text(raw, "", bookingCodePaths...)
}

// DetailEnvelope unwraps a booking-details response.
func DetailEnvelope(raw jsonv.Value) jsonv.Value {
	if inner := raw.First("data", "results"); inner.IsObject() || inner.IsArray() {
		return inner
	}
	return raw
}

// DetailFallback carries what the flow already knows when the detail
// response omits it.
type DetailFallback struct {
	Book     jsonv.Value
	CheckIn  string
	CheckOut string
}

// BookingDetail normalizes a booking-details response, falling back to the
// book response and flow values.
func BookingDetail(code string, raw jsonv.Value, fb DetailFallback) model.BookingDetail {
	d := DetailEnvelope(raw)

	detail := model.BookingDetail{
		BookingCode: code,
		HotelName:   Text(d, Text(fb.Book, DefaultHotelName, "hotelName", "hotel.name"), "hotel.name", "hotelName"),
		CheckIn:     Text(d, fb.CheckIn, "checkIn", "searchRequest.checkIn"),
		CheckOut:    Text(d, fb.CheckOut, "checkOut", "searchRequest.checkOut"),
		Status:      Text(d, DefaultStatus, "status", "bookingStatus"),
		Rooms:       []model.BookedRoom{},
		Guests:      []model.BookedGuest{},
	}

	detail.TotalAmount = d.Pick("totalAmount", "rate.finalRate", "amount", "finalRate")
	if !detail.TotalAmount.Present() {
		detail.TotalAmount = fb.Book.Pick("totalAmount", "finalRate")
	}

	rooms := d.First("roomDetails", "rooms", "roomDetailsList")
	for i, room := range rooms.Items() {
		detail.Rooms = append(detail.Rooms, model.BookedRoom{
			Name: Text(room, fmt.Sprintf("Room %d", i+1), "roomName", "roomType", "name"),
			Rate: room.Get("rate"),
		})
	}

	guests := d.First("guests", "guestDetails").Items()
	if guests == nil {
		for _, room := range d.Get("roomDetails").Items() {
			guests = append(guests, room.Get("guests").Items()...)
		}
	}
	for _, g := range guests {
		if !g.IsObject() {
			continue
		}
		detail.Guests = append(detail.Guests, model.BookedGuest{
			Title:         Text(g, "", "title"),
			FirstName:     Text(g, "", "firstName"),
			LastName:      Text(g, "", "lastName"),
			Email:         Text(g, "", "email"),
			ISDCode:       Text(g, "", "isdCode"),
			ContactNumber: Text(g, "", "contactNumber"),
		})
	}
	return detail
}

var bookingList = Chain(
	Envelope("data", "bookings"),
	BareArray,
)

// Bookings normalizes the past-bookings list.
func Bookings(raw jsonv.Value) []model.BookingSummary {
	out := []model.BookingSummary{}
	for _, item := range List(raw, bookingList) {
		if !item.IsObject() {
			continue
		}
		out = append(out, model.BookingSummary{
			BookingID: Text(item, "", "bookingId", "id"),
			HotelName: Text(item, DefaultListHotel, "hotelName", "hotel.name"),
			CheckIn:   Text(item, "", "checkIn", "checkInDate"),
			CheckOut:  Text(item, "", "checkOut", "checkOutDate"),
			Status:    Text(item, DefaultListStatus, "status", "bookingStatus"),
		})
	}
	return out
}
