// Package flow holds the booking flow state threaded through the steps from
// search to confirmation. A Context is a value: every transition returns a
// new one and leaves the receiver untouched.
package flow

import (
	"fmt"

	"staybook/internal/booking/validator"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
)

type Step int

const (
	StepSearch Step = iota
	StepResults
	StepDetail
	StepGuestDetails
	StepPreview
	StepConfirmation
)

var stepNames = map[Step]string{
	StepSearch:       "search",
	StepResults:      "results",
	StepDetail:       "detail",
	StepGuestDetails: "guest_details",
	StepPreview:      "preview",
	StepConfirmation: "confirmation",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

const (
	MsgMissingLocation = "Missing location. Please search from the home page."
	MsgMissingSearch   = "Missing search context. Please search again."
	MsgMissingBooking  = "Missing booking context."
	MsgNoRoom          = validator.MsgNoRoom
	MsgMissingGuests   = "Missing booking data. Please start from guest details."
	MsgNoBooking       = "No booking data. You may have arrived here directly."
)

type Context struct {
	CheckIn    string   `json:"checkIn,omitempty"`
	CheckOut   string   `json:"checkOut,omitempty"`
	Adults     int      `json:"adults,omitempty"`
	ChildAges  []int    `json:"childAges,omitempty"`
	LocationID string   `json:"locationId,omitempty"`
	HotelIDs   []string `json:"hotelIds,omitempty"`

	TraceID          string   `json:"traceId,omitempty"`
	HotelID          string   `json:"hotelId,omitempty"`
	OptionID         string   `json:"optionId,omitempty"`
	RecommendationID string   `json:"recommendationId,omitempty"`
	ItineraryCode    string   `json:"itineraryCode,omitempty"`
	FinalRate        *float64 `json:"finalRate,omitempty"`
	RoomIDs          []string `json:"roomIds,omitempty"`

	Guests          []model.GuestRecord `json:"guests,omitempty"`
	SpecialRequests *string             `json:"specialRequests,omitempty"`

	BookingCode string `json:"bookingCode,omitempty"`
}

// clone copies the slices so transitions never share backing arrays.
func (c Context) clone() Context {
	c.ChildAges = append([]int(nil), c.ChildAges...)
	c.HotelIDs = append([]string(nil), c.HotelIDs...)
	c.RoomIDs = append([]string(nil), c.RoomIDs...)
	c.Guests = append([]model.GuestRecord(nil), c.Guests...)
	if c.FinalRate != nil {
		rate := *c.FinalRate
		c.FinalRate = &rate
	}
	if c.SpecialRequests != nil {
		s := *c.SpecialRequests
		c.SpecialRequests = &s
	}
	return c
}

// Validate reports whether the context carries what entering step needs.
// Each step requires everything its predecessors do.
func (c Context) Validate(step Step) error {
	switch step {
	case StepSearch:
		return nil
	case StepResults:
		if c.LocationID == "" && len(c.HotelIDs) == 0 {
			return apperrors.MissingContext(MsgMissingLocation)
		}
		return nil
	case StepDetail:
		if c.TraceID == "" || c.HotelID == "" {
			return apperrors.MissingContext(MsgMissingSearch)
		}
		return nil
	case StepGuestDetails:
		if c.TraceID == "" || c.OptionID == "" || c.HotelID == "" {
			return apperrors.MissingContext(MsgMissingBooking)
		}
		if len(c.RoomIDs) == 0 {
			return apperrors.MissingContext(MsgNoRoom)
		}
		return nil
	case StepPreview:
		if err := c.Validate(StepGuestDetails); err != nil {
			return err
		}
		if len(c.Guests) == 0 {
			return apperrors.MissingContext(MsgMissingGuests)
		}
		return nil
	case StepConfirmation:
		if c.BookingCode == "" {
			return apperrors.MissingContext(MsgNoBooking)
		}
		return nil
	}
	return apperrors.InvalidInput(fmt.Sprintf("unknown step %s", step))
}

// NewSearch starts a flow from a validated search query.
func NewSearch(q model.SearchQuery) Context {
	c := Context{
		CheckIn:    q.CheckIn,
		CheckOut:   q.CheckOut,
		Adults:     q.Occupancy.Adults,
		ChildAges:  q.Occupancy.ChildAges,
		LocationID: q.LocationID,
		HotelIDs:   q.HotelIDs,
	}
	return c.clone()
}

// Query rebuilds the search query the flow started from.
func (c Context) Query() model.SearchQuery {
	c = c.clone()
	return model.SearchQuery{
		CheckIn:    c.CheckIn,
		CheckOut:   c.CheckOut,
		Occupancy:  model.Occupancy{Adults: c.Adults, ChildAges: c.ChildAges},
		LocationID: c.LocationID,
		HotelIDs:   c.HotelIDs,
	}
}

// OpenHotel moves from results to one hotel's rates.
func (c Context) OpenHotel(traceID, hotelID string) (Context, error) {
	next := c.clone()
	next.TraceID = traceID
	next.HotelID = hotelID
	next.OptionID, next.RecommendationID, next.ItineraryCode = "", "", ""
	next.FinalRate, next.RoomIDs, next.Guests, next.SpecialRequests = nil, nil, nil, nil
	next.BookingCode = ""
	if err := next.Validate(StepDetail); err != nil {
		return c, err
	}
	return next, nil
}

// Confirm records the booking reference after a successful book call.
func (c Context) Confirm(bookingCode string) (Context, error) {
	if bookingCode == "" {
		return c, apperrors.Upstream("Booking response did not include a reference.", nil)
	}
	next := c.clone()
	next.BookingCode = bookingCode
	return next, nil
}
