package flow

import (
	"errors"

	"staybook/internal/booking/validator"
	"staybook/internal/rates"
	"staybook/pkg/client"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
)

const MsgUnknownOption = "Please select one of the available rates."

// SelectOption moves from the rates step to guest details with the chosen
// option. The model's trace id replaces the search trace id when it has one.
func (c Context) SelectOption(m *rates.Model, optionID string) (Context, error) {
	if err := c.Validate(StepDetail); err != nil {
		return c, err
	}
	opt, ok := m.Option(optionID)
	if !ok {
		return c, apperrors.InvalidInput(MsgUnknownOption)
	}

	next := c.clone()
	if m.TraceID != "" {
		next.TraceID = m.TraceID
	}
	next.OptionID = opt.OptionID
	next.RecommendationID = opt.RecommendationID
	next.ItineraryCode = m.ItineraryCode
	next.FinalRate = opt.FinalRate
	next.RoomIDs = m.RoomIDs(optionID)
	next.Guests, next.SpecialRequests, next.BookingCode = nil, nil, ""

	if err := next.Validate(StepGuestDetails); err != nil {
		return c, err
	}
	return next, nil
}

// BlankGuests is one empty record per selected room.
func (c Context) BlankGuests() []model.GuestRecord {
	out := make([]model.GuestRecord, len(c.RoomIDs))
	for i := range out {
		out[i] = model.NewGuestRecord()
	}
	return out
}

// SubmitGuests validates one record per room and moves to the preview step.
// Failures are VALIDATION_ERROR with one detail per offending field.
func (c Context) SubmitGuests(v *validator.BookingValidator, guests []model.GuestRecord, specialRequests string, rules model.GuestRules) (Context, error) {
	if err := c.Validate(StepGuestDetails); err != nil {
		return c, err
	}

	clean := sanitizer.Guests(guests)
	if err := v.ValidateGuests(clean, len(c.RoomIDs), rules); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return c, apperrors.Validation(validator.MsgGuestFields, verrs.Details())
		}
		return c, err
	}

	next := c.clone()
	next.Guests = make([]model.GuestRecord, len(c.RoomIDs))
	for i := range next.Guests {
		g := clean[i]
		g.Type = model.GuestTypeAdult
		g.IsLeadGuest = true
		next.Guests[i] = g
	}
	next.SpecialRequests = sanitizer.SpecialRequests(specialRequests)
	return next, nil
}

func (c Context) PriceCheckRequest() client.PriceCheckRequest {
	return client.PriceCheckRequest{
		TraceID:          c.TraceID,
		OptionID:         c.OptionID,
		HotelID:          c.HotelID,
		RecommendationID: c.RecommendationID,
	}
}

func (c Context) GuestRulesRequest() client.GuestRulesRequest {
	return client.GuestRulesRequest{
		TraceID:  c.TraceID,
		OptionID: c.OptionID,
		HotelID:  c.HotelID,
	}
}

// BookRequest pairs each room with its guest, reusing the first guest when a
// room has none.
func (c Context) BookRequest() client.BookRequest {
	rooms := make([]client.BookRoom, 0, len(c.RoomIDs))
	for i, roomID := range c.RoomIDs {
		var guest model.GuestRecord
		switch {
		case i < len(c.Guests):
			guest = c.Guests[i]
		case len(c.Guests) > 0:
			guest = c.Guests[0]
		}
		rooms = append(rooms, client.BookRoom{RoomID: roomID, Guests: []model.GuestRecord{guest}})
	}
	return client.BookRequest{
		TraceID:          c.TraceID,
		OptionID:         c.OptionID,
		HotelID:          c.HotelID,
		SpecialRequests:  c.SpecialRequests,
		RoomDetails:      rooms,
		RecommendationID: c.RecommendationID,
	}
}
