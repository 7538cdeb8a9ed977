package flow

import (
	"net/url"
	"strconv"
	"strings"

	"staybook/internal/booking/validator"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
)

// Query parameter names carried between steps.
const (
	ParamTraceID          = "traceId"
	ParamOptionID         = "optionId"
	ParamRoomIDs          = "roomIds"
	ParamRoomID           = "roomId"
	ParamCheckIn          = "checkIn"
	ParamCheckOut         = "checkOut"
	ParamFinalRate        = "finalRate"
	ParamRecommendationID = "recommendationId"
	ParamItineraryCode    = "itineraryCode"
	ParamAdults           = "adults"
	ParamChildren         = "children"
	ParamChildAges        = "childAges"
	ParamLocationID       = "locationId"
	ParamHotelIDs         = "hotelIds"
	ParamHotelID          = "hotelId"
)

// Encode writes the navigation part of the context as query parameters.
// Guests, special requests and the booking code travel in request bodies.
func (c Context) Encode() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set(ParamCheckIn, c.CheckIn)
	set(ParamCheckOut, c.CheckOut)
	if c.Adults > 0 {
		q.Set(ParamAdults, strconv.Itoa(c.Adults))
	}
	if len(c.ChildAges) > 0 {
		q.Set(ParamChildren, strconv.Itoa(len(c.ChildAges)))
		ages := make([]string, len(c.ChildAges))
		for i, a := range c.ChildAges {
			ages[i] = strconv.Itoa(a)
		}
		q.Set(ParamChildAges, strings.Join(ages, ","))
	}
	set(ParamLocationID, c.LocationID)
	set(ParamHotelIDs, strings.Join(c.HotelIDs, ","))
	set(ParamTraceID, c.TraceID)
	set(ParamHotelID, c.HotelID)
	set(ParamOptionID, c.OptionID)
	set(ParamRecommendationID, c.RecommendationID)
	set(ParamItineraryCode, c.ItineraryCode)
	if c.FinalRate != nil {
		q.Set(ParamFinalRate, strconv.FormatFloat(*c.FinalRate, 'f', -1, 64))
	}
	set(ParamRoomIDs, strings.Join(c.RoomIDs, ","))
	return q
}

// Decode reads a context back from query parameters. Malformed numbers are
// dropped rather than rejected; Validate decides whether what is left is
// enough for a step. A lone roomId is accepted when roomIds is absent.
func Decode(q url.Values) Context {
	c := Context{
		CheckIn:          strings.TrimSpace(q.Get(ParamCheckIn)),
		CheckOut:         strings.TrimSpace(q.Get(ParamCheckOut)),
		LocationID:       strings.TrimSpace(q.Get(ParamLocationID)),
		HotelIDs:         sanitizer.SplitList(q.Get(ParamHotelIDs)),
		TraceID:          strings.TrimSpace(q.Get(ParamTraceID)),
		HotelID:          strings.TrimSpace(q.Get(ParamHotelID)),
		OptionID:         strings.TrimSpace(q.Get(ParamOptionID)),
		RecommendationID: strings.TrimSpace(q.Get(ParamRecommendationID)),
		ItineraryCode:    strings.TrimSpace(q.Get(ParamItineraryCode)),
		RoomIDs:          sanitizer.SplitList(q.Get(ParamRoomIDs)),
	}
	if len(c.RoomIDs) == 0 {
		if id := strings.TrimSpace(q.Get(ParamRoomID)); id != "" {
			c.RoomIDs = []string{id}
		}
	}
	if n, err := strconv.Atoi(q.Get(ParamAdults)); err == nil {
		c.Adults = n
	}
	for _, a := range sanitizer.SplitList(q.Get(ParamChildAges)) {
		if age, err := strconv.Atoi(a); err == nil {
			c.ChildAges = append(c.ChildAges, age)
		}
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(q.Get(ParamFinalRate)), 64); err == nil {
		c.FinalRate = &f
	}
	return c
}

// SearchQueryFor builds the search query for a picked location. Hotels are
// searched by id; anything else by its reference id, falling back to its id.
func SearchQueryFor(loc *model.Location, checkIn, checkOut string, occupancy model.Occupancy) (model.SearchQuery, error) {
	q := model.SearchQuery{CheckIn: checkIn, CheckOut: checkOut, Occupancy: occupancy}
	if loc == nil || (loc.ID == "" && loc.ReferenceID == "") {
		return q, apperrors.InvalidInput(validator.MsgSelectLocation)
	}
	if loc.IsHotel() && loc.ID != "" {
		q.HotelIDs = []string{loc.ID}
		return q, nil
	}
	q.LocationID = loc.ReferenceID
	if q.LocationID == "" {
		q.LocationID = loc.ID
	}
	return q, nil
}
