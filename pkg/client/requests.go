package client

import "staybook/pkg/model"

type SearchOccupancy struct {
	NumOfAdults int   `json:"numOfAdults"`
	ChildAges   []int `json:"childAges"`
}

// SearchFilter is sent with every field explicitly null or false.
type SearchFilter struct {
	Ratings        []int    `json:"ratings"`
	FreeBreakfast  bool     `json:"freeBreakfast"`
	IsRefundable   bool     `json:"isRefundable"`
	SubLocationIDs []string `json:"subLocationIds"`
	Facilities     []string `json:"facilities"`
	Type           *string  `json:"type"`
	Tags           []string `json:"tags"`
	ReviewRatings  []int    `json:"reviewRatings"`
}

type SearchRequest struct {
	CheckIn     string            `json:"checkIn"`
	CheckOut    string            `json:"checkOut"`
	Nationality string            `json:"nationality"`
	Currency    string            `json:"currency"`
	Culture     string            `json:"culture"`
	Occupancies []SearchOccupancy `json:"occupancies"`
	FilterBy    SearchFilter      `json:"filterBy"`
	Page        int               `json:"page"`
	TraceID     *string           `json:"traceId"`
	HotelIDs    []string          `json:"hotelIds,omitempty"`
	LocationID  string            `json:"locationId,omitempty"`
}

// Locale is the fixed market every search is priced in.
type Locale struct {
	Nationality string
	Currency    string
	Culture     string
}

func NewSearchRequest(q model.SearchQuery, locale Locale) SearchRequest {
	childAges := q.Occupancy.ChildAges
	if childAges == nil {
		childAges = []int{}
	}
	req := SearchRequest{
		CheckIn:     q.CheckIn,
		CheckOut:    q.CheckOut,
		Nationality: locale.Nationality,
		Currency:    locale.Currency,
		Culture:     locale.Culture,
		Occupancies: []SearchOccupancy{{NumOfAdults: q.Occupancy.Adults, ChildAges: childAges}},
		Page:        1,
	}
	if len(q.HotelIDs) > 0 {
		req.HotelIDs = q.HotelIDs
	} else {
		req.LocationID = q.LocationID
	}
	return req
}

type RoomsAndRatesRequest struct {
	TraceID string `json:"traceId"`
	HotelID string `json:"hotelId"`
}

type PriceCheckRequest struct {
	TraceID          string `json:"traceId"`
	OptionID         string `json:"optionId"`
	HotelID          string `json:"hotelId"`
	RecommendationID string `json:"recommendationId,omitempty"`
}

type GuestRulesRequest struct {
	TraceID  string `json:"traceId"`
	OptionID string `json:"optionId"`
	HotelID  string `json:"hotelId"`
}

type BookRoom struct {
	RoomID string              `json:"roomId"`
	Guests []model.GuestRecord `json:"guests"`
}

type BookRequest struct {
	TraceID          string     `json:"traceId"`
	OptionID         string     `json:"optionId"`
	HotelID          string     `json:"hotelId"`
	SpecialRequests  *string    `json:"specialRequests"`
	RoomDetails      []BookRoom `json:"roomDetails"`
	RecommendationID string     `json:"recommendationId,omitempty"`
}

type BookingsRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}
