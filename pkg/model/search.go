package model

// Occupancy is the guest mix requested for one room.
type Occupancy struct {
	Adults    int   `json:"adults" validate:"min=1,max=5"`
	ChildAges []int `json:"childAges" validate:"dive,min=0,max=17"`
}

// SearchQuery is the submitted search form. Exactly one of LocationID and
// HotelIDs is set.
type SearchQuery struct {
	CheckIn    string    `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut   string    `json:"checkOut" validate:"required,datetime=2006-01-02"`
	Occupancy  Occupancy `json:"occupancy"`
	LocationID string    `json:"locationId,omitempty"`
	HotelIDs   []string  `json:"hotelIds,omitempty"`
}

// HotelSummary is one row of search results.
type HotelSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	FromRate *float64 `json:"fromRate"`
}

// SearchResults is the normalized availability response.
type SearchResults struct {
	TraceID    string         `json:"traceId"`
	Hotels     []HotelSummary `json:"hotels"`
	TotalCount *int64         `json:"totalCount,omitempty"`
}
