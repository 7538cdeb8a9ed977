package model

// RoomOccupancy links a rate to the room records used for display.
type RoomOccupancy struct {
	RoomID    string `json:"roomId,omitempty"`
	StdRoomID string `json:"stdRoomId,omitempty"`
	Adults    *int   `json:"adults,omitempty"`
	Children  *int   `json:"children,omitempty"`
}

// RateOption is one bookable, independently priced rate of a hotel.
type RateOption struct {
	OptionID            string          `json:"optionId"`
	RecommendationID    string          `json:"recommendationId,omitempty"`
	FinalRate           *float64        `json:"finalRate"`
	BoardBasis          string          `json:"boardBasis"`
	CancellationSummary string          `json:"cancellationSummary"`
	Occupancies         []RoomOccupancy `json:"occupancies"`

	// RoomID is the option's own room reference, used only when no
	// occupancy names a room.
	RoomID string `json:"-"`
}

// RoomContent is the static room description shown on a room card.
type RoomContent struct {
	Name          string   `json:"name"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	AdultsCount   int      `json:"adultsCount"`
	ChildrenCount int      `json:"childrenCount"`
	MaxGuests     string   `json:"maxGuests"`
	FacilityNames []string `json:"facilityNames"`
}

// RoomGroup is one room card holding every rate for that room type.
type RoomGroup struct {
	RoomName  string   `json:"roomName"`
	OptionIDs []string `json:"optionIds"`
}
