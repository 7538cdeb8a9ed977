package model

// Location is one autocomplete suggestion. It only lives in the search form's
// selection state.
type Location struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	ReferenceID string `json:"referenceId"`
}

// LocationTypeHotel marks suggestions that point at a single property.
const LocationTypeHotel = "Hotel"

// IsHotel reports whether selecting this suggestion searches one hotel by id.
func (l *Location) IsHotel() bool {
	return l != nil && l.Type == LocationTypeHotel && l.ID != ""
}
