package model

const (
	GuestTypeAdult = "Adult"
	DefaultTitle   = "Mr"
	DefaultISDCode = "+91"
)

// Titles offered on the guest form.
var Titles = []string{"Mr", "Mrs", "Ms", "Miss", "Dr"}

// GuestRecord is the lead guest for one room.
type GuestRecord struct {
	Type          string `json:"type"`
	Title         string `json:"title" validate:"omitempty,oneof=Mr Mrs Ms Miss Dr"`
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Email         string `json:"email" validate:"required"`
	ISDCode       string `json:"isdCode"`
	ContactNumber string `json:"contactNumber" validate:"required"`
	PANNumber     string `json:"panNumber,omitempty"`
	IsLeadGuest   bool   `json:"isLeadGuest"`
}

// NewGuestRecord is the empty record a room starts with.
func NewGuestRecord() GuestRecord {
	return GuestRecord{
		Type:        GuestTypeAdult,
		Title:       DefaultTitle,
		ISDCode:     DefaultISDCode,
		IsLeadGuest: true,
	}
}

// GuestRules are the guest-field requirements for one option.
type GuestRules struct {
	PANMandatory bool `json:"panMandatory"`
}
