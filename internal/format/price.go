// Package format renders prices and guest counts for display.
package format

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"staybook/pkg/jsonv"
)

const (
	CurrencySymbol = "₹"
	PriceOnRequest = "Price on request"
	ViewRates      = "View rates"
	Dash           = "—"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Price renders an amount as rupees with en-US grouping, e.g. ₹5,000.
func Price(amount float64) string {
	return CurrencySymbol + printer.Sprintf("%v", number.Decimal(amount, number.MaxFractionDigits(3)))
}

// PriceOr renders amount, or fallback when it is unknown.
func PriceOr(amount *float64, fallback string) string {
	if amount == nil {
		return fallback
	}
	return Price(*amount)
}

// FromRate is the search-result price label.
func FromRate(amount *float64) string {
	if amount == nil {
		return ViewRates
	}
	return "From " + Price(*amount)
}

// Amount renders a server amount that may be a number or preformatted text.
func Amount(v jsonv.Value) string {
	if v.IsNumber() {
		n, _ := v.Number()
		return Price(n)
	}
	return v.TextOr(Dash)
}

// Occupancy renders "2 adults, 1 child".
func Occupancy(adults, children int) string {
	out := fmt.Sprintf("%d adult%s", adults, plural(adults, "s"))
	if children > 0 {
		out += fmt.Sprintf(", %d child%s", children, plural(children, "ren"))
	}
	return out
}

func plural(n int, suffix string) string {
	if n == 1 {
		return ""
	}
	return suffix
}
