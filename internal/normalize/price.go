package normalize

import (
	"staybook/pkg/jsonv"
	"staybook/pkg/model"
)

// PriceCheck reads a re-verified price. known is the rate the shopper saw on
// the rates step and is used when the response carries no price.
func PriceCheck(raw jsonv.Value, known *float64) model.PriceCheck {
	out := model.PriceCheck{
		FinalRate:    raw.Pick("finalRate", "rate.finalRate", "results.rate.finalRate", "amount", "price").NumberPtr(),
		PriceChanged: raw.Get("priceChangeData").Present() || raw.Get("priceChanged").True(),
	}
	if out.FinalRate == nil {
		out.FinalRate = known
	}
	return out
}

// PriceCheckFallback is the degraded result when the price check failed
// but a rate is already known.
func PriceCheckFallback(known float64) model.PriceCheck {
	return model.PriceCheck{FinalRate: &known, Fallback: true}
}

var panKeys = []string{"IsPANMandatory", "isPANMandatory", "isPanMandatory", "panMandatory"}

// GuestRules reads the PAN requirement. Only a literal true counts.
func GuestRules(raw jsonv.Value) model.GuestRules {
	for _, scope := range []jsonv.Value{raw, raw.Get("data"), raw.Get("results")} {
		for _, k := range panKeys {
			if scope.Get(k).True() {
				return model.GuestRules{PANMandatory: true}
			}
		}
	}
	return model.GuestRules{}
}
