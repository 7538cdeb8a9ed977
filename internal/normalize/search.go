package normalize

import (
	"staybook/pkg/jsonv"
	"staybook/pkg/model"
)

var hotelList = Chain(
	Under("results", Chain(
		Envelope("data", "hotels", "items", "searchResults"),
		FirstPage(Envelope("data")),
	)),
	Envelope("data", "hotels"),
	BareArray,
)

// SearchResults normalizes an availability response. Hotels without an id
// are dropped.
func SearchResults(raw jsonv.Value) model.SearchResults {
	out := model.SearchResults{
		TraceID: Text(raw, "", "results.traceId", "results.0.traceId", "traceId", "searchTraceId"),
		Hotels:  []model.HotelSummary{},
	}

	for _, item := range List(raw, hotelList) {
		if h := Hotel(item); h != nil {
			out.Hotels = append(out.Hotels, *h)
		}
	}

	if n, ok := raw.Pick("results.totalCount", "results.total", "totalCount", "total").Number(); ok {
		total := int64(n)
		out.TotalCount = &total
	}
	return out
}

// Hotel normalizes one result row; nil when it is not an object or has no id.
func Hotel(raw jsonv.Value) *model.HotelSummary {
	if !raw.IsObject() {
		return nil
	}
	id := Text(raw, "", "id", "hotelId", "code")
	if id == "" {
		return nil
	}
	return &model.HotelSummary{
		ID:       id,
		Name:     Text(raw, "", "hotelName", "name", "title"),
		FromRate: raw.Pick("availability.rate.finalRate", "rate.finalRate", "finalRate", "price", "minRate").NumberPtr(),
	}
}
