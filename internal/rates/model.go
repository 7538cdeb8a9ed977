// Package rates builds the bookable option model of one hotel from a
// rooms-and-rates payload and derives room content and room-type groups.
package rates

import (
	"strconv"
	"strings"

	"staybook/internal/normalize"
	"staybook/pkg/jsonv"
	"staybook/pkg/model"
)

const (
	DefaultRoomName  = "Room"
	DefaultMaxGuests = "—"
	DefaultAdults    = 2
	SeePolicies      = "See policies"
)

var telltaleKeys = []string{"rateId", "roomId", "amount", "finalRate", "recommendationId"}

// entry is one option. rate is where the price lives; option is the record
// the rate was found in and is missing for options built from rate blocks.
type entry struct {
	id               string
	recommendationID string
	rate             jsonv.Value
	option           jsonv.Value
}

// lookup reads key from the rate first, then the option.
func (e entry) lookup(keys ...string) jsonv.Value {
	for _, k := range keys {
		if v := e.rate.Get(k); v.Present() {
			return v
		}
		if v := e.option.Get(k); v.Present() {
			return v
		}
	}
	return jsonv.Value{}
}

type Model struct {
	TraceID       string
	ItineraryCode string

	ids      []string
	entries  map[string]entry
	rooms    map[string]jsonv.Value
	stdRooms map[string]jsonv.Value
}

func newModel() *Model {
	return &Model{
		ids:      []string{},
		entries:  map[string]entry{},
		rooms:    map[string]jsonv.Value{},
		stdRooms: map[string]jsonv.Value{},
	}
}

// put keeps the first position of a repeated id and the last value.
func (m *Model) put(e entry) {
	if _, ok := m.entries[e.id]; !ok {
		m.ids = append(m.ids, e.id)
	}
	m.entries[e.id] = e
}

func mergeTable(dst map[string]jsonv.Value, src jsonv.Value) {
	for _, f := range src.Fields() {
		dst[f.Key] = f.Value
	}
}

// Build reads a rooms-and-rates payload. traceID is the search trace id and
// is kept when the payload does not carry one. An unrecognised payload gives
// an empty model.
func Build(raw jsonv.Value, traceID string) *Model {
	results := raw.Get("results")
	firstResult := results
	if results.IsArray() && results.Len() > 0 {
		firstResult = results.At(0)
	}

	var m *Model
	if blocks := firstResult.Path("data", "0", "roomRate"); blocks.IsArray() && blocks.Len() > 0 {
		m = fromBlocks(blocks)
	} else {
		m = fromOptions(raw, firstResult)
	}

	m.TraceID = normalize.Text(firstResult, "", "traceId")
	if m.TraceID == "" {
		m.TraceID = normalize.Text(raw, traceID, "results.traceId", "traceId")
	}
	m.ItineraryCode = normalize.Text(firstResult, "", "itinerary.code")
	if m.ItineraryCode == "" {
		m.ItineraryCode = normalize.Text(raw, "", "itineraryCode", "itinerary.code", "itinerary_code", "code")
	}
	return m
}

func fromBlocks(blocks jsonv.Value) *Model {
	m := newModel()
	for _, block := range blocks.Items() {
		mergeTable(m.rooms, block.Get("rooms"))
		mergeTable(m.stdRooms, block.Get("standardizedRooms"))

		recs := block.Get("recommendations")
		for _, r := range rateFields(block.Get("rates")) {
			if occ := r.Value.Get("occupancies"); !occ.IsArray() || occ.Len() == 0 {
				continue
			}
			m.put(entry{
				id:               r.Key,
				recommendationID: recommendationFor(recs, r.Key),
				rate:             r.Value,
			})
		}
	}
	return m
}

// rateFields lists a block's rates keyed by rate id. A list of rates is keyed
// by each rate's own id, else its index.
func rateFields(rates jsonv.Value) []jsonv.Field {
	if rates.IsObject() {
		return rates.Fields()
	}
	var out []jsonv.Field
	for i, r := range rates.Items() {
		out = append(out, jsonv.Field{Key: normalize.Text(r, strconv.Itoa(i), "id", "rateId"), Value: r})
	}
	return out
}

// recommendationFor is the first recommendation, in document order, whose
// rates list names rateID.
func recommendationFor(recs jsonv.Value, rateID string) string {
	for _, rec := range recs.Fields() {
		for _, id := range rec.Value.Get("rates").Items() {
			if s, ok := id.Text(); ok && s == rateID {
				return rec.Key
			}
		}
	}
	return ""
}

var itemRateKeys = []string{"rates", "roomsAndRates", "roomRates", "rateOptions"}

func flattenItems(raw jsonv.Value) []jsonv.Value {
	var flat []jsonv.Value
	for _, item := range raw.Pick("items", "itinerary.items", "data.items").Items() {
		rates := item.First(itemRateKeys...)
		if !rates.Present() && item.IsArray() {
			rates = item
		}
		flat = append(flat, rates.Items()...)
	}
	return flat
}

// rawOptions finds options when there are no rate blocks. The result is
// either an array of options or an object keyed by option id.
func rawOptions(raw, firstResult jsonv.Value) jsonv.Value {
	direct := raw.Pick("results.options")
	if !direct.Present() {
		direct = firstResult.Get("options")
	}
	if !direct.Present() {
		direct = raw.Pick("options", "rateOptions", "recommendations", "data.options")
	}
	if direct.Truthy() {
		return direct
	}

	if flat := flattenItems(raw); len(flat) > 0 {
		return arrayOf(flat)
	}

	if arr := raw.Pick("roomsAndRates", "roomRates", "rates"); arr.IsArray() && arr.Len() > 0 {
		return arr
	}
	if raw.IsArray() {
		return raw
	}
	if items, ok := normalize.Telltale(telltaleKeys...)(raw); ok {
		return arrayOf(items)
	}
	return jsonv.Value{}
}

func arrayOf(items []jsonv.Value) jsonv.Value {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.Raw())
	}
	return jsonv.ParseString("[" + strings.Join(parts, ",") + "]")
}

func fromOptions(raw, firstResult jsonv.Value) *Model {
	m := newModel()

	opts := rawOptions(raw, firstResult)
	switch {
	case opts.IsArray():
		for i, opt := range opts.Items() {
			id := normalize.Text(opt, strconv.Itoa(i), "recommendationId", "optionId", "id", "rateId", "code")
			m.put(optionEntry(id, opt))
		}
	case opts.IsObject():
		for _, f := range opts.Fields() {
			m.put(optionEntry(f.Key, f.Value))
		}
	}

	mergeTable(m.rooms, firstTable(firstResult.Get("rooms"), raw.Pick("results.rooms"), raw.Get("rooms")))
	mergeTable(m.stdRooms, firstTable(firstResult.Get("standardizedRooms"), raw.Pick("results.standardizedRooms"), raw.Get("standardizedRooms")))
	return m
}

func optionEntry(id string, opt jsonv.Value) entry {
	rate := opt.Get("rate")
	if !rate.Present() {
		rate = opt
	}
	return entry{
		id:               id,
		recommendationID: normalize.Text(opt, "", "recommendationId"),
		rate:             rate,
		option:           opt,
	}
}

func firstTable(candidates ...jsonv.Value) jsonv.Value {
	for _, c := range candidates {
		if c.Present() {
			return c
		}
	}
	return jsonv.Value{}
}

// Empty reports a model with no bookable options.
func (m *Model) Empty() bool {
	return len(m.ids) == 0
}

// OptionIDs are in first-seen order.
func (m *Model) OptionIDs() []string {
	return append([]string(nil), m.ids...)
}

func (m *Model) Len() int {
	return len(m.ids)
}

func (m *Model) Has(optionID string) bool {
	_, ok := m.entries[optionID]
	return ok
}

// Option returns the normalized option for an id.
func (m *Model) Option(optionID string) (model.RateOption, bool) {
	e, ok := m.entries[optionID]
	if !ok {
		return model.RateOption{}, false
	}
	return e.toRateOption(), true
}

// Options lists every option in order.
func (m *Model) Options() []model.RateOption {
	out := make([]model.RateOption, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, m.entries[id].toRateOption())
	}
	return out
}

var finalRateKeys = []string{"finalRate", "amount", "price", "totalAmount", "sellingRate"}

func (e entry) toRateOption() model.RateOption {
	return model.RateOption{
		OptionID:            e.id,
		RecommendationID:    e.recommendationID,
		FinalRate:           e.lookup(finalRateKeys...).NumberPtr(),
		BoardBasis:          e.boardBasis(),
		CancellationSummary: e.cancellationSummary(),
		Occupancies:         e.occupancies(),
		RoomID:              normalize.Text(e.option, "", "roomId"),
	}
}

func (e entry) boardBasis() string {
	bb := e.lookup("boardBasis", "mealPlan")
	if bb.IsString() {
		return bb.TextOr("")
	}
	return normalize.Text(bb, "", "description", "type")
}

func (e entry) cancellationSummary() string {
	if r := e.rate.Get("refundability"); r.Truthy() {
		return r.TextOr(SeePolicies)
	}
	c := e.lookup("cancellationPolicies", "cancellation")
	if !c.Truthy() {
		return ""
	}
	if c.IsString() {
		return c.TextOr("")
	}
	return normalize.Text(c, SeePolicies, "0.description")
}

func (e entry) occupancyList() jsonv.Value {
	return e.lookup("occupancies", "roomAllocations")
}

func (e entry) occupancies() []model.RoomOccupancy {
	out := []model.RoomOccupancy{}
	for _, o := range e.occupancyList().Items() {
		occ := model.RoomOccupancy{
			RoomID:    normalize.Text(o, "", "roomId", "room_id"),
			StdRoomID: normalize.Text(o, "", "stdRoomId", "std_room_id"),
		}
		if n, ok := o.Get("numOfAdults").Number(); ok {
			a := int(n)
			occ.Adults = &a
		}
		if n, ok := o.Get("numOfChildren").Number(); ok {
			c := int(n)
			occ.Children = &c
		}
		out = append(out, occ)
	}
	return out
}

// RoomIDs are the rooms a selection books: every occupancy's room id, else
// the option's own room id.
func (m *Model) RoomIDs(optionID string) []string {
	e, ok := m.entries[optionID]
	if !ok {
		return nil
	}
	ids := []string{}
	for _, o := range e.occupancyList().Items() {
		if id := normalize.Text(o, "", "roomId", "room_id"); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) > 0 {
		return ids
	}
	if id := normalize.Text(e.option, "", "roomId"); id != "" {
		return []string{id}
	}
	return ids
}
