package rates

import (
	"strings"

	"staybook/internal/format"
	"staybook/internal/normalize"
	"staybook/pkg/jsonv"
	"staybook/pkg/model"
)

// RoomContent resolves the static room description for an option from its
// first occupancy. The standardized room shadows the supplier room field by
// field; unknown rooms get placeholder content.
func (m *Model) RoomContent(optionID string) model.RoomContent {
	e := m.entries[optionID]

	occupancies := e.lookup("occupancies")
	first := occupancies.At(0)

	room := m.rooms[normalize.Text(first, "", "roomId", "room_id")]
	std, ok := m.stdRooms[normalize.Text(first, "", "stdRoomId", "std_room_id")]
	if !ok {
		std = room
	}

	content := model.RoomContent{
		Name:          pickFrom(DefaultRoomName, []jsonv.Value{std, room, std, room}, []string{"name", "name", "type", "type"}),
		ImageURL:      imageURL(std, room),
		AdultsCount:   count(DefaultAdults, first.Get("numOfAdults"), e.rate.Get("numOfAdults")),
		ChildrenCount: count(0, first.Get("numOfChildren"), e.rate.Get("numOfChildren")),
		MaxGuests:     pickFrom(DefaultMaxGuests, []jsonv.Value{std, room}, []string{"maxGuestAllowed", "maxGuestAllowed"}),
		FacilityNames: facilityNames(std, room),
	}
	if strings.TrimSpace(content.Name) == "" {
		content.Name = DefaultRoomName
	}
	return content
}

// pickFrom reads keys[i] from sources[i] in turn.
func pickFrom(fallback string, sources []jsonv.Value, keys []string) string {
	for i, src := range sources {
		if v := src.Get(keys[i]); v.Present() {
			return v.TextOr(fallback)
		}
	}
	return fallback
}

func imageURL(rooms ...jsonv.Value) string {
	for _, r := range rooms {
		if u := normalize.Text(r, "", "images.0.links.0.url", "images.0.url"); u != "" {
			return u
		}
	}
	return ""
}

func count(fallback int, candidates ...jsonv.Value) int {
	for _, c := range candidates {
		if !c.Present() {
			continue
		}
		if n, ok := c.Number(); ok {
			return int(n)
		}
		return fallback
	}
	return fallback
}

func facilityNames(std, room jsonv.Value) []string {
	facilities := std.Get("facilities")
	if !facilities.Present() {
		facilities = room.Get("facilities")
	}
	names := []string{}
	for _, f := range facilities.Items() {
		name := f.TextOr("")
		if !f.IsString() {
			name = normalize.Text(f, "", "name")
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Groups partitions options by trimmed room name in first-seen order. Every
// option lands in exactly one group.
func (m *Model) Groups() []model.RoomGroup {
	groups := []model.RoomGroup{}
	index := map[string]int{}
	for _, id := range m.ids {
		name := strings.TrimSpace(m.RoomContent(id).Name)
		if name == "" {
			name = DefaultRoomName
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, model.RoomGroup{RoomName: name})
		}
		groups[i].OptionIDs = append(groups[i].OptionIDs, id)
	}
	return groups
}

// OptionView is one selectable rate row.
type OptionView struct {
	model.RateOption
	PriceLabel string `json:"priceLabel"`
}

// GroupView is one room card.
type GroupView struct {
	RoomName  string            `json:"roomName"`
	Room      model.RoomContent `json:"room"`
	Occupancy string            `json:"occupancy"`
	Options   []OptionView      `json:"options"`
}

// View is the display-ready hotel detail.
type View struct {
	TraceID       string      `json:"traceId"`
	ItineraryCode string      `json:"itineraryCode,omitempty"`
	HotelID       string      `json:"hotelId"`
	Groups        []GroupView `json:"groups"`
	Message       string      `json:"message,omitempty"`
}

const NoRatesMessage = "No rates available for this hotel."

// View renders the model as room cards. The card content comes from the
// group's first option.
func (m *Model) View(hotelID string) View {
	v := View{
		TraceID:       m.TraceID,
		ItineraryCode: m.ItineraryCode,
		HotelID:       hotelID,
		Groups:        []GroupView{},
	}
	for _, g := range m.Groups() {
		room := m.RoomContent(g.OptionIDs[0])
		gv := GroupView{
			RoomName:  g.RoomName,
			Room:      room,
			Occupancy: format.Occupancy(room.AdultsCount, room.ChildrenCount),
			Options:   make([]OptionView, 0, len(g.OptionIDs)),
		}
		for _, id := range g.OptionIDs {
			opt, _ := m.Option(id)
			gv.Options = append(gv.Options, OptionView{
				RateOption: opt,
				PriceLabel: format.PriceOr(opt.FinalRate, format.PriceOnRequest),
			})
		}
		v.Groups = append(v.Groups, gv)
	}
	if len(v.Groups) == 0 {
		v.Message = NoRatesMessage
	}
	return v
}
