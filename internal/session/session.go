// Package session drives the booking flow for a single interactive user. It
// keeps the current flow context and one last-request-wins loader per step,
// so a slow response for a step the user already left never lands.
package session

import (
	"context"
	"net/url"
	"sync"
	"time"

	"staybook/internal/autocomplete"
	"staybook/internal/booking/service"
	"staybook/internal/flow"
	"staybook/internal/rates"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

type hotelKey struct {
	TraceID string
	HotelID string
}

type Session struct {
	svc service.BookingService
	log *logger.Logger

	mu    sync.Mutex
	ctx   flow.Context
	step  flow.Step
	rates *rates.Model
	rules model.GuestRules

	locations *autocomplete.Autocomplete
	results   *flow.Loader[string, *service.SearchPage]
	detail    *flow.Loader[hotelKey, *rates.Model]
	booking   *flow.Loader[string, *model.BookingDetail]
}

func New(svc service.BookingService, debounce time.Duration, log *logger.Logger, opts ...autocomplete.Option) *Session {
	s := &Session{svc: svc, log: log, step: flow.StepSearch}
	s.locations = autocomplete.New(svc.Locations, debounce, log, opts...)
	s.results = flow.NewLoader[string, *service.SearchPage](s.fetchResults)
	s.detail = flow.NewLoader[hotelKey, *rates.Model](s.fetchRates)
	s.booking = flow.NewLoader[string, *model.BookingDetail](svc.BookingDetail)
	return s
}

// Restore resumes a flow from its URL query.
func (s *Session) Restore(q url.Values, step flow.Step) error {
	c := flow.Decode(q)
	if err := c.Validate(step); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx, s.step = c, step
	return nil
}

func (s *Session) Context() flow.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

func (s *Session) Step() flow.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// URL is the query string that resumes the current step.
func (s *Session) URL() string {
	return s.Context().Encode().Encode()
}

// Suggest feeds one keystroke to the location box.
func (s *Session) Suggest(query string) {
	s.locations.Type(query)
}

// Suggestions waits for the location box to settle.
func (s *Session) Suggestions(ctx context.Context) (autocomplete.Snapshot, error) {
	return s.locations.Wait(ctx)
}

func (s *Session) SelectLocation(loc model.Location) {
	s.locations.Select(loc)
}

// Search runs the search for the selected location.
func (s *Session) Search(ctx context.Context, checkIn, checkOut string, occupancy model.Occupancy) (*service.SearchPage, error) {
	q, err := flow.SearchQueryFor(s.locations.Snapshot().Selected, checkIn, checkOut, occupancy)
	if err != nil {
		return nil, err
	}
	return s.SearchQuery(ctx, q)
}

// SearchQuery runs a search for an already built query.
func (s *Session) SearchQuery(ctx context.Context, q model.SearchQuery) (*service.SearchPage, error) {
	page, err := s.results.Load(ctx, flow.NewSearch(q).Encode().Encode())
	if err != nil {
		return nil, err
	}
	c := page.Context
	c.TraceID = page.TraceID

	s.mu.Lock()
	s.ctx, s.step = c, flow.StepResults
	s.rates = nil
	s.mu.Unlock()
	return page, nil
}

func (s *Session) fetchResults(ctx context.Context, key string) (*service.SearchPage, error) {
	q, err := url.ParseQuery(key)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	return s.svc.Search(ctx, flow.Decode(q).Query())
}

// OpenHotel loads the rate options of one hotel from the current results.
// Opening another hotel before this one answers abandons it.
func (s *Session) OpenHotel(ctx context.Context, traceID, hotelID string) (rates.View, error) {
	m, err := s.detail.Load(ctx, hotelKey{TraceID: traceID, HotelID: hotelID})
	if err != nil {
		return rates.View{}, err
	}
	return m.View(hotelID), nil
}

func (s *Session) fetchRates(ctx context.Context, key hotelKey) (*rates.Model, error) {
	c, err := s.Context().OpenHotel(key.TraceID, key.HotelID)
	if err != nil {
		return nil, err
	}
	m, err := s.svc.Rates(ctx, c)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Only the most recent OpenHotel commits.
	if st := s.detail.State(); st.Key != key {
		return m, nil
	}
	s.ctx, s.step, s.rates = c, flow.StepDetail, m
	return m, nil
}

// Select picks a rate option from the loaded hotel.
func (s *Session) Select(ctx context.Context, optionID string) ([]model.GuestRecord, model.GuestRules, error) {
	s.mu.Lock()
	m, c := s.rates, s.ctx
	s.mu.Unlock()
	if m == nil {
		return nil, model.GuestRules{}, apperrors.MissingContext(flow.MsgMissingSearch)
	}

	next, err := c.SelectOption(m, optionID)
	if err != nil {
		return nil, model.GuestRules{}, err
	}

	rules, err := s.svc.GuestRules(ctx, next)
	if err != nil {
		s.log.Warn("Guest rules unavailable", "trace_id", next.TraceID, "option_id", next.OptionID, "error", err)
		rules = model.GuestRules{}
	}

	s.mu.Lock()
	s.ctx, s.step, s.rules = next, flow.StepGuestDetails, rules
	s.mu.Unlock()
	return next.BlankGuests(), rules, nil
}

// Preview submits guest records and re-checks the price.
func (s *Session) Preview(ctx context.Context, guests []model.GuestRecord, specialRequests string) (*service.Preview, error) {
	preview, err := s.svc.Preview(ctx, s.Context(), guests, specialRequests)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.ctx, s.step = preview.Context, flow.StepPreview
	s.mu.Unlock()
	return preview, nil
}

func (s *Session) Book(ctx context.Context) (*model.Confirmation, error) {
	next, conf, err := s.svc.Book(ctx, s.Context())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.ctx, s.step = next, flow.StepConfirmation
	s.mu.Unlock()
	return conf, nil
}

func (s *Session) Bookings(ctx context.Context, page, pageSize int) ([]model.BookingSummary, error) {
	return s.svc.Bookings(ctx, page, pageSize)
}

// BookingDetail loads one booking. A newer call supersedes an older one.
func (s *Session) BookingDetail(ctx context.Context, code string) (*model.BookingDetail, error) {
	return s.booking.Load(ctx, code)
}

// Close abandons every pending load.
func (s *Session) Close() {
	s.locations.Close()
	s.results.Close()
	s.detail.Close()
	s.booking.Close()
}
