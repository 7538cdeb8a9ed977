package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staybook/internal/booking/cache"
	"staybook/internal/booking/events"
	"staybook/internal/booking/repository"
	"staybook/internal/booking/validator"
	"staybook/internal/flow"
	"staybook/internal/format"
	"staybook/internal/normalize"
	"staybook/internal/rates"
	"staybook/pkg/client"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/jsonv"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
)

const detailWarning = "Could not load full details: %s. Reference above is still valid."

// HotelRow is one search result ready to display.
type HotelRow struct {
	model.HotelSummary
	PriceLabel string `json:"priceLabel"`
}

type SearchPage struct {
	Context    flow.Context `json:"context"`
	TraceID    string       `json:"traceId"`
	Hotels     []HotelRow   `json:"hotels"`
	TotalCount *int64       `json:"totalCount,omitempty"`
}

type Preview struct {
	Context    flow.Context     `json:"context"`
	PriceCheck model.PriceCheck `json:"priceCheck"`
	PriceLabel string           `json:"priceLabel"`
	Rules      model.GuestRules `json:"guestRules"`
}

type BookingService interface {
	Locations(ctx context.Context, query string) ([]model.Location, error)
	Search(ctx context.Context, q model.SearchQuery) (*SearchPage, error)
	Rates(ctx context.Context, c flow.Context) (*rates.Model, error)
	Select(ctx context.Context, c flow.Context, optionID string) (flow.Context, error)
	GuestRules(ctx context.Context, c flow.Context) (model.GuestRules, error)
	Preview(ctx context.Context, c flow.Context, guests []model.GuestRecord, specialRequests string) (*Preview, error)
	Book(ctx context.Context, c flow.Context) (flow.Context, *model.Confirmation, error)
	Bookings(ctx context.Context, page, pageSize int) ([]model.BookingSummary, error)
	BookingDetail(ctx context.Context, code string) (*model.BookingDetail, error)
	Journal(ctx context.Context, limit int, offset int64) ([]*model.JournalEntry, int64, error)
}

type bookingService struct {
	api       client.BookingAPI
	validator *validator.BookingValidator
	locations cache.LocationCache
	journal   repository.JournalRepository
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	api client.BookingAPI,
	validator *validator.BookingValidator,
	locations cache.LocationCache,
	journal repository.JournalRepository,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		api:       api,
		validator: validator,
		locations: locations,
		journal:   journal,
		publisher: publisher,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *bookingService) locale() client.Locale {
	return client.Locale{Nationality: s.cfg.Nationality, Currency: s.cfg.Currency, Culture: s.cfg.Culture}
}

// Locations returns suggestions for a query. Blank queries never reach the
// API.
func (s *bookingService) Locations(ctx context.Context, query string) ([]model.Location, error) {
	query = sanitizer.TrimAndNormalize(query)
	if query == "" {
		return []model.Location{}, nil
	}
	if cached, ok := s.locations.Get(ctx, query); ok {
		return cached, nil
	}

	raw, err := s.api.SearchLocations(ctx, query)
	if err != nil {
		return nil, s.upstream("Location search failed", err)
	}
	locations := normalize.Locations(raw)
	s.locations.Set(ctx, query, locations)
	return locations, nil
}

func (s *bookingService) Search(ctx context.Context, q model.SearchQuery) (*SearchPage, error) {
	if err := flow.NewSearch(q).Validate(flow.StepResults); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateQuery(&q); err != nil {
		return nil, validationError(err)
	}

	raw, err := s.api.Search(ctx, client.NewSearchRequest(q, s.locale()))
	if err != nil {
		return nil, s.upstream("Search failed", err)
	}

	results := normalize.SearchResults(raw)
	page := &SearchPage{
		Context:    flow.NewSearch(q),
		TraceID:    results.TraceID,
		Hotels:     make([]HotelRow, 0, len(results.Hotels)),
		TotalCount: results.TotalCount,
	}
	for _, h := range results.Hotels {
		page.Hotels = append(page.Hotels, HotelRow{HotelSummary: h, PriceLabel: format.FromRate(h.FromRate)})
	}

	s.cfg.Log.Info("Search completed",
		"trace_id", results.TraceID,
		"hotels", len(page.Hotels),
		"location_id", q.LocationID,
		"hotel_ids", q.HotelIDs,
	)
	return page, nil
}

func (s *bookingService) Rates(ctx context.Context, c flow.Context) (*rates.Model, error) {
	if err := c.Validate(flow.StepDetail); err != nil {
		return nil, err
	}
	raw, err := s.api.RoomsAndRates(ctx, client.RoomsAndRatesRequest{TraceID: c.TraceID, HotelID: c.HotelID})
	if err != nil {
		return nil, s.upstream("Could not load rates", err)
	}
	m := rates.Build(raw, c.TraceID)
	s.cfg.Log.Debug("Rates loaded", "trace_id", m.TraceID, "hotel_id", c.HotelID, "options", m.Len())
	return m, nil
}

// Select reloads the hotel's rates and resolves the chosen option against
// them.
func (s *bookingService) Select(ctx context.Context, c flow.Context, optionID string) (flow.Context, error) {
	m, err := s.Rates(ctx, c)
	if err != nil {
		return c, err
	}
	next, err := c.SelectOption(m, optionID)
	if err != nil {
		return c, err
	}
	s.cfg.Log.Info("Option selected",
		"trace_id", next.TraceID,
		"hotel_id", next.HotelID,
		"option_id", next.OptionID,
		"rooms", len(next.RoomIDs),
	)
	return next, nil
}

// GuestRules never blocks the flow: a failed lookup means PAN is optional.
func (s *bookingService) GuestRules(ctx context.Context, c flow.Context) (model.GuestRules, error) {
	if err := c.Validate(flow.StepGuestDetails); err != nil {
		return model.GuestRules{}, err
	}
	raw, err := s.api.GuestRules(ctx, c.GuestRulesRequest())
	if err != nil {
		s.cfg.Log.Warn("Guest rules unavailable, PAN treated as optional",
			"trace_id", c.TraceID,
			"option_id", c.OptionID,
			"error", err,
		)
		return model.GuestRules{}, nil
	}
	return normalize.GuestRules(raw), nil
}

// Preview validates the guest records and re-checks the price. A failed
// price check falls back to the rate from the rates step when there is one.
func (s *bookingService) Preview(ctx context.Context, c flow.Context, guests []model.GuestRecord, specialRequests string) (*Preview, error) {
	rules, err := s.GuestRules(ctx, c)
	if err != nil {
		return nil, err
	}
	next, err := c.SubmitGuests(s.validator, guests, specialRequests, rules)
	if err != nil {
		return nil, err
	}

	out := &Preview{Context: next, Rules: rules}
	raw, err := s.api.PriceCheck(ctx, next.PriceCheckRequest())
	switch {
	case err == nil:
		out.PriceCheck = normalize.PriceCheck(raw, next.FinalRate)
	case next.FinalRate != nil:
		s.cfg.Log.Warn("Price check failed, using last known rate",
			"trace_id", next.TraceID,
			"option_id", next.OptionID,
			"error", err,
		)
		out.PriceCheck = normalize.PriceCheckFallback(*next.FinalRate)
	default:
		return nil, s.upstream("Price check failed", err)
	}

	if out.PriceCheck.FinalRate != nil {
		rate := *out.PriceCheck.FinalRate
		out.Context.FinalRate = &rate
	}
	out.PriceLabel = format.PriceOr(out.PriceCheck.FinalRate, format.Dash)
	return out, nil
}

// Book creates the booking, then loads its detail. A detail failure after a
// successful book is reported as a warning on the confirmation.
func (s *bookingService) Book(ctx context.Context, c flow.Context) (flow.Context, *model.Confirmation, error) {
	if err := c.Validate(flow.StepPreview); err != nil {
		return c, nil, err
	}

	raw, err := s.api.Book(ctx, c.BookRequest())
	if err != nil {
		return c, nil, s.upstream("Booking failed", err)
	}
	next, err := c.Confirm(normalize.BookingCode(raw))
	if err != nil {
		s.cfg.Log.Error("Book response carried no booking reference", "trace_id", c.TraceID, "option_id", c.OptionID)
		return c, nil, err
	}

	fb := normalize.DetailFallback{Book: raw, CheckIn: c.CheckIn, CheckOut: c.CheckOut}
	conf := &model.Confirmation{BookingCode: next.BookingCode}
	detailRaw, err := s.api.BookingDetails(ctx, next.BookingCode)
	if err != nil {
		s.cfg.Log.Warn("Booking detail unavailable after booking", "booking_code", next.BookingCode, "error", err)
		conf.Warning = fmt.Sprintf(detailWarning, errorMessage(err))
		detailRaw = jsonv.Value{}
	}
	detail := normalize.BookingDetail(next.BookingCode, detailRaw, fb)
	conf.Detail = &detail

	s.cfg.Log.Info("Booking confirmed",
		"booking_code", next.BookingCode,
		"trace_id", next.TraceID,
		"hotel_id", next.HotelID,
		"option_id", next.OptionID,
	)
	s.record(ctx, next, detail)
	return next, conf, nil
}

// record journals and announces a confirmed booking. Neither can fail the
// booking, which already exists upstream.
func (s *bookingService) record(ctx context.Context, c flow.Context, detail model.BookingDetail) {
	entry := &model.JournalEntry{
		BookingCode: c.BookingCode,
		HotelID:     c.HotelID,
		HotelName:   detail.HotelName,
		TraceID:     c.TraceID,
		OptionID:    c.OptionID,
		CheckIn:     c.CheckIn,
		CheckOut:    c.CheckOut,
		FinalRate:   c.FinalRate,
		Rooms:       len(c.RoomIDs),
		CreatedAt:   s.now(),
	}
	if err := s.journal.Save(ctx, entry); err != nil {
		s.cfg.Log.Error("Failed to journal booking", "booking_code", c.BookingCode, "error", err)
	}
	if err := s.publisher.PublishBookingConfirmed(ctx, events.NewBookingConfirmed(*entry)); err != nil {
		s.cfg.Log.Error("Failed to publish booking event", "booking_code", c.BookingCode, "error", err)
	}
}

func (s *bookingService) Bookings(ctx context.Context, page, pageSize int) ([]model.BookingSummary, error) {
	if page < 1 {
		page = 1
	}
	raw, err := s.api.GetBookings(ctx, client.BookingsRequest{Page: page, PageSize: s.cfg.NormalizePageSize(pageSize)})
	if err != nil {
		return nil, s.upstream("Could not load bookings", err)
	}
	return normalize.Bookings(raw), nil
}

func (s *bookingService) BookingDetail(ctx context.Context, code string) (*model.BookingDetail, error) {
	code = sanitizer.TrimAndNormalize(code)
	if code == "" {
		return nil, apperrors.InvalidInput("Booking code cannot be empty")
	}
	raw, err := s.api.BookingDetails(ctx, code)
	if err != nil {
		return nil, s.upstream("Could not load booking", err)
	}
	detail := normalize.BookingDetail(code, raw, normalize.DetailFallback{})
	return &detail, nil
}

func (s *bookingService) Journal(ctx context.Context, limit int, offset int64) ([]*model.JournalEntry, int64, error) {
	limit = s.cfg.NormalizePageSize(limit)
	if offset < 0 {
		offset = 0
	}
	entries, err := s.journal.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to read booking journal", err)
	}
	count, err := s.journal.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count booking journal", err)
	}
	return entries, count, nil
}

// upstream maps client failures onto the error taxonomy. API errors keep the
// server's message.
func (s *bookingService) upstream(message string, err error) error {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return apperrors.Unavailable("Booking API", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout(message + ": request timed out")
	case errors.Is(err, context.Canceled):
		s.cfg.Log.Debug(message+": request cancelled", "error", err)
		return fmt.Errorf("%s: %w", message, err)
	case errors.As(err, &apiErr):
		return apperrors.Upstream(apiErr.Message, err)
	}
	s.cfg.Log.Error(message, "error", err)
	return apperrors.Upstream(message, err)
}

func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msg := "Invalid search."
		if len(verrs) > 0 {
			msg = verrs[0].Message
		}
		return apperrors.Validation(msg, verrs.Details())
	}
	return err
}
