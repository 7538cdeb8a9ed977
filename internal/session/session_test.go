package session

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"staybook/internal/autocomplete"
	"staybook/internal/booking/service"
	"staybook/internal/flow"
	"staybook/internal/rates"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/jsonv"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

type mockService struct {
	service.BookingService

	locations  func(ctx context.Context, query string) ([]model.Location, error)
	search     func(ctx context.Context, q model.SearchQuery) (*service.SearchPage, error)
	rates      func(ctx context.Context, c flow.Context) (*rates.Model, error)
	guestRules func(ctx context.Context, c flow.Context) (model.GuestRules, error)
	book       func(ctx context.Context, c flow.Context) (flow.Context, *model.Confirmation, error)
}

func (m *mockService) Locations(ctx context.Context, query string) ([]model.Location, error) {
	return m.locations(ctx, query)
}

func (m *mockService) Search(ctx context.Context, q model.SearchQuery) (*service.SearchPage, error) {
	return m.search(ctx, q)
}

func (m *mockService) Rates(ctx context.Context, c flow.Context) (*rates.Model, error) {
	return m.rates(ctx, c)
}

func (m *mockService) GuestRules(ctx context.Context, c flow.Context) (model.GuestRules, error) {
	return m.guestRules(ctx, c)
}

func (m *mockService) Book(ctx context.Context, c flow.Context) (flow.Context, *model.Confirmation, error) {
	return m.book(ctx, c)
}

type goTimer struct{}

func (goTimer) Stop() bool { return true }

func immediate(_ time.Duration, f func()) autocomplete.Timer {
	go f()
	return goTimer{}
}

func ratesFor(roomName string) *rates.Model {
	return rates.Build(jsonv.ParseString(`{"results":[{"data":[{"roomRate":[{
		"rooms":{"R1":{"name":"`+roomName+`"}},
		"rates":{"opt-1":{"finalRate":4200,"occupancies":[{"roomId":"R1"}]}}
	}]}]}]}`), "")
}

func searchedSession(svc *mockService) *Session {
	s := New(svc, time.Millisecond, logger.Discard(), autocomplete.WithAfterFunc(immediate))
	s.ctx = flow.Context{CheckIn: "2025-06-01", CheckOut: "2025-06-02", Adults: 2, LocationID: "loc1", TraceID: "T1"}
	s.step = flow.StepResults
	return s
}

func TestSearch_RequiresSelectedLocation(t *testing.T) {
	s := New(&mockService{}, time.Millisecond, logger.Discard())
	defer s.Close()

	_, err := s.Search(context.Background(), "2025-06-01", "2025-06-02", model.Occupancy{Adults: 2})
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("err = %v", err)
	}
}

func TestSuggestThenSearch(t *testing.T) {
	var gotQuery model.SearchQuery
	svc := &mockService{
		locations: func(ctx context.Context, query string) ([]model.Location, error) {
			return []model.Location{{ID: "loc1", Name: "Goa"}}, nil
		},
		search: func(ctx context.Context, q model.SearchQuery) (*service.SearchPage, error) {
			gotQuery = q
			return &service.SearchPage{Context: flow.NewSearch(q), TraceID: "T1"}, nil
		},
	}
	s := New(svc, time.Millisecond, logger.Discard(), autocomplete.WithAfterFunc(immediate))
	defer s.Close()

	s.Suggest("go")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	snap, err := s.Suggestions(ctx)
	if err != nil || len(snap.Suggestions) != 1 {
		t.Fatalf("snapshot = %+v, err = %v", snap, err)
	}

	s.SelectLocation(snap.Suggestions[0])
	if _, err := s.Search(ctx, "2025-06-01", "2025-06-02", model.Occupancy{Adults: 2, ChildAges: []int{5}}); err != nil {
		t.Fatal(err)
	}
	if gotQuery.LocationID != "loc1" || len(gotQuery.Occupancy.ChildAges) != 1 {
		t.Errorf("query = %+v", gotQuery)
	}
	if s.Step() != flow.StepResults || s.Context().TraceID != "T1" {
		t.Errorf("step = %v, context = %+v", s.Step(), s.Context())
	}
}

func TestOpenHotel_StaleResponseDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := &mockService{rates: func(ctx context.Context, c flow.Context) (*rates.Model, error) {
		if c.HotelID == "H1" {
			close(started)
			<-release
			return ratesFor("Old Hotel Room"), nil
		}
		return ratesFor("New Hotel Room"), nil
	}}
	s := searchedSession(svc)
	defer s.Close()

	done := make(chan error, 1)
	go func() {
		_, err := s.OpenHotel(context.Background(), "T1", "H1")
		done <- err
	}()
	<-started

	view, err := s.OpenHotel(context.Background(), "T1", "H2")
	if err != nil {
		t.Fatal(err)
	}
	close(release)

	if err := <-done; !errors.Is(err, flow.ErrStale) {
		t.Fatalf("first load err = %v, want ErrStale", err)
	}
	if view.Groups[0].RoomName != "New Hotel Room" {
		t.Errorf("view = %+v", view)
	}
	if got := s.Context().HotelID; got != "H2" {
		t.Errorf("hotel = %q, want H2", got)
	}
	if got := s.rates.View("H2").Groups[0].RoomName; got != "New Hotel Room" {
		t.Errorf("committed rates = %q", got)
	}
}

func TestSelect(t *testing.T) {
	svc := &mockService{
		rates: func(ctx context.Context, c flow.Context) (*rates.Model, error) { return ratesFor("Deluxe"), nil },
		guestRules: func(ctx context.Context, c flow.Context) (model.GuestRules, error) {
			return model.GuestRules{}, errors.New("boom")
		},
	}
	s := searchedSession(svc)
	defer s.Close()

	if _, _, err := s.Select(context.Background(), "opt-1"); !apperrors.HasCode(err, apperrors.CodeMissingContext) {
		t.Fatalf("select before rates err = %v", err)
	}

	if _, err := s.OpenHotel(context.Background(), "T1", "H1"); err != nil {
		t.Fatal(err)
	}
	guests, _, err := s.Select(context.Background(), "opt-1")
	if err != nil {
		t.Fatalf("guest rules failure should not block: %v", err)
	}
	if len(guests) != 1 || s.Step() != flow.StepGuestDetails {
		t.Errorf("guests = %d, step = %v", len(guests), s.Step())
	}

	q, _ := url.ParseQuery(s.URL())
	if q.Get(flow.ParamOptionID) != "opt-1" || q.Get(flow.ParamRoomIDs) != "R1" || q.Get(flow.ParamFinalRate) != "4200" {
		t.Errorf("url = %s", s.URL())
	}
}

func TestRestore(t *testing.T) {
	s := New(&mockService{}, time.Millisecond, logger.Discard())
	defer s.Close()

	if err := s.Restore(url.Values{"traceId": {"T1"}}, flow.StepGuestDetails); !apperrors.HasCode(err, apperrors.CodeMissingContext) {
		t.Errorf("err = %v", err)
	}

	q := url.Values{"traceId": {"T1"}, "hotelId": {"H1"}, "optionId": {"o"}, "roomId": {"R1"}}
	if err := s.Restore(q, flow.StepGuestDetails); err != nil {
		t.Fatal(err)
	}
	if c := s.Context(); len(c.RoomIDs) != 1 || c.RoomIDs[0] != "R1" {
		t.Errorf("context = %+v", c)
	}
}

func TestBook(t *testing.T) {
	svc := &mockService{book: func(ctx context.Context, c flow.Context) (flow.Context, *model.Confirmation, error) {
		next, err := c.Confirm("BK-7")
		return next, &model.Confirmation{BookingCode: "BK-7"}, err
	}}
	s := searchedSession(svc)
	defer s.Close()

	conf, err := s.Book(context.Background())
	if err != nil || conf.BookingCode != "BK-7" {
		t.Fatalf("conf = %+v, err = %v", conf, err)
	}
	if s.Step() != flow.StepConfirmation || s.Context().BookingCode != "BK-7" {
		t.Errorf("step = %v, context = %+v", s.Step(), s.Context())
	}
}
