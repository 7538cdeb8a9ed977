package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	"staybook/internal/booking/service"
	"staybook/internal/flow"
	"staybook/internal/rates"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/jsonv"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

type mockService struct {
	locations     func(ctx context.Context, query string) ([]model.Location, error)
	search        func(ctx context.Context, q model.SearchQuery) (*service.SearchPage, error)
	rates         func(ctx context.Context, c flow.Context) (*rates.Model, error)
	selectOption  func(ctx context.Context, c flow.Context, optionID string) (flow.Context, error)
	guestRules    func(ctx context.Context, c flow.Context) (model.GuestRules, error)
	preview       func(ctx context.Context, c flow.Context, guests []model.GuestRecord, special string) (*service.Preview, error)
	book          func(ctx context.Context, c flow.Context) (flow.Context, *model.Confirmation, error)
	bookings      func(ctx context.Context, page, pageSize int) ([]model.BookingSummary, error)
	bookingDetail func(ctx context.Context, code string) (*model.BookingDetail, error)
	journal       func(ctx context.Context, limit int, offset int64) ([]*model.JournalEntry, int64, error)
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

func (m *mockService) Select(ctx context.Context, c flow.Context, optionID string) (flow.Context, error) {
	return m.selectOption(ctx, c, optionID)
}

func (m *mockService) GuestRules(ctx context.Context, c flow.Context) (model.GuestRules, error) {
	return m.guestRules(ctx, c)
}

func (m *mockService) Preview(ctx context.Context, c flow.Context, guests []model.GuestRecord, special string) (*service.Preview, error) {
	return m.preview(ctx, c, guests, special)
}

func (m *mockService) Book(ctx context.Context, c flow.Context) (flow.Context, *model.Confirmation, error) {
	return m.book(ctx, c)
}

func (m *mockService) Bookings(ctx context.Context, page, pageSize int) ([]model.BookingSummary, error) {
	return m.bookings(ctx, page, pageSize)
}

func (m *mockService) BookingDetail(ctx context.Context, code string) (*model.BookingDetail, error) {
	return m.bookingDetail(ctx, code)
}

func (m *mockService) Journal(ctx context.Context, limit int, offset int64) ([]*model.JournalEntry, int64, error) {
	return m.journal(ctx, limit, offset)
}

func newRouter(svc service.BookingService) *httprouter.Router {
	router := httprouter.New()
	NewBookingHandler(svc, 2, logger.Discard()).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return out.Data
}

func TestSearch_DecodesQuery(t *testing.T) {
	var got model.SearchQuery
	svc := &mockService{search: func(ctx context.Context, q model.SearchQuery) (*service.SearchPage, error) {
		got = q
		return &service.SearchPage{Context: flow.NewSearch(q), TraceID: "T1", Hotels: []service.HotelRow{}}, nil
	}}

	rec := serve(newRouter(svc), http.MethodGet, "/api/v1/search?checkIn=2025-06-01&checkOut=2025-06-02&locationId=loc1&childAges=4,9", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if got.LocationID != "loc1" || got.Occupancy.Adults != 2 || len(got.Occupancy.ChildAges) != 2 {
		t.Errorf("query = %+v", got)
	}
	data := decodeData(t, rec)
	if !strings.Contains(data["query"].(string), "locationId=loc1") {
		t.Errorf("query string = %v", data["query"])
	}
}

func TestSearch_ErrorEnvelope(t *testing.T) {
	svc := &mockService{search: func(ctx context.Context, q model.SearchQuery) (*service.SearchPage, error) {
		return nil, apperrors.MissingContext(flow.MsgMissingLocation)
	}}

	rec := serve(newRouter(svc), http.MethodGet, "/api/v1/search", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp apperrors.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != apperrors.CodeMissingContext || resp.Message != flow.MsgMissingLocation {
		t.Errorf("response = %+v", resp)
	}
}

func TestRates(t *testing.T) {
	svc := &mockService{rates: func(ctx context.Context, c flow.Context) (*rates.Model, error) {
		if c.TraceID != "T1" || c.HotelID != "H1" {
			t.Errorf("context = %+v", c)
		}
		return rates.Build(jsonv.ParseString(`{"results":[{"data":[{"roomRate":[{
			"rooms":{"R1":{"name":"Deluxe"}},
			"rates":{"opt-1":{"finalRate":5000,"occupancies":[{"roomId":"R1"}]}}
		}]}]}]}`), c.TraceID), nil
	}}

	rec := serve(newRouter(svc), http.MethodGet, "/api/v1/hotels/H1/rates?traceId=T1&checkIn=2025-06-01", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)["data"].(map[string]any)
	groups := data["groups"].([]any)
	if len(groups) != 1 || groups[0].(map[string]any)["roomName"] != "Deluxe" {
		t.Errorf("groups = %v", groups)
	}
}

func TestRates_MissingTrace(t *testing.T) {
	rec := serve(newRouter(&mockService{}), http.MethodGet, "/api/v1/hotels/H1/rates", nil)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), flow.MsgMissingSearch) {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestSelect_UsesPathHotel(t *testing.T) {
	svc := &mockService{selectOption: func(ctx context.Context, c flow.Context, optionID string) (flow.Context, error) {
		if c.HotelID != "H9" || optionID != "opt-1" {
			t.Errorf("context = %+v option %q", c, optionID)
		}
		c.OptionID = optionID
		c.RoomIDs = []string{"R1"}
		return c, nil
	}}

	rec := serve(newRouter(svc), http.MethodPost, "/api/v1/hotels/H9/selection", map[string]any{
		"context":  map[string]any{"traceId": "T1", "hotelId": "other"},
		"optionId": "opt-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if q := decodeData(t, rec)["query"].(string); !strings.Contains(q, "roomIds=R1") {
		t.Errorf("query = %q", q)
	}
}

func TestPreview_ValidationError(t *testing.T) {
	svc := &mockService{preview: func(ctx context.Context, c flow.Context, guests []model.GuestRecord, special string) (*service.Preview, error) {
		return nil, apperrors.Validation("Please fill all required guest fields.", map[string]any{"guests[1].firstName": "firstName is required"})
	}}

	rec := serve(newRouter(svc), http.MethodPost, "/api/v1/hotels/H1/preview", map[string]any{"context": map[string]any{}})
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "guests[1].firstName") {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestBook_Created(t *testing.T) {
	svc := &mockService{book: func(ctx context.Context, c flow.Context) (flow.Context, *model.Confirmation, error) {
		c.BookingCode = "BK-1"
		return c, &model.Confirmation{BookingCode: "BK-1", Warning: "Could not load full details: x. Reference above is still valid."}, nil
	}}

	rec := serve(newRouter(svc), http.MethodPost, "/api/v1/hotels/H1/book", map[string]any{"context": map[string]any{"traceId": "T1"}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"bookingCode":"BK-1"`) || !strings.Contains(rec.Body.String(), "Reference above is still valid") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestBook_InvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hotels/H1/book", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	newRouter(&mockService{}).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestBookings_Paging(t *testing.T) {
	svc := &mockService{bookings: func(ctx context.Context, page, pageSize int) ([]model.BookingSummary, error) {
		if page != 2 || pageSize != 5 {
			t.Errorf("page %d size %d", page, pageSize)
		}
		return []model.BookingSummary{{BookingID: "B1"}}, nil
	}}

	rec := serve(newRouter(svc), http.MethodGet, "/api/v1/bookings?page=2&pageSize=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	rec = serve(newRouter(svc), http.MethodGet, "/api/v1/bookings?page=x", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad page status = %d", rec.Code)
	}
}

func TestBookingDetail_Upstream(t *testing.T) {
	svc := &mockService{bookingDetail: func(ctx context.Context, code string) (*model.BookingDetail, error) {
		if code != "BK 1" {
			t.Errorf("code = %q", code)
		}
		return nil, apperrors.Upstream("Booking not found", errors.New("404"))
	}}

	rec := serve(newRouter(svc), http.MethodGet, "/api/v1/bookings/BK%201", nil)
	if rec.Code != http.StatusBadGateway || !strings.Contains(rec.Body.String(), "Booking not found") {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	router := httprouter.New()
	NewHealthHandler(map[string]Checker{
		"mongo": func(ctx context.Context) error { return nil },
		"redis": func(ctx context.Context) error { return errors.New("down") },
	}, logger.Discard()).RegisterRoutes(router)

	if rec := serve(router, http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Errorf("health = %d", rec.Code)
	}
	rec := serve(router, http.MethodGet, "/ready", nil)
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), `"redis":"error"`) {
		t.Errorf("ready = %d %s", rec.Code, rec.Body.String())
	}
}
