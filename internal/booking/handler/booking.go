package handler

import (
	"net/http"
	"net/url"

	"github.com/julienschmidt/httprouter"

	"staybook/internal/booking/service"
	"staybook/internal/flow"
	"staybook/internal/rates"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

const apiPrefix = "/api/v1"

type BookingHandler struct {
	service       service.BookingService
	defaultAdults int
	log           *logger.Logger
}

func NewBookingHandler(service service.BookingService, defaultAdults int, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:       service,
		defaultAdults: defaultAdults,
		log:           log,
	}
}

// StepResponse carries a step's payload with the flow context the next step
// needs, both as JSON and as the query string form.
type StepResponse struct {
	Context flow.Context `json:"context"`
	Query   string       `json:"query"`
	Data    any          `json:"data,omitempty"`
}

func newStepResponse(c flow.Context, data any) StepResponse {
	return StepResponse{Context: c, Query: c.Encode().Encode(), Data: data}
}

type selectionRequest struct {
	Context  flow.Context `json:"context"`
	OptionID string       `json:"optionId"`
}

type previewRequest struct {
	Context         flow.Context        `json:"context"`
	Guests          []model.GuestRecord `json:"guests"`
	SpecialRequests string              `json:"specialRequests"`
}

type bookRequest struct {
	Context flow.Context `json:"context"`
}

type confirmationResponse struct {
	Context      flow.Context        `json:"context"`
	Confirmation *model.Confirmation `json:"confirmation"`
}

type ratesResponse struct {
	rates.View
	Options int `json:"options"`
}

type guestDetailsResponse struct {
	Rules  model.GuestRules    `json:"guestRules"`
	Guests []model.GuestRecord `json:"guests"`
	Titles []string            `json:"titles"`
}

func (h *BookingHandler) Locations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	locations, err := h.service.Locations(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.writeError(w, "Locations", err)
		return
	}
	h.writeSuccess(w, "Locations", locations)
}

func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := h.decode(r.URL.Query()).Query()

	page, err := h.service.Search(r.Context(), q)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}
	h.writeSuccess(w, "Search", newStepResponse(page.Context, page))
}

func (h *BookingHandler) Rates(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c, err := h.decode(r.URL.Query()).OpenHotel(r.URL.Query().Get(flow.ParamTraceID), ps.ByName("hotelId"))
	if err != nil {
		h.writeError(w, "Rates", err)
		return
	}

	m, err := h.service.Rates(r.Context(), c)
	if err != nil {
		h.writeError(w, "Rates", err)
		return
	}
	view := ratesResponse{View: m.View(c.HotelID), Options: m.Len()}
	h.writeSuccess(w, "Rates", newStepResponse(c, view))
}

func (h *BookingHandler) Select(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req selectionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Select", err)
		return
	}
	req.Context.HotelID = ps.ByName("hotelId")

	next, err := h.service.Select(r.Context(), req.Context, req.OptionID)
	if err != nil {
		h.writeError(w, "Select", err)
		return
	}
	h.writeSuccess(w, "Select", newStepResponse(next, nil))
}

func (h *BookingHandler) GuestRules(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c := h.decode(r.URL.Query())
	c.HotelID = ps.ByName("hotelId")

	rules, err := h.service.GuestRules(r.Context(), c)
	if err != nil {
		h.writeError(w, "GuestRules", err)
		return
	}
	h.writeSuccess(w, "GuestRules", newStepResponse(c, guestDetailsResponse{
		Rules:  rules,
		Guests: c.BlankGuests(),
		Titles: model.Titles,
	}))
}

func (h *BookingHandler) Preview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req previewRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Preview", err)
		return
	}
	req.Context.HotelID = ps.ByName("hotelId")

	preview, err := h.service.Preview(r.Context(), req.Context, req.Guests, req.SpecialRequests)
	if err != nil {
		h.writeError(w, "Preview", err)
		return
	}
	h.writeSuccess(w, "Preview", newStepResponse(preview.Context, preview))
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req bookRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Book", err)
		return
	}
	req.Context.HotelID = ps.ByName("hotelId")

	next, conf, err := h.service.Book(r.Context(), req.Context)
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}
	if err := httputil.WriteCreated(w, confirmationResponse{Context: next, Confirmation: conf}); err != nil {
		h.log.Error("failed to write created response", "handler", "Book", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) Bookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, pageSize, err := httputil.ExtractPage(r)
	if err != nil {
		h.writeError(w, "Bookings", err)
		return
	}

	list, err := h.service.Bookings(r.Context(), page, pageSize)
	if err != nil {
		h.writeError(w, "Bookings", err)
		return
	}
	h.writeSuccess(w, "Bookings", list)
}

func (h *BookingHandler) BookingDetail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	detail, err := h.service.BookingDetail(r.Context(), ps.ByName("code"))
	if err != nil {
		h.writeError(w, "BookingDetail", err)
		return
	}
	h.writeSuccess(w, "BookingDetail", detail)
}

func (h *BookingHandler) Journal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Journal", err)
		return
	}

	entries, total, err := h.service.Journal(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "Journal", err)
		return
	}
	if err := httputil.WritePaginated(w, entries, total, len(entries), offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Journal", "operation", "WritePaginated", "error", err)
	}
}

// decode reads the flow context from query parameters, filling in the
// default adult count.
func (h *BookingHandler) decode(q url.Values) flow.Context {
	c := flow.Decode(q)
	if c.Adults == 0 {
		c.Adults = h.defaultAdults
	}
	return c
}

func (h *BookingHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET(apiPrefix+"/locations", h.Locations)
	router.GET(apiPrefix+"/search", h.Search)
	router.GET(apiPrefix+"/hotels/:hotelId/rates", h.Rates)
	router.POST(apiPrefix+"/hotels/:hotelId/selection", h.Select)
	router.GET(apiPrefix+"/hotels/:hotelId/guest-rules", h.GuestRules)
	router.POST(apiPrefix+"/hotels/:hotelId/preview", h.Preview)
	router.POST(apiPrefix+"/hotels/:hotelId/book", h.Book)
	router.GET(apiPrefix+"/bookings", h.Bookings)
	router.GET(apiPrefix+"/bookings/:code", h.BookingDetail)
	router.GET(apiPrefix+"/journal", h.Journal)
}
