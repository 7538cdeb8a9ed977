package client

import (
	"context"
	"net/url"

	"staybook/pkg/jsonv"
)

const apiPrefix = "/api"

// BookingAPI is the remote booking API. Every method returns the raw parsed
// body; shape normalization is the caller's job.
type BookingAPI interface {
	SearchLocations(ctx context.Context, query string) (jsonv.Value, error)
	Search(ctx context.Context, req SearchRequest) (jsonv.Value, error)
	RoomsAndRates(ctx context.Context, req RoomsAndRatesRequest) (jsonv.Value, error)
	PriceCheck(ctx context.Context, req PriceCheckRequest) (jsonv.Value, error)
	GuestRules(ctx context.Context, req GuestRulesRequest) (jsonv.Value, error)
	Book(ctx context.Context, req BookRequest) (jsonv.Value, error)
	GetBookings(ctx context.Context, req BookingsRequest) (jsonv.Value, error)
	BookingDetails(ctx context.Context, code string) (jsonv.Value, error)
}

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(httpClient *HttpClient) *BookingClient {
	return &BookingClient{httpClient: httpClient}
}

func (c *BookingClient) SearchLocations(ctx context.Context, query string) (jsonv.Value, error) {
	q := url.Values{}
	q.Set("query", query)
	return c.get(ctx, "/locations/search?"+q.Encode())
}

func (c *BookingClient) Search(ctx context.Context, req SearchRequest) (jsonv.Value, error) {
	return c.post(ctx, "/search", req)
}

func (c *BookingClient) RoomsAndRates(ctx context.Context, req RoomsAndRatesRequest) (jsonv.Value, error) {
	return c.post(ctx, "/roomsandrates", req)
}

func (c *BookingClient) PriceCheck(ctx context.Context, req PriceCheckRequest) (jsonv.Value, error) {
	return c.post(ctx, "/price-check", req)
}

func (c *BookingClient) GuestRules(ctx context.Context, req GuestRulesRequest) (jsonv.Value, error) {
	return c.post(ctx, "/guest-rules", req)
}

func (c *BookingClient) Book(ctx context.Context, req BookRequest) (jsonv.Value, error) {
	return c.post(ctx, "/book", req)
}

func (c *BookingClient) GetBookings(ctx context.Context, req BookingsRequest) (jsonv.Value, error) {
	return c.post(ctx, "/getbookings", req)
}

func (c *BookingClient) BookingDetails(ctx context.Context, code string) (jsonv.Value, error) {
	return c.get(ctx, "/booking-details/"+url.PathEscape(code))
}

func (c *BookingClient) get(ctx context.Context, path string) (jsonv.Value, error) {
	resp, err := c.httpClient.GET(ctx, apiPrefix+path)
	if err != nil {
		return jsonv.Value{}, err
	}
	return resp.Value(), nil
}

func (c *BookingClient) post(ctx context.Context, path string, body any) (jsonv.Value, error) {
	resp, err := c.httpClient.POST(ctx, apiPrefix+path, body)
	if err != nil {
		return jsonv.Value{}, err
	}
	return resp.Value(), nil
}
