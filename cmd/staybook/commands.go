package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"staybook/internal/flow"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
)

func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "check-in", Usage: "arrival date, YYYY-MM-DD", Required: true},
		&cli.StringFlag{Name: "check-out", Usage: "departure date, YYYY-MM-DD", Required: true},
		&cli.IntFlag{Name: "adults", Usage: "adults in the room"},
		&cli.IntSliceFlag{Name: "child-age", Usage: "age of one child, repeatable"},
	}
}

func commands(e *env) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "locations",
			Usage:     "suggest locations for a query",
			ArgsUsage: "<query>",
			Action:    e.locations,
		},
		{
			Name:  "search",
			Usage: "search availability for a location or hotel ids",
			Flags: append(searchFlags(),
				&cli.StringFlag{Name: "location", Usage: "location name, resolved to the first suggestion"},
				&cli.StringFlag{Name: "location-id", Usage: "location id"},
				&cli.StringFlag{Name: "hotel-ids", Usage: "comma separated hotel ids"},
			),
			Action: e.search,
		},
		{
			Name:  "rates",
			Usage: "show rate options of one hotel",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "query", Usage: "flow query printed by search", Required: true},
				&cli.StringFlag{Name: "trace-id", Usage: "search trace id, overrides the query"},
				&cli.StringFlag{Name: "hotel-id", Required: true},
			},
			Action: e.rates,
		},
		{
			Name:  "book",
			Usage: "select an option, preview and book it with one lead guest per room",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "query", Usage: "flow query printed by rates", Required: true},
				&cli.StringFlag{Name: "option-id", Required: true},
				&cli.StringFlag{Name: "title", Value: model.DefaultTitle},
				&cli.StringFlag{Name: "first-name", Required: true},
				&cli.StringFlag{Name: "last-name", Required: true},
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "isd-code", Value: model.DefaultISDCode},
				&cli.StringFlag{Name: "phone", Required: true},
				&cli.StringFlag{Name: "pan"},
				&cli.StringFlag{Name: "special-requests"},
				&cli.BoolFlag{Name: "dry-run", Usage: "stop after the price check"},
			},
			Action: e.book,
		},
		{
			Name:  "bookings",
			Usage: "list bookings",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "page", Value: 1},
				&cli.IntFlag{Name: "page-size"},
			},
			Action: e.bookings,
		},
		{
			Name:      "booking",
			Usage:     "show one booking",
			ArgsUsage: "<booking code>",
			Action:    e.booking,
		},
		{
			Name:  "journal",
			Usage: "list bookings confirmed from this machine",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "limit", Value: 20},
				&cli.Int64Flag{Name: "offset"},
			},
			Action: e.journal,
		},
	}
}

func (e *env) locations(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return cli.Exit("a query is required", 2)
	}
	e.session.Suggest(query)
	snap, err := e.session.Suggestions(c.Context)
	if err != nil {
		return err
	}
	if snap.Err != nil {
		return snap.Err
	}
	return printJSON(snap.Suggestions)
}

func (e *env) search(c *cli.Context) error {
	occupancy := model.Occupancy{Adults: c.Int("adults"), ChildAges: c.IntSlice("child-age")}
	if occupancy.Adults == 0 {
		occupancy.Adults = e.cfg.DefaultAdults
	}

	if name := c.String("location"); name != "" {
		e.session.Suggest(name)
		snap, err := e.session.Suggestions(c.Context)
		if err != nil {
			return err
		}
		if len(snap.Suggestions) == 0 {
			return cli.Exit(fmt.Sprintf("no location matches %q", name), 1)
		}
		e.session.SelectLocation(snap.Suggestions[0])
		page, err := e.session.Search(c.Context, c.String("check-in"), c.String("check-out"), occupancy)
		if err != nil {
			return err
		}
		return printStep(e.session.URL(), page)
	}

	q := searchQuery(c.String("check-in"), c.String("check-out"), occupancy, c.String("location-id"), c.String("hotel-ids"))
	page, err := e.session.SearchQuery(c.Context, q)
	if err != nil {
		return err
	}
	return printStep(e.session.URL(), page)
}

// searchQuery builds a query from flags. hotelIDs is a comma separated list;
// blank entries are dropped.
func searchQuery(checkIn, checkOut string, occupancy model.Occupancy, locationID, hotelIDs string) model.SearchQuery {
	q := model.SearchQuery{
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Occupancy:  occupancy,
		LocationID: strings.TrimSpace(locationID),
	}
	if ids := sanitizer.SplitList(hotelIDs); len(ids) > 0 {
		q.HotelIDs = ids
	}
	return q
}

func (e *env) rates(c *cli.Context) error {
	q, err := url.ParseQuery(c.String("query"))
	if err != nil {
		return cli.Exit("query is not a valid query string", 2)
	}
	if err := e.session.Restore(q, flow.StepResults); err != nil {
		return err
	}
	traceID := c.String("trace-id")
	if traceID == "" {
		traceID = q.Get(flow.ParamTraceID)
	}

	view, err := e.session.OpenHotel(c.Context, traceID, c.String("hotel-id"))
	if err != nil {
		return err
	}
	return printStep(e.session.URL(), view)
}

func (e *env) book(c *cli.Context) error {
	q, err := url.ParseQuery(c.String("query"))
	if err != nil {
		return cli.Exit("query is not a valid query string", 2)
	}
	if err := e.session.Restore(q, flow.StepDetail); err != nil {
		return err
	}
	restored := e.session.Context()
	if _, err := e.session.OpenHotel(c.Context, restored.TraceID, restored.HotelID); err != nil {
		return err
	}

	blank, _, err := e.session.Select(c.Context, c.String("option-id"))
	if err != nil {
		return err
	}
	guests := make([]model.GuestRecord, len(blank))
	for i, g := range blank {
		g.Title = c.String("title")
		g.FirstName = c.String("first-name")
		g.LastName = c.String("last-name")
		g.Email = c.String("email")
		g.ISDCode = c.String("isd-code")
		g.ContactNumber = c.String("phone")
		g.PANNumber = c.String("pan")
		guests[i] = g
	}

	preview, err := e.session.Preview(c.Context, guests, c.String("special-requests"))
	if err != nil {
		return err
	}
	if c.Bool("dry-run") {
		return printStep(e.session.URL(), preview)
	}

	conf, err := e.session.Book(c.Context)
	if err != nil {
		return err
	}
	if conf.Warning != "" {
		fmt.Fprintln(os.Stderr, conf.Warning)
	}
	return printJSON(conf)
}

func (e *env) bookings(c *cli.Context) error {
	list, err := e.session.Bookings(c.Context, c.Int("page"), c.Int("page-size"))
	if err != nil {
		return err
	}
	return printJSON(list)
}

func (e *env) booking(c *cli.Context) error {
	code := strings.TrimSpace(c.Args().First())
	if code == "" {
		return cli.Exit("a booking code is required", 2)
	}
	detail, err := e.session.BookingDetail(c.Context, code)
	if err != nil {
		return err
	}
	return printJSON(detail)
}

func (e *env) journal(c *cli.Context) error {
	entries, total, err := e.stack.Service.Journal(c.Context, c.Int("limit"), c.Int64("offset"))
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"entries": entries, "total": total})
}

type stepOutput struct {
	Query string `json:"query"`
	Data  any    `json:"data"`
}

func printStep(query string, data any) error {
	return printJSON(stepOutput{Query: query, Data: data})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
