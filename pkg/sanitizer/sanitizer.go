package sanitizer

import (
	"strings"

	"staybook/pkg/model"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	namePipeline  = Pipeline{TrimAndNormalize}
	queryPipeline = Pipeline{TrimAndNormalize, strings.ToLower}
	panPipeline   = Pipeline{strings.TrimSpace, removeSpaces, strings.ToUpper}
)

// Guest trims every field of a guest record. Names also collapse inner
// whitespace and PAN numbers are upper-cased.
func Guest(g model.GuestRecord) model.GuestRecord {
	g.Title = strings.TrimSpace(g.Title)
	g.FirstName = NormalizeName(g.FirstName)
	g.LastName = NormalizeName(g.LastName)
	g.Email = strings.TrimSpace(g.Email)
	g.ISDCode = strings.TrimSpace(g.ISDCode)
	g.ContactNumber = strings.TrimSpace(g.ContactNumber)
	g.PANNumber = panPipeline.Apply(g.PANNumber)
	return g
}

// Guests sanitizes each record.
func Guests(guests []model.GuestRecord) []model.GuestRecord {
	out := make([]model.GuestRecord, len(guests))
	for i, g := range guests {
		out[i] = Guest(g)
	}
	return out
}

// SpecialRequests is nil when the trimmed text is empty.
func SpecialRequests(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
