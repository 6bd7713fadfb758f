package pagination

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds the optional limit/offset of a list request. Enabled is false
// when the client asked for neither, in which case the whole list is returned
// as a bare JSON array.
type Params struct {
	Enabled bool
	Limit   int
	Offset  int
}

// FromContext reads ?limit= and ?offset=.
func FromContext(c echo.Context) Params {
	rawLimit, rawOffset := c.QueryParam("limit"), c.QueryParam("offset")
	if rawLimit == "" && rawOffset == "" {
		return Params{}
	}

	limit, _ := strconv.Atoi(rawLimit)
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, _ := strconv.Atoi(rawOffset)
	if offset < 0 {
		offset = 0
	}

	return Params{Enabled: true, Limit: limit, Offset: offset}
}

// SQL returns the LIMIT/OFFSET clause, or "" when pagination is off.
func (p Params) SQL() string {
	if !p.Enabled {
		return ""
	}
	return fmt.Sprintf("LIMIT %d OFFSET %d", p.Limit, p.Offset)
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Enabled && p.Offset+p.Limit < total
}

// Page is the envelope used when pagination is requested.
type Page struct {
	Count   int         `json:"count"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"has_more"`
	Results interface{} `json:"results"`
}

// Body returns results unchanged when pagination is off, otherwise the Page
// envelope around them.
func (p Params) Body(results interface{}, total int) interface{} {
	if !p.Enabled {
		return results
	}
	return &Page{
		Count:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.HasNext(total),
		Results: results,
	}
}
