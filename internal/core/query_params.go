// internal/core/query_params.go
package core

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Search pagination limits
const (
	DefaultPageSize  = 10
	MaxSearchResults = 50
	MaxSearchPage    = MaxSearchResults / DefaultPageSize
	DayLayout        = "2006-01-02"
)

// SearchOptions holds parsed query parameters for a food search
type SearchOptions struct {
	Text string
	Page int
}

// ParseSearchOptions extracts the search text ("q") and zero-based page ("page").
// A blank text is valid and means "no search".
func ParseSearchOptions(queryParams url.Values) (*SearchOptions, error) {
	opts := &SearchOptions{
		Text: strings.TrimSpace(queryParams.Get("q")),
		Page: 0,
	}

	if pageStr := queryParams.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid 'page' parameter: must be an integer", ErrValidation)
		}
		if page < 0 {
			return nil, fmt.Errorf("%w: invalid 'page' parameter: must be non-negative", ErrValidation)
		}
		if page >= MaxSearchPage {
			return nil, fmt.Errorf("%w: invalid 'page' parameter: maximum is %d", ErrValidation, MaxSearchPage-1)
		}
		opts.Page = page
	}

	return opts, nil
}

// ParseDay reads a YYYY-MM-DD "date" parameter in loc. A missing parameter
// means the current day.
func ParseDay(queryParams url.Values, loc *time.Location, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(queryParams.Get("date"))
	if raw == "" {
		return now.In(loc), nil
	}
	day, err := time.ParseInLocation(DayLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid 'date' parameter: expected YYYY-MM-DD", ErrValidation)
	}
	return day, nil
}
