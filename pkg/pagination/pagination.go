// Package pagination provides offset/fetch paging shared by listing endpoints.
package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	DefaultFetch = 20
	MaxFetch     = 100
)

// Params captures a validated page window.
type Params struct {
	Offset int
	Fetch  int
}

// FromQuery parses offset/fetch query parameters, applying defaults and the
// fetch ceiling. Absent parameters fall back to the first default page.
func FromQuery(values url.Values) (Params, error) {
	params := Params{Offset: 0, Fetch: DefaultFetch}

	if raw := values.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return Params{}, fmt.Errorf("invalid offset %q", raw)
		}
		params.Offset = offset
	}

	if raw := values.Get("fetch"); raw != "" {
		fetch, err := strconv.Atoi(raw)
		if err != nil || fetch <= 0 {
			return Params{}, fmt.Errorf("invalid fetch %q", raw)
		}
		params.Fetch = fetch
	}

	if params.Fetch > MaxFetch {
		params.Fetch = MaxFetch
	}
	return params, nil
}

// Page is the standard paged response wrapper.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Offset     int   `json:"offset"`
	Fetch      int   `json:"fetch"`
}

// NewPage assembles a paged result, normalizing a nil items slice.
func NewPage[T any](items []T, total int64, params Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		TotalCount: total,
		Offset:     params.Offset,
		Fetch:      params.Fetch,
	}
}
