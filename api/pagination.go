package api

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PaginatedResponse is the page envelope for list endpoints.
type PaginatedResponse struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

type page struct {
	number int
	size   int
}

func (p page) offset() int {
	return (p.number - 1) * p.size
}

// parsePage reads ?page= and ?page_size= with defaults and bounds.
func parsePage(r *http.Request) page {
	p := page{number: 1, size: defaultPageSize}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.number = n
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.size = n
			if p.size > maxPageSize {
				p.size = maxPageSize
			}
		}
	}
	return p
}

// newPaginatedResponse builds the envelope, deriving next/previous links
// from the request URL.
func newPaginatedResponse(r *http.Request, p page, count int64, results any) PaginatedResponse {
	resp := PaginatedResponse{Count: count, Results: results}

	pageURL := func(number int) *string {
		u := *r.URL
		q := u.Query()
		q.Set("page", strconv.Itoa(number))
		q.Set("page_size", strconv.Itoa(p.size))
		u.RawQuery = q.Encode()
		s := u.String()
		return &s
	}

	if int64(p.offset()+p.size) < count {
		resp.Next = pageURL(p.number + 1)
	}
	if p.number > 1 {
		resp.Previous = pageURL(p.number - 1)
	}
	return resp
}
