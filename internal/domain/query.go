package domain

import (
	"net/url"
	"strconv"
)

// Defaults applied when the incoming query string omits a parameter.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
	DefaultSortBy  = "id"
	DefaultSortDir = "desc"
)

// QueryState is the structured, fully defaulted form of a listing's
// search/sort/page query parameters. Search is the empty string when no
// filter is active; Encode omits the key entirely in that case so a cleared
// search never round-trips as search="".
//
// Extra carries unrecognized query parameters through encode/decode so
// callers can attach custom filters without the codec knowing about them.
type QueryState struct {
	Search  string     `json:"search,omitempty"`
	Page    int        `json:"page"`
	PerPage int        `json:"per_page"`
	SortBy  string     `json:"sort_by"`
	SortDir string     `json:"sort_dir"`
	Extra   url.Values `json:"-"`
}

// DefaultQueryState returns a QueryState populated with the listing defaults.
func DefaultQueryState() QueryState {
	return QueryState{
		Page:    DefaultPage,
		PerPage: DefaultPerPage,
		SortBy:  DefaultSortBy,
		SortDir: DefaultSortDir,
	}
}

// Encode converts the state to query parameters. The search key is deleted
// entirely when the search value is empty. Extra parameters are re-attached
// unless they would shadow a recognized key.
func (q QueryState) Encode() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("per_page", strconv.Itoa(q.PerPage))
	v.Set("sort_by", q.SortBy)
	v.Set("sort_dir", q.SortDir)
	for key, vals := range q.Extra {
		if v.Has(key) || key == "search" {
			continue
		}
		for _, val := range vals {
			v.Add(key, val)
		}
	}
	return v
}

// URL builds a navigation target for the state against the given base path.
func (q QueryState) URL(basePath string) string {
	return basePath + "?" + q.Encode().Encode()
}

// WithSearch returns a copy with the search filter replaced and the page
// reset to 1. An empty value clears the filter.
func (q QueryState) WithSearch(search string) QueryState {
	q.Search = search
	q.Page = DefaultPage
	return q
}

// WithSort returns a copy sorted by the given field and resets the page.
// Clicking a column already sorted ascending flips it to descending; any
// other state sorts the column ascending.
func (q QueryState) WithSort(field string) QueryState {
	if q.SortBy == field && q.SortDir == "asc" {
		q.SortDir = "desc"
	} else {
		q.SortBy = field
		q.SortDir = "asc"
	}
	q.Page = DefaultPage
	return q
}

// WithPerPage returns a copy with the page size replaced and the page reset.
func (q QueryState) WithPerPage(perPage int) QueryState {
	q.PerPage = perPage
	q.Page = DefaultPage
	return q
}

// WithPage returns a copy pointing at the given page.
func (q QueryState) WithPage(page int) QueryState {
	q.Page = page
	return q
}
