package domain

import (
	"strconv"

	"github.com/simp-lee/pagination"
)

// PageLink is one entry of the pagination control strip. URL is nil for
// disabled entries (previous on the first page, next on the last).
type PageLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// PageMeta describes the position of a page within the filtered result set.
// From and To are 0 when the page contains no records.
type PageMeta struct {
	CurrentPage int        `json:"current_page"`
	From        int        `json:"from"`
	To          int        `json:"to"`
	LastPage    int        `json:"last_page"`
	PerPage     int        `json:"per_page"`
	Total       int64      `json:"total"`
	Links       []PageLink `json:"links"`
}

// PageLinks holds the shortcut navigation URLs for a page.
type PageLinks struct {
	First *string `json:"first"`
	Last  *string `json:"last"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// Page is one bounded slice of filtered, sorted records together with the
// echoed query state and pagination metadata. Every URL it carries forwards
// all currently-set query parameters, so a page-2 navigation never drops an
// active search filter.
type Page[T any] struct {
	Data        []T        `json:"data"`
	QueryParams QueryState `json:"queryParams"`
	Meta        PageMeta   `json:"meta"`
	Links       PageLinks  `json:"links"`
}

const (
	prevLabel = "&laquo; Previous"
	nextLabel = "Next &raquo;"
)

// NewPage maps a paginator result onto a Page: the strip of numbered links
// comes from pg.Pages, the boundary pointers from pg.PreviousPage and
// pg.NextPage, and every URL is rebuilt from the query state against basePath.
//
// The paginator clamps a page number past the end down to the last page; the
// listing contract instead echoes the requested page with an empty data array,
// so in that case the clamped records are discarded and from/to stay 0.
func NewPage[T any](pg *pagination.Pagination[T], state QueryState, basePath string) *Page[T] {
	items := pg.Items
	if items == nil {
		items = []T{}
	}

	current := pg.CurrentPage
	if state.Page > pg.LastPage {
		items = []T{}
		current = state.Page
	}

	from, to := 0, 0
	if len(items) > 0 {
		from = (current-1)*pg.ItemsPerPage + 1
		to = from + len(items) - 1
	}

	pageURL := func(n int) *string {
		u := state.WithPage(n).URL(basePath)
		return &u
	}
	optionalURL := func(n *int) *string {
		if n == nil {
			return nil
		}
		return pageURL(*n)
	}

	prevURL := optionalURL(pg.PreviousPage)
	nextURL := optionalURL(pg.NextPage)
	if current > pg.LastPage {
		prevURL = pageURL(current - 1)
		nextURL = nil
	}

	links := make([]PageLink, 0, len(pg.Pages)+2)
	links = append(links, PageLink{URL: prevURL, Label: prevLabel})
	for _, n := range pg.Pages {
		links = append(links, PageLink{
			URL:    pageURL(n),
			Label:  strconv.Itoa(n),
			Active: n == current,
		})
	}
	links = append(links, PageLink{URL: nextURL, Label: nextLabel})

	return &Page[T]{
		Data:        items,
		QueryParams: state,
		Meta: PageMeta{
			CurrentPage: current,
			From:        from,
			To:          to,
			LastPage:    pg.LastPage,
			PerPage:     pg.ItemsPerPage,
			Total:       pg.TotalItems,
			Links:       links,
		},
		Links: PageLinks{
			First: pageURL(pg.FirstPage),
			Last:  pageURL(pg.LastPage),
			Next:  nextURL,
			Prev:  prevURL,
		},
	}
}

// MapPage converts a Page's records to another representation while keeping
// the query state and metadata intact. Used by serialization layers to emit
// external resources without recomputing pagination.
func MapPage[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := &Page[U]{
		Data:        make([]U, len(p.Data)),
		QueryParams: p.QueryParams,
		Meta:        p.Meta,
		Links:       p.Links,
	}
	for i, item := range p.Data {
		out.Data[i] = fn(item)
	}
	return out
}
