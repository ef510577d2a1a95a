package pkg

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/userdeck/userdeck/internal/domain"
)

// recognizedParams lists the query keys owned by the query-state codec.
// Anything else rides along in QueryState.Extra untouched.
var recognizedParams = map[string]bool{
	"search":   true,
	"page":     true,
	"per_page": true,
	"sort_by":  true,
	"sort_dir": true,
}

// ParseQueryState decodes the request query string into a fully populated
// QueryState. Missing or malformed values fall back to the defaults; the
// search field is only set when the incoming value is non-empty, so its
// presence controls whether the filter step runs at all.
func ParseQueryState(c *gin.Context) domain.QueryState {
	state := domain.DefaultQueryState()

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page >= 1 {
		state.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil && perPage >= 1 {
		if perPage > domain.MaxPerPage {
			perPage = domain.MaxPerPage
		}
		state.PerPage = perPage
	}
	if sortBy := strings.TrimSpace(c.Query("sort_by")); sortBy != "" {
		state.SortBy = sortBy
	}
	switch dir := strings.ToLower(strings.TrimSpace(c.Query("sort_dir"))); dir {
	case "asc", "desc":
		state.SortDir = dir
	}
	if search := c.Query("search"); search != "" {
		state.Search = search
	}

	extra := url.Values{}
	for key, values := range c.Request.URL.Query() {
		if recognizedParams[key] {
			continue
		}
		for _, v := range values {
			extra.Add(key, v)
		}
	}
	if len(extra) > 0 {
		state.Extra = extra
	}

	return state
}
