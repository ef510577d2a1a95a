package pkg

import (
	"regexp"
	"slices"
	"strings"

	"gorm.io/gorm"

	"github.com/userdeck/userdeck/internal/domain"
)

// validFieldName matches only alphanumeric characters and underscores.
// Field names failing this pattern never reach the SQL string.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// SearchScope returns a GORM scope that keeps records where the search string
// is a case-insensitive substring of any of the given fields (OR semantics).
// An empty search produces a no-op scope.
func SearchScope(search string, fields []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search == "" {
			return db
		}

		pattern := "%" + strings.ToLower(search) + "%"
		conds := make([]string, 0, len(fields))
		args := make([]any, 0, len(fields))
		for _, field := range fields {
			if !validFieldName.MatchString(field) {
				continue
			}
			conds = append(conds, "LOWER("+field+") LIKE ?")
			args = append(args, pattern)
		}
		if len(conds) == 0 {
			return db
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	}
}

// SortScope returns a GORM scope that applies ORDER BY from the query state.
// A sort field outside the allowed list fails soft to the default sort field
// rather than failing the request; the requested direction is kept.
func SortScope(state domain.QueryState, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field := state.SortBy
		if !validFieldName.MatchString(field) || !slices.Contains(allowed, field) {
			field = domain.DefaultSortBy
		}

		dir := state.SortDir
		if dir != "asc" && dir != "desc" {
			dir = domain.DefaultSortDir
		}

		return db.Order(field + " " + dir)
	}
}

// PaginateScope returns a GORM scope that applies the offset/limit window a
// paginator slice callback receives. An offset past the end selects zero rows.
func PaginateScope(offset, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	}
}
