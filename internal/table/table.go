// Package table renders a generic paginated, sortable, searchable, and
// bulk-actionable data grid. A table is described by a column schema and a
// page of records; Build projects both into a View consumed by the shared
// datatable template partial.
//
// The component is a pure projection: it fetches nothing itself. Every
// control it emits is a URL built through the query-state codec, so all
// state transitions happen via full query-string navigation and the grid is
// safe to re-render from scratch on every response.
package table

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"html/template"
	"slices"

	"github.com/userdeck/userdeck/internal/domain"
)

// Kind selects how a column renders its cells. Text escapes the field value,
// Badge wraps it in a styled pill chosen by value, Avatar renders an image
// with an initial fallback, and Custom delegates to the column's Cell func.
type Kind int

const (
	Text Kind = iota
	Badge
	Avatar
	Custom
)

// Column describes one column of the grid for row type T.
//
// Field supplies the display value for Text, Badge, and Avatar columns.
// Cell is required for Custom columns and ignored otherwise. Fixed columns
// never appear in the column visibility menu.
type Column[T any] struct {
	ID       string
	Title    string
	Kind     Kind
	Sortable bool
	Fixed    bool
	Field    func(T) string
	Badge    map[string]string
	Cell     func(T) template.HTML
}

// Confirm describes the acknowledgment dialog shown before a destructive
// bulk action runs.
type Confirm struct {
	Title       string
	Description string
}

// BulkAction is one entry of the bulk actions menu. The client invokes it
// with the identifiers of the currently selected rows.
type BulkAction struct {
	Label   string
	Icon    string
	Class   string
	Method  string
	URL     string
	Confirm *Confirm
}

// BulkDelete configures the built-in confirmable bulk delete action.
type BulkDelete struct {
	URL         string
	Title       string
	Description string
}

// Options configures a grid beyond its column schema.
//
// RowID is required whenever any bulk action is enabled: it supplies the
// stable identifier carried by each row's selection checkbox.
type Options[T any] struct {
	BasePath       string
	RowID          func(T) string
	BulkActions    []BulkAction
	BulkDelete     *BulkDelete
	PerPageChoices []int
	EmptyMessage   string
}

// HeaderCell is one rendered header. Selection marks the checkbox column,
// which is always first, never sortable, and never hideable.
type HeaderCell struct {
	ID        string
	Title     string
	Sortable  bool
	SortURL   string
	Sorted    string // "", "asc" or "desc" when this column drives the sort
	Hideable  bool
	Selection bool
}

// CellView is one rendered cell.
type CellView struct {
	ColumnID string
	HTML     template.HTML
}

// RowView is one rendered row. ID is empty when selection is disabled.
type RowView struct {
	ID    string
	Cells []CellView
}

// PerPageChoice is one entry of the page-size selector.
type PerPageChoice struct {
	Value    int
	URL      string
	Selected bool
}

// View is the fully rendered grid model handed to the datatable partial.
type View struct {
	BasePath     string
	Headers      []HeaderCell
	Rows         []RowView
	ColSpan      int
	EmptyMessage string
	Selectable   bool
	Bulk         []BulkAction
	Search       string
	StateJSON    string
	Meta         domain.PageMeta
	PerPage      []PerPageChoice
}

var defaultPerPageChoices = []int{10, 25, 50, 100}

const (
	defaultEmptyMessage      = "No results."
	defaultBulkDeleteTitle   = "Delete selected items"
	defaultBulkDeleteMessage = "Are you sure you want to delete the selected items? This action cannot be undone."
)

// Build projects a column schema and a page of records into a View.
func Build[T any](cols []Column[T], page *domain.Page[T], opts Options[T]) (*View, error) {
	if page == nil {
		return nil, errors.New("table: page is nil")
	}
	if opts.BasePath == "" {
		return nil, errors.New("table: base path is required")
	}
	if len(cols) == 0 {
		return nil, errors.New("table: at least one column is required")
	}
	for _, col := range cols {
		if col.ID == "" {
			return nil, errors.New("table: column without ID")
		}
		if col.Kind == Custom && col.Cell == nil {
			return nil, fmt.Errorf("table: custom column %q has no Cell renderer", col.ID)
		}
		if col.Kind != Custom && col.Field == nil {
			return nil, fmt.Errorf("table: column %q has no Field accessor", col.ID)
		}
	}

	bulk := slices.Clone(opts.BulkActions)
	if opts.BulkDelete != nil {
		bulk = append(bulk, builtinBulkDelete(opts.BulkDelete))
	}
	selectable := len(bulk) > 0
	if selectable && opts.RowID == nil {
		return nil, errors.New("table: bulk actions require a RowID accessor")
	}

	state := page.QueryParams

	headers := make([]HeaderCell, 0, len(cols)+1)
	if selectable {
		headers = append(headers, HeaderCell{ID: "select", Selection: true})
	}
	for _, col := range cols {
		h := HeaderCell{
			ID:       col.ID,
			Title:    col.Title,
			Sortable: col.Sortable,
			Hideable: !col.Fixed,
		}
		if col.Sortable {
			h.SortURL = state.WithSort(col.ID).URL(opts.BasePath)
			if state.SortBy == col.ID {
				h.Sorted = state.SortDir
			}
		}
		headers = append(headers, h)
	}

	rows := make([]RowView, 0, len(page.Data))
	for _, item := range page.Data {
		row := RowView{Cells: make([]CellView, 0, len(cols))}
		if selectable {
			row.ID = opts.RowID(item)
		}
		for _, col := range cols {
			row.Cells = append(row.Cells, CellView{
				ColumnID: col.ID,
				HTML:     renderCell(col, item),
			})
		}
		rows = append(rows, row)
	}

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("table: encode query state: %w", err)
	}

	emptyMessage := opts.EmptyMessage
	if emptyMessage == "" {
		emptyMessage = defaultEmptyMessage
	}

	return &View{
		BasePath:     opts.BasePath,
		Headers:      headers,
		Rows:         rows,
		ColSpan:      len(headers),
		EmptyMessage: emptyMessage,
		Selectable:   selectable,
		Bulk:         bulk,
		Search:       state.Search,
		StateJSON:    string(stateJSON),
		Meta:         page.Meta,
		PerPage:      perPageChoices(state, opts),
	}, nil
}

// renderCell is the single dispatcher interpreting the column kind variants.
func renderCell[T any](col Column[T], row T) template.HTML {
	if col.Kind == Custom {
		return col.Cell(row)
	}

	value := col.Field(row)
	switch col.Kind {
	case Badge:
		class := col.Badge[value]
		if class == "" {
			class = "badge-default"
		}
		return template.HTML(fmt.Sprintf(`<span class="badge %s">%s</span>`,
			html.EscapeString(class), html.EscapeString(value)))
	case Avatar:
		if value == "" {
			return template.HTML(`<span class="avatar avatar-fallback"></span>`)
		}
		return template.HTML(fmt.Sprintf(`<img class="avatar" src="%s" alt="">`,
			html.EscapeString(value)))
	default:
		return template.HTML(html.EscapeString(value))
	}
}

func builtinBulkDelete(bd *BulkDelete) BulkAction {
	confirm := &Confirm{
		Title:       bd.Title,
		Description: bd.Description,
	}
	if confirm.Title == "" {
		confirm.Title = defaultBulkDeleteTitle
	}
	if confirm.Description == "" {
		confirm.Description = defaultBulkDeleteMessage
	}
	return BulkAction{
		Label:   "Delete selected",
		Icon:    "trash",
		Class:   "danger",
		Method:  "DELETE",
		URL:     bd.URL,
		Confirm: confirm,
	}
}

func perPageChoices[T any](state domain.QueryState, opts Options[T]) []PerPageChoice {
	values := opts.PerPageChoices
	if len(values) == 0 {
		values = defaultPerPageChoices
	}
	if !slices.Contains(values, state.PerPage) {
		values = append(slices.Clone(values), state.PerPage)
		slices.Sort(values)
	}

	choices := make([]PerPageChoice, 0, len(values))
	for _, v := range values {
		choices = append(choices, PerPageChoice{
			Value:    v,
			URL:      state.WithPerPage(v).URL(opts.BasePath),
			Selected: v == state.PerPage,
		})
	}
	return choices
}
