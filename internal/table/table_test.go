package table

import (
	"context"
	"html/template"
	"strings"
	"testing"

	"github.com/simp-lee/pagination"

	"github.com/userdeck/userdeck/internal/domain"
)

type row struct {
	ID    int
	Name  string
	State string
}

func textColumns() []Column[row] {
	return []Column[row]{
		{ID: "id", Title: "ID", Kind: Text, Sortable: true, Field: func(r row) string { return "#" }},
		{ID: "name", Title: "Name", Kind: Text, Sortable: true, Field: func(r row) string { return r.Name }},
	}
}

func pageOf(t *testing.T, items []row, state domain.QueryState) *domain.Page[row] {
	t.Helper()
	pg, err := pagination.NewPaginator(
		pagination.WithItemsPerPage[row](state.PerPage),
		pagination.WithKnownTotal[row](int64(len(items))),
		pagination.WithSliceCallback[row](func(context.Context, int, int) ([]row, error) {
			return items, nil
		}),
	).Paginate(context.Background(), state.Page)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	return domain.NewPage(pg, state, "/users")
}

func listState() domain.QueryState {
	return domain.DefaultQueryState()
}

func TestBuild_Validation(t *testing.T) {
	state := listState()
	page := pageOf(t, nil, state)

	tests := []struct {
		name string
		cols []Column[row]
		opts Options[row]
	}{
		{"missing base path", textColumns(), Options[row]{}},
		{"no columns", nil, Options[row]{BasePath: "/users"}},
		{
			"column without id",
			[]Column[row]{{Title: "X", Field: func(row) string { return "" }}},
			Options[row]{BasePath: "/users"},
		},
		{
			"custom column without cell",
			[]Column[row]{{ID: "x", Kind: Custom}},
			Options[row]{BasePath: "/users"},
		},
		{
			"text column without field",
			[]Column[row]{{ID: "x", Kind: Text}},
			Options[row]{BasePath: "/users"},
		},
		{
			"bulk action without row id accessor",
			textColumns(),
			Options[row]{BasePath: "/users", BulkDelete: &BulkDelete{URL: "/users/bulk-delete"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.cols, page, tt.opts); err == nil {
				t.Error("Build should fail")
			}
		})
	}

	if _, err := Build[row](textColumns(), nil, Options[row]{BasePath: "/users"}); err == nil {
		t.Error("Build should fail for a nil page")
	}
}

func TestBuild_SortHeaders(t *testing.T) {
	state := listState().WithSort("name") // name asc
	view, err := Build(textColumns(), pageOf(t, []row{{ID: 1, Name: "a"}}, state), Options[row]{BasePath: "/users"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var nameHeader, idHeader *HeaderCell
	for i := range view.Headers {
		switch view.Headers[i].ID {
		case "name":
			nameHeader = &view.Headers[i]
		case "id":
			idHeader = &view.Headers[i]
		}
	}
	if nameHeader == nil || idHeader == nil {
		t.Fatalf("headers = %+v; want id and name", view.Headers)
	}

	if nameHeader.Sorted != "asc" {
		t.Errorf("name Sorted = %q; want asc", nameHeader.Sorted)
	}
	// Clicking the ascending column must offer the descending toggle.
	if !strings.Contains(nameHeader.SortURL, "sort_dir=desc") {
		t.Errorf("name SortURL = %q; want a desc toggle", nameHeader.SortURL)
	}
	if !strings.Contains(nameHeader.SortURL, "page=1") {
		t.Errorf("name SortURL = %q; want the page reset to 1", nameHeader.SortURL)
	}

	if idHeader.Sorted != "" {
		t.Errorf("id Sorted = %q; want empty for inactive column", idHeader.Sorted)
	}
	if !strings.Contains(idHeader.SortURL, "sort_by=id") || !strings.Contains(idHeader.SortURL, "sort_dir=asc") {
		t.Errorf("id SortURL = %q; want sort_by=id ascending", idHeader.SortURL)
	}
}

func TestBuild_SelectionColumn(t *testing.T) {
	state := listState()
	opts := Options[row]{
		BasePath:   "/users",
		RowID:      func(r row) string { return "7" },
		BulkDelete: &BulkDelete{URL: "/users/bulk-delete"},
	}
	view, err := Build(textColumns(), pageOf(t, []row{{ID: 7, Name: "g"}}, state), opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !view.Selectable {
		t.Fatal("view should be selectable with a bulk action")
	}
	if !view.Headers[0].Selection {
		t.Error("first header should be the selection column")
	}
	if view.ColSpan != len(textColumns())+1 {
		t.Errorf("ColSpan = %d; want %d", view.ColSpan, len(textColumns())+1)
	}
	if view.Rows[0].ID != "7" {
		t.Errorf("row ID = %q; want 7", view.Rows[0].ID)
	}

	if len(view.Bulk) != 1 {
		t.Fatalf("bulk actions = %d; want 1", len(view.Bulk))
	}
	bulk := view.Bulk[0]
	if bulk.Method != "DELETE" || bulk.URL != "/users/bulk-delete" {
		t.Errorf("bulk action = %+v; want DELETE /users/bulk-delete", bulk)
	}
	if bulk.Confirm == nil || bulk.Confirm.Title == "" {
		t.Error("built-in bulk delete should carry a confirm dialog")
	}
}

func TestBuild_NoSelectionWithoutBulkActions(t *testing.T) {
	view, err := Build(textColumns(), pageOf(t, nil, listState()), Options[row]{BasePath: "/users"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if view.Selectable {
		t.Error("view should not be selectable without bulk actions")
	}
	if view.Headers[0].Selection {
		t.Error("no selection header expected")
	}
	if view.ColSpan != len(textColumns()) {
		t.Errorf("ColSpan = %d; want %d", view.ColSpan, len(textColumns()))
	}
}

func TestBuild_EmptyState(t *testing.T) {
	view, err := Build(textColumns(), pageOf(t, nil, listState()), Options[row]{BasePath: "/users"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(view.Rows) != 0 {
		t.Errorf("rows = %d; want 0", len(view.Rows))
	}
	if view.EmptyMessage != "No results." {
		t.Errorf("EmptyMessage = %q; want the default", view.EmptyMessage)
	}

	view, err = Build(textColumns(), pageOf(t, nil, listState()), Options[row]{
		BasePath:     "/users",
		EmptyMessage: "No users found.",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if view.EmptyMessage != "No users found." {
		t.Errorf("EmptyMessage = %q; want the override", view.EmptyMessage)
	}
}

func TestRenderCell(t *testing.T) {
	t.Run("text escapes html", func(t *testing.T) {
		col := Column[row]{ID: "name", Kind: Text, Field: func(r row) string { return r.Name }}
		got := string(renderCell(col, row{Name: "<script>"}))
		if strings.Contains(got, "<script>") {
			t.Errorf("cell = %q; markup leaked unescaped", got)
		}
	})

	t.Run("badge picks class by value", func(t *testing.T) {
		col := Column[row]{
			ID:    "state",
			Kind:  Badge,
			Field: func(r row) string { return r.State },
			Badge: map[string]string{"admin": "badge-red"},
		}
		got := string(renderCell(col, row{State: "admin"}))
		if !strings.Contains(got, "badge-red") || !strings.Contains(got, ">admin<") {
			t.Errorf("cell = %q; want a badge-red pill labeled admin", got)
		}

		got = string(renderCell(col, row{State: "guest"}))
		if !strings.Contains(got, "badge-default") {
			t.Errorf("cell = %q; want the fallback badge class", got)
		}
	})

	t.Run("avatar falls back without a url", func(t *testing.T) {
		col := Column[row]{ID: "avatar", Kind: Avatar, Field: func(r row) string { return r.Name }}
		got := string(renderCell(col, row{Name: ""}))
		if !strings.Contains(got, "avatar-fallback") {
			t.Errorf("cell = %q; want the fallback span", got)
		}

		got = string(renderCell(col, row{Name: "https://example.com/a.png"}))
		if !strings.Contains(got, `<img`) || !strings.Contains(got, "a.png") {
			t.Errorf("cell = %q; want an img tag", got)
		}
	})

	t.Run("custom delegates to the cell func", func(t *testing.T) {
		col := Column[row]{ID: "x", Kind: Custom, Cell: func(r row) template.HTML {
			return template.HTML("<b>custom</b>")
		}}
		if got := string(renderCell(col, row{})); got != "<b>custom</b>" {
			t.Errorf("cell = %q; want the raw custom markup", got)
		}
	})
}

func TestBuild_PerPageChoices(t *testing.T) {
	t.Run("defaults with current selected", func(t *testing.T) {
		view, err := Build(textColumns(), pageOf(t, nil, listState()), Options[row]{BasePath: "/users"})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if len(view.PerPage) != 4 {
			t.Fatalf("choices = %d; want 4", len(view.PerPage))
		}
		var selected int
		for _, choice := range view.PerPage {
			if choice.Selected {
				selected = choice.Value
			}
			if !strings.Contains(choice.URL, "page=1") {
				t.Errorf("choice URL %q should reset the page", choice.URL)
			}
		}
		if selected != 10 {
			t.Errorf("selected = %d; want 10", selected)
		}
	})

	t.Run("off-list current value is inserted", func(t *testing.T) {
		state := listState().WithPerPage(15)
		view, err := Build(textColumns(), pageOf(t, nil, state), Options[row]{BasePath: "/users"})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		values := make([]int, 0, len(view.PerPage))
		for _, choice := range view.PerPage {
			values = append(values, choice.Value)
		}
		want := []int{10, 15, 25, 50, 100}
		if len(values) != len(want) {
			t.Fatalf("values = %v; want %v", values, want)
		}
		for i := range want {
			if values[i] != want[i] {
				t.Fatalf("values = %v; want %v", values, want)
			}
		}
	})
}

func TestBuild_StateJSON(t *testing.T) {
	state := listState().WithSearch("jo")
	view, err := Build(textColumns(), pageOf(t, nil, state), Options[row]{BasePath: "/users"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(view.StateJSON, `"search":"jo"`) {
		t.Errorf("StateJSON = %q; want the search term", view.StateJSON)
	}
	if view.Search != "jo" {
		t.Errorf("Search = %q; want jo", view.Search)
	}

	// A cleared search must not appear in the serialized state at all.
	view, err = Build(textColumns(), pageOf(t, nil, listState()), Options[row]{BasePath: "/users"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(view.StateJSON, "search") {
		t.Errorf("StateJSON = %q; empty search should be omitted", view.StateJSON)
	}
}
