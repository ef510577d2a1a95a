package user

import (
	"fmt"
	"html/template"
	"strconv"

	"github.com/userdeck/userdeck/internal/domain"
	"github.com/userdeck/userdeck/internal/table"
)

// Badge styles for the role and verification columns.
var (
	roleBadges = map[string]string{
		domain.RoleAdmin:   "badge-red",
		domain.RoleManager: "badge-amber",
		domain.RoleUser:    "badge-gray",
	}
	verifiedBadges = map[string]string{
		"verified":   "badge-green",
		"unverified": "badge-gray",
	}
)

// listColumns is the column schema of the user listing grid. Sortable column
// IDs match database column names so the sort URLs round-trip straight into
// the repository's allow-list.
func listColumns() []table.Column[UserResource] {
	return []table.Column[UserResource]{
		{
			ID: "id", Title: "ID", Kind: table.Text, Sortable: true,
			Field: func(u UserResource) string { return strconv.FormatUint(uint64(u.ID), 10) },
		},
		{
			ID: "avatar", Title: "Avatar", Kind: table.Avatar,
			Field: func(u UserResource) string {
				if u.Avatar != nil {
					return *u.Avatar
				}
				return ""
			},
		},
		{
			ID: "name", Title: "Name", Kind: table.Text, Sortable: true,
			Field: func(u UserResource) string { return u.Name },
		},
		{
			ID: "email", Title: "Email", Kind: table.Text, Sortable: true,
			Field: func(u UserResource) string { return u.Email },
		},
		{
			ID: "role", Title: "Role", Kind: table.Badge, Sortable: true,
			Field: func(u UserResource) string { return u.Role },
			Badge: roleBadges,
		},
		{
			ID: "verified", Title: "Verified", Kind: table.Badge,
			Field: func(u UserResource) string {
				if u.EmailVerifiedAt != nil {
					return "verified"
				}
				return "unverified"
			},
			Badge: verifiedBadges,
		},
		{
			ID: "created_at", Title: "Created", Kind: table.Text, Sortable: true,
			Field: func(u UserResource) string {
				if u.CreatedAt != nil {
					return *u.CreatedAt
				}
				return ""
			},
		},
		{
			ID: "actions", Title: "", Kind: table.Custom, Fixed: true,
			Cell: actionsCell,
		},
	}
}

// actionsCell renders the per-row view/edit/delete controls. The delete
// button is wired up by the datatable script via its data attribute.
func actionsCell(u UserResource) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<div class="row-actions">`+
			`<a href="/users/%d">View</a>`+
			`<a href="/users/%d/edit">Edit</a>`+
			`<button type="button" class="link danger" data-delete-url="/users/%d">Delete</button>`+
			`</div>`,
		u.ID, u.ID, u.ID))
}

// rowID supplies the identifier carried by each row's selection checkbox.
func rowID(u UserResource) string {
	return strconv.FormatUint(uint64(u.ID), 10)
}
