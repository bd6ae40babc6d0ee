package domain

import "strings"

// MenuItem is one entry of the account sidebar.
type MenuItem struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

type menuEntry struct {
	item  MenuItem
	roles []string // empty means every role
}

var accountMenu = []menuEntry{
	{item: MenuItem{Key: "profile", Label: "Profile", Path: "/account/profile"}},
	{item: MenuItem{Key: "purchase", Label: "Purchase history", Path: "/account/purchase"}, roles: []string{RoleUser}},
	{item: MenuItem{Key: "addresses", Label: "Addresses", Path: "/account/addresses"}, roles: []string{RoleUser}},
	{item: MenuItem{Key: "following", Label: "Favourite products", Path: "/account/following"}},
	{item: MenuItem{Key: "dashboard", Label: "Dashboard", Path: "/admin/dashboard"}, roles: []string{RoleAdmin}},
	{item: MenuItem{Key: "category", Label: "Categories", Path: "/admin/category"}, roles: []string{RoleAdmin}},
	{item: MenuItem{Key: "producer", Label: "Producers", Path: "/admin/producer"}, roles: []string{RoleAdmin}},
	{item: MenuItem{Key: "product", Label: "Products", Path: "/admin/product"}, roles: []string{RoleAdmin}},
	{item: MenuItem{Key: "order", Label: "Orders", Path: "/admin/order"}, roles: []string{RoleAdmin}},
}

// NavigationFor returns the sidebar entries visible to role. The entry whose
// section and page match the first two segments of path is marked active.
func NavigationFor(role, path string) []MenuItem {
	current := section(path)
	out := make([]MenuItem, 0, len(accountMenu))
	for _, e := range accountMenu {
		if !allowed(e.roles, role) {
			continue
		}
		it := e.item
		it.Active = current != "" && section(it.Path) == current
		out = append(out, it)
	}
	return out
}

func allowed(roles []string, role string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// section keeps the first two path segments: "/account/purchase/12" → "account/purchase".
func section(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[0] + "/" + parts[1]
}
