package models

// Permission is an immutable catalog entry from user_permission.
type Permission struct {
	ID    int64  `json:"id"`
	Key   string `json:"key"`
	Title string `json:"title"`
}

// Group is a user group together with the permissions granted to it.
// Permissions keep the order the join produced them in.
type Group struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Permissions []Permission `json:"permissions"`
}

// Groups maps group id to group.
type Groups map[int64]Group

// AddPermission inserts p, replacing an entry with the same id in place.
func (g *Group) AddPermission(p Permission) {
	for i := range g.Permissions {
		if g.Permissions[i].ID == p.ID {
			g.Permissions[i] = p
			return
		}
	}
	g.Permissions = append(g.Permissions, p)
}

// Permission looks a granted permission up by id.
func (g Group) Permission(id int64) (Permission, bool) {
	for _, p := range g.Permissions {
		if p.ID == id {
			return p, true
		}
	}
	return Permission{}, false
}

// HasPermission reports whether the group grants a permission whose key is
// exactly key. The comparison is case-sensitive.
func (g Group) HasPermission(key string) bool {
	for _, p := range g.Permissions {
		if p.Key == key {
			return true
		}
	}
	return false
}
