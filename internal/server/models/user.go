package models

import "time"

// User is a row of the user table. PasswordHash is only populated on the
// credential lookup path and is never serialized.
type User struct {
	ID           int64     `json:"id"`
	GroupID      int64     `json:"group_id"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
	UserName     string    `json:"username"`
	PasswordHash string    `json:"-"`
}

// UserView is what callers get back when reading a user: the row without
// its password hash, with the group resolved. Group is nil when the user's
// group id does not exist.
type UserView struct {
	ID       int64     `json:"id"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	UserName string    `json:"username"`
	Group    *Group    `json:"group"`
}

// HasPermission reports whether the user's group grants key.
func (v *UserView) HasPermission(key string) bool {
	if v == nil || v.Group == nil {
		return false
	}
	return v.Group.HasPermission(key)
}
