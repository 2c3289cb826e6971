package models

import "time"

// Session is the state kept for a logged-in browser context. The fingerprint
// binds it to the user agent and address it was created from.
type Session struct {
	Status      bool      `json:"status"`
	LoggedInAt  time.Time `json:"logged_in_at"`
	UserID      int64     `json:"user_id"`
	Fingerprint string    `json:"fingerprint"`
}
