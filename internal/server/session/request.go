// Package session holds the per-request context used by the session manager
// and the store the session records live in.
package session

import "time"

// Request is what the session manager knows about the current request.
// SessionID is the stable per-browser identifier the transport assigns.
type Request struct {
	SessionID string
	ClientIP  string
	UserAgent string
	Time      time.Time
}
