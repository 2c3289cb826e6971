package common

// SessionIDHeaderName is the gRPC metadata key carrying the stable
// per-browser session identifier in both directions.
const SessionIDHeaderName = "session-id"

// UserAgentHeaderName is the gRPC metadata key the client user agent
// arrives under.
const UserAgentHeaderName = "user-agent"
