package relay

import "time"

// Session represents a conversation session. ID is also the upstream
// session identifier, so reusing a Session resumes upstream memory.
type Session struct {
	ID        string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}
