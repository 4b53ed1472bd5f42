package relay

import "time"

// Message is one turn of a conversation in canonical form.
type Message struct {
	ID        string
	Role      Role
	Text      string
	CreatedAt time.Time
}
