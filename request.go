package relay

import (
	"fmt"
	"strings"
)

// Request is one question sent to the upstream chatflow.
type Request struct {
	Question string
	// SessionID ties the request to upstream conversation memory. Empty means
	// the upstream treats the question as a new conversation.
	SessionID string
}

// Validate checks universal constraints on Request.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return fmt.Errorf("question must not be empty: %w", ErrValidation)
	}
	return nil
}
