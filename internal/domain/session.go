package domain

import "time"

// Well-known session metadata fields.
const (
	FieldLastActive       = "last_active"
	FieldAgentInitialized = "agent_initialized"
	FieldCreatedAt        = "created_at"
)

// Session is the metadata record kept for one chat session.
type Session struct {
	ID         string            `json:"session_id"`
	LastActive time.Time         `json:"last_active"`
	Metadata   map[string]string `json:"metadata"`
}
