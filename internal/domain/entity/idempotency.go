package entity

import (
	"time"
)

// IdempotencyKey caches the response of a processed payment request so a
// retried request with the same key replays it instead of re-executing.
type IdempotencyKey struct {
	Key          string    `json:"key"`
	SessionID    string    `json:"session_id"`
	Endpoint     string    `json:"endpoint"`
	ResponseCode int       `json:"response_code"`
	ResponseBody string    `json:"response_body"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsExpired checks if the idempotency key has expired.
func (ik *IdempotencyKey) IsExpired() bool {
	return time.Now().After(ik.ExpiresAt)
}
