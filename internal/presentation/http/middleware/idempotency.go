package middleware

import (
	"bytes"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopmitra/billing-api/internal/domain/entity"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyStore caches responses by idempotency key so a retried
// payment request replays the original response instead of re-running
// the flow. Keys are scoped to the billing session.
type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

// NewIdempotencyStore creates an in-memory idempotency store and starts
// its cleanup goroutine.
func NewIdempotencyStore() *IdempotencyStore {
	s := &IdempotencyStore{keys: make(map[string]*entity.IdempotencyKey)}
	go s.cleanupLoop()
	return s
}

func (s *IdempotencyStore) get(sessionID, key string) *entity.IdempotencyKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	ik, ok := s.keys[sessionID+"|"+key]
	if !ok || ik.IsExpired() {
		return nil
	}
	return ik
}

func (s *IdempotencyStore) put(ik *entity.IdempotencyKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[ik.SessionID+"|"+ik.Key] = ik
}

// cleanupLoop periodically removes expired keys.
func (s *IdempotencyStore) cleanupLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		for k, ik := range s.keys {
			if ik.IsExpired() {
				delete(s.keys, k)
			}
		}
		s.mu.Unlock()
	}
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency prevents duplicate POST requests using idempotency keys.
// Requests without a key proceed normally; the session id path parameter
// scopes the key.
func Idempotency(store *IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "POST" {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		sessionID := c.Param("id")

		// If key exists and not expired, return cached response
		if existing := store.get(sessionID, idempotencyKey); existing != nil {
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		// Capture the response
		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only replay successful responses: a failed attempt may be
		// legitimately retried with the same key.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			store.put(&entity.IdempotencyKey{
				Key:          idempotencyKey,
				SessionID:    sessionID,
				Endpoint:     c.Request.Method + " " + c.FullPath(),
				ResponseCode: c.Writer.Status(),
				ResponseBody: blw.body.String(),
				ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
				CreatedAt:    time.Now(),
			})
		}
	}
}
