package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newIdempotencyRouter(store *IdempotencyStore, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/sessions/:id/pay", Idempotency(store), func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusOK, gin.H{"calls": *calls})
	})
	r.POST("/sessions/:id/fail", Idempotency(store), func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusBadRequest, gin.H{"error": "nope"})
	})
	return r
}

func TestIdempotencyReplaysCachedResponse(t *testing.T) {
	store := NewIdempotencyStore()
	calls := 0
	r := newIdempotencyRouter(store, &calls)

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sessions/abc/pay", nil)
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		r.ServeHTTP(w, req)
		return w
	}

	first := do()
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d", first.Code)
	}
	second := do()
	if second.Code != http.StatusOK {
		t.Fatalf("second status = %d", second.Code)
	}

	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}
	if second.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Error("replay header missing on second response")
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("replayed body differs: %q vs %q", first.Body.String(), second.Body.String())
	}
}

func TestIdempotencyScopedBySession(t *testing.T) {
	store := NewIdempotencyStore()
	calls := 0
	r := newIdempotencyRouter(store, &calls)

	for _, session := range []string{"s1", "s2"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sessions/"+session+"/pay", nil)
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		r.ServeHTTP(w, req)
	}

	if calls != 2 {
		t.Errorf("same key across sessions ran %d times, want 2", calls)
	}
}

func TestIdempotencySkipsWithoutKey(t *testing.T) {
	store := NewIdempotencyStore()
	calls := 0
	r := newIdempotencyRouter(store, &calls)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sessions/abc/pay", nil)
		r.ServeHTTP(w, req)
	}

	if calls != 2 {
		t.Errorf("keyless requests ran %d times, want 2", calls)
	}
}

func TestIdempotencyDoesNotCacheFailures(t *testing.T) {
	store := NewIdempotencyStore()
	calls := 0
	r := newIdempotencyRouter(store, &calls)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sessions/abc/fail", nil)
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	}

	// A failed attempt is retried for real, not replayed.
	if calls != 2 {
		t.Errorf("failed requests ran %d times, want 2", calls)
	}
}
