package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopmitra/billing-api/internal/application/billing"
	"github.com/shopmitra/billing-api/internal/presentation/http/dto/response"
)

// SessionHandler manages billing session lifecycle
type SessionHandler struct {
	sessions *billing.SessionManager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *billing.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create starts a fresh billing session for the terminal.
// POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	session := h.sessions.Create()

	session.Lock()
	view := response.NewSessionView(session, h.sessions.Aggregator())
	session.Unlock()

	response.Created(c, "Billing session created", view)
}

// Get returns the session snapshot: cart, totals, payment state.
// GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	session := getSession(c, h.sessions)
	if session == nil {
		return
	}

	session.Lock()
	view := response.NewSessionView(session, h.sessions.Aggregator())
	session.Unlock()

	response.OK(c, "Billing session retrieved", view)
}

// Delete discards a session and everything in its cart.
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	h.sessions.Remove(id)
	response.Success(c, http.StatusOK, "Billing session discarded", nil)
}
