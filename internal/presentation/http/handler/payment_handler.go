package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopmitra/billing-api/internal/application/billing"
	"github.com/shopmitra/billing-api/internal/domain/entity"
	"github.com/shopmitra/billing-api/internal/presentation/http/dto/request"
	"github.com/shopmitra/billing-api/internal/presentation/http/dto/response"
)

// PaymentHandler drives the payment flow for a billing session
type PaymentHandler struct {
	sessions *billing.SessionManager
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(sessions *billing.SessionManager) *PaymentHandler {
	return &PaymentHandler{sessions: sessions}
}

// Start begins a payment attempt. Cash and UPI settle in this call; card
// returns checkout parameters and the flow continues through Callback or
// Failed.
// POST /api/v1/sessions/:id/pay
func (h *PaymentHandler) Start(c *gin.Context) {
	session := getSession(c, h.sessions)
	if session == nil {
		return
	}

	// The body is optional; remarks default to empty.
	var req request.StartPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, bindError(err))
			return
		}
	}

	session.Lock()
	defer session.Unlock()

	result, err := session.Dispatcher.StartPayment(c.Request.Context(), req.Remarks)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment started", result)
}

// Callback consumes the hosted checkout's success callback and settles
// the bill. The signed triple travels to the backend for verification.
// POST /api/v1/sessions/:id/pay/callback
func (h *PaymentHandler) Callback(c *gin.Context) {
	session := getSession(c, h.sessions)
	if session == nil {
		return
	}

	var conf entity.PaymentConfirmation
	if err := c.ShouldBindJSON(&conf); err != nil {
		response.Error(c, bindError(err))
		return
	}

	session.Lock()
	defer session.Unlock()

	result, err := session.Dispatcher.HandleCheckoutSuccess(c.Request.Context(), &conf)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment settled", result)
}

// Failed consumes the hosted checkout's failure callback. The cart is
// preserved so the attempt can be retried.
// POST /api/v1/sessions/:id/pay/failed
func (h *PaymentHandler) Failed(c *gin.Context) {
	session := getSession(c, h.sessions)
	if session == nil {
		return
	}

	// The checkout widget may post an empty body when it is simply closed.
	var req request.CheckoutFailureRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, bindError(err))
			return
		}
	}

	session.Lock()
	defer session.Unlock()

	if err := session.Dispatcher.HandleCheckoutFailure(req.Description); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment attempt recorded as failed", response.NewSessionView(session, h.sessions.Aggregator()))
}
