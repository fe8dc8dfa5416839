package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopmitra/billing-api/internal/application/billing"
	"github.com/shopmitra/billing-api/internal/domain/entity"
	"github.com/shopmitra/billing-api/internal/domain/enum"
	"github.com/shopmitra/billing-api/internal/presentation/http/dto/request"
	"github.com/shopmitra/billing-api/internal/presentation/http/dto/response"
)

// CartHandler mutates the cart inside a billing session
type CartHandler struct {
	sessions *billing.SessionManager
}

// NewCartHandler creates a new cart handler
func NewCartHandler(sessions *billing.SessionManager) *CartHandler {
	return &CartHandler{sessions: sessions}
}

// AddItem adds a product line to the cart, or bumps its quantity if the
// product is already present.
// POST /api/v1/sessions/:id/items
func (h *CartHandler) AddItem(c *gin.Context) {
	session := getSession(c, h.sessions)
	if session == nil {
		return
	}

	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	product := &entity.Product{
		ID:         req.ProductID,
		Name:       req.Name,
		Price:      req.Price,
		CostPrice:  req.CostPrice,
		TaxPercent: req.TaxPercent,
		Stock:      req.Stock,
	}

	session.Lock()
	defer session.Unlock()

	if err := session.Cart.AddItem(product); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added", response.NewSessionView(session, h.sessions.Aggregator()))
}

// UpdateItem patches a cart line: quantity, discount input, or details.
// PATCH /api/v1/sessions/:id/items/:productID
func (h *CartHandler) UpdateItem(c *gin.Context) {
	session := getSession(c, h.sessions)
	if session == nil {
		return
	}

	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	session.Lock()
	defer session.Unlock()

	if req.Quantity != nil {
		if err := session.Cart.SetQuantity(productID, *req.Quantity); err != nil {
			response.Error(c, err)
			return
		}
	}
	if req.Discount != nil {
		if err := session.Cart.SetDiscount(productID, *req.Discount); err != nil {
			response.Error(c, err)
			return
		}
	}
	if req.Details != nil {
		if err := session.Cart.SetDetails(productID, *req.Details); err != nil {
			response.Error(c, err)
			return
		}
	}
	response.OK(c, "Item updated", response.NewSessionView(session, h.sessions.Aggregator()))
}

// RemoveItem drops a line from the cart.
// DELETE /api/v1/sessions/:id/items/:productID
func (h *CartHandler) RemoveItem(c *gin.Context) {
	session := getSession(c, h.sessions)
	if session == nil {
		return
	}

	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	session.Lock()
	defer session.Unlock()

	session.Cart.RemoveItem(productID)
	response.OK(c, "Item removed", response.NewSessionView(session, h.sessions.Aggregator()))
}

// SetCustomer selects the customer the bill is for.
// PUT /api/v1/sessions/:id/customer
func (h *CartHandler) SetCustomer(c *gin.Context) {
	session := getSession(c, h.sessions)
	if session == nil {
		return
	}

	var req request.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	session.Lock()
	defer session.Unlock()

	session.Cart.SetCustomer(&entity.Customer{
		ID:    req.CustomerID,
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		State: req.State,
	})
	response.OK(c, "Customer selected", response.NewSessionView(session, h.sessions.Aggregator()))
}

// SetPayment selects the payment method and, optionally, a manual paying
// amount for a partial bill.
// PUT /api/v1/sessions/:id/payment
func (h *CartHandler) SetPayment(c *gin.Context) {
	session := getSession(c, h.sessions)
	if session == nil {
		return
	}

	var req request.SetPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	method, err := enum.ParsePaymentMethod(req.Method)
	if err != nil {
		response.BadRequest(c, "Unknown payment method")
		return
	}

	session.Lock()
	defer session.Unlock()

	session.Cart.SetPaymentMethod(method)
	if req.PayingAmount != nil {
		session.Cart.SetPayingAmount(*req.PayingAmount)
	}
	response.OK(c, "Payment settings updated", response.NewSessionView(session, h.sessions.Aggregator()))
}
