package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopmitra/billing-api/internal/domain/port"
	"github.com/shopmitra/billing-api/internal/presentation/http/dto/response"
	"github.com/shopmitra/billing-api/pkg/pagination"
)

// CatalogHandler proxies product and customer search to the shop
// backend so the terminal talks to one host.
type CatalogHandler struct {
	backend port.BillingBackend
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(backend port.BillingBackend) *CatalogHandler {
	return &CatalogHandler{backend: backend}
}

// Products searches the backend's product catalog.
// GET /api/v1/products?search=&page=&per_page=
func (h *CatalogHandler) Products(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	params.Validate()

	result, err := h.backend.SearchProducts(c.Request.Context(), c.Query("search"), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Products retrieved", result)
}

// Customers searches the backend's customer list.
// GET /api/v1/customers?search=&page=&per_page=
func (h *CatalogHandler) Customers(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	params.Validate()

	result, err := h.backend.SearchCustomers(c.Request.Context(), c.Query("search"), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Customers retrieved", result)
}
