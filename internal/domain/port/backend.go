package port

import (
	"context"

	"github.com/shopmitra/billing-api/internal/domain/entity"
	"github.com/shopmitra/billing-api/pkg/pagination"
)

// BillingBackend is the shop-management backend the engine settles bills
// against. It owns invoice numbering, stock, and gateway signature
// verification; the engine only submits and reads.
type BillingBackend interface {
	// SubmitBill posts a finalized bill exactly once per successful
	// payment event and returns the invoice reference.
	SubmitBill(ctx context.Context, bill *entity.BillPayload) (*entity.InvoiceRef, error)
	// SearchProducts returns a page of catalog products matching the query.
	SearchProducts(ctx context.Context, query string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Product], error)
	// SearchCustomers returns a page of customers matching the query.
	SearchCustomers(ctx context.Context, query string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Customer], error)
}
