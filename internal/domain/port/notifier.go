package port

import (
	"context"

	"github.com/shopmitra/billing-api/internal/domain/entity"
)

// ReceiptNotifier delivers a finished receipt downstream. Implementations
// are fire-and-forget from the engine's perspective: a notifier failure
// never fails the bill.
type ReceiptNotifier interface {
	Notify(ctx context.Context, receipt *entity.Receipt) error
}
