package response

import (
	"github.com/shopmitra/billing-api/internal/application/billing"
	"github.com/shopmitra/billing-api/internal/domain/entity"
	"github.com/shopmitra/billing-api/internal/domain/enum"
)

// SessionView is the full snapshot a terminal needs to render: the cart,
// the computed totals, and where the payment machine currently stands.
type SessionView struct {
	SessionID     string             `json:"session_id"`
	Customer      *entity.Customer   `json:"customer"`
	Items         []*entity.LineItem `json:"items"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Totals        *billing.Totals    `json:"totals"`
	State         enum.DispatchState `json:"state"`
	LastError     string             `json:"last_error,omitempty"`
}

// NewSessionView snapshots a locked session.
func NewSessionView(s *billing.Session, agg *billing.Aggregator) *SessionView {
	items := s.Cart.Items()
	if items == nil {
		items = []*entity.LineItem{}
	}
	return &SessionView{
		SessionID:     s.ID.String(),
		Customer:      s.Cart.Customer(),
		Items:         items,
		PaymentMethod: s.Cart.PaymentMethod(),
		Totals:        agg.Totals(s.Cart),
		State:         s.Dispatcher.State(),
		LastError:     s.Dispatcher.LastError(),
	}
}
