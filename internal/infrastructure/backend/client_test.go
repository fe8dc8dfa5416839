package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopmitra/billing-api/internal/domain/entity"
	"github.com/shopmitra/billing-api/pkg/apperror"
	"github.com/shopmitra/billing-api/pkg/pagination"
)

func TestSubmitBill(t *testing.T) {
	var gotAuth string
	var gotBill entity.BillPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/bills" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBill); err != nil {
			t.Fatalf("decoding bill: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Bill created",
			"data": map[string]interface{}{
				"invoice_number": "INV-42",
				"paid_amount":    150.0,
			},
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Token: "svc-token"}, zerolog.Nop())

	bill := &entity.BillPayload{
		CustomerID:      uuid.New(),
		SellingSubtotal: 150,
		PaymentMethod:   "cash",
		PayingAmount:    150,
	}
	invoice, err := client.SubmitBill(context.Background(), bill)
	if err != nil {
		t.Fatalf("SubmitBill: %v", err)
	}

	if invoice.InvoiceNumber != "INV-42" {
		t.Errorf("invoice number = %q", invoice.InvoiceNumber)
	}
	if invoice.PaidAmount != 150 {
		t.Errorf("paid amount = %v", invoice.PaidAmount)
	}
	if gotAuth != "Bearer svc-token" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotBill.PaymentMethod != "cash" {
		t.Errorf("payment method on wire = %q", gotBill.PaymentMethod)
	}
}

func TestSubmitBillFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Customer does not exist",
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())

	_, err := client.SubmitBill(context.Background(), &entity.BillPayload{})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr := apperror.GetAppError(err)
	if appErr.Code != http.StatusUnprocessableEntity {
		t.Errorf("code = %d", appErr.Code)
	}
	if appErr.Message != "Customer does not exist" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestSearchProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/products" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("search"); got != "soap" {
			t.Errorf("search = %q", got)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"items": []map[string]interface{}{
					{"id": uuid.New().String(), "name": "Bath Soap", "price": 40, "tax": 18, "stock": 12},
				},
				"pagination": map[string]interface{}{
					"current_page": 2,
					"per_page":     15,
					"total":        16,
					"total_pages":  2,
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())

	result, err := client.SearchProducts(context.Background(), "soap", &pagination.PaginationParams{Page: 2, PerPage: 15})
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("items = %d", len(result.Items))
	}
	if result.Items[0].Name != "Bath Soap" {
		t.Errorf("name = %q", result.Items[0].Name)
	}
	if result.Items[0].TaxPercent != 18 {
		t.Errorf("tax = %v", result.Items[0].TaxPercent)
	}
	if result.Pagination.CurrentPage != 2 {
		t.Errorf("current page = %d", result.Pagination.CurrentPage)
	}
}

func TestSearchCustomersDefaultsPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "1" {
			t.Errorf("page = %q, want 1", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "15" {
			t.Errorf("per_page = %q, want 15", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"items":      []map[string]interface{}{},
				"pagination": map[string]interface{}{"current_page": 1, "per_page": 15, "total": 0},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())

	result, err := client.SearchCustomers(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("SearchCustomers: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("items = %d", len(result.Items))
	}
}
