package paystack

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMinorUnits(t *testing.T) {
	t.Run("Given a whole-unit amount Then minor units are exactly amount times 100", func(t *testing.T) {
		if got := MinorUnits(5000); got != 500000 {
			t.Fatalf("MinorUnits(5000) = %d, want 500000", got)
		}
		if got := MinorUnits(100); got != 10000 {
			t.Fatalf("MinorUnits(100) = %d, want 10000", got)
		}
	})
}

func TestCheckout(t *testing.T) {
	c := NewClient("", "sk_test_x", "pk_test_x")

	t.Run("Given checkout params Then the widget gets minor units and the public key only", func(t *testing.T) {
		p := c.Checkout("DON-1-1", "jane@example.com", 5000, CheckoutMetadata{FundID: 7, FundTitle: "Clean Water Fund", DonorName: "Jane"})
		if p.Amount != 500000 {
			t.Errorf("Amount = %d, want 500000", p.Amount)
		}
		if p.PublicKey != "pk_test_x" {
			t.Errorf("PublicKey = %q", p.PublicKey)
		}
		if p.Reference != "DON-1-1" || p.Email != "jane@example.com" {
			t.Errorf("reference/email not carried through: %+v", p)
		}
	})

	t.Run("Given a retried checkout Then the conversion is not applied twice", func(t *testing.T) {
		first := c.Checkout("DON-1-1", "jane@example.com", 5000, CheckoutMetadata{})
		second := c.Checkout("DON-1-1", "jane@example.com", 5000, CheckoutMetadata{})
		if first.Amount != second.Amount || second.Amount != 500000 {
			t.Errorf("retry changed amount: %d vs %d", first.Amount, second.Amount)
		}
	})
}

func TestClient_VerifyTransaction(t *testing.T) {
	t.Run("Given a settled charge When verified Then fields are parsed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/transaction/verify/DON-1700000000000-42" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer sk_test_x" {
				t.Errorf("Authorization = %q", got)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"reference":"DON-1700000000000-42","status":"success","amount":500000,"currency":"NGN","gateway_response":"Successful","channel":"card","paid_at":"2024-01-01T00:00:00Z"}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "sk_test_x", "pk_test_x")
		tx, err := c.VerifyTransaction(context.Background(), "DON-1700000000000-42")
		if err != nil {
			t.Fatalf("VerifyTransaction: %v", err)
		}
		if !tx.Succeeded() {
			t.Errorf("Succeeded() = false for status %q", tx.Status)
		}
		if tx.Amount != 500000 || tx.Reference != "DON-1700000000000-42" {
			t.Errorf("parsed tx = %+v", tx)
		}
	})

	t.Run("Given a reference the gateway has never seen Then ErrTransactionNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "sk_test_x", "pk_test_x")
		_, err := c.VerifyTransaction(context.Background(), "DON-0-0")
		if !errors.Is(err, ErrTransactionNotFound) {
			t.Fatalf("expected ErrTransactionNotFound, got %v", err)
		}
	})

	t.Run("Given an abandoned charge When verified Then status is not success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"reference":"DON-1-1","status":"abandoned","amount":500000,"currency":"NGN"}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "sk_test_x", "pk_test_x")
		tx, err := c.VerifyTransaction(context.Background(), "DON-1-1")
		if err != nil {
			t.Fatalf("VerifyTransaction: %v", err)
		}
		if tx.Succeeded() {
			t.Errorf("abandoned charge reported as succeeded")
		}
	})
}
