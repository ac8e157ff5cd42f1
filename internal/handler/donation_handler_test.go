package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tumaini/config"
	"tumaini/internal/domain"
	"tumaini/internal/models"
	"tumaini/internal/wizard"
	"tumaini/internal/ws"
	"tumaini/pkg/paystack"

	"github.com/gin-gonic/gin"
)

// stubLedger mirrors the repository's FirstOrCreate contract: an existing
// record wins and is loaded back into the argument.
type stubLedger struct {
	records map[string]*models.Donation
	creates int
	updates int
}

func newStubLedger() *stubLedger {
	return &stubLedger{records: make(map[string]*models.Donation)}
}

func (s *stubLedger) CreateIfAbsent(d *models.Donation) error {
	if existing, ok := s.records[d.Reference]; ok {
		*d = *existing
		return nil
	}
	cp := *d
	s.records[d.Reference] = &cp
	s.creates++
	return nil
}

func (s *stubLedger) Update(d *models.Donation) error {
	s.updates++
	cp := *d
	s.records[d.Reference] = &cp
	return nil
}

type stubCatalog struct {
	fund *models.Fund
}

func (s *stubCatalog) GetByID(id uint) (*models.Fund, error) {
	if s.fund == nil || s.fund.ID != id {
		return nil, fmt.Errorf("record not found")
	}
	return s.fund, nil
}

func donationRouter(ledger *stubLedger, catalog *stubCatalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gateway := paystack.NewClient("", "sk_test_x", "pk_test_x")
	h := NewDonationHandler(&config.Config{}, wizard.NewManager(time.Minute), catalog, ledger, nil, gateway, ws.NewHub())
	r := gin.New()
	r.POST("/sessions", h.StartSession)
	r.POST("/sessions/:id/amount", h.SubmitAmount)
	r.POST("/sessions/:id/donor", h.SubmitDonor)
	r.POST("/sessions/:id/back", h.Back)
	r.POST("/sessions/:id/pay", h.Pay)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func mustOK(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusOK && w.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}

type payResponse struct {
	Reference string                  `json:"reference"`
	Checkout  paystack.CheckoutParams `json:"checkout"`
}

func decodePay(t *testing.T, w *httptest.ResponseRecorder) payResponse {
	t.Helper()
	var resp payResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal pay response: %v", err)
	}
	return resp
}

func TestDonationHandler_Pay(t *testing.T) {
	activeFund := &models.Fund{ID: 7, Title: "Clean Water Fund", Status: domain.FundStatusActive}

	startSession := func(t *testing.T, r *gin.Engine) string {
		t.Helper()
		w := postJSON(t, r, "/sessions", `{"fund_id":7}`)
		mustOK(t, w)
		var resp struct {
			SessionID string `json:"session_id"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal session: %v", err)
		}
		return resp.SessionID
	}

	t.Run("Given an amount change after back-navigation When paying again Then the reference is reused and ledger and checkout both carry the new amount", func(t *testing.T) {
		ledger := newStubLedger()
		r := donationRouter(ledger, &stubCatalog{fund: activeFund})
		id := startSession(t, r)

		mustOK(t, postJSON(t, r, "/sessions/"+id+"/amount", `{"amount":5000}`))
		mustOK(t, postJSON(t, r, "/sessions/"+id+"/donor", `{"donor_name":"Jane","donor_email":"jane@example.com"}`))
		first := decodePay(t, mustPay(t, r, id, domain.DonationMethodPaystack))
		if first.Checkout.Amount != 500000 {
			t.Fatalf("first checkout amount = %d, want 500000", first.Checkout.Amount)
		}

		// Back to step 1, pick a new amount, walk forward and pay again.
		mustOK(t, postJSON(t, r, "/sessions/"+id+"/back", `{}`))
		mustOK(t, postJSON(t, r, "/sessions/"+id+"/back", `{}`))
		mustOK(t, postJSON(t, r, "/sessions/"+id+"/amount", `{"amount":7000}`))
		mustOK(t, postJSON(t, r, "/sessions/"+id+"/donor", `{"donor_name":"Jane","donor_email":"jane@example.com"}`))
		second := decodePay(t, mustPay(t, r, id, domain.DonationMethodPaystack))

		if second.Reference != first.Reference {
			t.Errorf("reference changed across retries: %q vs %q", first.Reference, second.Reference)
		}
		if ledger.creates != 1 {
			t.Errorf("ledger records created = %d, want 1", ledger.creates)
		}
		rec := ledger.records[first.Reference]
		if rec.Amount != 7000 {
			t.Errorf("ledger amount = %d, want 7000", rec.Amount)
		}
		if second.Checkout.Amount != 700000 {
			t.Errorf("checkout amount = %d, want 700000", second.Checkout.Amount)
		}
		if rec.Status != domain.DonationStatusPending {
			t.Errorf("ledger status = %q, want PENDING", rec.Status)
		}
	})

	t.Run("Given changed donor details on retry Then the ledger record and checkout follow the session", func(t *testing.T) {
		ledger := newStubLedger()
		r := donationRouter(ledger, &stubCatalog{fund: activeFund})
		id := startSession(t, r)

		mustOK(t, postJSON(t, r, "/sessions/"+id+"/amount", `{"amount":5000}`))
		mustOK(t, postJSON(t, r, "/sessions/"+id+"/donor", `{"donor_name":"Jane","donor_email":"jane@example.com"}`))
		first := decodePay(t, mustPay(t, r, id, domain.DonationMethodPaystack))

		mustOK(t, postJSON(t, r, "/sessions/"+id+"/back", `{}`))
		mustOK(t, postJSON(t, r, "/sessions/"+id+"/donor", `{"donor_name":"","donor_email":"other@example.com"}`))
		second := decodePay(t, mustPay(t, r, id, domain.DonationMethodPaystack))

		rec := ledger.records[first.Reference]
		if rec.DonorEmail != "other@example.com" {
			t.Errorf("ledger donor email = %q, want other@example.com", rec.DonorEmail)
		}
		if rec.DonorName != domain.AnonymousDonor {
			t.Errorf("ledger donor name = %q, want %q", rec.DonorName, domain.AnonymousDonor)
		}
		if second.Checkout.Email != "other@example.com" {
			t.Errorf("checkout email = %q, want other@example.com", second.Checkout.Email)
		}
	})

	t.Run("Given an unchanged retry Then no redundant ledger write happens", func(t *testing.T) {
		ledger := newStubLedger()
		r := donationRouter(ledger, &stubCatalog{fund: activeFund})
		id := startSession(t, r)

		mustOK(t, postJSON(t, r, "/sessions/"+id+"/amount", `{"amount":5000}`))
		mustOK(t, postJSON(t, r, "/sessions/"+id+"/donor", `{"donor_name":"Jane","donor_email":"jane@example.com"}`))
		first := decodePay(t, mustPay(t, r, id, domain.DonationMethodPaystack))
		second := decodePay(t, mustPay(t, r, id, domain.DonationMethodPaystack))

		if second.Reference != first.Reference {
			t.Errorf("reference changed: %q vs %q", first.Reference, second.Reference)
		}
		if ledger.creates != 1 {
			t.Errorf("ledger records created = %d, want 1", ledger.creates)
		}
		if ledger.updates != 0 {
			t.Errorf("ledger updates = %d, want 0", ledger.updates)
		}
		if got := ledger.records[first.Reference].Amount; got != 5000 {
			t.Errorf("ledger amount = %d, want 5000", got)
		}
	})
}

func mustPay(t *testing.T, r *gin.Engine, id, method string) *httptest.ResponseRecorder {
	t.Helper()
	w := postJSON(t, r, "/sessions/"+id+"/pay", fmt.Sprintf(`{"method":%q}`, method))
	if w.Code != http.StatusOK {
		t.Fatalf("pay status = %d body = %s", w.Code, w.Body.String())
	}
	return w
}
