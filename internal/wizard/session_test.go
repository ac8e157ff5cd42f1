package wizard

import (
	"testing"
	"time"
)

func newTestSession() *Session {
	return NewSession("sess-1", 7, "Clean Water Fund", time.Hour)
}

func TestSession_AmountStep(t *testing.T) {
	t.Run("Given a fresh session When amount below minimum Then rejected and step unchanged", func(t *testing.T) {
		s := newTestSession()
		if err := s.SubmitAmount(99); err != ErrAmountTooLow {
			t.Fatalf("expected ErrAmountTooLow, got %v", err)
		}
		if s.Step() != StepAmount {
			t.Errorf("step moved to %v after rejected amount", s.Step())
		}
	})

	t.Run("Given a fresh session When amount is exactly the minimum Then advances to donor step", func(t *testing.T) {
		s := newTestSession()
		if err := s.SubmitAmount(100); err != nil {
			t.Fatalf("SubmitAmount: %v", err)
		}
		if s.Step() != StepDonor {
			t.Errorf("expected donor step, got %v", s.Step())
		}
	})

	t.Run("Given the donor step When amount submitted again Then wrong-step error", func(t *testing.T) {
		s := newTestSession()
		_ = s.SubmitAmount(5000)
		if err := s.SubmitAmount(200); err != ErrWrongStep {
			t.Fatalf("expected ErrWrongStep, got %v", err)
		}
	})
}

func TestSession_DonorStep(t *testing.T) {
	t.Run("Given the donor step When email is blank Then rejected", func(t *testing.T) {
		s := newTestSession()
		_ = s.SubmitAmount(5000)
		if err := s.SubmitDonor("Jane", "  ", "", ""); err != ErrEmailRequired {
			t.Fatalf("expected ErrEmailRequired, got %v", err)
		}
		if s.Step() != StepDonor {
			t.Errorf("step moved to %v after rejected donor form", s.Step())
		}
	})

	t.Run("Given a blank name When donor submitted Then name defaults to Anonymous", func(t *testing.T) {
		s := newTestSession()
		_ = s.SubmitAmount(5000)
		if err := s.SubmitDonor("", "jane@example.com", "", "keep it up"); err != nil {
			t.Fatalf("SubmitDonor: %v", err)
		}
		name, email, _, _ := s.Donor()
		if name != "Anonymous" {
			t.Errorf("expected Anonymous, got %q", name)
		}
		if email != "jane@example.com" {
			t.Errorf("email = %q", email)
		}
		if s.Step() != StepPayment {
			t.Errorf("expected payment step, got %v", s.Step())
		}
	})
}

func TestSession_Back(t *testing.T) {
	t.Run("Given the payment step When going back twice Then lands on amount step", func(t *testing.T) {
		s := newTestSession()
		_ = s.SubmitAmount(5000)
		_ = s.SubmitDonor("Jane", "jane@example.com", "", "")
		if err := s.Back(); err != nil {
			t.Fatalf("Back: %v", err)
		}
		if err := s.Back(); err != nil {
			t.Fatalf("Back: %v", err)
		}
		if s.Step() != StepAmount {
			t.Errorf("expected amount step, got %v", s.Step())
		}
	})

	t.Run("Given the amount step When going back Then rejected", func(t *testing.T) {
		s := newTestSession()
		if err := s.Back(); err != ErrCannotGoBack {
			t.Fatalf("expected ErrCannotGoBack, got %v", err)
		}
	})

	t.Run("Given the outcome step When going back Then rejected", func(t *testing.T) {
		s := newTestSession()
		_ = s.SubmitAmount(5000)
		_ = s.SubmitDonor("Jane", "jane@example.com", "", "")
		if _, err := s.BeginPayment("bank"); err != nil {
			t.Fatalf("BeginPayment: %v", err)
		}
		s.EndPayment()
		_ = s.CompleteManual()
		if err := s.Back(); err != ErrCannotGoBack {
			t.Fatalf("expected ErrCannotGoBack, got %v", err)
		}
	})
}

func TestSession_Payment(t *testing.T) {
	prep := func() *Session {
		s := newTestSession()
		_ = s.SubmitAmount(5000)
		_ = s.SubmitDonor("Jane", "jane@example.com", "", "")
		return s
	}

	t.Run("Given the payment step When paying twice Then the reference is generated once", func(t *testing.T) {
		s := prep()
		ref1, err := s.BeginPayment("paystack")
		if err != nil {
			t.Fatalf("BeginPayment: %v", err)
		}
		s.EndPayment()
		ref2, err := s.BeginPayment("paystack")
		if err != nil {
			t.Fatalf("BeginPayment retry: %v", err)
		}
		s.EndPayment()
		if ref1 == "" || ref1 != ref2 {
			t.Errorf("reference changed across retries: %q vs %q", ref1, ref2)
		}
	})

	t.Run("Given an attempt in flight When paying again Then rejected", func(t *testing.T) {
		s := prep()
		if _, err := s.BeginPayment("paystack"); err != nil {
			t.Fatalf("BeginPayment: %v", err)
		}
		if _, err := s.BeginPayment("paystack"); err != ErrInFlight {
			t.Fatalf("expected ErrInFlight, got %v", err)
		}
		s.EndPayment()
		if _, err := s.BeginPayment("paystack"); err != nil {
			t.Errorf("BeginPayment after EndPayment: %v", err)
		}
	})

	t.Run("Given an unknown method When paying Then rejected", func(t *testing.T) {
		s := prep()
		if _, err := s.BeginPayment("cash"); err != ErrInvalidMethod {
			t.Fatalf("expected ErrInvalidMethod, got %v", err)
		}
	})

	t.Run("Given the donor step When paying Then wrong-step error", func(t *testing.T) {
		s := newTestSession()
		_ = s.SubmitAmount(5000)
		if _, err := s.BeginPayment("paystack"); err != ErrWrongStep {
			t.Fatalf("expected ErrWrongStep, got %v", err)
		}
	})
}

func TestSession_Outcome(t *testing.T) {
	prep := func(method string) *Session {
		s := newTestSession()
		_ = s.SubmitAmount(20000)
		_ = s.SubmitDonor("Jane", "jane@example.com", "", "")
		_, _ = s.BeginPayment(method)
		s.EndPayment()
		return s
	}

	t.Run("Given a bank attempt When completed Then outcome is manual", func(t *testing.T) {
		s := prep("bank")
		if err := s.CompleteManual(); err != nil {
			t.Fatalf("CompleteManual: %v", err)
		}
		if s.Step() != StepOutcome || s.Outcome() != OutcomeManual {
			t.Errorf("step=%v outcome=%q", s.Step(), s.Outcome())
		}
	})

	t.Run("Given a verified charge When completed Then outcome is success and repeatable", func(t *testing.T) {
		s := prep("paystack")
		if err := s.CompleteSuccess(); err != nil {
			t.Fatalf("CompleteSuccess: %v", err)
		}
		if err := s.CompleteSuccess(); err != nil {
			t.Fatalf("CompleteSuccess repeat: %v", err)
		}
		if s.Step() != StepOutcome || s.Outcome() != OutcomeSuccess {
			t.Errorf("step=%v outcome=%q", s.Step(), s.Outcome())
		}
	})
}
