package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tumaini/internal/domain"
	"tumaini/internal/models"
	"tumaini/pkg/paystack"
)

var (
	// ErrUnknownDonation: the reference has no ledger record at all.
	ErrUnknownDonation = errors.New("no donation with that reference")
	// ErrGatewayUnknownReference: the ledger knows the reference but the
	// gateway does not. Ambiguous, so the ledger is left untouched.
	ErrGatewayUnknownReference = errors.New("gateway has no transaction for that reference")
	// ErrManualMethod: bank-transfer donations are settled out-of-band and
	// never go through gateway verification.
	ErrManualMethod = errors.New("manual transfer donations are not gateway-verifiable")
)

// DonationStore is the slice of the ledger the reconciler needs.
type DonationStore interface {
	GetByReference(reference string) (*models.Donation, error)
	Update(d *models.Donation) error
}

// Broadcaster pushes donation events to the admin live feed. May be nil.
type Broadcaster interface {
	BroadcastAll(payload interface{})
}

// AuditSink records reconciliation outcomes. May be nil.
type AuditSink interface {
	Create(l *models.AuditLog) error
}

// ReconcileService is the single source of truth for paystack donation
// state. Client widget callbacks are advisory only; nothing but this
// service ever writes SUCCESS to the ledger.
type ReconcileService struct {
	store   DonationStore
	gateway paystack.Verifier
	feed    Broadcaster
	audit   AuditSink
}

func NewReconcileService(store DonationStore, gateway paystack.Verifier, feed Broadcaster, audit AuditSink) *ReconcileService {
	return &ReconcileService{store: store, gateway: gateway, feed: feed, audit: audit}
}

// Verify asks the gateway for the authoritative outcome of reference and
// applies it to the ledger. Returns whether the donation settled.
//
// Rules, in order:
//   - unknown ledger reference: ErrUnknownDonation, nothing written
//   - bank-method record: ErrManualMethod, gateway never called
//   - gateway unknown reference or transport error: error, nothing written
//   - already SUCCESS: reaffirmed, never downgraded
//   - gateway success with exact minor-unit amount match: SUCCESS
//   - anything else (declined, abandoned, amount mismatch): FAILED
//
// Safe to call repeatedly for the same reference.
func (s *ReconcileService) Verify(ctx context.Context, reference string) (bool, error) {
	d, err := s.store.GetByReference(reference)
	if err != nil {
		return false, ErrUnknownDonation
	}
	if d.Method == domain.DonationMethodBank {
		return false, ErrManualMethod
	}

	tx, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		if errors.Is(err, paystack.ErrTransactionNotFound) {
			return false, ErrGatewayUnknownReference
		}
		return false, fmt.Errorf("gateway verify: %w", err)
	}

	if d.Status == domain.DonationStatusSuccess {
		if !tx.Succeeded() {
			log.Printf("[reconcile] %s already SUCCESS but gateway now reports %q, keeping SUCCESS", reference, tx.Status)
		}
		return true, nil
	}

	expected := paystack.MinorUnits(d.Amount)
	settled := tx.Succeeded() && tx.Amount == expected
	if tx.Succeeded() && tx.Amount != expected {
		log.Printf("[reconcile] %s amount mismatch: ledger expects %d, gateway charged %d", reference, expected, tx.Amount)
	}

	prev := d.Status
	if settled {
		d.Status = domain.DonationStatusSuccess
		now := time.Now()
		d.VerifiedAt = &now
	} else {
		d.Status = domain.DonationStatusFailed
	}
	if err := s.store.Update(d); err != nil {
		return false, fmt.Errorf("ledger update: %w", err)
	}
	log.Printf("[reconcile] %s %s -> %s (gateway=%s amount=%d)", reference, prev, d.Status, tx.Status, tx.Amount)

	if s.feed != nil {
		s.feed.BroadcastAll(DonationEvent{Type: EventDonationUpdated, Donation: donationSummary(d)})
	}
	if s.audit != nil {
		_ = s.audit.Create(&models.AuditLog{
			Action:     "donation.reconcile",
			Resource:   "donation",
			ResourceID: reference,
			Metadata:   fmt.Sprintf(`{"from":%q,"to":%q,"gateway_status":%q}`, prev, d.Status, tx.Status),
		})
	}
	return settled, nil
}
