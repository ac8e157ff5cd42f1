package service

import (
	"context"
	"fmt"

	"tumaini/internal/models"
	"tumaini/pkg/paystack"
)

// mockStore is an in-memory DonationStore.
type mockStore struct {
	records map[string]*models.Donation
	updates int
	failUpd bool
}

func newMockStore(records ...*models.Donation) *mockStore {
	m := &mockStore{records: make(map[string]*models.Donation)}
	for _, d := range records {
		m.records[d.Reference] = d
	}
	return m
}

func (m *mockStore) GetByReference(reference string) (*models.Donation, error) {
	d, ok := m.records[reference]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	cp := *d
	return &cp, nil
}

func (m *mockStore) Update(d *models.Donation) error {
	if m.failUpd {
		return fmt.Errorf("store unavailable")
	}
	m.updates++
	cp := *d
	m.records[d.Reference] = &cp
	return nil
}

// mockVerifier returns a fixed transaction or error and counts calls.
type mockVerifier struct {
	tx    *paystack.Transaction
	err   error
	calls int
}

func (m *mockVerifier) VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.tx, nil
}

// mockFeed records broadcast payloads.
type mockFeed struct {
	events []interface{}
}

func (m *mockFeed) BroadcastAll(payload interface{}) {
	m.events = append(m.events, payload)
}
