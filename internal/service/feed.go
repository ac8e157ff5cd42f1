package service

import (
	"time"

	"tumaini/internal/models"
)

const (
	EventDonationCreated = "donation.created"
	EventDonationUpdated = "donation.updated"
)

// DonationEvent is the admin live-feed message.
type DonationEvent struct {
	Type     string          `json:"type"`
	Donation DonationSummary `json:"donation"`
}

// DonationSummary is the feed view of a ledger record. Donor contact
// details stay out of the feed.
type DonationSummary struct {
	Reference string    `json:"reference"`
	FundID    uint      `json:"fund_id"`
	FundTitle string    `json:"fund_title"`
	Amount    int64     `json:"amount"`
	DonorName string    `json:"donor_name"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func donationSummary(d *models.Donation) DonationSummary {
	return DonationSummary{
		Reference: d.Reference,
		FundID:    d.FundID,
		FundTitle: d.FundTitle,
		Amount:    d.Amount,
		DonorName: d.DonorName,
		Method:    d.Method,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
	}
}

// AnnounceCreated pushes a new PENDING record to the feed.
func AnnounceCreated(feed Broadcaster, d *models.Donation) {
	if feed == nil {
		return
	}
	feed.BroadcastAll(DonationEvent{Type: EventDonationCreated, Donation: donationSummary(d)})
}
