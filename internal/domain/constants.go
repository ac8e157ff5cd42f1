package domain

const (
	RoleAdmin = "ADMIN"
)

const (
	FundStatusActive = "ACTIVE"
	FundStatusPaused = "PAUSED"
)

const (
	FundVisibilityPublic = "PUBLIC"
	FundVisibilityHidden = "HIDDEN"
)

const (
	DonationStatusPending = "PENDING"
	DonationStatusSuccess = "SUCCESS"
	DonationStatusFailed  = "FAILED"
)

const (
	DonationMethodPaystack = "paystack"
	DonationMethodBank     = "bank"
)

// Minimum donation in whole currency units (amount step guard).
const MinDonationAmount = 100

// Donor name recorded when the donor leaves the name field blank.
const AnonymousDonor = "Anonymous"
