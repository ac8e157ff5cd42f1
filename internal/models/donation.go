package models

import (
	"time"
)

// Donation is one ledger record per donation attempt, keyed by Reference.
// Created PENDING the moment the donor picks a payment method (intent, not
// money received). Records are never deleted and never leave SUCCESS.
type Donation struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Reference  string     `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	FundID     uint       `gorm:"not null;index" json:"fund_id"`
	FundTitle  string     `gorm:"size:255;not null" json:"fund_title"` // denormalized at creation; later fund renames do not touch past donations
	Amount     int64      `gorm:"not null" json:"amount"`              // whole currency units; gateway gets Amount*100
	DonorName  string     `gorm:"size:128;not null;default:'Anonymous'" json:"donor_name"`
	DonorEmail string     `gorm:"size:255;not null" json:"donor_email"`
	DonorPhone string     `gorm:"size:32" json:"donor_phone"`
	Message    string     `gorm:"type:text" json:"message"`
	Method     string     `gorm:"size:20;not null;index" json:"method"` // paystack | bank
	Status     string     `gorm:"size:20;not null;index" json:"status"` // PENDING | SUCCESS | FAILED
	VerifiedAt *time.Time `json:"verified_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Fund Fund `gorm:"foreignKey:FundID" json:"-"`
}

func (Donation) TableName() string {
	return "donations"
}
