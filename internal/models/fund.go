package models

import (
	"time"

	"tumaini/internal/domain"

	"gorm.io/gorm"
)

// Fund is a named donation campaign with its own bank details.
type Fund struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Tagline       string         `gorm:"size:512" json:"tagline"`
	Description   string         `gorm:"type:text" json:"description"`
	CoverImageURL string         `gorm:"size:512" json:"cover_image_url"`
	BankName      string         `gorm:"size:128" json:"bank_name"`
	AccountName   string         `gorm:"size:255" json:"account_name"`
	AccountNumber string         `gorm:"size:64" json:"account_number"`
	Status        string         `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`     // ACTIVE | PAUSED
	Visibility    string         `gorm:"size:20;not null;default:'PUBLIC';index" json:"visibility"` // PUBLIC | HIDDEN
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Fund) TableName() string {
	return "funds"
}

func (f *Fund) AcceptsDonations() bool {
	return f.Status == domain.FundStatusActive
}

// BankDetails is the manual-transfer instruction block shown on the
// bank-method outcome step.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
}

func (f *Fund) Bank() BankDetails {
	return BankDetails{
		BankName:      f.BankName,
		AccountName:   f.AccountName,
		AccountNumber: f.AccountNumber,
	}
}
