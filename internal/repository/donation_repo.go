package repository

import (
	"tumaini/internal/domain"
	"tumaini/internal/models"

	"gorm.io/gorm"
)

type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

// CreateIfAbsent inserts the record unless one with the same reference
// already exists, in which case the existing row is loaded into d. This is
// what makes a pay-button retry within one wizard session a no-op instead
// of a second ledger record.
func (r *DonationRepository) CreateIfAbsent(d *models.Donation) error {
	return r.db.Where(models.Donation{Reference: d.Reference}).FirstOrCreate(d).Error
}

func (r *DonationRepository) GetByReference(reference string) (*models.Donation, error) {
	var d models.Donation
	if err := r.db.Where("reference = ?", reference).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DonationRepository) Update(d *models.Donation) error {
	return r.db.Save(d).Error
}

// DonationFilter narrows admin listings.
type DonationFilter struct {
	FundID uint
	Status string
	Method string
	Limit  int
	Offset int
}

func (r *DonationRepository) List(f DonationFilter) ([]models.Donation, int64, error) {
	q := r.db.Model(&models.Donation{})
	if f.FundID != 0 {
		q = q.Where("fund_id = ?", f.FundID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Method != "" {
		q = q.Where("method = ?", f.Method)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var donations []models.Donation
	err := q.Order("created_at DESC").Limit(limit).Offset(f.Offset).Find(&donations).Error
	return donations, total, err
}

// FundTotals is an aggregate row for the admin dashboard.
type FundTotals struct {
	FundID       uint   `json:"fund_id"`
	FundTitle    string `json:"fund_title"`
	RaisedAmount int64  `json:"raised_amount"`
	Count        int64  `json:"count"`
}

// TotalsByFund sums settled donations per fund.
func (r *DonationRepository) TotalsByFund() ([]FundTotals, error) {
	var rows []FundTotals
	err := r.db.Model(&models.Donation{}).
		Select("fund_id, fund_title, SUM(amount) AS raised_amount, COUNT(*) AS count").
		Where("status = ?", domain.DonationStatusSuccess).
		Group("fund_id, fund_title").
		Order("raised_amount DESC").
		Scan(&rows).Error
	return rows, err
}
