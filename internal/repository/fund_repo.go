package repository

import (
	"tumaini/internal/domain"
	"tumaini/internal/models"

	"gorm.io/gorm"
)

type FundRepository struct {
	db *gorm.DB
}

func NewFundRepository(db *gorm.DB) *FundRepository {
	return &FundRepository{db: db}
}

func (r *FundRepository) Create(f *models.Fund) error {
	return r.db.Create(f).Error
}

// GetByID returns the fund regardless of status or visibility. A hidden
// fund reached by direct link is still donatable.
func (r *FundRepository) GetByID(id uint) (*models.Fund, error) {
	var f models.Fund
	if err := r.db.First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// ListPublic returns funds shown on the site: public and active.
func (r *FundRepository) ListPublic() ([]models.Fund, error) {
	var funds []models.Fund
	err := r.db.
		Where("visibility = ? AND status = ?", domain.FundVisibilityPublic, domain.FundStatusActive).
		Order("created_at DESC").
		Find(&funds).Error
	return funds, err
}

// ListAll returns every fund for the admin console.
func (r *FundRepository) ListAll() ([]models.Fund, error) {
	var funds []models.Fund
	err := r.db.Order("created_at DESC").Find(&funds).Error
	return funds, err
}

func (r *FundRepository) Update(f *models.Fund) error {
	return r.db.Save(f).Error
}
