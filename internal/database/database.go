package database

import (
	"log"

	"tumaini/config"
	"tumaini/internal/domain"
	"tumaini/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Fund{},
		&models.Donation{},
		&models.AuditLog{},
	)
}

// SeedAdmin creates the first console account when none exists.
// Skipped unless ADMIN_PASSWORD is set.
func SeedAdmin(db *gorm.DB, email, password string) {
	if password == "" {
		return
	}
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[seed] bcrypt: %v", err)
		return
	}
	u := &models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(u).Error; err != nil {
		log.Printf("[seed] admin: %v", err)
		return
	}
	log.Printf("[seed] created admin account %s", email)
}
