package service

import (
	"errors"
	"strconv"
	"time"

	"tumaini/config"
	"tumaini/internal/auth"
	"tumaini/internal/domain"
	"tumaini/internal/models"
	"tumaini/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCreds = errors.New("invalid email or password")
	ErrNotAdmin     = errors.New("account is not an admin")
	ErrNoAccount    = errors.New("no admin account for that email")
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", "", ErrInvalidCreds
	}
	if u.Role != domain.RoleAdmin {
		return nil, "", "", ErrNotAdmin
	}
	return s.issue(u)
}

// LoginWithGoogle signs in an existing admin via Google. There is no
// self-registration: unknown emails are rejected, known ones get their
// Google ID linked on first use.
func (s *AuthService) LoginWithGoogle(googleID, email, name, picture string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByGoogleID(googleID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", err
		}
		u, err = s.userRepo.GetByEmail(email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", "", ErrNoAccount
			}
			return nil, "", "", err
		}
		u.GoogleID = &googleID
	}
	if u.Role != domain.RoleAdmin {
		return nil, "", "", ErrNotAdmin
	}
	if u.AvatarURL == "" && picture != "" {
		u.AvatarURL = picture
	}
	if u.Name == "" && name != "" {
		u.Name = name
	}
	return s.issue(u)
}

func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", err
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	u, err := s.userRepo.GetByID(uint(id))
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	return auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
}

func (s *AuthService) issue(u *models.User) (*models.User, string, string, error) {
	now := time.Now()
	u.LastLoginAt = &now
	if err := s.userRepo.Update(u); err != nil {
		return nil, "", "", err
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}
