package handler

import (
	"net/http"

	"tumaini/internal/models"
	"tumaini/internal/repository"
	"tumaini/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc       *service.AuthService
	auditRepo *repository.AuditLogRepository
}

func NewAuthHandler(svc *service.AuthService, auditRepo *repository.AuditLogRepository) *AuthHandler {
	return &AuthHandler{svc: svc, auditRepo: auditRepo}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, access, refresh, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		switch err {
		case service.ErrInvalidCreds, service.ErrNotAdmin:
			c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCreds.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}
	h.auditLog(u.ID, "login", c)
	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	access, err := h.svc.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

func (h *AuthHandler) auditLog(userID uint, action string, c *gin.Context) {
	if h.auditRepo == nil {
		return
	}
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:    &userID,
		Action:    action,
		Resource:  "user",
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
}
