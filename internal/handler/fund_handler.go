package handler

import (
	"net/http"
	"strconv"
	"strings"

	"tumaini/internal/domain"
	"tumaini/internal/models"
	"tumaini/internal/repository"
	"tumaini/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FundHandler struct {
	fundRepo *repository.FundRepository
	cloud    cloudinary.Client
}

func NewFundHandler(fundRepo *repository.FundRepository, cloud cloudinary.Client) *FundHandler {
	return &FundHandler{fundRepo: fundRepo, cloud: cloud}
}

// List returns funds shown on the public site.
func (h *FundHandler) List(c *gin.Context) {
	funds, err := h.fundRepo.ListPublic()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load funds"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"funds": funds})
}

// Get returns a single fund by id, hidden or paused included. Whether a
// hidden fund should be donatable by direct link is an accepted gap, so no
// visibility check happens here.
func (h *FundHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fund id"})
		return
	}
	fund, err := h.fundRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "fund not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fund": fund})
}

type fundRequest struct {
	Title         string `json:"title" binding:"required"`
	Tagline       string `json:"tagline"`
	Description   string `json:"description"`
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	Status        string `json:"status" binding:"omitempty,oneof=ACTIVE PAUSED"`
	Visibility    string `json:"visibility" binding:"omitempty,oneof=PUBLIC HIDDEN"`
}

// Create adds a fund (admin).
func (h *FundHandler) Create(c *gin.Context) {
	var req fundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fund := &models.Fund{
		Title:         req.Title,
		Tagline:       req.Tagline,
		Description:   req.Description,
		BankName:      req.BankName,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		Status:        req.Status,
		Visibility:    req.Visibility,
	}
	if fund.Status == "" {
		fund.Status = domain.FundStatusActive
	}
	if fund.Visibility == "" {
		fund.Visibility = domain.FundVisibilityPublic
	}
	if err := h.fundRepo.Create(fund); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create fund"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"fund": fund})
}

// Update edits fund fields (admin). Retitling a fund does not rewrite the
// denormalized titles on past donations.
func (h *FundHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fund id"})
		return
	}
	fund, err := h.fundRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "fund not found"})
		return
	}
	var req fundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fund.Title = req.Title
	fund.Tagline = req.Tagline
	fund.Description = req.Description
	fund.BankName = req.BankName
	fund.AccountName = req.AccountName
	fund.AccountNumber = req.AccountNumber
	if req.Status != "" {
		fund.Status = req.Status
	}
	if req.Visibility != "" {
		fund.Visibility = req.Visibility
	}
	if err := h.fundRepo.Update(fund); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update fund"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fund": fund})
}

// UploadCover uploads a fund cover image to Cloudinary (admin).
func (h *FundHandler) UploadCover(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fund id"})
		return
	}
	fund, err := h.fundRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "fund not found"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	folder := "tumaini/funds/" + strconv.FormatUint(id, 10)
	publicID := "cover_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	url, _, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	fund.CoverImageURL = url
	if err := h.fundRepo.Update(fund); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save cover"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
