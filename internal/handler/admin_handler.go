package handler

import (
	"net/http"
	"strconv"

	"tumaini/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the console's read views: donation listings, per-fund
// totals and the audit trail.
type AdminHandler struct {
	donationRepo *repository.DonationRepository
	fundRepo     *repository.FundRepository
	auditRepo    *repository.AuditLogRepository
}

func NewAdminHandler(donationRepo *repository.DonationRepository, fundRepo *repository.FundRepository, auditRepo *repository.AuditLogRepository) *AdminHandler {
	return &AdminHandler{donationRepo: donationRepo, fundRepo: fundRepo, auditRepo: auditRepo}
}

// ListDonations supports ?fund_id=&status=&method=&limit=&offset= filters.
func (h *AdminHandler) ListDonations(c *gin.Context) {
	var filter repository.DonationFilter
	if v := c.Query("fund_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fund_id"})
			return
		}
		filter.FundID = uint(id)
	}
	filter.Status = c.Query("status")
	filter.Method = c.Query("method")
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	donations, total, err := h.donationRepo.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load donations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"donations": donations,
		"total":     total,
	})
}

// GetDonation looks one record up by reference.
func (h *AdminHandler) GetDonation(c *gin.Context) {
	d, err := h.donationRepo.GetByReference(c.Param("reference"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"donation": d})
}

// Totals returns settled sums per fund for the dashboard.
func (h *AdminHandler) Totals(c *gin.Context) {
	totals, err := h.donationRepo.TotalsByFund()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load totals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totals": totals})
}

// ListFunds returns every fund, paused and hidden included.
func (h *AdminHandler) ListFunds(c *gin.Context) {
	funds, err := h.fundRepo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load funds"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"funds": funds})
}

// AuditLogs returns the most recent audit entries.
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.auditRepo.ListRecent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load audit logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
