package handler

import (
	"errors"
	"log"
	"net/http"

	"tumaini/internal/service"

	"github.com/gin-gonic/gin"
)

// VerifyHandler is the reconciliation endpoint: the single writer of
// SUCCESS to the ledger. Anyone may call it with a reference; the gateway
// is consulted with the secret key on every call, so a forged request can
// only ever make the ledger more truthful.
type VerifyHandler struct {
	reconciler *service.ReconcileService
}

func NewVerifyHandler(reconciler *service.ReconcileService) *VerifyHandler {
	return &VerifyHandler{reconciler: reconciler}
}

type verifyRequest struct {
	Reference string `json:"reference" binding:"required"`
}

// Handle implements POST /api/payment/verify.
func (h *VerifyHandler) Handle(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	settled, err := h.reconciler.Verify(c.Request.Context(), req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownDonation):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		case errors.Is(err, service.ErrGatewayUnknownReference):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
		case errors.Is(err, service.ErrManualMethod):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		default:
			log.Printf("[verify] %s: %v", req.Reference, err)
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "verification failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": settled})
}
