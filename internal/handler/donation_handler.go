package handler

import (
	"errors"
	"log"
	"net/http"

	"tumaini/config"
	"tumaini/internal/domain"
	"tumaini/internal/models"
	"tumaini/internal/repository"
	"tumaini/internal/service"
	"tumaini/internal/wizard"
	"tumaini/internal/ws"
	"tumaini/pkg/paystack"

	"github.com/gin-gonic/gin"
)

// DonationLedger is the slice of the donation repository the wizard needs.
type DonationLedger interface {
	CreateIfAbsent(d *models.Donation) error
	Update(d *models.Donation) error
}

// FundCatalog is the read side of the fund repository.
type FundCatalog interface {
	GetByID(id uint) (*models.Fund, error)
}

var _ DonationLedger = (*repository.DonationRepository)(nil)
var _ FundCatalog = (*repository.FundRepository)(nil)

// DonationHandler drives the 4-step donation wizard over HTTP. The state
// machine itself lives in internal/wizard; this handler owns the ledger
// writes and the gateway handoff.
type DonationHandler struct {
	cfg          *config.Config
	sessions     *wizard.Manager
	fundRepo     FundCatalog
	donationRepo DonationLedger
	reconciler   *service.ReconcileService
	gateway      *paystack.Client
	feed         *ws.Hub
}

func NewDonationHandler(
	cfg *config.Config,
	sessions *wizard.Manager,
	fundRepo FundCatalog,
	donationRepo DonationLedger,
	reconciler *service.ReconcileService,
	gateway *paystack.Client,
	feed *ws.Hub,
) *DonationHandler {
	return &DonationHandler{
		cfg:          cfg,
		sessions:     sessions,
		fundRepo:     fundRepo,
		donationRepo: donationRepo,
		reconciler:   reconciler,
		gateway:      gateway,
		feed:         feed,
	}
}

type startSessionRequest struct {
	FundID uint `json:"fund_id" binding:"required"`
}

// StartSession opens a wizard session against a fund. Hidden funds are
// deliberately not rejected here: a direct link still donates.
func (h *DonationHandler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fund, err := h.fundRepo.GetByID(req.FundID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "fund not found"})
		return
	}
	if !fund.AcceptsDonations() {
		c.JSON(http.StatusConflict, gin.H{"error": "this fund is not accepting donations right now"})
		return
	}
	sess := h.sessions.Create(fund.ID, fund.Title)
	c.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID,
		"step":       int(sess.Step()),
		"fund": gin.H{
			"id":      fund.ID,
			"title":   fund.Title,
			"tagline": fund.Tagline,
		},
	})
}

// GetSession reports the current wizard position.
func (h *DonationHandler) GetSession(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"step":       int(sess.Step()),
		"outcome":    sess.Outcome(),
		"reference":  sess.Reference(),
	})
}

type amountRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// SubmitAmount is the step 1 form.
func (h *DonationHandler) SubmitAmount(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.SubmitAmount(req.Amount); err != nil {
		c.JSON(guardStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": int(sess.Step())})
}

type donorRequest struct {
	DonorName  string `json:"donor_name"`
	DonorEmail string `json:"donor_email"`
	DonorPhone string `json:"donor_phone"`
	Message    string `json:"message"`
}

// SubmitDonor is the step 2 form. Email presence is the only validation.
func (h *DonationHandler) SubmitDonor(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	var req donorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.SubmitDonor(req.DonorName, req.DonorEmail, req.DonorPhone, req.Message); err != nil {
		c.JSON(guardStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": int(sess.Step())})
}

// Back moves one step towards step 1.
func (h *DonationHandler) Back(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err := sess.Back(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": int(sess.Step())})
}

type payRequest struct {
	Method string `json:"method" binding:"required,oneof=paystack bank"`
}

// Pay is the step 3 submit. It writes the PENDING ledger record (once per
// session, keyed by the session's single reference) and then either hands
// the browser the gateway checkout params or shows bank instructions. A
// ledger write failure aborts before any gateway interaction.
func (h *DonationHandler) Pay(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reference, err := sess.BeginPayment(req.Method)
	if err != nil {
		c.JSON(guardStatus(err), gin.H{"error": err.Error()})
		return
	}
	defer sess.EndPayment()

	fund, err := h.fundRepo.GetByID(sess.FundID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "fund not found"})
		return
	}

	name, email, phone, message := sess.Donor()
	d := &models.Donation{
		Reference:  reference,
		FundID:     sess.FundID,
		FundTitle:  sess.FundTitle,
		Amount:     sess.Amount(),
		DonorName:  name,
		DonorEmail: email,
		DonorPhone: phone,
		Message:    message,
		Method:     req.Method,
		Status:     domain.DonationStatusPending,
	}
	if err := h.donationRepo.CreateIfAbsent(d); err != nil {
		log.Printf("[donation] ledger write failed for %s: %v", reference, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not record donation, please try again"})
		return
	}
	if !sess.Recorded() {
		sess.MarkRecorded()
		service.AnnounceCreated(h.feed, d)
	}
	// A retry after back-navigation (changed amount, new details, switched
	// method) reuses the same reference, so CreateIfAbsent hands back the
	// earlier PENDING record. Bring it in line with the session before the
	// gateway sees the charge; a settled record is never touched.
	if d.Status == domain.DonationStatusPending && !donationMatchesSession(d, sess, req.Method) {
		d.Amount = sess.Amount()
		d.Method = req.Method
		d.DonorName = name
		d.DonorEmail = email
		d.DonorPhone = phone
		d.Message = message
		if err := h.donationRepo.Update(d); err != nil {
			log.Printf("[donation] ledger sync failed for %s: %v", reference, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not record donation, please try again"})
			return
		}
	}

	if req.Method == domain.DonationMethodBank {
		if err := sess.CompleteManual(); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"step":         int(sess.Step()),
			"outcome":      sess.Outcome(),
			"reference":    reference,
			"bank_details": fund.Bank(),
			"instructions": "use the reference as your transfer narration",
		})
		return
	}

	// The checkout params come from the ledger record, not the session, so
	// the gateway can only ever be asked for the amount that was written.
	checkout := h.gateway.Checkout(d.Reference, d.DonorEmail, d.Amount, paystack.CheckoutMetadata{
		FundID:    d.FundID,
		FundTitle: d.FundTitle,
		DonorName: d.DonorName,
	})
	c.JSON(http.StatusOK, gin.H{
		"step":      int(sess.Step()),
		"reference": reference,
		"checkout":  checkout,
	})
}

type callbackRequest struct {
	Event string `json:"event" binding:"required,oneof=success close"`
}

// Callback receives the widget's client-side outcome. Both variants run
// server-side reconciliation; the client event itself decides nothing.
func (h *DonationHandler) Callback(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	var req callbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reference := sess.Reference()
	if reference == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "no payment attempt on this session"})
		return
	}

	settled, err := h.reconciler.Verify(c.Request.Context(), reference)
	if settled {
		_ = sess.CompleteSuccess()
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"step":      int(sess.Step()),
			"outcome":   sess.Outcome(),
			"reference": reference,
		})
		return
	}

	if req.Event == "success" {
		// The widget claimed success but the server could not confirm it.
		// The donor stays on the payment step; the record keeps whatever
		// state reconciliation determined.
		if err != nil {
			log.Printf("[donation] callback verify %s: %v", reference, err)
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "could not confirm payment, please retry"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "payment was not confirmed"})
		return
	}

	// close: the transaction ended without a confirmed charge. No outcome is
	// asserted to the donor; an unknown-at-gateway reference stays PENDING.
	if err != nil && !errors.Is(err, service.ErrGatewayUnknownReference) {
		log.Printf("[donation] close-callback verify %s: %v", reference, err)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"message": "the transaction ended before completion",
	})
}

// donationMatchesSession reports whether a ledger record already reflects
// the session's current amount, donor details, and chosen method.
func donationMatchesSession(d *models.Donation, sess *wizard.Session, method string) bool {
	name, email, phone, message := sess.Donor()
	return d.Amount == sess.Amount() &&
		d.Method == method &&
		d.DonorName == name &&
		d.DonorEmail == email &&
		d.DonorPhone == phone &&
		d.Message == message
}

// guardStatus maps wizard guard errors onto HTTP statuses.
func guardStatus(err error) int {
	switch {
	case errors.Is(err, wizard.ErrAmountTooLow), errors.Is(err, wizard.ErrEmailRequired), errors.Is(err, wizard.ErrInvalidMethod):
		return http.StatusUnprocessableEntity
	case errors.Is(err, wizard.ErrInFlight):
		return http.StatusTooManyRequests
	default:
		return http.StatusConflict
	}
}
