package handler

import (
	"log"
	"net/http"

	"rabet/internal/domain"
	"rabet/internal/middleware"
	"rabet/internal/models"
	"rabet/internal/repository"
	"rabet/internal/service"

	"github.com/gin-gonic/gin"
)

// LeadHandler is the provider's view of requests: browsing published leads
// with masked contacts, unlocking them, and listing past unlocks.
type LeadHandler struct {
	walletSvc    *service.WalletService
	providerRepo *repository.ProviderRepository
	requestRepo  *repository.RequestRepository
	unlockRepo   *repository.UnlockRepository
	notifSvc     *service.NotificationService
}

func NewLeadHandler(
	walletSvc *service.WalletService,
	providerRepo *repository.ProviderRepository,
	requestRepo *repository.RequestRepository,
	unlockRepo *repository.UnlockRepository,
	notifSvc *service.NotificationService,
) *LeadHandler {
	return &LeadHandler{
		walletSvc:    walletSvc,
		providerRepo: providerRepo,
		requestRepo:  requestRepo,
		unlockRepo:   unlockRepo,
		notifSvc:     notifSvc,
	}
}

// Unlock handles POST /requests/:id/unlock. On success the response carries
// the client contact fields that are hidden everywhere else.
func (h *LeadHandler) Unlock(c *gin.Context) {
	userID := middleware.GetUserID(c)
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	res, err := h.walletSvc.UnlockLead(userID, requestID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	// Post-commit side effect; failure must not affect the response.
	providerName := res.Provider.CompanyName
	if providerName == "" {
		providerName = "A provider"
	}
	if err := h.notifSvc.NotifyLeadUnlocked(res.Request.ClientID, res.Request.ID, providerName); err != nil {
		log.Printf("[unlock] notify client %d: %v", res.Request.ClientID, err)
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":                   res.Unlock.ID,
		"request_id":           res.Unlock.RequestID,
		"provider_id":          res.Unlock.ProviderID,
		"unlock_fee":           res.Unlock.UnlockFee,
		"status":               res.Unlock.Status,
		"unlocked_at":          res.Unlock.UnlockedAt,
		"wallet_balance_after": res.BalanceAfter,
		"request": gin.H{
			"id":    res.Request.ID,
			"title": res.Request.Title,
			"client": gin.H{
				"full_name": res.Request.Client.FullName,
				"email":     res.Request.Client.Email,
				"phone":     res.Request.Client.Phone,
			},
		},
	})
}

// ListLeads handles GET /requests for providers: published requests only,
// contact details masked.
func (h *LeadHandler) ListLeads(c *gin.Context) {
	if _, ok := h.approvedProvider(c); !ok {
		return
	}
	page, limit := parsePagination(c)
	list, total, err := h.requestRepo.ListPublished(c.Query("category"), page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal", "failed to list leads")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "total": total, "page": page, "limit": limit})
}

// GetLead handles GET /requests/:id for providers. Client contact fields are
// present only when the caller holds a completed unlock.
func (h *LeadHandler) GetLead(c *gin.Context) {
	prov, ok := h.approvedProvider(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	req, err := h.requestRepo.GetWithClient(nil, requestID)
	if err != nil {
		respondDomainError(c, domain.ErrRequestNotFound)
		return
	}
	unlocked, err := h.unlockRepo.HasCompleted(req.ID, prov.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal", "failed to load lead")
		return
	}
	resp := gin.H{
		"id":          req.ID,
		"title":       req.Title,
		"description": req.Description,
		"category":    req.Category,
		"city":        req.City,
		"unlock_fee":  req.UnlockFee,
		"status":      req.Status,
		"unlocked":    unlocked,
		"created_at":  req.CreatedAt,
	}
	if unlocked {
		resp["client"] = gin.H{
			"full_name": req.Client.FullName,
			"email":     req.Client.Email,
			"phone":     req.Client.Phone,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ListMyUnlocks handles GET /providers/me/unlocks.
func (h *LeadHandler) ListMyUnlocks(c *gin.Context) {
	prov, ok := h.approvedProvider(c)
	if !ok {
		return
	}
	page, limit := parsePagination(c)
	list, total, err := h.unlockRepo.ListByProvider(prov.ID, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal", "failed to list unlocks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "total": total, "page": page, "limit": limit})
}

func (h *LeadHandler) approvedProvider(c *gin.Context) (*models.ProviderProfile, bool) {
	userID := middleware.GetUserID(c)
	p, err := h.providerRepo.GetByUserID(userID)
	if err != nil {
		respondDomainError(c, domain.ErrProviderNotFound)
		return nil, false
	}
	if p.Status != domain.ProviderStatusApproved {
		respondDomainError(c, domain.ErrProviderNotApproved)
		return nil, false
	}
	return p, true
}
