package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"rabet/internal/domain"
	"rabet/internal/middleware"
	"rabet/internal/models"
	"rabet/internal/repository"
	"rabet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AdminHandler struct {
	providerRepo  *repository.ProviderRepository
	walletRepo    *repository.WalletRepository
	unlockRepo    *repository.UnlockRepository
	ledgerRepo    *repository.LedgerRepository
	auditRepo     *repository.AuditLogRepository
	walletService *service.WalletService
	notifications *service.NotificationService
}

func NewAdminHandler(
	providerRepo *repository.ProviderRepository,
	walletRepo *repository.WalletRepository,
	unlockRepo *repository.UnlockRepository,
	ledgerRepo *repository.LedgerRepository,
	auditRepo *repository.AuditLogRepository,
	walletService *service.WalletService,
	notifications *service.NotificationService,
) *AdminHandler {
	return &AdminHandler{
		providerRepo:  providerRepo,
		walletRepo:    walletRepo,
		unlockRepo:    unlockRepo,
		ledgerRepo:    ledgerRepo,
		auditRepo:     auditRepo,
		walletService: walletService,
		notifications: notifications,
	}
}

// ApproveProvider handles POST /admin/providers/:id/approve. Approval is the
// moment the provider's wallet comes into existence, with a zero balance.
func (h *AdminHandler) ApproveProvider(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	prov, err := h.providerRepo.GetByID(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "not_found", "provider not found")
		return
	}
	if prov.Status == domain.ProviderStatusApproved {
		respondError(c, http.StatusBadRequest, "bad_request", "provider already approved")
		return
	}
	now := time.Now()
	if err := h.providerRepo.Approve(prov.ID, now); err != nil {
		respondError(c, http.StatusInternalServerError, "internal", "failed to approve provider")
		return
	}
	if _, err := h.walletRepo.GetByProviderID(nil, prov.ID); err != nil {
		if _, err := h.walletRepo.CreateForProvider(prov.ID); err != nil {
			respondError(c, http.StatusInternalServerError, "internal", "failed to create wallet")
			return
		}
	}
	if err := h.notifications.NotifyProviderApproved(prov.UserID); err != nil {
		log.Printf("notify provider approved: %v", err)
	}
	h.audit(c, "provider.approve", "provider", formatUint(prov.ID), nil)
	prov.Status = domain.ProviderStatusApproved
	prov.ApprovedAt = &now
	c.JSON(http.StatusOK, prov)
}

// RejectProvider handles POST /admin/providers/:id/reject.
func (h *AdminHandler) RejectProvider(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	prov, err := h.providerRepo.GetByID(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "not_found", "provider not found")
		return
	}
	if prov.Status != domain.ProviderStatusPending {
		respondError(c, http.StatusBadRequest, "bad_request", "only pending providers can be rejected")
		return
	}
	if err := h.providerRepo.UpdateStatus(prov.ID, domain.ProviderStatusRejected); err != nil {
		respondError(c, http.StatusInternalServerError, "internal", "failed to reject provider")
		return
	}
	h.audit(c, "provider.reject", "provider", formatUint(prov.ID), nil)
	prov.Status = domain.ProviderStatusRejected
	c.JSON(http.StatusOK, prov)
}

func (h *AdminHandler) ListProviders(c *gin.Context) {
	page, limit := parsePagination(c)
	list, total, err := h.providerRepo.List(c.Query("status"), page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal", "failed to list providers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": list, "total": total, "page": page, "limit": limit})
}

// RefundUnlock handles POST /admin/unlocks/:id/refund. The reason is required
// and lands in the refund transaction's metadata.
func (h *AdminHandler) RefundUnlock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", "reason is required")
		return
	}
	res, err := h.walletService.RefundUnlock(id, req.Reason)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if err := h.notifications.NotifyUnlockRefunded(res.ProviderUserID, res.Unlock.ID, res.Entry.Amount); err != nil {
		log.Printf("notify unlock refunded: %v", err)
	}
	h.audit(c, "unlock.refund", "lead_unlock", formatUint(res.Unlock.ID), map[string]interface{}{
		"reason": req.Reason,
		"amount": res.Entry.Amount.StringFixed(2),
	})
	c.JSON(http.StatusOK, gin.H{
		"unlock_id":             res.Unlock.ID,
		"status":                res.Unlock.Status,
		"refunded_at":           res.RefundedAt,
		"refund_amount":         res.Entry.Amount,
		"wallet_transaction_id": res.Entry.ID,
	})
}

// AdjustWallet handles POST /admin/providers/:id/wallet/adjust. The amount is
// signed: positive credits, negative deducts. Zero is rejected.
func (h *AdminHandler) AdjustWallet(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Amount decimal.Decimal `json:"amount" binding:"required"`
		Reason string          `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", "amount and reason are required")
		return
	}
	res, err := h.walletService.AdjustWallet(id, req.Amount, req.Reason)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if err := h.notifications.NotifyWalletAdjusted(res.ProviderUserID, req.Amount, req.Reason); err != nil {
		log.Printf("notify wallet adjusted: %v", err)
	}
	h.audit(c, "wallet.adjust", "provider_wallet", formatUint(res.Entry.WalletID), map[string]interface{}{
		"amount": req.Amount.StringFixed(2),
		"reason": req.Reason,
	})
	c.JSON(http.StatusOK, gin.H{
		"transaction_id": res.Entry.ID,
		"type":           "adjustment",
		"amount":         req.Amount,
		"balance_before": res.Entry.BalanceBefore,
		"balance_after":  res.Entry.BalanceAfter,
	})
}

func (h *AdminHandler) ListUnlocks(c *gin.Context) {
	page, limit := parsePagination(c)
	list, total, err := h.unlockRepo.ListAll(c.Query("status"), page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal", "failed to list unlocks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"unlocks": list, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) ListTransactions(c *gin.Context) {
	page, limit := parsePagination(c)
	list, total, err := h.ledgerRepo.ListAll(c.Query("type"), page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal", "failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	page, limit := parsePagination(c)
	list, total, err := h.auditRepo.List(c.Query("action"), page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal", "failed to list audit logs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": list, "total": total, "page": page, "limit": limit})
}

// audit records an admin action. Failures are logged and swallowed; the audit
// trail never blocks the action it describes.
func (h *AdminHandler) audit(c *gin.Context, action, resource, resourceID string, meta map[string]interface{}) {
	actorID := middleware.GetUserID(c)
	var metaJSON string
	if meta != nil {
		b, _ := json.Marshal(meta)
		metaJSON = string(b)
	}
	entry := &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Metadata:   metaJSON,
	}
	if err := h.auditRepo.Create(entry); err != nil {
		log.Printf("audit %s: %v", action, err)
	}
}
