package handler

import (
	"net/http"

	"rabet/internal/middleware"
	"rabet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletSvc *service.WalletService
}

func NewWalletHandler(walletSvc *service.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// GetWallet handles GET /providers/me/wallet. Deposited/spent totals are
// derived from the ledger, not stored on the wallet.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID := middleware.GetUserID(c)
	summary, err := h.walletSvc.GetWalletSummary(userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":              summary.Wallet.ID,
		"balance":         summary.Wallet.Balance,
		"currency":        summary.Wallet.Currency,
		"total_deposited": summary.TotalDeposited,
		"total_spent":     summary.TotalSpent,
		"updated_at":      summary.Wallet.UpdatedAt,
	})
}

// ListTransactions handles GET /providers/me/wallet/transactions.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := parsePagination(c)
	list, total, err := h.walletSvc.ListTransactions(userID, page, limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "total": total, "page": page, "limit": limit})
}

// InitiateDeposit handles POST /providers/me/wallet/deposit. Returns the
// session the mock gateway will confirm via the webhook.
func (h *WalletHandler) InitiateDeposit(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Amount decimal.Decimal `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	session, err := h.walletSvc.InitiateDeposit(userID, req.Amount)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session_id": session.SessionID,
		"wallet_id":  session.WalletID,
		"amount":     session.Amount,
		"status":     session.Status,
	})
}
