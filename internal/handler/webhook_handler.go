package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"rabet/config"
	"rabet/internal/repository"
	"rabet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// WebhookHandler receives mock payment gateway callbacks. The gateway is
// trusted only through the shared-secret signature; replays of the same
// session are acknowledged without crediting twice.
type WebhookHandler struct {
	cfg           config.PaymentConfig
	walletService *service.WalletService
	providerRepo  *repository.ProviderRepository
	notifications *service.NotificationService
}

func NewWebhookHandler(
	cfg config.PaymentConfig,
	walletService *service.WalletService,
	providerRepo *repository.ProviderRepository,
	notifications *service.NotificationService,
) *WebhookHandler {
	return &WebhookHandler{
		cfg:           cfg,
		walletService: walletService,
		providerRepo:  providerRepo,
		notifications: notifications,
	}
}

type paymentWebhookPayload struct {
	SessionID string          `json:"session_id"`
	WalletID  uint            `json:"wallet_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
}

// MockPayment handles POST /webhooks/mock-payment.
func (h *WebhookHandler) MockPayment(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", "unreadable body")
		return
	}
	if h.cfg.WebhookSecret != "" && !h.verifySignature(body, c.GetHeader("X-Webhook-Signature")) {
		respondError(c, http.StatusUnauthorized, "unauthorized", "invalid webhook signature")
		return
	}
	var payload paymentWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if payload.SessionID == "" || payload.WalletID == 0 || payload.Status == "" {
		respondError(c, http.StatusBadRequest, "bad_request", "session_id, wallet_id and status are required")
		return
	}

	res, err := h.walletService.ConfirmDeposit(payload.SessionID, payload.WalletID, payload.Amount, payload.Status)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	switch {
	case res.Ignored:
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
	case res.AlreadyProcessed:
		c.JSON(http.StatusOK, gin.H{"message": "already processed", "transaction_id": res.TransactionID})
	default:
		if prov, perr := h.providerRepo.GetByID(res.Wallet.ProviderID); perr == nil {
			if nerr := h.notifications.NotifyDepositConfirmed(prov.UserID, payload.Amount, payload.SessionID); nerr != nil {
				log.Printf("notify deposit confirmed: %v", nerr)
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "deposit recorded", "transaction_id": res.TransactionID})
	}
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.cfg.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
