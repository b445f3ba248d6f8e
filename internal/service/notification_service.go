package service

import (
	"encoding/json"
	"fmt"

	"rabet/internal/models"
	"rabet/internal/repository"

	"github.com/shopspring/decimal"
)

// NotificationService persists in-app notification records. Delivery is
// fire-and-forget: callers invoke it after their transaction has committed
// and ignore the error beyond logging.
type NotificationService struct {
	repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	return s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
}

// NotifyLeadUnlocked tells the client a provider has paid to see their request.
func (s *NotificationService) NotifyLeadUnlocked(clientUserID, requestID uint, providerName string) error {
	return s.Notify(clientUserID, "LEAD_UNLOCKED", "Provider interested",
		providerName+" unlocked your request and may contact you soon",
		map[string]interface{}{"request_id": requestID})
}

func (s *NotificationService) NotifyUnlockRefunded(providerUserID, unlockID uint, amount decimal.Decimal) error {
	return s.Notify(providerUserID, "UNLOCK_REFUNDED", "Unlock refunded",
		fmt.Sprintf("EGP %s was returned to your wallet for unlock #%d", amount.StringFixed(2), unlockID),
		map[string]interface{}{"unlock_id": unlockID, "amount": amount.StringFixed(2)})
}

func (s *NotificationService) NotifyWalletAdjusted(providerUserID uint, amount decimal.Decimal, reason string) error {
	verb := "credited to"
	if amount.IsNegative() {
		verb = "deducted from"
	}
	return s.Notify(providerUserID, "WALLET_ADJUSTED", "Wallet adjusted",
		fmt.Sprintf("EGP %s was %s your wallet: %s", amount.Abs().StringFixed(2), verb, reason),
		map[string]interface{}{"amount": amount.StringFixed(2), "reason": reason})
}

func (s *NotificationService) NotifyDepositConfirmed(providerUserID uint, amount decimal.Decimal, sessionID string) error {
	return s.Notify(providerUserID, "DEPOSIT_CONFIRMED", "Deposit confirmed",
		fmt.Sprintf("EGP %s was added to your wallet", amount.StringFixed(2)),
		map[string]interface{}{"amount": amount.StringFixed(2), "session_id": sessionID})
}

func (s *NotificationService) NotifyProviderApproved(providerUserID uint) error {
	return s.Notify(providerUserID, "PROVIDER_APPROVED", "Application approved",
		"Your provider application was approved. Top up your wallet to start unlocking leads.", nil)
}
