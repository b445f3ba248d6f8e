package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"rabet/internal/domain"
	"rabet/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transactor runs a function inside a database transaction, rolling back on
// error. *gorm.DB satisfies it.
type Transactor interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// Store interfaces are the minimal surface WalletService needs. The
// repository package provides the production implementations; tests use
// in-memory fakes. A nil tx means "outside any transaction".

type ProviderStore interface {
	GetByUserID(userID uint) (*models.ProviderProfile, error)
	GetByID(id uint) (*models.ProviderProfile, error)
}

type WalletStore interface {
	GetByProviderID(tx *gorm.DB, providerID uint) (*models.ProviderWallet, error)
	GetByID(tx *gorm.DB, id uint) (*models.ProviderWallet, error)
	Debit(tx *gorm.DB, walletID uint, amount decimal.Decimal) (*models.ProviderWallet, error)
	Credit(tx *gorm.DB, walletID uint, delta decimal.Decimal) (*models.ProviderWallet, error)
}

type LedgerStore interface {
	Create(tx *gorm.DB, entry *models.WalletTransaction) error
	GetByReference(tx *gorm.DB, refType, refID string) (*models.WalletTransaction, error)
	ListByWallet(walletID uint, page, limit int) ([]models.WalletTransaction, int64, error)
	TotalsByType(walletID uint) (map[string]decimal.Decimal, error)
}

type UnlockStore interface {
	Create(tx *gorm.DB, u *models.LeadUnlock) error
	GetByID(tx *gorm.DB, id uint) (*models.LeadUnlock, error)
	FindByPair(tx *gorm.DB, requestID, providerID uint) (*models.LeadUnlock, error)
	MarkRefunded(tx *gorm.DB, id uint, refundTxID uint, at time.Time) error
}

type RequestStore interface {
	GetWithClient(tx *gorm.DB, id uint) (*models.Request, error)
}

type SessionStore interface {
	Create(s *models.PaymentSession) error
	GetBySessionID(tx *gorm.DB, sessionID string) (*models.PaymentSession, error)
	MarkStatus(tx *gorm.DB, sessionID, status string) error
}

// WalletService owns every balance-affecting flow: lead unlock, admin refund,
// admin adjustment and deposit confirmation. Each flow runs as one database
// transaction that writes the ledger row and the balance update together, so
// a failure at any step leaves no partial state.
type WalletService struct {
	db        Transactor
	providers ProviderStore
	wallets   WalletStore
	ledger    LedgerStore
	unlocks   UnlockStore
	requests  RequestStore
	sessions  SessionStore
}

func NewWalletService(
	db Transactor,
	providers ProviderStore,
	wallets WalletStore,
	ledger LedgerStore,
	unlocks UnlockStore,
	requests RequestStore,
	sessions SessionStore,
) *WalletService {
	return &WalletService{
		db:        db,
		providers: providers,
		wallets:   wallets,
		ledger:    ledger,
		unlocks:   unlocks,
		requests:  requests,
		sessions:  sessions,
	}
}

type UnlockResult struct {
	Unlock       *models.LeadUnlock
	Request      *models.Request
	Provider     *models.ProviderProfile
	BalanceAfter decimal.Decimal
}

// UnlockLead debits the unlock fee from the provider's wallet and creates the
// LeadUnlock granting access to the client's contact details. Idempotent from
// the caller's side: a repeat call fails the duplicate check (or the unique
// constraint under a concurrent race) and never charges twice.
func (s *WalletService) UnlockLead(userID, requestID uint) (*UnlockResult, error) {
	prov, err := s.providers.GetByUserID(userID)
	if err != nil {
		return nil, orSentinel(err, domain.ErrProviderNotFound)
	}
	var res *UnlockResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := s.wallets.GetByProviderID(tx, prov.ID)
		if err != nil {
			return orSentinel(err, domain.ErrWalletNotFound)
		}
		req, err := s.requests.GetWithClient(tx, requestID)
		if err != nil {
			return orSentinel(err, domain.ErrRequestNotFound)
		}
		if req.Status != domain.RequestStatusPublished {
			return domain.ErrRequestNotPublished
		}
		// Any row for the pair blocks a new unlock, refunded ones included:
		// the unique index would reject the insert anyway, so fail before
		// touching the balance.
		existing, err := s.unlocks.FindByPair(tx, requestID, prov.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyUnlocked
		}
		if wallet.Balance.LessThan(req.UnlockFee) {
			return domain.ErrInsufficientBalance
		}
		// Guarded single-statement debit; balance_before derives from the
		// post-update re-read, never from the stale wallet loaded above.
		updated, err := s.wallets.Debit(tx, wallet.ID, req.UnlockFee)
		if err != nil {
			return err
		}
		entry := &models.WalletTransaction{
			WalletID:      wallet.ID,
			Type:          domain.TxTypeDebit,
			Amount:        req.UnlockFee,
			BalanceBefore: updated.Balance.Add(req.UnlockFee),
			BalanceAfter:  updated.Balance,
			ReferenceType: domain.RefTypeLeadUnlock,
			ReferenceID:   formatID(req.ID),
			Description:   fmt.Sprintf("Unlock fee for request #%d", req.ID),
		}
		if err := s.ledger.Create(tx, entry); err != nil {
			return err
		}
		unlock := &models.LeadUnlock{
			RequestID:           req.ID,
			ProviderID:          prov.ID,
			Status:              domain.UnlockStatusCompleted,
			UnlockFee:           req.UnlockFee,
			WalletTransactionID: entry.ID,
			UnlockedAt:          time.Now(),
		}
		if err := s.unlocks.Create(tx, unlock); err != nil {
			// A concurrent unlock of the same pair collides on the unique
			// index; report it as already unlocked, the charge rolls back.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyUnlocked
			}
			return err
		}
		res = &UnlockResult{Unlock: unlock, Request: req, Provider: prov, BalanceAfter: updated.Balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

type RefundResult struct {
	Unlock         *models.LeadUnlock
	Entry          *models.WalletTransaction
	ProviderUserID uint
	RefundedAt     time.Time
}

// RefundUnlock reverses a lead unlock, crediting the fee back and flipping the
// unlock to refunded. Permanent; a refunded unlock cannot be refunded again or
// restored.
func (s *WalletService) RefundUnlock(unlockID uint, reason string) (*RefundResult, error) {
	var res *RefundResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		unlock, err := s.unlocks.GetByID(tx, unlockID)
		if err != nil {
			return orSentinel(err, domain.ErrUnlockNotFound)
		}
		if unlock.Status == domain.UnlockStatusRefunded {
			return domain.ErrAlreadyRefunded
		}
		wallet, err := s.wallets.GetByProviderID(tx, unlock.ProviderID)
		if err != nil {
			return orSentinel(err, domain.ErrWalletIntegrity)
		}
		updated, err := s.wallets.Credit(tx, wallet.ID, unlock.UnlockFee)
		if err != nil {
			return err
		}
		meta, _ := json.Marshal(map[string]string{"reason": reason})
		entry := &models.WalletTransaction{
			WalletID:      wallet.ID,
			Type:          domain.TxTypeRefund,
			Amount:        unlock.UnlockFee,
			BalanceBefore: updated.Balance.Sub(unlock.UnlockFee),
			BalanceAfter:  updated.Balance,
			ReferenceType: domain.RefTypeLeadUnlock,
			ReferenceID:   formatID(unlock.ID),
			Description:   fmt.Sprintf("Refund for unlock #%d", unlock.ID),
			Metadata:      string(meta),
		}
		if err := s.ledger.Create(tx, entry); err != nil {
			return err
		}
		now := time.Now()
		if err := s.unlocks.MarkRefunded(tx, unlock.ID, entry.ID, now); err != nil {
			return err
		}
		unlock.Status = domain.UnlockStatusRefunded
		unlock.RefundedAt = &now
		unlock.RefundTransactionID = &entry.ID
		res = &RefundResult{
			Unlock:         unlock,
			Entry:          entry,
			ProviderUserID: unlock.Provider.UserID,
			RefundedAt:     now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

type AdjustResult struct {
	Entry          *models.WalletTransaction
	ProviderUserID uint
}

// AdjustWallet applies a signed delta to a provider's balance with a
// human-readable reason. The ledger stores the unsigned magnitude; the sign
// lives in the entry type (deposit for credits, debit for deductions), same
// convention as every other flow.
func (s *WalletService) AdjustWallet(providerID uint, amount decimal.Decimal, reason string) (*AdjustResult, error) {
	if amount.IsZero() {
		return nil, domain.ErrZeroAmount
	}
	prov, err := s.providers.GetByID(providerID)
	if err != nil {
		return nil, orSentinel(err, domain.ErrProviderNotFound)
	}
	var res *AdjustResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := s.wallets.GetByProviderID(tx, providerID)
		if err != nil {
			return orSentinel(err, domain.ErrWalletNotFound)
		}
		updated, err := s.wallets.Credit(tx, wallet.ID, amount)
		if err != nil {
			return err
		}
		txType := domain.TxTypeDeposit
		if amount.IsNegative() {
			txType = domain.TxTypeDebit
		}
		entry := &models.WalletTransaction{
			WalletID:      wallet.ID,
			Type:          txType,
			Amount:        amount.Abs(),
			BalanceBefore: updated.Balance.Sub(amount),
			BalanceAfter:  updated.Balance,
			ReferenceType: domain.RefTypeManualAdjustment,
			ReferenceID:   formatID(providerID),
			Description:   reason,
		}
		if err := s.ledger.Create(tx, entry); err != nil {
			return err
		}
		res = &AdjustResult{Entry: entry, ProviderUserID: prov.UserID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

type DepositResult struct {
	Ignored          bool
	AlreadyProcessed bool
	TransactionID    uint
	Wallet           *models.ProviderWallet
}

// ConfirmDeposit credits a wallet from a payment confirmation. Replays of the
// same session_id are detected through the ledger reference columns and
// acknowledged without a second credit. Non-success statuses are ignored.
func (s *WalletService) ConfirmDeposit(sessionID string, walletID uint, amount decimal.Decimal, status string) (*DepositResult, error) {
	if status != domain.SessionStatusSuccess {
		return &DepositResult{Ignored: true}, nil
	}
	if !amount.IsPositive() {
		return nil, domain.ErrZeroAmount
	}
	var res *DepositResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.ledger.GetByReference(tx, domain.RefTypePaymentSession, sessionID)
		if err == nil {
			res = &DepositResult{AlreadyProcessed: true, TransactionID: existing.ID}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// When we issued the session ourselves, the confirmation must match
		// what was recorded at initiation.
		session, err := s.sessions.GetBySessionID(tx, sessionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if session != nil && (session.WalletID != walletID || !session.Amount.Equal(amount)) {
			return domain.ErrSessionMismatch
		}
		wallet, err := s.wallets.GetByID(tx, walletID)
		if err != nil {
			return orSentinel(err, domain.ErrWalletNotFound)
		}
		updated, err := s.wallets.Credit(tx, wallet.ID, amount)
		if err != nil {
			return err
		}
		entry := &models.WalletTransaction{
			WalletID:      wallet.ID,
			Type:          domain.TxTypeDeposit,
			Amount:        amount,
			BalanceBefore: updated.Balance.Sub(amount),
			BalanceAfter:  updated.Balance,
			ReferenceType: domain.RefTypePaymentSession,
			ReferenceID:   sessionID,
			Description:   "Wallet deposit",
		}
		if err := s.ledger.Create(tx, entry); err != nil {
			return err
		}
		if err := s.sessions.MarkStatus(tx, sessionID, domain.SessionStatusSuccess); err != nil {
			return err
		}
		res = &DepositResult{TransactionID: entry.ID, Wallet: updated}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// InitiateDeposit opens a pending payment session for the provider's wallet.
// The mock gateway later confirms it through the webhook.
func (s *WalletService) InitiateDeposit(userID uint, amount decimal.Decimal) (*models.PaymentSession, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrZeroAmount
	}
	wallet, err := s.walletForUser(userID)
	if err != nil {
		return nil, err
	}
	session := &models.PaymentSession{
		SessionID: uuid.New().String(),
		WalletID:  wallet.ID,
		Amount:    amount,
		Status:    domain.SessionStatusPending,
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

type WalletSummary struct {
	Wallet         *models.ProviderWallet
	TotalDeposited decimal.Decimal
	TotalSpent     decimal.Decimal
}

// GetWalletSummary returns the wallet with deposited/spent totals derived by
// grouping ledger rows by type.
func (s *WalletService) GetWalletSummary(userID uint) (*WalletSummary, error) {
	wallet, err := s.walletForUser(userID)
	if err != nil {
		return nil, err
	}
	totals, err := s.ledger.TotalsByType(wallet.ID)
	if err != nil {
		return nil, err
	}
	return &WalletSummary{
		Wallet:         wallet,
		TotalDeposited: totals[domain.TxTypeDeposit],
		TotalSpent:     totals[domain.TxTypeDebit],
	}, nil
}

// ListTransactions pages through the caller's own ledger, newest first.
func (s *WalletService) ListTransactions(userID uint, page, limit int) ([]models.WalletTransaction, int64, error) {
	wallet, err := s.walletForUser(userID)
	if err != nil {
		return nil, 0, err
	}
	return s.ledger.ListByWallet(wallet.ID, page, limit)
}

func (s *WalletService) walletForUser(userID uint) (*models.ProviderWallet, error) {
	prov, err := s.providers.GetByUserID(userID)
	if err != nil {
		return nil, orSentinel(err, domain.ErrProviderNotFound)
	}
	wallet, err := s.wallets.GetByProviderID(nil, prov.ID)
	if err != nil {
		return nil, orSentinel(err, domain.ErrWalletNotFound)
	}
	return wallet, nil
}

// orSentinel swaps a gorm not-found for the domain-level sentinel, leaving
// other errors untouched.
func orSentinel(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
