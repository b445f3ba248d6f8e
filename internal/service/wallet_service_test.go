package service

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"rabet/internal/domain"
	"rabet/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ---------------------------------------------------------------------------
// In-memory fakes for the WalletService store interfaces. They let us test
// the real debit/credit/ledger logic without a database. The fake transactor
// just runs the function; each fake keeps its own lock.
// ---------------------------------------------------------------------------

type fakeTransactor struct{}

func (fakeTransactor) Transaction(fc func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	return fc(nil)
}

type fakeProviders struct {
	byUser map[uint]*models.ProviderProfile
	byID   map[uint]*models.ProviderProfile
}

func newFakeProviders(provs ...*models.ProviderProfile) *fakeProviders {
	f := &fakeProviders{
		byUser: make(map[uint]*models.ProviderProfile),
		byID:   make(map[uint]*models.ProviderProfile),
	}
	for _, p := range provs {
		f.byUser[p.UserID] = p
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProviders) GetByUserID(userID uint) (*models.ProviderProfile, error) {
	p, ok := f.byUser[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProviders) GetByID(id uint) (*models.ProviderProfile, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

type fakeWallets struct {
	mu      sync.Mutex
	wallets map[uint]*models.ProviderWallet
}

func newFakeWallets(ws ...*models.ProviderWallet) *fakeWallets {
	f := &fakeWallets{wallets: make(map[uint]*models.ProviderWallet)}
	for _, w := range ws {
		cp := *w
		f.wallets[w.ID] = &cp
	}
	return f
}

func (f *fakeWallets) GetByProviderID(_ *gorm.DB, providerID uint) (*models.ProviderWallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.wallets {
		if w.ProviderID == providerID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWallets) GetByID(_ *gorm.DB, id uint) (*models.ProviderWallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWallets) Debit(_ *gorm.DB, walletID uint, amount decimal.Decimal) (*models.ProviderWallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[walletID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if w.Balance.LessThan(amount) {
		return nil, domain.ErrInsufficientBalance
	}
	w.Balance = w.Balance.Sub(amount)
	cp := *w
	return &cp, nil
}

func (f *fakeWallets) Credit(_ *gorm.DB, walletID uint, delta decimal.Decimal) (*models.ProviderWallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[walletID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	w.Balance = w.Balance.Add(delta)
	cp := *w
	return &cp, nil
}

func (f *fakeWallets) balance(walletID uint) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wallets[walletID].Balance
}

type fakeLedger struct {
	mu      sync.Mutex
	nextID  uint
	entries []*models.WalletTransaction
}

func (f *fakeLedger) Create(_ *gorm.DB, entry *models.WalletTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	entry.ID = f.nextID
	cp := *entry
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeLedger) GetByReference(_ *gorm.DB, refType, refID string) (*models.WalletTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.ReferenceType == refType && e.ReferenceID == refID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLedger) ListByWallet(walletID uint, page, limit int) ([]models.WalletTransaction, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.WalletTransaction
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].WalletID == walletID {
			out = append(out, *f.entries[i])
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeLedger) TotalsByType(walletID uint) (map[string]decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	totals := make(map[string]decimal.Decimal)
	for _, e := range f.entries {
		if e.WalletID == walletID {
			totals[e.Type] = totals[e.Type].Add(e.Amount)
		}
	}
	return totals, nil
}

func (f *fakeLedger) byType(txType string) []*models.WalletTransaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.WalletTransaction
	for _, e := range f.entries {
		if e.Type == txType {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeLedger) all() []*models.WalletTransaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.WalletTransaction, len(f.entries))
	copy(out, f.entries)
	return out
}

// fakeUnlocks enforces the same uniqueness the composite index gives us in
// MySQL: one unlock row per (request, provider) pair, refunded or not.
type fakeUnlocks struct {
	mu      sync.Mutex
	nextID  uint
	unlocks []*models.LeadUnlock
}

func (f *fakeUnlocks) Create(_ *gorm.DB, u *models.LeadUnlock) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.unlocks {
		if existing.RequestID == u.RequestID && existing.ProviderID == u.ProviderID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.unlocks = append(f.unlocks, &cp)
	return nil
}

func (f *fakeUnlocks) GetByID(_ *gorm.DB, id uint) (*models.LeadUnlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.unlocks {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUnlocks) FindByPair(_ *gorm.DB, requestID, providerID uint) (*models.LeadUnlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.unlocks {
		if u.RequestID == requestID && u.ProviderID == providerID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUnlocks) MarkRefunded(_ *gorm.DB, id uint, refundTxID uint, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.unlocks {
		if u.ID == id {
			u.Status = domain.UnlockStatusRefunded
			u.RefundTransactionID = &refundTxID
			u.RefundedAt = &at
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeRequests struct {
	requests map[uint]*models.Request
}

func (f *fakeRequests) GetWithClient(_ *gorm.DB, id uint) (*models.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]*models.PaymentSession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]*models.PaymentSession)}
}

func (f *fakeSessions) Create(s *models.PaymentSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[s.SessionID]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *s
	f.sessions[s.SessionID] = &cp
	return nil
}

func (f *fakeSessions) GetBySessionID(_ *gorm.DB, sessionID string) (*models.PaymentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) MarkStatus(_ *gorm.DB, sessionID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[sessionID]; ok {
		s.Status = status
	}
	return nil
}

// ---------------------------------------------------------------------------
// Test fixture
// ---------------------------------------------------------------------------

type fixture struct {
	svc       *WalletService
	providers *fakeProviders
	wallets   *fakeWallets
	ledger    *fakeLedger
	unlocks   *fakeUnlocks
	requests  *fakeRequests
	sessions  *fakeSessions
}

const (
	testUserID     = uint(10)
	testProviderID = uint(1)
	testWalletID   = uint(1)
	testRequestID  = uint(100)
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("bad decimal %q: %v", s, err))
	}
	return d
}

// newFixture sets up an approved provider holding a wallet with the given
// balance, plus one published request with the given unlock fee.
func newFixture(balance, fee string) *fixture {
	providers := newFakeProviders(&models.ProviderProfile{
		ID:     testProviderID,
		UserID: testUserID,
		Status: domain.ProviderStatusApproved,
	})
	wallets := newFakeWallets(&models.ProviderWallet{
		ID:         testWalletID,
		ProviderID: testProviderID,
		Balance:    dec(balance),
		Currency:   domain.DefaultCurrency,
	})
	ledger := &fakeLedger{}
	unlocks := &fakeUnlocks{}
	requests := &fakeRequests{requests: map[uint]*models.Request{
		testRequestID: {
			ID:        testRequestID,
			ClientID:  99,
			Title:     "Fix kitchen sink",
			UnlockFee: dec(fee),
			Status:    domain.RequestStatusPublished,
		},
	}}
	sessions := newFakeSessions()
	svc := NewWalletService(fakeTransactor{}, providers, wallets, ledger, unlocks, requests, sessions)
	return &fixture{
		svc:       svc,
		providers: providers,
		wallets:   wallets,
		ledger:    ledger,
		unlocks:   unlocks,
		requests:  requests,
		sessions:  sessions,
	}
}

// ---------------------------------------------------------------------------
// UnlockLead
// ---------------------------------------------------------------------------

func TestUnlockLead(t *testing.T) {
	f := newFixture("100.00", "50.00")

	res, err := f.svc.UnlockLead(testUserID, testRequestID)
	if err != nil {
		t.Fatalf("UnlockLead: %v", err)
	}
	if !res.BalanceAfter.Equal(dec("50.00")) {
		t.Errorf("balance after unlock: got %s, want 50.00", res.BalanceAfter)
	}
	if res.Unlock.Status != domain.UnlockStatusCompleted {
		t.Errorf("unlock status: got %s, want %s", res.Unlock.Status, domain.UnlockStatusCompleted)
	}
	if !res.Unlock.UnlockFee.Equal(dec("50.00")) {
		t.Errorf("unlock fee: got %s, want 50.00", res.Unlock.UnlockFee)
	}

	debits := f.ledger.byType(domain.TxTypeDebit)
	if len(debits) != 1 {
		t.Fatalf("debit entries: got %d, want 1", len(debits))
	}
	e := debits[0]
	if !e.Amount.Equal(dec("50.00")) {
		t.Errorf("debit amount: got %s, want 50.00", e.Amount)
	}
	if !e.BalanceBefore.Equal(dec("100.00")) || !e.BalanceAfter.Equal(dec("50.00")) {
		t.Errorf("debit snapshots: got %s -> %s, want 100.00 -> 50.00", e.BalanceBefore, e.BalanceAfter)
	}
	if e.ReferenceType != domain.RefTypeLeadUnlock || e.ReferenceID != "100" {
		t.Errorf("debit reference: got %s/%s, want %s/100", e.ReferenceType, e.ReferenceID, domain.RefTypeLeadUnlock)
	}
	if res.Unlock.WalletTransactionID != e.ID {
		t.Error("unlock should link the debit transaction")
	}
}

func TestUnlockLeadExactBalance(t *testing.T) {
	f := newFixture("50.00", "50.00")

	res, err := f.svc.UnlockLead(testUserID, testRequestID)
	if err != nil {
		t.Fatalf("UnlockLead at exact balance: %v", err)
	}
	if !res.BalanceAfter.IsZero() {
		t.Errorf("balance after exact-fee unlock: got %s, want 0", res.BalanceAfter)
	}
}

func TestUnlockLeadInsufficientBalance(t *testing.T) {
	f := newFixture("49.99", "50.00")

	_, err := f.svc.UnlockLead(testUserID, testRequestID)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got: %v", err)
	}
	if !f.wallets.balance(testWalletID).Equal(dec("49.99")) {
		t.Errorf("balance must be untouched, got %s", f.wallets.balance(testWalletID))
	}
	if len(f.ledger.all()) != 0 {
		t.Errorf("no ledger rows expected, got %d", len(f.ledger.all()))
	}
}

func TestUnlockLeadIdempotent(t *testing.T) {
	f := newFixture("100.00", "30.00")

	if _, err := f.svc.UnlockLead(testUserID, testRequestID); err != nil {
		t.Fatalf("first unlock: %v", err)
	}
	_, err := f.svc.UnlockLead(testUserID, testRequestID)
	if !errors.Is(err, domain.ErrAlreadyUnlocked) {
		t.Fatalf("expected ErrAlreadyUnlocked, got: %v", err)
	}
	if !f.wallets.balance(testWalletID).Equal(dec("70.00")) {
		t.Errorf("balance charged twice: got %s, want 70.00", f.wallets.balance(testWalletID))
	}
	if got := len(f.ledger.byType(domain.TxTypeDebit)); got != 1 {
		t.Errorf("debit entries: got %d, want 1", got)
	}
}

func TestUnlockLeadNotPublished(t *testing.T) {
	f := newFixture("100.00", "50.00")
	f.requests.requests[testRequestID].Status = domain.RequestStatusClosed

	_, err := f.svc.UnlockLead(testUserID, testRequestID)
	if !errors.Is(err, domain.ErrRequestNotPublished) {
		t.Fatalf("expected ErrRequestNotPublished, got: %v", err)
	}
	if len(f.ledger.all()) != 0 {
		t.Errorf("no ledger rows expected, got %d", len(f.ledger.all()))
	}
}

func TestUnlockLeadUnknownProvider(t *testing.T) {
	f := newFixture("100.00", "50.00")

	_, err := f.svc.UnlockLead(999, testRequestID)
	if !errors.Is(err, domain.ErrProviderNotFound) {
		t.Fatalf("expected ErrProviderNotFound, got: %v", err)
	}
}

// ---------------------------------------------------------------------------
// RefundUnlock
// ---------------------------------------------------------------------------

func TestRefundUnlock(t *testing.T) {
	f := newFixture("100.00", "50.00")

	res, err := f.svc.UnlockLead(testUserID, testRequestID)
	if err != nil {
		t.Fatalf("UnlockLead: %v", err)
	}

	ref, err := f.svc.RefundUnlock(res.Unlock.ID, "client unreachable")
	if err != nil {
		t.Fatalf("RefundUnlock: %v", err)
	}
	if ref.Unlock.Status != domain.UnlockStatusRefunded {
		t.Errorf("unlock status: got %s, want %s", ref.Unlock.Status, domain.UnlockStatusRefunded)
	}
	if !f.wallets.balance(testWalletID).Equal(dec("100.00")) {
		t.Errorf("balance after refund: got %s, want 100.00", f.wallets.balance(testWalletID))
	}

	refunds := f.ledger.byType(domain.TxTypeRefund)
	if len(refunds) != 1 {
		t.Fatalf("refund entries: got %d, want 1", len(refunds))
	}
	e := refunds[0]
	if !e.BalanceBefore.Equal(dec("50.00")) || !e.BalanceAfter.Equal(dec("100.00")) {
		t.Errorf("refund snapshots: got %s -> %s, want 50.00 -> 100.00", e.BalanceBefore, e.BalanceAfter)
	}

	// A refund is permanent.
	if _, err := f.svc.RefundUnlock(res.Unlock.ID, "again"); !errors.Is(err, domain.ErrAlreadyRefunded) {
		t.Errorf("expected ErrAlreadyRefunded, got: %v", err)
	}

	// The refunded row still occupies the unique pair, so a re-unlock is
	// rejected up front, before any debit or ledger write.
	if _, err := f.svc.UnlockLead(testUserID, testRequestID); !errors.Is(err, domain.ErrAlreadyUnlocked) {
		t.Errorf("expected ErrAlreadyUnlocked after refund, got: %v", err)
	}
	if !f.wallets.balance(testWalletID).Equal(dec("100.00")) {
		t.Errorf("failed re-unlock must not charge: got %s", f.wallets.balance(testWalletID))
	}
	if got := len(f.ledger.byType(domain.TxTypeDebit)); got != 1 {
		t.Errorf("failed re-unlock must not write ledger rows: got %d debits, want 1", got)
	}
}

func TestRefundUnlockNotFound(t *testing.T) {
	f := newFixture("100.00", "50.00")

	_, err := f.svc.RefundUnlock(777, "no such unlock")
	if !errors.Is(err, domain.ErrUnlockNotFound) {
		t.Fatalf("expected ErrUnlockNotFound, got: %v", err)
	}
}

// ---------------------------------------------------------------------------
// AdjustWallet
// ---------------------------------------------------------------------------

func TestAdjustWallet(t *testing.T) {
	f := newFixture("20.00", "50.00")

	// Positive delta records a deposit entry.
	res, err := f.svc.AdjustWallet(testProviderID, dec("30.00"), "goodwill credit")
	if err != nil {
		t.Fatalf("AdjustWallet credit: %v", err)
	}
	if res.Entry.Type != domain.TxTypeDeposit {
		t.Errorf("credit entry type: got %s, want %s", res.Entry.Type, domain.TxTypeDeposit)
	}
	if !res.Entry.BalanceBefore.Equal(dec("20.00")) || !res.Entry.BalanceAfter.Equal(dec("50.00")) {
		t.Errorf("credit snapshots: got %s -> %s, want 20.00 -> 50.00", res.Entry.BalanceBefore, res.Entry.BalanceAfter)
	}

	// Negative delta records a debit entry holding the magnitude.
	res, err = f.svc.AdjustWallet(testProviderID, dec("-70.00"), "fraud rollback")
	if err != nil {
		t.Fatalf("AdjustWallet deduct: %v", err)
	}
	if res.Entry.Type != domain.TxTypeDebit {
		t.Errorf("deduct entry type: got %s, want %s", res.Entry.Type, domain.TxTypeDebit)
	}
	if !res.Entry.Amount.Equal(dec("70.00")) {
		t.Errorf("deduct amount: got %s, want 70.00", res.Entry.Amount)
	}
	// Adjustments may drive the balance negative.
	if !f.wallets.balance(testWalletID).Equal(dec("-20.00")) {
		t.Errorf("balance after deduct: got %s, want -20.00", f.wallets.balance(testWalletID))
	}

	if _, err := f.svc.AdjustWallet(testProviderID, decimal.Zero, "noop"); !errors.Is(err, domain.ErrZeroAmount) {
		t.Errorf("expected ErrZeroAmount, got: %v", err)
	}
}

// ---------------------------------------------------------------------------
// ConfirmDeposit
// ---------------------------------------------------------------------------

func TestConfirmDeposit(t *testing.T) {
	f := newFixture("0.00", "50.00")
	session, err := f.svc.InitiateDeposit(testUserID, dec("200.00"))
	if err != nil {
		t.Fatalf("InitiateDeposit: %v", err)
	}

	res, err := f.svc.ConfirmDeposit(session.SessionID, testWalletID, dec("200.00"), domain.SessionStatusSuccess)
	if err != nil {
		t.Fatalf("ConfirmDeposit: %v", err)
	}
	if res.Ignored || res.AlreadyProcessed {
		t.Fatalf("fresh deposit flagged ignored=%v already=%v", res.Ignored, res.AlreadyProcessed)
	}
	if !f.wallets.balance(testWalletID).Equal(dec("200.00")) {
		t.Errorf("balance after deposit: got %s, want 200.00", f.wallets.balance(testWalletID))
	}

	// Replaying the same session must not credit twice.
	replay, err := f.svc.ConfirmDeposit(session.SessionID, testWalletID, dec("200.00"), domain.SessionStatusSuccess)
	if err != nil {
		t.Fatalf("ConfirmDeposit replay: %v", err)
	}
	if !replay.AlreadyProcessed {
		t.Error("replay should report already processed")
	}
	if replay.TransactionID != res.TransactionID {
		t.Errorf("replay transaction id: got %d, want %d", replay.TransactionID, res.TransactionID)
	}
	if !f.wallets.balance(testWalletID).Equal(dec("200.00")) {
		t.Errorf("replay credited again: got %s, want 200.00", f.wallets.balance(testWalletID))
	}
	if got := len(f.ledger.byType(domain.TxTypeDeposit)); got != 1 {
		t.Errorf("deposit entries: got %d, want 1", got)
	}
}

// A confirmation that disagrees with the session we issued must not credit.
func TestConfirmDepositSessionMismatch(t *testing.T) {
	f := newFixture("0.00", "50.00")
	session, err := f.svc.InitiateDeposit(testUserID, dec("200.00"))
	if err != nil {
		t.Fatalf("InitiateDeposit: %v", err)
	}

	_, err = f.svc.ConfirmDeposit(session.SessionID, testWalletID, dec("999.00"), domain.SessionStatusSuccess)
	if !errors.Is(err, domain.ErrSessionMismatch) {
		t.Fatalf("wrong amount: expected ErrSessionMismatch, got: %v", err)
	}
	_, err = f.svc.ConfirmDeposit(session.SessionID, testWalletID+1, dec("200.00"), domain.SessionStatusSuccess)
	if !errors.Is(err, domain.ErrSessionMismatch) {
		t.Fatalf("wrong wallet: expected ErrSessionMismatch, got: %v", err)
	}
	if !f.wallets.balance(testWalletID).IsZero() {
		t.Errorf("mismatched confirmation credited: got %s", f.wallets.balance(testWalletID))
	}
	if len(f.ledger.all()) != 0 {
		t.Errorf("no ledger rows expected, got %d", len(f.ledger.all()))
	}

	// The matching confirmation still goes through.
	if _, err := f.svc.ConfirmDeposit(session.SessionID, testWalletID, dec("200.00"), domain.SessionStatusSuccess); err != nil {
		t.Fatalf("matching confirmation: %v", err)
	}
	if !f.wallets.balance(testWalletID).Equal(dec("200.00")) {
		t.Errorf("balance after deposit: got %s, want 200.00", f.wallets.balance(testWalletID))
	}
}

func TestConfirmDepositFailedStatus(t *testing.T) {
	f := newFixture("0.00", "50.00")

	res, err := f.svc.ConfirmDeposit("sess-failed", testWalletID, dec("200.00"), domain.SessionStatusFailed)
	if err != nil {
		t.Fatalf("ConfirmDeposit failed status: %v", err)
	}
	if !res.Ignored {
		t.Error("failed status should be ignored")
	}
	if !f.wallets.balance(testWalletID).IsZero() {
		t.Errorf("failed deposit credited: got %s", f.wallets.balance(testWalletID))
	}
}

// ---------------------------------------------------------------------------
// Ledger consistency across a mixed sequence
// ---------------------------------------------------------------------------

// Runs deposit, unlock, refund, adjust in order and checks the snapshot chain
// is unbroken: each row's balance_before equals the previous row's
// balance_after, and the wallet balance equals the last balance_after.
func TestLedgerSnapshotChain(t *testing.T) {
	f := newFixture("0.00", "30.00")

	if _, err := f.svc.ConfirmDeposit("sess-1", testWalletID, dec("100.00"), domain.SessionStatusSuccess); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	res, err := f.svc.UnlockLead(testUserID, testRequestID)
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if _, err := f.svc.RefundUnlock(res.Unlock.ID, "dispute resolved"); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if _, err := f.svc.AdjustWallet(testProviderID, dec("-25.00"), "fee correction"); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	entries := f.ledger.all()
	if len(entries) != 4 {
		t.Fatalf("ledger entries: got %d, want 4", len(entries))
	}
	prev := decimal.Zero
	for i, e := range entries {
		if !e.BalanceBefore.Equal(prev) {
			t.Errorf("entry %d: balance_before %s does not chain from %s", i, e.BalanceBefore, prev)
		}
		prev = e.BalanceAfter
	}
	if !f.wallets.balance(testWalletID).Equal(prev) {
		t.Errorf("wallet balance %s != last balance_after %s", f.wallets.balance(testWalletID), prev)
	}
	if !prev.Equal(dec("75.00")) {
		t.Errorf("final balance: got %s, want 75.00", prev)
	}
}

// ---------------------------------------------------------------------------
// Wallet summary and listing
// ---------------------------------------------------------------------------

func TestGetWalletSummary(t *testing.T) {
	f := newFixture("0.00", "30.00")

	if _, err := f.svc.ConfirmDeposit("sess-1", testWalletID, dec("100.00"), domain.SessionStatusSuccess); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := f.svc.UnlockLead(testUserID, testRequestID); err != nil {
		t.Fatalf("unlock: %v", err)
	}

	summary, err := f.svc.GetWalletSummary(testUserID)
	if err != nil {
		t.Fatalf("GetWalletSummary: %v", err)
	}
	if !summary.TotalDeposited.Equal(dec("100.00")) {
		t.Errorf("total deposited: got %s, want 100.00", summary.TotalDeposited)
	}
	if !summary.TotalSpent.Equal(dec("30.00")) {
		t.Errorf("total spent: got %s, want 30.00", summary.TotalSpent)
	}
	if !summary.Wallet.Balance.Equal(dec("70.00")) {
		t.Errorf("balance: got %s, want 70.00", summary.Wallet.Balance)
	}
}

func TestListTransactionsNewestFirst(t *testing.T) {
	f := newFixture("0.00", "30.00")

	if _, err := f.svc.ConfirmDeposit("sess-1", testWalletID, dec("100.00"), domain.SessionStatusSuccess); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := f.svc.UnlockLead(testUserID, testRequestID); err != nil {
		t.Fatalf("unlock: %v", err)
	}

	list, total, err := f.svc.ListTransactions(testUserID, 1, 20)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("transactions: got %d (total %d), want 2", len(list), total)
	}
	if list[0].Type != domain.TxTypeDebit || list[1].Type != domain.TxTypeDeposit {
		t.Errorf("ordering: got [%s, %s], want [debit, deposit]", list[0].Type, list[1].Type)
	}
}

func TestInitiateDepositRejectsNonPositive(t *testing.T) {
	f := newFixture("0.00", "30.00")

	if _, err := f.svc.InitiateDeposit(testUserID, dec("-5.00")); !errors.Is(err, domain.ErrZeroAmount) {
		t.Errorf("expected ErrZeroAmount for negative, got: %v", err)
	}
	if _, err := f.svc.InitiateDeposit(testUserID, decimal.Zero); !errors.Is(err, domain.ErrZeroAmount) {
		t.Errorf("expected ErrZeroAmount for zero, got: %v", err)
	}
}
