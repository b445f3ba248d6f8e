package domain

const (
	RoleClient   = "CLIENT"
	RoleProvider = "PROVIDER"
	RoleAdmin    = "ADMIN"
)

const (
	ProviderStatusPending  = "pending"
	ProviderStatusApproved = "approved"
	ProviderStatusRejected = "rejected"
)

const (
	RequestStatusPublished = "published"
	RequestStatusClosed    = "closed"
)

const (
	UnlockStatusCompleted = "completed"
	UnlockStatusRefunded  = "refunded"
)

// Ledger entry types. Amounts are always stored as positive magnitudes;
// the sign of the balance change is implied by the type.
const (
	TxTypeDeposit = "deposit"
	TxTypeDebit   = "debit"
	TxTypeRefund  = "refund"
)

// Reference types link a ledger row to the event that caused it.
const (
	RefTypeLeadUnlock       = "lead_unlock"
	RefTypeManualAdjustment = "manual_adjustment"
	RefTypePaymentSession   = "payment_session"
)

const (
	SessionStatusPending = "pending"
	SessionStatusSuccess = "success"
	SessionStatusFailed  = "failed"
)

const DefaultCurrency = "EGP"
