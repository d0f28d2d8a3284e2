package domain

const (
	RoleMember   = "MEMBER"
	RoleProducer = "PRODUCER"
	RoleAdmin    = "ADMIN"
)

const (
	CheckoutKindClassified   = "CLASSIFIED"
	CheckoutKindSubscription = "SUBSCRIPTION"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusRefunded  = "REFUNDED"
)

const (
	AdStatusDraft          = "DRAFT"
	AdStatusPendingPayment = "PENDING_PAYMENT"
	AdStatusPublished      = "PUBLISHED"
	AdStatusExpired        = "EXPIRED"
)

const (
	SubscriptionNone    = "NONE"
	SubscriptionActive  = "ACTIVE"
	SubscriptionExpired = "EXPIRED"
)

// Classified placements run for 30 days; directory subscriptions for a year.
const (
	AdPlacementDays      = 30
	SubscriptionTermDays = 365
)

// Default prices in cents, applied when a record carries none of its own.
const (
	DefaultAdPlacementCents  = 999
	DefaultSubscriptionCents = 4999
)
