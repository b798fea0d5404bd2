package membership

import (
	"time"

	"github.com/lusoconnect/onboarding/internal/pricing"
)

const (
	StatusActive         = "active"
	StatusPendingPayment = "pending_payment"
)

// Subscription records the plan a member signed up for and the price quoted
// at that moment.
type Subscription struct {
	ID          string
	MemberID    string
	Plan        pricing.Plan
	Cycle       pricing.Cycle
	AmountPence int64
	Currency    string
	Status      string
	CreatedAt   time.Time
}

// CreateInput captures data required to open a subscription.
type CreateInput struct {
	MemberID string
	Plan     pricing.Plan
	Cycle    pricing.Cycle
}
