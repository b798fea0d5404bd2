package membership

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lusoconnect/onboarding/internal/pricing"
)

// Service opens subscriptions at the price in force when the member registers.
type Service struct {
	repo   Repository
	prices *pricing.Resolver
	now    func() time.Time
}

// NewService builds a membership service.
func NewService(repo Repository, prices *pricing.Resolver) *Service {
	return &Service{repo: repo, prices: prices, now: time.Now}
}

// Create provisions a subscription for a newly registered member. Free plans
// are active immediately; paid plans wait for the first payment.
func (s *Service) Create(ctx context.Context, input CreateInput) (Subscription, error) {
	if _, err := uuid.Parse(input.MemberID); err != nil {
		return Subscription{}, fmt.Errorf("member id: %w", err)
	}
	price, err := s.prices.Price(input.Plan, input.Cycle)
	if err != nil {
		return Subscription{}, err
	}

	status := StatusPendingPayment
	if price.Free() {
		status = StatusActive
	}

	sub := Subscription{
		ID:          uuid.NewString(),
		MemberID:    input.MemberID,
		Plan:        price.Plan,
		Cycle:       price.Cycle,
		AmountPence: price.Amount,
		Currency:    price.Currency,
		Status:      status,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

// GetByMember returns the subscription held by a member.
func (s *Service) GetByMember(ctx context.Context, memberID string) (Subscription, error) {
	return s.repo.GetByMember(ctx, memberID)
}
