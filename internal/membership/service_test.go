package membership

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lusoconnect/onboarding/internal/pricing"
)

func TestCreatePaidPlanPendsPayment(t *testing.T) {
	svc := NewService(NewMemoryRepository(), pricing.NewResolver(pricing.Overrides{}))
	ctx := context.Background()
	memberID := uuid.NewString()

	sub, err := svc.Create(ctx, CreateInput{MemberID: memberID, Plan: pricing.PlanCommunity, Cycle: pricing.CycleAnnual})
	require.NoError(t, err)
	assert.Equal(t, int64(15999), sub.AmountPence)
	assert.Equal(t, "GBP", sub.Currency)
	assert.Equal(t, StatusPendingPayment, sub.Status)

	fetched, err := svc.GetByMember(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, sub, fetched)
}

func TestCreateFreePlanIsActive(t *testing.T) {
	svc := NewService(NewMemoryRepository(), pricing.NewResolver(pricing.Overrides{}))
	sub, err := svc.Create(context.Background(), CreateInput{MemberID: uuid.NewString(), Plan: pricing.PlanFree, Cycle: pricing.CycleMonthly})
	require.NoError(t, err)
	assert.Zero(t, sub.AmountPence)
	assert.Equal(t, StatusActive, sub.Status)
}

func TestCreateUsesOverriddenPrice(t *testing.T) {
	svc := NewService(NewMemoryRepository(), pricing.NewResolver(pricing.Overrides{AmbassadorMonthly: 2499}))
	sub, err := svc.Create(context.Background(), CreateInput{MemberID: uuid.NewString(), Plan: pricing.PlanAmbassador, Cycle: pricing.CycleMonthly})
	require.NoError(t, err)
	assert.Equal(t, int64(2499), sub.AmountPence)
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc := NewService(NewMemoryRepository(), pricing.NewResolver(pricing.Overrides{}))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{MemberID: "nope", Plan: pricing.PlanFree, Cycle: pricing.CycleMonthly})
	assert.Error(t, err)

	_, err = svc.Create(ctx, CreateInput{MemberID: uuid.NewString(), Plan: "gold", Cycle: pricing.CycleMonthly})
	assert.Error(t, err)

	_, err = svc.GetByMember(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
