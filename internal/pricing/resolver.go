package pricing

import (
	"fmt"
)

const currencyGBP = "GBP"

// Amounts holds the monthly and annual price of a plan in pence.
type Amounts struct {
	Monthly int64
	Annual  int64
}

// Overrides replaces the default price of a paid plan. Zero values keep the default.
type Overrides struct {
	CommunityMonthly  int64
	CommunityAnnual   int64
	AmbassadorMonthly int64
	AmbassadorAnnual  int64
}

var defaultAmounts = map[Plan]Amounts{
	PlanFree:       {Monthly: 0, Annual: 0},
	PlanCommunity:  {Monthly: 1599, Annual: 15999},
	PlanAmbassador: {Monthly: 2999, Annual: 29999},
}

var planNames = map[Plan]string{
	PlanFree:       "Free",
	PlanCommunity:  "Community",
	PlanAmbassador: "Cultural Ambassador",
}

var planDescriptions = map[Plan]string{
	PlanFree:       "Browse events and join the community feed",
	PlanCommunity:  "Unlimited events, matches and member discounts",
	PlanAmbassador: "Host events, priority access and partner benefits",
}

// Price is a resolved plan price. It is derived for display and never stored on a draft.
type Price struct {
	Plan     Plan   `json:"plan"`
	Cycle    Cycle  `json:"cycle"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Free reports whether the plan costs nothing for the cycle.
func (p Price) Free() bool {
	return p.Amount == 0
}

// MonthlyEquivalent spreads an annual price over twelve months.
func (p Price) MonthlyEquivalent() int64 {
	if p.Cycle == CycleAnnual {
		return p.Amount / 12
	}
	return p.Amount
}

// Label renders the price the way the membership step shows it.
func (p Price) Label() string {
	if p.Free() {
		return "Free"
	}
	if p.Cycle == CycleAnnual {
		return FormatPence(p.Amount) + "/year"
	}
	return FormatPence(p.Amount) + "/month"
}

// FormatPence renders an amount of pence as pounds.
func FormatPence(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s£%d.%02d", sign, amount/100, amount%100)
}

// Offer is a plan as listed in the catalog.
type Offer struct {
	Price
	Name        string `json:"name"`
	Description string `json:"description"`
	Label       string `json:"label"`
}

// Resolver looks up plan prices. It holds no mutable state.
type Resolver struct {
	amounts map[Plan]Amounts
}

// NewResolver builds a resolver from the default table with overrides applied.
func NewResolver(o Overrides) *Resolver {
	amounts := make(map[Plan]Amounts, len(defaultAmounts))
	for plan, a := range defaultAmounts {
		amounts[plan] = a
	}
	community := amounts[PlanCommunity]
	if o.CommunityMonthly > 0 {
		community.Monthly = o.CommunityMonthly
	}
	if o.CommunityAnnual > 0 {
		community.Annual = o.CommunityAnnual
	}
	amounts[PlanCommunity] = community

	ambassador := amounts[PlanAmbassador]
	if o.AmbassadorMonthly > 0 {
		ambassador.Monthly = o.AmbassadorMonthly
	}
	if o.AmbassadorAnnual > 0 {
		ambassador.Annual = o.AmbassadorAnnual
	}
	amounts[PlanAmbassador] = ambassador

	return &Resolver{amounts: amounts}
}

// Price returns the price of plan for the billing cycle.
func (r *Resolver) Price(plan Plan, cycle Cycle) (Price, error) {
	a, ok := r.amounts[plan]
	if !ok {
		return Price{}, fmt.Errorf("unknown plan %q", plan)
	}
	var amount int64
	switch cycle {
	case CycleMonthly:
		amount = a.Monthly
	case CycleAnnual:
		amount = a.Annual
	default:
		return Price{}, fmt.Errorf("unknown billing cycle %q", cycle)
	}
	return Price{Plan: plan, Cycle: cycle, Amount: amount, Currency: currencyGBP}, nil
}

// Catalog lists every plan priced for the cycle.
func (r *Resolver) Catalog(cycle Cycle) ([]Offer, error) {
	offers := make([]Offer, 0, len(Plans))
	for _, plan := range Plans {
		price, err := r.Price(plan, cycle)
		if err != nil {
			return nil, err
		}
		offers = append(offers, Offer{
			Price:       price,
			Name:        planNames[plan],
			Description: planDescriptions[plan],
			Label:       price.Label(),
		})
	}
	return offers, nil
}

// AnnualSavingPercent is the discount of paying yearly over twelve monthly payments.
func (r *Resolver) AnnualSavingPercent(plan Plan) int {
	a, ok := r.amounts[plan]
	if !ok || a.Monthly == 0 {
		return 0
	}
	full := a.Monthly * 12
	return int((full - a.Annual) * 100 / full)
}
