package pricing

import (
	"fmt"
	"strings"
)

// Plan identifies a membership tier offered during registration.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanCommunity  Plan = "community"
	PlanAmbassador Plan = "ambassador"
)

// Plans lists the tiers in display order.
var Plans = []Plan{PlanFree, PlanCommunity, PlanAmbassador}

// ParsePlan converts a raw identifier into a Plan.
func ParsePlan(raw string) (Plan, error) {
	p := Plan(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown plan %q", raw)
	}
	return p, nil
}

// Valid reports whether p is one of the offered tiers.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanCommunity, PlanAmbassador:
		return true
	}
	return false
}

// UnmarshalText rejects unknown plan identifiers when decoding requests.
func (p *Plan) UnmarshalText(text []byte) error {
	parsed, err := ParsePlan(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Cycle is the billing period a plan is paid for.
type Cycle string

const (
	CycleMonthly Cycle = "monthly"
	CycleAnnual  Cycle = "annual"
)

// ParseCycle converts a raw identifier into a Cycle.
func ParseCycle(raw string) (Cycle, error) {
	c := Cycle(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown billing cycle %q", raw)
	}
	return c, nil
}

// Valid reports whether c is a supported billing cycle.
func (c Cycle) Valid() bool {
	return c == CycleMonthly || c == CycleAnnual
}

// UnmarshalText rejects unknown cycles when decoding requests.
func (c *Cycle) UnmarshalText(text []byte) error {
	parsed, err := ParseCycle(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
