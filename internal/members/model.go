package members

import (
	"time"

	"github.com/lusoconnect/onboarding/internal/pricing"
)

// Member is a registered community member.
type Member struct {
	ID                   string
	Email                string
	FirstName            string
	LastName             string
	Phone                string
	BirthDate            string
	Heritage             []string
	CulturalInterests    []string
	Languages            []string
	Location             string
	SpecificArea         string
	CommunityPreferences []string
	Plan                 pricing.Plan
	Cycle                pricing.Cycle
	AgreeToMarketing     bool
	CreatedAt            time.Time
}
