package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/lusoconnect/onboarding/internal/catalog"
	"github.com/lusoconnect/onboarding/internal/pricing"
)

// Languages offered on the community step.
var Languages = []string{"Portuguese", "English", "Spanish", "French", "Kriolu"}

// NationOptions converts the heritage catalog to form options.
func NationOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(catalog.Nations))
	for _, n := range catalog.Nations {
		opts = append(opts, huh.NewOption(n.Name, n.Code))
	}
	return opts
}

// InterestOptions lists interests grouped by category, labelled "Category · Name".
func InterestOptions() []huh.Option[string] {
	order, groups := catalog.InterestsByCategory()
	var opts []huh.Option[string]
	for _, category := range order {
		for _, i := range groups[category] {
			label := fmt.Sprintf("%s · %s", titleCase(category), i.Name)
			opts = append(opts, huh.NewOption(label, i.ID))
		}
	}
	return opts
}

// CityOptions lists cities by name; the draft stores the name.
func CityOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(catalog.Cities))
	for _, c := range catalog.Cities {
		opts = append(opts, huh.NewOption(c.Name, c.Name))
	}
	return opts
}

// AreaOptions lists the areas of a city, with a leading blank choice since the area is optional.
func AreaOptions(city catalog.City) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("Prefer not to say", "")}
	for _, a := range city.Areas {
		opts = append(opts, huh.NewOption(a, a))
	}
	return opts
}

// PreferenceOptions converts the community preferences catalog.
func PreferenceOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(catalog.Preferences))
	for _, p := range catalog.Preferences {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", p.Name, p.Description), p.ID))
	}
	return opts
}

// LanguageOptions converts Languages.
func LanguageOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(Languages))
	for _, l := range Languages {
		opts = append(opts, huh.NewOption(l, l))
	}
	return opts
}

// PlanOptions labels each plan with its price for the cycle.
func PlanOptions(prices *pricing.Resolver, cycle pricing.Cycle) []huh.Option[pricing.Plan] {
	offers, err := prices.Catalog(cycle)
	if err != nil {
		return nil
	}
	opts := make([]huh.Option[pricing.Plan], 0, len(offers))
	for _, o := range offers {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s: %s", o.Name, o.Label), o.Plan))
	}
	return opts
}

// CycleOptions labels the annual cycle with the best saving across plans.
func CycleOptions(prices *pricing.Resolver) []huh.Option[pricing.Cycle] {
	saving := 0
	for _, p := range pricing.Plans {
		saving = max(saving, prices.AnnualSavingPercent(p))
	}
	annual := "Annual"
	if saving > 0 {
		annual = fmt.Sprintf("Annual (save up to %d%%)", saving)
	}
	return []huh.Option[pricing.Cycle]{
		huh.NewOption("Monthly", pricing.CycleMonthly),
		huh.NewOption(annual, pricing.CycleAnnual),
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
