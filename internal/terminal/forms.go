package terminal

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/lusoconnect/onboarding/internal/catalog"
	"github.com/lusoconnect/onboarding/internal/pricing"
	"github.com/lusoconnect/onboarding/internal/wizard"
)

// Forms prompts with huh forms, pre-filled from the current draft.
type Forms struct {
	prices *pricing.Resolver
}

// NewForms builds the huh prompter.
func NewForms(prices *pricing.Resolver) *Forms {
	return &Forms{prices: prices}
}

var _ Prompter = (*Forms)(nil)

// Ask runs the form of the current step and returns what changed.
func (f *Forms) Ask(ctx context.Context, s wizard.Snapshot) (wizard.Patch, error) {
	d := s.Draft
	switch s.Step {
	case wizard.StepWelcome:
		return wizard.Patch{}, huh.NewForm(huh.NewGroup(
			huh.NewNote().
				Title("Welcome to LusoConnect").
				Description("Join the Portuguese-speaking community in the UK.\nIt takes about two minutes."),
		)).RunWithContext(ctx)

	case wizard.StepPersonalInfo:
		first, last, email, phone, birth := d.FirstName, d.LastName, d.Email, d.Phone, d.BirthDate
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("First name").Value(&first),
			huh.NewInput().Title("Last name").Value(&last),
			huh.NewInput().Title("Email").Placeholder("you@example.com").Value(&email),
			huh.NewInput().Title("Phone (optional)").Value(&phone),
			huh.NewInput().Title("Birth date (optional)").Placeholder("YYYY-MM-DD").Value(&birth),
		).Title(s.Step.Title())).RunWithContext(ctx)
		email = strings.TrimSpace(email)
		return wizard.Patch{FirstName: &first, LastName: &last, Email: &email, Phone: &phone, BirthDate: &birth}, err

	case wizard.StepHeritage:
		heritage := d.Heritage
		err := huh.NewForm(huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Which heritage do you identify with?").
				Options(selected(NationOptions(), heritage)...).
				Value(&heritage),
		)).RunWithContext(ctx)
		return wizard.Patch{Heritage: &heritage}, err

	case wizard.StepInterests:
		interests := d.CulturalInterests
		err := huh.NewForm(huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("What are you into?").
				Options(selected(InterestOptions(), interests)...).
				Value(&interests),
		)).RunWithContext(ctx)
		return wizard.Patch{CulturalInterests: &interests}, err

	case wizard.StepLocation:
		return f.askLocation(ctx, d)

	case wizard.StepCommunity:
		prefs, langs := d.CommunityPreferences, d.Languages
		err := huh.NewForm(huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("How would you like to connect?").
				Options(selected(PreferenceOptions(), prefs)...).
				Value(&prefs),
			huh.NewMultiSelect[string]().
				Title("Languages you speak").
				Options(selected(LanguageOptions(), langs)...).
				Value(&langs),
		)).RunWithContext(ctx)
		return wizard.Patch{CommunityPreferences: &prefs, Languages: &langs}, err

	case wizard.StepMembership:
		cycle := d.BillingCycle
		if err := huh.NewForm(huh.NewGroup(
			huh.NewSelect[pricing.Cycle]().
				Title("Billing").
				Options(CycleOptions(f.prices)...).
				Value(&cycle),
		)).RunWithContext(ctx); err != nil {
			return wizard.Patch{}, err
		}
		plan := d.SelectedPlan
		err := huh.NewForm(huh.NewGroup(
			huh.NewSelect[pricing.Plan]().
				Title("Choose your membership").
				Options(PlanOptions(f.prices, cycle)...).
				Value(&plan),
		)).RunWithContext(ctx)
		return wizard.Patch{SelectedPlan: &plan, BillingCycle: &cycle}, err

	case wizard.StepComplete:
		terms, marketing := d.AgreeToTerms, d.AgreeToMarketing
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().Title("I agree to the terms and privacy policy").Value(&terms),
			huh.NewConfirm().Title("Send me community news and event invitations").Value(&marketing),
		)).RunWithContext(ctx)
		return wizard.Patch{AgreeToTerms: &terms, AgreeToMarketing: &marketing}, err
	}
	return wizard.Patch{}, nil
}

func (f *Forms) askLocation(ctx context.Context, d wizard.Draft) (wizard.Patch, error) {
	city := d.Location
	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Where in the UK are you?").
			Options(CityOptions()...).
			Value(&city),
	)).RunWithContext(ctx); err != nil {
		return wizard.Patch{}, err
	}

	patch := wizard.SelectCity(city)
	area := ""
	if city == d.Location {
		area = d.SpecificArea
	}
	chosen, ok := catalog.CityByName(city)
	if !ok {
		return patch, nil
	}

	var field huh.Field
	if chosen.Code == "other" {
		field = huh.NewInput().Title("Town or city").Value(&area)
	} else {
		field = huh.NewSelect[string]().Title("Area").Options(AreaOptions(chosen)...).Value(&area)
	}
	err := huh.NewForm(huh.NewGroup(field)).RunWithContext(ctx)
	patch.SpecificArea = &area
	return patch, err
}

// Navigate asks where to go next.
func (f *Forms) Navigate(ctx context.Context, s wizard.Snapshot) (Action, error) {
	var opts []huh.Option[Action]
	if s.Last() {
		opts = append(opts, huh.NewOption("Create my account", ActionSubmit))
	} else {
		opts = append(opts, huh.NewOption("Continue", ActionNext))
	}
	if !s.First() {
		opts = append(opts, huh.NewOption("Back", ActionBack))
	}
	opts = append(opts, huh.NewOption("Quit", ActionQuit))

	action := opts[0].Value
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[Action]().Options(opts...).Value(&action),
	)).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return ActionQuit, nil
	}
	return action, err
}

func selected(opts []huh.Option[string], values []string) []huh.Option[string] {
	for i, o := range opts {
		for _, v := range values {
			if o.Value == v {
				opts[i] = o.Selected(true)
			}
		}
	}
	return opts
}
