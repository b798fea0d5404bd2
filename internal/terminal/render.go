package terminal

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lusoconnect/onboarding/internal/pricing"
	"github.com/lusoconnect/onboarding/internal/wizard"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9fafb"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22c55e"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6"))
)

// Renderer prints wizard state between forms.
type Renderer struct {
	out    io.Writer
	prices *pricing.Resolver
}

// NewRenderer writes to out.
func NewRenderer(out io.Writer, prices *pricing.Resolver) *Renderer {
	return &Renderer{out: out, prices: prices}
}

// Header shows the progress line and step title.
func (r *Renderer) Header(s wizard.Snapshot) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, stepStyle.Render(fmt.Sprintf("Step %d / %d", s.Progress(), wizard.StepCount)))
	fmt.Fprintln(r.out, titleStyle.Render(s.Step.Title()))
}

// Errors lists field messages in a stable order.
func (r *Renderer) Errors(errs wizard.FieldErrors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, string(f))
	}
	slices.Sort(fields)
	for _, f := range fields {
		fmt.Fprintln(r.out, errorStyle.Render(fmt.Sprintf("  %s: %s", f, errs[wizard.Field(f)])))
	}
}

// Summary prints the draft before submission.
func (r *Renderer) Summary(d wizard.Draft) {
	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(r.out, "  %-12s %s\n", label+":", valueStyle.Render(value))
	}
	row("Name", strings.TrimSpace(d.FirstName+" "+d.LastName))
	row("Email", d.Email)
	row("Heritage", strings.Join(d.Heritage, ", "))
	row("Interests", strings.Join(d.CulturalInterests, ", "))
	row("Languages", strings.Join(d.Languages, ", "))
	location := d.Location
	if d.SpecificArea != "" {
		location += " (" + d.SpecificArea + ")"
	}
	row("Location", location)
	row("Community", strings.Join(d.CommunityPreferences, ", "))
	row("Plan", r.planLabel(d))
}

// Failure explains why a submission did not go through.
func (r *Renderer) Failure(err error) {
	var msg string
	switch {
	case errors.Is(err, wizard.ErrDuplicateEmail):
		msg = "That email is already registered. Go back and use another one."
	case errors.Is(err, wizard.ErrRejected):
		msg = "The registration was rejected: " + err.Error()
	case errors.Is(err, wizard.ErrUnavailable):
		msg = "The registration service is unavailable. Your answers are kept; try again."
	default:
		msg = err.Error()
	}
	fmt.Fprintln(r.out, errorStyle.Render(msg))
}

// Success confirms the new membership.
func (r *Renderer) Success(done wizard.Completion) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, successStyle.Render(fmt.Sprintf("Bem-vindo, %s! Your registration is complete.", done.Payload.FirstName)))
	fmt.Fprintf(r.out, "  Member ID: %s\n", valueStyle.Render(done.Receipt.MemberID))
	fmt.Fprintf(r.out, "  Plan:      %s\n", valueStyle.Render(r.planLabel(done.Payload.Draft)))
}

// Offers prints a plan table.
func (r *Renderer) Offers(cycle pricing.Cycle, offers []pricing.Offer) {
	fmt.Fprintln(r.out, titleStyle.Render(fmt.Sprintf("Plans (%s)", cycle)))
	for _, o := range offers {
		fmt.Fprintf(r.out, "  %-20s %-14s %s\n", o.Name, valueStyle.Render(o.Label), stepStyle.Render(o.Description))
	}
}

func (r *Renderer) planLabel(d wizard.Draft) string {
	if r.prices == nil {
		return string(d.SelectedPlan)
	}
	price, err := r.prices.Price(d.SelectedPlan, d.BillingCycle)
	if err != nil {
		return string(d.SelectedPlan)
	}
	return fmt.Sprintf("%s, %s", d.SelectedPlan, price.Label())
}
