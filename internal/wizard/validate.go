package wizard

import (
	"maps"
	"regexp"
	"strings"
)

// FieldErrors maps a field to the message shown next to it.
type FieldErrors map[Field]string

// emailPattern is a syntactic check only; deliverability is never verified.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	msgFirstNameRequired  = "First name is required"
	msgEmailRequired      = "Email is required"
	msgEmailInvalid       = "Invalid email"
	msgHeritageRequired   = "Select at least one heritage"
	msgInterestRequired   = "Select at least one interest"
	msgLocationRequired   = "Location is required"
	msgPreferenceRequired = "Select at least one preference"
	msgTermsRequired      = "Must agree to terms"
)

type rule func(d Draft, errs FieldErrors)

// rules is indexed by Step. A nil entry means the step has no gate.
var rules = [StepCount]rule{
	StepPersonalInfo: checkPersonalInfo,
	StepHeritage:     checkHeritage,
	StepInterests:    checkInterests,
	StepLocation:     checkLocation,
	StepCommunity:    checkCommunity,
	StepComplete:     checkComplete,
}

// Validate runs the gate of a single step. The result is empty when the step passes.
func Validate(step Step, d Draft) FieldErrors {
	errs := FieldErrors{}
	if step.Valid() && rules[step] != nil {
		rules[step](d, errs)
	}
	return errs
}

// ValidateAll runs every gate, as the account service does before creating a member.
func ValidateAll(d Draft) FieldErrors {
	errs := FieldErrors{}
	for _, r := range rules {
		if r != nil {
			r(d, errs)
		}
	}
	return errs
}

func checkPersonalInfo(d Draft, errs FieldErrors) {
	if strings.TrimSpace(d.FirstName) == "" {
		errs[FieldFirstName] = msgFirstNameRequired
	}
	switch {
	case strings.TrimSpace(d.Email) == "":
		errs[FieldEmail] = msgEmailRequired
	case !emailPattern.MatchString(d.Email):
		errs[FieldEmail] = msgEmailInvalid
	}
}

func checkHeritage(d Draft, errs FieldErrors) {
	if len(d.Heritage) == 0 {
		errs[FieldHeritage] = msgHeritageRequired
	}
}

func checkInterests(d Draft, errs FieldErrors) {
	if len(d.CulturalInterests) == 0 {
		errs[FieldCulturalInterests] = msgInterestRequired
	}
}

func checkLocation(d Draft, errs FieldErrors) {
	if d.Location == "" {
		errs[FieldLocation] = msgLocationRequired
	}
}

func checkCommunity(d Draft, errs FieldErrors) {
	if len(d.CommunityPreferences) == 0 {
		errs[FieldCommunityPreferences] = msgPreferenceRequired
	}
}

func checkComplete(d Draft, errs FieldErrors) {
	if !d.AgreeToTerms {
		errs[FieldAgreeToTerms] = msgTermsRequired
	}
}

func (e FieldErrors) clone() FieldErrors {
	if e == nil {
		return FieldErrors{}
	}
	return maps.Clone(e)
}
