package wizard

import (
	"encoding/json"
	"slices"

	"github.com/lusoconnect/onboarding/internal/pricing"
)

// Field names a draft attribute. Values match the JSON keys so validation
// errors can be keyed the same way the client sends updates.
type Field string

const (
	FieldEmail                Field = "email"
	FieldFirstName            Field = "firstName"
	FieldLastName             Field = "lastName"
	FieldPhone                Field = "phone"
	FieldBirthDate            Field = "birthDate"
	FieldHeritage             Field = "heritage"
	FieldCulturalInterests    Field = "culturalInterests"
	FieldLanguages            Field = "languages"
	FieldLocation             Field = "location"
	FieldSpecificArea         Field = "specificArea"
	FieldCommunityPreferences Field = "communityPreferences"
	FieldSelectedPlan         Field = "selectedPlan"
	FieldBillingCycle         Field = "billingCycle"
	FieldAgreeToTerms         Field = "agreeToTerms"
	FieldAgreeToMarketing     Field = "agreeToMarketing"
)

const defaultLanguage = "Portuguese"

// Draft is the in-progress registration record.
type Draft struct {
	Email                string        `json:"email"`
	FirstName            string        `json:"firstName"`
	LastName             string        `json:"lastName"`
	Phone                string        `json:"phone,omitempty"`
	BirthDate            string        `json:"birthDate,omitempty"`
	Heritage             []string      `json:"heritage"`
	CulturalInterests    []string      `json:"culturalInterests"`
	Languages            []string      `json:"languages"`
	Location             string        `json:"location"`
	SpecificArea         string        `json:"specificArea,omitempty"`
	CommunityPreferences []string      `json:"communityPreferences"`
	SelectedPlan         pricing.Plan  `json:"selectedPlan"`
	BillingCycle         pricing.Cycle `json:"billingCycle"`
	AgreeToTerms         bool          `json:"agreeToTerms"`
	AgreeToMarketing     bool          `json:"agreeToMarketing"`
}

// NewDraft returns a draft with every field at its default.
func NewDraft() Draft {
	return Draft{
		Heritage:             []string{},
		CulturalInterests:    []string{},
		Languages:            []string{defaultLanguage},
		CommunityPreferences: []string{},
		SelectedPlan:         pricing.PlanFree,
		BillingCycle:         pricing.CycleMonthly,
	}
}

// Clone returns a copy that shares no slices with d.
func (d Draft) Clone() Draft {
	out := d
	out.Heritage = cloneSet(d.Heritage)
	out.CulturalInterests = cloneSet(d.CulturalInterests)
	out.Languages = cloneSet(d.Languages)
	out.CommunityPreferences = cloneSet(d.CommunityPreferences)
	return out
}

func cloneSet(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}

// Patch is a partial draft update. Nil members are absent; a pointer to an
// empty slice clears a selection. A key sent as JSON null is present and
// clears its field.
type Patch struct {
	Email                *string        `json:"email,omitempty"`
	FirstName            *string        `json:"firstName,omitempty"`
	LastName             *string        `json:"lastName,omitempty"`
	Phone                *string        `json:"phone,omitempty"`
	BirthDate            *string        `json:"birthDate,omitempty"`
	Heritage             *[]string      `json:"heritage,omitempty"`
	CulturalInterests    *[]string      `json:"culturalInterests,omitempty"`
	Languages            *[]string      `json:"languages,omitempty"`
	Location             *string        `json:"location,omitempty"`
	SpecificArea         *string        `json:"specificArea,omitempty"`
	CommunityPreferences *[]string      `json:"communityPreferences,omitempty"`
	SelectedPlan         *pricing.Plan  `json:"selectedPlan,omitempty"`
	BillingCycle         *pricing.Cycle `json:"billingCycle,omitempty"`
	AgreeToTerms         *bool          `json:"agreeToTerms,omitempty"`
	AgreeToMarketing     *bool          `json:"agreeToMarketing,omitempty"`
}

// UnmarshalJSON decodes a patch. Null strings become empty, null selections
// empty, null flags false, and a null plan or cycle falls back to the draft
// default.
func (p *Patch) UnmarshalJSON(data []byte) error {
	type fields Patch
	var decoded fields
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Patch(decoded)
	for key, value := range raw {
		if string(value) == "null" {
			p.clear(Field(key))
		}
	}
	return nil
}

// clear marks f present with its empty value. Unknown fields are ignored.
func (p *Patch) clear(f Field) {
	empty, none, no := "", []string{}, false
	switch f {
	case FieldEmail:
		p.Email = &empty
	case FieldFirstName:
		p.FirstName = &empty
	case FieldLastName:
		p.LastName = &empty
	case FieldPhone:
		p.Phone = &empty
	case FieldBirthDate:
		p.BirthDate = &empty
	case FieldHeritage:
		p.Heritage = &none
	case FieldCulturalInterests:
		p.CulturalInterests = &none
	case FieldLanguages:
		p.Languages = &none
	case FieldLocation:
		p.Location = &empty
	case FieldSpecificArea:
		p.SpecificArea = &empty
	case FieldCommunityPreferences:
		p.CommunityPreferences = &none
	case FieldSelectedPlan:
		plan := pricing.PlanFree
		p.SelectedPlan = &plan
	case FieldBillingCycle:
		cycle := pricing.CycleMonthly
		p.BillingCycle = &cycle
	case FieldAgreeToTerms:
		p.AgreeToTerms = &no
	case FieldAgreeToMarketing:
		p.AgreeToMarketing = &no
	}
}

// Fields lists the keys present in the patch.
func (p Patch) Fields() []Field {
	var fields []Field
	add := func(present bool, f Field) {
		if present {
			fields = append(fields, f)
		}
	}
	add(p.Email != nil, FieldEmail)
	add(p.FirstName != nil, FieldFirstName)
	add(p.LastName != nil, FieldLastName)
	add(p.Phone != nil, FieldPhone)
	add(p.BirthDate != nil, FieldBirthDate)
	add(p.Heritage != nil, FieldHeritage)
	add(p.CulturalInterests != nil, FieldCulturalInterests)
	add(p.Languages != nil, FieldLanguages)
	add(p.Location != nil, FieldLocation)
	add(p.SpecificArea != nil, FieldSpecificArea)
	add(p.CommunityPreferences != nil, FieldCommunityPreferences)
	add(p.SelectedPlan != nil, FieldSelectedPlan)
	add(p.BillingCycle != nil, FieldBillingCycle)
	add(p.AgreeToTerms != nil, FieldAgreeToTerms)
	add(p.AgreeToMarketing != nil, FieldAgreeToMarketing)
	return fields
}

// Empty reports whether the patch carries no fields.
func (p Patch) Empty() bool {
	return len(p.Fields()) == 0
}

// apply shallow-merges the present fields into d.
func (p Patch) apply(d *Draft) {
	setString(&d.Email, p.Email)
	setString(&d.FirstName, p.FirstName)
	setString(&d.LastName, p.LastName)
	setString(&d.Phone, p.Phone)
	setString(&d.BirthDate, p.BirthDate)
	setSet(&d.Heritage, p.Heritage)
	setSet(&d.CulturalInterests, p.CulturalInterests)
	setSet(&d.Languages, p.Languages)
	setString(&d.Location, p.Location)
	setString(&d.SpecificArea, p.SpecificArea)
	setSet(&d.CommunityPreferences, p.CommunityPreferences)
	if p.SelectedPlan != nil {
		d.SelectedPlan = *p.SelectedPlan
	}
	if p.BillingCycle != nil {
		d.BillingCycle = *p.BillingCycle
	}
	if p.AgreeToTerms != nil {
		d.AgreeToTerms = *p.AgreeToTerms
	}
	if p.AgreeToMarketing != nil {
		d.AgreeToMarketing = *p.AgreeToMarketing
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// setSet stores a de-duplicated copy, keeping first-seen order.
func setSet(dst *[]string, v *[]string) {
	if v == nil {
		return
	}
	out := make([]string, 0, len(*v))
	for _, item := range *v {
		if !slices.Contains(out, item) {
			out = append(out, item)
		}
	}
	*dst = out
}

// SelectCity builds the patch for choosing a city: the sub-area is reset
// because areas belong to a city.
func SelectCity(city string) Patch {
	empty := ""
	return Patch{Location: &city, SpecificArea: &empty}
}

// Toggle returns a copy of current with id added, or removed when already selected.
func Toggle(current []string, id string) []string {
	if slices.Contains(current, id) {
		return slices.DeleteFunc(slices.Clone(current), func(s string) bool { return s == id })
	}
	return append(slices.Clone(current), id)
}
