package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePersonalInfo(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		email     string
		want      FieldErrors
	}{
		{"valid", "Maria", "maria@example.pt", FieldErrors{}},
		{"blank first name", "   ", "maria@example.pt", FieldErrors{FieldFirstName: msgFirstNameRequired}},
		{"blank email", "Maria", "  ", FieldErrors{FieldEmail: msgEmailRequired}},
		{"missing tld", "Maria", "maria@example", FieldErrors{FieldEmail: msgEmailInvalid}},
		{"two ats", "Maria", "ma@ria@example.pt", FieldErrors{FieldEmail: msgEmailInvalid}},
		{"inner space", "Maria", "ma ria@example.pt", FieldErrors{FieldEmail: msgEmailInvalid}},
		{"loose shape accepted", "Maria", "a@b.c", FieldErrors{}},
		{"both missing", "", "", FieldErrors{FieldFirstName: msgFirstNameRequired, FieldEmail: msgEmailRequired}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft()
			d.FirstName = tt.firstName
			d.Email = tt.email
			assert.Equal(t, tt.want, Validate(StepPersonalInfo, d))
		})
	}
}

func TestValidateUngatedSteps(t *testing.T) {
	d := NewDraft()
	assert.Empty(t, Validate(StepWelcome, d))
	assert.Empty(t, Validate(StepMembership, d))
	assert.Empty(t, Validate(Step(42), d))
}

func TestValidateLocationIgnoresArea(t *testing.T) {
	d := NewDraft()
	d.SpecificArea = "Stockwell"
	assert.Contains(t, Validate(StepLocation, d), FieldLocation)

	d.Location = "London"
	d.SpecificArea = ""
	assert.Empty(t, Validate(StepLocation, d))
}

func TestValidateAll(t *testing.T) {
	errs := ValidateAll(NewDraft())
	assert.Len(t, errs, 7)

	d := NewDraft()
	d.FirstName = "Maria"
	d.Email = "maria@example.pt"
	d.Heritage = []string{"pt"}
	d.CulturalInterests = []string{"fado"}
	d.Location = "London"
	d.CommunityPreferences = []string{"events"}
	d.AgreeToTerms = true
	assert.Empty(t, ValidateAll(d))
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Step: StepPersonalInfo, Fields: FieldErrors{FieldFirstName: "x", FieldEmail: "y"}}
	assert.Equal(t, "personal step invalid: email, firstName", err.Error())
}
