package wizard

import (
	"testing"

	"poolchill/models"

	"github.com/stretchr/testify/assert"
)

func validPersonalData() *models.FormDraft {
	d := models.NewFormDraft()
	d.FirstName = "Ana"
	d.LastName = "López"
	d.Email = "ana@x.com"
	d.Password = "Abcdef12"
	d.ConfirmPassword = "Abcdef12"
	d.Phone = "5512345678"
	d.DateOfBirth = "1990-04-12"
	d.Gender = "F"
	d.Region = "CDMX"
	d.Consent = true
	return d
}

func TestValidatePersonalDataValid(t *testing.T) {
	errs := Validate(models.StepPersonalData, validPersonalData())
	assert.Empty(t, errs)
}

func TestValidatePersonalDataTotality(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.FormDraft)
		wantKey string
	}{
		{"empty first name", func(d *models.FormDraft) { d.FirstName = "" }, FieldFirstName},
		{"first name with digits", func(d *models.FormDraft) { d.FirstName = "Ana3" }, FieldFirstName},
		{"empty last name", func(d *models.FormDraft) { d.LastName = "" }, FieldLastName},
		{"malformed email", func(d *models.FormDraft) { d.Email = "ana@@x" }, FieldEmail},
		{"email without domain", func(d *models.FormDraft) { d.Email = "ana@x" }, FieldEmail},
		{"short password", func(d *models.FormDraft) { d.Password = "Abc12"; d.ConfirmPassword = "Abc12" }, FieldPassword},
		{"mismatched confirm", func(d *models.FormDraft) { d.ConfirmPassword = "Abcdef13" }, FieldConfirmPassword},
		{"phone too short", func(d *models.FormDraft) { d.Phone = "55123" }, FieldPhone},
		{"phone too long", func(d *models.FormDraft) { d.Phone = "55123456789" }, FieldPhone},
		{"missing dob", func(d *models.FormDraft) { d.DateOfBirth = "" }, FieldDateOfBirth},
		{"missing gender", func(d *models.FormDraft) { d.Gender = "" }, FieldGender},
		{"missing region", func(d *models.FormDraft) { d.Region = "" }, FieldRegion},
		{"consent unchecked", func(d *models.FormDraft) { d.Consent = false }, FieldConsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validPersonalData()
			tt.mutate(d)
			errs := Validate(models.StepPersonalData, d)
			assert.Len(t, errs, 1)
			assert.Contains(t, errs, tt.wantKey)
		})
	}
}

func TestValidateAccentedNames(t *testing.T) {
	d := validPersonalData()
	d.FirstName = "María José"
	d.LastName = "Gutiérrez-Ñáñez"
	assert.Empty(t, Validate(models.StepPersonalData, d))
}

func TestValidatePhoneNormalization(t *testing.T) {
	d := validPersonalData()
	// Formatting characters are stripped before the digit count is checked.
	d.Phone = "(55) 1234-5678"
	assert.Empty(t, Validate(models.StepPersonalData, d))
	assert.Equal(t, "5512345678", NormalizePhone(d.Phone))
}

func TestValidatePropertyType(t *testing.T) {
	d := models.NewFormDraft()
	errs := Validate(models.StepPropertyType, d)
	assert.Contains(t, errs, FieldPropertyTypes)

	d.AddPropertyType(models.PropertyTypePool)
	assert.Empty(t, Validate(models.StepPropertyType, d))
}

func TestValidateUngatedSteps(t *testing.T) {
	d := models.NewFormDraft()
	for _, step := range []models.Step{
		models.StepWelcome,
		models.StepLocation,
		models.StepBasicInfo,
		models.StepAmenities,
		models.StepRules,
		models.StepPhotos,
		models.StepPreview,
	} {
		assert.Empty(t, Validate(step, d), "step %s should have no gate", step)
	}
}
