package wizard

import (
	"regexp"
	"strings"

	"poolchill/models"
)

// Field keys of the validation error map, matching the form field names the
// step views render.
const (
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldPhone           = "phone"
	FieldDateOfBirth     = "dateOfBirth"
	FieldGender          = "gender"
	FieldRegion          = "region"
	FieldConsent         = "consent"
	FieldPropertyTypes   = "propertyTypes"
)

var (
	// Names accept any letters, including accented ones, with single spaces,
	// apostrophes or hyphens between words.
	nameRe  = regexp.MustCompile(`^[\p{L}]+(?:[ '\-][\p{L}]+)*$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitRe = regexp.MustCompile(`\D`)
)

// NormalizePhone strips every non-digit character from the input.
func NormalizePhone(phone string) string {
	return digitRe.ReplaceAllString(phone, "")
}

// Validate is the authoritative gate for advancing out of a step. It is pure:
// no side effects, no network. An empty map means the step's constraints are
// satisfied; otherwise each offending field maps to a user-facing message.
func Validate(step models.Step, draft *models.FormDraft) map[string]string {
	errs := map[string]string{}

	switch step {
	case models.StepPersonalData:
		if !nameRe.MatchString(strings.TrimSpace(draft.FirstName)) {
			errs[FieldFirstName] = "Enter a first name using letters only"
		}
		if !nameRe.MatchString(strings.TrimSpace(draft.LastName)) {
			errs[FieldLastName] = "Enter a last name using letters only"
		}
		if !emailRe.MatchString(draft.Email) {
			errs[FieldEmail] = "Enter a valid email address"
		}
		if len(draft.Password) < 8 {
			errs[FieldPassword] = "Password must be at least 8 characters"
		}
		if draft.ConfirmPassword != draft.Password {
			errs[FieldConfirmPassword] = "Passwords do not match"
		}
		if len(NormalizePhone(draft.Phone)) != 10 {
			errs[FieldPhone] = "Enter a 10-digit phone number"
		}
		if draft.DateOfBirth == "" {
			errs[FieldDateOfBirth] = "Select your date of birth"
		}
		if draft.Gender == "" {
			errs[FieldGender] = "Select a gender"
		}
		if draft.Region == "" {
			errs[FieldRegion] = "Select your region"
		}
		if !draft.Consent {
			errs[FieldConsent] = "You must accept to continue"
		}

	case models.StepPropertyType:
		if len(draft.PropertyTypes) == 0 {
			errs[FieldPropertyTypes] = "Select at least one property type"
		}
	}

	// Every other step progresses freely; branch-specific gating lives in the
	// controller.
	return errs
}
