package wizard

import "poolchill/models"

// flags are the branch inputs the transition guards read.
type flags struct {
	// returning is set after a mid-wizard login; identity-gated steps are
	// skipped in both directions for returning users.
	returning bool
}

type transition struct {
	from  models.Step
	to    models.Step
	guard func(flags) bool
}

func always(flags) bool       { return true }
func returning(f flags) bool  { return f.returning }
func firstVisit(f flags) bool { return !f.returning }

// The wizard's step graph as an explicit table. For each origin the first
// transition whose guard passes wins, so branch rules stay declarative and
// testable instead of hiding in index arithmetic.
var forwardTransitions = []transition{
	{models.StepWelcome, models.StepPersonalData, always},
	{models.StepPersonalData, models.StepEmailVerification, always},
	{models.StepEmailVerification, models.StepPropertyType, always},
	{models.StepPropertyType, models.StepLocation, always},
	{models.StepLocation, models.StepBasicInfo, always},
	{models.StepBasicInfo, models.StepAmenities, always},
	{models.StepAmenities, models.StepRules, always},
	{models.StepRules, models.StepPhotos, returning},
	{models.StepRules, models.StepIdentityVerification, firstVisit},
	{models.StepIdentityVerification, models.StepPhotos, always},
	{models.StepPhotos, models.StepPreview, always},
}

var backwardTransitions = []transition{
	{models.StepPreview, models.StepPhotos, always},
	{models.StepPhotos, models.StepRules, returning},
	{models.StepPhotos, models.StepIdentityVerification, firstVisit},
	{models.StepIdentityVerification, models.StepRules, always},
	{models.StepRules, models.StepAmenities, always},
	{models.StepAmenities, models.StepBasicInfo, always},
	{models.StepBasicInfo, models.StepLocation, always},
	{models.StepLocation, models.StepPropertyType, always},
	{models.StepPropertyType, models.StepWelcome, always},
	{models.StepPersonalData, models.StepWelcome, always},
}

func resolve(table []transition, from models.Step, f flags) (models.Step, bool) {
	for _, t := range table {
		if t.from == from && t.guard(f) {
			return t.to, true
		}
	}
	return from, false
}

// nextStep returns the step following from under the given branch flags.
func nextStep(from models.Step, f flags) (models.Step, bool) {
	return resolve(forwardTransitions, from, f)
}

// prevStep mirrors nextStep's skip rules in reverse. Welcome and the e-mail
// waiting state have no backward edge.
func prevStep(from models.Step, f flags) (models.Step, bool) {
	if from == models.StepEmailVerification {
		return from, false
	}
	return resolve(backwardTransitions, from, f)
}
