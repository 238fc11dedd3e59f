package wizard

import (
	"testing"

	"poolchill/models"

	"github.com/stretchr/testify/assert"
)

func TestForwardSkipRules(t *testing.T) {
	t.Run("new user passes through identity verification", func(t *testing.T) {
		to, ok := nextStep(models.StepRules, flags{returning: false})
		assert.True(t, ok)
		assert.Equal(t, models.StepIdentityVerification, to)
	})

	t.Run("returning user skips identity verification", func(t *testing.T) {
		to, ok := nextStep(models.StepRules, flags{returning: true})
		assert.True(t, ok)
		assert.Equal(t, models.StepPhotos, to)
	})

	t.Run("linear middle section", func(t *testing.T) {
		want := map[models.Step]models.Step{
			models.StepPropertyType: models.StepLocation,
			models.StepLocation:     models.StepBasicInfo,
			models.StepBasicInfo:    models.StepAmenities,
			models.StepAmenities:    models.StepRules,
			models.StepPhotos:       models.StepPreview,
		}
		for from, to := range want {
			got, ok := nextStep(from, flags{})
			assert.True(t, ok)
			assert.Equal(t, to, got, "next of %s", from)
		}
	})

	t.Run("preview has no forward edge", func(t *testing.T) {
		_, ok := nextStep(models.StepPreview, flags{})
		assert.False(t, ok)
	})
}

func TestBackwardSkipRules(t *testing.T) {
	t.Run("prev from photos lands on identity for a new user", func(t *testing.T) {
		to, ok := prevStep(models.StepPhotos, flags{returning: false})
		assert.True(t, ok)
		assert.Equal(t, models.StepIdentityVerification, to)
	})

	t.Run("prev from photos skips identity for a returning user", func(t *testing.T) {
		to, ok := prevStep(models.StepPhotos, flags{returning: true})
		assert.True(t, ok)
		assert.Equal(t, models.StepRules, to)
	})

	t.Run("email waiting state has no backward edge", func(t *testing.T) {
		_, ok := prevStep(models.StepEmailVerification, flags{})
		assert.False(t, ok)
	})

	t.Run("welcome has no backward edge", func(t *testing.T) {
		_, ok := prevStep(models.StepWelcome, flags{})
		assert.False(t, ok)
	})
}
