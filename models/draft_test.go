package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertyTypeSetSemantics(t *testing.T) {
	d := NewFormDraft()

	d.AddPropertyType(PropertyTypePool)
	d.AddPropertyType(PropertyTypePool)
	assert.Equal(t, []string{PropertyTypePool}, d.PropertyTypes, "no duplicates")

	d.TogglePropertyType(PropertyTypeCabin)
	assert.True(t, d.HasPropertyType(PropertyTypeCabin))
	d.TogglePropertyType(PropertyTypeCabin)
	assert.False(t, d.HasPropertyType(PropertyTypeCabin))
}

func TestDeselectionKeepsAmenityRecord(t *testing.T) {
	d := NewFormDraft()
	d.AddPropertyType(PropertyTypePool)
	d.Amenities[PropertyTypePool] = AmenityInfo{Guests: 8}

	d.RemovePropertyType(PropertyTypePool)
	assert.Equal(t, 8, d.Amenities[PropertyTypePool].Guests, "re-selection loses nothing")
}

func TestRulesNeverBelowOneSlot(t *testing.T) {
	d := NewFormDraft()
	assert.Equal(t, []string{""}, d.Rules)

	d.RemoveRule(0)
	assert.Len(t, d.Rules, 1)

	d.UpdateRule(0, "No mascotas")
	d.AddRule("No fumar")
	d.RemoveRule(1)
	assert.Equal(t, []string{"No mascotas"}, d.Rules)

	d.UpdateRule(5, "out of range")
	d.RemoveRule(-1)
	assert.Equal(t, []string{"No mascotas"}, d.Rules)
}

func TestMediaCaps(t *testing.T) {
	d := NewFormDraft()

	for i := 0; i < MaxListingPhotos; i++ {
		assert.True(t, d.AddPhoto(MediaFile{Name: fmt.Sprintf("p%d.jpg", i)}))
	}
	assert.False(t, d.AddPhoto(MediaFile{Name: "overflow.jpg"}))
	assert.Len(t, d.Photos, MaxListingPhotos)

	for i := 0; i < MaxIdentityFiles; i++ {
		assert.True(t, d.AddIdentityFile(MediaFile{Name: fmt.Sprintf("id%d.jpg", i)}))
	}
	assert.False(t, d.AddIdentityFile(MediaFile{Name: "overflow.jpg"}))
	assert.Len(t, d.IdentityFiles, MaxIdentityFiles)
}

func TestSanitizedStripsFilesOnly(t *testing.T) {
	d := NewFormDraft()
	d.Email = "ana@x.com"
	d.AddPropertyType(PropertyTypeCamping)
	d.AddPhoto(MediaFile{Name: "a.jpg", Path: "/tmp/a.jpg"})
	d.AddIdentityFile(MediaFile{Name: "id.jpg", Path: "/tmp/id.jpg"})

	clean := d.Sanitized()
	assert.Empty(t, clean.Photos)
	assert.NotNil(t, clean.Photos)
	assert.Empty(t, clean.IdentityFiles)
	assert.Equal(t, "ana@x.com", clean.Email)
	assert.Equal(t, d.PropertyTypes, clean.PropertyTypes)

	// Deep copy: mutating the copy leaves the original alone.
	clean.PropertyTypes[0] = "mutated"
	assert.Equal(t, PropertyTypeCamping, d.PropertyTypes[0])
}

func TestBuildSubmissionShape(t *testing.T) {
	d := NewFormDraft()
	d.Name = "Alberca Las Palmas"
	d.AddPropertyType(PropertyTypePool)
	d.AddPropertyType(PropertyTypeCabin)
	d.Prices[PropertyTypePool] = PriceInfo{Weekday: "1200.00", Weekend: "1800.00"}
	d.Prices[PropertyTypeCamping] = PriceInfo{Weekday: "300.00"}
	d.Amenities[PropertyTypePool] = AmenityInfo{Guests: 10}
	d.Rules = []string{"No mascotas", "", "No fumar"}

	sub := BuildSubmission(d, []string{"https://cdn/a.jpg", "https://cdn/b.jpg"}, true)

	assert.True(t, sub.Services.HasPool)
	assert.True(t, sub.Services.HasCabin)
	assert.False(t, sub.Services.HasCamping)

	// Only selected types contribute sub-records.
	assert.Contains(t, sub.Prices, PropertyTypePool)
	assert.NotContains(t, sub.Prices, PropertyTypeCamping)

	assert.Equal(t, []string{"No mascotas", "No fumar"}, sub.Rules, "blank slots dropped, order kept")

	assert.Equal(t, []PropertyImage{
		{URL: "https://cdn/a.jpg", Primary: true},
		{URL: "https://cdn/b.jpg", Primary: false},
	}, sub.Images)
	assert.True(t, sub.IdentityPending)
}
