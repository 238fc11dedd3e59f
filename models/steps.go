package models

// Step identifies one stage of the host onboarding wizard. The zero value is
// the welcome screen.
type Step int

const (
	StepWelcome Step = iota
	StepPersonalData
	StepEmailVerification
	StepPropertyType
	StepLocation
	StepBasicInfo
	StepAmenities
	StepRules
	StepIdentityVerification
	StepPhotos
	StepPreview
)

var stepNames = map[Step]string{
	StepWelcome:              "welcome",
	StepPersonalData:         "personal_data",
	StepEmailVerification:    "email_verification",
	StepPropertyType:         "property_type",
	StepLocation:             "location",
	StepBasicInfo:            "basic_info",
	StepAmenities:            "amenities",
	StepRules:                "rules",
	StepIdentityVerification: "identity_verification",
	StepPhotos:               "photos",
	StepPreview:              "preview",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether s falls inside the wizard's step range.
func (s Step) Valid() bool {
	return s >= StepWelcome && s <= StepPreview
}
