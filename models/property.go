package models

// PropertyServices mirrors the property-type tag set as explicit flags, the
// shape the backend expects on submission.
type PropertyServices struct {
	HasPool    bool `json:"hasPool"`
	HasCabin   bool `json:"hasCabin"`
	HasCamping bool `json:"hasCamping"`
}

// PropertyImage is one uploaded listing photo. The first image of a
// submission is marked primary.
type PropertyImage struct {
	URL     string `json:"url"`
	Primary bool   `json:"primary"`
}

// PropertySubmission is the structured payload posted to the backend when the
// wizard completes.
type PropertySubmission struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	CheckIn     string                 `json:"checkIn"`
	CheckOut    string                 `json:"checkOut"`
	Services    PropertyServices       `json:"services"`
	Prices      map[string]PriceInfo   `json:"prices"`
	Amenities   map[string]AmenityInfo `json:"amenities"`
	Location    LocationInfo           `json:"location"`
	Rules       []string               `json:"rules"`
	Images      []PropertyImage        `json:"images"`
	Payment     PaymentInfo            `json:"payment"`
	// IdentityPending flags a listing submitted with identity verification
	// deferred by the host.
	IdentityPending bool `json:"identityPending"`
	// IdentityDocs carries uploaded document URLs when verification was
	// deferred but the host attached papers for manual review.
	IdentityDocs []string `json:"identityDocuments,omitempty"`
}

// BuildSubmission assembles the submission payload from a completed draft and
// the uploaded image URLs, preserving rule order and marking the first image
// as primary. Blank rule slots are dropped.
func BuildSubmission(d *FormDraft, imageURLs []string, identityPending bool) PropertySubmission {
	sub := PropertySubmission{
		Name:        d.Name,
		Description: d.Description,
		CheckIn:     d.CheckIn,
		CheckOut:    d.CheckOut,
		Services: PropertyServices{
			HasPool:    d.HasPropertyType(PropertyTypePool),
			HasCabin:   d.HasPropertyType(PropertyTypeCabin),
			HasCamping: d.HasPropertyType(PropertyTypeCamping),
		},
		Prices:          make(map[string]PriceInfo),
		Amenities:       make(map[string]AmenityInfo),
		Location:        d.Location,
		Rules:           []string{},
		Images:          []PropertyImage{},
		Payment:         d.Payment,
		IdentityPending: identityPending,
	}

	// Only selected types contribute pricing and amenity sub-records.
	for _, tag := range d.PropertyTypes {
		if p, ok := d.Prices[tag]; ok {
			sub.Prices[tag] = p
		}
		if a, ok := d.Amenities[tag]; ok {
			sub.Amenities[tag] = a
		}
	}

	for _, rule := range d.Rules {
		if rule != "" {
			sub.Rules = append(sub.Rules, rule)
		}
	}

	for i, url := range imageURLs {
		sub.Images = append(sub.Images, PropertyImage{URL: url, Primary: i == 0})
	}
	return sub
}
