package models

// Property type tags. A draft may carry any combination of them.
const (
	PropertyTypePool    = "pool"
	PropertyTypeCabin   = "cabin"
	PropertyTypeCamping = "camping"
)

// Caps on the two media collections.
const (
	MaxListingPhotos = 10
	MaxIdentityFiles = 2
)

// MediaFile references a file queued for upload. Media never survives draft
// persistence; snapshots always carry empty collections.
type MediaFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// PriceInfo holds per-property-type pricing as decimal strings.
type PriceInfo struct {
	Weekday string `json:"weekday"`
	Weekend string `json:"weekend"`
}

// AmenityInfo is the capacity/amenity sub-record kept per property type.
// It is only meaningful while its type is selected, but is deliberately not
// cleared on deselection so re-selecting loses nothing.
type AmenityInfo struct {
	Guests    int      `json:"guests"`
	Bedrooms  int      `json:"bedrooms"`
	Beds      int      `json:"beds"`
	Bathrooms int      `json:"bathrooms"`
	Amenities []string `json:"amenities"`
}

// LocationInfo holds the property address and geocoordinates. Latitude and
// longitude travel as decimal strings, exactly as the map widget hands them over.
type LocationInfo struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	PostalCode   string `json:"postalCode"`
	Region       string `json:"region"`
	Municipality string `json:"municipality"`
	Latitude     string `json:"lat"`
	Longitude    string `json:"lng"`
}

// PaymentInfo holds the host payout account details.
type PaymentInfo struct {
	AccountHolder string `json:"accountHolder"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
}

// FormDraft is the single mutable record the wizard owns for one registration
// attempt. Every step view mutates it through the controller.
type FormDraft struct {
	// Identity / account fields.
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	DateOfBirth     string `json:"dateOfBirth"`
	Gender          string `json:"gender"`
	Phone           string `json:"phone"`
	Region          string `json:"region"`
	Consent         bool   `json:"consent"`

	// Property classification. Set semantics: no duplicates, union of tags.
	PropertyTypes []string `json:"propertyTypes"`

	Location LocationInfo `json:"location"`

	// Listing fields.
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	CheckIn     string                 `json:"checkIn"`
	CheckOut    string                 `json:"checkOut"`
	Prices      map[string]PriceInfo   `json:"prices"`
	Amenities   map[string]AmenityInfo `json:"amenities"`

	// Rules always holds at least one slot, possibly blank.
	Rules []string `json:"rules"`

	// Media is never persisted.
	Photos        []MediaFile `json:"photos"`
	IdentityFiles []MediaFile `json:"identityFiles"`

	Payment PaymentInfo `json:"payment"`
}

// NewFormDraft returns an empty draft with its invariants in place: one blank
// rule slot and initialized sub-record maps.
func NewFormDraft() *FormDraft {
	return &FormDraft{
		PropertyTypes: []string{},
		Prices:        make(map[string]PriceInfo),
		Amenities:     make(map[string]AmenityInfo),
		Rules:         []string{""},
		Photos:        []MediaFile{},
		IdentityFiles: []MediaFile{},
	}
}

// HasPropertyType reports whether the given tag is selected.
func (d *FormDraft) HasPropertyType(tag string) bool {
	for _, t := range d.PropertyTypes {
		if t == tag {
			return true
		}
	}
	return false
}

// AddPropertyType selects a tag. Adding an already-selected tag is a no-op.
func (d *FormDraft) AddPropertyType(tag string) {
	if d.HasPropertyType(tag) {
		return
	}
	d.PropertyTypes = append(d.PropertyTypes, tag)
}

// RemovePropertyType deselects a tag. The amenity sub-record for the tag is
// kept so re-selection loses no data.
func (d *FormDraft) RemovePropertyType(tag string) {
	for i, t := range d.PropertyTypes {
		if t == tag {
			d.PropertyTypes = append(d.PropertyTypes[:i], d.PropertyTypes[i+1:]...)
			return
		}
	}
}

// TogglePropertyType flips the selection state of a tag.
func (d *FormDraft) TogglePropertyType(tag string) {
	if d.HasPropertyType(tag) {
		d.RemovePropertyType(tag)
		return
	}
	d.AddPropertyType(tag)
}

// AddPhoto queues a listing photo. Returns false once the cap is reached.
func (d *FormDraft) AddPhoto(f MediaFile) bool {
	if len(d.Photos) >= MaxListingPhotos {
		return false
	}
	d.Photos = append(d.Photos, f)
	return true
}

// AddIdentityFile queues an identity document. Returns false once the cap is
// reached.
func (d *FormDraft) AddIdentityFile(f MediaFile) bool {
	if len(d.IdentityFiles) >= MaxIdentityFiles {
		return false
	}
	d.IdentityFiles = append(d.IdentityFiles, f)
	return true
}

// AddRule appends a new rule slot.
func (d *FormDraft) AddRule(rule string) {
	d.Rules = append(d.Rules, rule)
}

// UpdateRule rewrites the rule at index i. Out-of-range indices are ignored.
func (d *FormDraft) UpdateRule(i int, rule string) {
	if i < 0 || i >= len(d.Rules) {
		return
	}
	d.Rules[i] = rule
}

// RemoveRule drops the rule at index i, refusing to shrink the list below one
// slot. Out-of-range indices are ignored.
func (d *FormDraft) RemoveRule(i int) {
	if i < 0 || i >= len(d.Rules) || len(d.Rules) <= 1 {
		return
	}
	d.Rules = append(d.Rules[:i], d.Rules[i+1:]...)
}

// Sanitized returns a deep copy of the draft with both file collections
// zeroed. This is the shape that goes into persisted snapshots.
func (d *FormDraft) Sanitized() FormDraft {
	out := *d

	out.PropertyTypes = append([]string{}, d.PropertyTypes...)
	out.Rules = append([]string{}, d.Rules...)

	out.Prices = make(map[string]PriceInfo, len(d.Prices))
	for k, v := range d.Prices {
		out.Prices[k] = v
	}
	out.Amenities = make(map[string]AmenityInfo, len(d.Amenities))
	for k, v := range d.Amenities {
		v.Amenities = append([]string{}, v.Amenities...)
		out.Amenities[k] = v
	}

	out.Photos = []MediaFile{}
	out.IdentityFiles = []MediaFile{}
	return out
}
