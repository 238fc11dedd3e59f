package models

// User is the profile slice of the account the backend returns on login,
// registration confirmation and token refresh.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Verified  bool   `json:"verified,omitempty"`
}

// TokenBundle is the credential set carried by login/refresh responses and by
// the encrypted redirect payload after e-mail confirmation.
type TokenBundle struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expiresIn"`
}

// PersistedSnapshot is the resumable wizard state written under a single
// storage key. SavedAt is epoch milliseconds; snapshots older than the
// configured freshness window are discarded on load.
type PersistedSnapshot struct {
	Draft   FormDraft `json:"formData"`
	Step    Step      `json:"currentStep"`
	SavedAt int64     `json:"timestamp"`
}
