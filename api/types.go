package api

import "poolchill/models"

// RegisterRequest is the body for POST /auth/register. Phone must already be
// normalized to E.164 by the caller.
type RegisterRequest struct {
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	AccountType string `json:"accountType"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
}

// AccountTypeHost tags accounts created through the host onboarding wizard.
const AccountTypeHost = "host"

// RegisterResponse acknowledges account creation; the account stays unusable
// until the e-mail confirmation redirect completes.
type RegisterResponse struct {
	UserID  string `json:"userId"`
	Message string `json:"message,omitempty"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordRequest is the body for POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body for POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// StartVerificationResponse carries the hosted identity-check session.
type StartVerificationResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// VerificationStatusResponse is the body of GET /verification/status.
type VerificationStatusResponse struct {
	IsVerified bool `json:"isVerified"`
}

// SubmitPropertyResponse acknowledges a listing submission.
type SubmitPropertyResponse struct {
	PropertyID string `json:"propertyId"`
	Message    string `json:"message,omitempty"`
}

// ContactRequest is the multipart contact-form submission. Data is the
// encrypted JSON field; Photos are optional local file paths.
type ContactRequest struct {
	Data   string
	Photos []models.MediaFile
}
