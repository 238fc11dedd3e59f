package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"poolchill/models"
)

// Error is a non-2xx response from the backend. Message carries the
// user-facing text the backend sent, when it sent one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// Client talks to the Pool & Chill backend. All calls are context-bound and
// return *Error for non-2xx responses.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a Client against the given base URL. A nil httpClient
// falls back to a default with a 30s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// doJSON performs a JSON request and decodes a 2xx response into out (when out
// is non-nil). The bearer token is optional.
func (c *Client) doJSON(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// decodeError extracts the backend's error message, tolerating non-JSON bodies.
func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		} else {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}

// Register creates a new host account. The backend rejects duplicate e-mails
// and server-side weak passwords with a 4xx carrying the reason.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates an existing account and returns its token bundle.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*models.TokenBundle, error) {
	var out models.TokenBundle
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh rotates the token pair using the stored refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.TokenBundle, error) {
	var out models.TokenBundle
	if err := c.doJSON(ctx, http.MethodPost, "/auth/refresh", "", RefreshRequest{RefreshToken: refreshToken}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword requests a reset e-mail. The backend answers success-shaped
// whether or not the address exists.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/forgot-password", "", ForgotPasswordRequest{Email: email}, nil)
}

// ResetPassword exchanges a reset token for a new password.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/reset-password", "", ResetPasswordRequest{Token: token, NewPassword: newPassword}, nil)
}

// StartVerification opens a hosted identity-check session for the
// authenticated user.
func (c *Client) StartVerification(ctx context.Context, accessToken string) (*StartVerificationResponse, error) {
	var out StartVerificationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/verification/start", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerificationStatus reports whether the authenticated user has completed
// identity verification.
func (c *Client) VerificationStatus(ctx context.Context, accessToken string) (bool, error) {
	var out VerificationStatusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/verification/status", accessToken, nil, &out); err != nil {
		return false, err
	}
	return out.IsVerified, nil
}

// SubmitProperty posts the assembled listing payload.
func (c *Client) SubmitProperty(ctx context.Context, accessToken string, sub models.PropertySubmission) (*SubmitPropertyResponse, error) {
	var out SubmitPropertyResponse
	if err := c.doJSON(ctx, http.MethodPost, "/properties", accessToken, sub, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Contact submits the contact form: an encrypted JSON field plus optional
// photo attachments, as multipart form data.
func (c *Client) Contact(ctx context.Context, req ContactRequest) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("data", req.Data); err != nil {
		return fmt.Errorf("failed to write contact data field: %w", err)
	}
	for _, photo := range req.Photos {
		f, err := os.Open(photo.Path)
		if err != nil {
			return fmt.Errorf("failed to open contact photo %s: %w", photo.Path, err)
		}
		part, err := w.CreateFormFile("photos", filepath.Base(photo.Name))
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to create photo part: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			f.Close()
			return fmt.Errorf("failed to copy photo %s: %w", photo.Path, err)
		}
		f.Close()
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/web/contact", &buf)
	if err != nil {
		return fmt.Errorf("failed to create contact request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("contact request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	return nil
}
