package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"poolchill/api"
	"poolchill/models"
	"poolchill/utils"

	"go.uber.org/zap"
)

// Bootstrap seeds and maintains the local session from token bundles: the
// decrypted e-mail confirmation redirect, a mid-wizard login, or a refresh.
type Bootstrap struct {
	Store  Store
	API    *api.Client
	Secret string

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

// NewBootstrap wires a Bootstrap over the given store and API client.
func NewBootstrap(store Store, apiClient *api.Client, secret string) *Bootstrap {
	return &Bootstrap{Store: store, API: apiClient, Secret: secret, Now: time.Now}
}

func (b *Bootstrap) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// DecryptRedirectPayload opens the encrypted `data` query parameter carried by
// the e-mail confirmation redirect. Failures come back as *DecryptionError.
func (b *Bootstrap) DecryptRedirectPayload(encoded string) (*models.TokenBundle, error) {
	var bundle models.TokenBundle
	if err := DecryptPayload(b.Secret, encoded, &bundle); err != nil {
		return nil, err
	}
	if bundle.AccessToken == "" {
		return nil, &DecryptionError{Reason: "payload carries no access token"}
	}
	return &bundle, nil
}

// BootstrapSession writes the token bundle into the session store. Calling it
// again with the same bundle is safe; every key is simply overwritten.
func (b *Bootstrap) BootstrapSession(ctx context.Context, bundle *models.TokenBundle) error {
	userJSON, err := json.Marshal(bundle.User)
	if err != nil {
		return fmt.Errorf("failed to encode user profile: %w", err)
	}

	// Some backend responses omit the profile ID; the token subject carries it.
	userID := bundle.User.ID
	if userID == "" {
		if sub, err := utils.TokenSubject(bundle.AccessToken); err == nil {
			userID = sub
		}
	}

	values := map[string]string{
		KeyAccessToken:    bundle.AccessToken,
		KeyRefreshToken:   bundle.RefreshToken,
		KeyUserID:         userID,
		KeyUser:           string(userJSON),
		KeyTokenTimestamp: strconv.FormatInt(b.now().UnixMilli(), 10),
		KeyExpiresIn:      strconv.FormatInt(bundle.ExpiresIn, 10),
	}
	for key, value := range values {
		if err := b.Store.Set(ctx, key, value); err != nil {
			return fmt.Errorf("failed to store session field %q: %w", key, err)
		}
	}
	return nil
}

// AccessToken returns the stored access token, or "" when no session exists.
func (b *Bootstrap) AccessToken(ctx context.Context) string {
	token, err := b.Store.Get(ctx, KeyAccessToken)
	if err != nil {
		return ""
	}
	return token
}

// User returns the stored user profile, if a session exists.
func (b *Bootstrap) User(ctx context.Context) (*models.User, error) {
	raw, err := b.Store.Get(ctx, KeyUser)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("failed to decode stored user profile: %w", err)
	}
	return &user, nil
}

// EnsureFreshToken reports whether a usable access token is in place. Inside
// the expiry window it answers without touching the network. Past it, the
// refresh endpoint is called; a failed refresh leaves every stored field
// untouched and reports false.
func (b *Bootstrap) EnsureFreshToken(ctx context.Context) bool {
	logger := utils.GetLogger()

	tsRaw, err := b.Store.Get(ctx, KeyTokenTimestamp)
	if err != nil {
		return false
	}
	expiresRaw, err := b.Store.Get(ctx, KeyExpiresIn)
	if err != nil {
		return false
	}
	savedAt, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return false
	}
	expiresIn, err := strconv.ParseInt(expiresRaw, 10, 64)
	if err != nil {
		return false
	}

	elapsed := b.now().UnixMilli() - savedAt
	if elapsed < expiresIn*1000 {
		return true
	}

	refreshToken, err := b.Store.Get(ctx, KeyRefreshToken)
	if err != nil || refreshToken == "" {
		logger.Warn("Token expired and no refresh token is stored")
		return false
	}

	bundle, err := b.API.Refresh(ctx, refreshToken)
	if err != nil {
		logger.Warn("Token refresh failed", zap.Error(err))
		return false
	}
	if err := b.BootstrapSession(ctx, bundle); err != nil {
		logger.Error("Failed to store refreshed session", zap.Error(err))
		return false
	}
	return true
}

// ClearSession removes every session field.
func (b *Bootstrap) ClearSession(ctx context.Context) {
	keys := []string{KeyAccessToken, KeyRefreshToken, KeyUserID, KeyUser, KeyTokenTimestamp, KeyExpiresIn}
	for _, key := range keys {
		_ = b.Store.Delete(ctx, key)
	}
}
