// Package identity wraps the Firebase identity provider: account creation and
// deletion go through the Admin SDK, while password verification uses the
// Identity Toolkit REST endpoint, since the Admin SDK cannot check passwords.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/domuus/domuus-backend/internal/auth/domain"
)

const signInURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// Session is the result of a successful password sign-in.
type Session struct {
	UID          string
	IDToken      string
	RefreshToken string
	ExpiresIn    string
}

type Client struct {
	auth   *auth.Client
	apiKey string
	http   *http.Client
}

func New(authClient *auth.Client, apiKey string) *Client {
	return &Client{
		auth:   authClient,
		apiKey: apiKey,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateUser creates an account in Firebase Auth and returns its UID.
func (c *Client) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	rec, err := c.auth.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", domain.ErrDuplicateEmail
		}
		return "", fmt.Errorf("create user: %w", err)
	}
	return rec.UID, nil
}

// DeleteUser removes the account. Used as the compensating action when a
// profile write fails after the identity was already created.
func (c *Client) DeleteUser(ctx context.Context, uid string) error {
	if err := c.auth.DeleteUser(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// RevokeSessions invalidates all refresh tokens for the user. Revoking an
// already-revoked or missing account is not an error, so logout stays
// idempotent.
func (c *Client) RevokeSessions(ctx context.Context, uid string) error {
	if err := c.auth.RevokeRefreshTokens(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return nil
		}
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type signInError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithPassword verifies the credentials against the Identity Toolkit
// and mints an ID token. Any provider-reported mismatch collapses into
// ErrInvalidCredentials so callers cannot tell which field was wrong.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal sign-in request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", signInURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign-in call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr signInError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && credentialMismatch(apiErr.Error.Message) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign-in failed: status %d", resp.StatusCode)
	}

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode sign-in response: %w", err)
	}

	return &Session{
		UID:          out.LocalID,
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    out.ExpiresIn,
	}, nil
}

func credentialMismatch(code string) bool {
	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return true
	}
	return false
}
