package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/domuus/domuus-backend/internal/auth/domain"
	"github.com/domuus/domuus-backend/internal/auth/identity"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6

	defaultLanguage = "sv"
)

// IdentityClient is the slice of the identity provider the service needs.
type IdentityClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error)
	RevokeSessions(ctx context.Context, uid string) error
}

// UserStore is the profile document store.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, uid string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, uid string, req *domain.UpdateProfileRequest) (*domain.User, error)
	ProbeConnection(ctx context.Context) (map[string]interface{}, error)
}

type AuthService struct {
	ids     IdentityClient
	users   UserStore
	timeout time.Duration
	log     *logrus.Logger
}

func NewAuthService(ids IdentityClient, users UserStore, timeout time.Duration, log *logrus.Logger) *AuthService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AuthService{
		ids:     ids,
		users:   users,
		timeout: timeout,
		log:     log,
	}
}

// Register creates the identity and its profile document. Duplicate email and
// username are rejected with an equality query before the identity is
// created. If the profile write fails after the identity exists, the identity
// is deleted and the original error re-raised.
func (s *AuthService) Register(ctx context.Context, email, password, username string) (*domain.AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)

	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(username) < minUsernameLen {
		return nil, fmt.Errorf("username must be at least %d characters long", minUsernameLen)
	}
	if len(password) < minPasswordLen {
		return nil, domain.ErrWeakCredential
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	taken, err := s.users.EmailExists(opCtx, email)
	if err != nil {
		return nil, providerErr(err)
	}
	if taken {
		return nil, domain.ErrDuplicateEmail
	}

	taken, err = s.users.UsernameExists(opCtx, username)
	if err != nil {
		return nil, providerErr(err)
	}
	if taken {
		return nil, domain.ErrDuplicateUsername
	}

	uid, err := s.ids.CreateUser(opCtx, email, password, username)
	if err != nil {
		return nil, providerErr(err)
	}

	user := &domain.User{
		ID:            uid,
		Username:      username,
		Email:         email,
		Role:          domain.RoleUser,
		Language:      defaultLanguage,
		Notifications: true,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.users.Create(opCtx, user); err != nil {
		// Compensating action: the identity exists but the profile does not,
		// so remove the identity and surface the original failure.
		if derr := s.ids.DeleteUser(opCtx, uid); derr != nil {
			s.log.WithError(derr).WithField("uid", uid).
				Error("rollback failed: orphaned identity left behind")
		}
		return nil, providerErr(err)
	}

	sess, err := s.ids.SignInWithPassword(opCtx, email, password)
	if err != nil {
		return nil, providerErr(err)
	}

	return &domain.AuthResult{Token: sess.IDToken, User: user}, nil
}

// Login verifies the credentials and returns a fresh token plus the profile.
// Mismatches never reveal which field was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	sess, err := s.ids.SignInWithPassword(opCtx, email, password)
	if err != nil {
		return nil, providerErr(err)
	}

	user, err := s.users.GetByID(opCtx, sess.UID)
	if err != nil {
		return nil, providerErr(err)
	}

	return &domain.AuthResult{Token: sess.IDToken, User: user}, nil
}

// Logout revokes the user's refresh tokens. Calling it twice is fine.
func (s *AuthService) Logout(ctx context.Context, uid string) error {
	if uid == "" {
		return domain.ErrNotAuthenticated
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	return providerErr(s.ids.RevokeSessions(opCtx, uid))
}

// GetUser fetches the profile for the authenticated user.
func (s *AuthService) GetUser(ctx context.Context, uid string) (*domain.User, error) {
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.users.GetByID(opCtx, uid)
	if err != nil {
		return nil, providerErr(err)
	}
	return user, nil
}

// UpdateProfile applies a partial profile update. Email is immutable here.
func (s *AuthService) UpdateProfile(ctx context.Context, uid string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.users.UpdateProfile(opCtx, uid, req)
	if err != nil {
		return nil, providerErr(err)
	}
	return user, nil
}

// Probe round-trips a marker document through the store.
func (s *AuthService) Probe(ctx context.Context) (map[string]interface{}, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	data, err := s.users.ProbeConnection(opCtx)
	if err != nil {
		return nil, providerErr(err)
	}
	return data, nil
}

func (s *AuthService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// providerErr maps a timed-out provider call to ErrProviderUnavailable and
// passes everything else through.
func providerErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrProviderUnavailable
	}
	return err
}
