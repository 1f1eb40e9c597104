package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/domuus/domuus-backend/internal/auth/domain"
)

const usersCollection = "users"

// UserRepository persists user profile documents at users/{uid}.
type UserRepository struct {
	fs *firestore.Client
}

func NewUserRepository(fs *firestore.Client) *UserRepository {
	return &UserRepository{fs: fs}
}

func (r *UserRepository) doc(uid string) *firestore.DocumentRef {
	return r.fs.Collection(usersCollection).Doc(uid)
}

// Create writes the profile document for a freshly registered user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if _, err := r.doc(user.ID).Create(ctx, user); err != nil {
		return fmt.Errorf("create user document: %w", err)
	}
	return nil
}

// GetByID retrieves a user profile by Firebase UID.
func (r *UserRepository) GetByID(ctx context.Context, uid string) (*domain.User, error) {
	snap, err := r.doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user document: %w", err)
	}

	var user domain.User
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("decode user document: %w", err)
	}
	user.ID = snap.Ref.ID
	return &user, nil
}

// EmailExists reports whether any profile document carries the given email.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.fieldExists(ctx, "email", email)
}

// UsernameExists reports whether the username is already taken.
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.fieldExists(ctx, "username", username)
}

func (r *UserRepository) fieldExists(ctx context.Context, field, value string) (bool, error) {
	iter := r.fs.Collection(usersCollection).
		Where(field, "==", value).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query users by %s: %w", field, err)
	}
	return true, nil
}

// EmailForUser resolves the email address on file for a user. Used by the
// notification pipeline to deliver to user-ref contacts.
func (r *UserRepository) EmailForUser(ctx context.Context, uid string) (string, error) {
	user, err := r.GetByID(ctx, uid)
	if err != nil {
		return "", err
	}
	if !user.Notifications {
		return "", fmt.Errorf("user %s has notifications disabled", uid)
	}
	return user.Email, nil
}

// UpdateProfile applies a partial update and returns the resulting user.
// Email is deliberately not updatable through this path.
func (r *UserRepository) UpdateProfile(ctx context.Context, uid string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	updates := make([]firestore.Update, 0, 5)
	if req.FirstName != nil {
		updates = append(updates, firestore.Update{Path: "firstName", Value: *req.FirstName})
	}
	if req.LastName != nil {
		updates = append(updates, firestore.Update{Path: "lastName", Value: *req.LastName})
	}
	if req.Phone != nil {
		updates = append(updates, firestore.Update{Path: "phone", Value: *req.Phone})
	}
	if req.Language != nil {
		updates = append(updates, firestore.Update{Path: "language", Value: *req.Language})
	}
	if req.Notifications != nil {
		updates = append(updates, firestore.Update{Path: "notifications", Value: *req.Notifications})
	}

	if len(updates) > 0 {
		_, err := r.doc(uid).Update(ctx, updates)
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrUserNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("update user document: %w", err)
		}
	}

	return r.GetByID(ctx, uid)
}
