package domain

import "time"

// Role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account holder. The document lives at users/{uid} in
// Firestore; the ID is the Firebase Auth UID and is never stored in the
// document itself.
type User struct {
	ID            string    `json:"id" firestore:"-"`
	Username      string    `json:"username" firestore:"username"`
	Email         string    `json:"email" firestore:"email"`
	Role          string    `json:"role" firestore:"role"`
	FirstName     string    `json:"first_name,omitempty" firestore:"firstName"`
	LastName      string    `json:"last_name,omitempty" firestore:"lastName"`
	Phone         string    `json:"phone,omitempty" firestore:"phone"`
	Language      string    `json:"language,omitempty" firestore:"language"`
	Notifications bool      `json:"notifications" firestore:"notifications"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
}

// AuthResult is what a successful register or login hands back to the
// HTTP layer: a freshly minted ID token plus the user's profile.
type AuthResult struct {
	Token string
	User  *User
}

// UpdateProfileRequest is a partial profile update. Email is immutable
// through this path; nil fields are left untouched.
type UpdateProfileRequest struct {
	FirstName     *string
	LastName      *string
	Phone         *string
	Language      *string
	Notifications *bool
}

// HasChanges reports whether any field is set.
func (r *UpdateProfileRequest) HasChanges() bool {
	return r.FirstName != nil || r.LastName != nil || r.Phone != nil ||
		r.Language != nil || r.Notifications != nil
}
