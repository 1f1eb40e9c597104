package http

import (
	"context"

	"github.com/domuus/domuus-backend/internal/auth/domain"
)

// AuthService is what the handlers need from the service layer.
type AuthService interface {
	Register(ctx context.Context, email, password, username string) (*domain.AuthResult, error)
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Logout(ctx context.Context, uid string) error
	GetUser(ctx context.Context, uid string) (*domain.User, error)
	UpdateProfile(ctx context.Context, uid string, req *domain.UpdateProfileRequest) (*domain.User, error)
	Probe(ctx context.Context) (map[string]interface{}, error)
}

type Handler struct {
	authService AuthService
}

func New(authService AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}

type registerReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"required"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileReq struct {
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Language      *string `json:"language,omitempty"`
	Notifications *bool   `json:"notifications,omitempty"`
}

// userView is the shape the original API returned for auth responses.
type userView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

func viewOf(u *domain.User) userView {
	return userView{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role,
	}
}
