package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuus/domuus-backend/internal/auth"
	"github.com/domuus/domuus-backend/internal/auth/domain"
)

type fakeAuthService struct {
	registerResult *domain.AuthResult
	registerErr    error
	loginResult    *domain.AuthResult
	loginErr       error
	logoutErr      error
	loggedOut      []string
}

func (f *fakeAuthService) Register(ctx context.Context, email, password, username string) (*domain.AuthResult, error) {
	return f.registerResult, f.registerErr
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeAuthService) Logout(ctx context.Context, uid string) error {
	f.loggedOut = append(f.loggedOut, uid)
	return f.logoutErr
}

func (f *fakeAuthService) GetUser(ctx context.Context, uid string) (*domain.User, error) {
	return &domain.User{ID: uid}, nil
}

func (f *fakeAuthService) UpdateProfile(ctx context.Context, uid string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	return &domain.User{ID: uid}, nil
}

func (f *fakeAuthService) Probe(ctx context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{"status": "connected"}, nil
}

func newTestRouter(svc AuthService, uid string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := New(svc)
	api := r.Group("/api")
	h.RegisterPublic(api)

	protected := api.Group("")
	protected.Use(func(c *gin.Context) {
		c.Set(auth.CtxFirebaseUID, uid)
		c.Next()
	})
	h.RegisterProtected(protected)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("returns 201 with token and user", func(t *testing.T) {
		svc := &fakeAuthService{registerResult: &domain.AuthResult{
			Token: "token-abc",
			User:  &domain.User{ID: "uid-1", Email: "anna@example.com", Username: "anna"},
		}}
		r := newTestRouter(svc, "")

		w := doJSON(t, r, http.MethodPost, "/api/auth/register",
			`{"email":"anna@example.com","password":"secret123","username":"anna"}`)

		require.Equal(t, http.StatusCreated, w.Code)

		var body struct {
			Token string `json:"token"`
			User  struct {
				ID string `json:"id"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "token-abc", body.Token)
		assert.Equal(t, "uid-1", body.User.ID)
	})

	t.Run("any failure is a 500 with the generic message", func(t *testing.T) {
		svc := &fakeAuthService{registerErr: domain.ErrDuplicateEmail}
		r := newTestRouter(svc, "")

		w := doJSON(t, r, http.MethodPost, "/api/auth/register",
			`{"email":"anna@example.com","password":"secret123","username":"anna"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Error creating user")
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("returns 200 with token", func(t *testing.T) {
		svc := &fakeAuthService{loginResult: &domain.AuthResult{
			Token: "token-abc",
			User:  &domain.User{ID: "uid-1"},
		}}
		r := newTestRouter(svc, "")

		w := doJSON(t, r, http.MethodPost, "/api/auth/login",
			`{"email":"anna@example.com","password":"secret123"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "token-abc")
	})

	t.Run("any failure is a 401 that does not name the failing field", func(t *testing.T) {
		svc := &fakeAuthService{loginErr: domain.ErrInvalidCredentials}
		r := newTestRouter(svc, "")

		w := doJSON(t, r, http.MethodPost, "/api/auth/login",
			`{"email":"anna@example.com","password":"wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid credentials")
		assert.NotContains(t, w.Body.String(), "password")
		assert.NotContains(t, w.Body.String(), "email")
	})

	t.Run("malformed body is also a 401", func(t *testing.T) {
		r := newTestRouter(&fakeAuthService{}, "")

		w := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"email":"anna@example.com"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Run("revokes the caller's sessions", func(t *testing.T) {
		svc := &fakeAuthService{}
		r := newTestRouter(svc, "uid-9")

		w := doJSON(t, r, http.MethodPost, "/api/auth/logout", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"uid-9"}, svc.loggedOut)
	})
}
