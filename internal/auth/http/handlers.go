package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/domuus/domuus-backend/internal/auth"
	"github.com/domuus/domuus-backend/internal/auth/domain"
)

// RegisterUser creates a new account.
// Error granularity is deliberately coarse: everything but success is a 500
// with a message, matching the original API surface.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating user", "error": "invalid body"})
		return
	}

	res, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating user", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   res.Token,
		"user":    viewOf(res.User),
	})
}

// Login verifies credentials. Any failure is a 401 so the response never
// leaks whether the email or the password was wrong.
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   res.Token,
		"user":    viewOf(res.User),
	})
}

// Logout revokes the caller's sessions. Idempotent.
func (h *Handler) Logout(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)

	if err := h.authService.Logout(c.Request.Context(), uid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error logging out", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// TestConnection probes the document store.
func (h *Handler) TestConnection(c *gin.Context) {
	data, err := h.authService.Probe(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Firebase connection failed", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Firebase connection successful",
		"data":    data,
	})
}

// UserData returns the caller's full profile document.
func (h *Handler) UserData(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)

	user, err := h.authService.GetUser(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching user data", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Firebase connection working",
		"user":    user,
	})
}

// UpdateProfile applies a partial update to profile fields. Email cannot be
// changed here.
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)

	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), uid, &domain.UpdateProfileRequest{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		Language:      req.Language,
		Notifications: req.Notifications,
	})
	if err != nil {
		if err == domain.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating profile", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}
