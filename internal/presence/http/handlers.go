package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/domuus/domuus-backend/internal/auth"
	"github.com/domuus/domuus-backend/internal/presence/domain"
)

// ListChildren returns the caller's children.
func (h *Handler) ListChildren(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)

	children, err := h.presenceService.ListChildren(c.Request.Context(), uid)
	if err != nil {
		abortWith(c, err)
		return
	}

	views := make([]childView, 0, len(children))
	for _, child := range children {
		views = append(views, childViewOf(child))
	}
	c.JSON(http.StatusOK, gin.H{"children": views})
}

// AddChild registers a child under the caller.
func (h *Handler) AddChild(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)

	var req addChildReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	child, err := h.presenceService.AddChild(c.Request.Context(), uid, req.Name, req.BirthDate)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"child": childViewOf(*child)})
}

// DeleteChild removes a child.
func (h *Handler) DeleteChild(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	childID := c.Param("child_id")

	if err := h.presenceService.DeleteChild(c.Request.Context(), uid, childID); err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Child deleted"})
}

// ListGuests returns every guest registered under a child.
func (h *Handler) ListGuests(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	childID := c.Param("child_id")

	guests, err := h.presenceService.ListGuests(c.Request.Context(), uid, childID)
	if err != nil {
		abortWith(c, err)
		return
	}

	views := make([]guestView, 0, len(guests))
	for _, guest := range guests {
		views = append(views, guestViewOf(guest))
	}
	c.JSON(http.StatusOK, gin.H{"guests": views})
}

// AddGuest registers a guest under a child. New guests start checked out.
func (h *Handler) AddGuest(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	childID := c.Param("child_id")

	var req addGuestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	guest, err := h.presenceService.AddGuest(c.Request.Context(), uid, childID, req.Name, req.Contact.toDomain())
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"guest": guestViewOf(*guest)})
}

// SetStatus moves a guest to the requested status.
func (h *Handler) SetStatus(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	childID := c.Param("child_id")
	guestID := c.Param("guest_id")

	var req setStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	guest, err := h.presenceService.SetStatus(c.Request.Context(), uid, childID, guestID, req.Status)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"guest": guestViewOf(*guest)})
}

func abortWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	case errors.Is(err, domain.ErrChildNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Child not found"})
	case errors.Is(err, domain.ErrGuestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Guest not found"})
	case errors.Is(err, domain.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be 'in' or 'out'"})
	case errors.Is(err, domain.ErrProviderUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
