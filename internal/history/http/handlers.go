package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/domuus/domuus-backend/internal/auth"
	"github.com/domuus/domuus-backend/internal/history/service"
	"github.com/domuus/domuus-backend/internal/presence/domain"
)

// HistoryService is what the handlers need from the service layer.
type HistoryService interface {
	BuildHistory(ctx context.Context, uid string, filter service.Filter) ([]service.Record, error)
	Transitions(ctx context.Context, uid string, filter service.Filter) ([]domain.Transition, error)
}

type Handler struct {
	historyService HistoryService
}

func New(historyService HistoryService) *Handler {
	return &Handler{historyService: historyService}
}

// History returns the presence overview: one record per guest, newest first.
// Optional query params: child (name, case-insensitive) and date (YYYY-MM-DD).
func (h *Handler) History(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)

	filter, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	records, err := h.historyService.BuildHistory(c.Request.Context(), uid, filter)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": records})
}

// Transitions returns the raw audit log with the same filters as History.
func (h *Handler) Transitions(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)

	filter, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	transitions, err := h.historyService.Transitions(c.Request.Context(), uid, filter)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transitions": transitions})
}

// RegisterRoutes mounts the history routes under the protected group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	history := rg.Group("/history")
	{
		history.GET("", h.History)
		history.GET("/transitions", h.Transitions)
	}
}

func filterFromQuery(c *gin.Context) (service.Filter, error) {
	filter := service.Filter{ChildName: c.Query("child")}

	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return service.Filter{}, err
		}
		filter.Day = day
	}
	return filter, nil
}

func abortWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	case errors.Is(err, domain.ErrProviderUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
