package http

import (
	"context"
	"time"

	"github.com/domuus/domuus-backend/internal/presence/domain"
)

// PresenceService is what the handlers need from the service layer.
type PresenceService interface {
	ListChildren(ctx context.Context, uid string) ([]domain.Child, error)
	AddChild(ctx context.Context, uid, name, birthDate string) (*domain.Child, error)
	DeleteChild(ctx context.Context, uid, childID string) error
	ListGuests(ctx context.Context, uid, childID string) ([]domain.Guest, error)
	AddGuest(ctx context.Context, uid, childID, name string, contact domain.Contact) (*domain.Guest, error)
	SetStatus(ctx context.Context, uid, childID, guestID, intendedStatus string) (*domain.Guest, error)
}

type Handler struct {
	presenceService PresenceService
}

func New(presenceService PresenceService) *Handler {
	return &Handler{presenceService: presenceService}
}

type addChildReq struct {
	Name      string `json:"name" binding:"required"`
	BirthDate string `json:"birth_date"`
}

type contactReq struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type addGuestReq struct {
	Name    string     `json:"name" binding:"required"`
	Contact contactReq `json:"contact"`
}

type setStatusReq struct {
	Status string `json:"status" binding:"required"`
}

func (r contactReq) toDomain() domain.Contact {
	return domain.Contact{Kind: domain.ContactKind(r.Kind), Value: r.Value}
}

type childView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date,omitempty"`
}

func childViewOf(c domain.Child) childView {
	return childView{ID: c.ID, Name: c.Name, BirthDate: c.BirthDate}
}

type contactView struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type guestView struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Contact   contactView `json:"contact"`
	Status    string      `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

func guestViewOf(g domain.Guest) guestView {
	return guestView{
		ID:        g.ID,
		Name:      g.Name,
		Contact:   contactView{Kind: string(g.Contact.Kind), Value: g.Contact.Value},
		Status:    g.Status,
		Timestamp: g.Timestamp,
	}
}
