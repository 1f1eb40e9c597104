package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/domuus/domuus-backend/internal/presence/domain"
)

const (
	guestsCollection = "guests"

	// Older data kept the same people under a "friends" subcollection with a
	// parentPhone field instead of a contact union. The repository reads both
	// and normalizes; new documents are only ever written to "guests".
	legacyFriendsCollection = "friends"
)

// GuestRepository persists guest documents at
// users/{uid}/children/{childId}/guests/{guestId}.
type GuestRepository struct {
	fs *firestore.Client
}

func NewGuestRepository(fs *firestore.Client) *GuestRepository {
	return &GuestRepository{fs: fs}
}

func (r *GuestRepository) child(uid, childID string) *firestore.DocumentRef {
	return r.fs.Collection(usersCollection).Doc(uid).Collection(childrenCollection).Doc(childID)
}

// legacyFriend is the old "friends" document shape.
type legacyFriend struct {
	Name        string    `firestore:"name"`
	ParentPhone string    `firestore:"parentPhone"`
	Status      string    `firestore:"status"`
	Timestamp   time.Time `firestore:"timestamp"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

func (f *legacyFriend) toGuest(id string) domain.Guest {
	g := domain.Guest{
		ID:        id,
		Name:      f.Name,
		Contact:   domain.Contact{Kind: domain.ContactPhone, Value: f.ParentPhone},
		Status:    f.Status,
		Timestamp: f.Timestamp,
		CreatedAt: f.CreatedAt,
	}
	if g.Status == "" {
		g.Status = domain.StatusOut
	}
	if g.Timestamp.IsZero() {
		g.Timestamp = f.CreatedAt
	}
	return g
}

// List returns every guest under the child, legacy friend documents
// included. An empty child yields an empty slice, not an error.
func (r *GuestRepository) List(ctx context.Context, uid, childID string) ([]domain.Guest, error) {
	out := make([]domain.Guest, 0, 8)

	iter := r.child(uid, childID).Collection(guestsCollection).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list guests: %w", err)
		}

		var guest domain.Guest
		if err := snap.DataTo(&guest); err != nil {
			return nil, fmt.Errorf("decode guest %s: %w", snap.Ref.ID, err)
		}
		guest.ID = snap.Ref.ID
		out = append(out, guest)
	}

	fiter := r.child(uid, childID).Collection(legacyFriendsCollection).Documents(ctx)
	defer fiter.Stop()
	for {
		snap, err := fiter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list legacy friends: %w", err)
		}

		var friend legacyFriend
		if err := snap.DataTo(&friend); err != nil {
			return nil, fmt.Errorf("decode legacy friend %s: %w", snap.Ref.ID, err)
		}
		out = append(out, friend.toGuest(snap.Ref.ID))
	}

	return out, nil
}

// Get returns one guest by id, checking the legacy collection as well.
func (r *GuestRepository) Get(ctx context.Context, uid, childID, guestID string) (*domain.Guest, error) {
	_, guest, err := r.resolve(ctx, uid, childID, guestID)
	return guest, err
}

// resolve locates the document backing a guest id: guests first, then the
// legacy friends collection. Status writes must go to the document where it
// actually lives.
func (r *GuestRepository) resolve(ctx context.Context, uid, childID, guestID string) (*firestore.DocumentRef, *domain.Guest, error) {
	ref := r.child(uid, childID).Collection(guestsCollection).Doc(guestID)
	snap, err := ref.Get(ctx)
	if err == nil {
		var guest domain.Guest
		if derr := snap.DataTo(&guest); derr != nil {
			return nil, nil, fmt.Errorf("decode guest: %w", derr)
		}
		guest.ID = snap.Ref.ID
		return ref, &guest, nil
	}
	if status.Code(err) != codes.NotFound {
		return nil, nil, fmt.Errorf("get guest: %w", err)
	}

	legacyRef := r.child(uid, childID).Collection(legacyFriendsCollection).Doc(guestID)
	snap, err = legacyRef.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil, domain.ErrGuestNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get legacy friend: %w", err)
	}

	var friend legacyFriend
	if err := snap.DataTo(&friend); err != nil {
		return nil, nil, fmt.Errorf("decode legacy friend: %w", err)
	}
	guest := friend.toGuest(snap.Ref.ID)
	return legacyRef, &guest, nil
}

// Create writes a new guest document and fills in its generated ID.
func (r *GuestRepository) Create(ctx context.Context, uid, childID string, guest *domain.Guest) error {
	if guest.CreatedAt.IsZero() {
		guest.CreatedAt = time.Now().UTC()
	}

	ref := r.child(uid, childID).Collection(guestsCollection).NewDoc()
	if _, err := ref.Create(ctx, guest); err != nil {
		return fmt.Errorf("create guest: %w", err)
	}
	guest.ID = ref.ID
	return nil
}

// UpdateStatus sets the status field and re-stamps the timestamp on the
// backing document, wherever it lives. Last write wins; there is no
// version check on concurrent toggles.
func (r *GuestRepository) UpdateStatus(ctx context.Context, uid, childID, guestID, newStatus string, ts time.Time) error {
	ref, _, err := r.resolve(ctx, uid, childID, guestID)
	if err != nil {
		return err
	}

	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "status", Value: newStatus},
		{Path: "timestamp", Value: ts},
	})
	if status.Code(err) == codes.NotFound {
		return domain.ErrGuestNotFound
	}
	if err != nil {
		return fmt.Errorf("update guest status: %w", err)
	}
	return nil
}
