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
	usersCollection    = "users"
	childrenCollection = "children"
)

// ChildRepository persists child documents at users/{uid}/children/{childId}.
type ChildRepository struct {
	fs *firestore.Client
}

func NewChildRepository(fs *firestore.Client) *ChildRepository {
	return &ChildRepository{fs: fs}
}

func (r *ChildRepository) children(uid string) *firestore.CollectionRef {
	return r.fs.Collection(usersCollection).Doc(uid).Collection(childrenCollection)
}

// List returns all children owned by the user.
func (r *ChildRepository) List(ctx context.Context, uid string) ([]domain.Child, error) {
	iter := r.children(uid).Documents(ctx)
	defer iter.Stop()

	out := make([]domain.Child, 0, 8)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list children: %w", err)
		}

		var child domain.Child
		if err := snap.DataTo(&child); err != nil {
			return nil, fmt.Errorf("decode child %s: %w", snap.Ref.ID, err)
		}
		child.ID = snap.Ref.ID
		out = append(out, child)
	}
	return out, nil
}

// Get returns one child, or ErrChildNotFound when the document does not
// exist under this user. Ownership is enforced by the path: a child id from
// another user's subtree simply is not there.
func (r *ChildRepository) Get(ctx context.Context, uid, childID string) (*domain.Child, error) {
	snap, err := r.children(uid).Doc(childID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrChildNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get child: %w", err)
	}

	var child domain.Child
	if err := snap.DataTo(&child); err != nil {
		return nil, fmt.Errorf("decode child: %w", err)
	}
	child.ID = snap.Ref.ID
	return &child, nil
}

// Create writes a new child document and fills in its generated ID.
func (r *ChildRepository) Create(ctx context.Context, uid string, child *domain.Child) error {
	if child.CreatedAt.IsZero() {
		child.CreatedAt = time.Now().UTC()
	}

	ref := r.children(uid).NewDoc()
	if _, err := ref.Create(ctx, child); err != nil {
		return fmt.Errorf("create child: %w", err)
	}
	child.ID = ref.ID
	return nil
}

// Delete removes the child document.
func (r *ChildRepository) Delete(ctx context.Context, uid, childID string) error {
	if _, err := r.children(uid).Doc(childID).Delete(ctx); err != nil {
		return fmt.Errorf("delete child: %w", err)
	}
	return nil
}
