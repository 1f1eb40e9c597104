package repository

import (
	"context"
	"fmt"
	"time"
)

// ProbeConnection writes and reads back a marker document so /api/test can
// confirm the document store is reachable.
func (r *UserRepository) ProbeConnection(ctx context.Context) (map[string]interface{}, error) {
	ref := r.fs.Collection("test").Doc("connection")

	_, err := ref.Set(ctx, map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"status":    "connected",
	})
	if err != nil {
		return nil, fmt.Errorf("probe write: %w", err)
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("probe read: %w", err)
	}
	return snap.Data(), nil
}
