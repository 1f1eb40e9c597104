package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/domuus/domuus-backend/internal/presence/domain"
)

// TransitionRepository persists the append-only presence audit log.
type TransitionRepository struct {
	db *pgxpool.Pool
}

func NewTransitionRepository(db *pgxpool.Pool) *TransitionRepository {
	return &TransitionRepository{db: db}
}

// Append records one status change. Rows are never updated or deleted.
func (r *TransitionRepository) Append(ctx context.Context, t *domain.Transition) error {
	const q = `
insert into presence_transitions
  (id, user_id, child_id, child_name, guest_id, guest_name, from_status, to_status, occurred_at)
values ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err := r.db.Exec(ctx, q,
		t.ID, t.UserID, t.ChildID, t.ChildName, t.GuestID, t.GuestName,
		t.FromStatus, t.ToStatus, t.OccurredAt)
	return err
}

// List returns the user's transitions, newest first, with guest id as the
// tiebreak for records stamped in the same instant.
func (r *TransitionRepository) List(ctx context.Context, uid string, filter domain.TransitionFilter) ([]domain.Transition, error) {
	q := `
select id, user_id, child_id, child_name, guest_id, guest_name, from_status, to_status, occurred_at
from presence_transitions
where user_id = $1
`
	args := []any{uid}

	if filter.ChildName != "" {
		args = append(args, filter.ChildName)
		q += ` and lower(child_name) = lower($2)`
	}
	if !filter.Day.IsZero() {
		args = append(args, filter.Day)
		if filter.ChildName != "" {
			q += ` and date_trunc('day', occurred_at) = date_trunc('day', $3::timestamptz)`
		} else {
			q += ` and date_trunc('day', occurred_at) = date_trunc('day', $2::timestamptz)`
		}
	}
	q += ` order by occurred_at desc, guest_id asc;`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Transition, 0, 32)
	for rows.Next() {
		var t domain.Transition
		if err := rows.Scan(&t.ID, &t.UserID, &t.ChildID, &t.ChildName, &t.GuestID,
			&t.GuestName, &t.FromStatus, &t.ToStatus, &t.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
