package domain

import "time"

// Presence status values. A guest is always exactly one of these.
const (
	StatusIn  = "in"
	StatusOut = "out"
)

// ValidStatus reports whether s is a known presence status.
func ValidStatus(s string) bool {
	return s == StatusIn || s == StatusOut
}

// ContactKind tags the contact union. The legacy data kept two shapes for
// the same person: a parent phone number on "friend" documents and a parent
// user id on "guest" documents.
type ContactKind string

const (
	ContactPhone ContactKind = "phone"
	ContactUser  ContactKind = "user"
)

// Contact is how the guest's parent is reached when a status changes.
type Contact struct {
	Kind  ContactKind `json:"kind" firestore:"kind"`
	Value string      `json:"value" firestore:"value"`
}

// Valid reports whether the contact carries a known kind and a value.
func (c Contact) Valid() bool {
	return (c.Kind == ContactPhone || c.Kind == ContactUser) && c.Value != ""
}

// Child belongs to exactly one user; documents live at
// users/{uid}/children/{childId}.
type Child struct {
	ID        string    `json:"id" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	BirthDate string    `json:"birth_date" firestore:"birthDate"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// Guest is a person permitted to be with a child, tracked by presence
// status. Documents live under the child at .../guests/{guestId}. The
// timestamp is re-stamped on every status write, including no-op ones.
type Guest struct {
	ID        string    `json:"id" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	Contact   Contact   `json:"contact" firestore:"contact"`
	Status    string    `json:"status" firestore:"status"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// Transition is one append-only audit record of a status write. Unlike the
// guest document, transitions are never overwritten, so the full check-in
// history survives later toggles.
type Transition struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ChildID    string    `json:"child_id"`
	ChildName  string    `json:"child_name"`
	GuestID    string    `json:"guest_id"`
	GuestName  string    `json:"guest_name"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TransitionFilter narrows an audit log listing. Zero values skip that
// dimension; set values combine conjunctively. ChildName matches
// case-insensitively, Day matches the calendar day an entry occurred.
type TransitionFilter struct {
	ChildName string
	Day       time.Time
}
