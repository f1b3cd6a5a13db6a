package models

import "time"

// InteractionKind is a recorded user action on a listing, ordered by
// increasing intent strength.
type InteractionKind string

const (
	InteractionView    InteractionKind = "view"
	InteractionSave    InteractionKind = "save"
	InteractionContact InteractionKind = "contact"
)

// ValidInteractionKind reports whether k is a known interaction kind.
func ValidInteractionKind(k InteractionKind) bool {
	switch k {
	case InteractionView, InteractionSave, InteractionContact:
		return true
	}
	return false
}

// InteractionEvent records one user's touch on a listing. Only the first
// (user, listing, kind) occurrence has lasting effect; duplicates are
// idempotent no-ops.
type InteractionEvent struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	UserID    int64           `json:"user_id" gorm:"uniqueIndex:idx_interactions_dedup"`
	ListingID int64           `json:"listing_id" gorm:"uniqueIndex:idx_interactions_dedup"`
	Kind      InteractionKind `json:"kind" gorm:"uniqueIndex:idx_interactions_dedup"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName keeps gorm writes on the same table the sql repository reads.
func (InteractionEvent) TableName() string {
	return "interactions"
}
