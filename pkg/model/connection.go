package model

import "time"

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionDeclined ConnectionStatus = "declined"
)

func (s ConnectionStatus) Valid() bool {
	switch s {
	case ConnectionPending, ConnectionAccepted, ConnectionDeclined:
		return true
	}
	return false
}

// Connection is a directed contact request between two users. PairKey is the
// sorted "low:high" user-id pair; a unique index on it keeps at most one
// connection per pair regardless of direction.
type Connection struct {
	ID          string           `json:"id,omitempty" bson:"_id,omitempty"`
	RequesterID string           `json:"requester_id" bson:"requester_id" validate:"required"`
	RecipientID string           `json:"recipient_id" bson:"recipient_id" validate:"required"`
	PairKey     string           `json:"-" bson:"pair_key"`
	Status      ConnectionStatus `json:"status" bson:"status" validate:"required,oneof=pending accepted declined"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
	RespondedAt *time.Time       `json:"responded_at,omitempty" bson:"responded_at,omitempty"`
}

// PairKeyFor builds the order-independent key for a user pair.
func PairKeyFor(a, b string) string {
	if a < b {
		return a + ":" + b
	}
	return b + ":" + a
}
