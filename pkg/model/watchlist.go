package model

import "time"

// Watchlist is a user's named collection of saved listings. A user may keep
// several; an empty watchlist is deleted rather than kept around.
type Watchlist struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     string    `json:"user_id" bson:"user_id" validate:"required"`
	Name       string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	ListingIDs []string  `json:"listing_ids" bson:"listing_ids"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

func (w *Watchlist) Contains(listingID string) bool {
	for _, id := range w.ListingIDs {
		if id == listingID {
			return true
		}
	}
	return false
}
