package model

import "time"

type Review struct {
	ID        string  `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ListingID string  `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	Author    UserRef `json:"author" bson:"author" validate:"required"`

	Rating  int    `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" bson:"comment" validate:"required,min=1,max=2000"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// RatingSummary is the aggregate used by the trending reclassifier.
type RatingSummary struct {
	ListingID string  `bson:"_id"`
	Count     int64   `bson:"count"`
	Average   float64 `bson:"average"`
}
