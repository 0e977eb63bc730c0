package model

import "time"

// BookingLock is a short-lived advisory lock taken while confirming a
// booking for a listing. Its _id is the listing id, so two confirmations
// for the same listing cannot run their availability check concurrently.
// A TTL index on ExpiresAt reaps locks left behind by crashed writers.
type BookingLock struct {
	ID        string    `bson:"_id"`
	HolderID  string    `bson:"holder_id"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}
