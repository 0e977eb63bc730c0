package testutil

import (
	"time"

	"apnastay/pkg/model"
)

const (
	FixtureListingID = "64f100000000000000000001"
	FixtureGuestID   = "guest-1"
	FixtureHostID    = "host-1"
)

func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FixtureBooking is a booked two-room stay used as the seed document for
// repository tests.
func FixtureBooking(checkIn, checkOut time.Time) *model.Booking {
	return &model.Booking{
		ListingID: FixtureListingID,
		Guest: model.UserRef{
			ID:       FixtureGuestID,
			Username: "Priya",
			Email:    "priya@example.com",
		},
		Host: model.UserRef{
			ID:       FixtureHostID,
			Username: "Ravi",
			Email:    "ravi@example.com",
		},
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		RoomsBooked: 2,
		Price:       6000,
		Status:      model.BookingBooked,
		Version:     1,
	}
}

func FixtureReview(listingID, authorID string, rating int) *model.Review {
	return &model.Review{
		ListingID: listingID,
		Author: model.UserRef{
			ID:       authorID,
			Username: "Guest " + authorID,
			Email:    authorID + "@example.com",
		},
		Rating:  rating,
		Comment: "Lovely place, would stay again.",
	}
}
