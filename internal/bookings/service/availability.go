package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "apnastay/internal/bookings/errors"
	apperrors "apnastay/pkg/errors"
	"apnastay/pkg/dates"
	"apnastay/pkg/model"
)

// checkAvailability counts reserved rooms over the half-open stay range and
// reports whether requestedRooms of them remain. Dates are normalized to UTC
// midnights first, so availability never depends on the caller's timezone.
func (s *bookingService) checkAvailability(ctx context.Context, listing *model.Listing, checkIn, checkOut time.Time, requestedRooms int) (*model.Availability, error) {
	checkIn = dates.UTCDay(checkIn)
	checkOut = dates.UTCDay(checkOut)
	if requestedRooms < 1 {
		requestedRooms = 1
	}

	if !checkOut.After(checkIn) {
		return &model.Availability{
			TotalRooms:     listing.TotalRooms,
			RequestedRooms: requestedRooms,
			Err:            "check-out must be after check-in",
		}, nil
	}

	overlapping, err := s.repo.FindOverlapping(ctx, listing.ID, checkIn, checkOut)
	if err != nil {
		return nil, apperrors.Internal("Failed to check existing bookings", err)
	}

	reserved := 0
	for _, b := range overlapping {
		rooms := b.RoomsBooked
		if rooms < 1 {
			rooms = 1
		}
		reserved += rooms
	}

	available := listing.TotalRooms - reserved
	if available < 0 {
		available = 0
	}

	return &model.Availability{
		Available:      requestedRooms <= available,
		AvailableRooms: available,
		RequestedRooms: requestedRooms,
		TotalRooms:     listing.TotalRooms,
		ReservedRooms:  reserved,
	}, nil
}

// CheckAvailability is the read-only probe behind the availability endpoint.
func (s *bookingService) CheckAvailability(ctx context.Context, listingID string, checkIn, checkOut time.Time, requestedRooms int) (*model.Availability, error) {
	if listingID == "" {
		return nil, apperrors.InvalidInput("Listing ID cannot be empty")
	}

	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrListingNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", listingID)
		}
		return nil, apperrors.Internal("Failed to load listing", err)
	}

	return s.checkAvailability(ctx, listing, checkIn, checkOut, requestedRooms)
}
