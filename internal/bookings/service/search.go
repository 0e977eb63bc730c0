package service

import (
	"context"
	"time"

	"apnastay/pkg/dates"
	apperrors "apnastay/pkg/errors"
	"apnastay/pkg/model"
	"apnastay/pkg/sanitizer"
)

const buddyLimit = 20

type StaySearchResult struct {
	Listing      *model.Listing      `json:"listing"`
	Availability *model.Availability `json:"availability"`
}

// SearchStays finds listings matching a location with enough rooms free over
// the stay range. Listings without capacity are dropped from the results
// rather than annotated.
func (s *bookingService) SearchStays(ctx context.Context, location string, checkIn, checkOut time.Time, rooms int, limit int, offset int64) ([]*StaySearchResult, error) {
	term := sanitizer.SanitizeSearchTerm(location)
	if term == "" {
		return nil, apperrors.InvalidInput("Search location cannot be empty")
	}

	checkIn = dates.UTCDay(checkIn)
	checkOut = dates.UTCDay(checkOut)
	if !checkOut.After(checkIn) {
		return nil, apperrors.InvalidInput("check-out must be after check-in")
	}

	listings, err := s.listings.SearchByLocation(ctx, term, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Listing search failed", "location", term, "error", err)
		return nil, apperrors.Internal("Failed to search listings", err)
	}

	results := make([]*StaySearchResult, 0, len(listings))
	for _, listing := range listings {
		availability, err := s.checkAvailability(ctx, listing, checkIn, checkOut, rooms)
		if err != nil {
			return nil, err
		}
		if !availability.Available {
			continue
		}
		results = append(results, &StaySearchResult{
			Listing:      listing,
			Availability: availability,
		})
	}

	return results, nil
}

// TravelBuddies finds guests who completed stays at the listings the actor
// has stayed at, most shared stays first.
func (s *bookingService) TravelBuddies(ctx context.Context, guestID string) ([]*model.TravelBuddy, error) {
	if guestID == "" {
		return nil, apperrors.Unauthorized("Acting user is required")
	}

	now := time.Now().UTC()
	past, err := s.repo.FindPastStays(ctx, guestID, now)
	if err != nil {
		s.cfg.Log.Error("Failed to load past stays", "guest_id", guestID, "error", err)
		return nil, apperrors.Internal("Failed to load past stays", err)
	}
	if len(past) == 0 {
		return []*model.TravelBuddy{}, nil
	}

	seen := make(map[string]bool, len(past))
	listingIDs := make([]string, 0, len(past))
	for _, stay := range past {
		if seen[stay.ListingID] {
			continue
		}
		seen[stay.ListingID] = true
		listingIDs = append(listingIDs, stay.ListingID)
	}

	buddies, err := s.repo.FindPastGuestsAtListings(ctx, listingIDs, guestID, now, buddyLimit)
	if err != nil {
		s.cfg.Log.Error("Failed to find travel buddies", "guest_id", guestID, "error", err)
		return nil, apperrors.Internal("Failed to find travel buddies", err)
	}

	return buddies, nil
}
