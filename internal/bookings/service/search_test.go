package service

import (
	"context"
	"testing"
	"time"

	apperrors "apnastay/pkg/errors"
	"apnastay/pkg/model"
)

// ────────────────────────────────────────────────
// SearchStays
// ────────────────────────────────────────────────

func TestSearchStays_FiltersOutFullListings(t *testing.T) {
	f := newFixture(t)

	free := testListing()
	full := testListing()
	full.ID = "64f100000000000000000002"
	full.Title = "Riverside Villa"

	f.listings.searchByLocationFunc = func(ctx context.Context, pattern string, limit int, offset int64) ([]*model.Listing, error) {
		return []*model.Listing{free, full}, nil
	}
	f.repo.findOverlappingFunc = func(ctx context.Context, listingID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
		if listingID == full.ID {
			return []*model.Booking{
				{ID: "b1", RoomsBooked: 2, Status: model.BookingBooked},
			}, nil
		}
		return nil, nil
	}

	results, err := f.service.SearchStays(context.Background(), "Manali", day(2026, 9, 10), day(2026, 9, 13), 1, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 available listing, got %d", len(results))
	}
	if results[0].Listing.ID != free.ID {
		t.Errorf("expected the free listing, got %s", results[0].Listing.ID)
	}
	if !results[0].Availability.Available || results[0].Availability.AvailableRooms != 2 {
		t.Errorf("unexpected availability: %+v", results[0].Availability)
	}
}

func TestSearchStays_RespectsRequestedRooms(t *testing.T) {
	f := newFixture(t)

	f.listings.searchByLocationFunc = func(ctx context.Context, pattern string, limit int, offset int64) ([]*model.Listing, error) {
		return []*model.Listing{testListing()}, nil
	}
	f.repo.findOverlappingFunc = func(ctx context.Context, listingID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
		return []*model.Booking{
			{ID: "b1", RoomsBooked: 1, Status: model.BookingBooked},
		}, nil
	}

	results, err := f.service.SearchStays(context.Background(), "Manali", day(2026, 9, 10), day(2026, 9, 13), 2, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("one room left cannot satisfy a two-room search, got %d results", len(results))
	}
}

func TestSearchStays_EscapesLocationPattern(t *testing.T) {
	f := newFixture(t)

	var pattern string
	f.listings.searchByLocationFunc = func(ctx context.Context, p string, limit int, offset int64) ([]*model.Listing, error) {
		pattern = p
		return nil, nil
	}

	if _, err := f.service.SearchStays(context.Background(), "Manali (old town)", day(2026, 9, 10), day(2026, 9, 13), 1, 20, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pattern != `Manali \(old town\)` {
		t.Errorf("expected escaped pattern, got %q", pattern)
	}
}

func TestSearchStays_EmptyLocationRejected(t *testing.T) {
	f := newFixture(t)

	for _, location := range []string{"", "   "} {
		_, err := f.service.SearchStays(context.Background(), location, day(2026, 9, 10), day(2026, 9, 13), 1, 20, 0)
		assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
	}
}

func TestSearchStays_InvalidRangeRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SearchStays(context.Background(), "Manali", day(2026, 9, 13), day(2026, 9, 10), 1, 20, 0)
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

// ────────────────────────────────────────────────
// TravelBuddies
// ────────────────────────────────────────────────

func TestTravelBuddies_SharedStays(t *testing.T) {
	f := newFixture(t)

	f.repo.findPastStaysFunc = func(ctx context.Context, guestID string, before time.Time) ([]*model.Booking, error) {
		return []*model.Booking{
			{ID: "b1", ListingID: testListingID},
			{ID: "b2", ListingID: testListingID},
			{ID: "b3", ListingID: "64f100000000000000000002"},
		}, nil
	}

	var gotListings []string
	var gotExclude string
	f.repo.findPastGuestsFunc = func(ctx context.Context, listingIDs []string, excludeGuestID string, before time.Time, limit int) ([]*model.TravelBuddy, error) {
		gotListings = listingIDs
		gotExclude = excludeGuestID
		return []*model.TravelBuddy{
			{Guest: model.UserRef{ID: "guest-2", Username: "meera"}, SharedStays: 3},
			{Guest: model.UserRef{ID: "guest-3", Username: "arjun"}, SharedStays: 1},
		}, nil
	}

	buddies, err := f.service.TravelBuddies(context.Background(), testGuestID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gotListings) != 2 {
		t.Errorf("expected deduplicated listing ids, got %v", gotListings)
	}
	if gotExclude != testGuestID {
		t.Errorf("actor must be excluded from the buddy query, got %q", gotExclude)
	}
	if len(buddies) != 2 || buddies[0].Guest.ID != "guest-2" || buddies[0].SharedStays != 3 {
		t.Errorf("unexpected buddies: %+v", buddies)
	}
}

func TestTravelBuddies_NoPastTrips(t *testing.T) {
	f := newFixture(t)

	f.repo.findPastGuestsFunc = func(ctx context.Context, listingIDs []string, excludeGuestID string, before time.Time, limit int) ([]*model.TravelBuddy, error) {
		t.Error("no buddy query expected without past trips")
		return nil, nil
	}

	buddies, err := f.service.TravelBuddies(context.Background(), testGuestID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buddies == nil || len(buddies) != 0 {
		t.Errorf("expected an empty buddy list, got %+v", buddies)
	}
}

func TestTravelBuddies_RequiresActor(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.TravelBuddies(context.Background(), "")
	assertAppErrorCode(t, err, apperrors.CodeUnauthorized)
}
