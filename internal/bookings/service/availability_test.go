package service

import (
	"context"
	"testing"
	"time"

	apperrors "apnastay/pkg/errors"
	"apnastay/pkg/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckAvailability_EmptyCalendar(t *testing.T) {
	f := newFixture(t)

	availability, err := f.service.CheckAvailability(context.Background(), testListingID, day(2026, 9, 10), day(2026, 9, 13), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !availability.Available || availability.AvailableRooms != 2 || availability.ReservedRooms != 0 {
		t.Errorf("unexpected availability: %+v", availability)
	}
}

func TestCheckAvailability_HalfOpenBoundaries(t *testing.T) {
	f := newFixture(t)

	// One booked room for Sep 10-13. The repository applies the half-open
	// filter; the mock emulates it here.
	existing := &model.Booking{ID: "b1", RoomsBooked: 1, Status: model.BookingBooked,
		CheckIn: day(2026, 9, 10), CheckOut: day(2026, 9, 13)}
	f.repo.findOverlappingFunc = func(ctx context.Context, listingID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
		if existing.CheckIn.Before(checkOut) && existing.CheckOut.After(checkIn) {
			return []*model.Booking{existing}, nil
		}
		return nil, nil
	}

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		reserved int
	}{
		{"same stay", day(2026, 9, 10), day(2026, 9, 13), 1},
		{"back to back after", day(2026, 9, 13), day(2026, 9, 15), 0},
		{"back to back before", day(2026, 9, 8), day(2026, 9, 10), 0},
		{"one night inside", day(2026, 9, 11), day(2026, 9, 12), 1},
		{"straddles check-out", day(2026, 9, 12), day(2026, 9, 15), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			availability, err := f.service.CheckAvailability(context.Background(), testListingID, tt.checkIn, tt.checkOut, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if availability.ReservedRooms != tt.reserved {
				t.Errorf("expected %d reserved, got %d", tt.reserved, availability.ReservedRooms)
			}
		})
	}
}

func TestCheckAvailability_LegacyBookingCountsOneRoom(t *testing.T) {
	f := newFixture(t)

	// Older bookings predate per-room counts and carry RoomsBooked 0.
	f.repo.findOverlappingFunc = func(ctx context.Context, listingID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
		return []*model.Booking{
			{ID: "b1", RoomsBooked: 0, Status: model.BookingBooked},
			{ID: "b2", RoomsBooked: 0, Status: model.BookingPending},
		}, nil
	}

	availability, err := f.service.CheckAvailability(context.Background(), testListingID, day(2026, 9, 10), day(2026, 9, 13), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if availability.ReservedRooms != 2 || availability.AvailableRooms != 0 {
		t.Errorf("unexpected availability: %+v", availability)
	}
	if availability.Available {
		t.Error("expected no availability")
	}
}

func TestCheckAvailability_OverbookedClampsToZero(t *testing.T) {
	f := newFixture(t)

	f.repo.findOverlappingFunc = func(ctx context.Context, listingID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
		return []*model.Booking{
			{ID: "b1", RoomsBooked: 5, Status: model.BookingBooked},
		}, nil
	}

	availability, err := f.service.CheckAvailability(context.Background(), testListingID, day(2026, 9, 10), day(2026, 9, 13), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if availability.AvailableRooms != 0 {
		t.Errorf("expected 0 available, got %d", availability.AvailableRooms)
	}
}

func TestCheckAvailability_RequestedRoomsBeyondRemaining(t *testing.T) {
	f := newFixture(t)

	// One of two rooms already reserved over the range.
	f.repo.findOverlappingFunc = func(ctx context.Context, listingID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
		return []*model.Booking{
			{ID: "b1", RoomsBooked: 1, Status: model.BookingBooked},
		}, nil
	}

	probe, err := f.service.CheckAvailability(context.Background(), testListingID, day(2026, 9, 10), day(2026, 9, 13), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if probe.Available {
		t.Error("two rooms requested with one remaining must not report available")
	}
	if probe.AvailableRooms != 1 || probe.RequestedRooms != 2 {
		t.Errorf("unexpected availability: %+v", probe)
	}

	single, err := f.service.CheckAvailability(context.Background(), testListingID, day(2026, 9, 10), day(2026, 9, 13), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !single.Available {
		t.Error("one room requested with one remaining must report available")
	}
}

func TestCheckAvailability_InvalidRange(t *testing.T) {
	f := newFixture(t)

	availability, err := f.service.CheckAvailability(context.Background(), testListingID, day(2026, 9, 13), day(2026, 9, 10), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if availability.Err == "" {
		t.Error("expected an availability error for an inverted range")
	}
	if availability.Available {
		t.Error("inverted range must not report availability")
	}
}

func TestCheckAvailability_UnknownListing(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CheckAvailability(context.Background(), "64f1ffffffffffffffffffff", day(2026, 9, 10), day(2026, 9, 13), 1)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}
