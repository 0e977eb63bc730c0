package bookings_test

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingserrors "apnastay/internal/bookings/errors"
	"apnastay/internal/bookings/repository"
	"apnastay/pkg/model"
	"apnastay/test/integration/testutil"
)

func setupBookingRepo(t *testing.T) (repository.BookingRepository, *testutil.MongoHelper, *testutil.TestEnv) {
	t.Helper()

	env := testutil.NewTestEnv()
	helper := env.Setup(t)
	t.Cleanup(func() { env.Cleanup(t, helper) })

	return repository.NewMongoBookingRepository(helper.Config(t)), helper, env
}

func TestFindOverlapping_HalfOpenRange(t *testing.T) {
	repo, _, _ := setupBookingRepo(t)
	ctx := context.Background()

	stay := testutil.FixtureBooking(
		testutil.Day(2026, time.September, 10),
		testutil.Day(2026, time.September, 13),
	)
	if err := repo.Create(ctx, stay); err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}

	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"back-to-back after", testutil.Day(2026, time.September, 13), testutil.Day(2026, time.September, 15), 0},
		{"back-to-back before", testutil.Day(2026, time.September, 8), testutil.Day(2026, time.September, 10), 0},
		{"one night inside", testutil.Day(2026, time.September, 11), testutil.Day(2026, time.September, 12), 1},
		{"straddles the stay", testutil.Day(2026, time.September, 9), testutil.Day(2026, time.September, 14), 1},
		{"same stay", testutil.Day(2026, time.September, 10), testutil.Day(2026, time.September, 13), 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			overlapping, err := repo.FindOverlapping(ctx, testutil.FixtureListingID, tc.checkIn, tc.checkOut)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(overlapping) != tc.want {
				t.Errorf("expected %d overlapping bookings, got %d", tc.want, len(overlapping))
			}
		})
	}
}

func TestFindOverlapping_IgnoresCancelled(t *testing.T) {
	repo, _, _ := setupBookingRepo(t)
	ctx := context.Background()

	stay := testutil.FixtureBooking(
		testutil.Day(2026, time.September, 10),
		testutil.Day(2026, time.September, 13),
	)
	stay.Status = model.BookingCancelled
	if err := repo.Create(ctx, stay); err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}

	overlapping, err := repo.FindOverlapping(ctx, testutil.FixtureListingID,
		testutil.Day(2026, time.September, 10), testutil.Day(2026, time.September, 13))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(overlapping) != 0 {
		t.Errorf("cancelled bookings must not hold capacity, got %d", len(overlapping))
	}
}

func TestCancelWithToken_SingleUse(t *testing.T) {
	repo, _, _ := setupBookingRepo(t)
	ctx := context.Background()

	expires := time.Now().UTC().Add(48 * time.Hour)
	stay := testutil.FixtureBooking(
		testutil.Day(2026, time.October, 1),
		testutil.Day(2026, time.October, 4),
	)
	stay.CancelToken = "0123456789abcdef0123456789abcdef"
	stay.CancelTokenExpires = &expires
	if err := repo.Create(ctx, stay); err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}

	ok, err := repo.CancelWithToken(ctx, stay.ID, stay.CancelToken, time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected first use of the token to cancel")
	}

	cancelled, err := repo.FindByID(ctx, stay.ID)
	if err != nil {
		t.Fatalf("failed to reload booking: %v", err)
	}
	if cancelled.Status != model.BookingCancelled {
		t.Errorf("expected cancelled status, got %s", cancelled.Status)
	}
	if cancelled.CancelToken != "" || cancelled.CancelTokenExpires != nil {
		t.Error("token must be cleared on use")
	}

	ok, err = repo.CancelWithToken(ctx, stay.ID, stay.CancelToken, time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("token must not work twice")
	}
}

func TestCancelWithToken_ExpiredToken(t *testing.T) {
	repo, _, _ := setupBookingRepo(t)
	ctx := context.Background()

	expires := time.Now().UTC().Add(-time.Hour)
	stay := testutil.FixtureBooking(
		testutil.Day(2026, time.October, 1),
		testutil.Day(2026, time.October, 4),
	)
	stay.CancelToken = "0123456789abcdef0123456789abcdef"
	stay.CancelTokenExpires = &expires
	if err := repo.Create(ctx, stay); err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}

	ok, err := repo.CancelWithToken(ctx, stay.ID, stay.CancelToken, time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expired token must not cancel")
	}
}

func TestCancelWithVersion_StaleVersionLoses(t *testing.T) {
	repo, _, _ := setupBookingRepo(t)
	ctx := context.Background()

	stay := testutil.FixtureBooking(
		testutil.Day(2026, time.November, 5),
		testutil.Day(2026, time.November, 8),
	)
	if err := repo.Create(ctx, stay); err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}

	ok, err := repo.CancelWithVersion(ctx, stay.ID, stay.Version+1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("stale version must not cancel")
	}

	ok, err = repo.CancelWithVersion(ctx, stay.ID, stay.Version)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("matching version must cancel")
	}

	cancelled, err := repo.FindByID(ctx, stay.ID)
	if err != nil {
		t.Fatalf("failed to reload booking: %v", err)
	}
	if cancelled.Version != stay.Version+1 {
		t.Errorf("expected version bump to %d, got %d", stay.Version+1, cancelled.Version)
	}
}

func TestFindByPaymentID_RoundTrip(t *testing.T) {
	repo, _, _ := setupBookingRepo(t)
	ctx := context.Background()

	stay := testutil.FixtureBooking(
		testutil.Day(2026, time.December, 20),
		testutil.Day(2026, time.December, 27),
	)
	stay.PaymentID = "pay_integration_1"
	if err := repo.Create(ctx, stay); err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}

	found, err := repo.FindByPaymentID(ctx, "pay_integration_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != stay.ID {
		t.Errorf("expected booking %s, got %s", stay.ID, found.ID)
	}

	if _, err := repo.FindByPaymentID(ctx, "pay_unknown"); !errors.Is(err, bookingserrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown payment id, got %v", err)
	}
}
