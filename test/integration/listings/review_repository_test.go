package listings_test

import (
	"context"
	"errors"
	"math"
	"testing"

	listingserrors "apnastay/internal/listings/errors"
	"apnastay/internal/listings/repository"
	mongoMigration "apnastay/internal/migrations/mongo"
	"apnastay/test/integration/testutil"
)

// setupReviewRepo runs the real migration so the unique (listing_id,
// author.id) index and the schema validators are in place, exactly as in
// production.
func setupReviewRepo(t *testing.T) repository.ReviewRepository {
	t.Helper()

	env := testutil.NewTestEnv()
	helper := env.Setup(t)
	t.Cleanup(func() { env.Cleanup(t, helper) })

	if err := mongoMigration.RunMigration(context.Background(), helper.Client, helper.DBName); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	return repository.NewMongoReviewRepository(helper.Config(t))
}

func TestCreateReview_UniquePerAuthor(t *testing.T) {
	repo := setupReviewRepo(t)
	ctx := context.Background()

	first := testutil.FixtureReview(testutil.FixtureListingID, "guest-1", 5)
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("failed to create review: %v", err)
	}

	second := testutil.FixtureReview(testutil.FixtureListingID, "guest-1", 3)
	if err := repo.Create(ctx, second); !errors.Is(err, listingserrors.ErrDuplicateReview) {
		t.Errorf("expected ErrDuplicateReview, got %v", err)
	}

	other := testutil.FixtureReview(testutil.FixtureListingID, "guest-2", 4)
	if err := repo.Create(ctx, other); err != nil {
		t.Errorf("a different author must be able to review: %v", err)
	}
}

func TestSummarize_AveragesRatings(t *testing.T) {
	repo := setupReviewRepo(t)
	ctx := context.Background()

	for i, rating := range []int{5, 4, 4} {
		review := testutil.FixtureReview(testutil.FixtureListingID, "guest-"+string(rune('a'+i)), rating)
		if err := repo.Create(ctx, review); err != nil {
			t.Fatalf("failed to create review: %v", err)
		}
	}

	summary, err := repo.Summarize(ctx, testutil.FixtureListingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Count != 3 {
		t.Errorf("expected 3 reviews, got %d", summary.Count)
	}
	if math.Abs(summary.Average-13.0/3.0) > 1e-9 {
		t.Errorf("unexpected average: %f", summary.Average)
	}
}

func TestSummarize_EmptyListing(t *testing.T) {
	repo := setupReviewRepo(t)

	summary, err := repo.Summarize(context.Background(), testutil.FixtureListingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Count != 0 || summary.Average != 0 {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}
