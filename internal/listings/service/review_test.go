package service

import (
	"context"
	"testing"

	listingserrors "apnastay/internal/listings/errors"
	"apnastay/internal/listings/validator"
	apperrors "apnastay/pkg/errors"
	"apnastay/pkg/model"
)

const (
	testReviewID = "64f300000000000000000001"
	testAuthorID = "guest-1"
)

func storedReview() *model.Review {
	return &model.Review{
		ID:        testReviewID,
		ListingID: testListingID,
		Author:    model.UserRef{ID: testAuthorID, Username: "asha", Email: "asha@example.com"},
		Rating:    5,
		Comment:   "Lovely stay",
	}
}

// trendingHarness keeps a listing's category state in memory so the
// reclassifier can be driven through promote/demote cycles.
type trendingHarness struct {
	listing *model.Listing
	summary model.RatingSummary
	svc     ReviewService
	reviews *mockReviewRepository
}

func newTrendingHarness(t *testing.T) *trendingHarness {
	t.Helper()

	h := &trendingHarness{listing: storedListing()}

	listings := &mockListingRepository{}
	listings.findByIDFunc = func(ctx context.Context, id string) (*model.Listing, error) {
		copy := *h.listing
		return &copy, nil
	}
	listings.setCategoryFunc = func(ctx context.Context, id, category, originalCategory string) error {
		h.listing.Category = category
		h.listing.OriginalCategory = originalCategory
		return nil
	}

	h.reviews = &mockReviewRepository{}
	h.reviews.summarizeFunc = func(ctx context.Context, listingID string) (*model.RatingSummary, error) {
		s := h.summary
		s.ListingID = listingID
		return &s, nil
	}

	cfg := testConfig(t)
	h.svc = NewReviewService(cfg, h.reviews, listings, validator.NewListingValidator(cfg.Log))
	return h
}

func TestUpdateTrendingStatus_RoundTrip(t *testing.T) {
	h := newTrendingHarness(t)

	// Promotion at the threshold.
	h.summary = model.RatingSummary{Count: 3, Average: 4.0}
	if err := h.svc.UpdateTrendingStatus(context.Background(), testListingID); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if h.listing.Category != model.TrendingCategory {
		t.Fatalf("expected Trending, got %q", h.listing.Category)
	}
	if h.listing.OriginalCategory != "Mountains" {
		t.Fatalf("expected original category stashed, got %q", h.listing.OriginalCategory)
	}

	// Still trending: must not overwrite the stashed category.
	h.summary = model.RatingSummary{Count: 4, Average: 4.5}
	if err := h.svc.UpdateTrendingStatus(context.Background(), testListingID); err != nil {
		t.Fatalf("steady: %v", err)
	}
	if h.listing.OriginalCategory != "Mountains" {
		t.Fatalf("stashed category overwritten: %q", h.listing.OriginalCategory)
	}

	// Demotion below the threshold restores the stash and clears it.
	h.summary = model.RatingSummary{Count: 5, Average: 3.9}
	if err := h.svc.UpdateTrendingStatus(context.Background(), testListingID); err != nil {
		t.Fatalf("demote: %v", err)
	}
	if h.listing.Category != "Mountains" {
		t.Errorf("expected Mountains restored, got %q", h.listing.Category)
	}
	if h.listing.OriginalCategory != "" {
		t.Errorf("expected stash cleared, got %q", h.listing.OriginalCategory)
	}
}

func TestUpdateTrendingStatus_ZeroReviewsResets(t *testing.T) {
	h := newTrendingHarness(t)
	h.listing.Category = model.TrendingCategory
	h.listing.OriginalCategory = "Castles"

	h.summary = model.RatingSummary{Count: 0, Average: 0}
	if err := h.svc.UpdateTrendingStatus(context.Background(), testListingID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.listing.Category != "Castles" {
		t.Errorf("expected Castles restored, got %q", h.listing.Category)
	}
	if h.listing.OriginalCategory != "" {
		t.Errorf("expected stash cleared, got %q", h.listing.OriginalCategory)
	}
}

func TestUpdateTrendingStatus_MissingStashFallsBackToDefault(t *testing.T) {
	h := newTrendingHarness(t)
	h.listing.Category = model.TrendingCategory
	h.listing.OriginalCategory = ""

	h.summary = model.RatingSummary{Count: 2, Average: 2.0}
	if err := h.svc.UpdateTrendingStatus(context.Background(), testListingID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.listing.Category != model.DefaultCategory {
		t.Errorf("expected %q, got %q", model.DefaultCategory, h.listing.Category)
	}
}

func TestUpdateTrendingStatus_BelowThresholdIsNoOp(t *testing.T) {
	h := newTrendingHarness(t)

	h.summary = model.RatingSummary{Count: 3, Average: 3.9}
	if err := h.svc.UpdateTrendingStatus(context.Background(), testListingID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.listing.Category != "Mountains" || h.listing.OriginalCategory != "" {
		t.Errorf("no-op expected, got category %q stash %q", h.listing.Category, h.listing.OriginalCategory)
	}
}

func TestCreateReview_OwnerRejected(t *testing.T) {
	h := newTrendingHarness(t)

	review := &model.Review{ListingID: testListingID, Rating: 5, Comment: "nice"}
	owner := model.UserRef{ID: testOwnerID, Username: "ravi", Email: "ravi@example.com"}

	err := h.svc.CreateReview(context.Background(), owner, review)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestCreateReview_DuplicateConflict(t *testing.T) {
	h := newTrendingHarness(t)
	h.reviews.createFunc = func(ctx context.Context, review *model.Review) error {
		return listingserrors.ErrDuplicateReview
	}

	review := &model.Review{ListingID: testListingID, Rating: 5, Comment: "nice"}
	author := model.UserRef{ID: testAuthorID, Username: "asha", Email: "asha@example.com"}

	err := h.svc.CreateReview(context.Background(), author, review)
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestCreateReview_TriggersReclassification(t *testing.T) {
	h := newTrendingHarness(t)
	h.summary = model.RatingSummary{Count: 1, Average: 5.0}

	review := &model.Review{ListingID: testListingID, Rating: 5, Comment: "Great place"}
	author := model.UserRef{ID: testAuthorID, Username: "asha", Email: "asha@example.com"}

	if err := h.svc.CreateReview(context.Background(), author, review); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.listing.Category != model.TrendingCategory {
		t.Errorf("expected promotion after review, got %q", h.listing.Category)
	}
}

func TestUpdateReview_AuthorOnly(t *testing.T) {
	h := newTrendingHarness(t)
	h.reviews.findByIDFunc = func(ctx context.Context, id string) (*model.Review, error) {
		return storedReview(), nil
	}

	_, err := h.svc.UpdateReview(context.Background(), "stranger", testReviewID, 1, "bad")
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestDeleteReview_ListingOwnerAllowed(t *testing.T) {
	h := newTrendingHarness(t)
	h.reviews.findByIDFunc = func(ctx context.Context, id string) (*model.Review, error) {
		return storedReview(), nil
	}
	deleted := false
	h.reviews.deleteFunc = func(ctx context.Context, id string) error {
		deleted = true
		return nil
	}

	if err := h.svc.DeleteReview(context.Background(), testOwnerID, testReviewID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected review deleted")
	}
}

func TestDeleteReview_StrangerForbidden(t *testing.T) {
	h := newTrendingHarness(t)
	h.reviews.findByIDFunc = func(ctx context.Context, id string) (*model.Review, error) {
		return storedReview(), nil
	}

	err := h.svc.DeleteReview(context.Background(), "stranger", testReviewID)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestListReviews_AverageAtOneDecimal(t *testing.T) {
	h := newTrendingHarness(t)
	h.summary = model.RatingSummary{Count: 3, Average: 4.333333}
	h.reviews.findByListingFunc = func(ctx context.Context, listingID string, limit int, offset int64) ([]*model.Review, error) {
		return []*model.Review{storedReview()}, nil
	}

	page, err := h.svc.ListReviews(context.Background(), testListingID, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.AverageRating != 4.3 {
		t.Errorf("expected 4.3, got %v", page.AverageRating)
	}
	if page.TotalCount != 3 {
		t.Errorf("expected total 3, got %d", page.TotalCount)
	}
}
