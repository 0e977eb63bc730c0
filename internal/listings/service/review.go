package service

import (
	"context"
	"errors"
	"math"

	listingserrors "apnastay/internal/listings/errors"
	"apnastay/internal/listings/repository"
	"apnastay/internal/listings/validator"
	"apnastay/pkg/config"
	apperrors "apnastay/pkg/errors"
	"apnastay/pkg/model"
	"apnastay/pkg/sanitizer"
)

// TrendingThreshold is the average rating at which a listing is promoted
// into the Trending category.
const TrendingThreshold = 4.0

type ReviewPage struct {
	Reviews       []*model.Review `json:"reviews"`
	TotalCount    int64           `json:"total_count"`
	AverageRating float64         `json:"average_rating"`
}

type ReviewService interface {
	CreateReview(ctx context.Context, author model.UserRef, review *model.Review) error
	UpdateReview(ctx context.Context, actorID, reviewID string, rating int, comment string) (*model.Review, error)
	DeleteReview(ctx context.Context, actorID, reviewID string) error
	ListReviews(ctx context.Context, listingID string, limit int, offset int64) (*ReviewPage, error)
	UpdateTrendingStatus(ctx context.Context, listingID string) error
}

type reviewService struct {
	repo      repository.ReviewRepository
	listings  repository.ListingRepository
	validator *validator.ListingValidator
	cfg       *config.Config
}

func NewReviewService(
	cfg *config.Config,
	repo repository.ReviewRepository,
	listings repository.ListingRepository,
	validator *validator.ListingValidator,
) ReviewService {
	return &reviewService{
		repo:      repo,
		listings:  listings,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, author model.UserRef, review *model.Review) error {
	if author.ID == "" {
		return apperrors.Unauthorized("Acting user is required")
	}

	listing, err := s.getListing(ctx, review.ListingID)
	if err != nil {
		return err
	}

	if listing.Owner.ID == author.ID {
		return apperrors.Forbidden("You cannot review your own listing")
	}

	review.Author = author
	review.Comment = sanitizer.SanitizeComment(review.Comment)

	if err := s.validator.ValidateReview(review); err != nil {
		s.cfg.Log.Warn("Review validation failed", "listing_id", review.ListingID, "error", err)
		return apperrors.Validation("Invalid review", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, listingserrors.ErrDuplicateReview) {
			return apperrors.Conflict("You have already reviewed this listing")
		}
		s.cfg.Log.Error("Failed to create review", "listing_id", review.ListingID, "error", err)
		return apperrors.Internal("Failed to create review", err)
	}

	s.cfg.Log.Info("Review created",
		"review_id", review.ID,
		"listing_id", review.ListingID,
		"rating", review.Rating,
	)

	if err := s.UpdateTrendingStatus(ctx, review.ListingID); err != nil {
		s.cfg.Log.Warn("Trending reclassification failed", "listing_id", review.ListingID, "error", err)
	}
	return nil
}

func (s *reviewService) UpdateReview(ctx context.Context, actorID, reviewID string, rating int, comment string) (*model.Review, error) {
	review, err := s.getReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.Author.ID != actorID {
		return nil, apperrors.Forbidden("Only the author can edit this review")
	}

	review.Rating = rating
	review.Comment = sanitizer.SanitizeComment(comment)

	if err := s.validator.ValidateReview(review); err != nil {
		s.cfg.Log.Warn("Review validation failed", "review_id", reviewID, "error", err)
		return nil, apperrors.Validation("Invalid review", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, reviewID, review.Rating, review.Comment); err != nil {
		if errors.Is(err, listingserrors.ErrReviewNotFound) {
			return nil, apperrors.NotFoundWithID("Review", reviewID)
		}
		s.cfg.Log.Error("Failed to update review", "review_id", reviewID, "error", err)
		return nil, apperrors.Internal("Failed to update review", err)
	}

	s.cfg.Log.Info("Review updated", "review_id", reviewID, "rating", rating)

	if err := s.UpdateTrendingStatus(ctx, review.ListingID); err != nil {
		s.cfg.Log.Warn("Trending reclassification failed", "listing_id", review.ListingID, "error", err)
	}
	return review, nil
}

// DeleteReview allows the author or the listing owner to remove a review.
func (s *reviewService) DeleteReview(ctx context.Context, actorID, reviewID string) error {
	review, err := s.getReview(ctx, reviewID)
	if err != nil {
		return err
	}

	if review.Author.ID != actorID {
		listing, err := s.getListing(ctx, review.ListingID)
		if err != nil {
			return err
		}
		if listing.Owner.ID != actorID {
			return apperrors.Forbidden("Only the author or the listing owner can delete this review")
		}
	}

	if err := s.repo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, listingserrors.ErrReviewNotFound) {
			return apperrors.NotFoundWithID("Review", reviewID)
		}
		s.cfg.Log.Error("Failed to delete review", "review_id", reviewID, "error", err)
		return apperrors.Internal("Failed to delete review", err)
	}

	s.cfg.Log.Info("Review deleted", "review_id", reviewID, "actor_id", actorID)

	if err := s.UpdateTrendingStatus(ctx, review.ListingID); err != nil {
		s.cfg.Log.Warn("Trending reclassification failed", "listing_id", review.ListingID, "error", err)
	}
	return nil
}

func (s *reviewService) ListReviews(ctx context.Context, listingID string, limit int, offset int64) (*ReviewPage, error) {
	if _, err := s.getListing(ctx, listingID); err != nil {
		return nil, err
	}

	reviews, err := s.repo.FindByListing(ctx, listingID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list reviews", "listing_id", listingID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reviews", err)
	}

	summary, err := s.repo.Summarize(ctx, listingID)
	if err != nil {
		s.cfg.Log.Error("Failed to summarize reviews", "listing_id", listingID, "error", err)
		return nil, apperrors.Internal("Failed to summarize reviews", err)
	}

	return &ReviewPage{
		Reviews:       reviews,
		TotalCount:    summary.Count,
		AverageRating: roundRating(summary.Average),
	}, nil
}

// UpdateTrendingStatus reclassifies a listing after any review mutation.
// An average of TrendingThreshold or better promotes the listing into
// Trending, stashing its base category once. Dropping below the threshold,
// or losing the last review, reverts to the stashed category.
func (s *reviewService) UpdateTrendingStatus(ctx context.Context, listingID string) error {
	listing, err := s.getListing(ctx, listingID)
	if err != nil {
		return err
	}

	summary, err := s.repo.Summarize(ctx, listingID)
	if err != nil {
		return apperrors.Internal("Failed to summarize reviews", err)
	}

	qualifies := summary.Count > 0 && summary.Average >= TrendingThreshold

	switch {
	case qualifies && listing.Category != model.TrendingCategory:
		original := listing.Category
		if original == "" {
			original = model.DefaultCategory
		}
		if err := s.listings.SetCategory(ctx, listingID, model.TrendingCategory, original); err != nil {
			return apperrors.Internal("Failed to promote listing", err)
		}
		s.cfg.Log.Info("Listing promoted to trending",
			"listing_id", listingID,
			"average", roundRating(summary.Average),
			"reviews", summary.Count,
		)

	case !qualifies && listing.Category == model.TrendingCategory:
		restored := listing.OriginalCategory
		if restored == "" {
			restored = model.DefaultCategory
		}
		if err := s.listings.SetCategory(ctx, listingID, restored, ""); err != nil {
			return apperrors.Internal("Failed to demote listing", err)
		}
		s.cfg.Log.Info("Listing left trending",
			"listing_id", listingID,
			"restored_category", restored,
			"reviews", summary.Count,
		)
	}

	return nil
}

func (s *reviewService) getReview(ctx context.Context, id string) (*model.Review, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Review ID cannot be empty")
	}

	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, listingserrors.ErrReviewNotFound) {
			return nil, apperrors.NotFoundWithID("Review", id)
		}
		if errors.Is(err, listingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid review ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve review", err)
	}

	return review, nil
}

func (s *reviewService) getListing(ctx context.Context, id string) (*model.Listing, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Listing ID cannot be empty")
	}

	listing, err := s.listings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", id)
		}
		if errors.Is(err, listingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid listing ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve listing", err)
	}

	return listing, nil
}

func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
