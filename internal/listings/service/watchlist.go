package service

import (
	"context"
	"errors"

	listingserrors "apnastay/internal/listings/errors"
	"apnastay/internal/listings/repository"
	"apnastay/pkg/config"
	apperrors "apnastay/pkg/errors"
	"apnastay/pkg/model"
	"apnastay/pkg/sanitizer"
)

// DefaultWatchlistName is used when a save request names no watchlist.
const DefaultWatchlistName = "My Watchlist"

type WatchlistService interface {
	AddListing(ctx context.Context, userID, name, listingID string) (*model.Watchlist, error)
	GetWatchlists(ctx context.Context, userID string) ([]*model.Watchlist, error)
	RemoveListing(ctx context.Context, userID, name, listingID string) error
}

type watchlistService struct {
	repo     repository.WatchlistRepository
	listings repository.ListingRepository
	cfg      *config.Config
}

func NewWatchlistService(
	cfg *config.Config,
	repo repository.WatchlistRepository,
	listings repository.ListingRepository,
) WatchlistService {
	return &watchlistService{
		repo:     repo,
		listings: listings,
		cfg:      cfg,
	}
}

func (s *watchlistService) AddListing(ctx context.Context, userID, name, listingID string) (*model.Watchlist, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Acting user is required")
	}

	name = sanitizer.CollapseWhitespace(name)
	if name == "" {
		name = DefaultWatchlistName
	}
	if len(name) > 100 {
		return nil, apperrors.InvalidInput("Watchlist name must be at most 100 characters")
	}

	if _, err := s.listings.FindByID(ctx, listingID); err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", listingID)
		}
		if errors.Is(err, listingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid listing ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve listing", err)
	}

	watchlist, err := s.repo.AddListing(ctx, userID, name, listingID)
	if err != nil {
		s.cfg.Log.Error("Failed to save listing to watchlist",
			"user_id", userID,
			"listing_id", listingID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to save listing to watchlist", err)
	}

	s.cfg.Log.Info("Listing saved to watchlist",
		"user_id", userID,
		"watchlist", name,
		"listing_id", listingID,
	)
	return watchlist, nil
}

func (s *watchlistService) GetWatchlists(ctx context.Context, userID string) ([]*model.Watchlist, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Acting user is required")
	}

	watchlists, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to load watchlists", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve watchlists", err)
	}

	return watchlists, nil
}

// RemoveListing pulls a listing from one named watchlist, or from every
// watchlist when no name is given. Watchlists emptied by the removal are
// deleted.
func (s *watchlistService) RemoveListing(ctx context.Context, userID, name, listingID string) error {
	if userID == "" {
		return apperrors.Unauthorized("Acting user is required")
	}

	name = sanitizer.CollapseWhitespace(name)

	var err error
	if name == "" {
		_, err = s.repo.RemoveListingEverywhere(ctx, userID, listingID)
	} else {
		_, err = s.repo.RemoveListing(ctx, userID, name, listingID)
	}
	if err != nil {
		if errors.Is(err, listingserrors.ErrWatchlistNotFound) {
			return apperrors.NotFound("Watchlist")
		}
		s.cfg.Log.Error("Failed to remove listing from watchlist",
			"user_id", userID,
			"listing_id", listingID,
			"error", err,
		)
		return apperrors.Internal("Failed to remove listing from watchlist", err)
	}

	if _, err := s.repo.DeleteEmpty(ctx, userID); err != nil {
		s.cfg.Log.Warn("Failed to prune empty watchlists", "user_id", userID, "error", err)
	}

	s.cfg.Log.Info("Listing removed from watchlist",
		"user_id", userID,
		"watchlist", name,
		"listing_id", listingID,
	)
	return nil
}
