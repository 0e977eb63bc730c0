package service

import (
	"context"
	"errors"
	"sync"

	listingserrors "apnastay/internal/listings/errors"
	"apnastay/internal/listings/repository"
	"apnastay/internal/listings/validator"
	"apnastay/pkg/config"
	apperrors "apnastay/pkg/errors"
	"apnastay/pkg/locale"
	"apnastay/pkg/model"
	"apnastay/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Geocoder resolves a free-text address to a GeoJSON point, degrading to a
// default coordinate rather than failing.
type Geocoder interface {
	Forward(ctx context.Context, location, country string) model.Geometry
}

type ListingService interface {
	Create(ctx context.Context, owner model.UserRef, listing *model.Listing) error
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	GetAll(ctx context.Context, category string, limit int, offset int64) ([]*model.Listing, int64, error)
	Update(ctx context.Context, actorID, id string, update *model.ListingUpdate) (*model.Listing, error)
	Delete(ctx context.Context, actorID, id string) error
	Search(ctx context.Context, term string, limit int, offset int64) ([]*model.Listing, int64, error)
}

type listingService struct {
	repo      repository.ListingRepository
	reviews   repository.ReviewRepository
	geocoder  Geocoder
	validator *validator.ListingValidator
	cfg       *config.Config
}

func NewListingService(
	cfg *config.Config,
	repo repository.ListingRepository,
	reviews repository.ReviewRepository,
	geocoder Geocoder,
	validator *validator.ListingValidator,
) ListingService {
	return &listingService{
		repo:      repo,
		reviews:   reviews,
		geocoder:  geocoder,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *listingService) Create(ctx context.Context, owner model.UserRef, listing *model.Listing) error {
	if owner.ID == "" {
		return apperrors.Unauthorized("Acting user is required")
	}

	listing.Title = sanitizer.SanitizeTitle(listing.Title)
	listing.Location = sanitizer.SanitizeLocation(listing.Location)
	listing.Country = locale.CanonicalCountry(sanitizer.SanitizeCountry(listing.Country))
	if listing.Image.URL != "" {
		listing.Image.URL = sanitizer.SanitizeImageURL(listing.Image.URL)
	}
	if listing.Category == "" {
		listing.Category = model.DefaultCategory
	}
	listing.Owner = owner
	listing.OriginalCategory = ""

	if err := s.validator.ValidateListing(listing); err != nil {
		s.cfg.Log.Warn("Listing validation failed", "error", err)
		return apperrors.Validation("Invalid listing", map[string]any{"error": err.Error()})
	}

	listing.Geometry = s.geocoder.Forward(ctx, listing.Location, listing.Country)

	if err := s.repo.Create(ctx, listing); err != nil {
		s.cfg.Log.Error("Failed to create listing", "title", listing.Title, "error", err)
		return apperrors.Internal("Failed to create listing", err)
	}

	s.cfg.Log.Info("Listing created",
		"listing_id", listing.ID,
		"owner_id", owner.ID,
		"location", listing.Location,
	)
	return nil
}

func (s *listingService) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	return s.getListing(ctx, id)
}

func (s *listingService) GetAll(ctx context.Context, category string, limit int, offset int64) ([]*model.Listing, int64, error) {
	var total int64
	var listings []*model.Listing
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.repo.Count(ctx, category)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count listings", "error", errCount)
			errCount = apperrors.Internal("Failed to count listings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		listings, errFind = s.repo.FindAll(ctx, category, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list listings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve listings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return listings, total, nil
}

func (s *listingService) Update(ctx context.Context, actorID, id string, update *model.ListingUpdate) (*model.Listing, error) {
	listing, err := s.getListing(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.Owner.ID != actorID {
		return nil, apperrors.Forbidden("Only the owner can edit this listing")
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Listing update validation failed", "listing_id", id, "error", err)
		return nil, apperrors.Validation("Invalid listing update", map[string]any{"error": err.Error()})
	}

	fields := bson.M{}
	if update.Title != "" {
		listing.Title = sanitizer.SanitizeTitle(update.Title)
		fields["title"] = listing.Title
	}
	if update.Description != "" {
		listing.Description = update.Description
		fields["description"] = listing.Description
	}
	if update.Image != nil {
		img := *update.Image
		if img.URL != "" {
			img.URL = sanitizer.SanitizeImageURL(img.URL)
		}
		listing.Image = img
		fields["image"] = listing.Image
	}
	if update.Price != nil {
		listing.Price = *update.Price
		fields["price"] = listing.Price
	}
	if update.TotalRooms != nil {
		listing.TotalRooms = *update.TotalRooms
		fields["total_rooms"] = listing.TotalRooms
	}
	if update.Category != "" {
		// Direct category edits drop any trending promotion.
		listing.Category = update.Category
		listing.OriginalCategory = ""
		fields["category"] = listing.Category
		fields["original_category"] = ""
	}

	locationChanged := false
	if update.Location != "" {
		listing.Location = sanitizer.SanitizeLocation(update.Location)
		fields["location"] = listing.Location
		locationChanged = true
	}
	if update.Country != "" {
		listing.Country = locale.CanonicalCountry(sanitizer.SanitizeCountry(update.Country))
		fields["country"] = listing.Country
		locationChanged = true
	}
	if locationChanged {
		listing.Geometry = s.geocoder.Forward(ctx, listing.Location, listing.Country)
		fields["geometry"] = listing.Geometry
	}

	if len(fields) == 0 {
		return listing, nil
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", id)
		}
		s.cfg.Log.Error("Failed to update listing", "listing_id", id, "error", err)
		return nil, apperrors.Internal("Failed to update listing", err)
	}

	s.cfg.Log.Info("Listing updated", "listing_id", id, "fields", len(fields))
	return listing, nil
}

// Delete removes the listing and its reviews in one transaction so a listing
// can never vanish while its reviews linger.
func (s *listingService) Delete(ctx context.Context, actorID, id string) error {
	listing, err := s.getListing(ctx, id)
	if err != nil {
		return err
	}

	if listing.Owner.ID != actorID {
		return apperrors.Forbidden("Only the owner can delete this listing")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			return err
		}
		deleted, err := s.reviews.DeleteByListing(sessCtx, id)
		if err != nil {
			return err
		}
		s.cfg.Log.Info("Cascaded review deletion", "listing_id", id, "reviews_deleted", deleted)
		return nil
	})
	if err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Listing", id)
		}
		s.cfg.Log.Error("Failed to delete listing", "listing_id", id, "error", err)
		return apperrors.Internal("Failed to delete listing", err)
	}

	s.cfg.Log.Info("Listing deleted", "listing_id", id, "owner_id", actorID)
	return nil
}

func (s *listingService) Search(ctx context.Context, term string, limit int, offset int64) ([]*model.Listing, int64, error) {
	term = sanitizer.CollapseWhitespace(term)
	if term == "" {
		return nil, 0, apperrors.InvalidInput("Search term cannot be empty")
	}

	pattern := sanitizer.SanitizeSearchTerm(term)

	var total int64
	var listings []*model.Listing
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.repo.CountSearch(ctx, pattern)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count search results", "term", term, "error", errCount)
			errCount = apperrors.Internal("Failed to count search results", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		listings, errFind = s.repo.Search(ctx, pattern, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to search listings", "term", term, "error", errFind)
			errFind = apperrors.Internal("Failed to search listings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return listings, total, nil
}

func (s *listingService) getListing(ctx context.Context, id string) (*model.Listing, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Listing ID cannot be empty")
	}

	listing, err := s.repo.FindByID(ctx, id)
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
