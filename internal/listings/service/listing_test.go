package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	listingserrors "apnastay/internal/listings/errors"
	"apnastay/internal/listings/validator"
	"apnastay/pkg/config"
	mongotx "apnastay/pkg/db/mongo"
	apperrors "apnastay/pkg/errors"
	"apnastay/pkg/logger"
	"apnastay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockListingRepository struct {
	createFunc      func(ctx context.Context, listing *model.Listing) error
	findByIDFunc    func(ctx context.Context, id string) (*model.Listing, error)
	findAllFunc     func(ctx context.Context, category string, limit int, offset int64) ([]*model.Listing, error)
	countFunc       func(ctx context.Context, category string) (int64, error)
	updateFunc      func(ctx context.Context, id string, fields bson.M) error
	deleteFunc      func(ctx context.Context, id string) error
	searchFunc      func(ctx context.Context, pattern string, limit int, offset int64) ([]*model.Listing, error)
	countSearchFunc func(ctx context.Context, pattern string) (int64, error)
	setCategoryFunc func(ctx context.Context, id, category, originalCategory string) error
}

func (m *mockListingRepository) Create(ctx context.Context, listing *model.Listing) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, listing)
	}
	listing.ID = "64f100000000000000000001"
	return nil
}

func (m *mockListingRepository) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, listingserrors.ErrNotFound
}

func (m *mockListingRepository) FindAll(ctx context.Context, category string, limit int, offset int64) ([]*model.Listing, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, category, limit, offset)
	}
	return nil, nil
}

func (m *mockListingRepository) Count(ctx context.Context, category string) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, category)
	}
	return 0, nil
}

func (m *mockListingRepository) Update(ctx context.Context, id string, fields bson.M) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, fields)
	}
	return nil
}

func (m *mockListingRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockListingRepository) Search(ctx context.Context, pattern string, limit int, offset int64) ([]*model.Listing, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, pattern, limit, offset)
	}
	return nil, nil
}

func (m *mockListingRepository) CountSearch(ctx context.Context, pattern string) (int64, error) {
	if m.countSearchFunc != nil {
		return m.countSearchFunc(ctx, pattern)
	}
	return 0, nil
}

func (m *mockListingRepository) SetCategory(ctx context.Context, id, category, originalCategory string) error {
	if m.setCategoryFunc != nil {
		return m.setCategoryFunc(ctx, id, category, originalCategory)
	}
	return nil
}

func (m *mockListingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

type mockReviewRepository struct {
	createFunc          func(ctx context.Context, review *model.Review) error
	findByIDFunc        func(ctx context.Context, id string) (*model.Review, error)
	findByListingFunc   func(ctx context.Context, listingID string, limit int, offset int64) ([]*model.Review, error)
	updateFunc          func(ctx context.Context, id string, rating int, comment string) error
	deleteFunc          func(ctx context.Context, id string) error
	deleteByListingFunc func(ctx context.Context, listingID string) (int64, error)
	summarizeFunc       func(ctx context.Context, listingID string) (*model.RatingSummary, error)
}

func (m *mockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, review)
	}
	review.ID = "64f300000000000000000001"
	return nil
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, listingserrors.ErrReviewNotFound
}

func (m *mockReviewRepository) FindByListing(ctx context.Context, listingID string, limit int, offset int64) ([]*model.Review, error) {
	if m.findByListingFunc != nil {
		return m.findByListingFunc(ctx, listingID, limit, offset)
	}
	return nil, nil
}

func (m *mockReviewRepository) CountByListing(ctx context.Context, listingID string) (int64, error) {
	return 0, nil
}

func (m *mockReviewRepository) Update(ctx context.Context, id string, rating int, comment string) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, rating, comment)
	}
	return nil
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockReviewRepository) DeleteByListing(ctx context.Context, listingID string) (int64, error) {
	if m.deleteByListingFunc != nil {
		return m.deleteByListingFunc(ctx, listingID)
	}
	return 0, nil
}

func (m *mockReviewRepository) Summarize(ctx context.Context, listingID string) (*model.RatingSummary, error) {
	if m.summarizeFunc != nil {
		return m.summarizeFunc(ctx, listingID)
	}
	return &model.RatingSummary{ListingID: listingID}, nil
}

type stubGeocoder struct {
	geometry model.Geometry
	calls    int
}

func (g *stubGeocoder) Forward(ctx context.Context, location, country string) model.Geometry {
	g.calls++
	if g.geometry.Type != "" {
		return g.geometry
	}
	return model.Geometry{Type: "Point", Coordinates: []float64{77.2090, 28.6139}}
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

const (
	testListingID = "64f100000000000000000001"
	testOwnerID   = "host-1"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Log:         logger.New(logger.Config{Level: "error", Format: "text", Service: "test"}),
		ReadTimeout: 5 * time.Second,
	}
}

func storedListing() *model.Listing {
	return &model.Listing{
		ID:         testListingID,
		Title:      "Hilltop Cottage",
		Price:      1000,
		TotalRooms: 2,
		Location:   "Manali",
		Country:    "India",
		Category:   "Mountains",
		Geometry:   model.Geometry{Type: "Point", Coordinates: []float64{77.1734, 32.2396}},
		Owner:      model.UserRef{ID: testOwnerID, Username: "ravi", Email: "ravi@example.com"},
	}
}

func newListingService(t *testing.T, repo *mockListingRepository, reviews *mockReviewRepository, geo *stubGeocoder) ListingService {
	t.Helper()
	cfg := testConfig(t)
	return NewListingService(cfg, repo, reviews, geo, validator.NewListingValidator(cfg.Log))
}

func assertAppErrorCode(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestCreate_GeocodesAndSanitizes(t *testing.T) {
	repo := &mockListingRepository{}
	geo := &stubGeocoder{geometry: model.Geometry{Type: "Point", Coordinates: []float64{73.8567, 18.5204}}}
	svc := newListingService(t, repo, &mockReviewRepository{}, geo)

	listing := &model.Listing{
		Title:      "  Cosy   Flat ",
		Price:      500,
		TotalRooms: 1,
		Location:   " Pune ",
		Country:    " bharat ",
	}
	owner := model.UserRef{ID: testOwnerID, Username: "ravi", Email: "ravi@example.com"}

	if err := svc.Create(context.Background(), owner, listing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if listing.Title != "Cosy Flat" {
		t.Errorf("title not sanitized: %q", listing.Title)
	}
	if listing.Category != model.DefaultCategory {
		t.Errorf("expected default category, got %q", listing.Category)
	}
	if listing.Country != "India" {
		t.Errorf("country not canonicalized: %q", listing.Country)
	}
	if geo.calls != 1 {
		t.Errorf("expected one geocode call, got %d", geo.calls)
	}
	if listing.Geometry.Coordinates[0] != 73.8567 {
		t.Errorf("geometry not applied: %+v", listing.Geometry)
	}
	if listing.Owner.ID != testOwnerID {
		t.Errorf("owner not set: %+v", listing.Owner)
	}
}

func TestCreate_RejectsTrendingCategory(t *testing.T) {
	svc := newListingService(t, &mockListingRepository{}, &mockReviewRepository{}, &stubGeocoder{})

	listing := storedListing()
	listing.ID = ""
	listing.Category = model.TrendingCategory

	err := svc.Create(context.Background(), listing.Owner, listing)
	assertAppErrorCode(t, err, apperrors.CodeValidation)
}

func TestUpdate_RegeocodesOnLocationChange(t *testing.T) {
	repo := &mockListingRepository{}
	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Listing, error) {
		return storedListing(), nil
	}
	var updated bson.M
	repo.updateFunc = func(ctx context.Context, id string, fields bson.M) error {
		updated = fields
		return nil
	}

	geo := &stubGeocoder{geometry: model.Geometry{Type: "Point", Coordinates: []float64{73.8567, 18.5204}}}
	svc := newListingService(t, repo, &mockReviewRepository{}, geo)

	listing, err := svc.Update(context.Background(), testOwnerID, testListingID, &model.ListingUpdate{Location: "Pune"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if geo.calls != 1 {
		t.Errorf("expected re-geocode, got %d calls", geo.calls)
	}
	if _, ok := updated["geometry"]; !ok {
		t.Error("geometry not persisted")
	}
	if listing.Geometry.Coordinates[0] != 73.8567 {
		t.Errorf("geometry not applied: %+v", listing.Geometry)
	}
}

func TestUpdate_PriceOnlySkipsGeocode(t *testing.T) {
	repo := &mockListingRepository{}
	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Listing, error) {
		return storedListing(), nil
	}
	geo := &stubGeocoder{}
	svc := newListingService(t, repo, &mockReviewRepository{}, geo)

	price := int64(1500)
	if _, err := svc.Update(context.Background(), testOwnerID, testListingID, &model.ListingUpdate{Price: &price}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if geo.calls != 0 {
		t.Errorf("price edit must not geocode, got %d calls", geo.calls)
	}
}

func TestUpdate_NonOwnerForbidden(t *testing.T) {
	repo := &mockListingRepository{}
	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Listing, error) {
		return storedListing(), nil
	}
	svc := newListingService(t, repo, &mockReviewRepository{}, &stubGeocoder{})

	_, err := svc.Update(context.Background(), "stranger", testListingID, &model.ListingUpdate{Title: "Hacked"})
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestDelete_CascadesReviews(t *testing.T) {
	repo := &mockListingRepository{}
	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Listing, error) {
		return storedListing(), nil
	}
	deletedListing := false
	repo.deleteFunc = func(ctx context.Context, id string) error {
		deletedListing = true
		return nil
	}

	reviews := &mockReviewRepository{}
	deletedReviews := false
	reviews.deleteByListingFunc = func(ctx context.Context, listingID string) (int64, error) {
		if listingID != testListingID {
			t.Errorf("cascade hit wrong listing: %s", listingID)
		}
		deletedReviews = true
		return 3, nil
	}

	svc := newListingService(t, repo, reviews, &stubGeocoder{})
	if err := svc.Delete(context.Background(), testOwnerID, testListingID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !deletedListing || !deletedReviews {
		t.Errorf("cascade incomplete: listing=%v reviews=%v", deletedListing, deletedReviews)
	}
}

func TestSearch_EscapesRegexMetacharacters(t *testing.T) {
	repo := &mockListingRepository{}
	var gotPattern string
	repo.searchFunc = func(ctx context.Context, pattern string, limit int, offset int64) ([]*model.Listing, error) {
		gotPattern = pattern
		return []*model.Listing{storedListing()}, nil
	}
	repo.countSearchFunc = func(ctx context.Context, pattern string) (int64, error) {
		return 1, nil
	}

	svc := newListingService(t, repo, &mockReviewRepository{}, &stubGeocoder{})
	listings, total, err := svc.Search(context.Background(), "(a+)+$ villa", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(listings) != 1 {
		t.Errorf("expected one result, got %d of %d", len(listings), total)
	}

	if strings.Contains(gotPattern, "(a+)+$") {
		t.Errorf("metacharacters not escaped: %q", gotPattern)
	}
	if !strings.Contains(gotPattern, `\(a\+\)\+\$`) {
		t.Errorf("expected escaped pattern, got %q", gotPattern)
	}
}

func TestSearch_EmptyTermRejected(t *testing.T) {
	svc := newListingService(t, &mockListingRepository{}, &mockReviewRepository{}, &stubGeocoder{})
	_, _, err := svc.Search(context.Background(), "   ", 10, 0)
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}
