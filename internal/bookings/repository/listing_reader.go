package repository

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "apnastay/internal/bookings/errors"
	"apnastay/pkg/config"
	"apnastay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListingReader gives the bookings service read access to listings. Writes
// stay with the listings service; this side only needs price, capacity and
// the owner's contact.
type ListingReader interface {
	FindByID(ctx context.Context, id string) (*model.Listing, error)
	SearchByLocation(ctx context.Context, pattern string, limit int, offset int64) ([]*model.Listing, error)
}

type mongoListingReader struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoListingReader(cfg *config.Config) ListingReader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoListingReader{
		cfg:        cfg,
		collection: db.Collection("Listings"),
	}
}

func (r *mongoListingReader) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrListingNotFound, id)
	}

	var listing model.Listing
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}

	return &listing, nil
}

// SearchByLocation matches listings whose location contains the pattern,
// case-insensitively. The caller escapes the pattern before it gets here.
func (r *mongoListingReader) SearchByLocation(ctx context.Context, pattern string, limit int, offset int64) ([]*model.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"location": bson.M{"$regex": pattern, "$options": "i"}}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []*model.Listing
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}

	return listings, nil
}
