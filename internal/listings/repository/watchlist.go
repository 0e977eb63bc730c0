package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	listingserrors "apnastay/internal/listings/errors"
	"apnastay/pkg/config"
	"apnastay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	WatchlistCollection = "Watchlists"
)

type WatchlistRepository interface {
	FindByUser(ctx context.Context, userID string) ([]*model.Watchlist, error)
	FindByUserAndName(ctx context.Context, userID, name string) (*model.Watchlist, error)
	AddListing(ctx context.Context, userID, name, listingID string) (*model.Watchlist, error)
	RemoveListing(ctx context.Context, userID, name, listingID string) (int64, error)
	RemoveListingEverywhere(ctx context.Context, userID, listingID string) (int64, error)
	DeleteEmpty(ctx context.Context, userID string) (int64, error)
}

type mongoWatchlistRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoWatchlistRepository(cfg *config.Config) WatchlistRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoWatchlistRepository{
		cfg:        cfg,
		collection: db.Collection(WatchlistCollection),
	}
}

func (r *mongoWatchlistRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoWatchlistRepository) FindByUser(ctx context.Context, userID string) ([]*model.Watchlist, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find watchlists: %w", err)
	}
	defer cursor.Close(ctx)

	var watchlists []*model.Watchlist
	if err = cursor.All(ctx, &watchlists); err != nil {
		return nil, fmt.Errorf("failed to decode watchlists: %w", err)
	}

	return watchlists, nil
}

func (r *mongoWatchlistRepository) FindByUserAndName(ctx context.Context, userID, name string) (*model.Watchlist, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var watchlist model.Watchlist
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "name": name}).Decode(&watchlist)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, listingserrors.ErrWatchlistNotFound
		}
		return nil, fmt.Errorf("failed to find watchlist: %w", err)
	}

	return &watchlist, nil
}

// AddListing upserts the named watchlist and adds the listing without
// duplicating it. The unique (user_id, name) index makes concurrent upserts
// converge on one document.
func (r *mongoWatchlistRepository) AddListing(ctx context.Context, userID, name, listingID string) (*model.Watchlist, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	filter := bson.M{"user_id": userID, "name": name}
	update := bson.M{
		"$addToSet":    bson.M{"listing_ids": listingID},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "created_at": now},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var watchlist model.Watchlist
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&watchlist)
	if err != nil {
		return nil, fmt.Errorf("failed to add listing to watchlist: %w", err)
	}

	return &watchlist, nil
}

func (r *mongoWatchlistRepository) RemoveListing(ctx context.Context, userID, name, listingID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "name": name},
		bson.M{
			"$pull": bson.M{"listing_ids": listingID},
			"$set":  bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to remove listing from watchlist: %w", err)
	}
	if result.MatchedCount == 0 {
		return 0, listingserrors.ErrWatchlistNotFound
	}

	return result.ModifiedCount, nil
}

func (r *mongoWatchlistRepository) RemoveListingEverywhere(ctx context.Context, userID, listingID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "listing_ids": listingID},
		bson.M{
			"$pull": bson.M{"listing_ids": listingID},
			"$set":  bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to remove listing from watchlists: %w", err)
	}

	return result.ModifiedCount, nil
}

// DeleteEmpty drops watchlists left without listings after a removal.
func (r *mongoWatchlistRepository) DeleteEmpty(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{
		"user_id":     userID,
		"listing_ids": bson.M{"$size": 0},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete empty watchlists: %w", err)
	}

	return result.DeletedCount, nil
}
