package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	socialerrors "apnastay/internal/social/errors"
	"apnastay/pkg/config"
	"apnastay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ConnectionCollection = "Connections"
)

type ConnectionRepository interface {
	Create(ctx context.Context, connection *model.Connection) error
	FindByID(ctx context.Context, id string) (*model.Connection, error)
	FindByPair(ctx context.Context, pairKey string) (*model.Connection, error)
	FindPendingReceived(ctx context.Context, userID string) ([]*model.Connection, error)
	FindPendingSent(ctx context.Context, userID string) ([]*model.Connection, error)
	FindAccepted(ctx context.Context, userID string) ([]*model.Connection, error)
	SetStatus(ctx context.Context, id string, status model.ConnectionStatus) error
}

type mongoConnectionRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoConnectionRepository(cfg *config.Config) ConnectionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoConnectionRepository{
		cfg:        cfg,
		collection: db.Collection(ConnectionCollection),
	}
}

func (r *mongoConnectionRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

// Create relies on the unique pair_key index so a second request between
// the same two users fails regardless of direction.
func (r *mongoConnectionRepository) Create(ctx context.Context, connection *model.Connection) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	connection.PairKey = model.PairKeyFor(connection.RequesterID, connection.RecipientID)
	connection.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, connection)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return socialerrors.ErrDuplicatePair
		}
		return fmt.Errorf("failed to create connection: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		connection.ID = oid.Hex()
	}
	return nil
}

func (r *mongoConnectionRepository) FindByID(ctx context.Context, id string) (*model.Connection, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", socialerrors.ErrInvalidID, id)
	}

	var connection model.Connection
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&connection)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, socialerrors.ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to find connection: %w", err)
	}

	return &connection, nil
}

func (r *mongoConnectionRepository) FindByPair(ctx context.Context, pairKey string) (*model.Connection, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var connection model.Connection
	err := r.collection.FindOne(ctx, bson.M{"pair_key": pairKey}).Decode(&connection)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, socialerrors.ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to find connection by pair: %w", err)
	}

	return &connection, nil
}

func (r *mongoConnectionRepository) FindPendingReceived(ctx context.Context, userID string) ([]*model.Connection, error) {
	return r.find(ctx, bson.M{"recipient_id": userID, "status": model.ConnectionPending})
}

func (r *mongoConnectionRepository) FindPendingSent(ctx context.Context, userID string) ([]*model.Connection, error) {
	return r.find(ctx, bson.M{"requester_id": userID, "status": model.ConnectionPending})
}

func (r *mongoConnectionRepository) FindAccepted(ctx context.Context, userID string) ([]*model.Connection, error) {
	return r.find(ctx, bson.M{
		"status": model.ConnectionAccepted,
		"$or": []bson.M{
			{"requester_id": userID},
			{"recipient_id": userID},
		},
	})
}

func (r *mongoConnectionRepository) find(ctx context.Context, filter bson.M) ([]*model.Connection, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find connections: %w", err)
	}
	defer cursor.Close(ctx)

	var connections []*model.Connection
	if err = cursor.All(ctx, &connections); err != nil {
		return nil, fmt.Errorf("failed to decode connections: %w", err)
	}

	return connections, nil
}

func (r *mongoConnectionRepository) SetStatus(ctx context.Context, id string, status model.ConnectionStatus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", socialerrors.ErrInvalidID, id)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status, "responded_at": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to update connection status: %w", err)
	}
	if result.MatchedCount == 0 {
		return socialerrors.ErrConnectionNotFound
	}

	return nil
}
