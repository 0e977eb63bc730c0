package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "apnastay/internal/bookings/errors"
	"apnastay/pkg/config"
	mongotx "apnastay/pkg/db/mongo"
	"apnastay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*model.Booking, error)
	FindOverlapping(ctx context.Context, listingID string, checkIn, checkOut time.Time) ([]*model.Booking, error)
	FindByGuest(ctx context.Context, guestID string, limit int, offset int64) ([]*model.Booking, error)
	CountByGuest(ctx context.Context, guestID string) (int64, error)
	FindByHost(ctx context.Context, hostID string, limit int, offset int64) ([]*model.Booking, error)
	CountByHost(ctx context.Context, hostID string) (int64, error)
	FindPastStays(ctx context.Context, guestID string, before time.Time) ([]*model.Booking, error)
	FindPastGuestsAtListings(ctx context.Context, listingIDs []string, excludeGuestID string, before time.Time, limit int) ([]*model.TravelBuddy, error)
	CancelWithVersion(ctx context.Context, id string, version int64) (bool, error)
	CancelWithToken(ctx context.Context, id, token string, now time.Time) (bool, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics, so
// inside a transaction the original context is returned with a no-op cancel.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByPaymentID(ctx context.Context, paymentID string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"payment_id": paymentID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking by payment id: %w", err)
	}

	return &booking, nil
}

// FindOverlapping returns capacity-holding bookings whose half-open stay
// [check_in, check_out) intersects the given range.
func (r *mongoBookingRepository) FindOverlapping(ctx context.Context, listingID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"listing_id": listingID,
		"status":     bson.M{"$in": []model.BookingStatus{model.BookingBooked, model.BookingPending}},
		"check_in":   bson.M{"$lt": checkOut},
		"check_out":  bson.M{"$gt": checkIn},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) FindByGuest(ctx context.Context, guestID string, limit int, offset int64) ([]*model.Booking, error) {
	return r.findByParticipant(ctx, bson.M{"guest.id": guestID}, limit, offset)
}

func (r *mongoBookingRepository) CountByGuest(ctx context.Context, guestID string) (int64, error) {
	return r.countByParticipant(ctx, bson.M{"guest.id": guestID})
}

func (r *mongoBookingRepository) FindByHost(ctx context.Context, hostID string, limit int, offset int64) ([]*model.Booking, error) {
	return r.findByParticipant(ctx, bson.M{"host.id": hostID}, limit, offset)
}

func (r *mongoBookingRepository) CountByHost(ctx context.Context, hostID string) (int64, error) {
	return r.countByParticipant(ctx, bson.M{"host.id": hostID})
}

func (r *mongoBookingRepository) findByParticipant(ctx context.Context, participant bson.M, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"status": bson.M{"$ne": model.BookingCancelled}}
	for k, v := range participant {
		filter[k] = v
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "check_in", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) countByParticipant(ctx context.Context, participant bson.M) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"status": bson.M{"$ne": model.BookingCancelled}}
	for k, v := range participant {
		filter[k] = v
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// FindPastStays returns the guest's completed stays: booked status with a
// check-out before the cutoff.
func (r *mongoBookingRepository) FindPastStays(ctx context.Context, guestID string, before time.Time) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"guest.id":  guestID,
		"status":    model.BookingBooked,
		"check_out": bson.M{"$lt": before},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find past stays: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode past stays: %w", err)
	}

	return bookings, nil
}

// FindPastGuestsAtListings groups completed stays at the given listings by
// guest, skipping the excluded guest, most shared stays first.
func (r *mongoBookingRepository) FindPastGuestsAtListings(ctx context.Context, listingIDs []string, excludeGuestID string, before time.Time, limit int) ([]*model.TravelBuddy, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"listing_id": bson.M{"$in": listingIDs},
			"guest.id":   bson.M{"$ne": excludeGuestID},
			"status":     model.BookingBooked,
			"check_out":  bson.M{"$lt": before},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$guest.id",
			"guest":        bson.M{"$first": "$guest"},
			"shared_stays": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "shared_stays", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to find travel buddies: %w", err)
	}
	defer cursor.Close(ctx)

	var buddies []*model.TravelBuddy
	if err = cursor.All(ctx, &buddies); err != nil {
		return nil, fmt.Errorf("failed to decode travel buddies: %w", err)
	}

	return buddies, nil
}

// CancelWithVersion flips the booking to cancelled only if the version still
// matches, clearing the cancel token in the same write. Returns false when a
// concurrent update won.
func (r *mongoBookingRepository) CancelWithVersion(ctx context.Context, id string, version int64) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":     objectID,
		"version": version,
		"status":  bson.M{"$ne": model.BookingCancelled},
	}
	update := bson.M{
		"$set":   bson.M{"status": model.BookingCancelled},
		"$unset": bson.M{"cancel_token": "", "cancel_token_expires": ""},
		"$inc":   bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to cancel booking: %w", err)
	}

	return result.ModifiedCount == 1, nil
}

// CancelWithToken consumes a secure-cancel token: the filter matches only a
// live token on a non-cancelled booking, and the single write both clears
// the token and persists the cancellation. A retry with the same token
// matches nothing.
func (r *mongoBookingRepository) CancelWithToken(ctx context.Context, id, token string, now time.Time) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":                  objectID,
		"cancel_token":         token,
		"cancel_token_expires": bson.M{"$gt": now},
		"status":               bson.M{"$ne": model.BookingCancelled},
	}
	update := bson.M{
		"$set":   bson.M{"status": model.BookingCancelled},
		"$unset": bson.M{"cancel_token": "", "cancel_token_expires": ""},
		"$inc":   bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to cancel booking with token: %w", err)
	}

	return result.ModifiedCount == 1, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
