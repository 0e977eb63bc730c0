package repository

import (
	"context"
	"fmt"
	"time"

	"apnastay/pkg/config"
	"apnastay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	MessageCollection      = "Messages"
	ConversationCollection = "Conversations"
)

type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	FindBetween(ctx context.Context, userA, userB string, limit int, offset int64) ([]*model.Message, error)
	MarkRead(ctx context.Context, receiverID, senderID string) (int64, error)
	UpsertConversation(ctx context.Context, message *model.Message) error
	FindConversations(ctx context.Context, userID string) ([]*model.Conversation, error)
}

type mongoMessageRepository struct {
	cfg           *config.Config
	messages      *mongo.Collection
	conversations *mongo.Collection
}

func NewMongoMessageRepository(cfg *config.Config) MessageRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMessageRepository{
		cfg:           cfg,
		messages:      db.Collection(MessageCollection),
		conversations: db.Collection(ConversationCollection),
	}
}

func (r *mongoMessageRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoMessageRepository) Create(ctx context.Context, message *model.Message) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	message.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.messages.InsertOne(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		message.ID = oid.Hex()
	}
	return nil
}

func (r *mongoMessageRepository) FindBetween(ctx context.Context, userA, userB string, limit int, offset int64) ([]*model.Message, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"sender_id": userA, "receiver_id": userB},
		{"sender_id": userB, "receiver_id": userA},
	}}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []*model.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	return messages, nil
}

// MarkRead flags every unread message from sender to receiver as read.
func (r *mongoMessageRepository) MarkRead(ctx context.Context, receiverID, senderID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.messages.UpdateMany(ctx,
		bson.M{"receiver_id": receiverID, "sender_id": senderID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}

	return result.ModifiedCount, nil
}

// UpsertConversation bumps the thread summary for the message's pair. The
// pair key doubles as _id, so this is one write whether the thread exists
// or not.
func (r *mongoMessageRepository) UpsertConversation(ctx context.Context, message *model.Message) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	pairKey := model.PairKeyFor(message.SenderID, message.ReceiverID)
	participants := [2]string{message.SenderID, message.ReceiverID}
	if message.ReceiverID < message.SenderID {
		participants = [2]string{message.ReceiverID, message.SenderID}
	}

	update := bson.M{
		"$set": bson.M{
			"participants":    participants,
			"last_message_id": message.ID,
			"last_content":    message.Content,
			"updated_at":      message.CreatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.conversations.UpdateByID(ctx, pairKey, update, opts); err != nil {
		return fmt.Errorf("failed to upsert conversation: %w", err)
	}

	return nil
}

func (r *mongoMessageRepository) FindConversations(ctx context.Context, userID string) ([]*model.Conversation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.conversations.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find conversations: %w", err)
	}
	defer cursor.Close(ctx)

	var conversations []*model.Conversation
	if err = cursor.All(ctx, &conversations); err != nil {
		return nil, fmt.Errorf("failed to decode conversations: %w", err)
	}

	return conversations, nil
}
