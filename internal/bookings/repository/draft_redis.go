package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bookingserrors "apnastay/internal/bookings/errors"
	"apnastay/pkg/config"
	"apnastay/pkg/model"

	"github.com/redis/go-redis/v9"
)

const draftKeyPrefix = "booking:draft:"

// DraftRepository stores booking drafts in redis under a TTL. Expiry is the
// store's job; callers never see a stale draft.
type DraftRepository interface {
	Save(ctx context.Context, draft *model.BookingDraft) error
	Find(ctx context.Context, id string) (*model.BookingDraft, error)
	Delete(ctx context.Context, id string) error
}

type redisDraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftRepository(cfg *config.Config) DraftRepository {
	return &redisDraftRepository{
		client: cfg.Client.Redis,
		ttl:    cfg.DraftTTL,
	}
}

func draftKey(id string) string {
	return draftKeyPrefix + id
}

// Save writes the draft with a fresh TTL, so updating it at checkout also
// extends the session.
func (r *redisDraftRepository) Save(ctx context.Context, draft *model.BookingDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode booking draft: %w", err)
	}

	if err := r.client.Set(ctx, draftKey(draft.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store booking draft: %w", err)
	}

	return nil
}

func (r *redisDraftRepository) Find(ctx context.Context, id string) (*model.BookingDraft, error) {
	data, err := r.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, bookingserrors.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to load booking draft: %w", err)
	}

	var draft model.BookingDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode booking draft: %w", err)
	}

	return &draft, nil
}

func (r *redisDraftRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete booking draft: %w", err)
	}
	return nil
}
