package service

import (
	"context"
	"strings"

	"apnastay/internal/social/repository"
	"apnastay/pkg/config"
	apperrors "apnastay/pkg/errors"
	"apnastay/pkg/model"
)

type MessageService interface {
	Send(ctx context.Context, senderID, receiverID, content string) (*model.Message, error)
	Conversation(ctx context.Context, actorID, otherID string, limit int, offset int64) ([]*model.Message, error)
	Conversations(ctx context.Context, actorID string) ([]*model.Conversation, error)
}

type messageService struct {
	repo repository.MessageRepository
	cfg  *config.Config
}

func NewMessageService(cfg *config.Config, repo repository.MessageRepository) MessageService {
	return &messageService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *messageService) Send(ctx context.Context, senderID, receiverID, content string) (*model.Message, error) {
	if senderID == "" {
		return nil, apperrors.Unauthorized("Acting user is required")
	}
	if receiverID == "" {
		return nil, apperrors.InvalidInput("Receiver is required")
	}
	if receiverID == senderID {
		return nil, apperrors.InvalidInput("You cannot message yourself")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.InvalidInput("Message content cannot be empty")
	}
	if len(content) > 4000 {
		return nil, apperrors.InvalidInput("Message content must be at most 4000 characters")
	}

	message := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		s.cfg.Log.Error("Failed to store message",
			"sender_id", senderID,
			"receiver_id", receiverID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to send message", err)
	}

	// The thread summary is best-effort; the message itself is already
	// persisted and will appear in the conversation listing.
	if err := s.repo.UpsertConversation(ctx, message); err != nil {
		s.cfg.Log.Warn("Failed to bump conversation",
			"message_id", message.ID,
			"error", err,
		)
	}

	s.cfg.Log.Info("Message sent",
		"message_id", message.ID,
		"sender_id", senderID,
		"receiver_id", receiverID,
	)
	return message, nil
}

// Conversation returns the thread with another user and marks every unread
// message the actor received in it as read.
func (s *messageService) Conversation(ctx context.Context, actorID, otherID string, limit int, offset int64) ([]*model.Message, error) {
	if actorID == "" {
		return nil, apperrors.Unauthorized("Acting user is required")
	}
	if otherID == "" {
		return nil, apperrors.InvalidInput("Conversation partner is required")
	}

	messages, err := s.repo.FindBetween(ctx, actorID, otherID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to load conversation",
			"actor_id", actorID,
			"other_id", otherID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve conversation", err)
	}

	marked, err := s.repo.MarkRead(ctx, actorID, otherID)
	if err != nil {
		s.cfg.Log.Warn("Failed to mark messages read",
			"actor_id", actorID,
			"other_id", otherID,
			"error", err,
		)
	} else if marked > 0 {
		for _, m := range messages {
			if m.ReceiverID == actorID {
				m.Read = true
			}
		}
	}

	return messages, nil
}

func (s *messageService) Conversations(ctx context.Context, actorID string) ([]*model.Conversation, error) {
	if actorID == "" {
		return nil, apperrors.Unauthorized("Acting user is required")
	}

	conversations, err := s.repo.FindConversations(ctx, actorID)
	if err != nil {
		s.cfg.Log.Error("Failed to load conversations", "actor_id", actorID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve conversations", err)
	}

	return conversations, nil
}
