package service

import (
	"context"
	"strings"
	"testing"

	apperrors "apnastay/pkg/errors"
	"apnastay/pkg/model"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockMessageRepository struct {
	createFunc             func(ctx context.Context, message *model.Message) error
	findBetweenFunc        func(ctx context.Context, userA, userB string, limit int, offset int64) ([]*model.Message, error)
	markReadFunc           func(ctx context.Context, receiverID, senderID string) (int64, error)
	upsertConversationFunc func(ctx context.Context, message *model.Message) error
	findConversationsFunc  func(ctx context.Context, userID string) ([]*model.Conversation, error)
}

func (m *mockMessageRepository) Create(ctx context.Context, message *model.Message) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, message)
	}
	message.ID = "64f500000000000000000001"
	return nil
}

func (m *mockMessageRepository) FindBetween(ctx context.Context, userA, userB string, limit int, offset int64) ([]*model.Message, error) {
	if m.findBetweenFunc != nil {
		return m.findBetweenFunc(ctx, userA, userB, limit, offset)
	}
	return nil, nil
}

func (m *mockMessageRepository) MarkRead(ctx context.Context, receiverID, senderID string) (int64, error) {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, receiverID, senderID)
	}
	return 0, nil
}

func (m *mockMessageRepository) UpsertConversation(ctx context.Context, message *model.Message) error {
	if m.upsertConversationFunc != nil {
		return m.upsertConversationFunc(ctx, message)
	}
	return nil
}

func (m *mockMessageRepository) FindConversations(ctx context.Context, userID string) ([]*model.Conversation, error) {
	if m.findConversationsFunc != nil {
		return m.findConversationsFunc(ctx, userID)
	}
	return nil, nil
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestSend_StoresMessageAndBumpsThread(t *testing.T) {
	repo := &mockMessageRepository{}
	var upserted *model.Message
	repo.upsertConversationFunc = func(ctx context.Context, message *model.Message) error {
		upserted = message
		return nil
	}

	svc := NewMessageService(testConfig(t), repo)
	message, err := svc.Send(context.Background(), "alice", "bob", "  See you at the cottage.  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if message.Content != "See you at the cottage." {
		t.Errorf("expected trimmed content, got %q", message.Content)
	}
	if message.Read {
		t.Error("new message must start unread")
	}
	if upserted == nil || upserted.ID != message.ID {
		t.Error("expected conversation upsert with the stored message")
	}
}

func TestSend_ConversationUpsertFailureIsNotFatal(t *testing.T) {
	repo := &mockMessageRepository{}
	repo.upsertConversationFunc = func(ctx context.Context, message *model.Message) error {
		return context.DeadlineExceeded
	}

	svc := NewMessageService(testConfig(t), repo)
	message, err := svc.Send(context.Background(), "alice", "bob", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if message.ID == "" {
		t.Error("expected stored message despite upsert failure")
	}
}

func TestSend_RejectsEmptyContent(t *testing.T) {
	svc := NewMessageService(testConfig(t), &mockMessageRepository{})

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.Send(context.Background(), "alice", "bob", content)
		assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
	}
}

func TestSend_RejectsOversizedContent(t *testing.T) {
	svc := NewMessageService(testConfig(t), &mockMessageRepository{})
	_, err := svc.Send(context.Background(), "alice", "bob", strings.Repeat("x", 4001))
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestSend_RejectsSelfMessage(t *testing.T) {
	svc := NewMessageService(testConfig(t), &mockMessageRepository{})
	_, err := svc.Send(context.Background(), "alice", "alice", "hi me")
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestConversation_MarksReceivedRead(t *testing.T) {
	repo := &mockMessageRepository{}
	repo.findBetweenFunc = func(ctx context.Context, userA, userB string, limit int, offset int64) ([]*model.Message, error) {
		return []*model.Message{
			{ID: "m1", SenderID: "bob", ReceiverID: "alice"},
			{ID: "m2", SenderID: "alice", ReceiverID: "bob"},
		}, nil
	}
	var markedReceiver, markedSender string
	repo.markReadFunc = func(ctx context.Context, receiverID, senderID string) (int64, error) {
		markedReceiver, markedSender = receiverID, senderID
		return 1, nil
	}

	svc := NewMessageService(testConfig(t), repo)
	messages, err := svc.Conversation(context.Background(), "alice", "bob", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if markedReceiver != "alice" || markedSender != "bob" {
		t.Errorf("marked wrong direction: receiver=%q sender=%q", markedReceiver, markedSender)
	}
	if !messages[0].Read {
		t.Error("received message should be flagged read")
	}
	if messages[1].Read {
		t.Error("sent message must stay untouched")
	}
}

func TestConversation_MarkReadFailureStillReturnsThread(t *testing.T) {
	repo := &mockMessageRepository{}
	repo.findBetweenFunc = func(ctx context.Context, userA, userB string, limit int, offset int64) ([]*model.Message, error) {
		return []*model.Message{{ID: "m1", SenderID: "bob", ReceiverID: "alice"}}, nil
	}
	repo.markReadFunc = func(ctx context.Context, receiverID, senderID string) (int64, error) {
		return 0, context.DeadlineExceeded
	}

	svc := NewMessageService(testConfig(t), repo)
	messages, err := svc.Conversation(context.Background(), "alice", "bob", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 1 || messages[0].Read {
		t.Errorf("expected one unread message, got %+v", messages)
	}
}

func TestConversations_RequiresActor(t *testing.T) {
	svc := NewMessageService(testConfig(t), &mockMessageRepository{})
	_, err := svc.Conversations(context.Background(), "")
	assertAppErrorCode(t, err, apperrors.CodeUnauthorized)
}
