package service

import (
	"context"
	"errors"
	"testing"
	"time"

	socialerrors "apnastay/internal/social/errors"
	"apnastay/pkg/config"
	apperrors "apnastay/pkg/errors"
	"apnastay/pkg/logger"
	"apnastay/pkg/model"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockConnectionRepository struct {
	createFunc              func(ctx context.Context, connection *model.Connection) error
	findByIDFunc            func(ctx context.Context, id string) (*model.Connection, error)
	findPendingReceivedFunc func(ctx context.Context, userID string) ([]*model.Connection, error)
	findPendingSentFunc     func(ctx context.Context, userID string) ([]*model.Connection, error)
	findAcceptedFunc        func(ctx context.Context, userID string) ([]*model.Connection, error)
	setStatusFunc           func(ctx context.Context, id string, status model.ConnectionStatus) error
}

func (m *mockConnectionRepository) Create(ctx context.Context, connection *model.Connection) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, connection)
	}
	connection.ID = "64f400000000000000000001"
	connection.PairKey = model.PairKeyFor(connection.RequesterID, connection.RecipientID)
	return nil
}

func (m *mockConnectionRepository) FindByID(ctx context.Context, id string) (*model.Connection, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, socialerrors.ErrConnectionNotFound
}

func (m *mockConnectionRepository) FindByPair(ctx context.Context, pairKey string) (*model.Connection, error) {
	return nil, socialerrors.ErrConnectionNotFound
}

func (m *mockConnectionRepository) FindPendingReceived(ctx context.Context, userID string) ([]*model.Connection, error) {
	if m.findPendingReceivedFunc != nil {
		return m.findPendingReceivedFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockConnectionRepository) FindPendingSent(ctx context.Context, userID string) ([]*model.Connection, error) {
	if m.findPendingSentFunc != nil {
		return m.findPendingSentFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockConnectionRepository) FindAccepted(ctx context.Context, userID string) ([]*model.Connection, error) {
	if m.findAcceptedFunc != nil {
		return m.findAcceptedFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockConnectionRepository) SetStatus(ctx context.Context, id string, status model.ConnectionStatus) error {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, id, status)
	}
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Log:         logger.New(logger.Config{Level: "error", Format: "text", Service: "test"}),
		ReadTimeout: 5 * time.Second,
	}
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

const testConnectionID = "64f400000000000000000001"

func pendingConnection() *model.Connection {
	return &model.Connection{
		ID:          testConnectionID,
		RequesterID: "alice",
		RecipientID: "bob",
		PairKey:     model.PairKeyFor("alice", "bob"),
		Status:      model.ConnectionPending,
	}
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestSendRequest_CreatesPending(t *testing.T) {
	repo := &mockConnectionRepository{}
	svc := NewConnectionService(testConfig(t), repo)

	connection, err := svc.SendRequest(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if connection.Status != model.ConnectionPending {
		t.Errorf("expected pending, got %s", connection.Status)
	}
	if connection.PairKey != "alice:bob" {
		t.Errorf("unexpected pair key: %q", connection.PairKey)
	}
}

func TestSendRequest_SelfRejected(t *testing.T) {
	svc := NewConnectionService(testConfig(t), &mockConnectionRepository{})
	_, err := svc.SendRequest(context.Background(), "alice", "alice")
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestSendRequest_DuplicateEitherDirection(t *testing.T) {
	repo := &mockConnectionRepository{}
	repo.createFunc = func(ctx context.Context, connection *model.Connection) error {
		return socialerrors.ErrDuplicatePair
	}
	svc := NewConnectionService(testConfig(t), repo)

	_, err := svc.SendRequest(context.Background(), "bob", "alice")
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestRespond_RecipientAccepts(t *testing.T) {
	repo := &mockConnectionRepository{}
	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Connection, error) {
		return pendingConnection(), nil
	}
	var setTo model.ConnectionStatus
	repo.setStatusFunc = func(ctx context.Context, id string, status model.ConnectionStatus) error {
		setTo = status
		return nil
	}

	svc := NewConnectionService(testConfig(t), repo)
	connection, err := svc.Respond(context.Background(), "bob", testConnectionID, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if setTo != model.ConnectionAccepted || connection.Status != model.ConnectionAccepted {
		t.Errorf("expected accepted, wrote %s returned %s", setTo, connection.Status)
	}
}

func TestRespond_RequesterCannotAnswer(t *testing.T) {
	repo := &mockConnectionRepository{}
	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Connection, error) {
		return pendingConnection(), nil
	}

	svc := NewConnectionService(testConfig(t), repo)
	_, err := svc.Respond(context.Background(), "alice", testConnectionID, true)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestRespond_AlreadyAnswered(t *testing.T) {
	repo := &mockConnectionRepository{}
	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Connection, error) {
		c := pendingConnection()
		c.Status = model.ConnectionAccepted
		return c, nil
	}

	svc := NewConnectionService(testConfig(t), repo)
	_, err := svc.Respond(context.Background(), "bob", testConnectionID, false)
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestListPending_SplitsDirections(t *testing.T) {
	repo := &mockConnectionRepository{}
	repo.findPendingReceivedFunc = func(ctx context.Context, userID string) ([]*model.Connection, error) {
		return []*model.Connection{pendingConnection()}, nil
	}
	repo.findPendingSentFunc = func(ctx context.Context, userID string) ([]*model.Connection, error) {
		return nil, nil
	}

	svc := NewConnectionService(testConfig(t), repo)
	pending, err := svc.ListPending(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending.Received) != 1 || len(pending.Sent) != 0 {
		t.Errorf("unexpected split: received=%d sent=%d", len(pending.Received), len(pending.Sent))
	}
}
