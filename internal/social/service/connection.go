package service

import (
	"context"
	"errors"
	"sync"

	socialerrors "apnastay/internal/social/errors"
	"apnastay/internal/social/repository"
	"apnastay/pkg/config"
	apperrors "apnastay/pkg/errors"
	"apnastay/pkg/model"
)

type PendingConnections struct {
	Received []*model.Connection `json:"received"`
	Sent     []*model.Connection `json:"sent"`
}

type ConnectionService interface {
	SendRequest(ctx context.Context, requesterID, recipientID string) (*model.Connection, error)
	ListPending(ctx context.Context, userID string) (*PendingConnections, error)
	ListAccepted(ctx context.Context, userID string) ([]*model.Connection, error)
	Respond(ctx context.Context, actorID, connectionID string, accept bool) (*model.Connection, error)
}

type connectionService struct {
	repo repository.ConnectionRepository
	cfg  *config.Config
}

func NewConnectionService(cfg *config.Config, repo repository.ConnectionRepository) ConnectionService {
	return &connectionService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *connectionService) SendRequest(ctx context.Context, requesterID, recipientID string) (*model.Connection, error) {
	if requesterID == "" {
		return nil, apperrors.Unauthorized("Acting user is required")
	}
	if recipientID == "" {
		return nil, apperrors.InvalidInput("Recipient is required")
	}
	if requesterID == recipientID {
		return nil, apperrors.InvalidInput("You cannot connect with yourself")
	}

	connection := &model.Connection{
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      model.ConnectionPending,
	}

	if err := s.repo.Create(ctx, connection); err != nil {
		if errors.Is(err, socialerrors.ErrDuplicatePair) {
			return nil, apperrors.Conflict("A connection between these users already exists")
		}
		s.cfg.Log.Error("Failed to create connection request",
			"requester_id", requesterID,
			"recipient_id", recipientID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create connection request", err)
	}

	s.cfg.Log.Info("Connection requested",
		"connection_id", connection.ID,
		"requester_id", requesterID,
		"recipient_id", recipientID,
	)
	return connection, nil
}

func (s *connectionService) ListPending(ctx context.Context, userID string) (*PendingConnections, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Acting user is required")
	}

	var received, sent []*model.Connection
	var errReceived, errSent error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		received, errReceived = s.repo.FindPendingReceived(ctx, userID)
	}()

	go func() {
		defer wg.Done()
		sent, errSent = s.repo.FindPendingSent(ctx, userID)
	}()

	wg.Wait()
	if errReceived != nil {
		s.cfg.Log.Error("Failed to load received requests", "user_id", userID, "error", errReceived)
		return nil, apperrors.Internal("Failed to retrieve pending connections", errReceived)
	}
	if errSent != nil {
		s.cfg.Log.Error("Failed to load sent requests", "user_id", userID, "error", errSent)
		return nil, apperrors.Internal("Failed to retrieve pending connections", errSent)
	}

	return &PendingConnections{Received: received, Sent: sent}, nil
}

func (s *connectionService) ListAccepted(ctx context.Context, userID string) ([]*model.Connection, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Acting user is required")
	}

	connections, err := s.repo.FindAccepted(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to load connections", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve connections", err)
	}

	return connections, nil
}

// Respond accepts or declines a pending request. Only the recipient may
// respond; a request already answered cannot be answered again.
func (s *connectionService) Respond(ctx context.Context, actorID, connectionID string, accept bool) (*model.Connection, error) {
	if actorID == "" {
		return nil, apperrors.Unauthorized("Acting user is required")
	}

	connection, err := s.repo.FindByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, socialerrors.ErrConnectionNotFound) {
			return nil, apperrors.NotFoundWithID("Connection", connectionID)
		}
		if errors.Is(err, socialerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid connection ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve connection", err)
	}

	if connection.RecipientID != actorID {
		return nil, apperrors.Forbidden("Only the recipient can respond to this request")
	}
	if connection.Status != model.ConnectionPending {
		return nil, apperrors.Conflict("This request has already been answered")
	}

	status := model.ConnectionDeclined
	if accept {
		status = model.ConnectionAccepted
	}

	if err := s.repo.SetStatus(ctx, connectionID, status); err != nil {
		s.cfg.Log.Error("Failed to update connection", "connection_id", connectionID, "error", err)
		return nil, apperrors.Internal("Failed to update connection", err)
	}

	connection.Status = status
	s.cfg.Log.Info("Connection answered",
		"connection_id", connectionID,
		"status", status,
	)
	return connection, nil
}
