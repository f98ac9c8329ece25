package friends

import (
	"context"
)

// UserReader — only the user lookup the engine needs
type UserReader interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// Service mediates every state change to the relationship graph.
// All state is re-derived from the store per call; the multi-step
// check-then-write sequences run inside one database transaction.
type Service struct {
	repo  Repository
	users UserReader
}

func NewService(repo Repository, users UserReader) *Service {
	return &Service{repo: repo, users: users}
}

// SendRequest creates a pending request from sender to receiver.
// Rejections, in order: self request, unknown receiver, already
// friends, pending request already open in either direction.
func (s *Service) SendRequest(ctx context.Context, senderID, receiverID int64) (*FriendRequest, error) {
	if senderID == receiverID {
		return nil, ErrSelfRequest
	}

	exists, err := s.users.ExistsByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrReceiverNotFound
	}

	var created *FriendRequest
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		friends, err := tx.AreFriends(ctx, senderID, receiverID)
		if err != nil {
			return err
		}
		if friends {
			return ErrAlreadyFriends
		}

		pending, err := tx.PendingExists(ctx, senderID, receiverID)
		if err != nil {
			return err
		}
		if pending {
			return ErrDuplicateRequest
		}

		created, err = tx.CreateRequest(ctx, senderID, receiverID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListRequests returns the caller's pending incoming requests with the
// sender preloaded.
func (s *Service) ListRequests(ctx context.Context, userID int64) ([]*FriendRequest, error) {
	return s.repo.ListPendingByReceiver(ctx, userID)
}

// UpdateRequest applies accept or decline on behalf of the receiver.
// A missing id, a terminal request and a wrong receiver all collapse
// into the same ErrInvalidPendingRequest so the caller cannot tell
// "not found" from "not yours". Accepting creates the friendship edge
// in the same transaction as the status flip.
func (s *Service) UpdateRequest(ctx context.Context, requestID string, actingUserID int64, action RequestAction) (*FriendRequest, error) {
	if action != ActionAccept && action != ActionDecline {
		return nil, ErrInvalidAction
	}

	var updated *FriendRequest
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		req, err := tx.GetPendingForReceiver(ctx, requestID, actingUserID)
		if err != nil {
			return err
		}
		updated = req

		if action == ActionDecline {
			req.Status = StatusDeclined
			return tx.UpdateStatus(ctx, req.ID, StatusDeclined)
		}

		if err := tx.UpdateStatus(ctx, req.ID, StatusAccepted); err != nil {
			return err
		}
		req.Status = StatusAccepted
		return tx.CreateFriendship(ctx, req.SenderID, req.ReceiverID)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
