package friends

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles persistence for friend requests and friendship
// edges. Transaction returns a Repository bound to one database
// transaction so check-then-write sequences stay atomic.
type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	CreateRequest(ctx context.Context, senderID, receiverID int64) (*FriendRequest, error)
	PendingExists(ctx context.Context, userA, userB int64) (bool, error)
	GetPendingForReceiver(ctx context.Context, id string, receiverID int64) (*FriendRequest, error)
	UpdateStatus(ctx context.Context, id string, status RequestStatus) error
	ListPendingByReceiver(ctx context.Context, receiverID int64) ([]*FriendRequest, error)

	AreFriends(ctx context.Context, userA, userB int64) (bool, error)
	CreateFriendship(ctx context.Context, userA, userB int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) CreateRequest(ctx context.Context, senderID, receiverID int64) (*FriendRequest, error) {
	req := &FriendRequest{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// PendingExists checks both orderings: a pending request in either
// direction blocks a new one for the pair.
func (r *repository) PendingExists(ctx context.Context, userA, userB int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&FriendRequest{}).
		Where("status = ?", StatusPending).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) GetPendingForReceiver(ctx context.Context, id string, receiverID int64) (*FriendRequest, error) {
	var req FriendRequest
	err := r.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ? AND status = ?", id, receiverID, StatusPending).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidPendingRequest
		}
		return nil, err
	}
	return &req, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status RequestStatus) error {
	return r.db.WithContext(ctx).
		Model(&FriendRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) ListPendingByReceiver(ctx context.Context, receiverID int64) ([]*FriendRequest, error) {
	var reqs []*FriendRequest
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("receiver_id = ? AND status = ?", receiverID, StatusPending).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) AreFriends(ctx context.Context, userA, userB int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Friendship{}).
		Where("(user_id_1 = ? AND user_id_2 = ?) OR (user_id_1 = ? AND user_id_2 = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateFriendship(ctx context.Context, userA, userB int64) error {
	return r.db.WithContext(ctx).Create(&Friendship{
		ID:        uuid.New().String(),
		UserID1:   userA,
		UserID2:   userB,
		CreatedAt: time.Now(),
	}).Error
}
