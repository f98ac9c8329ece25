package friends

import (
	"time"

	"circles/internal/domain/auth"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusDeclined RequestStatus = "declined"
)

type RequestAction string

const (
	ActionAccept  RequestAction = "accept"
	ActionDecline RequestAction = "decline"
)

// FriendRequest lives in exactly one of three states: created pending,
// it transitions once to accepted or declined and is immutable after.
type FriendRequest struct {
	ID         string        `json:"id" gorm:"primaryKey"`
	SenderID   int64         `json:"sender_id" gorm:"not null;index:idx_request_pair,priority:1"`
	ReceiverID int64         `json:"receiver_id" gorm:"not null;index:idx_request_pair,priority:2"`
	Status     RequestStatus `json:"status" gorm:"type:varchar(20);not null;index:idx_request_pair,priority:3"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Sender   auth.User `json:"-" gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	Receiver auth.User `json:"-" gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE"`
}

// Friendship is an unordered pair: membership checks always test both
// orderings. Created only when a request is accepted; never deleted.
type Friendship struct {
	ID      string `json:"id" gorm:"primaryKey"`
	UserID1 int64  `json:"user_id_1" gorm:"column:user_id_1;not null;index:idx_friend_pair,priority:1"`
	UserID2 int64  `json:"user_id_2" gorm:"column:user_id_2;not null;index:idx_friend_pair,priority:2"`

	CreatedAt time.Time `json:"created_at"`
}
