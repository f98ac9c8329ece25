package friends

import "errors"

var (
	ErrSelfRequest           = errors.New("cannot send friend request to yourself")
	ErrReceiverNotFound      = errors.New("receiver not found")
	ErrAlreadyFriends        = errors.New("users are already friends")
	ErrDuplicateRequest      = errors.New("friend request already exists")
	ErrInvalidPendingRequest = errors.New("no valid pending request")
	ErrInvalidAction         = errors.New("invalid request action")
)
