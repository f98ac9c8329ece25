package friends

import "time"

type SendRequestBody struct {
	ReceiverID int64 `json:"receiver_id" binding:"required"`
}

type UpdateRequestBody struct {
	Action string `json:"action" binding:"required"`
}

// RequestWithSender is the list-view projection: request fields joined
// with the sender's public profile. The password digest never crosses
// this boundary.
type RequestWithSender struct {
	ID              string    `json:"id"`
	SenderID        int64     `json:"sender_id"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	SenderFirstName string    `json:"sender_first_name"`
	SenderLastName  string    `json:"sender_last_name"`
	SenderEmail     string    `json:"sender_email"`
}

func toRequestWithSender(req *FriendRequest) RequestWithSender {
	return RequestWithSender{
		ID:              req.ID,
		SenderID:        req.SenderID,
		Status:          string(req.Status),
		CreatedAt:       req.CreatedAt,
		SenderFirstName: req.Sender.FirstName,
		SenderLastName:  req.Sender.LastName,
		SenderEmail:     req.Sender.Email,
	}
}
