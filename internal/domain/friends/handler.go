package friends

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"circles/internal/pkg/response"
)

// Notifier pushes realtime events to a connected user. Delivery is
// best effort and never changes the outcome of a request.
type Notifier interface {
	Push(userID int64, eventType string, payload any)
}

const (
	eventFriendRequest   = "friend_request"
	eventRequestAccepted = "request_accepted"
	eventRequestDeclined = "request_declined"
)

type Handler struct {
	service  *Service
	notifier Notifier
}

// NewHandler creates the friends handler; notifier may be nil.
func NewHandler(service *Service, notifier Notifier) *Handler {
	return &Handler{service: service, notifier: notifier}
}

// SendRequest отправляет заявку в друзья.
// @Summary		Send friend request
// @Description	Creates a pending friend request to another user.
// @Tags		Friends
// @Security	BearerAuth
// @Accept		json
// @Produce		json
// @Param		body	body	SendRequestBody	true	"payload"
// @Success		201	{object}		map[string]interface{}
// @Failure		404	{object}		map[string]interface{}
// @Failure		409	{object}		map[string]interface{}
// @Router		/friends/requests [post]
func (h *Handler) SendRequest(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req SendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	created, err := h.service.SendRequest(c.Request.Context(), userID, req.ReceiverID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfRequest):
			response.Error(c, http.StatusConflict, "SELF_REQUEST", "You can not send friend request to yourself")
		case errors.Is(err, ErrReceiverNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Receiver is not found")
		case errors.Is(err, ErrAlreadyFriends):
			response.Error(c, http.StatusConflict, "ALREADY_FRIENDS", "You are already friends with this user")
		case errors.Is(err, ErrDuplicateRequest):
			response.Error(c, http.StatusConflict, "REQUEST_EXISTS", "Friend request is already exists")
		default:
			response.Error(c, http.StatusInternalServerError, "REQUEST_FAILED", "Failed to send friend request")
		}
		return
	}

	if h.notifier != nil {
		h.notifier.Push(created.ReceiverID, eventFriendRequest, gin.H{
			"request_id": created.ID,
			"sender_id":  created.SenderID,
		})
	}

	response.Message(c, http.StatusCreated, "Request sending has been made successfully")
}

// ListRequests возвращает входящие нерассмотренные заявки.
// @Summary		List pending friend requests
// @Description	Returns the caller's pending incoming requests with sender details.
// @Tags		Friends
// @Security	BearerAuth
// @Produce		json
// @Success		200	{array}		RequestWithSender
// @Router		/friends/requests [get]
func (h *Handler) ListRequests(c *gin.Context) {
	userID := c.GetInt64("user_id")

	reqs, err := h.service.ListRequests(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to fetch friend requests")
		return
	}

	out := make([]RequestWithSender, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, toRequestWithSender(r))
	}

	response.Success(c, http.StatusOK, out)
}

// UpdateRequest принимает или отклоняет заявку.
// @Summary		Accept or decline a friend request
// @Description	Applies the accept/decline action to a pending request addressed to the caller.
// @Tags		Friends
// @Security	BearerAuth
// @Accept		json
// @Produce		json
// @Param		id		path	string				true	"Request ID"
// @Param		body	body	UpdateRequestBody	true	"payload"
// @Success		200	{object}		map[string]interface{}
// @Failure		400	{object}		map[string]interface{}
// @Router		/friends/requests/{id} [patch]
func (h *Handler) UpdateRequest(c *gin.Context) {
	userID := c.GetInt64("user_id")
	requestID := c.Param("id")

	var body UpdateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	action := RequestAction(body.Action)
	updated, err := h.service.UpdateRequest(c.Request.Context(), requestID, userID, action)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAction):
			response.Error(c, http.StatusBadRequest, "INVALID_ACTION", "The action is invalid")
		case errors.Is(err, ErrInvalidPendingRequest):
			// One rejection for missing, terminal and not-yours: no
			// hint about which it was.
			response.Error(c, http.StatusBadRequest, "INVALID_PENDING_REQUEST",
				fmt.Sprintf("There is no valid pending request to %s", body.Action))
		default:
			response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update friend request")
		}
		return
	}

	if h.notifier != nil {
		eventType := eventRequestDeclined
		if action == ActionAccept {
			eventType = eventRequestAccepted
		}
		h.notifier.Push(updated.SenderID, eventType, gin.H{"request_id": requestID})
	}

	response.Message(c, http.StatusOK, fmt.Sprintf("%s has been made successfully", body.Action))
}
