package notify

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"circles/internal/pkg/response"
)

// RegisterProtectedRoutes mounts the websocket endpoint. Auth runs in
// the surrounding middleware; here the user id is already resolved.
func (h *Hub) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/ws", func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		h.Serve(userID, c.Writer, c.Request)
	})
}
