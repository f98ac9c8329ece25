package friends

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	group := protected.Group("/friends")
	{
		group.POST("/requests", h.SendRequest)
		group.GET("/requests", h.ListRequests)
		group.PATCH("/requests/:id", h.UpdateRequest)
	}
}
