package users

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"circles/internal/pkg/response"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Search ищет пользователей по имени, фамилии и возрасту.
// @Summary		Search users
// @Description	Finds users by first name, last name and age. The caller is never included.
// @Tags		Users
// @Security	BearerAuth
// @Produce		json
// @Param		firstName	query	string	false	"First name substring"
// @Param		lastName	query	string	false	"Last name substring"
// @Param		age			query	int		false	"Exact age"
// @Success		200	{object}		map[string]interface{}
// @Router		/users [get]
func (h *Handler) Search(c *gin.Context) {
	userID := c.GetInt64("user_id")

	params := SearchParams{
		FirstName: c.Query("firstName"),
		LastName:  c.Query("lastName"),
		ExcludeID: userID,
	}
	if raw := c.Query("age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "The age is invalid")
			return
		}
		params.Age = age
	}

	found, err := h.repo.Search(c.Request.Context(), params)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "SEARCH_FAILED", "Failed to search users")
		return
	}

	response.Success(c, http.StatusOK, found)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/users", h.Search)
}
