package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/barky-backend/internal/http/response"
	"github.com/yungbote/barky-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/users
func (uh *UserHandler) List(c *gin.Context) {
	views, err := uh.userService.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	out := make([]userJSON, 0, len(views))
	for _, v := range views {
		out = append(out, serializeUser(v))
	}
	response.RespondOK(c, out)
}

// GET /api/users/:id
func (uh *UserHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	v, err := uh.userService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, serializeUser(v))
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, serializeUser(me))
}

// PUT/PATCH /api/users/:id
// body: { "username", "password", "email", "first_name", "last_name" } (all optional)
func (uh *UserHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	var req struct {
		Username  *string `json:"username"`
		Password  *string `json:"password"`
		Email     *string `json:"email"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	v, err := uh.userService.Update(c.Request.Context(), id, services.UserUpdate{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, serializeUser(v))
}

// DELETE /api/users/:id
func (uh *UserHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	if err := uh.userService.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}
