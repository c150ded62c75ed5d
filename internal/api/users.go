package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

type UserHandler struct {
	users service.IUserService
	authn middleware.Authenticator
}

func NewUserHandler(users service.IUserService, authn middleware.Authenticator) *UserHandler {
	return &UserHandler{users: users, authn: authn}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(middleware.RequireAuth(h.authn))
	{
		users.GET("/me", h.GetProfile)
		users.PUT("/me", h.UpdateProfile)
		users.DELETE("/me", h.DeleteProfile)
		users.GET("/me/recipes", h.MyRecipes)

		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.users.GetProfile(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req types.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteProfile(c *gin.Context) {
	if err := h.users.DeleteProfile(c.Request.Context(), middleware.CurrentIdentity(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) MyRecipes(c *gin.Context) {
	recipes, err := h.users.MyRecipes(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var q types.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	users, total, err := h.users.ListUsers(c.Request.Context(), middleware.CurrentIdentity(c), pageOf(q))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.UpdateUser(c.Request.Context(), middleware.CurrentIdentity(c), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.users.DeleteUser(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
