package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

type IngredientHandler struct {
	ingredients service.IIngredientService
	authn       middleware.Authenticator
}

func NewIngredientHandler(ingredients service.IIngredientService, authn middleware.Authenticator) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients, authn: authn}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	optional := middleware.OptionalAuth(h.authn)
	required := middleware.RequireAuth(h.authn)

	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", optional, h.ListIngredients)
		ingredients.GET("/:id", optional, h.GetIngredient)
		ingredients.POST("", required, h.CreateIngredient)
		ingredients.PUT("/:id", required, h.UpdateIngredient)
		ingredients.DELETE("/:id", required, h.DeleteIngredient)
	}
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	var q types.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := h.ingredients.ListIngredients(c.Request.Context(), middleware.CurrentIdentity(c), pageOf(q))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": list})
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ing, err := h.ingredients.GetIngredient(c.Request.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	var req types.CreateIngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	ing, err := h.ingredients.CreateIngredient(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ing)
}

func (h *IngredientHandler) UpdateIngredient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.UpdateIngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	ing, err := h.ingredients.UpdateIngredient(c.Request.Context(), middleware.CurrentIdentity(c), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ingredients.DeleteIngredient(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
