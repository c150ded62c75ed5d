package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// RecipeHandler serves recipes and their instructions.
type RecipeHandler struct {
	recipes service.IRecipeService
	authn   middleware.Authenticator
	limiter *middleware.RateLimiter
}

// NewRecipeHandler creates a handler. limiter may be nil to disable write
// rate limiting.
func NewRecipeHandler(recipes service.IRecipeService, authn middleware.Authenticator, limiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, authn: authn, limiter: limiter}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	optional := middleware.OptionalAuth(h.authn)
	write := []gin.HandlerFunc{middleware.RequireAuth(h.authn), h.limiter.Middleware()}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, h.ListRecipes)
		recipes.GET("/:id", optional, h.GetRecipe)
		recipes.GET("/:id/instructions", optional, h.ListInstructions)
		recipes.POST("", append(write, h.CreateRecipe)...)
		recipes.PUT("/:id", append(write, h.UpdateRecipe)...)
		recipes.DELETE("/:id", append(write, h.DeleteRecipe)...)
		recipes.POST("/:id/instructions", append(write, h.AddInstruction)...)
	}

	instructions := router.Group("/instructions")
	{
		instructions.GET("/:id", optional, h.GetInstruction)
		instructions.PUT("/:id", append(write, h.UpdateInstruction)...)
		instructions.DELETE("/:id", append(write, h.DeleteInstruction)...)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var q types.ListRecipesQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.recipes.ListRecipes(c.Request.Context(), middleware.CurrentIdentity(c), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.UpdateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), middleware.CurrentIdentity(c), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) ListInstructions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.recipes.ListInstructions(c.Request.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"instructions": list})
}

func (h *RecipeHandler) AddInstruction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.InstructionInput
	if !bindJSON(c, &req) {
		return
	}
	ins, err := h.recipes.AddInstruction(c.Request.Context(), middleware.CurrentIdentity(c), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ins)
}

func (h *RecipeHandler) GetInstruction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ins, err := h.recipes.GetInstruction(c.Request.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ins)
}

func (h *RecipeHandler) UpdateInstruction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.UpdateInstructionRequest
	if !bindJSON(c, &req) {
		return
	}
	ins, err := h.recipes.UpdateInstruction(c.Request.Context(), middleware.CurrentIdentity(c), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ins)
}

func (h *RecipeHandler) DeleteInstruction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.DeleteInstruction(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
