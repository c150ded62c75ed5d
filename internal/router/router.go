package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/backend/internal/api"
	"github.com/pageza/recipe-catalog/backend/internal/middleware"
)

// Handlers are the route groups mounted under /api/v1.
type Handlers struct {
	Health      *api.HealthHandler
	Auth        *api.AuthHandler
	Users       *api.UserHandler
	Recipes     *api.RecipeHandler
	Ingredients *api.IngredientHandler
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.CORS(allowedOrigins),
		middleware.ErrorHandler(),
	)

	router.GET("/health", h.Health.HealthCheck)
	router.GET("/api/health", h.Health.HealthCheck)

	v1 := router.Group("/api/v1")
	h.Auth.RegisterRoutes(v1)
	h.Users.RegisterRoutes(v1)
	h.Recipes.RegisterRoutes(v1)
	h.Ingredients.RegisterRoutes(v1)

	return router
}
