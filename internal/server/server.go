package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/config"
	"github.com/pageza/recipe-catalog/backend/internal/api"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/router"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/store"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New wires stores, services and handlers around the given storage handle.
// rdb may be nil, which disables write rate limiting.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*Server, error) {
	ingredientStore := store.NewIngredientStore(db)
	userStore := store.NewUserStore(db)

	authService := service.NewAuthService(userStore, service.NewJWTCodec(cfg.JWTSecret), cfg.JWTExpiresIn, cfg.BcryptCost)
	userService := service.NewUserService(userStore, authService)
	recipeService := service.NewRecipeService(store.NewRecipeStore(db), store.NewInstructionStore(db))
	ingredientService := service.NewIngredientService(ingredientStore)

	var limiter *middleware.RateLimiter
	if rdb != nil {
		limiter = middleware.NewWriteRateLimiter(rdb, cfg.RateLimitWrites, cfg.RateLimitWindow)
	}

	engine := router.SetupRouter(router.Handlers{
		Health:      api.NewHealthHandler(db),
		Auth:        api.NewAuthHandler(authService),
		Users:       api.NewUserHandler(userService, authService),
		Recipes:     api.NewRecipeHandler(recipeService, authService, limiter),
		Ingredients: api.NewIngredientHandler(ingredientService, authService),
	}, cfg.CORSAllowedOrigins)

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}, nil
}

// Handler exposes the routing engine.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	logging.Info(context.Background(), "http server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
