package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/database"
)

const serviceName = "recipe-catalog"

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck returns the health status of the API and its database.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status, code := "ok", http.StatusOK
	dbStatus := "ok"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.HealthCheck(ctx, h.db); err != nil {
			status, dbStatus, code = "degraded", "unavailable", http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
		"database":  dbStatus,
	})
}
