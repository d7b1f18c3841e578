package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/channel-insights/channel-analyzer-go/internal/repository"
	"github.com/channel-insights/channel-analyzer-go/internal/service"
)

// HealthHandler handles health check endpoints. The repository and publisher
// are optional components and may be nil.
type HealthHandler struct {
	repo      *repository.Repository
	publisher *service.MessagePublisher
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(repo *repository.Repository, publisher *service.MessagePublisher) *HealthHandler {
	return &HealthHandler{
		repo:      repo,
		publisher: publisher,
	}
}

// LivenessProbe checks if the application is running.
func (h *HealthHandler) LivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"time":   time.Now(),
	})
}

// ReadinessProbe checks if the configured backing services are reachable.
func (h *HealthHandler) ReadinessProbe(c *gin.Context) {
	ctx := c.Request.Context()

	if h.repo != nil {
		if err := h.repo.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "DOWN",
				"database": "unhealthy",
				"error":    err.Error(),
				"time":     time.Now(),
			})
			return
		}
	}

	if h.publisher != nil && !h.publisher.IsHealthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "DOWN",
			"rabbitmq": "unhealthy",
			"time":     time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"time":   time.Now(),
	})
}
