package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/database"
)

// HealthHandler reports process and dependency health
type HealthHandler struct {
	conn        *database.Connection
	redisClient *redis.Client
}

// NewHealthHandler creates a new health handler instance. redisClient may be
// nil when no cache is configured.
func NewHealthHandler(conn *database.Connection, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{conn: conn, redisClient: redisClient}
}

// Liveness handles the GET /health endpoint
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles the GET /health/ready endpoint, checking the ledger
// store and, when configured, the cache
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()

	sqlDB, err := h.conn.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}

	checks := gin.H{"database": "ok"}
	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			checks["cache"] = "unreachable"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"checks": checks,
			})
			return
		}
		checks["cache"] = "ok"
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}
