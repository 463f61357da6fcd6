package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cgmis/guidance/internal/app/models/dto"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController answers liveness and readiness checks
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController; db may be nil
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health reports liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service is up"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// Ready reports whether the database answers
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Database reachable"
// @Failure 503 {object} dto.HealthResponse "Database unreachable"
// @Router /health/ready [get]
func (c *HealthController) Ready(ctx *gin.Context) {
	if c.db != nil {
		if err := c.db.Ping(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable"})
			return
		}
	}
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
